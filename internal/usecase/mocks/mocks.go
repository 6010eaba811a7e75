package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iho/feefines/internal/domain"
	"github.com/iho/feefines/internal/usecase"
)

// stage defers fn until tx commits when tx is a MockTransaction, and runs it now otherwise.
func stage(tx usecase.Transaction, fn func()) {
	if mt, ok := tx.(*MockTransaction); ok {
		mt.later(fn)
		return
	}
	fn()
}

// MockAccountRepository is an in-memory AccountRepository. Writes made inside a
// MockTransaction only become visible on commit.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc            func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	UpdateFunc            func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	ListByUserFunc        func(ctx context.Context, userID string, limit, offset int) ([]*domain.Account, error)
	ListFunc              func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed stores accounts as committed state.
func (m *MockAccountRepository) Seed(accounts ...*domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range accounts {
		m.accounts[a.ID] = a.Clone()
	}
}

// Get returns the committed account or nil.
func (m *MockAccountRepository) Get(id string) *domain.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc.Clone()
	}
	return nil
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	stored := account.Clone()
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.accounts[stored.ID] = stored
	})
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	if acc := m.Get(id); acc != nil {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			accounts = append(accounts, acc.Clone())
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, account)
	}
	stored := account.Clone()
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		stored.Version++
		m.accounts[stored.ID] = stored
	})
	return nil
}

func (m *MockAccountRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Account, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit, offset)
	}
	all, _ := m.List(ctx, 0, 0)
	var accounts []*domain.Account
	for _, acc := range all {
		if acc.UserID == userID {
			accounts = append(accounts, acc)
		}
	}
	return page(accounts, limit, offset), nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, acc.Clone())
	}
	m.mu.RUnlock()

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return page(accounts, limit, offset), nil
}

func page(accounts []*domain.Account, limit, offset int) []*domain.Account {
	if limit <= 0 {
		return accounts
	}
	if offset >= len(accounts) {
		return nil
	}
	end := offset + limit
	if end > len(accounts) {
		end = len(accounts)
	}
	return accounts[offset:end]
}

// MockActionRepository is an in-memory ActionRepository.
type MockActionRepository struct {
	mu      sync.RWMutex
	actions map[string][]*domain.Action
	seq     int64

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, action *domain.Action) error
	ListByAccountFunc   func(ctx context.Context, accountID string) ([]*domain.Action, error)
	ListByAccountTxFunc func(ctx context.Context, tx usecase.Transaction, accountID string) ([]*domain.Action, error)
}

func NewMockActionRepository() *MockActionRepository {
	return &MockActionRepository{
		actions: make(map[string][]*domain.Action),
	}
}

// Seed stores actions as committed state.
func (m *MockActionRepository) Seed(actions ...*domain.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range actions {
		m.insert(a)
	}
}

// Count returns the number of committed actions for an account.
func (m *MockActionRepository) Count(accountID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.actions[accountID])
}

func (m *MockActionRepository) insert(a *domain.Action) {
	stored := *a
	m.seq++
	stored.Sequence = m.seq
	m.actions[stored.AccountID] = append(m.actions[stored.AccountID], &stored)
}

func (m *MockActionRepository) Create(ctx context.Context, tx usecase.Transaction, action *domain.Action) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, action)
	}
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.insert(action)
	})
	return nil
}

func (m *MockActionRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Action, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	actions := make([]*domain.Action, 0, len(m.actions[accountID]))
	for _, a := range m.actions[accountID] {
		c := *a
		actions = append(actions, &c)
	}
	domain.SortActions(actions)
	return actions, nil
}

func (m *MockActionRepository) ListByAccountTx(ctx context.Context, tx usecase.Transaction, accountID string) ([]*domain.Action, error) {
	if m.ListByAccountTxFunc != nil {
		return m.ListByAccountTxFunc(ctx, tx, accountID)
	}
	return m.ListByAccount(ctx, accountID)
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu  sync.Mutex
	txs []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.txs = append(m.txs, tx)
	return tx, nil
}

// Transactions returns every transaction begun so far.
func (m *MockTransactionManager) Transactions() []*MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockTransaction(nil), m.txs...)
}

// MockTransaction buffers staged writes until Commit.
type MockTransaction struct {
	mu         sync.Mutex
	pending    []func()
	committed  bool
	rolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) later(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, fn)
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		if err := m.CommitFunc(ctx); err != nil {
			return err
		}
	}
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.committed = true
	m.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.committed {
		m.pending = nil
		m.rolledBack = true
	}
	return nil
}

// Committed reports whether Commit succeeded.
func (m *MockTransaction) Committed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.committed
}

// RolledBack reports whether the transaction was rolled back before commit.
func (m *MockTransaction) RolledBack() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rolledBack
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockRetrier runs the operation up to MaxAttempts times while it fails with a storage conflict.
type MockRetrier struct {
	MaxAttempts int
	Attempts    int
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	attempts := m.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		m.Attempts++
		if err = operation(); err == nil || !errors.Is(err, domain.ErrStorageConflict) {
			return err
		}
	}
	return err
}

// MockIdempotencyStore is an in-memory IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.Mutex
	data map[string]usecase.IdempotencyRecord

	ReserveFunc  func(ctx context.Context, key, fingerprint string, ttl time.Duration) (*usecase.IdempotencyRecord, bool, error)
	CompleteFunc func(ctx context.Context, key string, record usecase.IdempotencyRecord, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string]usecase.IdempotencyRecord),
	}
}

func (m *MockIdempotencyStore) Reserve(ctx context.Context, key, fingerprint string, ttl time.Duration) (*usecase.IdempotencyRecord, bool, error) {
	if m.ReserveFunc != nil {
		return m.ReserveFunc(ctx, key, fingerprint, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return &existing, false, nil
	}
	m.data[key] = usecase.IdempotencyRecord{Fingerprint: fingerprint, Pending: true}
	return nil, true, nil
}

func (m *MockIdempotencyStore) Complete(ctx context.Context, key string, record usecase.IdempotencyRecord, ttl time.Duration) error {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, key, record, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = record
	return nil
}

func (m *MockIdempotencyStore) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Record returns the stored record for key.
func (m *MockIdempotencyStore) Record(key string) (usecase.IdempotencyRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.data[key]
	return rec, ok
}
