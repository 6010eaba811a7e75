package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/feefines/internal/domain"
)

// ActionUseCase applies pay, waive, transfer, cancel and refund actions to fees/fines.
type ActionUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	actionRepo  ActionRepository
	idGen       IDGenerator
	publisher   EventPublisher
	retrier     Retrier
	observer    Observer
	logger      zerolog.Logger
	targetOrder domain.TargetOrdering
	now         func() time.Time
}

// ActionUseCaseConfig holds the dependencies of ActionUseCase.
type ActionUseCaseConfig struct {
	TxManager   TransactionManager
	AccountRepo AccountRepository
	ActionRepo  ActionRepository
	IDGen       IDGenerator
	Publisher   EventPublisher // optional
	Retrier     Retrier        // optional, runs once when nil
	Observer    Observer       // optional
	Logger      *zerolog.Logger
	TargetOrder domain.TargetOrdering // optional, first-seen order when nil
	Clock       func() time.Time      // optional
}

// NewActionUseCase creates a new ActionUseCase.
func NewActionUseCase(cfg ActionUseCaseConfig) *ActionUseCase {
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	if cfg.Retrier == nil {
		cfg.Retrier = onceRetrier{}
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	if cfg.TargetOrder == nil {
		cfg.TargetOrder = domain.FirstSeenOrder
	}
	if cfg.Clock == nil {
		cfg.Clock = func() time.Time { return time.Now().UTC() }
	}

	return &ActionUseCase{
		txManager:   cfg.TxManager,
		accountRepo: cfg.AccountRepo,
		actionRepo:  cfg.ActionRepo,
		idGen:       cfg.IDGen,
		publisher:   cfg.Publisher,
		retrier:     cfg.Retrier,
		observer:    cfg.Observer,
		logger:      logger,
		targetOrder: cfg.TargetOrder,
		now:         cfg.Clock,
	}
}

// ActionInput represents a request against a single fee/fine.
type ActionInput struct {
	AccountID string
	Amount    string
	Metadata  domain.ActionMetadata
}

// ActionResult is what a successful action returns to the caller.
type ActionResult struct {
	AccountIDs      []string
	Amount          domain.MonetaryValue
	RemainingAmount domain.MonetaryValue
	Actions         []*domain.Action
	Accounts        []*domain.Account
}

// Pay records a payment.
func (uc *ActionUseCase) Pay(ctx context.Context, input ActionInput) (*ActionResult, error) {
	return uc.Apply(ctx, domain.ActionTypePay, input)
}

// Waive records a waiver.
func (uc *ActionUseCase) Waive(ctx context.Context, input ActionInput) (*ActionResult, error) {
	return uc.Apply(ctx, domain.ActionTypeWaive, input)
}

// Transfer records a transfer to an external destination.
func (uc *ActionUseCase) Transfer(ctx context.Context, input ActionInput) (*ActionResult, error) {
	return uc.Apply(ctx, domain.ActionTypeTransfer, input)
}

// Cancel cancels a fee/fine charged in error. The amount of the input is ignored.
func (uc *ActionUseCase) Cancel(ctx context.Context, input ActionInput) (*ActionResult, error) {
	return uc.Apply(ctx, domain.ActionTypeCancel, input)
}

// Refund refunds prior payments and transfers of one fee/fine.
func (uc *ActionUseCase) Refund(ctx context.Context, input ActionInput) (*ActionResult, error) {
	return uc.Apply(ctx, domain.ActionTypeRefund, input)
}

// Apply applies one action to one fee/fine.
func (uc *ActionUseCase) Apply(ctx context.Context, t domain.ActionType, input ActionInput) (*ActionResult, error) {
	return uc.execute(ctx, t, []string{input.AccountID}, input.Amount, input.Metadata, false)
}

func (uc *ActionUseCase) execute(
	ctx context.Context,
	t domain.ActionType,
	accountIDs []string,
	rawAmount string,
	meta domain.ActionMetadata,
	bulk bool,
) (*ActionResult, error) {
	ids := uniqueIDs(accountIDs)

	if err := checkActionType(t); err != nil {
		return nil, uc.reject(t, domain.NewActionError(err, rawAmount, ids...))
	}
	if len(ids) == 0 {
		return nil, uc.reject(t, domain.NewActionError(missingAccountsError(bulk), rawAmount))
	}

	var (
		result *ActionResult
		events []*domain.Event
	)

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		result, events, err = uc.executeTx(ctx, t, ids, rawAmount, meta, bulk)
		return err
	})
	if err != nil {
		var actionErr *domain.ActionError
		if !errors.As(err, &actionErr) {
			err = domain.NewActionError(err, rawAmount, ids...)
		}
		return nil, uc.reject(t, err)
	}

	uc.publish(ctx, events)
	uc.observer.ActionApplied(t, result.Amount)

	return result, nil
}

func (uc *ActionUseCase) executeTx(
	ctx context.Context,
	t domain.ActionType,
	ids []string,
	rawAmount string,
	meta domain.ActionMetadata,
	bulk bool,
) (*ActionResult, []*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	// 1. Begin transaction
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	// 2. Lock accounts in sorted order (DEADLOCK PREVENTION)
	accounts, err := uc.lockAccounts(ctx, tx, ids)
	if err != nil {
		return nil, nil, err
	}

	var targets [][]domain.RefundTarget
	if t == domain.ActionTypeRefund {
		if targets, err = uc.loadTargets(ctx, tx, accounts); err != nil {
			return nil, nil, err
		}
	}

	// 3. Validate and plan everything before the first write
	plan, err := uc.plan(t, accounts, targets, rawAmount, bulk)
	if err != nil {
		var actionErr *domain.ActionError
		if errors.As(err, &actionErr) {
			return nil, nil, err
		}
		if domain.IsValidationError(err) || errors.Is(err, domain.ErrAccountNotFound) {
			return nil, nil, domain.NewActionError(err, rawAmount, ids...)
		}
		return nil, nil, err
	}

	// 4. Apply the plan
	now := uc.now()
	result := &ActionResult{
		AccountIDs: ids,
		Amount:     plan.amount,
	}

	seq := int64(0)
	for i, account := range accounts {
		share := plan.shares[i]
		if !share.IsPositive() && t != domain.ActionTypeCancel {
			continue
		}

		var actions []*domain.Action
		if t == domain.ActionTypeRefund {
			actions, err = uc.applyRefund(ctx, tx, account, plan.targets[i], share, meta, now, &seq)
		} else {
			var action *domain.Action
			action, err = uc.applyDebit(ctx, tx, t, account, share, meta, now, &seq)
			actions = []*domain.Action{action}
		}
		if err != nil {
			return nil, nil, err
		}

		result.Actions = append(result.Actions, actions...)
		result.Accounts = append(result.Accounts, account)
	}

	// 5. Commit transaction
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	var events []*domain.Event
	remaining := domain.ZeroMoney
	for _, account := range result.Accounts {
		remaining = remaining.Add(account.Remaining)
		events = append(events, domain.EventsForAccount(account, uc.idGen.Generate, now)...)
	}
	result.RemainingAmount = remaining

	return result, events, nil
}

// applyDebit is the single-action processor for pay, waive, transfer and cancel.
func (uc *ActionUseCase) applyDebit(
	ctx context.Context,
	tx Transaction,
	t domain.ActionType,
	account *domain.Account,
	amount domain.MonetaryValue,
	meta domain.ActionMetadata,
	now time.Time,
	seq *int64,
) (*domain.Action, error) {
	if err := account.ValidateDebit(amount); err != nil {
		return nil, err
	}

	full := account.ApplyDebit(t, amount, now)

	*seq++
	action := &domain.Action{
		ID:                     uc.idGen.Generate(),
		AccountID:              account.ID,
		UserID:                 account.UserID,
		TypeAction:             t.Label(full),
		AmountAction:           amount,
		Balance:                account.Remaining,
		PaymentMethod:          meta.PaymentMethod,
		TransactionInformation: meta.TransactionInfo,
		Comments:               meta.Comments,
		Source:                 meta.UserName,
		CreatedAt:              meta.ServicePointID,
		NotifyPatron:           meta.NotifyPatron,
		DateAction:             now,
		Sequence:               *seq,
	}

	if err := uc.actionRepo.Create(ctx, tx, action); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.Update(ctx, tx, account); err != nil {
		return nil, err
	}

	return action, nil
}

func (uc *ActionUseCase) lockAccounts(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error) {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	locked, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, sorted)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Account, len(locked))
	for _, a := range locked {
		byID[a.ID] = a.Clone()
	}

	// Keep request order; missing accounts stay nil so validation reports them.
	accounts := make([]*domain.Account, len(ids))
	for i, id := range ids {
		accounts[i] = byID[id]
	}

	return accounts, nil
}

func (uc *ActionUseCase) publish(ctx context.Context, events []*domain.Event) {
	if uc.publisher == nil {
		return
	}

	for _, event := range events {
		if err := uc.publisher.Publish(ctx, event); err != nil {
			uc.observer.EventPublishFailed(event.EventType)
			uc.logger.Error().
				Err(err).
				Str("event_id", event.ID).
				Str("event_type", event.EventType).
				Str("account_id", event.AggregateID).
				Msg("failed to publish fee/fine event")
		}
	}
}

func (uc *ActionUseCase) reject(t domain.ActionType, err error) error {
	reason := "storage"
	if domain.IsValidationError(err) {
		reason = "validation"
	}
	if errors.Is(err, domain.ErrAccountNotFound) {
		reason = "not_found"
	}
	if errors.Is(err, domain.ErrStorageConflict) {
		reason = "conflict"
	}
	uc.observer.ActionRejected(t, reason)

	uc.logger.Debug().
		Err(err).
		Str("action_type", string(t)).
		Str("reason", reason).
		Msg("fee/fine action rejected")

	return err
}

func checkActionType(t domain.ActionType) error {
	switch t {
	case domain.ActionTypePay, domain.ActionTypeWaive, domain.ActionTypeTransfer,
		domain.ActionTypeCancel, domain.ActionTypeRefund:
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrUnsupportedAction, t)
}

// missingAccountsError is the failure for a request that names no fee/fine.
// A single-account request without an id is a fee/fine that does not exist.
func missingAccountsError(bulk bool) error {
	if bulk {
		return domain.ErrNoAccounts
	}
	return domain.ErrAccountNotFound
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))

	var unique []string
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	return unique
}

type onceRetrier struct{}

func (onceRetrier) Retry(_ context.Context, operation func() error) error {
	return operation()
}

type nopObserver struct{}

func (nopObserver) ActionApplied(domain.ActionType, domain.MonetaryValue) {}
func (nopObserver) ActionRejected(domain.ActionType, string)              {}
func (nopObserver) RefundAllocated(int, int)                              {}
func (nopObserver) EventPublishFailed(string)                             {}
