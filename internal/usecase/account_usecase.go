package usecase

import (
	"context"
	"time"

	"github.com/iho/feefines/internal/domain"
)

// AccountUseCase handles fee/fine creation and lookups.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	actionRepo  ActionRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	actionRepo ActionRepository,
	idGen IDGenerator,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		actionRepo:  actionRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for charging a patron.
type CreateAccountInput struct {
	UserID        string
	FeeFineTypeID string
	FeeFineType   string
	OwnerID       string
	FeeFineOwner  string
	LoanID        *string
	Amount        string
	Metadata      domain.ActionMetadata
}

// CreateAccount charges a patron and records the CHARGE action.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateRequiredID("userId", input.UserID); err != nil {
		return nil, err
	}
	if err := domain.ValidateRequiredID("feeFineTypeId", input.FeeFineTypeID); err != nil {
		return nil, err
	}
	if err := domain.ValidateRequiredID("ownerId", input.OwnerID); err != nil {
		return nil, err
	}

	amount, err := domain.ParseMonetaryValue(input.Amount)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, domain.ErrNonPositiveAmount
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	now := time.Now().UTC()

	account := &domain.Account{
		ID:            uc.idGen.Generate(),
		UserID:        input.UserID,
		FeeFineTypeID: input.FeeFineTypeID,
		FeeFineType:   input.FeeFineType,
		OwnerID:       input.OwnerID,
		FeeFineOwner:  input.FeeFineOwner,
		LoanID:        input.LoanID,
		Amount:        amount,
		Remaining:     amount,
		Status:        domain.AccountStatusOpen,
		PaymentStatus: domain.ActionTypeCharge.Label(false),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	charge := &domain.Action{
		ID:                     uc.idGen.Generate(),
		AccountID:              account.ID,
		UserID:                 account.UserID,
		TypeAction:             domain.ActionTypeCharge.Label(false),
		AmountAction:           amount,
		Balance:                amount,
		PaymentMethod:          input.Metadata.PaymentMethod,
		TransactionInformation: input.Metadata.TransactionInfo,
		Comments:               input.Metadata.Comments,
		Source:                 input.Metadata.UserName,
		CreatedAt:              input.Metadata.ServicePointID,
		NotifyPatron:           input.Metadata.NotifyPatron,
		DateAction:             now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	if err := uc.actionRepo.Create(ctx, tx, charge); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves a fee/fine by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	if err := domain.ValidateRequiredID("accountId", id); err != nil {
		return nil, err
	}
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing fees/fines.
type ListAccountsInput struct {
	UserID string
	Limit  int
	Offset int
}

// ListAccounts lists fees/fines with pagination, optionally for one patron.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}
	if input.UserID != "" {
		return uc.accountRepo.ListByUser(ctx, input.UserID, limit, offset)
	}
	return uc.accountRepo.List(ctx, limit, offset)
}

// ListActions returns the ledger of a fee/fine in ledger order.
func (uc *AccountUseCase) ListActions(ctx context.Context, accountID string) ([]*domain.Action, error) {
	if _, err := uc.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	actions, err := uc.actionRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	domain.SortActions(actions)
	return actions, nil
}
