package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/adk/bankledger/internal/domain"
)

// AccountUseCase handles account provisioning. The ledger engine never
// mutates accounts; it only locks them.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	UserID   string
	Type     string
	Currency string
}

// CreateAccount provisions a new active account.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateUserID(input.UserID); err != nil {
		return nil, err
	}

	if err := domain.ValidateAccountType(input.Type); err != nil {
		return nil, err
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		UserID:    strings.TrimSpace(input.UserID),
		Type:      strings.ToLower(strings.TrimSpace(input.Type)),
		Currency:  strings.ToUpper(strings.TrimSpace(input.Currency)),
		Status:    domain.AccountStatusActive,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// CloseAccount marks an account closed. Closed accounts reject new
// transactions; their ledger history stays readable.
func (uc *AccountUseCase) CloseAccount(ctx context.Context, id string) error {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if account.Status == domain.AccountStatusClosed {
		return nil
	}

	return uc.accountRepo.UpdateStatus(ctx, id, domain.AccountStatusClosed)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.accountRepo.List(ctx, limit, offset)
}
