package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/adk/bankledger/internal/adapter/http/dto"
	"github.com/adk/bankledger/internal/domain"
	"github.com/adk/bankledger/internal/usecase"
)

type ledgerServiceStub struct {
	depositFn  func(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error)
	withdrawFn func(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error)
	transferFn func(ctx context.Context, from, to string, amount decimal.Decimal) (*domain.Transaction, error)
	getFn      func(ctx context.Context, id string) (*domain.Transaction, error)
	listFn     func(ctx context.Context, input usecase.ListTransactionsByAccountInput) ([]*domain.Transaction, error)
}

func (s *ledgerServiceStub) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.depositFn(ctx, accountID, amount)
}

func (s *ledgerServiceStub) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.withdrawFn(ctx, accountID, amount)
}

func (s *ledgerServiceStub) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.transferFn(ctx, from, to, amount)
}

func (s *ledgerServiceStub) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.getFn(ctx, id)
}

func (s *ledgerServiceStub) ListTransactionsByAccount(ctx context.Context, input usecase.ListTransactionsByAccountInput) ([]*domain.Transaction, error) {
	return s.listFn(ctx, input)
}

func completedTxn(kind domain.TransactionKind) *domain.Transaction {
	return &domain.Transaction{
		ID:       "tx-1",
		Kind:     kind,
		Amount:   decimal.NewFromInt(100),
		Currency: "USD",
		Status:   domain.TransactionStatusCompleted,
	}
}

func TestTransactionHandler_Deposit_Success(t *testing.T) {
	var gotAccount string
	var gotAmount decimal.Decimal

	handler := NewTransactionHandler(&ledgerServiceStub{
		depositFn: func(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error) {
			gotAccount = accountID
			gotAmount = amount
			return completedTxn(domain.TransactionKindDeposit), nil
		},
	}, nil)

	body, _ := json.Marshal(dto.DepositRequest{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(100),
	})
	req := httptest.NewRequest(http.MethodPost, "/transactions/deposit", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Deposit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotAccount != "acc-1" || !gotAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected call: account=%s amount=%s", gotAccount, gotAmount)
	}
}

func TestTransactionHandler_Withdraw_InsufficientFunds(t *testing.T) {
	handler := NewTransactionHandler(&ledgerServiceStub{
		withdrawFn: func(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error) {
			return nil, domain.ErrInsufficientFunds
		},
	}, nil)

	body, _ := json.Marshal(dto.WithdrawRequest{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(100),
	})
	req := httptest.NewRequest(http.MethodPost, "/transactions/withdraw", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Withdraw(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestTransactionHandler_Transfer_SameAccount(t *testing.T) {
	handler := NewTransactionHandler(&ledgerServiceStub{
		transferFn: func(ctx context.Context, from, to string, amount decimal.Decimal) (*domain.Transaction, error) {
			return nil, domain.ErrSameAccount
		},
	}, nil)

	body, _ := json.Marshal(dto.TransferRequest{
		SourceAccountID:      "acc-1",
		DestinationAccountID: "acc-1",
		Amount:               decimal.NewFromInt(10),
	})
	req := httptest.NewRequest(http.MethodPost, "/transactions/transfer", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Transfer(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_Transfer_StorageUnavailable(t *testing.T) {
	handler := NewTransactionHandler(&ledgerServiceStub{
		transferFn: func(ctx context.Context, from, to string, amount decimal.Decimal) (*domain.Transaction, error) {
			return nil, domain.NewStorageError("tx.commit", context.DeadlineExceeded, true)
		},
	}, nil)

	body, _ := json.Marshal(dto.TransferRequest{
		SourceAccountID:      "acc-1",
		DestinationAccountID: "acc-2",
		Amount:               decimal.NewFromInt(10),
	})
	req := httptest.NewRequest(http.MethodPost, "/transactions/transfer", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Transfer(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestTransactionHandler_Get(t *testing.T) {
	handler := NewTransactionHandler(&ledgerServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Transaction, error) {
			if id != "tx-1" {
				return nil, domain.ErrTransactionNotFound
			}
			return completedTxn(domain.TransactionKindTransfer), nil
		},
	}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/transactions/tx-1", nil), "id", "tx-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "tx-1" || resp.Kind != "transfer" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
