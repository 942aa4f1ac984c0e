package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/adk/bankledger/internal/adapter/http/dto"
	"github.com/adk/bankledger/internal/domain"
	"github.com/adk/bankledger/internal/usecase"
)

// BalanceService defines the behavior needed by LedgerHandler.
type BalanceService interface {
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	GetLedger(ctx context.Context, input usecase.GetLedgerInput) ([]*domain.LedgerEntry, error)
}

// AccountLookup resolves account metadata for responses.
type AccountLookup interface {
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
}

// LedgerHandler serves derived balances and entry listings.
type LedgerHandler struct {
	ledgerUC  BalanceService
	accountUC AccountLookup
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC BalanceService, accountUC AccountLookup) *LedgerHandler {
	return &LedgerHandler{
		ledgerUC:  ledgerUC,
		accountUC: accountUC,
	}
}

// GetBalance returns the account's derived balance.
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	balance, err := h.ledgerUC.GetBalance(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountID: id,
		Balance:   balance,
		Currency:  account.Currency,
	})
}

// ListEntries returns the account's postings, oldest first.
func (h *LedgerHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	entries, err := h.ledgerUC.GetLedger(r.Context(), usecase.GetLedgerInput{
		AccountID: id,
		Limit:     parseIntQuery(r, "limit", 50),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerResponse{
		AccountID: id,
		Entries:   dto.EntriesFromDomain(entries),
		Total:     int64(len(entries)),
	})
}
