package mocks

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/adk/bankledger/internal/domain"
	"github.com/adk/bankledger/internal/usecase"
)

// LedgerStore is an in-memory store with real per-account mutual exclusion
// and staged, all-or-nothing commits. It mirrors the semantics the Postgres
// adapter gets from SELECT ... FOR UPDATE and transactional writes, which
// lets unit tests drive the engine with genuine concurrency: row locks block,
// writes stay invisible until commit, and a rollback discards everything.
type LedgerStore struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	txns     map[string]*domain.Transaction
	entries  []*domain.LedgerEntry
	locks    map[string]*sync.Mutex

	// FailEntryCreate injects a storage failure into entry writes.
	FailEntryCreate func(entry *domain.LedgerEntry) error
}

// NewLedgerStore creates an empty LedgerStore.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		accounts: make(map[string]*domain.Account),
		txns:     make(map[string]*domain.Transaction),
		locks:    make(map[string]*sync.Mutex),
	}
}

// AddAccount seeds an account.
func (s *LedgerStore) AddAccount(account *domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = account
}

// SeedBalance appends a committed credit entry so the account starts with a
// non-zero derived balance.
func (s *LedgerStore) SeedBalance(accountID, entryID string, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, &domain.LedgerEntry{
		ID:        entryID,
		AccountID: accountID,
		Type:      domain.EntryTypeCredit,
		Amount:    amount,
	})
}

// EntryCount returns the number of committed entries.
func (s *LedgerStore) EntryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// TransactionCount returns the number of committed transaction records.
func (s *LedgerStore) TransactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txns)
}

func (s *LedgerStore) lockFor(accountID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[accountID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[accountID] = l
	}
	return l
}

// Begin starts a staged transaction. Implements usecase.TransactionManager.
func (s *LedgerStore) Begin(ctx context.Context) (usecase.Transaction, error) {
	return &storeTx{store: s}, nil
}

// Accounts returns the account repository view.
func (s *LedgerStore) Accounts() usecase.AccountRepository { return &storeAccounts{s} }

// Transactions returns the transaction repository view.
func (s *LedgerStore) Transactions() usecase.TransactionRepository { return &storeTxns{s} }

// Entries returns the entry repository view.
func (s *LedgerStore) Entries() usecase.EntryRepository { return &storeEntries{s} }

// storeTx stages writes and holds account locks until commit or rollback.
type storeTx struct {
	store         *LedgerStore
	held          []*sync.Mutex
	stagedTxns    []*domain.Transaction
	stagedEntries []*domain.LedgerEntry
	done          bool
}

func (t *storeTx) lockAccount(accountID string) {
	l := t.store.lockFor(accountID)
	l.Lock()
	t.held = append(t.held, l)
}

func (t *storeTx) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.held[i].Unlock()
	}
	t.held = nil
}

func (t *storeTx) Commit(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true

	t.store.mu.Lock()
	for _, txn := range t.stagedTxns {
		t.store.txns[txn.ID] = txn
	}
	t.store.entries = append(t.store.entries, t.stagedEntries...)
	t.store.mu.Unlock()

	t.release()
	return nil
}

func (t *storeTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.stagedTxns = nil
	t.stagedEntries = nil
	t.release()
	return nil
}

type storeAccounts struct {
	store *LedgerStore
}

func (r *storeAccounts) Create(ctx context.Context, account *domain.Account) error {
	r.store.AddAccount(account)
	return nil
}

func (r *storeAccounts) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if acc, ok := r.store.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (r *storeAccounts) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	st := tx.(*storeTx)
	st.lockAccount(id)
	return r.GetByID(ctx, id)
}

func (r *storeAccounts) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	st := tx.(*storeTx)

	var accounts []*domain.Account
	for _, id := range ids {
		st.lockAccount(id)
		acc, err := r.GetByID(ctx, id)
		if err != nil {
			continue
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

func (r *storeAccounts) UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	acc, ok := r.store.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Status = status
	return nil
}

func (r *storeAccounts) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var accounts []*domain.Account
	for _, acc := range r.store.accounts {
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

type storeTxns struct {
	store *LedgerStore
}

func (r *storeTxns) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	st := tx.(*storeTx)
	st.stagedTxns = append(st.stagedTxns, txn)
	return nil
}

func (r *storeTxns) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if txn, ok := r.store.txns[id]; ok {
		return txn, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (r *storeTxns) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var txns []*domain.Transaction
	for _, txn := range r.store.txns {
		if refersTo(txn.SourceAccountID, accountID) || refersTo(txn.DestinationAccountID, accountID) {
			txns = append(txns, txn)
		}
	}
	return txns, nil
}

type storeEntries struct {
	store *LedgerStore
}

func (r *storeEntries) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if r.store.FailEntryCreate != nil {
		if err := r.store.FailEntryCreate(entry); err != nil {
			return err
		}
	}
	st := tx.(*storeTx)
	st.stagedEntries = append(st.stagedEntries, entry)
	return nil
}

func (r *storeEntries) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var entries []*domain.LedgerEntry
	for _, e := range r.store.entries {
		if e.AccountID == accountID {
			entries = append(entries, e)
		}
	}
	if offset >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (r *storeEntries) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.sumLocked(accountID, nil), nil
}

func (r *storeEntries) SumByAccountTx(ctx context.Context, tx usecase.Transaction, accountID string) (decimal.Decimal, error) {
	st := tx.(*storeTx)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.sumLocked(accountID, st.stagedEntries), nil
}

func (r *storeEntries) sumLocked(accountID string, staged []*domain.LedgerEntry) decimal.Decimal {
	var entries []*domain.LedgerEntry
	for _, e := range r.store.entries {
		if e.AccountID == accountID {
			entries = append(entries, e)
		}
	}
	for _, e := range staged {
		if e.AccountID == accountID {
			entries = append(entries, e)
		}
	}
	return domain.ComputeBalance(entries)
}
