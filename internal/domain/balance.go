package domain

import "github.com/shopspring/decimal"

// ComputeBalance folds an ordered sequence of ledger entries into a balance:
// credits add, debits subtract. Returns zero for an empty history. Pure
// function; decimal arithmetic keeps repeated folds free of rounding drift.
func ComputeBalance(entries []*LedgerEntry) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range entries {
		if e.Type == EntryTypeCredit {
			balance = balance.Add(e.Amount)
		} else {
			balance = balance.Sub(e.Amount)
		}
	}
	return balance
}
