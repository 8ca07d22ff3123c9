package events

import "time"

// TransactionCompleted is emitted after a balance mutation and its ledger
// entry have both been committed.
type TransactionCompleted struct {
	EntryID      string    `json:"entry_id"`
	AccountID    string    `json:"account_id"`
	Kind         string    `json:"kind"`
	Amount       int64     `json:"amount"`
	BalanceAfter int64     `json:"balance_after"`
	OccurredAt   time.Time `json:"occurred_at"`
}
