package models

import "time"

// Kind identifies the direction of a balance mutation.
type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
)

// Valid reports whether k is one of the two supported transaction kinds.
func (k Kind) Valid() bool {
	return k == KindDeposit || k == KindWithdraw
}

// Delta returns the signed balance change for a mutation of the given
// magnitude: positive for deposits, negative for withdrawals.
func (k Kind) Delta(amount int64) int64 {
	if k == KindWithdraw {
		return -amount
	}
	return amount
}

// LedgerEntry is an immutable record of one balance mutation.
// Amount carries the positive magnitude; Kind carries the direction.
// BalanceAfter snapshots the account balance immediately after the
// mutation was applied. Entries are never updated or deleted.
type LedgerEntry struct {
	ID           string
	AccountID    string // owning account, many entries to one account
	Amount       int64  // positive magnitude, smallest currency unit
	Kind         Kind
	CreatedAt    time.Time
	BalanceAfter int64
}
