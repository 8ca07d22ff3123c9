package interfaces

import (
	"context"
	"errors"

	"github.com/bankledger/account-ledger-service/internal/models"
)

var (
	// ErrAccountNotFound is returned when no account matches the given
	// identifier or token.
	ErrAccountNotFound = errors.New("account not found")

	// ErrConflict is returned when a conditional balance adjustment did
	// not match any document, e.g. because an external writer removed or
	// replaced the account between read and update.
	ErrConflict = errors.New("conditional update did not match")
)

// Store is the persistence boundary for accounts and ledger entries.
// AdjustBalance must be atomic from the store's perspective: no
// read-modify-write window may be visible to other callers.
type Store interface {
	InsertAccount(ctx context.Context, acct models.Account) (string, error)
	FindAccountByID(ctx context.Context, id string) (*models.Account, error)
	FindAccountByToken(ctx context.Context, token string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)

	// AdjustBalance applies the signed delta to the account's balance in a
	// single atomic operation and returns the updated account, or
	// ErrConflict when the update matched nothing.
	AdjustBalance(ctx context.Context, id string, delta int64) (*models.Account, error)

	AppendEntry(ctx context.Context, entry models.LedgerEntry) error
	EntriesByAccount(ctx context.Context, id string) ([]models.LedgerEntry, error)
}
