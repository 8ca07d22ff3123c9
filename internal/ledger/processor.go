package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/bankledger/account-ledger-service/internal/interfaces"
	"github.com/bankledger/account-ledger-service/internal/models"
	"github.com/bankledger/account-ledger-service/internal/models/events"
)

var (
	// ErrInvalidAmount is returned when the submitted amount is not a
	// positive base-10 integer.
	ErrInvalidAmount = errors.New("amount must be a positive integer")

	// ErrUnknownKind is returned for any transaction kind other than
	// deposit or withdraw.
	ErrUnknownKind = errors.New("unknown transaction kind")
)

// Processor applies balance mutations: it validates the amount, adjusts
// the balance through the store's atomic conditional update, and appends a
// ledger entry carrying the post-update balance snapshot. Mutations for a
// given account are serialized through the lock manager; the store-level
// conditional update is a second, independent guard beneath that lock.
type Processor struct {
	store     interfaces.Store
	publisher interfaces.EventPublisher
	locks     *lockManager
	logger    *slog.Logger

	// retries bounds how often a lost conditional update is retried.
	// Zero preserves the default terminal-failure behavior.
	retries int
}

func NewProcessor(store interfaces.Store, publisher interfaces.EventPublisher, logger *slog.Logger) *Processor {
	return &Processor{
		store:     store,
		publisher: publisher,
		locks:     newLockManager(),
		logger:    logger,
	}
}

// WithConflictRetries returns p configured to retry a lost conditional
// update up to n additional times. Retrying is opt-in and always bounded.
func (p *Processor) WithConflictRetries(n int) *Processor {
	if n > 0 {
		p.retries = n
	}
	return p
}

// ParseAmount validates a raw form amount. Only positive base-10 integers
// are accepted; leading signs, fractions and empty strings all fail.
func ParseAmount(raw string) (int64, error) {
	if raw == "" {
		return 0, ErrInvalidAmount
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0, ErrInvalidAmount
		}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidAmount
	}
	return n, nil
}

// Apply executes one deposit or withdrawal against the account and returns
// the updated account. The raw amount comes straight from the request form.
//
// While holding the account's mutex it:
//  1. reads the account (informational, and surfaces not-found early),
//  2. issues the atomic conditional balance adjustment,
//  3. appends the ledger entry with the post-update balance.
//
// A lost conditional update is not retried unless configured. Withdrawals
// are not checked against the current balance; the balance may go negative.
func (p *Processor) Apply(ctx context.Context, accountID, rawAmount string, kind models.Kind) (*models.Account, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return nil, err
	}

	mu := p.locks.acquire(accountID)
	mu.Lock()
	defer mu.Unlock()

	if _, err := p.store.FindAccountByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("read account %s: %w", accountID, err)
	}

	updated, err := p.adjustWithRetry(ctx, accountID, kind.Delta(amount))
	if err != nil {
		return nil, err
	}

	entry := models.LedgerEntry{
		ID:           uuid.New().String(),
		AccountID:    accountID,
		Amount:       amount,
		Kind:         kind,
		CreatedAt:    time.Now(),
		BalanceAfter: updated.Balance,
	}
	if err := p.store.AppendEntry(ctx, entry); err != nil {
		// The balance is already adjusted at this point; a failed append
		// leaves the ledger one entry behind the balance.
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}

	p.publish(ctx, entry)
	return updated, nil
}

func (p *Processor) adjustWithRetry(ctx context.Context, accountID string, delta int64) (*models.Account, error) {
	var lastErr error
	for attempt := 0; attempt <= p.retries; attempt++ {
		updated, err := p.store.AdjustBalance(ctx, accountID, delta)
		if err == nil {
			return updated, nil
		}
		lastErr = err
		if !errors.Is(err, interfaces.ErrConflict) {
			break
		}
	}
	return nil, fmt.Errorf("adjust balance for %s: %w", accountID, lastErr)
}

// publish emits the completed-transaction event. Publishing is best-effort:
// a failure is logged and never fails the transaction.
func (p *Processor) publish(ctx context.Context, entry models.LedgerEntry) {
	if p.publisher == nil {
		return
	}
	ev := events.TransactionCompleted{
		EntryID:      entry.ID,
		AccountID:    entry.AccountID,
		Kind:         string(entry.Kind),
		Amount:       entry.Amount,
		BalanceAfter: entry.BalanceAfter,
		OccurredAt:   entry.CreatedAt,
	}
	if err := p.publisher.Publish(ctx, ev); err != nil {
		p.logger.Warn("publish transaction event failed", "entry_id", entry.ID, "err", err)
	}
}

// Entries returns the ledger entries for an account, oldest first as
// recorded by the store.
func (p *Processor) Entries(ctx context.Context, accountID string) ([]models.LedgerEntry, error) {
	return p.store.EntriesByAccount(ctx, accountID)
}
