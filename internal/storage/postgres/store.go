package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/bankledger/account-ledger-service/internal/interfaces"
	"github.com/bankledger/account-ledger-service/internal/models"
)

// Store is a postgres implementation of interfaces.Store.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (p *Store) InsertAccount(ctx context.Context, acct models.Account) (string, error) {
	const query = `INSERT INTO accounts (id, token, first_name, last_name, balance)
	VALUES ($1, $2, $3, $4, $5)`

	id := uuid.New().String()
	if _, err := p.db.ExecContext(ctx, query, id, acct.Token, acct.FirstName, acct.LastName, acct.Balance); err != nil {
		return "", err
	}
	return id, nil
}

func (p *Store) FindAccountByID(ctx context.Context, id string) (*models.Account, error) {
	const query = `SELECT id, token, first_name, last_name, balance FROM accounts WHERE id = $1`
	return p.scanAccount(p.db.QueryRowContext(ctx, query, id))
}

func (p *Store) FindAccountByToken(ctx context.Context, token string) (*models.Account, error) {
	const query = `SELECT id, token, first_name, last_name, balance FROM accounts WHERE token = $1 LIMIT 1`
	return p.scanAccount(p.db.QueryRowContext(ctx, query, token))
}

func (p *Store) scanAccount(row *sql.Row) (*models.Account, error) {
	var acct models.Account
	err := row.Scan(&acct.ID, &acct.Token, &acct.FirstName, &acct.LastName, &acct.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (p *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	const query = `SELECT id, token, first_name, last_name, balance FROM accounts ORDER BY last_name, first_name`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var acct models.Account
		if err := rows.Scan(&acct.ID, &acct.Token, &acct.FirstName, &acct.LastName, &acct.Balance); err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	return accounts, rows.Err()
}

// AdjustBalance applies the delta in a single UPDATE, so the database never
// exposes a read-modify-write window to other callers. No matching row
// reports ErrConflict.
func (p *Store) AdjustBalance(ctx context.Context, id string, delta int64) (*models.Account, error) {
	const query = `UPDATE accounts SET balance = balance + $1 WHERE id = $2
	RETURNING id, token, first_name, last_name, balance`

	var acct models.Account
	err := p.db.QueryRowContext(ctx, query, delta, id).
		Scan(&acct.ID, &acct.Token, &acct.FirstName, &acct.LastName, &acct.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (p *Store) AppendEntry(ctx context.Context, entry models.LedgerEntry) error {
	const query = `INSERT INTO ledger_entries (id, account_id, amount, kind, created_at, balance_after)
	VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := p.db.ExecContext(ctx, query,
		entry.ID, entry.AccountID, entry.Amount, string(entry.Kind), entry.CreatedAt, entry.BalanceAfter)
	return err
}

func (p *Store) EntriesByAccount(ctx context.Context, id string) ([]models.LedgerEntry, error) {
	const query = `SELECT id, account_id, amount, kind, created_at, balance_after FROM ledger_entries
	WHERE account_id = $1 ORDER BY created_at`

	rows, err := p.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		var kind string
		if err := rows.Scan(&entry.ID, &entry.AccountID, &entry.Amount, &kind, &entry.CreatedAt, &entry.BalanceAfter); err != nil {
			return nil, err
		}
		entry.Kind = models.Kind(kind)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

var _ interfaces.Store = (*Store)(nil)
