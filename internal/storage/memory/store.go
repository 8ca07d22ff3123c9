package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/bankledger/account-ledger-service/internal/interfaces"
	"github.com/bankledger/account-ledger-service/internal/models"
)

// Store is an in-memory implementation of interfaces.Store. All state is
// guarded by a single mutex, which also makes AdjustBalance atomic: no
// other caller can observe the account between read and write.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
	entries  []models.LedgerEntry
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*models.Account),
	}
}

func (s *Store) InsertAccount(ctx context.Context, acct models.Account) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct.ID = uuid.New().String()
	s.accounts[acct.ID] = &acct
	return acct.ID, nil
}

func (s *Store) FindAccountByID(ctx context.Context, id string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		return nil, interfaces.ErrAccountNotFound
	}
	cp := *acct
	return &cp, nil
}

func (s *Store) FindAccountByToken(ctx context.Context, token string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acct := range s.accounts {
		if acct.Token == token {
			cp := *acct
			return &cp, nil
		}
	}
	return nil, interfaces.ErrAccountNotFound
}

func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		out = append(out, *acct)
	}
	return out, nil
}

// AdjustBalance applies the delta under the store mutex and returns a copy
// of the updated account. A missing account reports ErrConflict, matching
// the no-match result of a conditional update.
func (s *Store) AdjustBalance(ctx context.Context, id string, delta int64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		return nil, interfaces.ErrConflict
	}
	acct.Balance += delta
	cp := *acct
	return &cp, nil
}

func (s *Store) AppendEntry(ctx context.Context, entry models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	return nil
}

func (s *Store) EntriesByAccount(ctx context.Context, id string) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.LedgerEntry
	for _, e := range s.entries {
		if e.AccountID == id {
			result = append(result, e)
		}
	}
	return result, nil
}

var _ interfaces.Store = (*Store)(nil)
