package ledger

import "sync"

// lockManager hands out one mutex per account identifier, created lazily.
// The map itself is guarded so that concurrent first-time lookups for the
// same account converge on a single mutex instance.
type lockManager struct {
	mapMu sync.Mutex             // protects muMap itself
	muMap map[string]*sync.Mutex // one mutex per account
}

func newLockManager() *lockManager {
	return &lockManager{muMap: make(map[string]*sync.Mutex)}
}

// acquire returns the mutex for the given account, inserting it if absent.
// Locks for different accounts are fully independent; a single request
// never holds more than one, so no lock ordering is needed.
func (lm *lockManager) acquire(accountID string) *sync.Mutex {
	lm.mapMu.Lock()
	defer lm.mapMu.Unlock()

	mu, ok := lm.muMap[accountID]
	if !ok {
		mu = &sync.Mutex{}
		lm.muMap[accountID] = mu
	}
	return mu
}
