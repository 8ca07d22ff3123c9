package ledger

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/bankledger/account-ledger-service/internal/interfaces"
	"github.com/bankledger/account-ledger-service/internal/models"
)

const tokenLength = 4

// Accounts handles registration and token resolution. The login token is a
// 4-digit numeric bearer secret used in place of a password; there is no
// expiry and no attempt counting.
type Accounts struct {
	store interfaces.Store
}

func NewAccounts(store interfaces.Store) *Accounts {
	return &Accounts{store: store}
}

// Register creates an account with a zero balance and a freshly generated
// token. Generation loops until the token is unused. The check and the
// insert are two separate store calls, so two concurrent registrations can
// still race onto the same token; the store carries no uniqueness
// constraint to catch that.
func (a *Accounts) Register(ctx context.Context, firstName, lastName string) (*models.Account, error) {
	token, err := a.generateToken(ctx)
	if err != nil {
		return nil, err
	}

	acct := models.Account{
		Token:     token,
		FirstName: firstName,
		LastName:  lastName,
		Balance:   0,
	}
	id, err := a.store.InsertAccount(ctx, acct)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}
	acct.ID = id
	return &acct, nil
}

func (a *Accounts) generateToken(ctx context.Context) (string, error) {
	for {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		_, err = a.store.FindAccountByToken(ctx, token)
		if errors.Is(err, interfaces.ErrAccountNotFound) {
			return token, nil
		}
		if err != nil {
			return "", fmt.Errorf("check token: %w", err)
		}
		// Token taken, draw again.
	}
}

func randomToken() (string, error) {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	for i := range b {
		b[i] = '0' + b[i]%10
	}
	return string(b), nil
}

// Resolve maps a login token to an account identifier. Tokens that are not
// exactly 4 numeric characters are rejected without querying the store, so
// a probe cannot distinguish a malformed token from an unknown one.
func (a *Accounts) Resolve(ctx context.Context, token string) (string, error) {
	if !validToken(token) {
		return "", interfaces.ErrAccountNotFound
	}
	acct, err := a.store.FindAccountByToken(ctx, token)
	if err != nil {
		return "", err
	}
	return acct.ID, nil
}

func validToken(token string) bool {
	if len(token) != tokenLength {
		return false
	}
	for _, c := range token {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Get returns the account for id.
func (a *Accounts) Get(ctx context.Context, id string) (*models.Account, error) {
	return a.store.FindAccountByID(ctx, id)
}

// List returns all accounts, for operator tooling.
func (a *Accounts) List(ctx context.Context) ([]models.Account, error) {
	return a.store.ListAccounts(ctx)
}
