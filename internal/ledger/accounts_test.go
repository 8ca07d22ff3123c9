package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/bankledger/account-ledger-service/internal/interfaces"
	"github.com/bankledger/account-ledger-service/internal/storage/memory"
)

func TestRegisterAssignsUniqueTokens(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccounts(memory.NewStore())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		acct, err := accounts.Register(ctx, "First", "Last")
		if err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
		if len(acct.Token) != 4 {
			t.Fatalf("token %q: want 4 characters", acct.Token)
		}
		for _, c := range acct.Token {
			if c < '0' || c > '9' {
				t.Fatalf("token %q: want digits only", acct.Token)
			}
		}
		if seen[acct.Token] {
			t.Fatalf("token %q assigned twice", acct.Token)
		}
		seen[acct.Token] = true
		if acct.Balance != 0 {
			t.Fatalf("new account balance=%d want=0", acct.Balance)
		}
	}
}

func TestResolveRejectsMalformedTokens(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	accounts := NewAccounts(store)

	acct, err := accounts.Register(ctx, "Alice", "Smith")
	if err != nil {
		t.Fatal(err)
	}

	for _, token := range []string{"", "123", "12345", "12a4", "abcd", "12 4"} {
		if _, err := accounts.Resolve(ctx, token); !errors.Is(err, interfaces.ErrAccountNotFound) {
			t.Errorf("token %q: want ErrAccountNotFound, got %v", token, err)
		}
	}

	id, err := accounts.Resolve(ctx, acct.Token)
	if err != nil {
		t.Fatalf("resolve own token: %v", err)
	}
	if id != acct.ID {
		t.Fatalf("resolved id=%q want=%q", id, acct.ID)
	}
}

func TestResolveUnknownToken(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccounts(memory.NewStore())

	// Empty store: every well-formed token is unknown.
	if _, err := accounts.Resolve(ctx, "0000"); !errors.Is(err, interfaces.ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
}
