package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/bankledger/account-ledger-service/internal/ledger"
	"github.com/bankledger/account-ledger-service/internal/models"
	"github.com/bankledger/account-ledger-service/internal/storage/memory"
)

// Black-box tests: a real listener, raw requests over TCP, one response
// per connection.

type testEnv struct {
	addr     string
	store    *memory.Store
	accounts *ledger.Accounts
}

func startServer(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	accounts := ledger.NewAccounts(store)
	processor := ledger.NewProcessor(store, nil, logger)

	srv := New(NewHandler(accounts, processor, logger), logger, Options{
		ReadTimeout:     2 * time.Second,
		WriteTimeout:    2 * time.Second,
		MaxRequestBytes: 8 << 10,
	})
	if err := srv.Listen("127.0.0.1:0"); err != nil {
		t.Fatal(err)
	}
	go srv.Serve()
	t.Cleanup(func() { srv.Close() })

	return &testEnv{addr: srv.Addr().String(), store: store, accounts: accounts}
}

func (e *testEnv) send(t *testing.T, raw string) string {
	t.Helper()
	conn, err := net.Dial("tcp", e.addr)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(raw)); err != nil {
		t.Fatal(err)
	}
	resp, err := io.ReadAll(conn)
	if err != nil {
		t.Fatal(err)
	}
	return string(resp)
}

func (e *testEnv) get(t *testing.T, target string) string {
	return e.send(t, fmt.Sprintf("GET %s HTTP/1.1\r\nHost: test\r\n\r\n", target))
}

func (e *testEnv) post(t *testing.T, target, body string) string {
	return e.send(t, fmt.Sprintf("POST %s HTTP/1.1\r\nHost: test\r\nContent-Length: %d\r\n\r\n%s",
		target, len(body), body))
}

func wantStatus(t *testing.T, resp, status string) {
	t.Helper()
	if !strings.HasPrefix(resp, "HTTP/1.1 "+status) {
		t.Fatalf("want status %s, got response:\n%s", status, resp)
	}
}

func location(resp string) string {
	for _, line := range strings.Split(resp, "\r\n") {
		if strings.HasPrefix(line, "Location: ") {
			return strings.TrimPrefix(line, "Location: ")
		}
	}
	return ""
}

func TestHomePage(t *testing.T) {
	env := startServer(t)
	resp := env.get(t, "/")
	wantStatus(t, resp, "200")
	if !strings.Contains(resp, "Content-Length:") {
		t.Fatal("response missing Content-Length")
	}
	if !strings.Contains(resp, `action="/user"`) {
		t.Fatal("home page missing login form")
	}
}

func TestUnknownPathNotFound(t *testing.T) {
	env := startServer(t)
	wantStatus(t, env.get(t, "/admin"), "404")
}

func TestLoginRedirects(t *testing.T) {
	env := startServer(t)
	acct, err := env.accounts.Register(context.Background(), "Alice", "Smith")
	if err != nil {
		t.Fatal(err)
	}

	resp := env.post(t, "/user", "token="+acct.Token)
	wantStatus(t, resp, "302")
	if got, want := location(resp), "/details?id="+acct.ID; got != want {
		t.Fatalf("location=%q want=%q", got, want)
	}

	// Unknown and malformed tokens look identical from outside: both
	// bounce to the home page.
	for _, token := range []string{"0000", "12", "abcd", ""} {
		if token == acct.Token {
			continue
		}
		resp := env.post(t, "/user", "token="+token)
		wantStatus(t, resp, "302")
		if got := location(resp); got != "/" {
			t.Fatalf("token %q: location=%q want=/", token, got)
		}
	}
}

func TestDepositAndWithdrawFlow(t *testing.T) {
	env := startServer(t)
	ctx := context.Background()
	acct, err := env.accounts.Register(ctx, "Alice", "Smith")
	if err != nil {
		t.Fatal(err)
	}

	// Forms are served on GET.
	wantStatus(t, env.get(t, "/deposit?id="+acct.ID), "200")
	wantStatus(t, env.get(t, "/withdraw?id="+acct.ID), "200")

	resp := env.post(t, "/deposit?id="+acct.ID, "amount=100")
	wantStatus(t, resp, "302")
	if got, want := location(resp), "/details?id="+acct.ID; got != want {
		t.Fatalf("location=%q want=%q", got, want)
	}

	resp = env.post(t, "/withdraw?id="+acct.ID, "amount=30")
	wantStatus(t, resp, "302")

	got, err := env.store.FindAccountByID(ctx, acct.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Balance != 70 {
		t.Fatalf("balance=%d want=70", got.Balance)
	}

	entries, _ := env.store.EntriesByAccount(ctx, acct.ID)
	if len(entries) != 2 {
		t.Fatalf("entries=%d want=2", len(entries))
	}
	if entries[0].Kind != models.KindDeposit || entries[0].Amount != 100 || entries[0].BalanceAfter != 100 {
		t.Fatalf("entry[0] unexpected: %+v", entries[0])
	}
	if entries[1].Kind != models.KindWithdraw || entries[1].Amount != 30 || entries[1].BalanceAfter != 70 {
		t.Fatalf("entry[1] unexpected: %+v", entries[1])
	}
}

func TestBadAmountRedirectsToForm(t *testing.T) {
	env := startServer(t)
	acct, err := env.accounts.Register(context.Background(), "Alice", "Smith")
	if err != nil {
		t.Fatal(err)
	}

	resp := env.post(t, "/deposit?id="+acct.ID, "amount=notanumber")
	wantStatus(t, resp, "302")
	if got, want := location(resp), "/deposit?id="+acct.ID; got != want {
		t.Fatalf("location=%q want=%q", got, want)
	}

	resp = env.post(t, "/withdraw?id="+acct.ID, "amount=-5")
	wantStatus(t, resp, "302")
	if got, want := location(resp), "/withdraw?id="+acct.ID; got != want {
		t.Fatalf("location=%q want=%q", got, want)
	}
}

func TestDetailsPage(t *testing.T) {
	env := startServer(t)
	ctx := context.Background()
	acct, err := env.accounts.Register(ctx, "Alice", "Smith")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.store.AdjustBalance(ctx, acct.ID, 12345); err != nil {
		t.Fatal(err)
	}

	resp := env.get(t, "/details?id="+acct.ID)
	wantStatus(t, resp, "200")
	if !strings.Contains(resp, "Alice Smith") {
		t.Fatal("details page missing account name")
	}
	if !strings.Contains(resp, "123.45") {
		t.Fatal("details page missing formatted balance")
	}
}

func TestDetailsMissingAccount(t *testing.T) {
	env := startServer(t)
	resp := env.get(t, "/details?id=no-such-account")
	wantStatus(t, resp, "500")
	if !strings.Contains(resp, "Internal Server Error") {
		t.Fatal("expected the generic error body")
	}
	// No internal detail may leak.
	if strings.Contains(resp, "not found") {
		t.Fatal("error detail leaked to the client")
	}
}

func TestTransactionsPage(t *testing.T) {
	env := startServer(t)
	ctx := context.Background()
	acct, err := env.accounts.Register(ctx, "Alice", "Smith")
	if err != nil {
		t.Fatal(err)
	}
	env.post(t, "/deposit?id="+acct.ID, "amount=100")
	env.post(t, "/withdraw?id="+acct.ID, "amount=30")

	resp := env.get(t, "/transactions?id="+acct.ID)
	wantStatus(t, resp, "200")
	if !strings.Contains(resp, "deposit: 1.00") {
		t.Fatalf("transactions page missing deposit line:\n%s", resp)
	}
	if !strings.Contains(resp, "withdraw: 0.30") {
		t.Fatalf("transactions page missing withdraw line:\n%s", resp)
	}

	wantStatus(t, env.get(t, "/transactions?id=missing"), "500")
}

func TestMalformedRequestLine(t *testing.T) {
	env := startServer(t)
	wantStatus(t, env.send(t, "NONSENSE\r\n\r\n"), "400")
}

func TestGetUserIsNotFound(t *testing.T) {
	env := startServer(t)
	wantStatus(t, env.get(t, "/user"), "404")
}
