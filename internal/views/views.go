// Package views renders the service's pages as response bytes. Rendering
// is deliberately a set of pure functions over the data they are given; no
// template files, no shared state.
package views

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankledger/account-ledger-service/internal/models"
)

// Money formats an int64 amount in the smallest currency unit as a decimal
// currency string, e.g. 12345 -> "123.45".
func Money(units int64) string {
	return decimal.New(units, -2).StringFixed(2)
}

func page(title, body string) []byte {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title></head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")
	return []byte(b.String())
}

// Home renders the login page.
func Home() []byte {
	return page("Bank", `<h1>Welcome</h1>
<form action="/user" method="post">
<label>Enter your 4-digit code: <input type="password" name="token" maxlength="4"></label>
<input type="submit" value="Log in">
</form>`)
}

// Details renders the account overview with links to the forms.
func Details(acct *models.Account) []byte {
	name := html.EscapeString(acct.FullName())
	id := html.EscapeString(acct.ID)
	body := fmt.Sprintf(`<h1>Hello, %s</h1>
<p>Your balance: %s</p>
<p><a href="/deposit?id=%s">Deposit</a>
<a href="/withdraw?id=%s">Withdraw</a>
<a href="/transactions?id=%s">Transactions</a></p>`,
		name, Money(acct.Balance), id, id, id)
	return page("Account", body)
}

// TransactionForm renders the deposit or withdraw form for the account.
func TransactionForm(kind models.Kind, accountID string) []byte {
	action := "/" + string(kind)
	id := html.EscapeString(accountID)
	title := capitalize(string(kind))
	body := fmt.Sprintf(`<h1>%s</h1>
<form action="%s?id=%s" method="post">
<label>Amount: <input type="text" name="amount"></label>
<input type="submit" value="Submit">
</form>
<p><a href="/details?id=%s">Back</a></p>`,
		title, action, id, id)
	return page(title, body)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Transactions renders the ledger for the account, oldest first.
func Transactions(acct *models.Account, entries []models.LedgerEntry) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>Transactions for %s</h1>\n<ul>\n", html.EscapeString(acct.FullName()))
	for _, e := range entries {
		fmt.Fprintf(&b, "<li>%s: %s<br>Time: %s<br>Balance after: %s</li>\n",
			e.Kind, Money(e.Amount), e.CreatedAt.Format("2006-01-02 15:04:05"), Money(e.BalanceAfter))
	}
	b.WriteString("</ul>\n")
	fmt.Fprintf(&b, `<p><a href="/details?id=%s">Back</a></p>`, html.EscapeString(acct.ID))
	return page("Transactions", b.String())
}
