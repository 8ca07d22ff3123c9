package models

// Account is a registered identity holding a balance and a login token.
// Balances are stored as int64 in the smallest currency unit to avoid
// floating point drift.
type Account struct {
	ID        string // store-assigned identifier
	Token     string // 4-digit numeric login token, unique at creation time
	FirstName string
	LastName  string
	Balance   int64
}

// FullName returns the display name used by the account views.
func (a Account) FullName() string {
	return a.FirstName + " " + a.LastName
}
