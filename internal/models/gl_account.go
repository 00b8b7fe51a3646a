package models

import "time"

// Currency is an ISO-4217 style currency code.
type Currency string

const (
	TWD Currency = "TWD"
	USD Currency = "USD"
)

// GLAccountType is the accounting classification of a ledger account.
type GLAccountType string

const (
	AccountAsset     GLAccountType = "asset"
	AccountLiability GLAccountType = "liability"
	AccountEquity    GLAccountType = "equity"
	AccountIncome    GLAccountType = "income"
	AccountExpense   GLAccountType = "expense"
)

// AccountRole marks an account as the designated target for a class of
// automatic postings. Empty for accounts without a special role.
type AccountRole string

const (
	RoleInvestmentBucket    AccountRole = "investment_bucket"
	RoleFeeExpense          AccountRole = "fee_expense"
	RoleDividendIncome      AccountRole = "dividend_income"
	RoleRealizedGainIncome  AccountRole = "realized_gain_income"
	RoleRealizedLossExpense AccountRole = "realized_loss_expense"
	RoleEquity              AccountRole = "equity"
)

// GLAccount is a named bucket belonging to exactly one owner. At most one
// GLAccount per (owner, LinkedAccountID) when the link is set. The posting
// engine only ever reads accounts; they are created by seeding/administration.
type GLAccount struct {
	ID              string        `json:"id"`
	OwnerID         string        `json:"owner_id"`
	Name            string        `json:"name"`
	Type            GLAccountType `json:"type"`
	Currency        Currency      `json:"currency"`
	Role            AccountRole   `json:"role,omitempty"`
	LinkedAccountID string        `json:"linked_account_id,omitempty"` // external cash/brokerage account this GL account mirrors 1:1
	CreatedAt       time.Time     `json:"created_at"`
}
