package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a ledger line.
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// GLLine is one leg of an entry. It is owned exclusively by its parent
// GLEntry and only ever removed by soft-deleting the entry.
type GLLine struct {
	ID        string          `json:"id"`
	EntryID   string          `json:"entry_id"`
	AccountID string          `json:"account_id"`
	Side      Side            `json:"side"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  Currency        `json:"currency"`
	Note      string          `json:"note,omitempty"`
}

// GLEntry is one posting event with its ordered set of lines. Entries are
// immutable once written; a re-post of the same source transaction
// soft-deletes the prior entry and inserts a new one.
type GLEntry struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Date        time.Time  `json:"date"`
	Memo        string     `json:"memo,omitempty"`
	Source      string     `json:"source"`                 // e.g. manual:transfer, auto:transaction:sell
	ReferenceID string     `json:"reference_id,omitempty"` // originating business transaction, empty for manual postings
	Deleted     bool       `json:"deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	Lines       []GLLine   `json:"lines"`
}
