package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/investment-ledger/internal/models"
)

// EntryPosted is emitted after a ledger entry has been committed.
type EntryPosted struct {
	EntryID     string          `json:"entry_id"`
	OwnerID     string          `json:"owner_id"`
	Source      string          `json:"source"`
	ReferenceID string          `json:"reference_id,omitempty"`
	Currency    models.Currency `json:"currency"`
	DebitTotal  decimal.Decimal `json:"debit_total"`
	CreditTotal decimal.Decimal `json:"credit_total"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
