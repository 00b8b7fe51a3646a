package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finbook/investment-ledger/internal/models"
)

var (
	// ErrInvalidAmount rejects non-positive amounts on manual posting
	// commands before any lookup happens.
	ErrInvalidAmount = errors.New("amount must be > 0")

	// ErrMixedCurrency rejects line sets spanning more than one currency
	// (v1 rule, no mixed-currency entries).
	ErrMixedCurrency = errors.New("all lines must have the same currency")

	// ErrNoLines rejects an empty line set.
	ErrNoLines = errors.New("entry has no lines")

	// ErrNegativeLineAmount rejects a line carrying a negative amount; the
	// side encodes direction, amounts are magnitudes.
	ErrNegativeLineAmount = errors.New("line amount must not be negative")
)

// EntryNotBalancedError reports the computed totals verbatim so callers can
// see exactly how far apart the two sides are.
type EntryNotBalancedError struct {
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

func (e *EntryNotBalancedError) Error() string {
	return fmt.Sprintf("entry not balanced: debit=%s, credit=%s", e.DebitTotal, e.CreditTotal)
}

// AccountResolutionError signals that a required bucket or linked account is
// missing for the owner. This is missing setup data, never retried.
type AccountResolutionError struct {
	OwnerID string
	Detail  string
}

func (e *AccountResolutionError) Error() string {
	return fmt.Sprintf("gl account not found: %s", e.Detail)
}

// UnsupportedTransactionTypeError means an automatic posting was requested
// for a transaction type with no defined mapping.
type UnsupportedTransactionTypeError struct {
	Type models.TxType
}

func (e *UnsupportedTransactionTypeError) Error() string {
	return fmt.Sprintf("unsupported transaction type: %s", e.Type)
}
