package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finbook/investment-ledger/internal/models"
)

// ValidateLines enforces the entry invariants on a candidate line set before
// anything is persisted: every line non-negative, exactly one currency, and
// total debits equal to total credits. Amounts are decimals, so equality is
// exact; there is no tolerance. The input is never mutated.
func ValidateLines(lines []models.GLLine) error {
	if len(lines) == 0 {
		return ErrNoLines
	}

	debit := decimal.Zero
	credit := decimal.Zero
	currency := lines[0].Currency

	for _, l := range lines {
		if l.Amount.IsNegative() {
			return ErrNegativeLineAmount
		}
		if l.Currency != currency {
			return ErrMixedCurrency
		}
		switch l.Side {
		case models.SideDebit:
			debit = debit.Add(l.Amount)
		case models.SideCredit:
			credit = credit.Add(l.Amount)
		default:
			return fmt.Errorf("unknown line side %q", l.Side)
		}
	}

	if !debit.Equal(credit) {
		return &EntryNotBalancedError{DebitTotal: debit, CreditTotal: credit}
	}
	return nil
}

// DebitTotal sums the debit side of a line set.
func DebitTotal(lines []models.GLLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		if l.Side == models.SideDebit {
			sum = sum.Add(l.Amount)
		}
	}
	return sum
}

// CreditTotal sums the credit side of a line set.
func CreditTotal(lines []models.GLLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		if l.Side == models.SideCredit {
			sum = sum.Add(l.Amount)
		}
	}
	return sum
}
