package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finbook/investment-ledger/internal/models"
)

// ListEntries returns the owner's active entries, newest first.
func (s *Service) ListEntries(ctx context.Context, ownerID string) ([]models.GLEntry, error) {
	entries, err := s.writer.store.ListEntries(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list gl entries: %w", err)
	}
	return entries, nil
}

// AccountBalance sums the account's active lines with the usual sign
// convention: debits increase asset and expense accounts, credits increase
// liability, equity and income accounts.
func (s *Service) AccountBalance(ctx context.Context, callerID, accountID string) (decimal.Decimal, error) {
	if err := s.gate.CheckGLAccount(ctx, accountID, callerID); err != nil {
		return decimal.Zero, err
	}
	acct, err := s.writer.store.GetGLAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get gl account: %w", err)
	}
	lines, err := s.writer.store.ListLinesByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list lines by account: %w", err)
	}

	balance := decimal.Zero
	for _, l := range lines {
		if l.Side == models.SideDebit {
			balance = balance.Add(l.Amount)
		} else {
			balance = balance.Sub(l.Amount)
		}
	}
	switch acct.Type {
	case models.AccountLiability, models.AccountEquity, models.AccountIncome:
		balance = balance.Neg()
	}
	return balance, nil
}
