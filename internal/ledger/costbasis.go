package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/finbook/investment-ledger/internal/models"
)

// CostBasisSource reports the cost basis of the holdings disposed by a sell
// transaction. The engine does no position tracking of its own; plugging in
// a lot tracker here replaces the caller-supplied approximation without
// touching the mapper.
type CostBasisSource interface {
	DisposedCost(ctx context.Context, tx models.Transaction) (decimal.Decimal, error)
}

// CallerSuppliedCost reads the cost the caller attached to the transaction,
// zero when absent. This matches the v1 behavior: the sell mapping trusts
// the caller's number and books the remainder as realized P&L.
type CallerSuppliedCost struct{}

func (CallerSuppliedCost) DisposedCost(_ context.Context, tx models.Transaction) (decimal.Decimal, error) {
	return tx.Cost, nil
}
