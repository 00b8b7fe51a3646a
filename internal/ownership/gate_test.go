package ownership_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/finbook/investment-ledger/internal/models"
	"github.com/finbook/investment-ledger/internal/ownership"
	"github.com/finbook/investment-ledger/internal/storage/memory"
	"github.com/finbook/investment-ledger/internal/xerrors"
)

func TestGateCheckGLAccount(t *testing.T) {
	store := memory.NewMemoryLedgerStore()
	store.SeedAccount(models.GLAccount{
		ID:        "gl-1",
		OwnerID:   "user-1",
		Name:      "Cash",
		Type:      models.AccountAsset,
		Currency:  models.TWD,
		CreatedAt: time.Now(),
	})
	gate := ownership.NewGate(store, []string{"admin-1"})
	ctx := context.Background()

	require.NoError(t, gate.CheckGLAccount(ctx, "gl-1", "user-1"))
	require.NoError(t, gate.CheckGLAccount(ctx, "gl-1", "admin-1"))
	require.ErrorIs(t, gate.CheckGLAccount(ctx, "gl-1", "user-2"), xerrors.ErrForbidden)
	require.ErrorIs(t, gate.CheckGLAccount(ctx, "gl-404", "user-1"), xerrors.ErrNotFound)

	// Admin status does not turn a missing account into a pass.
	require.ErrorIs(t, gate.CheckGLAccount(ctx, "gl-404", "admin-1"), xerrors.ErrNotFound)
}
