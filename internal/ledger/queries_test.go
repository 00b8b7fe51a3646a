package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbook/investment-ledger/internal/models"
	"github.com/finbook/investment-ledger/internal/xerrors"
)

func TestAccountBalance(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.PostTransaction(ctx, ownerID, models.Transaction{
		ID:        "tx-dep-1",
		AccountID: brokerAccountID,
		Type:      models.TxDeposit,
		Amount:    dec("1000"),
		TradeTime: time.Now(),
	})
	require.NoError(t, err)
	_, err = svc.PostTransaction(ctx, ownerID, models.Transaction{
		ID:        "tx-fee-1",
		AccountID: brokerAccountID,
		Type:      models.TxFee,
		Amount:    dec("30"),
		TradeTime: time.Now(),
	})
	require.NoError(t, err)

	// Asset account: debit-positive.
	cash, err := svc.AccountBalance(ctx, ownerID, cashAccountID)
	require.NoError(t, err)
	assert.True(t, cash.Equal(dec("970")), "cash = %s", cash)

	// Equity account: credit-positive.
	equity, err := svc.AccountBalance(ctx, ownerID, equityAccountID)
	require.NoError(t, err)
	assert.True(t, equity.Equal(dec("1000")), "equity = %s", equity)

	// Expense account: debit-positive.
	fees, err := svc.AccountBalance(ctx, ownerID, feeAccountID)
	require.NoError(t, err)
	assert.True(t, fees.Equal(dec("30")), "fees = %s", fees)
}

func TestAccountBalanceIgnoresSupersededEntries(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	tx := models.Transaction{
		ID:        "tx-dep-1",
		AccountID: brokerAccountID,
		Type:      models.TxDeposit,
		Amount:    dec("1000"),
		TradeTime: time.Now(),
	}
	_, err := svc.PostTransaction(ctx, ownerID, tx)
	require.NoError(t, err)

	tx.Amount = dec("800")
	_, err = svc.PostTransaction(ctx, ownerID, tx)
	require.NoError(t, err)

	cash, err := svc.AccountBalance(ctx, ownerID, cashAccountID)
	require.NoError(t, err)
	assert.True(t, cash.Equal(dec("800")), "cash = %s", cash)
}

func TestAccountBalanceGate(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.AccountBalance(ctx, otherID, cashAccountID)
	require.ErrorIs(t, err, xerrors.ErrForbidden)

	_, err = svc.AccountBalance(ctx, ownerID, "gl-missing")
	require.ErrorIs(t, err, xerrors.ErrNotFound)

	// Admins may read anyone's balance.
	_, err = svc.AccountBalance(ctx, adminID, cashAccountID)
	require.NoError(t, err)
}

func TestListEntriesNewestFirst(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	for _, id := range []string{"tx-1", "tx-2", "tx-3"} {
		_, err := svc.PostTransaction(ctx, ownerID, models.Transaction{
			ID:        id,
			AccountID: brokerAccountID,
			Type:      models.TxDeposit,
			Amount:    dec("100"),
			TradeTime: time.Now(),
		})
		require.NoError(t, err)
	}

	entries, err := svc.ListEntries(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "tx-3", entries[0].ReferenceID)
	assert.Equal(t, "tx-1", entries[2].ReferenceID)
}
