package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finbook/investment-ledger/internal/ledger"
	"github.com/finbook/investment-ledger/internal/models"
	"github.com/finbook/investment-ledger/internal/storage/memory"
	"github.com/finbook/investment-ledger/internal/xerrors"
)

func balancedLines(amount string) []models.GLLine {
	return []models.GLLine{
		line(cashAccountID, models.SideDebit, amount, models.TWD),
		line(equityAccountID, models.SideCredit, amount, models.TWD),
	}
}

func TestWriterWritePersistsEntryAndLines(t *testing.T) {
	store := memory.NewMemoryLedgerStore()
	w := ledger.NewWriter(store, nil, "", zap.NewNop())

	entry, err := w.Write(context.Background(), ownerID, time.Now(), "memo", "manual:transfer", balancedLines("500"), "")
	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)
	require.Len(t, entry.Lines, 2)
	for _, l := range entry.Lines {
		assert.NotEmpty(t, l.ID)
		assert.Equal(t, entry.ID, l.EntryID)
	}

	listed, err := store.ListEntries(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, entry.ID, listed[0].ID)
}

func TestWriterRejectsInvalidLinesWithoutSideEffect(t *testing.T) {
	store := memory.NewMemoryLedgerStore()
	w := ledger.NewWriter(store, nil, "", zap.NewNop())

	lines := []models.GLLine{
		line(cashAccountID, models.SideDebit, "500", models.TWD),
		line(equityAccountID, models.SideCredit, "400", models.TWD),
	}
	_, err := w.Write(context.Background(), ownerID, time.Now(), "", "manual:transfer", lines, "")
	var notBalanced *ledger.EntryNotBalancedError
	require.ErrorAs(t, err, &notBalanced)

	listed, err := store.ListEntries(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestWriterSupersedesSameReference(t *testing.T) {
	store := memory.NewMemoryLedgerStore()
	w := ledger.NewWriter(store, nil, "", zap.NewNop())
	ctx := context.Background()

	first, err := w.Write(ctx, ownerID, time.Now(), "", "auto:transaction:buy", balancedLines("100"), "tx-1")
	require.NoError(t, err)
	second, err := w.Write(ctx, ownerID, time.Now(), "", "auto:transaction:buy", balancedLines("120"), "tx-1")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	active, err := store.ActiveEntryByReference(ctx, ownerID, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	listed, err := store.ListEntries(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, second.ID, listed[0].ID)
}

func TestWriterDoesNotSupersedeOtherOwners(t *testing.T) {
	store := memory.NewMemoryLedgerStore()
	w := ledger.NewWriter(store, nil, "", zap.NewNop())
	ctx := context.Background()

	_, err := w.Write(ctx, ownerID, time.Now(), "", "auto:transaction:buy", balancedLines("100"), "tx-1")
	require.NoError(t, err)
	_, err = w.Write(ctx, otherID, time.Now(), "", "auto:transaction:buy", balancedLines("100"), "tx-1")
	require.NoError(t, err)

	// Same reference id under a different owner leaves the first untouched.
	_, err = store.ActiveEntryByReference(ctx, ownerID, "tx-1")
	require.NoError(t, err)
	_, err = store.ActiveEntryByReference(ctx, otherID, "tx-1")
	require.NoError(t, err)
}

func TestWriterManualEntriesNeverSuperseded(t *testing.T) {
	store := memory.NewMemoryLedgerStore()
	w := ledger.NewWriter(store, nil, "", zap.NewNop())
	ctx := context.Background()

	_, err := w.Write(ctx, ownerID, time.Now(), "", "manual:transfer", balancedLines("100"), "")
	require.NoError(t, err)
	_, err = w.Write(ctx, ownerID, time.Now(), "", "manual:transfer", balancedLines("100"), "")
	require.NoError(t, err)

	listed, err := store.ListEntries(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestWriterMissingReferenceLookup(t *testing.T) {
	store := memory.NewMemoryLedgerStore()
	_, err := store.ActiveEntryByReference(context.Background(), ownerID, "nope")
	require.ErrorIs(t, err, xerrors.ErrNotFound)
}

type capturingPublisher struct {
	topic  string
	events []any
}

func (c *capturingPublisher) Publish(_ context.Context, topic string, event any) error {
	c.topic = topic
	c.events = append(c.events, event)
	return nil
}

func TestWriterPublishesEntryPosted(t *testing.T) {
	store := memory.NewMemoryLedgerStore()
	pub := &capturingPublisher{}
	w := ledger.NewWriter(store, pub, "gl_entry_posted", zap.NewNop())

	_, err := w.Write(context.Background(), ownerID, time.Now(), "", "manual:transfer", balancedLines("250"), "")
	require.NoError(t, err)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "gl_entry_posted", pub.topic)
}

func TestWriterTotalsAreExact(t *testing.T) {
	lines := balancedLines("0.1")
	lines = append(lines,
		line(cashAccountID, models.SideDebit, "0.2", models.TWD),
		line(equityAccountID, models.SideCredit, "0.2", models.TWD),
	)
	require.NoError(t, ledger.ValidateLines(lines))
	assert.True(t, ledger.DebitTotal(lines).Equal(decimal.RequireFromString("0.3")))
}
