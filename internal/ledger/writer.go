package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finbook/investment-ledger/internal/interfaces"
	"github.com/finbook/investment-ledger/internal/models"
	"github.com/finbook/investment-ledger/internal/models/events"
)

// Writer persists validated line sets as atomic ledger entries. When a
// reference id is present the store soft-deletes the prior active entry for
// (owner, reference id) in the same transaction, so posting the same business
// event twice leaves exactly one active entry.
type Writer struct {
	store     interfaces.LedgerStore
	publisher interfaces.EventPublisher // nil disables events
	topic     string
	logger    *zap.Logger
}

func NewWriter(store interfaces.LedgerStore, publisher interfaces.EventPublisher, topic string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{store: store, publisher: publisher, topic: topic, logger: logger}
}

// Write validates the line set and commits it as one entry. A validator
// rejection aborts with no side effect. referenceID is empty for manual
// postings, which are never superseded automatically.
func (w *Writer) Write(ctx context.Context, ownerID string, date time.Time, memo, source string, lines []models.GLLine, referenceID string) (*models.GLEntry, error) {
	if err := ValidateLines(lines); err != nil {
		return nil, err
	}

	entry := models.GLEntry{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Date:        date,
		Memo:        memo,
		Source:      source,
		ReferenceID: referenceID,
		CreatedAt:   time.Now(),
		Lines:       make([]models.GLLine, len(lines)),
	}
	for i, l := range lines {
		l.ID = uuid.New().String()
		l.EntryID = entry.ID
		entry.Lines[i] = l
	}

	if err := w.store.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("save gl entry: %w", err)
	}

	w.logger.Info("gl entry posted",
		zap.String("entry_id", entry.ID),
		zap.String("owner_id", ownerID),
		zap.String("source", source),
		zap.String("reference_id", referenceID),
	)
	w.publish(ctx, entry)
	return &entry, nil
}

// publish is best effort: the entry is already committed, a broker hiccup
// must not fail the posting.
func (w *Writer) publish(ctx context.Context, entry models.GLEntry) {
	if w.publisher == nil {
		return
	}
	evt := events.EntryPosted{
		EntryID:     entry.ID,
		OwnerID:     entry.OwnerID,
		Source:      entry.Source,
		ReferenceID: entry.ReferenceID,
		Currency:    entry.Lines[0].Currency,
		DebitTotal:  DebitTotal(entry.Lines),
		CreditTotal: CreditTotal(entry.Lines),
		OccurredAt:  time.Now(),
	}
	if err := w.publisher.Publish(ctx, w.topic, evt); err != nil {
		w.logger.Warn("publish entry_posted failed",
			zap.String("entry_id", entry.ID),
			zap.Error(err),
		)
	}
}
