package interfaces

import (
	"context"

	"github.com/finbook/investment-ledger/internal/models"
)

// LedgerStore is the persistence contract of the posting engine. Accounts are
// read-only from the engine's perspective; entries are written exactly once
// via SaveEntry and afterwards only ever soft-deleted by a superseding write.
type LedgerStore interface {
	// GetGLAccount returns the account by id, or xerrors.ErrNotFound.
	GetGLAccount(ctx context.Context, id string) (*models.GLAccount, error)

	// FindAccountByLink returns the unique account whose LinkedAccountID
	// equals the given external account id, or xerrors.ErrNotFound.
	FindAccountByLink(ctx context.Context, linkedAccountID string) (*models.GLAccount, error)

	// FindAccountByRole returns the owner's account carrying the role. A
	// non-empty currency additionally restricts the match.
	FindAccountByRole(ctx context.Context, ownerID string, role models.AccountRole, currency models.Currency) (*models.GLAccount, error)

	// FindAccountByName returns the owner's first account whose name
	// contains the fragment. Legacy v1 lookup; ambiguity is unspecified.
	FindAccountByName(ctx context.Context, ownerID, fragment string) (*models.GLAccount, error)

	// SaveEntry atomically soft-deletes every active entry for the entry's
	// (owner, reference id) pair — when the reference id is non-empty — and
	// inserts the entry with all its lines. All-or-nothing.
	SaveEntry(ctx context.Context, entry models.GLEntry) error

	// ListEntries returns the owner's active entries, newest first.
	ListEntries(ctx context.Context, ownerID string) ([]models.GLEntry, error)

	// ActiveEntryByReference returns the single active entry for the pair,
	// or xerrors.ErrNotFound.
	ActiveEntryByReference(ctx context.Context, ownerID, referenceID string) (*models.GLEntry, error)

	// ListLinesByAccount returns all lines of active entries touching the
	// account, oldest first.
	ListLinesByAccount(ctx context.Context, accountID string) ([]models.GLLine, error)
}
