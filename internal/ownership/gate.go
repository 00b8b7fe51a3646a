package ownership

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbook/investment-ledger/internal/interfaces"
	"github.com/finbook/investment-ledger/internal/xerrors"
)

// Gate validates GL account access against the store: the caller must own
// the account or be in the admin set. Not-found and forbidden are kept
// distinct so handlers can answer 404 vs 403.
type Gate struct {
	store  interfaces.LedgerStore
	admins map[string]struct{}
}

func NewGate(store interfaces.LedgerStore, adminIDs []string) *Gate {
	admins := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Gate{store: store, admins: admins}
}

func (g *Gate) CheckGLAccount(ctx context.Context, accountID, callerID string) error {
	acct, err := g.store.GetGLAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return fmt.Errorf("gl account %s: %w", accountID, xerrors.ErrNotFound)
		}
		return fmt.Errorf("get gl account %s: %w", accountID, err)
	}
	if acct.OwnerID == callerID {
		return nil
	}
	if _, ok := g.admins[callerID]; ok {
		return nil
	}
	return fmt.Errorf("gl account %s: %w", accountID, xerrors.ErrForbidden)
}

var _ interfaces.OwnershipGate = (*Gate)(nil)
