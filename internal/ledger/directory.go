package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finbook/investment-ledger/internal/interfaces"
	"github.com/finbook/investment-ledger/internal/models"
	"github.com/finbook/investment-ledger/internal/xerrors"
)

const roleCacheTTL = 5 * time.Minute

// Directory resolves a logical role to a concrete GL account for an owner.
// It is strictly read-only. Lookups are owner-scoped; a miss is an
// AccountResolutionError since it indicates missing setup data.
//
// A redis client may be passed to cache role lookups; accounts are read-only
// to the engine, so a short TTL is safe. A nil client disables caching.
type Directory struct {
	store interfaces.LedgerStore
	cache *redis.Client
}

func NewDirectory(store interfaces.LedgerStore, cache *redis.Client) *Directory {
	return &Directory{store: store, cache: cache}
}

// LinkedCash finds the unique GL account mirroring the given external
// cash/brokerage account.
func (d *Directory) LinkedCash(ctx context.Context, linkedAccountID string) (*models.GLAccount, error) {
	acct, err := d.store.FindAccountByLink(ctx, linkedAccountID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, &AccountResolutionError{
				Detail: fmt.Sprintf("no GL account linked to account(%s), seed it first", linkedAccountID),
			}
		}
		return nil, fmt.Errorf("find linked gl account: %w", err)
	}
	return acct, nil
}

// ByRole finds the owner's account designated for the role. currency narrows
// the match and is required for the investment bucket, empty otherwise.
func (d *Directory) ByRole(ctx context.Context, ownerID string, role models.AccountRole, currency models.Currency) (*models.GLAccount, error) {
	cacheKey := fmt.Sprintf("glacct:role:%s:%s:%s", ownerID, role, currency)

	if d.cache != nil {
		if val, err := d.cache.Get(ctx, cacheKey).Result(); err == nil {
			var acct models.GLAccount
			if jsonErr := json.Unmarshal([]byte(val), &acct); jsonErr == nil {
				return &acct, nil
			}
		}
	}

	acct, err := d.store.FindAccountByRole(ctx, ownerID, role, currency)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			detail := fmt.Sprintf("role %s for owner %s", role, ownerID)
			if currency != "" {
				detail = fmt.Sprintf("role %s (%s) for owner %s", role, currency, ownerID)
			}
			return nil, &AccountResolutionError{OwnerID: ownerID, Detail: detail}
		}
		return nil, fmt.Errorf("find gl account by role: %w", err)
	}

	if d.cache != nil {
		if data, err := json.Marshal(acct); err == nil {
			_ = d.cache.Set(ctx, cacheKey, data, roleCacheTTL).Err()
		}
	}
	return acct, nil
}

// Named finds the owner's account whose name contains the fragment. Legacy
// v1 strategy kept for manual callers; with multiple matches the first one
// wins, so fragments must stay unique per owner.
func (d *Directory) Named(ctx context.Context, ownerID, fragment string) (*models.GLAccount, error) {
	acct, err := d.store.FindAccountByName(ctx, ownerID, fragment)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, &AccountResolutionError{
				OwnerID: ownerID,
				Detail:  fmt.Sprintf("name contains %q for owner %s", fragment, ownerID),
			}
		}
		return nil, fmt.Errorf("find gl account by name: %w", err)
	}
	return acct, nil
}
