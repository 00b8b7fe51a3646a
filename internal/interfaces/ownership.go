package interfaces

import "context"

// OwnershipGate confirms a caller may act on a GL account before the engine
// touches it. Implementations return xerrors.ErrNotFound when the account
// does not exist and xerrors.ErrForbidden when it exists but belongs to
// someone else and the caller is not an admin.
type OwnershipGate interface {
	CheckGLAccount(ctx context.Context, accountID, callerID string) error
}
