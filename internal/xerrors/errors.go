package xerrors

import "errors"

// Generic sentinels shared across layers. Handlers map these onto HTTP
// status codes; stores return ErrNotFound on empty lookups so callers can
// distinguish "does not exist" from "exists but not yours".
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)
