package music

import "errors"

// ErrNotFound signals that an entity-id lookup matched nothing. It is
// distinct from a store failure so callers can answer 404 instead of
// 500.
var ErrNotFound = errors.New("not found")
