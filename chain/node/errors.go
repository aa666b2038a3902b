package node

import "errors"

// ErrNotFound is returned by Client methods when the node has no data at the
// requested height or id, as distinct from a transport or decode failure.
var ErrNotFound = errors.New("node: not found")
