package common

import "errors"

// ErrNotFound is returned by storage implementations when a record does not
// exist or is not visible to the requesting user.
var ErrNotFound = errors.New("not found")
