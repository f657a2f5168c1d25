package iam

import (
	"errors"
)

// Principal is the identity requesting authorization: a user or service
// account together with its group memberships. Immutable per request.
type Principal struct {
	ID     string   `json:"id"`
	Groups []string `json:"groups,omitempty"`
}

// ErrPrincipalNotFound is returned when the requested principal does not
// exist in the identity store.
var ErrPrincipalNotFound = errors.New("principal not found")
