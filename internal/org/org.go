package org

import (
	"errors"
)

// Account is one node of the organization hierarchy. The hierarchy is owned
// by the organization store; the resolver only reads it. The parent chain
// must be acyclic — a cycle is a data-integrity error, never a normal
// evaluation outcome.
type Account struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id,omitempty"`
}

// IsRoot reports whether the account has no parent.
func (a Account) IsRoot() bool {
	return a.ParentID == ""
}

var (
	// ErrAccountNotFound is returned when an account id is unknown to the
	// organization store.
	ErrAccountNotFound = errors.New("account not found")

	// ErrHierarchyCycle is returned when ancestor traversal revisits an
	// account or exceeds the configured maximum depth.
	ErrHierarchyCycle = errors.New("account hierarchy cycle")
)
