package org

import (
	"context"

	"github.com/hodei-artifacts/hodei/internal/policy"
)

// AccountStore finds accounts by id. Implementations must return
// ErrAccountNotFound (possibly wrapped) for unknown ids.
type AccountStore interface {
	GetAccount(ctx context.Context, id string) (*Account, error)
}

// SCPStore returns the service control policies attached to an account.
// An account without attachments is not an error.
type SCPStore interface {
	GetAttachedSCPs(ctx context.Context, accountID string) ([]policy.Policy, error)
}
