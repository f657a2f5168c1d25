package iam

import (
	"context"

	"github.com/hodei-artifacts/hodei/internal/policy"
)

// PrincipalStore finds principals by id. Implementations must return
// ErrPrincipalNotFound (possibly wrapped) for unknown ids.
type PrincipalStore interface {
	GetPrincipal(ctx context.Context, id string) (*Principal, error)
}

// PolicyStore returns the policies attached to a subject (a principal or a
// group). An unknown subject is not an error; it simply has no attachments.
type PolicyStore interface {
	GetAttachedPolicies(ctx context.Context, subjectID string) ([]policy.Policy, error)
}
