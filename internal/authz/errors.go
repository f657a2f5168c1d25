package authz

import (
	"context"
	"errors"

	"github.com/hodei-artifacts/hodei/internal/iam"
	"github.com/hodei-artifacts/hodei/internal/org"
	"github.com/hodei-artifacts/hodei/internal/policy"
)

// Stable reason codes attached to indeterminate decisions and metrics.
const (
	ReasonPrincipalNotFound = "principal_not_found"
	ReasonAccountNotFound   = "account_not_found"
	ReasonHierarchyCycle    = "hierarchy_cycle"
	ReasonResolverTimeout   = "resolver_timeout"
	ReasonPolicySyntax      = "policy_syntax_error"
	ReasonEngineError       = "engine_error"
)

// classifyError maps a resolver or engine failure to its reason code.
func classifyError(err error) string {
	switch {
	case errors.Is(err, iam.ErrPrincipalNotFound):
		return ReasonPrincipalNotFound
	case errors.Is(err, org.ErrAccountNotFound):
		return ReasonAccountNotFound
	case errors.Is(err, org.ErrHierarchyCycle):
		return ReasonHierarchyCycle
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ReasonResolverTimeout
	case policy.IsSyntaxError(err):
		return ReasonPolicySyntax
	default:
		return ReasonEngineError
	}
}
