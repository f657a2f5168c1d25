package authz

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"

	"github.com/hodei-artifacts/hodei/internal/audit"
	"github.com/hodei-artifacts/hodei/internal/contexts"
	"github.com/hodei-artifacts/hodei/internal/log"
	"github.com/hodei-artifacts/hodei/internal/pkg/xcache"
	"github.com/hodei-artifacts/hodei/internal/policy"
	"github.com/hodei-artifacts/hodei/internal/tracing"
)

// IdentityPolicyProvider is the identity store capability: the effective
// policy set attached to a principal directly or via group membership.
type IdentityPolicyProvider interface {
	GetEffectivePolicies(ctx context.Context, principalID string) (*policy.EffectivePolicySet, error)
}

// BoundaryPolicyProvider is the optional organization capability: the
// service control policies accumulated over the owning account's ancestry.
type BoundaryPolicyProvider interface {
	GetEffectiveBoundaryPolicies(ctx context.Context, accountID string) (*policy.EffectivePolicySet, error)
}

type AuthorizerParams struct {
	fx.In

	Config   Config
	Identity IdentityPolicyProvider
	Boundary BoundaryPolicyProvider `optional:"true"`
	Recorder audit.Recorder         `optional:"true"`
}

// Authorizer composes the identity resolver, the optional boundary resolver
// and the policy engine into a single Authorize operation. Each call is
// independent and stateless; the only suspension point is the concurrent
// resolver join.
type Authorizer struct {
	cfg      Config
	identity IdentityPolicyProvider
	boundary BoundaryPolicyProvider
	engine   *policy.Engine
	cache    xcache.Cache[Decision]
	recorder audit.Recorder
	metrics  *instruments
}

func NewAuthorizer(params AuthorizerParams) (*Authorizer, error) {
	engine, err := policy.NewEngine(params.Config.Engine)
	if err != nil {
		return nil, fmt.Errorf("create policy engine: %w", err)
	}

	cache, err := xcache.NewFromConfig[Decision](params.Config.Cache)
	if err != nil {
		return nil, fmt.Errorf("create decision cache: %w", err)
	}

	return &Authorizer{
		cfg:      params.Config,
		identity: params.Identity,
		boundary: params.Boundary,
		engine:   engine,
		cache:    cache,
		recorder: params.Recorder,
		metrics:  newInstruments(),
	}, nil
}

// Authorize decides whether the request's principal may perform the action
// on the resource. Failures never propagate as errors: unknown principals or
// accounts, hierarchy cycles and resolver timeouts all resolve to an
// indeterminate decision that callers must treat as deny.
func (a *Authorizer) Authorize(ctx context.Context, req policy.Request) Decision {
	start := time.Now()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.requestTimeout())

		defer cancel()
	}

	if _, ok := tracing.GetTraceID(ctx); !ok {
		ctx = tracing.WithTraceID(ctx, tracing.GenerateTraceID())
	}

	ctx = contexts.WithPrincipalID(ctx, req.PrincipalID)

	key := cacheKey(req)
	if cached, err := a.cache.Get(ctx, key); err == nil {
		a.metrics.recordCache(ctx, true)

		cached.FromCache = true

		return cached
	}

	a.metrics.recordCache(ctx, false)

	decision := a.evaluate(ctx, req)

	a.metrics.recordDecision(ctx, decision.Outcome, decision.Reason, time.Since(start))
	a.emit(ctx, req, decision)

	if decision.Outcome != OutcomeIndeterminate {
		if err := a.cache.Set(ctx, key, decision, xcache.WithExpiration(a.cfg.cacheTTL())); err != nil {
			log.Warn(ctx, "failed to cache decision", log.Cause(err))
		}
	}

	log.Debug(ctx, "authorization decided",
		log.String("principal", req.PrincipalID),
		log.String("action", req.Action),
		log.String("resource", req.Resource.ID),
		log.String("outcome", string(decision.Outcome)),
		log.Duration("elapsed", time.Since(start)),
	)

	return decision
}

func (a *Authorizer) evaluate(ctx context.Context, req policy.Request) Decision {
	var identitySet, boundarySet *policy.EffectivePolicySet

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		set, err := a.identity.GetEffectivePolicies(groupCtx, req.PrincipalID)
		if err != nil {
			return err
		}

		identitySet = set

		return nil
	})

	// Absence of the organization subsystem is a valid deployment mode:
	// no boundary means no restriction, not deny. A resource without an
	// owning account likewise has no boundary to apply.
	if a.boundary != nil && req.Resource.AccountID != "" {
		group.Go(func() error {
			set, err := a.boundary.GetEffectiveBoundaryPolicies(groupCtx, req.Resource.AccountID)
			if err != nil {
				return err
			}

			boundarySet = set

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return a.indeterminate(ctx, err)
	}

	if err := ctx.Err(); err != nil {
		return a.indeterminate(ctx, err)
	}

	identityEvals, err := a.engine.Evaluate(ctx, identitySet.Policies(), req)
	if err != nil && a.cfg.Strict {
		return a.indeterminate(ctx, err)
	}

	identityOutcome := policy.Combine(identityEvals)

	if identityOutcome.Effect == policy.EffectDeny && identityOutcome.Explicit {
		return Decision{
			Outcome:             OutcomeDeny,
			Explicit:            true,
			DeterminingPolicies: identityOutcome.Determining,
			Diagnostic:          "explicitly denied by identity policy",
		}
	}

	// Boundary policies form an upper bound on what identity policies may
	// allow: when the account carries SCPs, the request must pass them.
	// They can only restrict, never grant.
	if boundarySet != nil && boundarySet.Len() > 0 {
		boundaryEvals, err := a.engine.Evaluate(ctx, boundarySet.Policies(), req)
		if err != nil && a.cfg.Strict {
			return a.indeterminate(ctx, err)
		}

		boundaryOutcome := policy.Combine(boundaryEvals)

		if !boundaryOutcome.Allowed() {
			diagnostic := "not permitted by organization boundary"
			if boundaryOutcome.Explicit {
				diagnostic = "explicitly denied by organization boundary policy"
			}

			return Decision{
				Outcome:             OutcomeDeny,
				Explicit:            boundaryOutcome.Explicit,
				DeterminingPolicies: boundaryOutcome.Determining,
				Diagnostic:          diagnostic,
			}
		}
	}

	if identityOutcome.Allowed() {
		return Decision{
			Outcome:             OutcomeAllow,
			Explicit:            true,
			DeterminingPolicies: identityOutcome.Determining,
			Diagnostic:          "allowed by identity policy",
		}
	}

	return Decision{
		Outcome:    OutcomeDeny,
		Diagnostic: "implicit deny: no policy matched the request",
	}
}

func (a *Authorizer) indeterminate(ctx context.Context, err error) Decision {
	reason := classifyError(err)

	log.Warn(ctx, "authorization indeterminate",
		log.String("reason", reason),
		log.Cause(err),
	)

	return Decision{
		Outcome:    OutcomeIndeterminate,
		Reason:     reason,
		Diagnostic: fmt.Sprintf("indeterminate (%s): %v", reason, err),
	}
}

func (a *Authorizer) emit(ctx context.Context, req policy.Request, decision Decision) {
	if a.recorder == nil {
		return
	}

	event := audit.NewDecisionEvent(req.PrincipalID, req.Action, req.Resource.ID, string(decision.Outcome))
	event.DeterminingPolicies = decision.DeterminingPolicies
	event.Diagnostic = decision.Diagnostic

	if traceID, ok := tracing.GetTraceID(ctx); ok {
		event.TraceID = traceID
	}

	a.recorder.Record(ctx, event)
}

var Module = fx.Module("authz",
	fx.Provide(NewAuthorizer),
)
