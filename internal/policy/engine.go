package policy

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/multierr"

	"github.com/hodei-artifacts/hodei/internal/log"
)

const defaultConditionCacheSize = 1024

type EngineConfig struct {
	// ConditionCacheSize bounds the LRU of compiled condition programs.
	ConditionCacheSize int `conf:"condition_cache_size" yaml:"condition_cache_size" json:"condition_cache_size"`
}

// Engine matches policies against requests. It is stateless across calls
// apart from the compiled-condition cache, which is keyed by condition
// source; compilation is pure, so the cache is safe to share between
// concurrent requests.
type Engine struct {
	conditions *lru.Cache[string, *vm.Program]
}

func NewEngine(cfg EngineConfig) (*Engine, error) {
	size := cfg.ConditionCacheSize
	if size <= 0 {
		size = defaultConditionCacheSize
	}

	conditions, err := lru.New[string, *vm.Program](size)
	if err != nil {
		return nil, fmt.Errorf("create condition cache: %w", err)
	}

	return &Engine{conditions: conditions}, nil
}

// Evaluation is the engine's verdict for a single policy. Matched reports
// whether the policy's predicate applies to the request; Err carries a
// per-policy diagnostic (malformed document or failed condition) and implies
// the policy did not match.
type Evaluation struct {
	PolicyID string
	Effect   Effect
	Matched  bool
	Err      error
}

// Evaluate matches each policy independently against the request. It never
// mutates its inputs and the result is order-independent. Policies with
// invalid documents are reported with a per-policy Err instead of aborting
// the evaluation; the aggregated error collects those diagnostics so the
// caller can decide between skipping and failing closed.
func (e *Engine) Evaluate(ctx context.Context, policies []Policy, req Request) ([]Evaluation, error) {
	evaluations := make([]Evaluation, 0, len(policies))

	var errs error

	for _, p := range policies {
		evaluation := e.evaluateOne(ctx, p, req)
		if evaluation.Err != nil {
			errs = multierr.Append(errs, evaluation.Err)

			log.Warn(ctx, "policy skipped during evaluation",
				log.String("policy", p.ID),
				log.Cause(evaluation.Err),
			)
		}

		evaluations = append(evaluations, evaluation)
	}

	return evaluations, errs
}

func (e *Engine) evaluateOne(ctx context.Context, p Policy, req Request) Evaluation {
	evaluation := Evaluation{PolicyID: p.ID, Effect: p.Effect}

	doc, err := ParseDocument(p.Document)
	if err != nil {
		evaluation.Err = &SyntaxError{PolicyID: p.ID, Err: err}
		return evaluation
	}

	if !matchesAny(doc.Actions, req.Action) || !matchesAny(doc.Resources, req.Resource.ID) {
		return evaluation
	}

	if doc.Condition == "" {
		evaluation.Matched = true
		return evaluation
	}

	matched, err := e.evaluateCondition(doc.Condition, req)
	if err != nil {
		// A failing condition must never grant or revoke anything on its
		// own: the policy is reported as non-matching with a diagnostic.
		evaluation.Err = fmt.Errorf("policy %s: condition: %w", p.ID, err)
		return evaluation
	}

	evaluation.Matched = matched

	return evaluation
}

func (e *Engine) evaluateCondition(source string, req Request) (bool, error) {
	program, ok := e.conditions.Get(source)
	if !ok {
		compiled, err := expr.Compile(source, expr.AsBool(), expr.AllowUndefinedVariables())
		if err != nil {
			return false, &SyntaxError{Err: fmt.Errorf("compile condition: %w", err)}
		}

		e.conditions.Add(source, compiled)
		program = compiled
	}

	result, err := expr.Run(program, conditionEnv(req))
	if err != nil {
		return false, fmt.Errorf("run condition: %w", err)
	}

	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("condition returned %T, want bool", result)
	}

	return matched, nil
}

func conditionEnv(req Request) map[string]any {
	return map[string]any{
		"principal": map[string]any{
			"id": req.PrincipalID,
		},
		"action": req.Action,
		"resource": map[string]any{
			"id":         req.Resource.ID,
			"account_id": req.Resource.AccountID,
			"attributes": req.Resource.Attributes,
		},
		"context": req.Context,
	}
}
