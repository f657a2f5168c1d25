package policy

// Outcome is the aggregate of one evaluated policy set under the standard
// deny-overrides rule. Explicit is false only for the implicit default-deny
// produced when no policy matched.
type Outcome struct {
	Effect      Effect
	Explicit    bool
	Determining []string
}

// Allowed reports whether the outcome grants access.
func (o Outcome) Allowed() bool {
	return o.Effect == EffectAllow
}

// Combine aggregates per-policy evaluations: any matched Deny wins, else any
// matched Allow wins, else implicit Deny. Absence of a grant is never
// permission.
func Combine(evaluations []Evaluation) Outcome {
	var allows, denies []string

	for _, evaluation := range evaluations {
		if !evaluation.Matched {
			continue
		}

		switch evaluation.Effect {
		case EffectDeny:
			denies = append(denies, evaluation.PolicyID)
		case EffectAllow:
			allows = append(allows, evaluation.PolicyID)
		}
	}

	if len(denies) > 0 {
		return Outcome{Effect: EffectDeny, Explicit: true, Determining: denies}
	}

	if len(allows) > 0 {
		return Outcome{Effect: EffectAllow, Explicit: true, Determining: allows}
	}

	return Outcome{Effect: EffectDeny}
}
