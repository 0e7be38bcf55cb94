// Package classify assigns every union variant exactly one
// classification: an explicit level from its annotation, delegation to
// an eligible payload, or a diagnosed configuration error.
//
// The walk is variant-local and best-effort: a failed variant never
// stops the pass, so one run reports every problem the declaration
// has. Order of declaration does not influence any outcome.
package classify

import (
	"fmt"
	"strings"

	"errlevel/internal/ast"
	"errlevel/internal/diag"
	"errlevel/internal/level"
	"errlevel/internal/source"
)

// Kind is the classification of a single variant.
type Kind uint8

const (
	// ExplicitNoPayload: annotation present, no payload.
	ExplicitNoPayload Kind = iota
	// ExplicitWithPayload: annotation present, payload matched but not
	// inspected — the annotation fully overrides shape analysis.
	ExplicitWithPayload
	// Delegated: no annotation, payload eligible; severity is obtained
	// from the payload value at inspection time.
	Delegated
	// Invalid: no usable severity source. Carries a diagnostic, never a
	// dispatch arm.
	Invalid
)

func (k Kind) String() string {
	switch k {
	case ExplicitNoPayload:
		return "explicit"
	case ExplicitWithPayload:
		return "explicit+payload"
	case Delegated:
		return "delegated"
	case Invalid:
		return "invalid"
	}
	return "unknown"
}

// Classification is the per-variant result.
type Classification struct {
	Variant *ast.Variant
	Kind    Kind

	// Level is set for Explicit* kinds with a valid keyword.
	Level level.Level
	// LevelOK is false when the annotation keyword failed to parse; the
	// variant then contributes no arm even though it stays Explicit*.
	LevelOK bool

	// DelegateSpan anchors the generated delegation call for Delegated.
	DelegateSpan source.Span
}

// Arm reports whether the classification yields a dispatch arm.
func (c Classification) Arm() bool {
	switch c.Kind {
	case ExplicitNoPayload, ExplicitWithPayload:
		return c.LevelOK
	case Delegated:
		return true
	default:
		return false
	}
}

// Result holds the classification of one union in declaration order.
type Result struct {
	Union    *ast.UnionDecl
	Variants []Classification
}

// Clean reports whether every variant produced a dispatch arm.
func (r Result) Clean() bool {
	for _, c := range r.Variants {
		if !c.Arm() {
			return false
		}
	}
	return true
}

// Union classifies every variant of u, reporting failures through r.
// Exactly one Classification per variant; exactly one diagnostic per
// Invalid variant or unparsable keyword.
func Union(u *ast.UnionDecl, r diag.Reporter) Result {
	res := Result{
		Union:    u,
		Variants: make([]Classification, 0, len(u.Variants)),
	}
	for _, v := range u.Variants {
		res.Variants = append(res.Variants, classifyVariant(v, r))
	}
	return res
}

func classifyVariant(v *ast.Variant, r diag.Reporter) Classification {
	c := Classification{Variant: v}

	// 1. Аннотация всегда побеждает: payload даже не проверяется.
	if ann := v.Annotation; ann != nil {
		if v.Payload != nil {
			c.Kind = ExplicitWithPayload
		} else {
			c.Kind = ExplicitNoPayload
		}
		lvl, ok := level.Parse(ann.Keyword)
		if !ok {
			report(r, diag.ClsUnknownLevelKeyword, ann.KeywordSpan,
				fmt.Sprintf("unknown level keyword %q, options are only: %s",
					ann.Keyword, strings.Join(level.Keywords(), ", ")))
			return c
		}
		c.Level = lvl
		c.LevelOK = true
		return c
	}

	// 2. Без аннотации единственный источник уровня — сам payload.
	if v.Payload != nil {
		span, eligible := ValidateShape(v.Payload)
		if eligible {
			c.Kind = Delegated
			c.DelegateSpan = span
			return c
		}
		c.Kind = Invalid
		report(r, diag.ClsIneligiblePayload, span,
			fmt.Sprintf("variant %q needs a @report annotation: its payload shape cannot provide a classification of its own", v.Name))
		return c
	}

	// 3. Ни аннотации, ни payload.
	c.Kind = Invalid
	report(r, diag.ClsMissingAnnotation, v.NameSpan,
		fmt.Sprintf("variant %q needs a @report annotation", v.Name))
	return c
}

func report(r diag.Reporter, code diag.Code, sp source.Span, msg string) {
	if r != nil {
		r.Report(code, diag.SevError, sp, msg, nil)
	}
}
