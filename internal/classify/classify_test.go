package classify

import (
	"strings"
	"testing"

	"errlevel/internal/ast"
	"errlevel/internal/diag"
	"errlevel/internal/level"
	"errlevel/internal/lexer"
	"errlevel/internal/parser"
	"errlevel/internal/source"
)

// classifyInput парсит одну декларацию и классифицирует первый union.
func classifyInput(t *testing.T, input string) (Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.errs", []byte(input))
	bag := diag.NewBag(32)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: reporter})
	res := parser.ParseFile(id, lx, parser.Options{Reporter: reporter})
	if bag.HasErrors() {
		t.Fatalf("parse diagnostics: %v", bag.Items())
	}
	if len(res.File.Unions) != 1 {
		t.Fatalf("expected exactly one union, got %d", len(res.File.Unions))
	}
	return Union(res.File.Unions[0], reporter), bag
}

func TestUnion_ExplicitVariants(t *testing.T) {
	res, bag := classifyInput(t, `
union E {
    Warned @report(warn)
    Silent @report(no)
    Pinned(dns.Error) @report(info)
}
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if !res.Clean() {
		t.Fatalf("expected a clean result")
	}

	c := res.Variants[0]
	if c.Kind != ExplicitNoPayload || !c.LevelOK || c.Level != level.Warn {
		t.Errorf("Warned = %+v", c)
	}

	c = res.Variants[1]
	if c.Kind != ExplicitNoPayload || !c.LevelOK || c.Level != level.No {
		t.Errorf("Silent = %+v", c)
	}

	// Аннотация побеждает: payload присутствует, но не проверяется.
	c = res.Variants[2]
	if c.Kind != ExplicitWithPayload || !c.LevelOK || c.Level != level.Info {
		t.Errorf("Pinned = %+v", c)
	}
}

func TestUnion_AnnotationOverridesIneligibleShape(t *testing.T) {
	// Кортеж не может делегировать, но аннотация делает форму неважной.
	res, bag := classifyInput(t, `
union E {
    Pinned((string, string)) @report(error)
}
`)
	if bag.HasErrors() {
		t.Fatalf("annotation must suppress shape validation: %v", bag.Items())
	}
	c := res.Variants[0]
	if c.Kind != ExplicitWithPayload || c.Level != level.Error {
		t.Errorf("Pinned = %+v", c)
	}
}

func TestUnion_Delegated(t *testing.T) {
	input := `union E {
    Plain(Inner)
    Qualified(dns.Error)
    Referenced(&cache.Error)
}`
	res, bag := classifyInput(t, input)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	for i, wantSpan := range []string{"Inner", "dns.Error", "cache.Error"} {
		c := res.Variants[i]
		if c.Kind != Delegated {
			t.Fatalf("variant %d kind = %v, want Delegated", i, c.Kind)
		}
		got := input[c.DelegateSpan.Start:c.DelegateSpan.End]
		if got != wantSpan {
			t.Errorf("variant %d delegate span = %q, want %q", i, got, wantSpan)
		}
	}
}

func TestUnion_InvalidVariants(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode diag.Code
	}{
		{
			name:     "no annotation no payload",
			input:    "union E { Naked }",
			wantCode: diag.ClsMissingAnnotation,
		},
		{
			name:     "tuple payload",
			input:    "union E { Pair((string, string)) }",
			wantCode: diag.ClsIneligiblePayload,
		},
		{
			name:     "slice payload",
			input:    "union E { Lines([]string) }",
			wantCode: diag.ClsIneligiblePayload,
		},
		{
			name:     "array payload",
			input:    "union E { Raw([4]byte) }",
			wantCode: diag.ClsIneligiblePayload,
		},
		{
			name:     "generic payload",
			input:    "union E { Boxed(Map[string, int]) }",
			wantCode: diag.ClsIneligiblePayload,
		},
		{
			name:     "literal payload",
			input:    `union E { Oops("oops") }`,
			wantCode: diag.ClsIneligiblePayload,
		},
		{
			name:     "reference to tuple",
			input:    "union E { Ref(&(string, string)) }",
			wantCode: diag.ClsIneligiblePayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, bag := classifyInput(t, tt.input)
			c := res.Variants[0]
			if c.Kind != Invalid || c.Arm() {
				t.Errorf("classification = %+v, want Invalid without arm", c)
			}
			if res.Clean() {
				t.Errorf("result must not be clean")
			}
			if bag.Len() != 1 || bag.Items()[0].Code != tt.wantCode {
				t.Errorf("diagnostics = %v, want exactly one %v", bag.Items(), tt.wantCode)
			}
		})
	}
}

func TestUnion_UnknownKeyword(t *testing.T) {
	res, bag := classifyInput(t, "union E { Loud @report(loud) }")
	c := res.Variants[0]
	if c.Kind != ExplicitNoPayload || c.LevelOK || c.Arm() {
		t.Errorf("classification = %+v, want Explicit without arm", c)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.ClsUnknownLevelKeyword {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
	// Сообщение перечисляет весь словарь
	msg := bag.Items()[0].Message
	for _, kw := range level.Keywords() {
		if !strings.Contains(msg, kw) {
			t.Errorf("message %q does not mention %q", msg, kw)
		}
	}
}

func TestUnion_BestEffortKeepsGoing(t *testing.T) {
	res, bag := classifyInput(t, `
union E {
    Naked
    Fine @report(debug)
    Pair((string, string))
    Also(Inner)
}
`)
	if len(res.Variants) != 4 {
		t.Fatalf("every variant needs a classification, got %d", len(res.Variants))
	}
	wantKinds := []Kind{Invalid, ExplicitNoPayload, Invalid, Delegated}
	for i, want := range wantKinds {
		if res.Variants[i].Kind != want {
			t.Errorf("variant %d kind = %v, want %v", i, res.Variants[i].Kind, want)
		}
	}
	if bag.Len() != 2 {
		t.Errorf("want exactly one diagnostic per invalid variant, got %v", bag.Items())
	}
}

func TestValidateShape_SpanJoinsQualifiedPath(t *testing.T) {
	input := "union E { D(a.b.Error) }"
	res, _ := classifyInput(t, input)
	c := res.Variants[0]
	got := input[c.DelegateSpan.Start:c.DelegateSpan.End]
	if got != "a.b.Error" {
		t.Errorf("delegate span = %q, want %q", got, "a.b.Error")
	}
}

func TestValidateShape_Direct(t *testing.T) {
	named := &ast.NamedType{Segments: []ast.PathSegment{
		{Name: "Inner", NameSpan: source.Span{Start: 2, End: 7}},
	}}
	sp, ok := ValidateShape(named)
	if !ok || sp != named.Span() {
		t.Errorf("ValidateShape(named) = %v, %v", sp, ok)
	}

	ref := &ast.RefType{AmpSpan: source.Span{Start: 0, End: 1}, Elem: named}
	sp, ok = ValidateShape(ref)
	if !ok || sp != named.Span() {
		t.Errorf("ValidateShape(&named) = %v, %v; span must point at the referenced type", sp, ok)
	}

	tup := &ast.TupleType{ParenSpan: source.Span{Start: 0, End: 10}}
	if _, ok := ValidateShape(tup); ok {
		t.Errorf("tuple must be ineligible")
	}
}
