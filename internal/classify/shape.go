package classify

import (
	"errlevel/internal/ast"
	"errlevel/internal/source"
)

// ValidateShape decides whether a payload shape is eligible for
// delegation: a plain or dot-qualified type name, optionally taken by
// reference. The returned span is representative — for a qualified
// name it joins the first and last segment — and anchors both the
// delegation call and any diagnostic.
//
// The check is purely structural. Whether the named type actually
// implements the classification interface is not our business: an
// undeclared capability surfaces as a build failure in the generated
// code, not as a diagnostic here.
func ValidateShape(t ast.TypeExpr) (source.Span, bool) {
	switch shape := t.(type) {
	case *ast.NamedType:
		return shape.Span(), true
	case *ast.RefType:
		if named, ok := shape.Elem.(*ast.NamedType); ok {
			return named.Span(), true
		}
		return shape.Span(), false
	default:
		// кортежи, слайсы, массивы, generic-инстанциации, литералы
		return t.Span(), false
	}
}
