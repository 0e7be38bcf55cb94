// Package emit synthesizes the Go source generated for classified
// union declarations: a sealed interface per union, one struct per
// usable variant, and a single dispatch function holding every
// severity decision.
package emit

import (
	"fmt"
	"go/format"
	"path"
	"sort"
	"strings"

	"errlevel/internal/ast"
	"errlevel/internal/classify"
	"errlevel/internal/diag"
	"errlevel/internal/source"
)

// Options configures one generated file.
type Options struct {
	// Package is the package clause of the generated file.
	Package string
	// RuntimeImport is the import path of the runtime package that
	// defines Level and Classifier.
	RuntimeImport string
	// Imports maps payload qualifiers to Go import paths, from the
	// project manifest.
	Imports map[string]string
	// Reporter receives emission diagnostics (unknown qualifiers,
	// formatting failures).
	Reporter diag.Reporter
}

type importEntry struct {
	path  string
	alias string // пустой, когда base(path) совпадает с квалификатором
}

type Emitter struct {
	opts    Options
	runtime string // имя пакета рантайма в сгенерированном коде
	buf     strings.Builder
	imports map[string]importEntry // qualifier -> entry
	unknown map[string]bool        // квалификаторы, о которых уже сообщили
}

// File renders the generated Go source for the given classified
// unions. The output is deterministic for a fixed input. Formatting
// runs through go/format; if that fails the raw source is returned
// together with a GenFormatFailed diagnostic so the caller can decide
// whether to keep it.
func File(unions []classify.Result, opts Options) ([]byte, error) {
	if opts.RuntimeImport == "" {
		opts.RuntimeImport = "errlevel"
	}
	e := &Emitter{
		opts:    opts,
		runtime: path.Base(opts.RuntimeImport),
		imports: make(map[string]importEntry),
		unknown: make(map[string]bool),
	}
	for _, u := range unions {
		e.collectImports(u)
	}
	e.emitHeader()
	for i, u := range unions {
		if i > 0 {
			e.buf.WriteString("\n")
		}
		e.emitUnion(u)
	}
	raw := []byte(e.buf.String())
	formatted, err := format.Source(raw)
	if err != nil {
		e.report(diag.GenFormatFailed, diag.SevError, source.Span{},
			fmt.Sprintf("generated source does not parse: %v", err))
		return raw, fmt.Errorf("format generated source: %w", err)
	}
	return formatted, nil
}

// collectImports walks the payload types of every variant that will
// get a struct, resolving qualifiers ahead of the header.
func (e *Emitter) collectImports(u classify.Result) {
	for _, c := range u.Variants {
		if c.Kind == classify.Invalid || c.Variant.Payload == nil {
			continue
		}
		e.collectType(c.Variant.Payload)
	}
}

func (e *Emitter) collectType(t ast.TypeExpr) {
	switch t := t.(type) {
	case *ast.NamedType:
		e.resolveQualifier(t)
	case *ast.RefType:
		e.collectType(t.Elem)
	case *ast.TupleType:
		for _, elem := range t.Elems {
			e.collectType(elem)
		}
	case *ast.SliceType:
		e.collectType(t.Elem)
	case *ast.ArrayType:
		e.collectType(t.Elem)
	case *ast.GenericType:
		e.resolveQualifier(t.Base)
		for _, arg := range t.Args {
			e.collectType(arg)
		}
	}
}

func (e *Emitter) resolveQualifier(t *ast.NamedType) {
	q := t.Qualifier()
	if q == "" {
		return
	}
	if _, ok := e.imports[q]; ok {
		return
	}
	imp, ok := e.opts.Imports[q]
	if !ok {
		if !e.unknown[q] {
			e.unknown[q] = true
			e.report(diag.GenUnknownImport, diag.SevError, t.Span(),
				fmt.Sprintf("no import mapping for qualifier %q: add it to [imports] in errlevel.toml", q))
		}
		return
	}
	entry := importEntry{path: imp}
	if path.Base(imp) != q {
		entry.alias = q
	}
	e.imports[q] = entry
}

func (e *Emitter) emitHeader() {
	e.buf.WriteString("// Code generated by errlevel. DO NOT EDIT.\n\n")
	fmt.Fprintf(&e.buf, "package %s\n\n", e.opts.Package)

	paths := make([]string, 0, len(e.imports)+1)
	byPath := make(map[string]string, len(e.imports))
	paths = append(paths, e.opts.RuntimeImport)
	for _, entry := range e.imports {
		paths = append(paths, entry.path)
		byPath[entry.path] = entry.alias
	}
	sort.Strings(paths)

	e.buf.WriteString("import (\n")
	for _, p := range paths {
		if alias := byPath[p]; alias != "" {
			fmt.Fprintf(&e.buf, "\t%s %q\n", alias, p)
		} else {
			fmt.Fprintf(&e.buf, "\t%q\n", p)
		}
	}
	e.buf.WriteString(")\n\n")
}

func (e *Emitter) emitUnion(u classify.Result) {
	name := u.Union.Name
	marker := "is" + name
	dispatch := dispatchName(name)

	// Запечатанный интерфейс: внешние пакеты не могут добавить вариант.
	fmt.Fprintf(&e.buf, "// %s is a sealed union; its variants are defined below.\n", name)
	fmt.Fprintf(&e.buf, "type %s interface {\n", name)
	fmt.Fprintf(&e.buf, "\t%s.Classifier\n", e.runtime)
	fmt.Fprintf(&e.buf, "\t%s()\n", marker)
	e.buf.WriteString("}\n\n")

	for _, c := range u.Variants {
		if c.Kind == classify.Invalid {
			continue
		}
		e.emitVariantStruct(name, c)
	}
	for _, c := range u.Variants {
		if c.Kind == classify.Invalid {
			continue
		}
		fmt.Fprintf(&e.buf, "func (%s%s) %s() {}\n", name, c.Variant.Name, marker)
	}
	e.buf.WriteString("\n")
	for _, c := range u.Variants {
		if c.Kind == classify.Invalid {
			continue
		}
		fmt.Fprintf(&e.buf, "func (v %s%s) ErrorLevel() (%s.Level, bool) { return %s(v) }\n",
			name, c.Variant.Name, e.runtime, dispatch)
	}
	e.buf.WriteString("\n")
	e.emitDispatch(u, name, dispatch)
}

func (e *Emitter) emitVariantStruct(union string, c classify.Classification) {
	v := c.Variant
	if v.Payload == nil {
		fmt.Fprintf(&e.buf, "type %s%s struct{}\n\n", union, v.Name)
		return
	}
	fmt.Fprintf(&e.buf, "type %s%s struct {\n", union, v.Name)
	if tup, ok := v.Payload.(*ast.TupleType); ok {
		for i, elem := range tup.Elems {
			fmt.Fprintf(&e.buf, "\tP%d %s\n", i, e.goType(elem))
		}
	} else {
		fmt.Fprintf(&e.buf, "\tPayload %s\n", e.goType(v.Payload))
	}
	e.buf.WriteString("}\n\n")
}

// emitDispatch writes the single dispatch function: one type-switch
// arm per usable variant, severity decisions nowhere else.
func (e *Emitter) emitDispatch(u classify.Result, name, dispatch string) {
	binds := false
	for _, c := range u.Variants {
		if c.Kind == classify.Delegated {
			binds = true
			break
		}
	}

	fmt.Fprintf(&e.buf, "func %s(u %s) (%s.Level, bool) {\n", dispatch, name, e.runtime)
	if binds {
		e.buf.WriteString("\tswitch v := u.(type) {\n")
	} else {
		e.buf.WriteString("\tswitch u.(type) {\n")
	}
	for _, c := range u.Variants {
		if !c.Arm() {
			continue
		}
		fmt.Fprintf(&e.buf, "\tcase %s%s:\n", name, c.Variant.Name)
		if c.Kind == classify.Delegated {
			e.buf.WriteString("\t\treturn v.Payload.ErrorLevel()\n")
		} else {
			fmt.Fprintf(&e.buf, "\t\treturn %s\n", c.Level.GoReturn(e.runtime))
		}
	}
	e.buf.WriteString("\t}\n")
	e.buf.WriteString("\treturn 0, false\n")
	e.buf.WriteString("}\n")
}

// goType renders a payload shape as Go source. Qualified names rely on
// the imports collected beforehand; an unmapped qualifier keeps its
// spelling, but resolveQualifier has already reported it as an error
// and the caller drops the output.
func (e *Emitter) goType(t ast.TypeExpr) string {
	switch t := t.(type) {
	case *ast.NamedType:
		return t.String()
	case *ast.RefType:
		return "*" + e.goType(t.Elem)
	case *ast.TupleType:
		parts := make([]string, len(t.Elems))
		for i, elem := range t.Elems {
			parts[i] = fmt.Sprintf("P%d %s", i, e.goType(elem))
		}
		return "struct{ " + strings.Join(parts, "; ") + " }"
	case *ast.SliceType:
		return "[]" + e.goType(t.Elem)
	case *ast.ArrayType:
		return "[" + t.Len + "]" + e.goType(t.Elem)
	case *ast.GenericType:
		args := make([]string, len(t.Args))
		for i, arg := range t.Args {
			args[i] = e.goType(arg)
		}
		return t.Base.String() + "[" + strings.Join(args, ", ") + "]"
	case *ast.LitType:
		if strings.HasPrefix(t.Text, "\"") {
			return "string"
		}
		return "int"
	}
	return "any"
}

func (e *Emitter) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if e.opts.Reporter != nil {
		e.opts.Reporter.Report(code, sev, sp, msg, nil)
	}
}

// dispatchName derives the unexported dispatch function name:
// FetchError -> fetchErrorLevel.
func dispatchName(union string) string {
	r := []rune(union)
	r[0] = []rune(strings.ToLower(string(r[0])))[0]
	return string(r) + "Level"
}
