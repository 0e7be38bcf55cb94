// Package level defines the closed severity vocabulary of @report
// annotations and its mapping onto generated Go code.
package level

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Level is the severity a variant reports at. No means "never report".
type Level uint8

const (
	No Level = iota
	Trace
	Debug
	Info
	Warn
	Error
)

// keywords — закрытый словарь. Регистрозависимо: только lowercase.
var keywords = map[string]Level{
	"no":    No,
	"trace": Trace,
	"debug": Debug,
	"info":  Info,
	"warn":  Warn,
	"error": Error,
}

// Keywords returns the legal annotation keywords in severity order,
// for use in diagnostics.
func Keywords() []string {
	return []string{"no", "trace", "debug", "info", "warn", "error"}
}

// Parse maps an annotation keyword to its Level. The match is exact
// and case-sensitive; anything else is the caller's diagnostic.
func Parse(keyword string) (Level, bool) {
	l, ok := keywords[keyword]
	return l, ok
}

var titler = cases.Title(language.English)

// Keyword returns the annotation spelling of the level.
func (l Level) Keyword() string {
	for _, kw := range Keywords() {
		if keywords[kw] == l {
			return kw
		}
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

// GoName returns the exported runtime constant name: warn -> Warn.
func (l Level) GoName() string {
	return titler.String(l.Keyword())
}

func (l Level) String() string { return l.Keyword() }

// GoReturn returns the generated dispatch arm's return expression for
// a fixed level, qualified with the runtime package name.
// No compiles to the zero Level plus false: no report happens.
func (l Level) GoReturn(runtimePkg string) string {
	if l == No {
		return "0, false"
	}
	return fmt.Sprintf("%s.%s, true", runtimePkg, l.GoName())
}
