// Package diagfmt renders collected diagnostics for humans (pretty)
// and machines (json). It never mutates the bag; callers sort first.
package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"errlevel/internal/diag"
	"errlevel/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printDiagnostic(w, d, fs, opts)
	}
}

func printDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)

	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		displayPath(f, fs, opts.PathMode),
		start.Line, start.Col,
		severityColor(d.Severity, opts.Color).Sprint(d.Severity.String()),
		severityColor(d.Severity, opts.Color).Sprint(d.Code.ID()),
		d.Message)

	printContext(w, f, start, end, opts)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			ns, _ := fs.Resolve(note.Span)
			nf := fs.Get(note.Span.File)
			fmt.Fprintf(w, "  note: %s:%d:%d: %s\n",
				displayPath(nf, fs, opts.PathMode), ns.Line, ns.Col, note.Msg)
		}
	}
}

// printContext печатает строки вокруг span и подчёркивание под primary
// строкой. Подчёркивание не выходит за конец строки, даже если span
// многострочный.
func printContext(w io.Writer, f *source.File, start, end source.LineCol, opts PrettyOpts) {
	ctx := int(opts.Context)
	if ctx < 0 {
		ctx = 0
	}
	first := int(start.Line) - ctx
	if first < 1 {
		first = 1
	}
	last := int(start.Line) + ctx

	gutter := len(fmt.Sprintf("%d", last))
	for ln := first; ln <= last; ln++ {
		text := f.GetLine(uint32(ln))
		if ln > int(start.Line) && text == "" {
			break
		}
		display := text
		if opts.Width > 0 {
			display = runewidth.Truncate(display, int(opts.Width), "…")
		}
		fmt.Fprintf(w, "  %*d | %s\n", gutter, ln, display)
		if ln == int(start.Line) {
			printUnderline(w, text, start, end, gutter, opts)
		}
	}
}

func printUnderline(w io.Writer, line string, start, end source.LineCol, gutter int, opts PrettyOpts) {
	startCol := int(start.Col)
	if startCol < 1 {
		startCol = 1
	}
	// Ширина префикса в экранных колонках: табы и широкие руны
	// учитываются через runewidth.
	prefix := lineSlice(line, startCol-1)
	pad := runewidth.StringWidth(prefix)

	width := 1
	if end.Line == start.Line && int(end.Col) > startCol {
		width = runewidth.StringWidth(lineSlice(line, int(end.Col)-1)) - pad
		if width < 1 {
			width = 1
		}
	} else if end.Line > start.Line {
		// до конца строки
		width = runewidth.StringWidth(line) - pad
		if width < 1 {
			width = 1
		}
	}

	marker := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		marker = color.New(color.FgHiRed, color.Bold).Sprint(marker)
	}
	fmt.Fprintf(w, "  %s | %s%s\n", strings.Repeat(" ", gutter), strings.Repeat(" ", pad), marker)
}

// lineSlice возвращает первые n байт строки: колонки считаются в
// байтах, а span всегда режет по границе руны.
func lineSlice(line string, n int) string {
	if n <= 0 {
		return ""
	}
	if n > len(line) {
		n = len(line)
	}
	return line[:n]
}

func severityColor(sev diag.Severity, enabled bool) *color.Color {
	var c *color.Color
	switch sev {
	case diag.SevError:
		c = color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgCyan)
	}
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func displayPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeRelative:
		if rel, err := filepath.Rel(fs.BaseDir(), f.Path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
		return f.Path
	case PathModeBasename:
		return filepath.Base(f.Path)
	default:
		return f.DisplayPath(fs.BaseDir())
	}
}
