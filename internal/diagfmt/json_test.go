package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"errlevel/internal/diag"
	"errlevel/internal/source"
)

func testBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("fetch.errs", []byte("union A {\n    B @report(wrn)\n}\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.ClsUnknownLevelKeyword,
		source.Span{File: fileID, Start: 24, End: 27},
		"unknown level keyword \"wrn\"",
	))
	bag.Add(diag.New(
		diag.SevWarning,
		diag.GenUnknownImport,
		source.Span{File: fileID, Start: 0, End: 5},
		"no import mapping for qualifier \"dns\"",
	))
	return bag, fs
}

func TestJSONOutput(t *testing.T) {
	bag, fs := testBag(t)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("count = %d, diagnostics = %d; want 2, 2", out.Count, len(out.Diagnostics))
	}

	first := out.Diagnostics[0]
	if first.Code != "CLS3001" || first.Severity != "ERROR" {
		t.Errorf("first = %s %s, want ERROR CLS3001", first.Severity, first.Code)
	}
	if first.Location.StartByte != 24 || first.Location.EndByte != 27 {
		t.Errorf("bytes = %d..%d, want 24..27", first.Location.StartByte, first.Location.EndByte)
	}
	if first.Location.StartLine != 2 || first.Location.StartCol != 15 {
		t.Errorf("position = %d:%d, want 2:15", first.Location.StartLine, first.Location.StartCol)
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	bag, fs := testBag(t)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("start_line")) {
		t.Errorf("positions present despite IncludePositions=false:\n%s", buf.String())
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	bag, fs := testBag(t)

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Errorf("Max=1 gave count %d", out.Count)
	}
}

func TestJSONNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.errs", []byte("union A {\n    B\n    B\n}\n"))

	bag := diag.NewBag(10)
	d := diag.New(diag.SevError, diag.SynDuplicateVariant,
		source.Span{File: fileID, Start: 20, End: 21}, "duplicate variant \"B\"")
	d = d.WithNote(source.Span{File: fileID, Start: 14, End: 15}, "first declared here")
	bag.Add(d)

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeNotes: true})
	if len(out.Diagnostics[0].Notes) != 1 {
		t.Fatalf("notes = %+v, want 1 note", out.Diagnostics[0].Notes)
	}
	if out.Diagnostics[0].Notes[0].Message != "first declared here" {
		t.Errorf("note message = %q", out.Diagnostics[0].Notes[0].Message)
	}

	out = BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeNotes: false})
	if len(out.Diagnostics[0].Notes) != 0 {
		t.Errorf("notes present despite IncludeNotes=false")
	}
}
