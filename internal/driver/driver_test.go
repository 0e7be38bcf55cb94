package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"errlevel/internal/diag"
	"errlevel/internal/project"
)

const cleanSource = `union FetchError {
	Timeout @report(warn)
	Offline @report(no)
	Dns(dns.Error)
}
`

const brokenSource = `union FetchError {
	Timeout @report(wrn)
	Missing
}
`

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testManifest(t *testing.T, dir string) *project.Manifest {
	t.Helper()
	content := "[package]\nname = \"fetch\"\n\n[imports]\ndns = \"example.com/net/dns\"\n"
	writeSource(t, dir, project.ManifestName, content)
	m, ok, err := project.Load(dir)
	if err != nil || !ok {
		t.Fatalf("manifest: ok=%v err=%v", ok, err)
	}
	return m
}

func TestGenerateFile_Clean(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "fetch.errs", cleanSource)
	m := testManifest(t, dir)

	_, res, err := GenerateFile(path, Options{Manifest: m})
	if err != nil {
		t.Fatalf("GenerateFile: %v", err)
	}
	if !res.Clean() {
		t.Fatalf("diagnostics on clean source: %+v", res.Bag.Items())
	}
	if res.Unions != 1 {
		t.Errorf("unions = %d, want 1", res.Unions)
	}
	if res.Output == nil {
		t.Fatal("no output for clean source")
	}
	text := string(res.Output)
	for _, frag := range []string{"package fetch", "type FetchError interface", "\"example.com/net/dns\""} {
		if !strings.Contains(text, frag) {
			t.Errorf("output missing %q:\n%s", frag, text)
		}
	}
	if res.OutPath != filepath.Join(dir, "fetch_errlevel.go") {
		t.Errorf("OutPath = %q", res.OutPath)
	}
}

func TestGenerateFile_BrokenProducesNoOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "fetch.errs", brokenSource)

	_, res, err := GenerateFile(path, Options{})
	if err != nil {
		t.Fatalf("GenerateFile: %v", err)
	}
	if !res.Bag.HasErrors() {
		t.Fatal("want diagnostics for broken source")
	}
	if res.Output != nil {
		t.Errorf("output produced despite errors:\n%s", res.Output)
	}
	// оба дефекта в одном прогоне: wrn и Missing
	var codes []diag.Code
	for _, d := range res.Bag.Items() {
		codes = append(codes, d.Code)
	}
	hasKeyword, hasMissing := false, false
	for _, c := range codes {
		if c == diag.ClsUnknownLevelKeyword {
			hasKeyword = true
		}
		if c == diag.ClsMissingAnnotation {
			hasMissing = true
		}
	}
	if !hasKeyword || !hasMissing {
		t.Errorf("want both classification errors, got %v", codes)
	}
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "fetch.errs", cleanSource)
	m := testManifest(t, dir)

	_, res, err := GenerateFile(path, Options{Manifest: m})
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteOutput(res); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}
	written, err := os.ReadFile(res.OutPath)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(written) != string(res.Output) {
		t.Error("written file differs from result output")
	}
}

func TestGenerateFile_LargeDiagnosticCap(t *testing.T) {
	// 1<<16 ровно переполняет uint16: урезанный лимит молча ронял бы
	// все диагностики и невалидный union получал бы сгенерированный код.
	dir := t.TempDir()
	path := writeSource(t, dir, "fetch.errs", brokenSource)

	_, res, err := GenerateFile(path, Options{MaxDiagnostics: 1 << 16})
	if err != nil {
		t.Fatalf("GenerateFile: %v", err)
	}
	if res.Bag.Len() == 0 || !res.Bag.HasErrors() {
		t.Fatalf("diagnostics lost under large cap: len=%d", res.Bag.Len())
	}
	if res.Output != nil {
		t.Errorf("output produced despite errors:\n%s", res.Output)
	}
}

func TestGenerateFile_UnmappedQualifierProducesNoOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "fetch.errs", cleanSource) // dns не замаплен

	_, res, err := GenerateFile(path, Options{})
	if err != nil {
		t.Fatalf("GenerateFile: %v", err)
	}
	if !res.Bag.HasErrors() {
		t.Fatal("want GenUnknownImport error for unmapped qualifier")
	}
	found := false
	for _, d := range res.Bag.Items() {
		if d.Code == diag.GenUnknownImport {
			found = true
		}
	}
	if !found {
		t.Errorf("no GenUnknownImport in %+v", res.Bag.Items())
	}
	if res.Output != nil {
		t.Errorf("output produced for uncompilable imports:\n%s", res.Output)
	}
}

func TestGenerateTimings(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "fetch.errs", cleanSource)
	m := testManifest(t, dir)

	_, res, err := GenerateFile(path, Options{Manifest: m, Timings: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Timing == nil || len(res.Timing.Phases) == 0 {
		t.Fatal("no timing phases collected")
	}
	names := make([]string, 0, len(res.Timing.Phases))
	for _, p := range res.Timing.Phases {
		names = append(names, p.Name)
	}
	for _, want := range []string{"parse", "classify", "emit"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("phase %q missing from %v", want, names)
		}
	}
}

func TestGenerateDir(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "b.errs", cleanSource)
	writeSource(t, dir, "a.errs", "union A {\n\tX @report(info)\n}\n")
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeSource(t, sub, "c.errs", brokenSource)
	writeSource(t, dir, "ignored.txt", "not a union file")
	m := testManifest(t, dir)

	_, results, err := GenerateDir(context.Background(), dir, 2, Options{Manifest: m})
	if err != nil {
		t.Fatalf("GenerateDir: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}

	// детерминированный порядок: по пути
	if filepath.Base(results[0].Path) != "a.errs" ||
		filepath.Base(results[1].Path) != "b.errs" ||
		filepath.Base(results[2].Path) != "c.errs" {
		t.Errorf("order: %s, %s, %s", results[0].Path, results[1].Path, results[2].Path)
	}

	if results[0].Output == nil || results[1].Output == nil {
		t.Error("clean files must produce output")
	}
	if results[2].Output != nil {
		t.Error("broken file must not produce output")
	}
	if !results[2].Bag.HasErrors() {
		t.Error("broken file must carry diagnostics")
	}
}

func TestGenerateDirEmpty(t *testing.T) {
	_, results, err := GenerateDir(context.Background(), t.TempDir(), 0, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

func TestGenPackageFallback(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"pkg/fetch.errs", "pkg"},
		{"My-Dir/fetch.errs", "mydir"},
		{"fetch.errs", "errs"},
	}
	for _, tt := range tests {
		if got := genPackage(nil, tt.path); got != tt.want {
			t.Errorf("genPackage(nil, %q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
