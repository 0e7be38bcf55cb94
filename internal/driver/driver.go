// Package driver runs the generation pipeline: load, parse, classify,
// emit, write. It owns nothing language-specific; the passes live in
// their own packages.
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"fortio.org/safecast"

	"errlevel/internal/classify"
	"errlevel/internal/diag"
	"errlevel/internal/emit"
	"errlevel/internal/lexer"
	"errlevel/internal/observ"
	"errlevel/internal/parser"
	"errlevel/internal/project"
	"errlevel/internal/source"
)

// DefaultMaxDiagnostics caps the bag when Options leaves it unset.
const DefaultMaxDiagnostics = 100

// Options configures one generation run.
type Options struct {
	// MaxDiagnostics caps the bag per file, <=0 берёт дефолт.
	MaxDiagnostics int
	// Manifest is the discovered errlevel.toml, nil when absent.
	Manifest *project.Manifest
	// Cache is the optional disk cache, nil disables caching.
	Cache *DiskCache
	// Timings enables per-phase timing collection.
	Timings bool
}

// Result is the outcome for one source file. Output is nil when the
// file produced error diagnostics: a broken declaration never gets a
// generated file.
type Result struct {
	Path    string
	FileID  source.FileID
	Bag     *diag.Bag
	Unions  int
	Output  []byte
	OutPath string
	Cached  bool
	Timing  *observ.Report
}

// Clean reports whether the file produced no diagnostics at all.
func (r *Result) Clean() bool {
	return r.Bag == nil || r.Bag.Len() == 0
}

// Generate runs the pipeline over one already-loaded file.
func Generate(fileSet *source.FileSet, fileID source.FileID, path string, opts Options) *Result {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = DefaultMaxDiagnostics
	}
	bag := diag.NewBag(opts.MaxDiagnostics)
	res := &Result{
		Path:    path,
		FileID:  fileID,
		Bag:     bag,
		OutPath: opts.Manifest.OutPath(path),
	}

	file := fileSet.Get(fileID)
	key := cacheKey(file.Hash, opts.Manifest.Digest())
	if opts.Cache != nil {
		var payload DiskPayload
		if ok, err := opts.Cache.Get(key, &payload); err == nil && ok {
			if payload.Schema == diskCacheSchemaVersion {
				res.Output = payload.Output
				res.Unions = payload.Unions
				res.Cached = true
				return res
			}
		}
	}

	var tm *observ.Timer
	if opts.Timings {
		tm = observ.NewTimer()
	}

	phase := beginPhase(tm, "parse")
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})

	maxErrors, err := safecast.Conv[uint](opts.MaxDiagnostics)
	if err != nil {
		panic(fmt.Errorf("maxDiagnostics overflow: %w", err))
	}
	parsed := parser.ParseFile(fileID, lx, parser.Options{
		MaxErrors: maxErrors,
		Reporter:  reporter,
	})
	endPhase(tm, phase, fmt.Sprintf("%d unions", len(parsed.File.Unions)))

	phase = beginPhase(tm, "classify")
	unions := make([]classify.Result, 0, len(parsed.File.Unions))
	for _, u := range parsed.File.Unions {
		unions = append(unions, classify.Union(u, reporter))
	}
	res.Unions = len(unions)
	endPhase(tm, phase, "")

	// Ошибки в объявлении: файл не получает сгенерированного кода.
	if !bag.HasErrors() && len(unions) > 0 {
		phase = beginPhase(tm, "emit")
		out, emitErr := emit.File(unions, emit.Options{
			Package:       genPackage(opts.Manifest, path),
			RuntimeImport: opts.Manifest.RuntimeImport(),
			Imports:       opts.Manifest.ImportsMap(),
			Reporter:      reporter,
		})
		// Emit тоже может добавить ошибки (неизвестный квалификатор),
		// тогда вывод не отдаём.
		if emitErr == nil && !bag.HasErrors() {
			res.Output = out
		}
		endPhase(tm, phase, "")
	}

	if opts.Cache != nil && res.Output != nil && bag.Len() == 0 {
		_ = opts.Cache.Put(key, &DiskPayload{
			Schema: diskCacheSchemaVersion,
			Path:   path,
			Unions: res.Unions,
			Output: res.Output,
		})
	}

	if tm != nil {
		report := tm.Report()
		res.Timing = &report
	}
	return res
}

// GenerateFile loads one file from disk and runs Generate on it.
func GenerateFile(path string, opts Options) (*source.FileSet, *Result, error) {
	fileSet := source.NewFileSetWithBase(filepath.Dir(path))
	fileID, err := fileSet.Load(path)
	if err != nil {
		return fileSet, nil, err
	}
	return fileSet, Generate(fileSet, fileID, path, opts), nil
}

// WriteOutput writes the generated source of a result to its OutPath.
func WriteOutput(res *Result) error {
	if res.Output == nil {
		return fmt.Errorf("%s: no output to write", res.Path)
	}
	if err := os.MkdirAll(filepath.Dir(res.OutPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(res.OutPath, res.Output, 0o644)
}

// genPackage picks the package clause for generated code: manifest
// setting first, otherwise the source file's directory name.
func genPackage(m *project.Manifest, path string) string {
	if p := m.GenPackage(); p != "" {
		return p
	}
	dir := filepath.Base(filepath.Dir(path))
	if p := sanitizeIdent(dir); p != "" {
		return p
	}
	return "errs"
}

// sanitizeIdent превращает имя директории в валидный идентификатор Go.
func sanitizeIdent(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r) && b.Len() > 0:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "." || out == "" {
		return ""
	}
	return out
}

func beginPhase(tm *observ.Timer, name string) int {
	if tm == nil {
		return -1
	}
	return tm.Begin(name)
}

func endPhase(tm *observ.Timer, idx int, note string) {
	if tm != nil {
		tm.End(idx, note)
	}
}
