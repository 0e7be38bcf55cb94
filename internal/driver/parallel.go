package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"errlevel/internal/diag"
	"errlevel/internal/source"
)

// SourceExt is the extension of union declaration files.
const SourceExt = ".errs"

// listErrsFiles возвращает отсортированный список всех *.errs файлов в директории
func listErrsFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// GenerateDir обрабатывает все *.errs файлы в директории параллельно.
// Результаты возвращаются в порядке сортировки путей независимо от
// порядка завершения горутин.
func GenerateDir(ctx context.Context, dir string, jobs int, opts Options) (*source.FileSet, []*Result, error) {
	files, err := listErrsFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = DefaultMaxDiagnostics
	}

	if len(files) == 0 {
		return source.NewFileSetWithBase(dir), nil, nil
	}

	// Создаём FileSet и предзагружаем все файлы: Load не потокобезопасен,
	// а горутинам нужны только чтения. Ошибки загрузки оформляются
	// результатами здесь же, до запуска горутин.
	fileSet := source.NewFileSetWithBase(dir)
	fileIDs := make(map[string]source.FileID, len(files))
	results := make([]*Result, len(files))

	for i, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			bag := diag.NewBag(opts.MaxDiagnostics)
			// Виртуальный файл, чтобы диагностике было на что ссылаться.
			virtID := fileSet.AddVirtual(path, nil)
			bag.Add(diag.New(
				diag.SevError,
				diag.IOLoadFileError,
				source.Span{File: virtID},
				"failed to load file: "+err.Error(),
			))
			results[i] = &Result{
				Path:    path,
				FileID:  virtID,
				Bag:     bag,
				OutPath: opts.Manifest.OutPath(path),
			}
			continue
		}
		fileIDs[path] = fileID
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	// Индексы уникальны для каждой горутины, мьютекс не нужен.
	for i, path := range files {
		if results[i] != nil {
			continue
		}
		g.Go(func(i int, path string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				results[i] = Generate(fileSet, fileIDs[path], path, opts)
				return nil
			}
		}(i, path))
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}

	return fileSet, results, nil
}
