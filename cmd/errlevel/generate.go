package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"errlevel/internal/diag"
	"errlevel/internal/diagfmt"
	"errlevel/internal/driver"
	"errlevel/internal/project"
	"errlevel/internal/source"
)

// errDiagnostics сигнализирует exit code 1 после уже напечатанных
// диагностик; cobra его не выводит благодаря SilenceErrors.
var errDiagnostics = errors.New("diagnostics reported")

var generateCmd = &cobra.Command{
	Use:   "generate [flags] <file.errs|directory>",
	Short: "Generate severity dispatch code for union declarations",
	Long:  `Generate Go source for every union in a *.errs file or for all *.errs files within a directory`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	generateCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	generateCmd.Flags().Bool("check-only", false, "verify declarations without writing output")
	generateCmd.Flags().Bool("cache", false, "enable persistent disk cache for generated output")
	generateCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	generateCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	return runPipeline(cmd, args[0], false)
}

// runPipeline выполняет generate и check: разница только в записи
// результата на диск.
func runPipeline(cmd *cobra.Command, path string, forceCheck bool) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	checkOnly := forceCheck
	if !checkOnly {
		checkOnly, err = cmd.Flags().GetBool("check-only")
		if err != nil {
			return fmt.Errorf("failed to get check-only flag: %w", err)
		}
	}
	useDiskCache := false
	if f := cmd.Flags().Lookup("cache"); f != nil {
		useDiskCache, err = cmd.Flags().GetBool("cache")
		if err != nil {
			return fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	colorOn, err := useColor(cmd)
	if err != nil {
		return err
	}

	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	startDir := path
	if !st.IsDir() {
		startDir = filepath.Dir(path)
	}
	manifest, _, err := project.Load(startDir)
	if err != nil {
		return err
	}

	var cache *driver.DiskCache
	if useDiskCache {
		cache, err = driver.OpenDiskCache("errlevel")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
	}

	opts := driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Manifest:       manifest,
		Cache:          cache,
		Timings:        showTimings,
	}

	var (
		fileSet *source.FileSet
		results []*driver.Result
	)
	if st.IsDir() {
		fileSet, results, err = driver.GenerateDir(cmd.Context(), path, jobs, opts)
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}
	} else {
		if !strings.HasSuffix(path, driver.SourceExt) {
			return fmt.Errorf("%s: expected a %s file or a directory", path, driver.SourceExt)
		}
		var res *driver.Result
		fileSet, res, err = driver.GenerateFile(path, opts)
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}
		results = []*driver.Result{res}
	}

	// Все диагностики в один bag; порядок детерминирован сортировкой.
	merged := diag.NewBag(maxDiagnostics)
	for _, res := range results {
		merged.Merge(res.Bag)
	}
	merged.Sort()

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, merged, fileSet, diagfmt.PrettyOpts{
			Color:     colorOn,
			Context:   1,
			PathMode:  pathMode,
			ShowNotes: withNotes,
		})
	case "json":
		if err := diagfmt.JSON(os.Stdout, merged, fileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	written := 0
	failed := 0
	for _, res := range results {
		if res.Bag != nil && res.Bag.HasErrors() {
			failed++
		}
		if res.Output == nil || checkOnly {
			continue
		}
		if err := driver.WriteOutput(res); err != nil {
			return fmt.Errorf("failed to write %s: %w", res.OutPath, err)
		}
		written++
	}

	if showTimings {
		printTimings(os.Stderr, results)
	}
	if !quiet {
		if checkOnly {
			fmt.Fprintf(os.Stderr, "checked %d file(s), %d with errors\n", len(results), failed)
		} else {
			fmt.Fprintf(os.Stderr, "generated %d of %d file(s)\n", written, len(results))
		}
	}

	if merged.HasErrors() {
		// Диагностики уже напечатаны, cobra не должна дублировать.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errDiagnostics
	}
	return nil
}

func printTimings(w *os.File, results []*driver.Result) {
	for _, res := range results {
		if res.Timing == nil {
			if res.Cached {
				fmt.Fprintf(w, "%s: cached\n", res.Path)
			}
			continue
		}
		fmt.Fprintf(w, "%s:\n", res.Path)
		for _, p := range res.Timing.Phases {
			fmt.Fprintf(w, "  %-12s %7.2f ms", p.Name, p.DurationMS)
			if p.Note != "" {
				fmt.Fprintf(w, "  // %s", p.Note)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "  %-12s %7.2f ms\n", "total", res.Timing.TotalMS)
	}
}
