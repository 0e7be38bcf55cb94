// Package project locates and parses the errlevel.toml manifest that
// configures generation for a directory tree.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file looked up from the working directory up to
// the filesystem root.
const ManifestName = "errlevel.toml"

// Manifest is a located and parsed errlevel.toml.
type Manifest struct {
	Path   string // абсолютный путь до errlevel.toml
	Root   string // директория манифеста
	Config Config
}

// Config is the TOML shape of the manifest.
type Config struct {
	Package  PackageConfig     `toml:"package"`
	Generate GenerateConfig    `toml:"generate"`
	Imports  map[string]string `toml:"imports"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

// GenerateConfig controls the generated output.
type GenerateConfig struct {
	// Package is the package clause of generated files. Defaults to
	// [package].name.
	Package string `toml:"package"`
	// OutDir is where generated files go, relative to the source file's
	// directory. Empty means alongside the source.
	OutDir string `toml:"out_dir"`
	// Runtime overrides the import path of the runtime package.
	Runtime string `toml:"runtime"`
}

// Find walks from startDir upward looking for errlevel.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load discovers and parses the manifest for startDir. The second
// return is false when no manifest exists, which is not an error:
// generation then runs on defaults.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

// LoadConfig parses one manifest file and validates required keys.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	for q, imp := range cfg.Imports {
		if strings.TrimSpace(imp) == "" {
			return Config{}, fmt.Errorf("%s: empty import path for qualifier %q", path, q)
		}
	}
	return cfg, nil
}

// GenPackage returns the package clause for generated files.
func (m *Manifest) GenPackage() string {
	if m == nil {
		return ""
	}
	if p := strings.TrimSpace(m.Config.Generate.Package); p != "" {
		return p
	}
	return strings.TrimSpace(m.Config.Package.Name)
}

// RuntimeImport returns the runtime import path, empty for the default.
func (m *Manifest) RuntimeImport() string {
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m.Config.Generate.Runtime)
}

// ImportsMap returns the qualifier mapping, never nil.
func (m *Manifest) ImportsMap() map[string]string {
	if m == nil || m.Config.Imports == nil {
		return map[string]string{}
	}
	return m.Config.Imports
}

// OutPath maps a source file path to its generated file path:
// fetch.errs -> fetch_errlevel.go, honoring [generate].out_dir.
func (m *Manifest) OutPath(srcPath string) string {
	dir := filepath.Dir(srcPath)
	base := filepath.Base(srcPath)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	out := base + "_errlevel.go"
	if m != nil {
		if od := strings.TrimSpace(m.Config.Generate.OutDir); od != "" {
			if filepath.IsAbs(od) {
				return filepath.Join(od, out)
			}
			return filepath.Join(dir, od, out)
		}
	}
	return filepath.Join(dir, out)
}
