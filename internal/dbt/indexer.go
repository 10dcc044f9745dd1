package dbt

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// modelsDirName is the directory under a project root that holds models.
const modelsDirName = "models"

// skipDirs are path segments excluded from both scan passes at any depth:
// vendored packages, build output, logs, and version control.
var skipDirs = map[string]struct{}{
	"dbt_packages": {},
	"dbt_modules":  {},
	"target":       {},
	"logs":         {},
	".git":         {},
}

// ScanError is a non-fatal per-file failure recorded during a project scan.
type ScanError struct {
	Path    string
	Stage   string // "walk", "read"
	Message string
}

func (e ScanError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Stage, e.Path, e.Message)
}

// Result holds everything extracted from one project scan. Records are
// rebuilt from scratch on every scan; nothing is persisted.
type Result struct {
	// ProjectName is the name from dbt_project.yml, empty when the config
	// is missing or does not declare one.
	ProjectName string

	// Models is sorted by name. The sort is stable, so two models sharing
	// a base name keep their tree-walk merge order.
	Models []Model

	Sources []Source

	// Errors are per-file failures that were logged and skipped.
	Errors []ScanError
}

// HasErrors reports whether any file was skipped during the scan.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Indexer scans a single dbt project tree.
type Indexer struct {
	logger *slog.Logger
}

// NewIndexer creates an indexer. A nil logger discards output.
func NewIndexer(logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Indexer{logger: logger}
}

// Index scans one project in two passes. Pass 1 reads every schema YAML
// file under models/, accumulating the description map (later file wins on
// a name collision) and the source list (no cross-file deduplication).
// Pass 2 reads every SQL file and builds model records, consulting the
// accumulated descriptions and the project's materialization defaults.
// Pass 1 must complete first: a model's description may live in a file
// processed after the model's SQL.
func (ix *Indexer) Index(projectPath string) *Result {
	result := &Result{}

	cfg := ReadProjectConfig(projectPath)
	result.ProjectName = stringValue(cfg["name"])
	defaults := DefaultMaterializations(cfg)

	modelsDir := filepath.Join(projectPath, modelsDirName)
	if info, err := os.Stat(modelsDir); err != nil || !info.IsDir() {
		return result
	}

	ymlFiles, yamlFiles, sqlFiles := ix.collectFiles(modelsDir, result)

	// Pass 1: schema YAML facts. .yml files first, then .yaml, matching
	// the two-extension scan order.
	descriptions := make(map[string]string)
	for _, path := range append(ymlFiles, yamlFiles...) {
		for name, desc := range ParseDescriptions(path) {
			descriptions[name] = desc
		}
		result.Sources = append(result.Sources, ParseSources(path)...)
	}

	// Pass 2: SQL model facts.
	for _, path := range sqlFiles {
		content, err := readFileLossy(path)
		if err != nil {
			ix.recordError(result, ScanError{Path: path, Stage: "read", Message: err.Error()})
			continue
		}

		name := strings.TrimSuffix(filepath.Base(path), ".sql")
		relPath, err := filepath.Rel(projectPath, path)
		if err != nil {
			relPath = path
		}

		refs, srcs := ParseDependencies(content)
		materialized := ParseConfig(content)["materialized"]
		if materialized == "" {
			materialized = ResolveMaterialization(path, modelsDir, defaults)
		}

		result.Models = append(result.Models, Model{
			Name:         name,
			Path:         filepath.ToSlash(relPath),
			Materialized: materialized,
			Refs:         refs,
			Sources:      srcs,
			Description:  descriptions[name],
		})
	}

	sort.SliceStable(result.Models, func(i, j int) bool {
		return result.Models[i].Name < result.Models[j].Name
	})

	ix.logger.Info("project indexed",
		"path", projectPath,
		"models", len(result.Models),
		"sources", len(result.Sources),
		"errors", len(result.Errors))

	return result
}

// collectFiles walks the models directory once, gathering schema and SQL
// files and pruning skipped directories. Walk failures are recorded and
// the walk continues.
func (ix *Indexer) collectFiles(modelsDir string, result *Result) (ymlFiles, yamlFiles, sqlFiles []string) {
	err := filepath.WalkDir(modelsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			ix.recordError(result, ScanError{Path: path, Stage: "walk", Message: err.Error()})
			return nil
		}
		if d.IsDir() {
			if _, skip := skipDirs[d.Name()]; skip {
				return fs.SkipDir
			}
			return nil
		}
		switch filepath.Ext(d.Name()) {
		case ".yml":
			ymlFiles = append(ymlFiles, path)
		case ".yaml":
			yamlFiles = append(yamlFiles, path)
		case ".sql":
			sqlFiles = append(sqlFiles, path)
		}
		return nil
	})
	if err != nil {
		ix.recordError(result, ScanError{Path: modelsDir, Stage: "walk", Message: err.Error()})
	}
	return ymlFiles, yamlFiles, sqlFiles
}

func (ix *Indexer) recordError(result *Result, scanErr ScanError) {
	result.Errors = append(result.Errors, scanErr)
	ix.logger.Warn("file skipped", "stage", scanErr.Stage, "path", scanErr.Path, "error", scanErr.Message)
}
