// Package syncer drives the dbt index: it discovers every dbt project
// under a repos directory, indexes each one, and writes the markdown
// reports into the index directory.
package syncer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ealexisaraujo/nao/internal/dbt"
)

// Default directory names inside a nao project folder.
const (
	DefaultReposDir = "repos"
	DefaultIndexDir = "dbt-index"
)

const (
	manifestFile = "manifest.md"
	sourcesFile  = "sources.md"
)

// Syncer indexes all dbt projects under ReposDir and writes one report
// directory per repository under IndexDir.
type Syncer struct {
	// ProjectDir is the nao project folder; report headers show dbt
	// project paths relative to it.
	ProjectDir string

	ReposDir string
	IndexDir string

	// Parallel caps concurrent project scans. Projects share no state, so
	// any value is safe; values below one mean sequential.
	Parallel int

	Logger *slog.Logger

	// Now is the report timestamp source; nil means time.Now.
	Now func() time.Time
}

// New returns a Syncer rooted at projectDir with default directory layout.
func New(projectDir string, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Syncer{
		ProjectDir: projectDir,
		ReposDir:   filepath.Join(projectDir, DefaultReposDir),
		IndexDir:   filepath.Join(projectDir, DefaultIndexDir),
		Parallel:   1,
		Logger:     logger,
	}
}

// ProjectReport summarizes one repository's sync.
type ProjectReport struct {
	RepoName    string
	ProjectName string
	ModelCount  int
	SourceCount int
	OutDir      string
	Err         error
}

// RunResult summarizes one full sync pass.
type RunResult struct {
	Projects []ProjectReport
	Duration time.Duration
}

// Failed counts projects whose sync did not complete.
func (r *RunResult) Failed() int {
	n := 0
	for _, p := range r.Projects {
		if p.Err != nil {
			n++
		}
	}
	return n
}

// Run discovers and indexes every dbt project. A failure in one project is
// recorded in its report and never stops the others. A missing repos
// directory yields an empty result, not an error.
func (s *Syncer) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{}

	if info, err := os.Stat(s.ReposDir); err != nil || !info.IsDir() {
		s.Logger.Info("repos directory not found, nothing to index", "path", s.ReposDir)
		result.Duration = time.Since(start)
		return result, nil
	}

	projects := dbt.FindProjects(s.ReposDir)
	if len(projects) == 0 {
		s.Logger.Info("no dbt projects found", "path", s.ReposDir)
		result.Duration = time.Since(start)
		return result, nil
	}

	if err := os.MkdirAll(s.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	result.Projects = make([]ProjectReport, len(projects))

	eg, ctx := errgroup.WithContext(ctx)
	limit := s.Parallel
	if limit < 1 {
		limit = 1
	}
	eg.SetLimit(limit)

	for i, project := range projects {
		i, project := i, project
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				result.Projects[i] = ProjectReport{RepoName: project.RepoName, Err: err}
				return nil
			}
			result.Projects[i] = s.syncProject(project)
			return nil
		})
	}
	_ = eg.Wait()

	result.Duration = time.Since(start)
	s.Logger.Info("sync completed",
		"projects", len(result.Projects),
		"failed", result.Failed(),
		"duration_ms", result.Duration.Milliseconds())

	return result, nil
}

// syncProject indexes one repository and writes its two reports.
func (s *Syncer) syncProject(project dbt.Project) ProjectReport {
	report := ProjectReport{RepoName: project.RepoName}

	res := dbt.NewIndexer(s.Logger).Index(project.Path)
	report.ProjectName = res.ProjectName
	if report.ProjectName == "" {
		report.ProjectName = project.RepoName
	}
	report.ModelCount = len(res.Models)
	report.SourceCount = len(res.Sources)

	outDir := filepath.Join(s.IndexDir, project.RepoName)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		report.Err = fmt.Errorf("failed to create output directory: %w", err)
		return report
	}
	report.OutDir = outDir

	relPath, err := filepath.Rel(s.ProjectDir, project.Path)
	if err != nil {
		relPath = project.Path
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	generatedAt := now()

	manifest := dbt.GenerateManifest(res.Models, project.RepoName, filepath.ToSlash(relPath), report.ProjectName, generatedAt)
	if err := os.WriteFile(filepath.Join(outDir, manifestFile), []byte(manifest), 0o644); err != nil {
		report.Err = fmt.Errorf("failed to write manifest: %w", err)
		return report
	}

	sources := dbt.GenerateSources(res.Sources, project.RepoName, generatedAt)
	if err := os.WriteFile(filepath.Join(outDir, sourcesFile), []byte(sources), 0o644); err != nil {
		report.Err = fmt.Errorf("failed to write sources report: %w", err)
		return report
	}

	s.Logger.Info("repository indexed",
		"repo", project.RepoName,
		"models", report.ModelCount,
		"sources", report.SourceCount)

	return report
}
