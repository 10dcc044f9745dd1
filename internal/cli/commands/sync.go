package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ealexisaraujo/nao/internal/cli/config"
	"github.com/ealexisaraujo/nao/internal/syncer"
)

// NewSyncCommand indexes every dbt project under the repos directory and
// writes the markdown reports.
func NewSyncCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Index all dbt projects and write markdown reports",
		Long: `Walks the repos directory, indexes every dbt project found there and
writes a manifest.md and sources.md per project under the index directory.

A repository with dbt_project.yml at its root is indexed from the root;
otherwise a dbt/ subdirectory holding dbt_project.yml is used.`,
		Example: `  # Index every repository under ./repos into ./dbt-index
  nao sync

  # Re-index automatically whenever SQL or schema files change
  nao sync --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-index whenever repository files change")
	return cmd
}

func runSync(cmd *cobra.Command, watch bool) error {
	ctx := cmd.Context()
	cfg := config.GetConfig(ctx)
	logger := config.GetLogger(ctx)

	s := &syncer.Syncer{
		ProjectDir: cfg.ProjectDir,
		ReposDir:   cfg.ReposDir,
		IndexDir:   cfg.IndexDir,
		Parallel:   cfg.Parallel,
		Logger:     logger,
	}

	if watch {
		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes (ctrl-c to stop)\n", cfg.ReposDir)
		return s.Watch(ctx)
	}

	result, err := s.Run(ctx)
	if err != nil {
		return err
	}

	for _, report := range result.Projects {
		if report.Err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", errorStyle.Render("✗"), report.RepoName, report.Err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d models, %d sources -> %s\n",
			successStyle.Render("✓"), report.RepoName, report.ModelCount, report.SourceCount, report.OutDir)
	}

	failed := result.Failed()
	summary := fmt.Sprintf("Indexed %d repositories in %s", len(result.Projects), result.Duration.Round(time.Millisecond))
	if failed > 0 {
		summary += fmt.Sprintf(" (%d failed)", failed)
	}
	fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render(summary))

	if failed > 0 {
		return fmt.Errorf("%d of %d repositories failed to index", failed, len(result.Projects))
	}
	return nil
}
