package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ealexisaraujo/nao/internal/cli/config"
	"github.com/ealexisaraujo/nao/internal/dbt"
)

// NewShowCommand indexes a single repository and prints its report to
// stdout without writing anything to the index directory.
func NewShowCommand() *cobra.Command {
	var showSources bool

	cmd := &cobra.Command{
		Use:   "show <repo>",
		Short: "Print the index for one repository",
		Example: `  # Print the model manifest for the analytics repo
  nao show analytics

  # Print its sources instead
  nao show analytics --sources`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0], showSources)
		},
	}

	cmd.Flags().BoolVar(&showSources, "sources", false, "print sources instead of models")
	return cmd
}

func runShow(cmd *cobra.Command, repoName string, showSources bool) error {
	ctx := cmd.Context()
	cfg := config.GetConfig(ctx)
	logger := config.GetLogger(ctx)

	if err := cfg.ValidateReposDir(); err != nil {
		return err
	}

	var target *dbt.Project
	for _, project := range dbt.FindProjects(cfg.ReposDir) {
		if project.RepoName == repoName {
			p := project
			target = &p
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no dbt project named %q under %s", repoName, cfg.ReposDir)
	}

	result := dbt.NewIndexer(logger).Index(target.Path)
	for _, scanErr := range result.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", errorStyle.Render("warning:"), scanErr.Error())
	}

	now := time.Now().UTC()
	if showSources {
		fmt.Fprint(cmd.OutOrStdout(), dbt.GenerateSources(result.Sources, target.RepoName, now))
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), dbt.GenerateManifest(result.Models, target.RepoName, target.Path, result.ProjectName, now))
	return nil
}
