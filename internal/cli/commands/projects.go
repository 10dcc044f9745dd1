package commands

import (
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ealexisaraujo/nao/internal/cli/config"
	"github.com/ealexisaraujo/nao/internal/dbt"
)

// NewProjectsCommand lists the dbt projects discovered under the repos
// directory without indexing them.
func NewProjectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List discovered dbt projects",
		Example: `  # Show every dbt project found under the repos directory
  nao projects`,
		Args: cobra.NoArgs,
		RunE: runProjects,
	}
}

func runProjects(cmd *cobra.Command, _ []string) error {
	cfg := config.GetConfig(cmd.Context())

	projects := dbt.FindProjects(cfg.ReposDir)
	if len(projects) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No dbt projects found under %s\n", cfg.ReposDir)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Repository", "Project", "Path"})

	for _, project := range projects {
		name := projectDisplayName(project)
		relPath, relErr := filepath.Rel(cfg.ProjectDir, project.Path)
		if relErr != nil {
			relPath = project.Path
		}
		t.AppendRow(table.Row{project.RepoName, name, filepath.ToSlash(relPath)})
	}

	t.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "%d project(s)\n", len(projects))
	return nil
}

func projectDisplayName(project dbt.Project) string {
	cfg := dbt.ReadProjectConfig(project.Path)
	return dbt.ProjectName(cfg, project.RepoName)
}
