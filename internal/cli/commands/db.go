package commands

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ealexisaraujo/nao/internal/cli/config"
	"github.com/ealexisaraujo/nao/internal/warehouse"
)

// NewDBCommand groups warehouse inspection subcommands.
func NewDBCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Inspect the warehouse behind the indexed projects",
	}
	cmd.AddCommand(newDBCheckCommand())
	cmd.AddCommand(newDBCommentsCommand())
	return cmd
}

func newDBCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the warehouse connection",
		Example: `  # Connect using the warehouse settings from nao.yaml
  nao db check

  # Settings can also come from the environment
  NAO_WAREHOUSE__HOST=db.internal nao db check`,
		Args: cobra.NoArgs,
		RunE: runDBCheck,
	}
}

func runDBCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.GetConfig(ctx)

	client, err := warehouse.Connect(ctx, cfg.Warehouse, config.GetLogger(ctx))
	if err != nil {
		return err
	}
	defer client.Close()

	summary, err := client.Check(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successStyle.Render("✓"), summary)
	return nil
}

func newDBCommentsCommand() *cobra.Command {
	var schema string

	cmd := &cobra.Command{
		Use:   "comments <table>",
		Short: "Show table and column comments from the warehouse",
		Example: `  # Comments for public.orders
  nao db comments orders

  # Comments for a table in another schema
  nao db comments orders --schema staging`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBComments(cmd, schema, args[0])
		},
	}

	cmd.Flags().StringVar(&schema, "schema", "", "schema holding the table (defaults to the configured schema, then public)")
	return cmd
}

func runDBComments(cmd *cobra.Command, schema, tableName string) error {
	ctx := cmd.Context()
	cfg := config.GetConfig(ctx)

	if schema == "" {
		schema = cfg.Warehouse.Schema
	}
	if schema == "" {
		schema = "public"
	}

	client, err := warehouse.Connect(ctx, cfg.Warehouse, config.GetLogger(ctx))
	if err != nil {
		return err
	}
	defer client.Close()

	tableComment, err := client.TableComment(ctx, schema, tableName)
	if err != nil {
		return err
	}
	columns, err := client.ColumnComments(ctx, schema, tableName)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s.%s\n", schema, tableName)
	if tableComment != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", tableComment)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("  no table comment"))
	}

	if len(columns) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("  no column comments"))
		return nil
	}

	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Comment"})
	for _, name := range names {
		t.AppendRow(table.Row{name, columns[name]})
	}
	t.Render()
	return nil
}
