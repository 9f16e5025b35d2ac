package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekiourk/quackpipe/pkg/session"
)

func newSetupCommand() *cobra.Command {
	var execute bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Render the setup SQL for the configured sources",
		Long: `Setup renders the extension list and the ordered SQL statements that
prepare a DuckDB connection for the configured sources. By default the
plan is printed; with --execute it is run against the database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configs, err := loadConfigs()
			if err != nil {
				return err
			}

			preparer := session.NewPreparer(newResolver(), newLogger(cmd.ErrOrStderr()))

			if execute {
				db, err := session.OpenDB(cmd.Context(), dbPath)
				if err != nil {
					return err
				}
				defer func() { _ = db.Close() }()
				return preparer.Prepare(cmd.Context(), db, configs)
			}

			plan, err := preparer.Plan(configs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, plugin := range plan.Plugins {
				fmt.Fprintf(out, "INSTALL %s;\nLOAD %s;\n", plugin, plugin)
			}
			lastSource := ""
			for _, stmt := range plan.Statements {
				if stmt.Source != lastSource {
					fmt.Fprintf(out, "\n-- source: %s\n", stmt.Source)
					lastSource = stmt.Source
				}
				fmt.Fprintln(out, stmt.SQL)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&execute, "execute", false, "execute the setup against the database instead of printing it")

	return cmd
}
