package cli

import (
	"github.com/spf13/cobra"

	"github.com/ekiourk/quackpipe/pkg/session"
)

func newQueryCommand() *cobra.Command {
	var format string
	var sources []string

	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a query against a session prepared from the config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configs, err := loadConfigs()
			if err != nil {
				return err
			}

			s, err := session.Open(cmd.Context(), session.Options{
				Path:     dbPath,
				Configs:  configs,
				Sources:  sources,
				Resolver: newResolver(),
				Logger:   newLogger(cmd.ErrOrStderr()),
			})
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			rows, err := s.Query(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer func() { _ = rows.Close() }()

			return renderResults(cmd.OutOrStdout(), rows, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table|json|csv)")
	cmd.Flags().StringSliceVar(&sources, "source", nil, "restrict preparation to the named sources")

	return cmd
}
