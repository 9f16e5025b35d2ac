// Package cli provides the command-line interface for quackpipe.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ekiourk/quackpipe/pkg/config"
	"github.com/ekiourk/quackpipe/pkg/secrets"
	"github.com/ekiourk/quackpipe/pkg/source"
)

var (
	cfgFile    string
	dbPath     string
	secretsDir string
	verbose    bool
)

// Version information (set at build time).
var Version = "0.1.0"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quackpipe",
		Short: "quackpipe - configuration-driven DuckDB federation",
		Long: `quackpipe configures an embedded DuckDB connection to transparently
federate external data sources (PostgreSQL, SQLite, S3, DuckLake) from a
YAML description, resolving credentials through a secret-provider chain.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Built with Go and DuckDB
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./quackpipe.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "database", "", "DuckDB database path (empty for in-memory)")
	rootCmd.PersistentFlags().StringVar(&secretsDir, "secrets-dir", "", "directory of YAML secret files, tried before the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newSetupCommand())
	rootCmd.AddCommand(newQueryCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// loadConfigs loads the source list from the configured (or discovered)
// config file.
func loadConfigs() ([]source.Config, error) {
	path := cfgFile
	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return nil, fmt.Errorf("no config file found; create quackpipe.yaml or pass --config")
	}
	return config.Load(path)
}

func findConfigFile() string {
	for _, candidate := range []string{"quackpipe.yaml", "quackpipe.yml"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// newResolver builds the secret chain: file-based secrets first when a
// directory is configured, then the environment.
func newResolver() *secrets.Resolver {
	if secretsDir != "" {
		return secrets.NewResolver(secrets.NewFileProvider(secretsDir), secrets.NewEnvProvider())
	}
	return secrets.NewResolver()
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
