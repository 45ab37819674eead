package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/finsight/internal/buildinfo"
	"github.com/cleared-dev/finsight/internal/config"
	"github.com/cleared-dev/finsight/internal/logger"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "finsight",
		Short:   "Financial dashboard for accounting report exports",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.FileName, "path to finsight.yaml")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newReportCommand(opts))
	rootCmd.AddCommand(newExportCommand(opts))
	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newHistoryCommand(opts))

	return rootCmd
}

// env is the configuration and logger a command runs with.
type env struct {
	cfg     *config.Config
	dir     string // directory relative paths in cfg resolve against
	project bool   // the config file exists
	log     zerolog.Logger
}

// load reads the config file, falling back to defaults when it is missing,
// and builds the logger writing to the command's stderr.
func (o *rootOptions) load(cmd *cobra.Command) (*env, error) {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return nil, err
	}
	_, statErr := os.Stat(o.configPath)
	level := cfg.Log.Level
	if o.logLevel != "" {
		level = o.logLevel
	}

	dir, err := filepath.Abs(filepath.Dir(o.configPath))
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	return &env{
		cfg:     cfg,
		dir:     dir,
		project: statErr == nil,
		log: logger.New(logger.Options{
			Level:  level,
			Format: cfg.Log.Format,
			Out:    cmd.ErrOrStderr(),
		}),
	}, nil
}

// resolve makes path relative to the config file's directory.
func (e *env) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.dir, path)
}
