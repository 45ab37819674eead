package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finsight/internal/config"
)

func newInitCommand() *cobra.Command {
	var title string
	var currency string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new finsight project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, title, currency)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "dashboard title")
	cmd.Flags().StringVar(&currency, "currency", "KES", "ISO 4217 currency code of the reports")

	return cmd
}

func runInit(out io.Writer, dir, title, currency string) error {
	cfgPath := filepath.Join(dir, config.FileName)
	_, err := os.Stat(cfgPath)
	if err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default(title)
	cfg.Dashboard.Currency = currency

	importDir := filepath.Join(dir, cfg.Import.Dir)
	if err := os.MkdirAll(importDir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", cfg.Import.Dir, err)
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(importDir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Fprintf(out, "Initialized finsight project at %s\n", dir)
	fmt.Fprintf(out, "Drop ProfitAndLoss and BalanceSheet exports into %s and run `finsight report`.\n", importDir)
	return nil
}
