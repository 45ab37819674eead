package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finsight/internal/dataset"
)

var errNoData = errors.New("no report data loaded")

func newExportCommand(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [files...]",
		Short: "Write the combined dataset as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, root, output, args)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")

	return cmd
}

func runExport(cmd *cobra.Command, root *rootOptions, output string, args []string) error {
	e, err := root.load(cmd)
	if err != nil {
		return err
	}
	in, err := ingest(e, cmd.Name(), args)
	if err != nil {
		return err
	}
	printProblems(cmd.ErrOrStderr(), in)

	ds := in.sess.Dataset()
	if ds == nil {
		return errNoData
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}
	if err := dataset.WriteCSV(w, ds); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	e.log.Info().Int("rows", ds.Len()).Str("output", output).Msg("dataset exported")
	return nil
}
