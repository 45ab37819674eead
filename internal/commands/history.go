package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/finsight/internal/importlog"
)

func newHistoryCommand(root *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the files loaded by previous commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.load(cmd)
			if err != nil {
				return err
			}
			entries, err := importlog.Read(e.dir)
			if err != nil {
				return err
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No imports recorded.")
				return nil
			}

			red := color.New(color.FgRed)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tCOMMAND\tFILE\tKIND\tROWS\tSTATUS")
			for _, en := range entries {
				status := "ok"
				switch {
				case en.Error != "":
					status = red.Sprint(en.Error)
				case en.Kind == "":
					status = "ignored"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
					en.Timestamp.Local().Format("2006-01-02 15:04"), en.Command, en.File, en.Kind, en.Rows, status)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most this many entries, 0 for all")

	return cmd
}
