package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/finsight/internal/dataset"
	"github.com/cleared-dev/finsight/internal/model"
	"github.com/cleared-dev/finsight/internal/render"
)

type reportOptions struct {
	level int
	typ   string
	plain bool
	width int
}

func newReportCommand(root *rootOptions) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report [files...]",
		Short: "Print the financial dashboard for report exports",
		Long: `Loads Profit & Loss and Balance Sheet exports and prints revenue,
expenses, net profit and per-account breakdowns. Files are routed by name:
names containing "ProfitAndLoss" or "BalanceSheet" are loaded, anything else
is ignored. Without arguments the configured import directory is read.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, root, opts, args)
		},
	}

	cmd.Flags().IntVar(&opts.level, "level", 0, "list rows at this account level (0 for any)")
	cmd.Flags().StringVar(&opts.typ, "type", "", "list rows of this account type (All for any)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print markdown without terminal styling")
	cmd.Flags().IntVar(&opts.width, "width", 100, "wrap width for terminal output")

	return cmd
}

func (o reportOptions) filter() (dataset.Filter, error) {
	f := dataset.Filter{Level: o.level}
	if o.level < 0 {
		return f, fmt.Errorf("invalid level %d", o.level)
	}
	if o.typ != "" {
		t, ok := model.ParseAccountType(o.typ)
		if !ok {
			return f, fmt.Errorf("unknown account type %q", o.typ)
		}
		f.Type = t
	}
	return f, nil
}

func runReport(cmd *cobra.Command, root *rootOptions, opts reportOptions, args []string) error {
	filter, err := opts.filter()
	if err != nil {
		return err
	}
	e, err := root.load(cmd)
	if err != nil {
		return err
	}
	in, err := ingest(e, cmd.Name(), args)
	if err != nil {
		return err
	}
	printProblems(cmd.ErrOrStderr(), in)

	rep := render.NewReport(in.sess.Dataset(), render.Options{
		Title:    e.cfg.Dashboard.Title,
		Currency: e.cfg.Dashboard.Currency,
		Filter:   filter,
		Errors:   in.errors,
		Ignored:  in.ignored,
	})
	md, err := render.Markdown(rep)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.plain {
		_, err = io.WriteString(out, md)
		return err
	}
	styled, err := render.Terminal(md, opts.width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, styled)
	return err
}

func printProblems(w io.Writer, in *ingestion) {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	for _, msg := range in.errors {
		red.Fprint(w, "error: ")
		fmt.Fprintln(w, msg)
	}
	for _, name := range in.ignored {
		yellow.Fprintf(w, "ignored: %s (name matches no report kind)\n", name)
	}
}
