package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vadim/nested-seeder/internal/app"
	"github.com/vadim/nested-seeder/internal/domain/seed/entity"
)

func newRunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Show recorded runs",
		Long: `List the latest recorded runs, or print the attempts of one run.

Runs are recorded only when DATABASE_URL is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := app.NewLogger(cfg.Log, cmd.ErrOrStderr())

			history, err := app.NewHistory(cmd.Context(), cfg.Database, logger)
			if err != nil {
				return err
			}
			defer history.Close()

			if len(args) == 1 {
				run, err := history.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printRun(cmd.OutOrStdout(), run)
				return nil
			}

			runs, err := history.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printRuns(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to list")

	return cmd
}

func printRuns(w io.Writer, runs []entity.Run) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tCOMMUNITY\tREQUESTED\tSUCCESS\tFAILED\tDURATION")
	for _, r := range runs {
		started := r.StartedAt.Local().Format(time.DateTime)
		if r.Interrupted {
			started += " (interrupted)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, started, r.Community, r.Requested, r.Tally.Success, r.Tally.Failed,
			r.Duration().Round(time.Millisecond))
	}
	return tw.Flush()
}

// printRun replays the transcript of a recorded run
func printRun(w io.Writer, run *entity.Run) {
	fmt.Fprintf(w, "Run %s against %s (%s)\n", run.ID, run.Endpoint, run.StartedAt.Local().Format(time.DateTime))
	for _, o := range run.Outcomes {
		fmt.Fprintf(w, "%s (%s)\n", o.Line(run.Requested), o.Latency)
	}
	fmt.Fprintln(w, run.Tally.Summary())
}
