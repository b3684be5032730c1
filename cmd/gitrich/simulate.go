package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/BDubDesigns/git-rich-quick/internal/currency"
	"github.com/BDubDesigns/git-rich-quick/internal/sim"
	"github.com/spf13/cobra"
)

func simulateCmd() *cobra.Command {
	var (
		seconds  int
		cps      int
		strategy string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play headlessly against a fake clock and summarize the run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := settings.Tables()
			if err != nil {
				return err
			}
			strat, err := sim.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			rep, err := sim.Run(cmd.Context(), tables, sim.Config{
				Seconds:  seconds,
				CPS:      cps,
				Strategy: strat,
				Logger:   logger.Named("sim"),
			})
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), rep)
		},
	}
	cmd.Flags().IntVar(&seconds, "seconds", 600, "seconds of play")
	cmd.Flags().IntVar(&cps, "cps", 5, "clicks per second")
	cmd.Flags().StringVar(&strategy, "strategy", string(sim.StrategyGreedy), "greedy or idle")
	return cmd
}

func printReport(w io.Writer, rep sim.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	st := rep.Final.State
	fmt.Fprintf(tw, "strategy\t%s\n", rep.Strategy)
	fmt.Fprintf(tw, "seconds\t%d\n", rep.Seconds)
	fmt.Fprintf(tw, "clicks\t%d\n", rep.Clicks)
	fmt.Fprintf(tw, "lines of code\t%s (total %s)\n", st.LinesOfCode.StringFixed(1), st.TotalLinesOfCode.StringFixed(1))
	fmt.Fprintf(tw, "LOC/s\t%s\n", rep.Final.LOCPerSecond.StringFixed(2))
	fmt.Fprintf(tw, "money\t$%s (earned $%s, spent $%s)\n",
		rep.Final.Money, currency.FormatMoney(rep.MoneyEarned), currency.FormatMoney(rep.MoneySpent))

	for _, k := range slices.Sorted(maps.Keys(rep.Hires)) {
		fmt.Fprintf(tw, "hired %s\t%d\n", k, rep.Hires[k])
	}
	for _, k := range slices.Sorted(maps.Keys(rep.Projects)) {
		fmt.Fprintf(tw, "completed %s\t%d\n", k, rep.Projects[k])
	}
	for _, k := range slices.Sorted(maps.Keys(rep.Contributions)) {
		fmt.Fprintf(tw, "contributed %s\t%d\n", k, rep.Contributions[k])
	}
	for _, u := range rep.Unlocks {
		fmt.Fprintf(tw, "unlocked %s\tafter %s\n", u.Key, u.After)
	}
	return tw.Flush()
}
