package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"autosales-dashboard/internal/cli"
	"autosales-dashboard/internal/models"
	"autosales-dashboard/internal/services"
)

func newQueryCmd(a *app) *cobra.Command {
	var (
		mode string
		year int
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the dashboard tables for a selection",
		Example: "  salesctl query --mode yearly --year 2006\n" +
			"  salesctl query --mode recession",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}

			sel := models.Selection{Mode: models.ParseStatisticsMode(mode), Year: year}
			dash, ok := engine.Dispatch(sel)

			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprint(out, cli.RenderWarning(nothingToShow(sel)))
				return nil
			}

			fmt.Fprintln(out)
			if dash.Recession != nil {
				fmt.Fprintln(out, cli.RenderTitle("RECESSION PERIOD STATISTICS"))
				fmt.Fprintln(out)
				fmt.Fprint(out, cli.RenderRecessionView(dash.Recession))
				return nil
			}

			fmt.Fprintln(out, cli.RenderTitle(fmt.Sprintf("YEARLY STATISTICS  %d", dash.Yearly.Year)))
			fmt.Fprintln(out)
			fmt.Fprint(out, cli.RenderYearlyView(dash.Yearly))
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(models.ModeYearly), "Statistics mode: yearly or recession")
	cmd.Flags().IntVarP(&year, "year", "y", 0, fmt.Sprintf("Year for yearly statistics (%d-%d)", models.MinYear, models.MaxYear))
	return cmd
}

func nothingToShow(sel models.Selection) string {
	switch {
	case sel.Mode == models.ModeUnknown:
		return "Nothing to show: unknown statistics mode."
	case sel.Mode == models.ModeYearly && sel.Year == 0:
		return "Nothing to show: yearly statistics need --year."
	default:
		return fmt.Sprintf("Nothing to show: year %d is outside %d-%d.", sel.Year, models.MinYear, models.MaxYear)
	}
}

func newYearControlCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "year-control",
		Short: "Report whether the year selector is disabled for a mode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			state := "enabled"
			if services.YearControlDisabled(models.ParseStatisticsMode(mode)) {
				state = "disabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "year selector: %s\n", state)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Statistics mode")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the loaded dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprint(out, cli.RenderStats(engine.Stats()))
			return nil
		},
	}
}
