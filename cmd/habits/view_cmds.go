package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/habits/internal/adapters/handler/cli"
	"github.com/comitanigiacomo/habits/internal/core/domain"
	"github.com/comitanigiacomo/habits/internal/core/workers"
)

var listFilter string

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits with their weekly progress",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics for this week",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the user profile",
	Args:  cobra.NoArgs,
	RunE:  runProfile,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show this week day by day",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Print one habit that still needs doing today",
	Args:  cobra.NoArgs,
	RunE:  runRemind,
}

func init() {
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "all", "Which habits to show: all, active or completed")

	for _, c := range []*cobra.Command{listCmd, statsCmd, profileCmd, reportCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	}
}

type listItem struct {
	Index             int           `json:"index"`
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	TargetFrequency   int           `json:"targetFrequency"`
	WeeklyCompletions int           `json:"weeklyCompletions"`
	Progress          int           `json:"progress"`
	Status            domain.Status `json:"status"`
}

var listTitles = map[domain.FilterKind]string{
	domain.FilterAll:       "ALL HABITS",
	domain.FilterActive:    "ACTIVE HABITS",
	domain.FilterCompleted: "COMPLETED HABITS",
}

func runList(cmd *cobra.Command, args []string) error {
	kind, err := domain.ParseFilterKind(listFilter)
	if err != nil {
		return err
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	items := a.tracker.Filter(kind)
	ref := a.tracker.Now()

	if jsonOutput {
		out := make([]listItem, 0, len(items))
		for _, item := range items {
			h := item.Habit
			out = append(out, listItem{
				Index:             item.Index,
				ID:                h.ID,
				Name:              h.Name,
				TargetFrequency:   h.TargetFrequency,
				WeeklyCompletions: h.WeeklyCompletionCount(ref),
				Progress:          h.ProgressPercentage(ref),
				Status:            h.Status(ref),
			})
		}
		return cli.WriteJSON(cmd.OutOrStdout(), map[string]any{
			"filter": kind,
			"habits": out,
			"total":  len(out),
		})
	}

	cli.RenderHabits(cmd.OutOrStdout(), listTitles[kind], items, ref)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	stats := a.tracker.AggregateStats()
	if jsonOutput {
		return cli.WriteJSON(cmd.OutOrStdout(), stats)
	}

	cli.RenderStats(cmd.OutOrStdout(), stats)
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	summary := a.tracker.Profile()
	if jsonOutput {
		return cli.WriteJSON(cmd.OutOrStdout(), summary)
	}

	cli.RenderProfile(cmd.OutOrStdout(), summary)
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	report := a.tracker.WeeklyReport()
	if jsonOutput {
		return cli.WriteJSON(cmd.OutOrStdout(), report)
	}

	cli.RenderWeeklyReport(cmd.OutOrStdout(), report)
	return nil
}

func runRemind(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.OutOrStdout()
	worker := workers.NewReminderWorker(a.tracker, a.cfg.Reminder.Interval.Std(), func(name string) {
		cli.RenderReminder(w, name)
	}).WithLogger(a.logger)

	if !worker.Tick() {
		fmt.Fprintln(w, "✓ Every habit is done for today.")
	}
	return nil
}
