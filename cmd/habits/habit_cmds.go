package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	addTarget  int
	clearForce bool
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a habit with a weekly target",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var doneCmd = &cobra.Command{
	Use:   "done <number>",
	Short: "Mark a habit complete for today",
	Args:  cobra.ExactArgs(1),
	RunE:  runDone,
}

var deleteCmd = &cobra.Command{
	Use:     "delete <number>",
	Aliases: []string{"rm"},
	Short:   "Delete a habit",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every habit",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	addCmd.Flags().IntVarP(&addTarget, "target", "t", 1, "Times per week (1-7)")
	clearCmd.Flags().BoolVar(&clearForce, "force", false, "Confirm deleting all habits")
}

func parseIndex(raw string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid habit number %q", raw)
	}
	return index, nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	habit, err := a.tracker.Add(commandContext(cmd), strings.Join(args, " "), addTarget)
	if err != nil {
		return reject(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Habit %q added! (#%d, %dx/week)\n", habit.Name, a.tracker.Len(), habit.TargetFrequency)
	return nil
}

func runDone(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.tracker.MarkComplete(commandContext(cmd), index)
	if err != nil {
		return reject(err)
	}

	if res.Newly() {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Habit %q completed for today!\n", res.Name)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "✗ Habit %q was already completed today.\n", res.Name)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	name, err := a.tracker.Delete(commandContext(cmd), index)
	if err != nil {
		return reject(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Habit %q deleted.\n", name)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearForce {
		return errors.New("refusing to delete all habits without --force")
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.tracker.Clear(commandContext(cmd)); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "[INFO] All data has been cleared.")
	return nil
}
