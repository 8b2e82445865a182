package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"outpost/internal/ui"
)

func newTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track <objective-id>",
		Short: "Pin an objective as the tracked one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			if !s.Quests.SetTracked(args[0]) {
				return fmt.Errorf("objective %q is unknown or still hidden", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.IconPin+" Tracking "+args[0]+".")
			return nil
		},
	}
	return cmd
}

func newDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <objective-id>",
		Short: "Complete an objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			if !s.Quests.Complete(args[0]) {
				return fmt.Errorf("cannot complete %q (unknown, hidden, or already completed)", args[0])
			}
			return nil
		},
	}
	return cmd
}

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress <objective-id> <value>",
		Short: "Set numeric progress on an objective",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("objective id and value are required")
			}
			if _, err := strconv.Atoi(args[1]); err != nil {
				return errors.New("value must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			value, _ := strconv.Atoi(args[1])
			if !s.Quests.UpdateProgress(args[0], value) {
				return fmt.Errorf("cannot update %q (unknown, not active, or has no numeric progress)", args[0])
			}
			o, _ := s.Quests.Get(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Key.Render(o.ID), ui.ProgressBar(o.CurrentProgress, o.MaxProgress, 14))
			return nil
		},
	}
	return cmd
}

func newSubtaskCmd() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "subtask <objective-id> <subtask-id>",
		Short: "Check off a subtask",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			if !s.Quests.UpdateSubtask(args[0], args[1], !undo) {
				return fmt.Errorf("cannot update subtask %q of %q", args[1], args[0])
			}
			mark := ui.IconDone
			if undo {
				mark = "↩️"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s / %s\n", mark, args[0], args[1])
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "uncheck the subtask instead")
	return cmd
}
