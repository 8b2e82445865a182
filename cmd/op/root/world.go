package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"outpost/internal/ui"
)

func newExploreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore <tile-id>",
		Short: "Mark a map tile as explored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			revealed := s.ExploreTile(args[0])
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.IconQuest+" Explored "+args[0]+".")
			if len(revealed) > 0 {
				fmt.Fprintln(out, ui.Gold.Render(ui.IconSparkle+" New objectives: "+strings.Join(revealed, ", ")))
			}
			return nil
		},
	}
	return cmd
}

func newGrantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grant <resource-id> <amount>",
		Short: "Add (or with a negative amount, spend) a resource",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("resource id and amount are required")
			}
			if _, err := strconv.Atoi(args[1]); err != nil {
				return errors.New("amount must be an integer")
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

			amount, _ := strconv.Atoi(args[1])
			total := s.AddResource(args[0], amount)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d\n", ui.IconGear, args[0], total)
			return nil
		},
	}
	return cmd
}
