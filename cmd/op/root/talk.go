package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"outpost/internal/tui"
	"outpost/internal/ui"
)

func newTalkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "talk [character-id]",
		Short: "Start a conversation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintln(out, ui.H2.Render("Who do you want to talk to?"))
				for _, id := range s.Content.TreeIDs() {
					t, err := s.Content.Tree(id)
					if err != nil {
						continue
					}
					fmt.Fprintf(out, "- %s (%s)\n", ui.Key.Render(id), t.CharacterName)
				}
				return nil
			}

			t, diags, err := s.Dialogs.LoadTree(args[0])
			if err != nil {
				for _, d := range diags {
					fmt.Fprintln(out, ui.Bad.Render(d.String()))
				}
				return err
			}
			for _, d := range diags {
				fmt.Fprintln(out, ui.Warn.Render(d.String()))
			}
			return tui.RunTalk(s, t, out)
		},
	}
	return cmd
}
