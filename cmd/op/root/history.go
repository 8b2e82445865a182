package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"outpost/internal/dialog"
	"outpost/internal/ui"
)

func newHistoryCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			hist := s.Dialogs.History()
			if len(hist) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No conversations yet."))
				return nil
			}
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Conversation Log"))
			for i, c := range hist {
				state := ui.Good.Render("finished")
				if c.Abandoned {
					state = ui.Warn.Render("walked away")
				}
				fmt.Fprintf(out, "%d. %s with %s at %s (%s)\n",
					i+1, ui.Key.Render(c.TreeID), c.CharacterName,
					c.StartedAt.Format("2006-01-02 15:04"), state)
				if !full {
					continue
				}
				for _, l := range c.Lines {
					style := ui.NPCLine
					if l.Speaker == dialog.SpeakerPlayer {
						style = ui.PlayerLine
					}
					fmt.Fprintln(out, "   "+style.Render(l.SpeakerName+": "+l.Message))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&full, "full", "f", false, "print full transcripts")
	return cmd
}
