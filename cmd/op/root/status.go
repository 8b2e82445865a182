package root

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"outpost/internal/quest"
	"outpost/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the camp overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconBase, "Outpost Status"))

			if t := s.Quests.Tracked(); t != nil {
				detail := ""
				switch {
				case t.HasProgress():
					detail = " " + ui.ProgressBar(t.CurrentProgress, t.MaxProgress, 14)
				case t.HasSubtasks():
					done := 0
					for _, st := range t.Subtasks {
						if st.Completed {
							done++
						}
					}
					detail = fmt.Sprintf(" (%d/%d subtasks)", done, len(t.Subtasks))
				}
				fmt.Fprintln(out, ui.LabelValue("Tracked", ui.IconPin+" "+t.Title+detail))
			} else {
				fmt.Fprintln(out, ui.LabelValue("Tracked", ui.Muted.Render("(none)")))
			}

			for _, cat := range []quest.Category{quest.CategoryMain, quest.CategorySecondary} {
				objs := s.Quests.ByCategory(cat)
				done := 0
				for _, o := range objs {
					if o.Status == quest.StatusCompleted {
						done++
					}
				}
				fmt.Fprintln(out, ui.LabelValue(string(cat)+" objectives", fmt.Sprintf("%d/%d", done, len(objs))))
			}

			fmt.Fprintln(out, "")
			fmt.Fprintln(out, ui.H2.Render("Supplies"))
			if s.World == nil {
				fmt.Fprintln(out, ui.Muted.Render("(save database unavailable, memory only)"))
			} else {
				res, err := s.World.Resources(ctx)
				if err != nil {
					return err
				}
				if len(res) == 0 {
					fmt.Fprintln(out, ui.Muted.Render("(none yet)"))
				}
				ids := make([]string, 0, len(res))
				for id := range res {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				for _, id := range ids {
					fmt.Fprintf(out, "- %s: %d\n", id, res[id])
				}

				tiles, err := s.World.ExploredTileCount(ctx)
				if err != nil {
					return err
				}
				tutorials, err := s.World.CompletedTutorialCount(ctx)
				if err != nil {
					return err
				}
				features, err := s.World.InteractedFeatureCount(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "")
				fmt.Fprintln(out, ui.LabelValue("Explored tiles", tiles))
				fmt.Fprintln(out, ui.LabelValue("Features visited", features))
				fmt.Fprintln(out, ui.LabelValue("Tutorials done", tutorials))
			}

			fmt.Fprintln(out, ui.LabelValue("Conversations", len(s.Dialogs.History())))
			return nil
		},
	}
	return cmd
}
