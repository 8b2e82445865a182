package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"outpost/internal/quest"
	"outpost/internal/ui"
)

func newListCmd() *cobra.Command {
	var all bool
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List objectives",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			tracked := s.Quests.TrackedID()

			printGroup := func(title string, cat quest.Category) {
				objs := s.Quests.ByCategory(cat)
				if !all {
					active := objs[:0]
					for _, o := range objs {
						if o.Status == quest.StatusActive {
							active = append(active, o)
						}
					}
					objs = active
				}
				if len(objs) == 0 {
					return
				}
				fmt.Fprintln(out, ui.H2.Render(title))
				for _, o := range objs {
					pin := "  "
					if o.ID == tracked {
						pin = ui.IconPin + " "
					}
					line := fmt.Sprintf("%s%s %s (%s)", pin, ui.Key.Render(o.ID), o.Title, ui.StatusText(o.Status))
					if o.HasProgress() {
						line += " " + ui.ProgressBar(o.CurrentProgress, o.MaxProgress, 14)
					}
					fmt.Fprintln(out, line)
					for _, st := range o.Subtasks {
						box := "[ ]"
						if st.Completed {
							box = "[x]"
						}
						fmt.Fprintf(out, "    %s %s\n", box, st.Description)
					}
				}
				fmt.Fprintln(out, "")
			}

			switch category {
			case "main":
				printGroup(ui.IconQuest+" Main", quest.CategoryMain)
			case "secondary":
				printGroup(ui.IconScroll+" Secondary", quest.CategorySecondary)
			case "":
				printGroup(ui.IconQuest+" Main", quest.CategoryMain)
				printGroup(ui.IconScroll+" Secondary", quest.CategorySecondary)
			default:
				return fmt.Errorf("unknown category %q (want main or secondary)", category)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include completed objectives")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only one category (main or secondary)")
	return cmd
}
