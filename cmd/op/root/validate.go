package root

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"outpost/internal/content"
	"outpost/internal/dialog"
	"outpost/internal/ui"
)

func newValidateCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a content pack",
		Long:  "Checks the objective definitions and every dialog tree. With --watch, re-checks whenever a content file changes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if !watch {
				return validatePack(out, contentDir)
			}
			if contentDir == "" {
				return errors.New("--watch needs --content (the built-in pack cannot change)")
			}
			return watchPack(cmd, contentDir)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-validate on file changes")
	return cmd
}

func validatePack(out io.Writer, dir string) error {
	set, err := content.FromDirOrDefault(dir)
	if err != nil {
		return err
	}

	failed := false
	for _, id := range set.TreeIDs() {
		t, err := set.Tree(id)
		if err != nil {
			return err
		}
		diags := dialog.Validate(t)
		for _, d := range diags {
			style := ui.Warn
			if d.Severity == dialog.SeverityError {
				style = ui.Bad
				failed = true
			}
			fmt.Fprintln(out, style.Render(id+": "+d.String()))
		}
	}
	if failed {
		return errors.New("content pack has errors")
	}

	for _, o := range set.Objectives {
		if len(o.DiscoveryConditions) == 0 {
			continue
		}
		gates := make([]string, 0, len(o.DiscoveryConditions))
		for _, c := range o.DiscoveryConditions {
			gates = append(gates, ui.ConditionText(c))
		}
		fmt.Fprintf(out, "%s %s: %s\n", ui.CategoryText(o.Category), ui.Key.Render(o.ID),
			ui.Muted.Render(strings.Join(gates, ", ")))
	}

	fmt.Fprintln(out, ui.Good.Render(ui.IconDone+fmt.Sprintf(" %d objectives, %d dialog trees, all good.",
		len(set.Objectives), len(set.TreeIDs()))))
	return nil
}

func watchPack(cmd *cobra.Command, dir string) error {
	out := cmd.OutOrStdout()

	report := func() {
		fmt.Fprintln(out, ui.Muted.Render("── "+time.Now().Format("15:04:05")+" ──"))
		if err := validatePack(out, dir); err != nil {
			fmt.Fprintln(out, ui.Bad.Render(ui.IconError+" "+err.Error()))
		}
	}
	report()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return err
	}
	// Dialog files live in a subdirectory.
	_ = watcher.Add(dir + "/dialogs")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	var debounce *time.Timer
	runs := make(chan struct{}, 1)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			// Wait 200ms after the last change before re-validating.
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(200*time.Millisecond, func() {
				select {
				case runs <- struct{}{}:
				default:
				}
			})
		case <-runs:
			report()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(out, ui.Warn.Render("watch: "+err.Error()))
		case <-sig:
			return nil
		}
	}
}
