package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"outpost/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "op",
	Short:         "Outpost — a frontier survival idle game for the terminal",
	Long:          "Outpost is a local-first incremental game: complete objectives, talk to the locals, and keep the camp alive.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	contentDir string
	dbPath     string
)

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&contentDir, "content", "", "load content pack from a directory instead of the built-in one")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the save database")

	rootCmd.AddCommand(
		newListCmd(),
		newTrackCmd(),
		newDoneCmd(),
		newProgressCmd(),
		newSubtaskCmd(),
		newStatusCmd(),
		newBoardCmd(),
		newTalkCmd(),
		newHistoryCmd(),
		newValidateCmd(),
		newExploreCmd(),
		newGrantCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
