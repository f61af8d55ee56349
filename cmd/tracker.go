package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/diabeguide/internal/api"
	"github.com/Rorical/diabeguide/internal/tracker"
	"github.com/Rorical/diabeguide/ui/components"
)

var trackerCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Read and log blood sugar readings",
}

var trackerListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the tracker log month by month",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient(loadConfig())

		data, err := client.Tracker(commandContext(cmd))
		if err != nil {
			log.Fatalf("Failed to load tracker: %v", err)
		}
		printTracker(data)
	},
}

var (
	sugarFlag string
	noteFlag  string
	monthFlag string
)

var trackerLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a reading; missing fields are prompted for",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient(loadConfig())

		form := tracker.Form{
			Sugar: promptIfEmpty(sugarFlag, "Sugar level (mg/dL)", ""),
			Note:  promptIfEmpty(noteFlag, "Note", ""),
			Month: promptIfEmpty(monthFlag, "Month (YYYY-MM)", tracker.CurrentMonth(time.Now())),
		}
		entry, err := form.Entry()
		if err != nil {
			log.Fatalf("Invalid entry: %v", err)
		}

		data, err := client.LogEntry(commandContext(cmd), entry)
		if err != nil {
			log.Fatalf("Failed to log entry: %v", err)
		}
		fmt.Println("Entry logged.")
		if data == nil {
			if data, err = client.Tracker(commandContext(cmd)); err != nil {
				log.Fatalf("Failed to load tracker: %v", err)
			}
		}
		printTracker(data)
	},
}

var yesFlag bool

var trackerClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every logged reading",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient(loadConfig())

		if !yesFlag {
			confirmPrompt := promptui.Prompt{
				Label:     "Delete every logged reading",
				IsConfirm: true,
			}
			if _, err := confirmPrompt.Run(); err != nil {
				fmt.Println("Clear cancelled")
				return
			}
		}

		if err := client.ClearTracker(commandContext(cmd)); err != nil {
			log.Fatalf("Failed to clear tracker: %v", err)
		}
		fmt.Println("Tracker cleared.")
	},
}

func promptIfEmpty(value, label, def string) string {
	if value != "" {
		return value
	}
	prompt := promptui.Prompt{
		Label:   label,
		Default: def,
	}
	out, err := prompt.Run()
	if err != nil {
		log.Fatalf("Prompt failed: %v", err)
	}
	return out
}

func printTracker(data api.TrackerData) {
	fmt.Println(components.RenderTrackerLog(tracker.Groups(data)))
}

func init() {
	trackerLogCmd.Flags().StringVar(&sugarFlag, "sugar", "", "sugar level in mg/dL")
	trackerLogCmd.Flags().StringVar(&noteFlag, "note", "", "note for the reading")
	trackerLogCmd.Flags().StringVar(&monthFlag, "month", "", "month as YYYY-MM")
	trackerClearCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "do not ask for confirmation")

	trackerCmd.AddCommand(trackerListCmd)
	trackerCmd.AddCommand(trackerLogCmd)
	trackerCmd.AddCommand(trackerClearCmd)
	rootCmd.AddCommand(trackerCmd)
}
