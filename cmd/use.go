package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/Rorical/diabeguide/internal/config"
)

var useCmd = &cobra.Command{
	Use:   "use [profile-name]",
	Short: "Switch to a profile and start the chat app",
	Long:  `Switch to the specified profile and immediately start the chat application.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		profileName := config.ProfileKey(args[0])

		// Load config
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		// Switch to the profile
		if err := cfg.UseProfile(profileName); err != nil {
			log.Fatalf("%v", err)
		}

		// Save config with new active profile
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		// Start the chat application
		profileFlag = profileName
		runChat(loadConfig(), "")
	},
}

func init() {
	rootCmd.AddCommand(useCmd)
}
