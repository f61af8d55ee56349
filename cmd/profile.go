package cmd

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"sort"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/diabeguide/internal/config"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage server profiles",
	Long:  `Manage diabeGuide server profiles: where the server lives and which login session to use.`,
}

func sortedProfileNames(cfg *config.Config, skip string) []string {
	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		if name != skip {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func validateBaseURL(input string) error {
	u, err := url.Parse(input)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("enter a URL like http://127.0.0.1:5000")
	}
	return nil
}

func validateTimeout(input string) error {
	if input == "" {
		return nil
	}
	if d, err := time.ParseDuration(input); err != nil || d <= 0 {
		return errors.New("enter a duration like 60s")
	}
	return nil
}

func selectProfile(cfg *config.Config, label, skip string) string {
	names := sortedProfileNames(cfg, skip)
	if len(names) == 0 {
		log.Fatalf("No profiles available")
	}
	prompt := promptui.Select{
		Label: label,
		Items: names,
	}
	_, name, err := prompt.Run()
	if err != nil {
		log.Fatalf("Selection failed: %v", err)
	}
	return name
}

// promptProfile asks for every profile field, starting from current.
func promptProfile(current config.Profile) config.Profile {
	profile := current
	if profile.BaseURL == "" {
		profile.BaseURL = config.DefaultBaseURL
	}
	if profile.CookieName == "" {
		profile.CookieName = config.DefaultCookieName
	}

	var err error
	baseURLPrompt := promptui.Prompt{
		Label:    "Server URL",
		Default:  profile.BaseURL,
		Validate: validateBaseURL,
	}
	if profile.BaseURL, err = baseURLPrompt.Run(); err != nil {
		log.Fatalf("Prompt failed: %v", err)
	}

	cookiePrompt := promptui.Prompt{
		Label:   "Session cookie (copy it from a logged-in browser)",
		Default: profile.SessionCookie,
		Mask:    '*',
	}
	if profile.SessionCookie, err = cookiePrompt.Run(); err != nil {
		log.Fatalf("Prompt failed: %v", err)
	}

	cookieNamePrompt := promptui.Prompt{
		Label:   "Cookie name",
		Default: profile.CookieName,
	}
	if profile.CookieName, err = cookieNamePrompt.Run(); err != nil {
		log.Fatalf("Prompt failed: %v", err)
	}

	timeoutPrompt := promptui.Prompt{
		Label:    "Request timeout (optional)",
		Default:  profile.Timeout,
		Validate: validateTimeout,
	}
	if profile.Timeout, err = timeoutPrompt.Run(); err != nil {
		log.Fatalf("Prompt failed: %v", err)
	}

	return profile
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		fmt.Printf("Active Profile: %s\n\n", cfg.ActiveProfile)
		fmt.Println("Available Profiles:")
		for _, name := range sortedProfileNames(cfg, "") {
			profile := cfg.Profiles[name]
			marker := ""
			if name == cfg.ActiveProfile {
				marker = " (active)"
			}
			fmt.Printf("  %s%s\n", name, marker)
			fmt.Printf("    Server: %s\n", profile.BaseURL)
			loggedIn := "No"
			if profile.SessionCookie != "" {
				loggedIn = "Yes"
			}
			fmt.Printf("    Session: %s\n", loggedIn)
			fmt.Println()
		}
	},
}

var showProfileCmd = &cobra.Command{
	Use:   "show [profile-name]",
	Short: "Show profile details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		profileName := config.ProfileKey(args[0])
		profile, exists := cfg.Profiles[profileName]
		if !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		fmt.Printf("Profile: %s\n", profileName)
		fmt.Printf("Server: %s\n", profile.BaseURL)
		session := "Not set"
		if profile.SessionCookie != "" {
			session = "Set (hidden for security)"
		}
		fmt.Printf("Session cookie: %s\n", session)
		if profile.CookieName != "" {
			fmt.Printf("Cookie name: %s\n", profile.CookieName)
		}
		if profile.Timeout != "" {
			fmt.Printf("Timeout: %s\n", profile.Timeout)
		}
	},
}

var addProfileCmd = &cobra.Command{
	Use:   "add [profile-name]",
	Short: "Add a new profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			prompt := promptui.Prompt{
				Label: "Profile name",
			}
			profileName, err = prompt.Run()
			if err != nil {
				log.Fatalf("Prompt failed: %v", err)
			}
		}
		profileName = config.ProfileKey(profileName)
		if profileName == "" {
			log.Fatalf("Profile name cannot be empty")
		}

		if _, exists := cfg.Profiles[profileName]; exists {
			log.Fatalf("Profile '%s' already exists", profileName)
		}

		// Add profile to config
		cfg.Profiles[profileName] = promptProfile(config.Profile{})

		// Save config
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' added successfully!\n", profileName)
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "edit [profile-name]",
	Short: "Edit an existing profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		var profileName string
		if len(args) > 0 {
			profileName = config.ProfileKey(args[0])
		} else {
			profileName = selectProfile(cfg, "Select profile to edit", "")
		}

		profile, exists := cfg.Profiles[profileName]
		if !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		// Update profile in config
		cfg.Profiles[profileName] = promptProfile(profile)

		// Save config
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' updated successfully!\n", profileName)
	},
}

var deleteProfileCmd = &cobra.Command{
	Use:   "delete [profile-name]",
	Short: "Delete a profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		var profileName string
		if len(args) > 0 {
			profileName = config.ProfileKey(args[0])
		} else {
			profileName = selectProfile(cfg, "Select profile to delete", "")
		}

		if _, exists := cfg.Profiles[profileName]; !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		// Confirm deletion
		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete profile '%s'", profileName),
			IsConfirm: true,
		}
		if _, err = confirmPrompt.Run(); err != nil {
			fmt.Println("Deletion cancelled")
			return
		}

		delete(cfg.Profiles, profileName)

		// Check if we deleted the active profile
		if cfg.ActiveProfile == profileName {
			if names := sortedProfileNames(cfg, ""); len(names) > 0 {
				cfg.ActiveProfile = names[0]
			} else {
				// That was the last profile; fall back to a local default
				cfg.ActiveProfile = "default"
				cfg.Profiles["default"] = config.Profile{
					BaseURL:    config.DefaultBaseURL,
					CookieName: config.DefaultCookieName,
				}
			}
		}

		// Save config
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' deleted successfully!\n", profileName)
	},
}

var switchProfileCmd = &cobra.Command{
	Use:   "switch [profile-name]",
	Short: "Switch to a different profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			if len(sortedProfileNames(cfg, cfg.ActiveProfile)) == 0 {
				fmt.Println("No other profiles available to switch to")
				return
			}
			profileName = selectProfile(cfg, "Select profile to switch to", cfg.ActiveProfile)
		}

		if err := cfg.UseProfile(profileName); err != nil {
			log.Fatalf("%v", err)
		}

		// Save config
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Switched to profile '%s'\n", cfg.ActiveProfile)
	},
}

func init() {
	// Add subcommands to profile
	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(addProfileCmd)
	profileCmd.AddCommand(editProfileCmd)
	profileCmd.AddCommand(deleteProfileCmd)
	profileCmd.AddCommand(switchProfileCmd)
}
