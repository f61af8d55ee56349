package cmd

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rorical/diabeguide/internal/api"
	"github.com/Rorical/diabeguide/internal/app"
	"github.com/Rorical/diabeguide/internal/config"
	"github.com/Rorical/diabeguide/pkg/logger"
)

var (
	profileFlag string
	urlFlag     string
)

var rootCmd = &cobra.Command{
	Use:   "diabeguide",
	Short: "Terminal client for the diabeGuide assistant",
	Long: `diabeGuide is a terminal client for the diabeGuide diabetes assistant:
chat with the bot, log blood sugar readings, chart them and ask about
emergency symptoms in one keystroke.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior: run the chat application
		runChat(loadConfig(), urlFlag)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "server profile to use for this run")
	rootCmd.Flags().StringVar(&urlFlag, "url", "", "open the chat at a URL such as /chatbot?message=...")

	// Add subcommands
	rootCmd.AddCommand(profileCmd)
}

// loadConfig loads the config, applies --profile and sets up logging.
func loadConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if profileFlag != "" {
		if err := cfg.UseProfile(profileFlag); err != nil {
			log.Fatalf("Failed to use profile: %v", err)
		}
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.LogFile()); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	return cfg
}

func newClient(cfg *config.Config) *api.Client {
	client, err := api.NewClient(api.ClientConfig{
		BaseURL:       cfg.GetBaseURL(),
		SessionCookie: cfg.GetSessionCookie(),
		CookieName:    cfg.GetCookieName(),
		Timeout:       cfg.GetTimeout(),
	})
	if err != nil {
		log.Fatalf("Failed to create API client: %v", err)
	}
	return client
}

func runChat(cfg *config.Config, chatURL string) {
	application, err := app.NewApplication(cfg, app.Options{ChatURL: chatURL})
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer application.Stop()

	if err := application.Start(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
