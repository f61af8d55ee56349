package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/Rorical/diabeguide/internal/api"
)

var outFlag string

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Save the tracker data as diabeguide_data.json",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		client := newClient(cfg)

		path := outFlag
		if path == "" {
			path = cfg.DownloadPath()
		}

		raw, err := client.Download(commandContext(cmd))
		if err != nil {
			log.Fatalf("Failed to download tracker data: %v", err)
		}
		if err := api.SaveDownload(path, raw); err != nil {
			log.Fatalf("Failed to save tracker data: %v", err)
		}
		fmt.Printf("Saved tracker data to %s\n", path)
	},
}

func init() {
	downloadCmd.Flags().StringVarP(&outFlag, "out", "o", "", "output file (default <download_dir>/diabeguide_data.json)")
	rootCmd.AddCommand(downloadCmd)
}
