package cmd

import (
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/diabeguide/internal/emergency"
)

var emergencyCmd = &cobra.Command{
	Use:       "emergency [high|low]",
	Short:     "Ask the assistant about high or low sugar symptoms right away",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(emergency.High), string(emergency.Low)},
	Run: func(cmd *cobra.Command, args []string) {
		var symptom emergency.Symptom
		if len(args) > 0 {
			s, err := emergency.ParseSymptom(args[0])
			if err != nil {
				log.Fatalf("%v", err)
			}
			symptom = s
		} else {
			symptoms := emergency.Symptoms()
			items := make([]string, len(symptoms))
			for i, s := range symptoms {
				items[i] = s.Title()
			}
			prompt := promptui.Select{
				Label: "What are you experiencing",
				Items: items,
			}
			i, _, err := prompt.Run()
			if err != nil {
				log.Fatalf("Selection failed: %v", err)
			}
			symptom = symptoms[i]
		}

		runChat(loadConfig(), emergency.URL(symptom))
	},
}

func init() {
	rootCmd.AddCommand(emergencyCmd)
}
