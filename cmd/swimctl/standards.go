package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

func newStandardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standards",
		Short: "Manage time standards",
	}

	cmd.AddCommand(newStandardsImportCmd())
	return cmd
}

func newStandardsImportCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <image-file>",
		Short: "Extract time standards from a cut sheet image and load them",
		Long: "Runs a photographed or scanned cut sheet through the vision " +
			"extractor and creates the standards it finds. Events referenced " +
			"by the sheet are created when missing.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			sheet, err := app.visionService.ParseSheet(cmd.Context(), image, http.DetectContentType(image))
			if err != nil {
				return fmt.Errorf("extracting standards from sheet: %w", err)
			}

			fmt.Printf("%s (%s, %d): %d entries\n",
				sheet.StandardName, sheet.SanctioningBody, sheet.EffectiveYear, len(sheet.Entries))
			if dryRun {
				for _, entry := range sheet.Entries {
					ageGroup := "open"
					if entry.AgeGroup != nil {
						ageGroup = *entry.AgeGroup
					}
					fmt.Printf("%s %s %s %s: %s\n", entry.Event, entry.Gender, ageGroup, entry.CutLevel, entry.Time)
				}
				return nil
			}

			printImportResult(app.standardService.SeedFromSheet(cmd.Context(), sheet))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the extracted standards without saving them")
	return cmd
}
