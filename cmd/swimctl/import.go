package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/silverbeer/swimcuttimes/models"
	"github.com/silverbeer/swimcuttimes/services"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import CSV data",
	}

	cmd.AddCommand(newImportRosterCmd())
	cmd.AddCommand(newImportMeetsCmd())
	cmd.AddCommand(newImportTimesCmd())
	return cmd
}

func newImportRosterCmd() *cobra.Command {
	var validateOnly bool

	cmd := &cobra.Command{
		Use:   "roster <csv-file>",
		Short: "Import swimmers from a roster CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			rows, validation, err := services.ReadRosterCSV(file)
			if err != nil {
				return fmt.Errorf("reading roster csv: %w", err)
			}
			validation.Merge(services.ValidateRoster(rows))
			printValidation(validation)
			if !validation.Valid() {
				return fmt.Errorf("%d validation error(s), nothing imported", len(validation.Errors()))
			}
			if validateOnly {
				fmt.Printf("%d rows valid\n", len(rows))
				return nil
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			printImportResult(app.importService.ImportRoster(cmd.Context(), rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&validateOnly, "validate-only", false, "validate the file without importing")
	return cmd
}

func newImportMeetsCmd() *cobra.Command {
	var validateOnly bool

	cmd := &cobra.Command{
		Use:   "meets <csv-file>",
		Short: "Import meets from a CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			rows, validation, err := services.ReadMeetsCSV(file)
			if err != nil {
				return fmt.Errorf("reading meets csv: %w", err)
			}
			validation.Merge(services.ValidateMeets(rows))
			printValidation(validation)
			if !validation.Valid() {
				return fmt.Errorf("%d validation error(s), nothing imported", len(validation.Errors()))
			}
			if validateOnly {
				fmt.Printf("%d rows valid\n", len(rows))
				return nil
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			printImportResult(app.importService.ImportMeets(cmd.Context(), rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&validateOnly, "validate-only", false, "validate the file without importing")
	return cmd
}

func newImportTimesCmd() *cobra.Command {
	var (
		validateOnly    bool
		teamType        string
		sanctioningBody string
	)

	cmd := &cobra.Command{
		Use:   "times <csv-file>",
		Short: "Import swim times from a CSV",
		Long: "Import swim times from a CSV. Swimmers and the meets referenced " +
			"by name must already exist; teams and events are created on the fly.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			rows, validation, err := services.ReadTimesCSV(file)
			if err != nil {
				return fmt.Errorf("reading times csv: %w", err)
			}
			validation.Merge(services.ValidateTimes(rows, nil, nil))
			printValidation(validation)
			if !validation.Valid() {
				return fmt.Errorf("%d validation error(s), nothing imported", len(validation.Errors()))
			}
			if validateOnly {
				fmt.Printf("%d rows valid\n", len(rows))
				return nil
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			result := app.importService.ImportTimes(cmd.Context(), rows, models.TeamType(teamType), sanctioningBody)
			printImportResult(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&validateOnly, "validate-only", false, "validate the file without importing")
	cmd.Flags().StringVar(&teamType, "team-type", string(models.TeamTypeClub), "team type for teams created during import")
	cmd.Flags().StringVar(&sanctioningBody, "sanctioning-body", "USA Swimming", "sanctioning body for meets created during import")
	return cmd
}
