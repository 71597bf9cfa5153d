package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"nexaplan/internal/di"
	"nexaplan/internal/domain/entity"
	"nexaplan/internal/infrastructure/progress"

	"github.com/spf13/cobra"
)

var (
	runCity         string
	runEvent        string
	runRequirements string
	runTransport    string
	runJSON         bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one logistics audit and print the report",
	Example: `  nexaplan run --city Mumbai --event "Business Lunch" \
    --requirements "5 persons, vegan" --transport Metro`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		opts := di.Options{LogName: "run"}
		if !runJSON {
			opts.Progress = progress.NewConsole(cmd.ErrOrStderr())
		}

		container, err := di.NewContainer(config, opts)
		if err != nil {
			return err
		}
		defer container.Close()

		result, err := container.Pipeline.Run(ctx, "", entity.PlanRequest{
			City:         entity.City(runCity),
			Event:        entity.EventType(runEvent),
			Requirements: runRequirements,
			Transport:    entity.TransportMode(runTransport),
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if runJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, result.Report)
		fmt.Fprintf(out, "\nAnalysis completed at %s\n", result.CompletedAt.Format("15:04"))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runCity, "city", string(entity.CityMumbai), "target metro")
	runCmd.Flags().StringVar(&runEvent, "event", string(entity.EventBusinessLunch), "event type")
	runCmd.Flags().StringVar(&runRequirements, "requirements", "", "free-text requirements")
	runCmd.Flags().StringVar(&runTransport, "transport", string(entity.TransportPrivateCar), "transport mode")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the full run result as JSON")
}
