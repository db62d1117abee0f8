package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/telarray/airshower/internal/config"
	"github.com/telarray/airshower/internal/eventfile"
	"github.com/telarray/airshower/internal/pipeline"
	"github.com/telarray/airshower/internal/storage"
)

var reconstructCmd = &cobra.Command{
	Use:   "reconstruct <event-file>",
	Short: "Run stereo reconstruction over an event file",
	Long: `Reads per-telescope Hillas parameters from a msgpack event file,
reconstructs each event's direction and core position, converts the result to
slant atmospheric depth, and stores everything under a fresh run ID.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		profile, err := cfg.BuildProfile()
		if err != nil {
			return err
		}

		events, err := eventfile.Read(args[0])
		if err != nil {
			return err
		}
		batch := make([]pipeline.Event, len(events))
		for i, ev := range events {
			batch[i] = pipeline.Event{ID: ev.ID, Observations: ev.Observations()}
		}

		p := pipeline.New(profile, cfg.ObservationLevel(), cfg.Pipeline.Workers)
		results := p.Run(cmd.Context(), batch)

		runID := uuid.New().String()
		client, err := storage.NewClient(cfg.Storage.Path)
		if err != nil {
			return err
		}
		defer client.Close()
		if err := client.SaveRun(runID, results); err != nil {
			return err
		}

		reconstructed := 0
		for _, res := range results {
			if res.Geometry.Valid {
				reconstructed++
			}
		}
		fmt.Printf("Run %s\n", runID)
		fmt.Printf("  Events:        %d\n", len(results))
		fmt.Printf("  Reconstructed: %d\n", reconstructed)
		fmt.Printf("  Failed:        %d\n", len(results)-reconstructed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reconstructCmd)
}
