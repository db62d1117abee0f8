package cmd

import (
	"fmt"
	"time"

	"github.com/soniakeys/unit"
	"github.com/spf13/cobra"

	"github.com/telarray/airshower/internal/config"
	"github.com/telarray/airshower/pkg/ephemeris"
)

var darknessTime string

var darknessCmd = &cobra.Command{
	Use:   "darkness",
	Short: "Check whether the configured site is astronomically dark",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		t := time.Now().UTC()
		if darknessTime != "" {
			t, err = time.Parse(time.RFC3339, darknessTime)
			if err != nil {
				return fmt.Errorf("parsing --time: %w", err)
			}
		}

		site := ephemeris.Site{
			Latitude:  unit.AngleFromDeg(cfg.Site.LatitudeDeg),
			Longitude: unit.AngleFromDeg(cfg.Site.LongitudeDeg),
		}
		alt, az := ephemeris.SunHorizontal(t, site)

		fmt.Printf("Site conditions for %s\n", t.Format(time.RFC3339))
		fmt.Printf("  Sun altitude: %.2f°\n", alt.Deg())
		fmt.Printf("  Sun azimuth:  %.2f°\n", az.Deg())
		if ephemeris.IsAstronomicallyDark(t, site) {
			fmt.Printf("  Sky:          astronomically dark\n")
		} else {
			fmt.Printf("  Sky:          not dark\n")
		}
		return nil
	},
}

func init() {
	darknessCmd.Flags().StringVar(&darknessTime, "time", "", "UTC time to evaluate (RFC3339 format, e.g., 2024-01-15T12:00:00Z)")
	rootCmd.AddCommand(darknessCmd)
}
