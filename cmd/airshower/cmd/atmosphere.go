package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telarray/airshower/internal/atmosphere"
	"github.com/telarray/airshower/internal/config"
	"github.com/telarray/airshower/internal/units"
)

var (
	profileMaxKm  float64
	profileStepKm float64
)

var atmosphereCmd = &cobra.Command{
	Use:   "atmosphere",
	Short: "Tabulate the configured atmospheric density profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		profile, err := cfg.BuildProfile()
		if err != nil {
			return err
		}

		var heights []units.Length
		for km := 0.0; km <= profileMaxKm; km += profileStepKm {
			heights = append(heights, units.Kilometers(km))
		}
		densities := atmosphere.Densities(profile, heights)
		overburdens := atmosphere.Integrals(profile, heights)

		fmt.Printf("%10s  %14s  %14s\n", "height/km", "density/g·cm⁻³", "depth/g·cm⁻²")
		for i, h := range heights {
			fmt.Printf("%10.1f  %14.6e  %14.4f\n",
				h.Kilometers(),
				densities[i].GramsPerCubicCentimeter(),
				overburdens[i].GramsPerSquareCentimeter())
		}
		return nil
	},
}

func init() {
	atmosphereCmd.Flags().Float64Var(&profileMaxKm, "max-km", 100, "maximum height to tabulate")
	atmosphereCmd.Flags().Float64Var(&profileStepKm, "step-km", 5, "tabulation step")
	rootCmd.AddCommand(atmosphereCmd)
}
