package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/telarray/airshower/internal/log"
)

var (
	// Global flags
	cfgFile string
	debug   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "airshower",
	Short: "Cherenkov telescope array data analysis toolkit",
	Long: `airshower reconstructs air-shower geometry from multi-telescope
Hillas parameters and converts telescope geometry into line-of-sight
atmospheric depth using configurable density-profile models.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.Init(debug)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "airshower.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}
