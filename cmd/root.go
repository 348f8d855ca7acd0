/*
Copyright © 2025 thoughtbruno
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoughtbruno/llm-researcher/internal/logger"
	"github.com/thoughtbruno/llm-researcher/internal/ui"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool

	// Build metadata, overridable via -ldflags.
	version = "0.1.0"
	commit  = "none"
	date    = "unknown"
)

// GetVersion returns the CLI version string.
func GetVersion() string {
	return version
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "researcher",
	Short: "Researcher analyzes the garment worker productivity dataset.",
	Long: `Researcher is a read-only analytics toolkit for the garment industry
worker productivity dataset. It computes statistical reports over the
CSV file and serves them to humans (CLI), AI agents (MCP), and other
programs (HTTP JSON API).

The dataset is loaded fresh from disk on every invocation, so results
always reflect the current file. Nothing is ever written back to it.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetCommand(cmd.Name())
		logger.SetVersion(version)
		// An explicit --dataset beats config file and environment.
		if ds, _ := cmd.Flags().GetString("dataset"); ds != "" {
			viper.Set("dataset.path", ds)
		}
		if viper.GetBool("noColor") {
			ui.DisableColors()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.researcher/config.yaml or $HOME/.researcher/config.yaml)")
	rootCmd.PersistentFlags().StringP("dataset", "d", "", "path to the productivity CSV (overrides config)")
	rootCmd.PersistentFlags().Bool("json", false, "output machine-readable JSON")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress decorative output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("noColor", rootCmd.PersistentFlags().Lookup("no-color"))
}
