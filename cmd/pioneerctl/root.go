package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pioneer-ms/pioneerctl/internal/config"
)

var (
	// Global flags
	verbose    bool
	cfgFile    string
	binaryFlag string
	paramsDir  string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pioneerctl",
	Short: "Supervise Pioneer proteomics runs",
	Long: `pioneerctl launches and supervises the Pioneer mass spectrometry engine.

It streams Pioneer's output live, infers coarse progress from the log text,
keeps an append-only run log, and persists your parameter documents between
runs.

Core Commands:
  run          Start a library build or DIA search
  defaults     Show Pioneer's default parameters
  config       Show merged parameters and persisted paths
  watch        Live dashboard over an existing run log
  doctor       Check binary discovery and configuration`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		syncConfigFlagToEnv()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.pioneerctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&binaryFlag, "binary", "", "Path to the Pioneer executable (overrides discovery)")
	rootCmd.PersistentFlags().StringVar(&paramsDir, "params-dir", "", "Directory for persisted parameter documents")
}

// loadConfig resolves the effective configuration with flag overrides applied.
func loadConfig() (*config.Config, error) {
	return config.Load(&config.Config{
		Binary:    binaryFlag,
		ParamsDir: paramsDir,
		Verbose:   verbose,
	})
}

// syncConfigFlagToEnv lets an explicit --config path take effect everywhere
// the config package consults PIONEERCTL_CONFIG.
func syncConfigFlagToEnv() {
	path := strings.TrimSpace(cfgFile)
	if path == "" {
		return
	}
	_ = os.Setenv("PIONEERCTL_CONFIG", path)
}

// VerbosePrintf prints only when verbose mode is enabled.
func VerbosePrintf(format string, args ...interface{}) {
	if verbose {
		fmt.Printf(format, args...)
	}
}
