package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pioneer-ms/pioneerctl/internal/params"
	"github.com/pioneer-ms/pioneerctl/internal/resolver"
	"github.com/pioneer-ms/pioneerctl/internal/run"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect parameter documents",
	Long: `View the parameter documents pioneerctl will hand to Pioneer.

Environment variables:
  PIONEERCTL_CONFIG      - Explicit config file path
  PIONEERCTL_BINARY      - Pioneer executable to run, overriding config files
  PIONEERCTL_PARAMS_DIR  - Directory for persisted parameter documents
  PIONEERCTL_LOG_DIR     - Directory for run logs
  PIONEERCTL_TERMINAL    - Companion terminal policy (auto|never)
  PIONEERCTL_VERBOSE     - Enable verbose output (true/1)
  PIONEER_BINARY et al.  - Pioneer executable location (see doctor)`,
}

var configShowCmd = &cobra.Command{
	Use:   "show <build-lib|search>",
	Short: "Print the merged parameter document for a mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := run.ParseMode(args[0])
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		binary := cfg.Binary
		if binary == "" {
			// Best effort: defaults fall back to the embedded document
			// when the binary is missing.
			binary, _ = resolver.Locate()
		}

		defaults, _, err := params.LoadDefaults(binary, mode)
		if err != nil && defaults == nil {
			return err
		}
		doc, err := params.LoadPersisted(mode, cfg.ParamsDir, defaults)
		if errors.Is(err, params.ErrNoPersisted) {
			doc = defaults
		} else if err != nil {
			return err
		}

		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path <build-lib|search>",
	Short: "Print the persisted parameter file path for a mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := run.ParseMode(args[0])
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path, err := params.PersistPath(mode, cfg.ParamsDir)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
