package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pioneer-ms/pioneerctl/internal/params"
	"github.com/pioneer-ms/pioneerctl/internal/resolver"
	"github.com/pioneer-ms/pioneerctl/internal/run"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check binary discovery and configuration",
	Long:  `Verify that the Pioneer executable can be found and report where run artifacts will go.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ok := true

		binary := cfg.Binary
		switch {
		case binary != "":
			fmt.Printf("binary: %s (pinned by config)\n", binary)
		default:
			binary, err = resolver.Locate()
			if err != nil {
				fmt.Printf("binary: NOT FOUND\n  %v\n", err)
				ok = false
			} else {
				fmt.Printf("binary: %s\n", binary)
			}
		}

		var sources []params.Source
		for _, mode := range []run.Mode{run.ModeBuildSpecLib, run.ModeSearchDIA} {
			_, src, _ := params.LoadDefaults(binary, mode)
			sources = append(sources, src)
		}
		fmt.Printf("defaults: %s\n", params.CombineSources(sources...))

		for _, mode := range []run.Mode{run.ModeBuildSpecLib, run.ModeSearchDIA} {
			path, err := params.PersistPath(mode, cfg.ParamsDir)
			if err != nil {
				fmt.Printf("params (%s): %v\n", mode, err)
				ok = false
				continue
			}
			fmt.Printf("params (%s): %s\n", mode, path)
		}

		if cfg.LogDir != "" {
			fmt.Printf("logs: %s\n", cfg.LogDir)
		} else {
			fmt.Println("logs: per-run scratch directory")
		}
		fmt.Printf("terminal: %s\n", cfg.Run.Terminal)

		if !ok {
			return fmt.Errorf("doctor found problems")
		}
		fmt.Println("all checks passed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
