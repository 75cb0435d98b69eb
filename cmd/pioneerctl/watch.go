package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pioneer-ms/pioneerctl/internal/run"
	"github.com/pioneer-ms/pioneerctl/internal/tui"
)

var watchMode string

var watchCmd = &cobra.Command{
	Use:   "watch <run.log>",
	Short: "Live dashboard over an existing run log",
	Long: `Tail a run log written by pioneerctl run and render the live dashboard.

Stage progress is re-derived from the logged text with the same stage table
the supervisor uses, so a watch session agrees with the original run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := run.ParseMode(watchMode)
		if err != nil {
			return err
		}

		tailer, err := tui.NewTailer(args[0])
		if err != nil {
			return fmt.Errorf("open run log: %w", err)
		}

		p := tea.NewProgram(tui.NewTailModel(mode, tailer), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVarP(&watchMode, "mode", "m", "search", "Run mode of the log (build-lib or search)")
	rootCmd.AddCommand(watchCmd)
}
