package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pioneer-ms/pioneerctl/internal/params"
	"github.com/pioneer-ms/pioneerctl/internal/resolver"
	"github.com/pioneer-ms/pioneerctl/internal/run"
)

var defaultsSimplified bool

var defaultsCmd = &cobra.Command{
	Use:   "defaults <build-lib|search>",
	Short: "Show Pioneer's default parameters",
	Long: `Print the default parameter document for a mode.

When the Pioneer binary is available, defaults are fetched from it directly
(a throwaway preview invocation); otherwise the embedded fallback document
is printed and the fetch failure reported on stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := run.ParseMode(args[0])
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var doc interface{}
		source := params.SourceFallback
		if defaultsSimplified {
			doc, err = params.FallbackSimplified(mode)
			if err != nil {
				return err
			}
		} else {
			binary := cfg.Binary
			if binary == "" {
				binary, _ = resolver.Locate()
			}
			var fetchErr error
			doc, source, fetchErr = params.LoadDefaults(binary, mode)
			if fetchErr != nil {
				if doc == nil {
					return fetchErr
				}
				fmt.Fprintf(os.Stderr, "warning: %v\n", fetchErr)
			}
		}

		VerbosePrintf("source: %s\n", source)
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	defaultsCmd.Flags().BoolVar(&defaultsSimplified, "simplified", false, "Show the curated subset instead of the full document")
	rootCmd.AddCommand(defaultsCmd)
}
