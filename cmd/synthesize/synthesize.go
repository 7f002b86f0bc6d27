// Package synthesize implements the synthesize command: it fills in
// missing descriptor files across the data tree without selecting or
// publishing anything.
package synthesize

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maddyp86/congress/cmd/common"
	"github.com/maddyp86/congress/internal/synth"
)

// Command returns the synthesize command for use in the root command.
func Command() *cobra.Command {
	var dataRoot string

	cmd := &cobra.Command{
		Use:   "synthesize",
		Short: "Synthesize missing descriptor files",
		Long: `Scans the data tree for text-version directories lacking a descriptor
file and synthesizes one from whatever metadata document is present, so
later pipeline stages see a uniform input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			if dataRoot == "" {
				dataRoot = deps.Config.GetPathsConfig().DataRoot
			}

			stats, err := synth.New(deps.Logger).Run(dataRoot)
			if err != nil {
				return fmt.Errorf("synthesis failed: %w", err)
			}

			fmt.Printf("scanned %d version dirs: %d synthesized, %d existing, %d failed\n",
				stats.Scanned, stats.Synthesized, stats.HadDescriptor, stats.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataRoot, "data-root", "", "raw data tree root (overrides config)")

	return cmd
}
