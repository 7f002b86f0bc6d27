// Package manifests implements the manifests command: building local and
// bucket HTTPS manifest files from the published and raw trees.
package manifests

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maddyp86/congress/cmd/common"
	"github.com/maddyp86/congress/internal/manifest"
)

// Command returns the manifests command for use in the root command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifests",
		Short: "Build manifest files for downstream consumers",
		Long: `Builds the votes, bills, and billtext manifests as local file lists plus
bucket HTTPS variants. Bill text comes from the published tree when one
exists, otherwise from the raw text-versions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			paths := deps.Config.GetPathsConfig()
			storage := deps.Config.GetStorageConfig()

			builder := manifest.New(
				paths.DataRoot,
				paths.OutputRoot,
				paths.ManifestDir,
				storage.Bucket,
				storage.Prefix,
				deps.Logger,
			)

			summary, err := builder.Build()
			if err != nil {
				return fmt.Errorf("build manifests: %w", err)
			}

			for name, count := range summary.Counts {
				fmt.Printf("%s built: %d files\n", name, count)
			}
			fmt.Printf("bill text source: %s\n", summary.BillTextSource)
			return nil
		},
	}

	return cmd
}
