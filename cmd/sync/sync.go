// Package sync implements the sync command: uploading the published tree
// and manifests to object storage.
package sync

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maddyp86/congress/cmd/common"
	"github.com/maddyp86/congress/internal/storage"
)

// Command returns the sync command for use in the root command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Upload the published tree and manifests to object storage",
		Long: `Uploads the published tree under the billtext/ prefix and the manifest
files at the bucket root, using the configured S3-compatible endpoint.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			uploader, err := storage.NewUploader(deps.Config.GetStorageConfig(), deps.Logger)
			if err != nil {
				return fmt.Errorf("create uploader: %w", err)
			}
			if !uploader.Enabled() {
				deps.Logger.Warn("Object storage sync is disabled; nothing to do")
				return nil
			}

			paths := deps.Config.GetPathsConfig()
			ctx := cmd.Context()

			published, err := uploader.UploadTree(ctx, paths.OutputRoot, "billtext")
			if err != nil {
				return fmt.Errorf("sync published tree: %w", err)
			}

			manifests, err := uploader.UploadManifests(ctx, paths.ManifestDir)
			if err != nil {
				return fmt.Errorf("sync manifests: %w", err)
			}

			fmt.Printf("synced %d published files and %d manifests\n", published, manifests)
			return nil
		},
	}

	return cmd
}
