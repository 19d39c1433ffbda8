package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fluidsim-ci/dropsync/internal/archive"
	"github.com/fluidsim-ci/dropsync/internal/pipeline"
	"github.com/fluidsim-ci/dropsync/pkg/contenthash"
)

func newArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive [source-dir] [archive-path]",
		Short: "Zip the output directory into the upload archive",
		Long: `Create the zip archive from the contents of the source directory,
replacing any previous archive at the destination. The archive root holds
the directory's contents, not the directory itself.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runArchive,
	}
}

func runArchive(_ *cobra.Command, args []string) error {
	logger := buildLogger()

	sourceDir := resolvedCfg.Paths.SourceDir
	archivePath := resolvedCfg.Paths.Archive

	if len(args) > 0 {
		sourceDir = args[0]
	}

	if len(args) > 1 {
		archivePath = args[1]
	}

	if err := archive.Create(sourceDir, archivePath, logger); err != nil {
		err = fmt.Errorf("%w: %w", pipeline.ErrConfiguration, err)
		markStage("archive", err)

		return err
	}

	size, err := archive.Verify(archivePath)
	if err != nil {
		err = fmt.Errorf("%w: %w", pipeline.ErrVerification, err)
		markStage("archive", err)

		return err
	}

	markStage("archive", nil)

	if flagJSON {
		hash, hashErr := contenthash.File(archivePath)
		if hashErr != nil {
			return fmt.Errorf("%w: %w", pipeline.ErrVerification, hashErr)
		}

		return json.NewEncoder(os.Stdout).Encode(archiveResult{
			Archive:     archivePath,
			Bytes:       size,
			ContentHash: hash,
		})
	}

	statusf("Archived %s into %s (%s)\n", sourceDir, archivePath, formatSize(size))

	return nil
}

// archiveResult is the --json output shape for the archive command.
type archiveResult struct {
	Archive     string `json:"archive"`
	Bytes       int64  `json:"bytes"`
	ContentHash string `json:"content_hash"`
}
