package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fluidsim-ci/dropsync/internal/history"
	"github.com/fluidsim-ci/dropsync/internal/pipeline"
)

func newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload [archive-path] [remote-folder]",
		Short: "Upload the output archive to the remote folder",
		Long: `Upload the zip archive to the Dropbox folder, overwriting any
previous version, and verify the stored size and content hash afterward.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runUpload,
	}
}

func runUpload(cmd *cobra.Command, args []string) error {
	logger := buildLogger()

	archivePath := resolvedCfg.Paths.Archive
	remoteFolder := resolvedCfg.Remote.Folder

	if len(args) > 0 {
		archivePath = args[0]
	}

	if len(args) > 1 {
		remoteFolder = args[1]
	}

	ctx := cmd.Context()

	client, err := newTransferClient(ctx, logger)
	if err != nil {
		markStage("upload", err)
		return err
	}

	started := time.Now()
	entry, runErr := pipeline.NewUploader(client, logger).Run(ctx, archivePath, remoteFolder)
	finished := time.Now()

	run := history.Run{
		Direction:    history.DirectionUpload,
		RemoteFolder: remoteFolder,
		Outcome:      runOutcome(runErr),
		Detail:       errDetail(runErr),
		StartedAt:    started,
		FinishedAt:   finished,
	}

	if entry != nil {
		run.Files = 1
		run.Bytes = entry.Size
	}

	recordRun(ctx, logger, &run)

	markStage("upload", runErr)

	if runErr != nil {
		return runErr
	}

	if flagJSON {
		return json.NewEncoder(os.Stdout).Encode(uploadResult{
			RemotePath:  entry.PathLower,
			Bytes:       entry.Size,
			ContentHash: entry.ContentHash,
		})
	}

	statusf("Uploaded %s (%s) to %s\n", archivePath, formatSize(entry.Size), entry.PathLower)

	return nil
}

// uploadResult is the --json output shape for the upload command.
type uploadResult struct {
	RemotePath  string `json:"remote_path"`
	Bytes       int64  `json:"bytes"`
	ContentHash string `json:"content_hash"`
}
