package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fluidsim-ci/dropsync/internal/config"
	"github.com/fluidsim-ci/dropsync/internal/dropbox"
	"github.com/fluidsim-ci/dropsync/internal/history"
	"github.com/fluidsim-ci/dropsync/internal/pipeline"
)

func newDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download [remote-folder] [local-folder]",
		Short: "Download every file from the remote folder",
		Long: `Download every file from the Dropbox folder into the local output
folder, writing one audit log line per file. The run fails if the local
folder is empty afterward.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runDownload,
	}

	cmd.Flags().String("log", "", "audit log path (defaults to the configured path)")

	return cmd
}

func runDownload(cmd *cobra.Command, args []string) error {
	logger := buildLogger()

	remoteFolder := resolvedCfg.Remote.Folder
	localFolder := resolvedCfg.Paths.LocalFolder

	if len(args) > 0 {
		remoteFolder = args[0]
	}

	if len(args) > 1 {
		localFolder = args[1]
	}

	ctx := cmd.Context()

	client, err := newTransferClient(ctx, logger)
	if err != nil {
		markStage("download", err)
		return err
	}

	auditPath, err := cmd.Flags().GetString("log")
	if err != nil {
		return err
	}

	if auditPath == "" {
		auditPath = resolvedCfg.Paths.AuditLog
	}

	audit, err := pipeline.OpenAuditLog(auditPath)
	if err != nil {
		err = fmt.Errorf("%w: %w", pipeline.ErrConfiguration, err)
		markStage("download", err)

		return err
	}
	defer audit.Close()

	started := time.Now()
	report, runErr := pipeline.NewDownloader(client, logger).Run(ctx, remoteFolder, localFolder, audit)
	finished := time.Now()

	recordRun(ctx, logger, &history.Run{
		Direction:    history.DirectionDownload,
		RemoteFolder: remoteFolder,
		Files:        report.Succeeded(),
		Bytes:        report.Bytes,
		Outcome:      runOutcome(runErr),
		Detail:       errDetail(runErr),
		StartedAt:    started,
		FinishedAt:   finished,
	})

	markStage("download", runErr)

	if runErr != nil {
		return runErr
	}

	if flagJSON {
		return json.NewEncoder(os.Stdout).Encode(downloadResult{
			RemoteFolder: remoteFolder,
			LocalFolder:  localFolder,
			Files:        report.Succeeded(),
			Failed:       report.Failed(),
			Bytes:        report.Bytes,
		})
	}

	statusf("Downloaded %d file(s) (%s) from %s to %s\n",
		report.Succeeded(), formatSize(report.Bytes), remoteFolder, localFolder)

	return nil
}

// downloadResult is the --json output shape for the download command.
type downloadResult struct {
	RemoteFolder string `json:"remote_folder"`
	LocalFolder  string `json:"local_folder"`
	Files        int    `json:"files"`
	Failed       int    `json:"failed"`
	Bytes        int64  `json:"bytes"`
}

// newTransferClient validates credentials from the environment and builds
// the Dropbox client. Validation happens before any network traffic so a
// missing secret fails fast as a configuration error.
func newTransferClient(ctx context.Context, logger *slog.Logger) (*dropbox.Client, error) {
	creds := config.CredentialsFromEnv()
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrConfiguration, err)
	}

	token := dropbox.NewTokenSource(ctx, creds.AppKey, creds.AppSecret, creds.RefreshToken, logger)

	return dropbox.NewClient("", "", defaultHTTPClient(), token, logger), nil
}

// recordRun appends one run to the history ledger. The ledger is
// best-effort: failures are logged and swallowed so they never change the
// transfer verdict.
func recordRun(ctx context.Context, logger *slog.Logger, run *history.Run) {
	ledger, err := history.Open(resolvedCfg.Paths.HistoryDB, logger)
	if err != nil {
		logger.Warn("history ledger unavailable", slog.String("error", err.Error()))
		return
	}
	defer ledger.Close()

	if err := ledger.Record(ctx, run); err != nil {
		logger.Warn("recording run failed", slog.String("error", err.Error()))
	}
}

func runOutcome(err error) string {
	if err != nil {
		return history.OutcomeFailure
	}

	return history.OutcomeSuccess
}

func errDetail(err error) string {
	if err != nil {
		return err.Error()
	}

	return ""
}
