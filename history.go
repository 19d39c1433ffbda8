package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fluidsim-ci/dropsync/internal/history"
	"github.com/fluidsim-ci/dropsync/internal/pipeline"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent transfer runs",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	cmd.Flags().IntP("limit", "n", 20, "maximum number of runs to show")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	logger := buildLogger()

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	ledger, err := history.Open(resolvedCfg.Paths.HistoryDB, logger)
	if err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrConfiguration, err)
	}
	defer ledger.Close()

	runs, err := ledger.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if flagJSON {
		return json.NewEncoder(os.Stdout).Encode(historyResult(runs))
	}

	if len(runs) == 0 {
		statusf("No recorded runs\n")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			formatTime(run.StartedAt.Local()),
			run.Direction,
			run.Outcome,
			fmt.Sprintf("%d", run.Files),
			formatSize(run.Bytes),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String(),
			run.RemoteFolder,
		})
	}

	printTable(os.Stdout,
		[]string{"STARTED", "DIRECTION", "OUTCOME", "FILES", "SIZE", "TOOK", "REMOTE"},
		rows)

	return nil
}

// historyResult converts runs into the --json output shape.
func historyResult(runs []history.Run) []runResult {
	out := make([]runResult, 0, len(runs))

	for _, run := range runs {
		out = append(out, runResult{
			ID:           run.ID,
			Direction:    run.Direction,
			RemoteFolder: run.RemoteFolder,
			Files:        run.Files,
			Bytes:        run.Bytes,
			Outcome:      run.Outcome,
			Detail:       run.Detail,
			StartedAt:    run.StartedAt.UTC().Format(time.RFC3339),
			FinishedAt:   run.FinishedAt.UTC().Format(time.RFC3339),
		})
	}

	return out
}

type runResult struct {
	ID           string `json:"id"`
	Direction    string `json:"direction"`
	RemoteFolder string `json:"remote_folder"`
	Files        int    `json:"files"`
	Bytes        int64  `json:"bytes"`
	Outcome      string `json:"outcome"`
	Detail       string `json:"detail,omitempty"`
	StartedAt    string `json:"started_at"`
	FinishedAt   string `json:"finished_at"`
}
