package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runRecordsFile string
	runContentFile string
	runOutputFile  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Resolve a discovery snapshot end to end",
	Long:  "Runs exclusion, classification, correction review, and deduplication over a discovery snapshot and writes per-record outcomes plus an aggregate report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		records, err := loadInput(runRecordsFile, runContentFile)
		if err != nil {
			return err
		}

		result, err := env.Pipeline.Run(ctx, records)
		if err != nil {
			return err
		}

		zap.L().Info("run complete", zap.String("run_id", result.RunID))
		return writeJSON(runOutputFile, result)
	},
}

func init() {
	runCmd.Flags().StringVar(&runRecordsFile, "records", "records.json", "discovery snapshot (JSON keyed by place id)")
	runCmd.Flags().StringVar(&runContentFile, "content", "", "crawled content snapshot (JSON keyed by record id)")
	runCmd.Flags().StringVarP(&runOutputFile, "output", "o", "-", "output path, - for stdout")
	rootCmd.AddCommand(runCmd)
}
