package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/karo-care/directory-cli/internal/dedupe"
)

var (
	dedupeRecordsFile string
	dedupeOutputFile  string
	dedupeDistance    float64
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Run only duplicate resolution",
	Long:  "Resolves duplicates across a record snapshot by fuzzy name, shared domain, and shared normalized name, all scoped per city and gated by proximity clustering.",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadInput(dedupeRecordsFile, "")
		if err != nil {
			return err
		}

		distance := dedupeDistance
		if distance == 0 {
			distance = cfg.Dedupe.DistanceMeters
		}
		resolver := dedupe.New(dedupe.Config{
			DistanceMeters:  distance,
			FuzzySimilarity: cfg.Dedupe.FuzzySimilarity,
		})
		result := resolver.Resolve(records)

		zap.L().Info("dedupe pass complete",
			zap.Int("records", len(records)),
			zap.Int("kept", len(result.Kept)),
			zap.Int("removed", len(result.Removed)),
		)
		return writeJSON(dedupeOutputFile, result)
	},
}

func init() {
	dedupeCmd.Flags().StringVar(&dedupeRecordsFile, "records", "records.json", "record snapshot (JSON keyed by place id)")
	dedupeCmd.Flags().StringVarP(&dedupeOutputFile, "output", "o", "-", "output path, - for stdout")
	dedupeCmd.Flags().Float64Var(&dedupeDistance, "distance", 0, "proximity threshold in meters (default from config)")
	rootCmd.AddCommand(dedupeCmd)
}
