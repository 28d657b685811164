package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/karo-care/directory-cli/internal/classify"
	"github.com/karo-care/directory-cli/internal/rules"
)

var (
	excludeRecordsFile string
	excludeOutputFile  string
)

var excludeCmd = &cobra.Command{
	Use:   "exclude",
	Short: "Run only the stage 1 exclusion filter",
	Long:  "Evaluates the exclusion rule tables against a discovery snapshot and reports each record's verdict without classifying or deduplicating.",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadInput(excludeRecordsFile, "")
		if err != nil {
			return err
		}

		matcher := rules.NewStage1Matcher(classify.DefaultTypeCategories)

		type verdict struct {
			RecordID string `json:"record_id"`
			Name     string `json:"name"`
			Keep     bool   `json:"keep"`
			Reason   string `json:"reason,omitempty"`
			Rule     string `json:"rule,omitempty"`
		}
		verdicts := make([]verdict, 0, len(records))
		excluded := 0
		for _, r := range records {
			v := matcher.Evaluate(r)
			if !v.Keep {
				excluded++
			}
			verdicts = append(verdicts, verdict{
				RecordID: r.ID,
				Name:     r.Name,
				Keep:     v.Keep,
				Reason:   v.Reason,
				Rule:     v.Rule,
			})
		}

		zap.L().Info("exclusion pass complete",
			zap.Int("records", len(records)),
			zap.Int("excluded", excluded),
		)
		return writeJSON(excludeOutputFile, verdicts)
	},
}

func init() {
	excludeCmd.Flags().StringVar(&excludeRecordsFile, "records", "records.json", "discovery snapshot (JSON keyed by place id)")
	excludeCmd.Flags().StringVarP(&excludeOutputFile, "output", "o", "-", "output path, - for stdout")
	rootCmd.AddCommand(excludeCmd)
}
