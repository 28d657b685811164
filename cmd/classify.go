package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/karo-care/directory-cli/internal/model"
)

var (
	classifyRecordsFile string
	classifyContentFile string
	classifyOutputFile  string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Run only classification and correction review",
	Long:  "Classifies stage-1 survivors and applies the correction reviewer, without deduplicating. Uses the classification cache, so reruns only touch new records.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		records, err := loadInput(classifyRecordsFile, classifyContentFile)
		if err != nil {
			return err
		}

		type answer struct {
			RecordID   string           `json:"record_id"`
			Name       string           `json:"name"`
			Category   model.Category   `json:"category"`
			Confidence model.Confidence `json:"confidence"`
			Reason     string           `json:"reason"`
			Correction string           `json:"correction,omitempty"`
		}
		answers := make([]answer, 0, len(records))

		for _, r := range records {
			if v := env.Matcher.Evaluate(r); !v.Keep {
				continue
			}
			res := env.Classifier.Classify(ctx, r)
			category, corrected, rule := env.Reviewer.Review(r, res)

			a := answer{
				RecordID:   r.ID,
				Name:       r.Name,
				Category:   category,
				Confidence: res.Confidence,
				Reason:     res.Reason,
			}
			if corrected {
				a.Correction = rule
			}
			answers = append(answers, a)

			if err := env.Store.PutClassification(ctx, res); err != nil {
				zap.L().Warn("classification cache write failed",
					zap.String("record_id", r.ID), zap.Error(err))
			}
		}

		zap.L().Info("classification pass complete", zap.Int("classified", len(answers)))
		return writeJSON(classifyOutputFile, answers)
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyRecordsFile, "records", "records.json", "discovery snapshot (JSON keyed by place id)")
	classifyCmd.Flags().StringVar(&classifyContentFile, "content", "", "crawled content snapshot (JSON keyed by record id)")
	classifyCmd.Flags().StringVarP(&classifyOutputFile, "output", "o", "-", "output path, - for stdout")
	rootCmd.AddCommand(classifyCmd)
}
