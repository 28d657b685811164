package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/karo-care/directory-cli/internal/ingest"
	"github.com/karo-care/directory-cli/internal/model"
)

var importOutputFile string

var importCmd = &cobra.Command{
	Use:   "import <seed.xlsx>",
	Short: "Convert a curated seed spreadsheet into a discovery snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := ingest.ImportXLSX(args[0])
		if err != nil {
			return err
		}

		byID := make(map[string]model.Record, len(records))
		for _, r := range records {
			byID[r.ID] = r
		}

		zap.L().Info("import complete", zap.Int("records", len(byID)))
		return writeJSON(importOutputFile, byID)
	},
}

func init() {
	importCmd.Flags().StringVarP(&importOutputFile, "output", "o", "-", "output path, - for stdout")
	rootCmd.AddCommand(importCmd)
}
