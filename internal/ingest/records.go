// Package ingest loads discovery output and enrichment data, and prepares
// records for the resolution pipeline: city assignment, crawled content
// attachment, and directory slugs.
package ingest

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/karo-care/directory-cli/internal/model"
)

// LoadRecords reads a discovery snapshot: a JSON object keyed by place id.
// Records come back sorted by id so every downstream stage sees a stable
// order.
func LoadRecords(path string) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read records file")
	}

	byID := make(map[string]model.Record)
	if err := json.Unmarshal(data, &byID); err != nil {
		return nil, eris.Wrap(err, "ingest: parse records file")
	}

	records := make([]model.Record, 0, len(byID))
	for id, r := range byID {
		r.ID = id
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	zap.L().Info("records loaded",
		zap.String("path", path),
		zap.Int("count", len(records)),
	)
	return records, nil
}
