package ingest

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/karo-care/directory-cli/internal/model"
)

// minPageChars drops boilerplate-only crawl pages (cookie walls, parked
// domains) from the joined content.
const minPageChars = 50

// LoadContent reads a crawl snapshot: a JSON object keyed by record id with
// a list of page texts per record.
func LoadContent(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read content file")
	}
	pages := make(map[string][]string)
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, eris.Wrap(err, "ingest: parse content file")
	}
	return pages, nil
}

// JoinPages concatenates usable pages into one text blob. Pages below the
// minimum length are skipped; an empty result is a valid thin record.
func JoinPages(pages []string) string {
	var kept []string
	for _, p := range pages {
		if len(strings.TrimSpace(p)) >= minPageChars {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	return strings.Join(kept, "\n\n")
}

// ApplyContent attaches crawled text to each record. A record without its
// own crawl borrows content from another record on the same website domain,
// since both listings front the same business site.
func ApplyContent(records []model.Record, pages map[string][]string) []model.Record {
	byDomain := make(map[string]string)

	out := make([]model.Record, len(records))
	for i, r := range records {
		r.ContentText = JoinPages(pages[r.ID])
		if r.ContentText != "" {
			if d := r.Domain(); d != "" {
				if _, ok := byDomain[d]; !ok {
					byDomain[d] = r.ContentText
				}
			}
		}
		out[i] = r
	}

	shared := 0
	for i, r := range out {
		if r.ContentText != "" {
			continue
		}
		if d := r.Domain(); d != "" {
			if text, ok := byDomain[d]; ok {
				out[i].ContentText = text
				shared++
			}
		}
	}

	zap.L().Info("content attached",
		zap.Int("records", len(out)),
		zap.Int("shared_by_domain", shared),
	)
	return out
}
