package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/karo-care/directory-cli/internal/model"
)

func TestJoinPages(t *testing.T) {
	long1 := strings.Repeat("home nursing services for elderly patients ", 3)
	long2 := strings.Repeat("round the clock attendant care at home ", 3)

	joined := JoinPages([]string{long1, "ok", "   ", long2})
	assert.Equal(t, strings.TrimSpace(long1)+"\n\n"+strings.TrimSpace(long2), joined)

	assert.Empty(t, JoinPages(nil))
	assert.Empty(t, JoinPages([]string{"short", "tiny"}))
}

func TestApplyContent(t *testing.T) {
	page := strings.Repeat("we provide skilled nursing care at your home ", 3)

	records := []model.Record{
		{ID: "a", WebsiteURL: "https://sunrisecare.com"},
		{ID: "b", WebsiteURL: "https://www.sunrisecare.com"},
		{ID: "c", WebsiteURL: "https://other.com"},
		{ID: "d"},
	}

	out := ApplyContent(records, map[string][]string{"a": {page}})

	// a has its own crawl; b borrows it through the shared domain.
	assert.Equal(t, strings.TrimSpace(page), out[0].ContentText)
	assert.Equal(t, out[0].ContentText, out[1].ContentText)

	// Different domain and no domain stay empty.
	assert.Empty(t, out[2].ContentText)
	assert.Empty(t, out[3].ContentText)
}

func TestApplyContent_OwnContentWins(t *testing.T) {
	pageA := strings.Repeat("general ward and nursing home facility details ", 3)
	pageB := strings.Repeat("a different page crawled for the second listing ", 3)

	out := ApplyContent(
		[]model.Record{
			{ID: "a", WebsiteURL: "https://sunrisecare.com"},
			{ID: "b", WebsiteURL: "https://sunrisecare.com"},
		},
		map[string][]string{"a": {pageA}, "b": {pageB}},
	)
	assert.Equal(t, strings.TrimSpace(pageA), out[0].ContentText)
	assert.Equal(t, strings.TrimSpace(pageB), out[1].ContentText)
}
