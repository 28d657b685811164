package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	data := `{
		"pid-2": {"name": "Sunrise Care", "city_hint": "Pune", "rating": 4.5},
		"pid-1": {"name": "Green Valley Old Age Home", "primary_type": "health"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Sorted by id, with the map key promoted onto the record.
	assert.Equal(t, "pid-1", records[0].ID)
	assert.Equal(t, "Green Valley Old Age Home", records[0].Name)
	assert.Equal(t, "pid-2", records[1].ID)
	require.NotNil(t, records[1].Rating)
	assert.Equal(t, 4.5, *records[1].Rating)
}

func TestLoadRecords_Missing(t *testing.T) {
	_, err := LoadRecords(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadRecords_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2,3]"), 0o644))

	_, err := LoadRecords(path)
	assert.Error(t, err)
}

func TestLoadCities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.yaml")
	data := `cities:
  - name: Pune
    aliases: [Pimpri]
    lat: 18.5204
    lng: 73.8567
    radius_km: 30
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cities, err := LoadCities(path)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Pune", cities[0].Name)
	assert.Equal(t, []string{"Pimpri"}, cities[0].Aliases)
	assert.Equal(t, 30.0, cities[0].RadiusKM)
}

func TestLoadCities_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cities: []"), 0o644))

	_, err := LoadCities(path)
	assert.Error(t, err)
}
