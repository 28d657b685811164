package ingest

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/karo-care/directory-cli/internal/model"
)

// xlsx header names recognized by the seed importer, all matched
// case-insensitively after trimming.
var xlsxColumns = map[string]string{
	"id":           "id",
	"place id":     "id",
	"name":         "name",
	"business":     "name",
	"address":      "address",
	"city":         "city",
	"state":        "state",
	"lat":          "lat",
	"latitude":     "lat",
	"lng":          "lng",
	"longitude":    "lng",
	"website":      "website",
	"url":          "website",
	"rating":       "rating",
	"reviews":      "reviews",
	"review count": "reviews",
	"types":        "types",
	"status":       "status",
}

// ImportXLSX reads manually curated seed listings from a spreadsheet. The
// first row is a header; unrecognized columns are ignored. Rows without a
// name are skipped. Listings without an id get a generated one.
func ImportXLSX(path string) ([]model.Record, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("ingest: %s has no sheets", path)
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	fields := make(map[int]string)
	for j, cell := range sheet.Rows[0].Cells {
		key := strings.ToLower(strings.TrimSpace(cell.String()))
		if field, ok := xlsxColumns[key]; ok {
			fields[j] = field
		}
	}
	if len(fields) == 0 {
		return nil, eris.Errorf("ingest: %s has no recognized header columns", path)
	}

	var records []model.Record
	skipped := 0
	for _, row := range sheet.Rows[1:] {
		r, ok := recordFromRow(row, fields)
		if !ok {
			skipped++
			continue
		}
		records = append(records, r)
	}

	zap.L().Info("xlsx seed imported",
		zap.String("path", path),
		zap.Int("records", len(records)),
		zap.Int("skipped", skipped),
	)
	return records, nil
}

func recordFromRow(row *xlsx.Row, fields map[int]string) (model.Record, bool) {
	var r model.Record
	for j, cell := range row.Cells {
		field, ok := fields[j]
		if !ok {
			continue
		}
		val := strings.TrimSpace(cell.String())
		if val == "" {
			continue
		}
		switch field {
		case "id":
			r.ID = val
		case "name":
			r.Name = val
		case "address":
			r.AddressText = val
		case "city":
			r.CityHint = val
		case "state":
			r.State = val
		case "lat":
			if v, err := strconv.ParseFloat(val, 64); err == nil {
				r.Latitude = &v
			}
		case "lng":
			if v, err := strconv.ParseFloat(val, 64); err == nil {
				r.Longitude = &v
			}
		case "website":
			r.WebsiteURL = val
		case "rating":
			if v, err := strconv.ParseFloat(val, 64); err == nil {
				r.Rating = &v
			}
		case "reviews":
			if v, err := strconv.Atoi(val); err == nil {
				r.ReviewCount = &v
			}
		case "types":
			for _, t := range strings.Split(val, ",") {
				if t = strings.TrimSpace(t); t != "" {
					r.MachineTypes = append(r.MachineTypes, t)
				}
			}
		case "status":
			r.BusinessStatus = model.BusinessStatus(strings.ToUpper(val))
		}
	}

	if r.Name == "" {
		return model.Record{}, false
	}
	if r.ID == "" {
		r.ID = "seed-" + uuid.NewString()
	}
	if len(r.MachineTypes) > 0 {
		r.PrimaryType = r.MachineTypes[0]
	}
	return r, true
}
