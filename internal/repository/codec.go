package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"survey-app/internal/models"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EncodeRecords writes records as a partition table with the canonical header.
// Floats use the shortest representation that parses back to the same value.
func EncodeRecords(w io.Writer, records []models.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.Columns); err != nil {
		return fmt.Errorf("repository: failed to write header: %w", err)
	}
	for i, r := range records {
		row := []string{
			r.Date,
			r.Time,
			strconv.FormatFloat(r.Lat, 'f', -1, 64),
			strconv.FormatFloat(r.Lon, 'f', -1, 64),
			r.Species,
			string(r.Method),
			r.Collector,
			r.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("repository: failed to write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeRecordsWithBOM is EncodeRecords prefixed with a UTF-8 byte order mark,
// which spreadsheet applications use to detect the encoding.
func EncodeRecordsWithBOM(w io.Writer, records []models.Record) error {
	tw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	if err := EncodeRecords(tw, records); err != nil {
		return err
	}
	return tw.Close()
}

// DecodeRecords reads a record table. Columns are matched by header name, in
// any order; unknown columns are ignored and missing optional columns are
// left empty. A leading byte order mark is accepted. Input with no header at
// all decodes to an empty slice.
func DecodeRecords(r io.Reader) ([]models.Record, error) {
	br := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(br)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []models.Record{}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	var missing []string
	for _, col := range models.RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaMismatchError{Missing: missing}
	}

	field := func(row []string, col string) string {
		if i, ok := index[col]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	records := []models.Record{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		lat, err := parseDegrees(field(row, models.ColumnLat))
		if err != nil {
			return nil, &RowError{Line: line, Column: models.ColumnLat, Err: err}
		}
		lon, err := parseDegrees(field(row, models.ColumnLon))
		if err != nil {
			return nil, &RowError{Line: line, Column: models.ColumnLon, Err: err}
		}

		records = append(records, models.Record{
			Date:      field(row, models.ColumnDate),
			Time:      field(row, models.ColumnTime),
			Lat:       lat,
			Lon:       lon,
			Species:   field(row, models.ColumnSpecies),
			Method:    canonicalMethod(field(row, models.ColumnMethod)),
			Collector: field(row, models.ColumnCollector),
			Notes:     field(row, models.ColumnNotes),
		})
	}
	return records, nil
}

// ValidateBatch checks every record of an externally supplied batch.
func ValidateBatch(records []models.Record) error {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return &RowError{Line: i + 2, Err: err}
		}
	}
	return nil
}

// Spelling variants of a known method decode to its canonical form; anything
// else is kept verbatim for ValidateBatch to reject.
func canonicalMethod(s string) models.Method {
	return models.ParseMethod(s, models.Method(s))
}

// An empty cell is how spreadsheet tools write a missing number; it decodes
// to the unset sentinel.
func parseDegrees(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return f, nil
}
