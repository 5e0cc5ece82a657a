package csvrepo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/milad/energycost/internal/domain"
)

const (
	timeLayout = "2006-01-02 15:04:05"
)

// Row is one parsed CSV line: a reading attributed to a smart meter.
type Row struct {
	MeterID string
	Reading domain.Reading
}

// ParseReadingsCSV parses meter readings from the provided CSV reader.
//
// Expected header: meter_id,time,reading
//
// Times are parsed using layout "2006-01-02 15:04:05" interpreted as UTC, or RFC3339.
// Readings must be finite, non-negative decimals.
// Invalid rows are skipped and returned as a joined error (errors.Join).
func ParseReadingsCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // be permissive; validate ourselves
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 3 ||
		strings.ToLower(strings.TrimSpace(header[0])) != "meter_id" ||
		strings.ToLower(strings.TrimSpace(header[1])) != "time" ||
		strings.ToLower(strings.TrimSpace(header[2])) != "reading" {
		return nil, fmt.Errorf("unexpected header %q (want %q)", strings.Join(header, ","), "meter_id,time,reading")
	}

	var (
		rows    []Row
		rowErrs []error
		rowNum  = 1 // header
	)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: read: %w", rowNum, err))
			continue
		}
		if len(row) < 3 {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: expected 3 columns, got %d", rowNum, len(row)))
			continue
		}

		meterID := strings.TrimSpace(row[0])
		if meterID == "" {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: empty meter_id", rowNum))
			continue
		}

		t, err := parseTime(strings.TrimSpace(row[1]))
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: parse time %q: %w", rowNum, row[1], err))
			continue
		}

		amount, err := domain.NewDecimal(strings.TrimSpace(row[2]))
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: parse reading: %w", rowNum, err))
			continue
		}
		if amount.Sign() < 0 {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: negative reading %s", rowNum, amount))
			continue
		}

		rows = append(rows, Row{
			MeterID: meterID,
			Reading: domain.Reading{Time: t, Amount: amount},
		})
	}

	// Ensure we return stable, non-nil slice.
	if rows == nil {
		rows = []Row{}
	}
	return rows, errors.Join(rowErrs...)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err == nil {
		return t, nil
	}
	if t2, err2 := time.Parse(time.RFC3339Nano, s); err2 == nil {
		return t2.UTC(), nil
	}
	return time.Time{}, err
}
