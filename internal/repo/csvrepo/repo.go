package csvrepo

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/milad/energycost/internal/domain"
	"github.com/milad/energycost/internal/repo"
)

// LoadFile seeds store with the readings of the CSV file at path and returns how many
// readings were stored.
//
// Parsing can be partially successful: usable rows are stored and the row errors are
// returned alongside the count, so callers may log them and carry on.
func LoadFile(ctx context.Context, path string, store repo.ReadingRepository) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open csv %q: %w", path, err)
	}
	defer f.Close()

	n, err := Load(ctx, f, store)
	if err != nil {
		return n, fmt.Errorf("load csv %q: %w", path, err)
	}
	return n, nil
}

// Load is LoadFile for an already opened reader.
func Load(ctx context.Context, r io.Reader, store repo.ReadingRepository) (int, error) {
	rows, parseErr := ParseReadingsCSV(r)
	if len(rows) == 0 && parseErr != nil {
		return 0, parseErr
	}

	// One append per meter keeps the number of store round trips small.
	var order []string
	byMeter := make(map[string][]domain.Reading)
	for _, row := range rows {
		if _, ok := byMeter[row.MeterID]; !ok {
			order = append(order, row.MeterID)
		}
		byMeter[row.MeterID] = append(byMeter[row.MeterID], row.Reading)
	}

	stored := 0
	for _, meterID := range order {
		if err := store.Append(ctx, meterID, byMeter[meterID]); err != nil {
			return stored, fmt.Errorf("append readings of %q: %w", meterID, err)
		}
		stored += len(byMeter[meterID])
	}
	return stored, parseErr
}
