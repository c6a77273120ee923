// Package dataset fetches and parses the vehicle-specification table the
// fleet is synthesized from. The source is external: a CSV resource with a
// header row, reachable over HTTP or on the local filesystem.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"dashfleet/internal/models"
)

type Loader struct {
	source string
	client *http.Client
}

func NewLoader(source string) *Loader {
	return &Loader{
		source: source,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Source returns the configured dataset location.
func (l *Loader) Source() string {
	return l.source
}

// Load fetches the dataset and parses it into row records. A single attempt,
// no retries; the caller decides how to degrade on failure.
func (l *Loader) Load(ctx context.Context) ([]models.RawRecord, error) {
	reader, err := l.open(ctx)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	rows, err := Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", l.source, err)
	}
	return rows, nil
}

func (l *Loader) open(ctx context.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build dataset request: %w", err)
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch dataset %s: %w", l.source, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("dataset fetch returned status %d for %s", resp.StatusCode, l.source)
		}
		return resp.Body, nil
	}

	f, err := os.Open(l.source)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", l.source, err)
	}
	return f, nil
}

// Parse reads header-first CSV from r into column-name-to-value records.
// Blank cells are left out of the map so missing and empty read the same.
// Rows shorter or longer than the header are tolerated; extra cells are
// dropped.
func Parse(r io.Reader) ([]models.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []models.RawRecord
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+2, err)
		}

		row := make(models.RawRecord, len(header))
		for i, col := range header {
			if col == "" || i >= len(record) {
				continue
			}
			if cell := strings.TrimSpace(record[i]); cell != "" {
				row[col] = cell
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
