package reports

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

// table is a report body before encoding. JSON output is one object per row
// keyed by the CSV headers.
type table struct {
	headers []string
	rows    [][]string
}

func (t *table) add(row ...string) {
	t.rows = append(t.rows, row)
}

func (t *table) encode(format ReportFormat) (io.Reader, error) {
	buf := &bytes.Buffer{}
	switch format {
	case ReportFormatJSON:
		out := make([]map[string]string, 0, len(t.rows))
		for _, row := range t.rows {
			obj := make(map[string]string, len(t.headers))
			for i, h := range t.headers {
				obj[h] = row[i]
			}
			out = append(out, obj)
		}
		if err := json.NewEncoder(buf).Encode(out); err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}
	default:
		writer := csv.NewWriter(buf)
		if err := writer.Write(t.headers); err != nil {
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
		for _, row := range t.rows {
			if err := writer.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return nil, fmt.Errorf("failed to flush writer: %w", err)
		}
	}
	return buf, nil
}
