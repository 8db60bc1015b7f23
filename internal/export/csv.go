package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/University-Of-Livingstonia/EMS-sub000/internal/domain"
)

// CSV renders the report's primary entity as a UTF-8, comma-separated table
// with a mandatory header row.
func CSV(report domain.Report) ([]byte, error) {
	table := PrimaryTable(report)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(table.Headers); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
