package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// LoadNamesCSV reads the reference catalog from a CSV file. If a
// "standard_name" column exists its values are used; otherwise the first
// column is. Blank values are dropped.
func LoadNamesCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := 0
	for i, h := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(h), "standard_name") {
			col = i
			break
		}
	}

	var names []string
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[col])
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
