package menu

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// Parser turns header-delimited CSV into normalized rows. The first record
// holds the field names; every key is case-folded once here so lookups
// downstream are case-insensitive regardless of how the sheet author
// capitalized the columns.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Run(data []byte) ([]Row, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = foldKey(strings.TrimSpace(name))
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(header))
		for i, key := range header {
			if key == "" || i >= len(record) {
				continue
			}
			if value := strings.TrimSpace(record[i]); value != "" {
				row[key] = value
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
