// csv_loader.go
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
)

const SEPARATOR = ','

// LoadCSV reads a line list into a Dataset. The first row is sniffed for
// headers; if it looks like data instead, column names are generated and the
// row is kept. Rows with an empty first cell are skipped the way the source
// application drops trailing spreadsheet junk.
func LoadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = SEPARATOR
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	firstRow, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read input header: %w", err)
	}
	analysis := AnalyzeHeaders(firstRow)
	if analysis == nil {
		return nil, fmt.Errorf("empty input header row")
	}

	ds := NewDataset(analysis.Headers)
	if analysis.FirstRowIsData {
		appendRow(ds, analysis.FirstDataRow)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot parse csv record: %w", err)
		}
		if len(record) == 0 || record[0] == "" {
			continue
		}
		appendRow(ds, record)
	}
	log.Printf("loaded %d data rows, %d columns", len(ds.Rows), len(ds.Columns))
	return ds, nil
}

func appendRow(ds *Dataset, record []string) {
	row := make(map[string]interface{}, len(ds.Columns))
	for i, col := range ds.Columns {
		if i >= len(record) || record[i] == "" {
			row[col] = nil
			continue
		}
		row[col] = record[i]
	}
	ds.Rows = append(ds.Rows, row)
}
