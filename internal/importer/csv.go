package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// RawRecord is one parsed CSV data row keyed by header.
type RawRecord struct {
	// Index is the 1-based row number as a user sees it in the file, with
	// the header on line 1 (the first data row is index 2). It is the single
	// identifier threaded through validation and commit failure reports.
	Index int               `json:"index"`
	Cells map[string]string `json:"raw"`
}

// ParseResult bundles the header row with the parsed data rows.
type ParseResult struct {
	Headers []string
	Rows    []RawRecord
}

// ParseRecords decodes CSV text into header-keyed records. Quoted fields may
// contain commas, newlines and doubled quotes. Rows shorter than the header
// are padded with empty cells; extra trailing cells are dropped. Each row's
// index is the physical line it starts on, so blank lines and excluded
// all-empty rows never shift the indexes a user sees in their editor.
func ParseRecords(text string) (*ParseResult, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	type parsedLine struct {
		line  int
		cells []string
	}

	var records []parsedLine
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, parsedLine{line: line, cells: record})
	}

	result := &ParseResult{}
	if len(records) == 0 {
		return result, nil
	}

	result.Headers = make([]string, len(records[0].cells))
	for i, header := range records[0].cells {
		result.Headers[i] = strings.TrimSpace(header)
	}

	for _, record := range records[1:] {
		row := RawRecord{Index: record.line, Cells: make(map[string]string, len(result.Headers))}
		empty := true
		for col, header := range result.Headers {
			value := ""
			if col < len(record.cells) {
				value = strings.TrimSpace(record.cells[col])
			}
			if value != "" {
				empty = false
			}
			row.Cells[header] = value
		}
		if empty {
			continue
		}
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}
