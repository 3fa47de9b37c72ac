package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a raw CSV export: the header row plus data rows padded to the
// header width.
type Table struct {
	Headers []string
	Rows    [][]string
}

// DecodeCSV returns the input as UTF-8 text. Input that is not valid UTF-8 is
// re-decoded as Latin-1.
func DecodeCSV(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode latin-1 input: %w", err)
	}
	return decoded, nil
}

// ReadTable decodes and parses a CSV export. The first record is the header.
func ReadTable(data []byte) (*Table, error) {
	text, err := DecodeCSV(data)
	if err != nil {
		return nil, newSchemaError("Could not decode CSV input", err)
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, newSchemaError("CSV input is empty", nil)
	}
	if err != nil {
		return nil, newSchemaError("Could not read CSV header", err)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, newSchemaError("Could not read CSV rows", err)
	}

	table := &Table{
		Headers: headers,
		Rows:    make([][]string, 0, len(records)),
	}
	for _, record := range records {
		table.Rows = append(table.Rows, fitRow(record, len(headers)))
	}
	return table, nil
}

// fitRow pads short rows with empty cells and drops cells past the header width
func fitRow(record []string, width int) []string {
	if len(record) == width {
		return record
	}
	row := make([]string, width)
	copy(row, record)
	return row
}
