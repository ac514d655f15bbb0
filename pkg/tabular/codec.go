// Package tabular writes the flat event export next to the rendered report:
// CSV for spreadsheets, JSON for tooling and an optional SQLite table.
package tabular

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sumatoshi-tech/yearcal/pkg/listing"
)

// File extensions for supported codecs.
const (
	csvExtension  = ".csv"
	jsonExtension = ".json"
)

// Default indentation for pretty-printed JSON.
const defaultIndent = "  "

// utf8BOM marks CSV files as UTF-8 for spreadsheet applications.
const utf8BOM = "\xEF\xBB\xBF"

// Header is the first CSV record.
var Header = []string{"Date", "Event"}

// Codec defines how export rows are serialized.
type Codec interface {
	// Encode writes the rows to the writer.
	Encode(w io.Writer, rows []listing.Row) error
	// Extension returns the file extension for this codec (e.g., ".csv").
	Extension() string
}

// CSVCodec writes a UTF-8 CSV with a byte order mark and a Date,Event header.
type CSVCodec struct{}

// NewCSVCodec creates a CSV codec.
func NewCSVCodec() *CSVCodec {
	return &CSVCodec{}
}

// Encode implements Codec.Encode.
func (c *CSVCodec) Encode(w io.Writer, rows []listing.Row) error {
	return WriteCSV(w, rows)
}

// Extension implements Codec.Extension for CSV files.
func (c *CSVCodec) Extension() string {
	return csvExtension
}

// WriteCSV writes rows as CSV preceded by the UTF-8 byte order mark. Titles
// are written in full; fields are quoted only when needed.
func WriteCSV(w io.Writer, rows []listing.Row) error {
	_, err := io.WriteString(w, utf8BOM)
	if err != nil {
		return fmt.Errorf("csv write: %w", err)
	}

	cw := csv.NewWriter(w)

	err = cw.Write(Header)
	if err != nil {
		return fmt.Errorf("csv write header: %w", err)
	}

	for _, row := range rows {
		err = cw.Write([]string{row.Date, row.Title})
		if err != nil {
			return fmt.Errorf("csv write row: %w", err)
		}
	}

	cw.Flush()

	err = cw.Error()
	if err != nil {
		return fmt.Errorf("csv flush: %w", err)
	}

	return nil
}

// JSONCodec writes rows as a JSON array with optional indentation.
type JSONCodec struct {
	// Indent specifies the indentation string. Empty string means compact JSON.
	Indent string
}

// NewJSONCodec creates a JSON codec with pretty-printing (2-space indent).
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: defaultIndent}
}

type jsonRow struct {
	Date  string `json:"date"`
	Title string `json:"title"`
}

// Encode implements Codec.Encode using JSON encoding.
func (c *JSONCodec) Encode(w io.Writer, rows []listing.Row) error {
	out := make([]jsonRow, len(rows))
	for i, row := range rows {
		out[i] = jsonRow(row)
	}

	encoder := json.NewEncoder(w)
	if c.Indent != "" {
		encoder.SetIndent("", c.Indent)
	}

	err := encoder.Encode(out)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for JSON files.
func (c *JSONCodec) Extension() string {
	return jsonExtension
}

// PathFor returns output with its extension replaced by ext.
func PathFor(output, ext string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ext
}

// CSVPath returns the CSV export path for a report written to output.
func CSVPath(output string) string {
	return PathFor(output, csvExtension)
}

// SaveRows writes rows next to output using codec and returns the path
// written.
func SaveRows(output string, codec Codec, rows []listing.Row) (string, error) {
	path := PathFor(output, codec.Extension())

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}

	err = codec.Encode(file, rows)
	if err != nil {
		file.Close()

		return "", fmt.Errorf("encode export: %w", err)
	}

	err = file.Close()
	if err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}

	return path, nil
}
