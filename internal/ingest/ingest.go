// Package ingest adapts uploaded files and pasted payloads to the
// normalizer's tagged input variants. It owns format detection and
// spreadsheet decoding; no tabular semantics live here.
package ingest

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/mergetab/mergetab/internal/normalize"
)

// Format is a detected upload format.
type Format int

const (
	FormatDelimited Format = iota // plain delimited text, sniffed like a paste
	FormatCSV
	FormatJSON
	FormatXLSX
)

// zipMagic is the local-file-header signature XLSX archives start with.
var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// DetectFormat picks an upload format from the file extension, falling back
// to a content sniff when the extension is missing or unknown.
func DetectFormat(fileName string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	case ".xlsx", ".xlsm":
		return FormatXLSX
	}

	if bytes.HasPrefix(data, zipMagic) {
		return FormatXLSX
	}
	if strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		return FormatJSON
	}
	return FormatDelimited
}

// ReadFile maps an uploaded file to a normalizer input. XLSX uploads are
// decoded to a grid here; sheet selects a worksheet by name, with the first
// sheet used when empty.
func ReadFile(fileName string, data []byte, sheet string) (normalize.Input, error) {
	switch DetectFormat(fileName, data) {
	case FormatXLSX:
		grid, err := ReadXLSX(data, sheet)
		if err != nil {
			return normalize.Input{}, err
		}
		return normalize.Grid(grid), nil
	case FormatJSON:
		return normalize.JSON(string(data)), nil
	case FormatCSV:
		return normalize.CSV(string(data)), nil
	default:
		return normalize.Pasted(string(data)), nil
	}
}
