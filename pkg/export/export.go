package export

import (
	"fmt"
	"strings"
)

// Dataset defines tabular export content. Rows are keyed by header.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// Renderer produces a document from a dataset.
type Renderer interface {
	Render(data Dataset, title string) ([]byte, error)
	Extension() string
	ContentType() string
}

// ForFormat resolves csv, pdf or xlsx.
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return NewCSVExporter(), nil
	case "pdf":
		return NewPDFExporter(), nil
	case "xlsx", "excel":
		return NewXLSXExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func rowValues(data Dataset, row map[string]string) []string {
	record := make([]string, len(data.Headers))
	for i, header := range data.Headers {
		record[i] = row[header]
	}
	return record
}
