package listview

import (
	"strconv"

	"github.com/noah-isme/intranet-portal-client/internal/models"
	"github.com/noah-isme/intranet-portal-client/pkg/export"
)

// Column maps a record to one exported cell.
type Column[T models.Record] struct {
	Header string
	Value  func(T) string
}

// FieldColumn exports a named record field.
func FieldColumn[T models.Record](header, field string) Column[T] {
	return Column[T]{Header: header, Value: func(r T) string { return r.FieldValue(field) }}
}

// ExportDataset renders the whole filtered view, prefixed with the same
// continuous row numbers the table shows.
func ExportDataset[T models.Record](ctrl *Controller[T], columns []Column[T]) export.Dataset {
	headers := make([]string, 0, len(columns)+1)
	headers = append(headers, "No")
	for _, col := range columns {
		headers = append(headers, col.Header)
	}

	filtered := ctrl.Filtered()
	rows := make([]map[string]string, 0, len(filtered))
	for i, record := range filtered {
		row := make(map[string]string, len(columns)+1)
		row["No"] = strconv.Itoa(i + 1)
		for _, col := range columns {
			row[col.Header] = col.Value(record)
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
