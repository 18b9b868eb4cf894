package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"No", "Title", "Department"},
		Rows: []map[string]string{
			{"No": "1", "Title": "Budget review", "Department": "Finance"},
			{"No": "2", "Title": "Onboarding, week 1", "Department": "HR"},
		},
	}
}

func TestCSVRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset(), "ignored")
	require.NoError(t, err)
	assert.Equal(t, "No,Title,Department\n1,Budget review,Finance\n2,\"Onboarding, week 1\",HR\n", string(out))
}

func TestPDFRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Notices")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset(), "Notices")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(xlsxSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Notices", title)
	header, err := f.GetCellValue(xlsxSheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Title", header)
	value, err := f.GetCellValue(xlsxSheet, "C5")
	require.NoError(t, err)
	assert.Equal(t, "HR", value)
}

func TestRenderersRequireHeaders(t *testing.T) {
	for _, format := range []string{"csv", "pdf", "xlsx"} {
		r, err := ForFormat(format)
		require.NoError(t, err)
		_, err = r.Render(Dataset{}, "")
		assert.Error(t, err, format)
	}
}

func TestForFormat(t *testing.T) {
	r, err := ForFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, "xlsx", r.Extension())

	_, err = ForFormat("docx")
	assert.Error(t, err)
}

func TestColumnWidthsReserveRowNumber(t *testing.T) {
	widths := columnWidths([]string{"No", "A", "B"}, 190)
	assert.Equal(t, rowNumberWidth, widths[0])
	assert.InDelta(t, (190-rowNumberWidth)/2, widths[1], 0.001)
}
