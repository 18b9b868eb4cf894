package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/intranet-portal-client/internal/models"
)

func TestExportDatasetUsesFilteredViewWithRowNumbers(t *testing.T) {
	c := NewController[models.Notice](WithPageSize(2))
	c.SetDataset(notices(6))
	c.ApplyFilter(FilterSpec{Keyword: "hr", Field: models.FieldDepartment})
	c.GoToPage(1)

	ds := ExportDataset(c, []Column[models.Notice]{
		FieldColumn[models.Notice]("Title", models.FieldTitle),
		{Header: "Views", Value: func(n models.Notice) string { return n.ID }},
	})

	assert.Equal(t, []string{"No", "Title", "Views"}, ds.Headers)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "1", ds.Rows[0]["No"])
	assert.Equal(t, "Notice 2", ds.Rows[0]["Title"])
	assert.Equal(t, "2", ds.Rows[1]["No"])
	assert.Equal(t, "n5", ds.Rows[1]["Views"])
}
