package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampAcceptsISOVariants(t *testing.T) {
	cases := map[string]time.Time{
		`"2024-03-01T09:30:00Z"`:       time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		`"2024-03-01T09:30:00"`:        time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		`"2024-03-01T09:30:00.123456"`: time.Date(2024, 3, 1, 9, 30, 0, 123456000, time.UTC),
		`"2024-03-01 09:30:00"`:        time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		`"2024-03-01"`:                 time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		`1709285400000`:                time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)
		assert.True(t, want.Equal(ts.Time), raw)
	}
}

func TestTimestampNullAndGarbage(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))

	out, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestTimestampDisplay(t *testing.T) {
	assert.Equal(t, "2024-03-01", NewTimestamp(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)).Display())
	assert.Equal(t, "2024-03-01 09:30", NewTimestamp(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)).Display())
	assert.Equal(t, "", Timestamp{}.Display())
}

func TestHasAttachmentWithoutContent(t *testing.T) {
	var notice Notice
	require.NoError(t, json.Unmarshal([]byte(`{"id":"n1","title":"Policy","attachmentFilename":"policy.pdf","attachmentSize":2048}`), &notice))

	assert.True(t, notice.Attachment().HasAttachment())
	assert.False(t, notice.Attachment().ContentLoaded())
	assert.True(t, AttachmentPayload{SizeBytes: 1}.HasAttachment())
	assert.False(t, AttachmentPayload{}.HasAttachment())
}

func TestFieldValueLogicalNames(t *testing.T) {
	approval := Approval{Title: "Laptop", DepartmentName: "IT", RequesterName: "Dana", Status: ApprovalStatusPending}
	assert.Equal(t, "Laptop", approval.FieldValue(FieldTitle))
	assert.Equal(t, "IT", approval.FieldValue(FieldDepartment))
	assert.Equal(t, "Dana", approval.FieldValue(FieldAuthor))
	assert.Equal(t, "PENDING", approval.FieldValue(FieldStatus))
	assert.Equal(t, "", approval.FieldValue("nope"))
}
