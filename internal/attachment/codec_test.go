package attachment

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/intranet-portal-client/internal/models"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data := []byte("minutes of the weekly sync\n")
	encoded := Encode(data)
	assert.NotContains(t, encoded, "\n")

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode("not*base64!")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrEncoding))
	assert.Equal(t, "attachment content unavailable", appErrors.UserMessage(err))
}

func TestFormatSize(t *testing.T) {
	cases := map[int64]string{
		0:                  "0 B",
		1023:               "1023 B",
		1024:               "1.0 KB",
		1536:               "1.5 KB",
		1048576:            "1.0 MB",
		5 * 1024 * 1024:    "5.0 MB",
		1073741824:         "1.0 GB",
		1099511627776 * 2:  "2.0 TB",
		1024*1024*1024 - 1: "1024.0 MB",
	}
	for size, want := range cases {
		assert.Equal(t, want, FormatSize(size), "size %d", size)
	}
}

func TestInferContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", InferContentType("report.PDF"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", InferContentType("a.docx"))
	assert.Equal(t, "image/jpeg", InferContentType("photo.jpeg"))
	assert.Equal(t, "text/plain", InferContentType("notes.txt"))
	assert.Equal(t, "application/octet-stream", InferContentType("archive.7z"))
	assert.Equal(t, "application/octet-stream", InferContentType("noext"))
}

func TestDetectContentTypeSniffsUnknownExtension(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	assert.Equal(t, "image/png", DetectContentType("upload.bin", png))
	assert.Equal(t, "application/pdf", DetectContentType("x.pdf", nil))
	assert.Equal(t, "application/octet-stream", DetectContentType("x.bin", nil))
}

func TestFromFileAndContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leave-form.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	payload, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "leave-form.txt", payload.Filename)
	assert.Equal(t, "text/plain", payload.ContentType)
	assert.Equal(t, int64(5), payload.SizeBytes)

	content, err := Content(payload)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	_, err = Content(models.AttachmentPayload{Filename: "lazy.pdf", SizeBytes: 10})
	assert.True(t, errors.Is(err, appErrors.ErrEncoding))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "", Describe(models.AttachmentPayload{}))
	assert.Equal(t, "plan.pdf (2.0 KB)", Describe(models.AttachmentPayload{Filename: "plan.pdf", SizeBytes: 2048}))
	assert.Equal(t, "attachment (10 B)", Describe(models.AttachmentPayload{SizeBytes: 10}))
}
