// Package attachment encodes file payloads carried by approvals, meetings and notices.
package attachment

import (
	"encoding/base64"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/noah-isme/intranet-portal-client/internal/models"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
)

const defaultContentType = "application/octet-stream"

var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"txt":  "text/plain",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

// Encode returns standard base64 without line wrapping.
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode reverses Encode. Invalid input yields ENCODING_ERROR, which callers
// treat as "content unavailable" for that record only.
func Decode(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrEncoding.Code, appErrors.ErrEncoding.Status, appErrors.ErrEncoding.Message)
	}
	return data, nil
}

// FormatSize renders a byte count with a 1024-based unit, e.g. "512 B", "1.5 KB".
func FormatSize(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}
	const units = "KMGTPE"
	exp := int(math.Log(float64(size)) / math.Log(1024))
	// float rounding can land just below an exact power
	for exp < len(units) && float64(size) >= math.Pow(1024, float64(exp+1)) {
		exp++
	}
	if exp > len(units) {
		exp = len(units)
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/math.Pow(1024, float64(exp)), units[exp-1])
}

// InferContentType maps a filename extension to a MIME type.
func InferContentType(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return defaultContentType
}

// DetectContentType uses the extension table and falls back to sniffing data.
func DetectContentType(filename string, data []byte) string {
	if ct := InferContentType(filename); ct != defaultContentType {
		return ct
	}
	if len(data) == 0 {
		return defaultContentType
	}
	return mimetype.Detect(data).String()
}

// FromBytes builds a payload ready to send.
func FromBytes(filename string, data []byte) models.AttachmentPayload {
	content := Encode(data)
	return models.AttachmentPayload{
		Filename:      filepath.Base(filename),
		ContentType:   DetectContentType(filename, data),
		SizeBytes:     int64(len(data)),
		Base64Content: &content,
	}
}

// FromFile reads path into a payload.
func FromFile(path string) (models.AttachmentPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.AttachmentPayload{}, fmt.Errorf("read attachment: %w", err)
	}
	return FromBytes(path, data), nil
}

// Content decodes the payload's content. A payload whose content was not
// loaded reports ENCODING_ERROR as well.
func Content(p models.AttachmentPayload) ([]byte, error) {
	if !p.ContentLoaded() {
		return nil, appErrors.Clone(appErrors.ErrEncoding, "attachment content not loaded")
	}
	return Decode(*p.Base64Content)
}

// Describe renders "name (size)" for list cells; empty when there is no attachment.
func Describe(p models.AttachmentPayload) string {
	if !p.HasAttachment() {
		return ""
	}
	name := p.Filename
	if name == "" {
		name = "attachment"
	}
	if p.SizeBytes > 0 {
		return fmt.Sprintf("%s (%s)", name, FormatSize(p.SizeBytes))
	}
	return name
}
