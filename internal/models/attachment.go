package models

// AttachmentPayload is the optional file carried by approvals, meetings and
// notices. Content may be absent when the server only sends metadata; it is
// then fetched lazily.
type AttachmentPayload struct {
	Filename      string  `json:"attachmentFilename,omitempty"`
	ContentType   string  `json:"attachmentContentType,omitempty"`
	SizeBytes     int64   `json:"attachmentSize,omitempty"`
	Base64Content *string `json:"attachmentContent,omitempty"`
}

// HasAttachment reports whether the record references a file, even when the
// content itself has not been loaded.
func (a AttachmentPayload) HasAttachment() bool {
	return a.SizeBytes > 0 || a.Filename != ""
}

// ContentLoaded reports whether base64 content is present.
func (a AttachmentPayload) ContentLoaded() bool {
	return a.Base64Content != nil && *a.Base64Content != ""
}

// AttachmentHolder is implemented by records that may carry a file.
type AttachmentHolder interface {
	Attachment() AttachmentPayload
}
