package models

// Notice is a bulletin-board post.
type Notice struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	AuthorID       string    `json:"authorId"`
	AuthorName     string    `json:"authorName"`
	DepartmentName string    `json:"departmentName"`
	IsImportant    bool      `json:"isImportant"`
	ViewCount      int       `json:"viewCount"`
	CreatedAt      Timestamp `json:"createdAt"`
	UpdatedAt      Timestamp `json:"updatedAt"`
	AttachmentPayload
}

func (n Notice) RecordID() string              { return n.ID }
func (n Notice) Attachment() AttachmentPayload { return n.AttachmentPayload }

func (n Notice) FieldValue(field string) string {
	switch field {
	case FieldTitle:
		return n.Title
	case FieldDepartment, "departmentName":
		return n.DepartmentName
	case FieldAuthor, "authorName":
		return n.AuthorName
	case "content":
		return n.Content
	case "isImportant":
		return boolText(n.IsImportant)
	case "createdAt":
		return n.CreatedAt.Display()
	}
	return ""
}

// NoticeRequest is the create/update payload.
type NoticeRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Content     string `json:"content" validate:"required"`
	IsImportant bool   `json:"isImportant"`
	AttachmentPayload
}

// NoticeFilter maps onto GET /notices/filter.
type NoticeFilter struct {
	Department  string
	IsImportant *bool
	Page        int
	Size        int
}
