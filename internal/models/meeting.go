package models

// Meeting is a scheduled meeting with optional minutes attachment.
type Meeting struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	OrganizerID    string    `json:"organizerId"`
	OrganizerName  string    `json:"organizerName"`
	DepartmentName string    `json:"departmentName"`
	StartTime      Timestamp `json:"startTime"`
	EndTime        Timestamp `json:"endTime"`
	Participants   []string  `json:"participants,omitempty"`
	AttachmentPayload
}

func (m Meeting) RecordID() string              { return m.ID }
func (m Meeting) Attachment() AttachmentPayload { return m.AttachmentPayload }

func (m Meeting) FieldValue(field string) string {
	switch field {
	case FieldTitle:
		return m.Title
	case FieldDepartment, "departmentName":
		return m.DepartmentName
	case FieldAuthor, "organizerName":
		return m.OrganizerName
	case "location":
		return m.Location
	case "startTime":
		return m.StartTime.Display()
	case "endTime":
		return m.EndTime.Display()
	}
	return ""
}

// MeetingRequest is the create/update payload.
type MeetingRequest struct {
	Title        string    `json:"title" validate:"required,max=200"`
	Description  string    `json:"description"`
	Location     string    `json:"location" validate:"required"`
	StartTime    Timestamp `json:"startTime" validate:"required"`
	EndTime      Timestamp `json:"endTime" validate:"required"`
	Participants []string  `json:"participants"`
	AttachmentPayload
}
