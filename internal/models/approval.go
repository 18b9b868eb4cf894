package models

// ApprovalStatus is the workflow state of an approval request.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
)

// Approval is a request routed to an approver.
type Approval struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Type            string         `json:"type"`
	Content         string         `json:"content"`
	Status          ApprovalStatus `json:"status"`
	RequesterID     string         `json:"requesterId"`
	RequesterName   string         `json:"requesterName"`
	DepartmentName  string         `json:"departmentName"`
	ApproverID      string         `json:"approverId,omitempty"`
	ApproverName    string         `json:"approverName,omitempty"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
	CreatedAt       Timestamp      `json:"createdAt"`
	ProcessedAt     Timestamp      `json:"processedAt"`
	AttachmentPayload
}

// RecordID implements Record.
func (a Approval) RecordID() string { return a.ID }

// Attachment implements AttachmentHolder.
func (a Approval) Attachment() AttachmentPayload { return a.AttachmentPayload }

// FieldValue implements Record.
func (a Approval) FieldValue(field string) string {
	switch field {
	case FieldTitle:
		return a.Title
	case FieldDepartment, "departmentName":
		return a.DepartmentName
	case FieldAuthor, "requesterName":
		return a.RequesterName
	case FieldStatus:
		return string(a.Status)
	case "type":
		return a.Type
	case "approverName":
		return a.ApproverName
	case "createdAt":
		return a.CreatedAt.Display()
	case "processedAt":
		return a.ProcessedAt.Display()
	}
	return ""
}

// CreateApprovalRequest is the payload for POST /approvals.
type CreateApprovalRequest struct {
	Title      string `json:"title" validate:"required,max=200"`
	Type       string `json:"type" validate:"required"`
	Content    string `json:"content" validate:"required"`
	ApproverID string `json:"approverId" validate:"required"`
	AttachmentPayload
}

// RejectRequest carries a rejection reason.
type RejectRequest struct {
	RejectionReason string `json:"rejectionReason" validate:"required"`
}
