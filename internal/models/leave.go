package models

// LeaveRequest is an absence request awaiting or past approval.
type LeaveRequest struct {
	ID              string         `json:"id"`
	EmployeeID      string         `json:"employeeId"`
	EmployeeName    string         `json:"employeeName"`
	DepartmentName  string         `json:"departmentName"`
	LeaveType       string         `json:"leaveType"`
	StartDate       Timestamp      `json:"startDate"`
	EndDate         Timestamp      `json:"endDate"`
	Days            float64        `json:"days"`
	Reason          string         `json:"reason"`
	Status          ApprovalStatus `json:"status"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
	CreatedAt       Timestamp      `json:"createdAt"`
}

func (l LeaveRequest) RecordID() string { return l.ID }

func (l LeaveRequest) FieldValue(field string) string {
	switch field {
	case FieldTitle, "leaveType":
		return l.LeaveType
	case FieldDepartment, "departmentName":
		return l.DepartmentName
	case FieldAuthor, "employeeName":
		return l.EmployeeName
	case FieldStatus:
		return string(l.Status)
	case "reason":
		return l.Reason
	case "startDate":
		return l.StartDate.Display()
	case "endDate":
		return l.EndDate.Display()
	}
	return ""
}

// CreateLeaveRequest is the payload for POST /leave.
type CreateLeaveRequest struct {
	LeaveType string    `json:"leaveType" validate:"required"`
	StartDate Timestamp `json:"startDate" validate:"required"`
	EndDate   Timestamp `json:"endDate" validate:"required"`
	Reason    string    `json:"reason" validate:"required"`
}
