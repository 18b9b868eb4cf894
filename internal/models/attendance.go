package models

// Attendance is one employee work day.
type Attendance struct {
	ID             string    `json:"id"`
	EmployeeID     string    `json:"employeeId"`
	EmployeeName   string    `json:"employeeName"`
	DepartmentName string    `json:"departmentName"`
	WorkDate       Timestamp `json:"workDate"`
	CheckIn        Timestamp `json:"checkIn"`
	CheckOut       Timestamp `json:"checkOut"`
	Status         string    `json:"status"`
	Note           string    `json:"note,omitempty"`
}

func (a Attendance) RecordID() string { return a.ID }

func (a Attendance) FieldValue(field string) string {
	switch field {
	case FieldTitle, "workDate":
		return a.WorkDate.Display()
	case FieldDepartment, "departmentName":
		return a.DepartmentName
	case FieldAuthor, "employeeName":
		return a.EmployeeName
	case FieldStatus:
		return a.Status
	case "checkIn":
		return a.CheckIn.Display()
	case "checkOut":
		return a.CheckOut.Display()
	}
	return ""
}

// CheckRequest is sent on check-in and check-out.
type CheckRequest struct {
	Note string `json:"note,omitempty"`
}
