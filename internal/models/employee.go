package models

// Employee is a staff directory entry.
type Employee struct {
	ID             string    `json:"id"`
	EmployeeCode   string    `json:"employeeCode"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	DepartmentID   string    `json:"departmentId"`
	DepartmentName string    `json:"departmentName"`
	Position       string    `json:"position"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	HireDate       Timestamp `json:"hireDate"`
}

func (e Employee) RecordID() string { return e.ID }

func (e Employee) FieldValue(field string) string {
	switch field {
	case FieldTitle, "name":
		return e.Name
	case FieldDepartment, "departmentName":
		return e.DepartmentName
	case FieldAuthor, "employeeCode":
		return e.EmployeeCode
	case FieldStatus:
		return e.Status
	case "email":
		return e.Email
	case "position":
		return e.Position
	case "role":
		return e.Role
	case "hireDate":
		return e.HireDate.Display()
	}
	return ""
}

// EmployeeRequest is the create/update payload.
type EmployeeRequest struct {
	EmployeeCode string    `json:"employeeCode" validate:"required"`
	Name         string    `json:"name" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	Phone        string    `json:"phone"`
	DepartmentID string    `json:"departmentId" validate:"required"`
	Position     string    `json:"position"`
	Role         string    `json:"role" validate:"required"`
	HireDate     Timestamp `json:"hireDate"`
}
