package models

// LoginRequest holds credentials for POST /auth/login.
type LoginRequest struct {
	EmployeeCode string `json:"employeeCode" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token        string `json:"token"`
	EmployeeCode string `json:"employeeCode"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	FirstLogin   bool   `json:"firstLogin"`
	UserID       string `json:"userId"`
	DepartmentID string `json:"departmentId"`
}

// ChangePasswordRequest updates the signed-in user's password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,nefield=OldPassword"`
}
