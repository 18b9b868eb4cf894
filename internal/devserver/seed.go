package devserver

import (
	"time"

	"github.com/noah-isme/intranet-portal-client/internal/attachment"
	"github.com/noah-isme/intranet-portal-client/internal/models"
)

const (
	RoleAdmin    = "ADMIN"
	RoleManager  = "MANAGER"
	RoleEmployee = "EMPLOYEE"

	// SeedPassword is the password of every seeded account.
	SeedPassword = "password123"
)

// Seeded account ids, stable across runs.
const (
	AdminID   = "u-rina"
	FinMgrID  = "u-budi"
	FinEmpID  = "u-dewi"
	HREmpID   = "u-agus"
	HRMgrID   = "u-sari"
	financeID = "d-fin"
	hrID      = "d-hr"
	itID      = "d-it"
)

// Seed returns a store populated with demo departments, accounts and a few
// records of every kind, dated relative to now.
func Seed(now time.Time) (*Store, error) {
	s := NewStore()
	s.AddDepartment(financeID, "Finance")
	s.AddDepartment(hrID, "Human Resources")
	s.AddDepartment(itID, "IT")

	hash, err := HashPassword(SeedPassword)
	if err != nil {
		return nil, err
	}
	hired := models.NewTimestamp(time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC))
	people := []struct {
		id, code, name, dept, position, role string
		firstLogin                           bool
	}{
		{AdminID, "EMP001", "Rina Wijaya", itID, "System Administrator", RoleAdmin, false},
		{FinMgrID, "EMP002", "Budi Santoso", financeID, "Finance Manager", RoleManager, false},
		{FinEmpID, "EMP003", "Dewi Lestari", financeID, "Accountant", RoleEmployee, true},
		{HREmpID, "EMP004", "Agus Pratama", hrID, "Recruiter", RoleEmployee, false},
		{HRMgrID, "EMP005", "Sari Hidayat", hrID, "HR Manager", RoleManager, false},
	}
	accounts := map[string]models.Employee{}
	for _, p := range people {
		accounts[p.id] = s.AddAccount(models.Employee{
			ID:           p.id,
			EmployeeCode: p.code,
			Name:         p.name,
			Email:        p.code + "@portal.local",
			DepartmentID: p.dept,
			Position:     p.position,
			Role:         p.role,
			Status:       "ACTIVE",
			HireDate:     hired,
		}, hash, p.firstLogin)
	}

	day := func(offset int) models.Timestamp { return models.NewTimestamp(now.AddDate(0, 0, offset)) }

	quote := attachment.FromBytes("laptop-quote.pdf", []byte("%PDF-1.4 sandbox quote"))
	s.PutApproval(models.Approval{
		ID: "ap-1", Title: "Laptop purchase", Type: "PURCHASE", Content: "Replacement laptop for month-end close",
		Status: models.ApprovalStatusPending, RequesterID: FinEmpID, RequesterName: accounts[FinEmpID].Name,
		DepartmentName: accounts[FinEmpID].DepartmentName, ApproverID: FinMgrID, ApproverName: accounts[FinMgrID].Name,
		CreatedAt: day(-2), AttachmentPayload: quote,
	})
	s.PutApproval(models.Approval{
		ID: "ap-2", Title: "Training budget", Type: "BUDGET", Content: "Interview skills workshop",
		Status: models.ApprovalStatusApproved, RequesterID: HREmpID, RequesterName: accounts[HREmpID].Name,
		DepartmentName: accounts[HREmpID].DepartmentName, ApproverID: HRMgrID, ApproverName: accounts[HRMgrID].Name,
		CreatedAt: day(-9), ProcessedAt: day(-8),
	})

	minutes := attachment.FromBytes("q3-minutes.txt", []byte("Q3 planning minutes"))
	s.PutMeeting(models.Meeting{
		ID: "mt-1", Title: "Q3 planning", Description: "Quarterly targets", Location: "Room 2A",
		OrganizerID: FinMgrID, OrganizerName: accounts[FinMgrID].Name, DepartmentName: accounts[FinMgrID].DepartmentName,
		StartTime: day(1), EndTime: models.NewTimestamp(now.AddDate(0, 0, 1).Add(time.Hour)),
		Participants: []string{FinEmpID}, AttachmentPayload: minutes,
	})
	s.PutMeeting(models.Meeting{
		ID: "mt-2", Title: "Hiring sync", Location: "Online",
		OrganizerID: HRMgrID, OrganizerName: accounts[HRMgrID].Name, DepartmentName: accounts[HRMgrID].DepartmentName,
		StartTime: day(3), EndTime: models.NewTimestamp(now.AddDate(0, 0, 3).Add(30 * time.Minute)),
	})

	policy := attachment.FromBytes("leave-policy.txt", []byte("Annual leave policy 2024"))
	notices := []models.Notice{
		{ID: "nt-1", Title: "Office closed on Friday", Content: "Building maintenance", AuthorID: AdminID, AuthorName: accounts[AdminID].Name, DepartmentName: accounts[AdminID].DepartmentName, IsImportant: true, CreatedAt: day(-1)},
		{ID: "nt-2", Title: "Updated leave policy", Content: "See attachment", AuthorID: HRMgrID, AuthorName: accounts[HRMgrID].Name, DepartmentName: accounts[HRMgrID].DepartmentName, CreatedAt: day(-3), AttachmentPayload: policy},
		{ID: "nt-3", Title: "Expense report deadline", Content: "Submit by the 25th", AuthorID: FinMgrID, AuthorName: accounts[FinMgrID].Name, DepartmentName: accounts[FinMgrID].DepartmentName, CreatedAt: day(-5)},
	}
	for _, n := range notices {
		n.UpdatedAt = n.CreatedAt
		s.PutNotice(n)
	}

	s.PutLeave(models.LeaveRequest{
		ID: "lv-1", EmployeeID: FinEmpID, EmployeeName: accounts[FinEmpID].Name, DepartmentName: accounts[FinEmpID].DepartmentName,
		LeaveType: "ANNUAL", StartDate: day(7), EndDate: day(8), Days: 2, Reason: "Family event",
		Status: models.ApprovalStatusPending, CreatedAt: day(-1),
	})

	s.PutMessage(models.Message{
		ID: "ms-1", SenderID: FinMgrID, SenderName: accounts[FinMgrID].Name, ReceiverID: FinEmpID, ReceiverName: accounts[FinEmpID].Name,
		Title: "Welcome aboard", Content: "Let me know if you need anything.", SentAt: day(-1),
	})
	return s, nil
}
