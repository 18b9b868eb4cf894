package devserver

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/intranet-portal-client/internal/models"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
)

// account is an employee plus credentials.
type account struct {
	models.Employee
	PasswordHash string
	FirstLogin   bool
}

// Store is the sandbox backend's in-memory state.
type Store struct {
	mu sync.RWMutex

	departments map[string]string
	accounts    map[string]*account
	approvals   map[string]*models.Approval
	meetings    map[string]*models.Meeting
	notices     map[string]*models.Notice
	leave       map[string]*models.LeaveRequest
	attendance  map[string]*models.Attendance
	messages    map[string]*models.Message
}

func NewStore() *Store {
	return &Store{
		departments: map[string]string{},
		accounts:    map[string]*account{},
		approvals:   map[string]*models.Approval{},
		meetings:    map[string]*models.Meeting{},
		notices:     map[string]*models.Notice{},
		leave:       map[string]*models.LeaveRequest{},
		attendance:  map[string]*models.Attendance{},
		messages:    map[string]*models.Message{},
	}
}

func newID() string {
	return uuid.NewString()
}

// sortedValues returns copies ordered by key function descending, then id.
func sortedValues[T any](in map[string]*T, keep func(*T) bool, less func(a, b *T) bool) []T {
	out := make([]*T, 0, len(in))
	for _, v := range in {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	values := make([]T, len(out))
	for i, v := range out {
		values[i] = *v
	}
	return values
}

func newer(a, b time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA < idB
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func notFound(what string) error {
	return appErrors.Clone(appErrors.ErrNotFound, what+" not found")
}

// accounts

func (s *Store) AddDepartment(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.departments[id] = name
}

func (s *Store) AddAccount(e models.Employee, passwordHash string, firstLogin bool) models.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = newID()
	}
	e.DepartmentName = s.departments[e.DepartmentID]
	s.accounts[e.ID] = &account{Employee: e, PasswordHash: passwordHash, FirstLogin: firstLogin}
	return e
}

func (s *Store) accountByCode(code string) (account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.EmployeeCode, code) {
			return *a, true
		}
	}
	return account{}, false
}

func (s *Store) accountByID(id string) (account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return account{}, false
	}
	return *a, true
}

func (s *Store) setPassword(id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return notFound("employee")
	}
	a.PasswordHash = hash
	a.FirstLogin = false
	return nil
}

func (s *Store) Employees(keyword string) []models.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := sortedValues(s.accounts, func(a *account) bool {
		return keyword == "" || containsFold(a.Name, keyword) || containsFold(a.EmployeeCode, keyword)
	}, func(a, b *account) bool { return a.EmployeeCode < b.EmployeeCode })
	out := make([]models.Employee, len(accounts))
	for i, a := range accounts {
		out[i] = a.Employee
	}
	return out
}

func (s *Store) Employee(id string) (models.Employee, error) {
	a, ok := s.accountByID(id)
	if !ok {
		return models.Employee{}, notFound("employee")
	}
	return a.Employee, nil
}

func (s *Store) SaveEmployee(id string, req models.EmployeeRequest, passwordHash string) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ID != id && strings.EqualFold(a.EmployeeCode, req.EmployeeCode) {
			return models.Employee{}, appErrors.Clone(appErrors.ErrConflict, "employee code already in use")
		}
	}
	if _, ok := s.departments[req.DepartmentID]; !ok {
		return models.Employee{}, appErrors.Clone(appErrors.ErrValidation, "unknown department")
	}
	a, exists := s.accounts[id]
	if id != "" && !exists {
		return models.Employee{}, notFound("employee")
	}
	if !exists {
		a = &account{Employee: models.Employee{ID: newID(), Status: "ACTIVE"}, PasswordHash: passwordHash, FirstLogin: true}
		s.accounts[a.ID] = a
	}
	a.EmployeeCode = req.EmployeeCode
	a.Name = req.Name
	a.Email = req.Email
	a.Phone = req.Phone
	a.DepartmentID = req.DepartmentID
	a.DepartmentName = s.departments[req.DepartmentID]
	a.Position = req.Position
	a.Role = req.Role
	a.HireDate = req.HireDate
	return a.Employee, nil
}

func (s *Store) DeleteEmployee(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return notFound("employee")
	}
	delete(s.accounts, id)
	return nil
}

// approvals

func (s *Store) Approvals(keep func(*models.Approval) bool) []models.Approval {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.approvals, keep, func(a, b *models.Approval) bool {
		return newer(a.CreatedAt.Time, b.CreatedAt.Time, a.ID, b.ID)
	})
}

func (s *Store) Approval(id string) (models.Approval, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.approvals[id]
	if !ok {
		return models.Approval{}, notFound("approval")
	}
	return *a, nil
}

func (s *Store) PutApproval(a models.Approval) models.Approval {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = newID()
	}
	s.approvals[a.ID] = &a
	return a
}

// UpdateApproval applies fn under the write lock.
func (s *Store) UpdateApproval(id string, fn func(*models.Approval) error) (models.Approval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.approvals[id]
	if !ok {
		return models.Approval{}, notFound("approval")
	}
	next := *a
	if err := fn(&next); err != nil {
		return models.Approval{}, err
	}
	s.approvals[id] = &next
	return next, nil
}

func (s *Store) DeleteApproval(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.approvals[id]; !ok {
		return notFound("approval")
	}
	delete(s.approvals, id)
	return nil
}

// meetings

func (s *Store) Meetings() []models.Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.meetings, nil, func(a, b *models.Meeting) bool {
		if !a.StartTime.Equal(b.StartTime.Time) {
			return a.StartTime.Before(b.StartTime.Time)
		}
		return a.ID < b.ID
	})
}

func (s *Store) Meeting(id string) (models.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meetings[id]
	if !ok {
		return models.Meeting{}, notFound("meeting")
	}
	return *m, nil
}

func (s *Store) PutMeeting(m models.Meeting) models.Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = newID()
	}
	s.meetings[m.ID] = &m
	return m
}

func (s *Store) DeleteMeeting(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meetings[id]; !ok {
		return notFound("meeting")
	}
	delete(s.meetings, id)
	return nil
}

// notices

func (s *Store) Notices(keep func(*models.Notice) bool) []models.Notice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.notices, keep, func(a, b *models.Notice) bool {
		return newer(a.CreatedAt.Time, b.CreatedAt.Time, a.ID, b.ID)
	})
}

func (s *Store) Notice(id string) (models.Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notices[id]
	if !ok {
		return models.Notice{}, notFound("notice")
	}
	return *n, nil
}

// ViewNotice returns the notice and bumps its view counter.
func (s *Store) ViewNotice(id string) (models.Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notices[id]
	if !ok {
		return models.Notice{}, notFound("notice")
	}
	n.ViewCount++
	return *n, nil
}

func (s *Store) PutNotice(n models.Notice) models.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == "" {
		n.ID = newID()
	}
	s.notices[n.ID] = &n
	return n
}

func (s *Store) DeleteNotice(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notices[id]; !ok {
		return notFound("notice")
	}
	delete(s.notices, id)
	return nil
}

// leave

func (s *Store) Leave(keep func(*models.LeaveRequest) bool) []models.LeaveRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.leave, keep, func(a, b *models.LeaveRequest) bool {
		return newer(a.CreatedAt.Time, b.CreatedAt.Time, a.ID, b.ID)
	})
}

func (s *Store) PutLeave(l models.LeaveRequest) models.LeaveRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == "" {
		l.ID = newID()
	}
	s.leave[l.ID] = &l
	return l
}

func (s *Store) UpdateLeave(id string, fn func(*models.LeaveRequest) error) (models.LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leave[id]
	if !ok {
		return models.LeaveRequest{}, notFound("leave request")
	}
	next := *l
	if err := fn(&next); err != nil {
		return models.LeaveRequest{}, err
	}
	s.leave[id] = &next
	return next, nil
}

// DeleteLeave removes id after check approves the current value.
func (s *Store) DeleteLeave(id string, check func(models.LeaveRequest) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leave[id]
	if !ok {
		return notFound("leave request")
	}
	if err := check(*l); err != nil {
		return err
	}
	delete(s.leave, id)
	return nil
}

// attendance

func (s *Store) Attendance(keep func(*models.Attendance) bool) []models.Attendance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.attendance, keep, func(a, b *models.Attendance) bool {
		return newer(a.WorkDate.Time, b.WorkDate.Time, a.EmployeeName, b.EmployeeName)
	})
}

// AttendanceOn returns the employee's record for day, if any.
func (s *Store) AttendanceOn(employeeID string, day time.Time) (models.Attendance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.attendance {
		if a.EmployeeID == employeeID && sameDay(a.WorkDate.Time, day) {
			return *a, true
		}
	}
	return models.Attendance{}, false
}

func (s *Store) PutAttendance(a models.Attendance) models.Attendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = newID()
	}
	s.attendance[a.ID] = &a
	return a
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// messages

func (s *Store) Messages(keep func(*models.Message) bool) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.messages, keep, func(a, b *models.Message) bool {
		return newer(a.SentAt.Time, b.SentAt.Time, a.ID, b.ID)
	})
}

func (s *Store) Message(id string) (models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.messages[id]
	if !ok {
		return models.Message{}, notFound("message")
	}
	return *m, nil
}

func (s *Store) PutMessage(m models.Message) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = newID()
	}
	s.messages[m.ID] = &m
	return m
}

func (s *Store) DeleteMessage(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[id]; !ok {
		return notFound("message")
	}
	delete(s.messages, id)
	return nil
}
