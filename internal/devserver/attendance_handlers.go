package devserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/intranet-portal-client/internal/models"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
	"github.com/noah-isme/intranet-portal-client/pkg/response"
)

// Check-ins after this hour are recorded as LATE.
const lateAfterHour = 9

const (
	AttendancePresent = "PRESENT"
	AttendanceLate    = "LATE"
)

func (s *Server) attendanceByDate(c *gin.Context) {
	day, err := time.ParseInLocation("2006-01-02", c.Query("date"), s.now().Location())
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
		return
	}
	s.list(c, s.store.Attendance(func(a *models.Attendance) bool {
		return sameDay(a.WorkDate.Time, day)
	}), nil)
}

func (s *Server) myAttendance(c *gin.Context) {
	user := currentUser(c)
	s.list(c, s.store.Attendance(func(a *models.Attendance) bool {
		return a.EmployeeID == user.UserID
	}), nil)
}

// todayAttendance answers data:null before check-in.
func (s *Server) todayAttendance(c *gin.Context) {
	user := currentUser(c)
	if a, ok := s.store.AttendanceOn(user.UserID, s.now()); ok {
		response.JSON(c, http.StatusOK, a, nil)
		return
	}
	response.JSON(c, http.StatusOK, nil, nil)
}

func (s *Server) checkIn(c *gin.Context) {
	var req models.CheckRequest
	if c.Request.ContentLength > 0 && !s.bind(c, &req) {
		return
	}
	user := currentUser(c)
	now := s.now()
	if _, ok := s.store.AttendanceOn(user.UserID, now); ok {
		response.Rejected(c, "already checked in today")
		return
	}
	acct, _ := s.store.accountByID(user.UserID)
	status := AttendancePresent
	if now.Hour() >= lateAfterHour && (now.Hour() > lateAfterHour || now.Minute() > 0) {
		status = AttendanceLate
	}
	y, m, d := now.Date()
	created := s.store.PutAttendance(models.Attendance{
		EmployeeID:     acct.ID,
		EmployeeName:   acct.Name,
		DepartmentName: acct.DepartmentName,
		WorkDate:       models.NewTimestamp(time.Date(y, m, d, 0, 0, 0, 0, now.Location())),
		CheckIn:        models.NewTimestamp(now),
		Status:         status,
		Note:           req.Note,
	})
	response.Created(c, created)
}

func (s *Server) checkOut(c *gin.Context) {
	var req models.CheckRequest
	if c.Request.ContentLength > 0 && !s.bind(c, &req) {
		return
	}
	user := currentUser(c)
	now := s.now()
	a, ok := s.store.AttendanceOn(user.UserID, now)
	if !ok {
		response.Rejected(c, "check in first")
		return
	}
	if !a.CheckOut.IsZero() {
		response.Rejected(c, "already checked out today")
		return
	}
	a.CheckOut = models.NewTimestamp(now)
	if req.Note != "" {
		a.Note = req.Note
	}
	response.JSON(c, http.StatusOK, s.store.PutAttendance(a), nil)
}
