package devserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/intranet-portal-client/internal/models"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
	"github.com/noah-isme/intranet-portal-client/pkg/response"
)

func (s *Server) myLeave(c *gin.Context) {
	user := currentUser(c)
	s.list(c, s.store.Leave(func(l *models.LeaveRequest) bool {
		return l.EmployeeID == user.UserID
	}), nil)
}

// pendingLeave lists requests a manager may decide: same department, not
// their own. Administrators see every department.
func (s *Server) pendingLeave(c *gin.Context) {
	user := currentUser(c)
	if !isManager(user) {
		s.list(c, []models.LeaveRequest{}, nil)
		return
	}
	me, _ := s.store.accountByID(user.UserID)
	s.list(c, s.store.Leave(func(l *models.LeaveRequest) bool {
		if l.Status != models.ApprovalStatusPending || l.EmployeeID == user.UserID {
			return false
		}
		return user.Role == RoleAdmin || l.DepartmentName == me.DepartmentName
	}), nil)
}

func (s *Server) createLeave(c *gin.Context) {
	var req models.CreateLeaveRequest
	if !s.bind(c, &req) {
		return
	}
	if req.EndDate.Before(req.StartDate.Time) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "endDate must not be before startDate"))
		return
	}
	user := currentUser(c)
	acct, _ := s.store.accountByID(user.UserID)
	created := s.store.PutLeave(models.LeaveRequest{
		EmployeeID:     acct.ID,
		EmployeeName:   acct.Name,
		DepartmentName: acct.DepartmentName,
		LeaveType:      req.LeaveType,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Days:           inclusiveDays(req.StartDate, req.EndDate),
		Reason:         req.Reason,
		Status:         models.ApprovalStatusPending,
		CreatedAt:      models.NewTimestamp(s.now()),
	})
	response.Created(c, created)
}

// errRejected aborts a store mutation that is answered with Rejected.
var errRejected = errors.New("rejected")

func inclusiveDays(start, end models.Timestamp) float64 {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return float64(int(to.Sub(from).Hours()/24) + 1)
}

func (s *Server) decideLeave(c *gin.Context, status models.ApprovalStatus, reason string) {
	user := currentUser(c)
	if !isManager(user) {
		forbidden(c, "only managers can decide leave requests")
		return
	}
	var rejection string
	updated, err := s.store.UpdateLeave(c.Param("id"), func(l *models.LeaveRequest) error {
		if l.EmployeeID == user.UserID {
			return appErrors.Clone(appErrors.ErrForbidden, "cannot decide your own leave request")
		}
		if l.Status != models.ApprovalStatusPending {
			rejection = "leave request already processed"
			return nil
		}
		l.Status = status
		l.RejectionReason = reason
		return nil
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if rejection != "" {
		response.Rejected(c, rejection)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

func (s *Server) approveLeave(c *gin.Context) {
	s.decideLeave(c, models.ApprovalStatusApproved, "")
}

func (s *Server) rejectLeave(c *gin.Context) {
	var req models.RejectRequest
	if !s.bind(c, &req) {
		return
	}
	s.decideLeave(c, models.ApprovalStatusRejected, req.RejectionReason)
}

func (s *Server) cancelLeave(c *gin.Context) {
	user := currentUser(c)
	var rejection string
	err := s.store.DeleteLeave(c.Param("id"), func(l models.LeaveRequest) error {
		if l.EmployeeID != user.UserID {
			return appErrors.Clone(appErrors.ErrForbidden, "only the requester can cancel")
		}
		if l.Status != models.ApprovalStatusPending {
			rejection = "only pending requests can be cancelled"
			return errRejected
		}
		return nil
	})
	switch {
	case rejection != "":
		response.Rejected(c, rejection)
	case err != nil:
		response.Error(c, err)
	default:
		response.Message(c, "leave request cancelled")
	}
}
