package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/intranet-portal-client/internal/models"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
	"github.com/noah-isme/intranet-portal-client/pkg/response"
)

// DefaultPassword is assigned to employees created through the API. They
// are asked to change it on first login.
const DefaultPassword = "changeme"

func (s *Server) listEmployees(c *gin.Context) {
	s.list(c, s.store.Employees(""), nil)
}

func (s *Server) searchEmployees(c *gin.Context) {
	s.list(c, s.store.Employees(c.Query("keyword")), nil)
}

func (s *Server) getEmployee(c *gin.Context) {
	e, err := s.store.Employee(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, e, nil)
}

func (s *Server) saveEmployee(c *gin.Context, id string, status int) {
	var req models.EmployeeRequest
	if !s.bind(c, &req) {
		return
	}
	hash := ""
	if id == "" {
		var err error
		if hash, err = HashPassword(DefaultPassword); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password"))
			return
		}
	}
	e, err := s.store.SaveEmployee(id, req, hash)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, status, e, nil)
}

func (s *Server) createEmployee(c *gin.Context) {
	s.saveEmployee(c, "", http.StatusCreated)
}

func (s *Server) updateEmployee(c *gin.Context) {
	s.saveEmployee(c, c.Param("id"), http.StatusOK)
}

func (s *Server) deleteEmployee(c *gin.Context) {
	if c.Param("id") == currentUser(c).UserID {
		response.Rejected(c, "you cannot delete your own account")
		return
	}
	if err := s.store.DeleteEmployee(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "employee deleted")
}
