package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/intranet-portal-client/internal/models"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
	"github.com/noah-isme/intranet-portal-client/pkg/response"
)

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if !s.bind(c, &req) {
		return
	}

	acct, ok := s.store.accountByCode(req.EmployeeCode)
	if !ok || !checkPassword(acct.PasswordHash, req.Password) {
		response.Error(c, appErrors.Clone(appErrors.ErrAuth, "invalid employee code or password"))
		return
	}

	token, err := s.tokens.issue(acct)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue token"))
		return
	}

	response.JSON(c, http.StatusOK, models.LoginResponse{
		Token:        token,
		EmployeeCode: acct.EmployeeCode,
		Username:     acct.Name,
		Role:         acct.Role,
		FirstLogin:   acct.FirstLogin,
		UserID:       acct.ID,
		DepartmentID: acct.DepartmentID,
	}, nil)
}

func (s *Server) changePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if !s.bind(c, &req) {
		return
	}
	user := currentUser(c)
	acct, ok := s.store.accountByID(user.UserID)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrAuth, "account no longer exists"))
		return
	}
	if !checkPassword(acct.PasswordHash, req.OldPassword) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "current password is incorrect"))
		return
	}
	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password"))
		return
	}
	if err := s.store.setPassword(acct.ID, hash); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "password changed")
}

func isManager(user *tokenClaims) bool {
	return user.Role == RoleAdmin || user.Role == RoleManager
}

func forbidden(c *gin.Context, message string) {
	response.Error(c, appErrors.Clone(appErrors.ErrForbidden, message))
}

// requireRoles admits users whose role is listed. "SELF" additionally
// admits a user acting on their own :id.
func requireRoles(message string, allowed ...string) gin.HandlerFunc {
	allowSelf := false
	roles := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		if a == "SELF" {
			allowSelf = true
			continue
		}
		roles[a] = struct{}{}
	}

	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.Error(c, appErrors.ErrAuth)
			c.Abort()
			return
		}
		if _, ok := roles[user.Role]; ok {
			c.Next()
			return
		}
		if allowSelf && c.Param("id") != "" && c.Param("id") == user.UserID {
			c.Next()
			return
		}
		forbidden(c, message)
		c.Abort()
	}
}
