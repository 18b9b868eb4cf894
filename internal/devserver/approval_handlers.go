package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/intranet-portal-client/internal/attachment"
	"github.com/noah-isme/intranet-portal-client/internal/models"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
	"github.com/noah-isme/intranet-portal-client/pkg/response"
)

// withoutContent drops the file body so lists carry metadata only.
func withoutContent(p models.AttachmentPayload) models.AttachmentPayload {
	p.Base64Content = nil
	return p
}

// normalizeAttachment validates uploaded content and fills size and type.
func normalizeAttachment(p models.AttachmentPayload) (models.AttachmentPayload, error) {
	if !p.ContentLoaded() {
		return models.AttachmentPayload{}, nil
	}
	raw, err := attachment.Decode(*p.Base64Content)
	if err != nil {
		return models.AttachmentPayload{}, appErrors.Clone(appErrors.ErrValidation, "attachment content is not valid base64")
	}
	if p.Filename == "" {
		return models.AttachmentPayload{}, appErrors.Clone(appErrors.ErrValidation, "attachment filename is required")
	}
	return attachment.FromBytes(p.Filename, raw), nil
}

func (s *Server) myApprovalRequests(c *gin.Context) {
	user := currentUser(c)
	items := s.store.Approvals(func(a *models.Approval) bool { return a.RequesterID == user.UserID })
	for i := range items {
		items[i].AttachmentPayload = withoutContent(items[i].AttachmentPayload)
	}
	s.list(c, items, nil)
}

func (s *Server) myPendingApprovals(c *gin.Context) {
	user := currentUser(c)
	items := s.store.Approvals(func(a *models.Approval) bool {
		return a.ApproverID == user.UserID && a.Status == models.ApprovalStatusPending
	})
	for i := range items {
		items[i].AttachmentPayload = withoutContent(items[i].AttachmentPayload)
	}
	s.list(c, items, nil)
}

func (s *Server) getApproval(c *gin.Context) {
	a, err := s.store.Approval(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	a.AttachmentPayload = withoutContent(a.AttachmentPayload)
	response.JSON(c, http.StatusOK, a, nil)
}

func (s *Server) createApproval(c *gin.Context) {
	var req models.CreateApprovalRequest
	if !s.bind(c, &req) {
		return
	}
	user := currentUser(c)
	approver, ok := s.store.accountByID(req.ApproverID)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown approver"))
		return
	}
	if approver.ID == user.UserID {
		response.Rejected(c, "you cannot approve your own request")
		return
	}
	file, err := normalizeAttachment(req.AttachmentPayload)
	if err != nil {
		response.Error(c, err)
		return
	}
	requester, _ := s.store.accountByID(user.UserID)

	created := s.store.PutApproval(models.Approval{
		Title:             req.Title,
		Type:              req.Type,
		Content:           req.Content,
		Status:            models.ApprovalStatusPending,
		RequesterID:       user.UserID,
		RequesterName:     requester.Name,
		DepartmentName:    requester.DepartmentName,
		ApproverID:        approver.ID,
		ApproverName:      approver.Name,
		CreatedAt:         models.NewTimestamp(s.now()),
		AttachmentPayload: file,
	})
	created.AttachmentPayload = withoutContent(created.AttachmentPayload)
	response.Created(c, created)
}

func (s *Server) decideApproval(c *gin.Context, status models.ApprovalStatus, reason string) {
	user := currentUser(c)
	var rejection string
	updated, err := s.store.UpdateApproval(c.Param("id"), func(a *models.Approval) error {
		if a.ApproverID != user.UserID && user.Role != RoleAdmin {
			return appErrors.Clone(appErrors.ErrForbidden, "not the assigned approver")
		}
		if a.Status != models.ApprovalStatusPending {
			rejection = "approval already processed"
			return nil
		}
		a.Status = status
		a.RejectionReason = reason
		a.ProcessedAt = models.NewTimestamp(s.now())
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
	updated.AttachmentPayload = withoutContent(updated.AttachmentPayload)
	response.JSON(c, http.StatusOK, updated, nil)
}

func (s *Server) approveApproval(c *gin.Context) {
	s.decideApproval(c, models.ApprovalStatusApproved, "")
}

func (s *Server) rejectApproval(c *gin.Context) {
	var req models.RejectRequest
	if !s.bind(c, &req) {
		return
	}
	s.decideApproval(c, models.ApprovalStatusRejected, req.RejectionReason)
}

func (s *Server) deleteApproval(c *gin.Context) {
	user := currentUser(c)
	a, err := s.store.Approval(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if a.RequesterID != user.UserID && user.Role != RoleAdmin {
		forbidden(c, "only the requester can delete this approval")
		return
	}
	if a.Status != models.ApprovalStatusPending && user.Role != RoleAdmin {
		response.Rejected(c, "processed approvals cannot be deleted")
		return
	}
	if err := s.store.DeleteApproval(a.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "approval deleted")
}

func (s *Server) approvalAttachment(c *gin.Context) {
	a, err := s.store.Approval(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveAttachment(c, a.AttachmentPayload)
}

func serveAttachment(c *gin.Context, p models.AttachmentPayload) {
	if !p.HasAttachment() {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "no attachment"))
		return
	}
	response.JSON(c, http.StatusOK, p, nil)
}
