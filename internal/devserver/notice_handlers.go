package devserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/intranet-portal-client/internal/models"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
	"github.com/noah-isme/intranet-portal-client/pkg/response"
)

const defaultNoticePageSize = 10

func (s *Server) notices(keep func(*models.Notice) bool) []models.Notice {
	items := s.store.Notices(keep)
	for i := range items {
		items[i].AttachmentPayload = withoutContent(items[i].AttachmentPayload)
	}
	return items
}

func (s *Server) listNotices(c *gin.Context) {
	s.list(c, s.notices(nil), nil)
}

func (s *Server) searchNotices(c *gin.Context) {
	title := strings.TrimSpace(c.Query("title"))
	s.list(c, s.notices(func(n *models.Notice) bool {
		return containsFold(n.Title, title)
	}), nil)
}

// filterNotices pages with a zero-based page index.
func (s *Server) filterNotices(c *gin.Context) {
	department := strings.TrimSpace(c.Query("department"))
	var important *bool
	if raw := c.Query("isImportant"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "isImportant must be true or false"))
			return
		}
		important = &v
	}
	page, err := queryInt(c, "page", 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	size, err := queryInt(c, "size", defaultNoticePageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	if size <= 0 {
		size = defaultNoticePageSize
	}

	matched := s.notices(func(n *models.Notice) bool {
		if department != "" && !strings.EqualFold(n.DepartmentName, department) {
			return false
		}
		return important == nil || n.IsImportant == *important
	})
	start := page * size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}
	s.list(c, matched[start:end], &response.Pagination{Page: page, Size: size, Total: len(matched)})
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, key+" must be a non-negative integer")
	}
	return v, nil
}

func (s *Server) getNotice(c *gin.Context) {
	n, err := s.store.ViewNotice(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	n.AttachmentPayload = withoutContent(n.AttachmentPayload)
	response.JSON(c, http.StatusOK, n, nil)
}

func (s *Server) noticeFromRequest(c *gin.Context, n models.Notice) (models.Notice, bool) {
	var req models.NoticeRequest
	if !s.bind(c, &req) {
		return n, false
	}
	file, err := normalizeAttachment(req.AttachmentPayload)
	if err != nil {
		response.Error(c, err)
		return n, false
	}
	n.Title = req.Title
	n.Content = req.Content
	n.IsImportant = req.IsImportant
	n.UpdatedAt = models.NewTimestamp(s.now())
	if file.HasAttachment() {
		n.AttachmentPayload = file
	}
	return n, true
}

func (s *Server) createNotice(c *gin.Context) {
	user := currentUser(c)
	if !isManager(user) {
		forbidden(c, "only managers can publish notices")
		return
	}
	author, _ := s.store.accountByID(user.UserID)
	now := models.NewTimestamp(s.now())
	n, ok := s.noticeFromRequest(c, models.Notice{
		AuthorID:       author.ID,
		AuthorName:     author.Name,
		DepartmentName: author.DepartmentName,
		CreatedAt:      now,
	})
	if !ok {
		return
	}
	created := s.store.PutNotice(n)
	created.AttachmentPayload = withoutContent(created.AttachmentPayload)
	response.Created(c, created)
}

func (s *Server) updateNotice(c *gin.Context) {
	user := currentUser(c)
	existing, err := s.store.Notice(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if existing.AuthorID != user.UserID && user.Role != RoleAdmin {
		forbidden(c, "only the author can edit this notice")
		return
	}
	n, ok := s.noticeFromRequest(c, existing)
	if !ok {
		return
	}
	updated := s.store.PutNotice(n)
	updated.AttachmentPayload = withoutContent(updated.AttachmentPayload)
	response.JSON(c, http.StatusOK, updated, nil)
}

func (s *Server) deleteNotice(c *gin.Context) {
	user := currentUser(c)
	existing, err := s.store.Notice(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if existing.AuthorID != user.UserID && user.Role != RoleAdmin {
		forbidden(c, "only the author can delete this notice")
		return
	}
	if err := s.store.DeleteNotice(existing.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "notice deleted")
}

func (s *Server) noticeAttachment(c *gin.Context) {
	n, err := s.store.Notice(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveAttachment(c, n.AttachmentPayload)
}
