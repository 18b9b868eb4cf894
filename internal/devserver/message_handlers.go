package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/intranet-portal-client/internal/models"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
	"github.com/noah-isme/intranet-portal-client/pkg/response"
)

func (s *Server) inbox(c *gin.Context) {
	user := currentUser(c)
	s.list(c, s.store.Messages(func(m *models.Message) bool { return m.ReceiverID == user.UserID }), nil)
}

func (s *Server) sentMessages(c *gin.Context) {
	user := currentUser(c)
	s.list(c, s.store.Messages(func(m *models.Message) bool { return m.SenderID == user.UserID }), nil)
}

func (s *Server) unreadCount(c *gin.Context) {
	user := currentUser(c)
	unread := s.store.Messages(func(m *models.Message) bool { return m.ReceiverID == user.UserID && !m.IsRead })
	response.JSON(c, http.StatusOK, models.UnreadCount{Count: len(unread)}, nil)
}

// ownMessage loads id when the caller sent or received it.
func (s *Server) ownMessage(c *gin.Context) (models.Message, bool) {
	user := currentUser(c)
	m, err := s.store.Message(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return m, false
	}
	if m.SenderID != user.UserID && m.ReceiverID != user.UserID {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "message not found"))
		return m, false
	}
	return m, true
}

func (s *Server) getMessage(c *gin.Context) {
	if m, ok := s.ownMessage(c); ok {
		response.JSON(c, http.StatusOK, m, nil)
	}
}

func (s *Server) sendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if !s.bind(c, &req) {
		return
	}
	user := currentUser(c)
	receiver, ok := s.store.accountByID(req.ReceiverID)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown receiver"))
		return
	}
	sender, _ := s.store.accountByID(user.UserID)
	created := s.store.PutMessage(models.Message{
		SenderID:     sender.ID,
		SenderName:   sender.Name,
		ReceiverID:   receiver.ID,
		ReceiverName: receiver.Name,
		Title:        req.Title,
		Content:      req.Content,
		SentAt:       models.NewTimestamp(s.now()),
	})
	response.Created(c, created)
}

func (s *Server) markRead(c *gin.Context) {
	m, ok := s.ownMessage(c)
	if !ok {
		return
	}
	if m.ReceiverID != currentUser(c).UserID {
		forbidden(c, "only the receiver can mark a message read")
		return
	}
	m.IsRead = true
	response.JSON(c, http.StatusOK, s.store.PutMessage(m), nil)
}

func (s *Server) deleteMessage(c *gin.Context) {
	m, ok := s.ownMessage(c)
	if !ok {
		return
	}
	if err := s.store.DeleteMessage(m.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "message deleted")
}
