package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/intranet-portal-client/internal/models"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
	"github.com/noah-isme/intranet-portal-client/pkg/response"
)

func (s *Server) listMeetings(c *gin.Context) {
	items := s.store.Meetings()
	for i := range items {
		items[i].AttachmentPayload = withoutContent(items[i].AttachmentPayload)
	}
	s.list(c, items, nil)
}

func (s *Server) getMeeting(c *gin.Context) {
	m, err := s.store.Meeting(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	m.AttachmentPayload = withoutContent(m.AttachmentPayload)
	response.JSON(c, http.StatusOK, m, nil)
}

func (s *Server) meetingFromRequest(c *gin.Context, m models.Meeting) (models.Meeting, bool) {
	var req models.MeetingRequest
	if !s.bind(c, &req) {
		return m, false
	}
	if !req.EndTime.After(req.StartTime.Time) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "endTime must be after startTime"))
		return m, false
	}
	file, err := normalizeAttachment(req.AttachmentPayload)
	if err != nil {
		response.Error(c, err)
		return m, false
	}
	m.Title = req.Title
	m.Description = req.Description
	m.Location = req.Location
	m.StartTime = req.StartTime
	m.EndTime = req.EndTime
	m.Participants = req.Participants
	if file.HasAttachment() {
		m.AttachmentPayload = file
	}
	return m, true
}

func (s *Server) createMeeting(c *gin.Context) {
	user := currentUser(c)
	organizer, _ := s.store.accountByID(user.UserID)
	m, ok := s.meetingFromRequest(c, models.Meeting{
		OrganizerID:    organizer.ID,
		OrganizerName:  organizer.Name,
		DepartmentName: organizer.DepartmentName,
	})
	if !ok {
		return
	}
	created := s.store.PutMeeting(m)
	created.AttachmentPayload = withoutContent(created.AttachmentPayload)
	response.Created(c, created)
}

func (s *Server) updateMeeting(c *gin.Context) {
	user := currentUser(c)
	existing, err := s.store.Meeting(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if existing.OrganizerID != user.UserID && user.Role != RoleAdmin {
		forbidden(c, "only the organizer can edit this meeting")
		return
	}
	m, ok := s.meetingFromRequest(c, existing)
	if !ok {
		return
	}
	updated := s.store.PutMeeting(m)
	updated.AttachmentPayload = withoutContent(updated.AttachmentPayload)
	response.JSON(c, http.StatusOK, updated, nil)
}

func (s *Server) deleteMeeting(c *gin.Context) {
	user := currentUser(c)
	existing, err := s.store.Meeting(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if existing.OrganizerID != user.UserID && user.Role != RoleAdmin {
		forbidden(c, "only the organizer can delete this meeting")
		return
	}
	if err := s.store.DeleteMeeting(existing.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "meeting deleted")
}

func (s *Server) meetingAttachment(c *gin.Context) {
	m, err := s.store.Meeting(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveAttachment(c, m.AttachmentPayload)
}
