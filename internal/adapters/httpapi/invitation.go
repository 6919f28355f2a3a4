package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"invitapp/internal/application"
	"invitapp/internal/domain"
)

func (s *Server) link(eventID, guestID string) string {
	return application.InvitationLink(s.opts.PublicBaseURL, eventID, guestID)
}

// getInvitation serves what the guest's invitation page renders.
func (s *Server) getInvitation(c *gin.Context) {
	ctx := c.Request.Context()
	eventID, guestID := c.Param("eventId"), c.Param("guestId")

	event, err := s.svc.Events.GetEvent(ctx, eventID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	guest, err := s.svc.Guests.GetGuest(ctx, eventID, guestID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"event":   toEventDTO(event),
		"guest":   toGuestDTO(guest, s.link(eventID, guestID)),
		"hasPass": guest.HasPass(),
	})
}

func (s *Server) submitRSVP(c *gin.Context) {
	var req rsvpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	eventID, guestID := c.Param("eventId"), c.Param("guestId")

	guest, err := s.svc.RSVP.SubmitRSVP(c.Request.Context(), eventID, guestID, req.Decision, req.Passes)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	key := "rsvp.declined"
	if guest.Status == domain.StatusConfirmed {
		key = "rsvp.confirmed"
	}
	c.JSON(http.StatusOK, gin.H{
		"guest":   toGuestDTO(guest, s.link(eventID, guestID)),
		"message": s.t.T(locale(c), key, map[string]any{"Name": guest.Name, "Passes": guest.ConfirmedPasses}),
	})
}

func (s *Server) getPass(c *gin.Context) {
	pass, err := s.svc.Passes.Pass(c.Request.Context(), c.Param("eventId"), c.Param("guestId"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", pass.PNG)
}

func (s *Server) getCalendar(c *gin.Context) {
	ctx := c.Request.Context()
	eventID, guestID := c.Param("eventId"), c.Param("guestId")
	if _, err := s.svc.Guests.GetGuest(ctx, eventID, guestID); err != nil {
		if errors.Is(err, domain.ErrGuestNotFound) {
			err = domain.ErrEventNotFound
		}
		s.abortWithError(c, err)
		return
	}
	data, err := s.svc.Export.Calendar(ctx, eventID, s.link(eventID, guestID))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="evento.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}
