package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invitapp/internal/domain/entities"
	"invitapp/pkg/tz"
)

func (s *Server) listEvents(c *gin.Context) {
	events, err := s.svc.Events.ListEvents(c.Request.Context(), c.GetString(hostKey))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	out := make([]eventDTO, 0, len(events))
	for i := range events {
		out = append(out, toEventDTO(&events[i]))
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}

func (s *Server) bindEvent(c *gin.Context) (*entities.Event, bool) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return nil, false
	}
	event := &entities.Event{
		Name:     req.Name,
		Location: req.Location,
		MapURL:   req.MapURL,
		ThemeID:  req.ThemeID,
		Schedule: fromScheduleDTOs(req.Schedule),
	}
	if req.Date != "" {
		date, err := tz.ParseLocal(req.Date, s.opts.Location)
		if err != nil {
			s.badRequest(c, err)
			return nil, false
		}
		event.Date = date
	}
	return event, true
}

func (s *Server) createEvent(c *gin.Context) {
	event, ok := s.bindEvent(c)
	if !ok {
		return
	}
	event.HostID = c.GetString(hostKey)
	if err := s.svc.Events.CreateEvent(c.Request.Context(), event); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEventDTO(event))
}

func (s *Server) getEvent(c *gin.Context) {
	event, err := s.svc.Events.GetEvent(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventDTO(event))
}

func (s *Server) updateEvent(c *gin.Context) {
	event, ok := s.bindEvent(c)
	if !ok {
		return
	}
	event.ID = c.Param("eventId")
	if err := s.svc.Events.UpdateEvent(c.Request.Context(), event); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventDTO(event))
}

func (s *Server) updateSchedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	event, err := s.svc.Events.UpdateSchedule(c.Request.Context(), c.Param("eventId"), fromScheduleDTOs(req.Schedule))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventDTO(event))
}

func (s *Server) deleteEvent(c *gin.Context) {
	if err := s.svc.Events.DeleteEvent(c.Request.Context(), c.Param("eventId")); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) eventStats(c *gin.Context) {
	stats, err := s.svc.Stats.EventStats(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) globalStats(c *gin.Context) {
	stats, err := s.svc.Stats.GlobalStats(c.Request.Context(), c.GetString(hostKey))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) checkIn(c *gin.Context) {
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	res, err := s.svc.CheckIn.CheckIn(c.Request.Context(), req.Code, c.Param("eventId"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkInResponse{
		Verdict:    res.Verdict,
		Admitted:   res.Admitted(),
		GuestID:    res.GuestID,
		GuestName:  res.GuestName,
		AttendedAt: optionalTime(res.AttendedAt),
		Message:    s.t.T(locale(c), "scan."+string(res.Verdict), map[string]any{"Name": res.GuestName}),
	})
}
