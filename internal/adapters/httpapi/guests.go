package httpapi

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"invitapp/internal/domain/entities"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) guestDTOs(guests []entities.Guest) []guestDTO {
	out := make([]guestDTO, 0, len(guests))
	for i := range guests {
		g := &guests[i]
		out = append(out, toGuestDTO(g, s.link(g.EventID, g.ID)))
	}
	return out
}

func (s *Server) listGuests(c *gin.Context) {
	guests, err := s.svc.Guests.ListGuests(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guests": s.guestDTOs(guests)})
}

func (s *Server) addGuest(c *gin.Context) {
	var req guestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	guest := &entities.Guest{
		EventID: c.Param("eventId"),
		Name:    req.Name,
		Group:   req.Group,
		Passes:  req.Passes,
	}
	if err := s.svc.Guests.AddGuest(c.Request.Context(), guest); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toGuestDTO(guest, s.link(guest.EventID, guest.ID)))
}

func (s *Server) editGuest(c *gin.Context) {
	var req guestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	guest, err := s.svc.Guests.EditGuest(c.Request.Context(), c.Param("eventId"), c.Param("guestId"), req.Name, req.Group, req.Passes)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGuestDTO(guest, s.link(guest.EventID, guest.ID)))
}

func (s *Server) removeGuest(c *gin.Context) {
	if err := s.svc.Guests.RemoveGuest(c.Request.Context(), c.Param("eventId"), c.Param("guestId")); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) exportGuests(c *gin.Context) {
	data, err := s.svc.Export.GuestSheet(c.Request.Context(), c.Param("eventId"), locale(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="invitados.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// streamGuests pushes the guest list as server-sent events whenever it
// changes. Slow clients only get the latest list.
func (s *Server) streamGuests(c *gin.Context) {
	ctx := c.Request.Context()
	updates := make(chan []entities.Guest, 1)
	stop, err := s.svc.Guests.WatchGuests(ctx, c.Param("eventId"), func(list []entities.Guest) {
		for {
			select {
			case updates <- list:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	defer stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(_ io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case list := <-updates:
			c.SSEvent("guests", s.guestDTOs(list))
			return true
		}
	})
}
