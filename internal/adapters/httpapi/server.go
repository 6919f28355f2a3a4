// Package httpapi exposes the guest-facing invitation pages and the host
// dashboard API over HTTP.
package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	"invitapp/internal/ports/input"
	"invitapp/internal/ports/output"
)

// Services are the use cases the API is built on.
type Services struct {
	Events  input.EventUseCase
	Guests  input.GuestUseCase
	RSVP    input.RSVPUseCase
	Passes  input.PassUseCase
	CheckIn input.CheckInUseCase
	Stats   input.StatsUseCase
	Export  input.ExportUseCase
}

type Options struct {
	PublicBaseURL string
	CORSOrigins   []string // empty allows any origin
	RateLimit     string   // ulule format, e.g. "100-M"
	Location      *time.Location
}

type Server struct {
	svc  Services
	t    output.T
	log  zerolog.Logger
	opts Options
}

func NewServer(svc Services, t output.T, log zerolog.Logger, opts Options) *Server {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Server{svc: svc, t: t, log: log, opts: opts}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() (*gin.Engine, error) {
	rate, err := limiter.NewRateFromFormatted(s.opts.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("rate limit %q: %w", s.opts.RateLimit, err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.log))
	r.Use(cors.New(s.corsConfig()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	public := api.Group("/invitations/:eventId/:guestId")
	public.Use(ginlimiter.NewMiddleware(limiter.New(memorystore.NewStore(), rate)))
	public.GET("", s.getInvitation)
	public.POST("/rsvp", s.submitRSVP)
	public.GET("/pass.png", s.getPass)
	public.GET("/event.ics", s.getCalendar)

	host := api.Group("/host")
	host.Use(requireHost())
	host.GET("/stats", s.globalStats)
	host.GET("/events", s.listEvents)
	host.POST("/events", s.createEvent)

	event := host.Group("/events/:eventId")
	event.Use(s.requireEventOwner())
	event.GET("", s.getEvent)
	event.PUT("", s.updateEvent)
	event.DELETE("", s.deleteEvent)
	event.PUT("/schedule", s.updateSchedule)
	event.GET("/stats", s.eventStats)
	event.POST("/checkin", s.checkIn)
	event.GET("/guests", s.listGuests)
	event.POST("/guests", s.addGuest)
	event.GET("/guests/stream", s.streamGuests)
	event.GET("/guests/export.xlsx", s.exportGuests)
	event.PUT("/guests/:guestId", s.editGuest)
	event.DELETE("/guests/:guestId", s.removeGuest)

	return r, nil
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept-Language", hostHeader},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(s.opts.CORSOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.opts.CORSOrigins
	}
	return cfg
}
