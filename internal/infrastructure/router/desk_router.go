package router

import (
	"net/http"
	"time"

	"flightdesk-service/internal/interface/handler"
	"flightdesk-service/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures the HTTP router
type Options struct {
	Mode        string
	CORSOrigins []string
	Version     string
}

// NewDeskRouter builds the gin engine serving the flight desk
func NewDeskRouter(opts Options, h *handler.DeskHandler, gatherer prometheus.Gatherer, log logger.Logger) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: !allowsAll(opts.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": opts.Version})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	fields := r.Group("/fields/:side")
	{
		fields.GET("", h.GetField)
		fields.PUT("/text", h.SetFieldText)
		fields.POST("/select", h.SelectAirport)
		fields.POST("/dismiss", h.DismissSuggestions)
	}

	r.POST("/search", h.Search)
	r.GET("/results", h.Results)
	r.POST("/results/next", h.NextPage)
	r.POST("/results/prev", h.PrevPage)
	r.POST("/reload", h.Reload)

	reservation := r.Group("/reservation")
	{
		reservation.GET("", h.GetReservation)
		reservation.POST("/select", h.SelectFlight)
		reservation.POST("/cancel", h.CancelReservation)
		reservation.POST("/confirm", h.ConfirmReservation)
	}
	r.GET("/reservations", h.ListReservations)
	r.GET("/notices", h.DrainNotices)

	session := r.Group("/session")
	{
		session.POST("", h.Login)
		session.DELETE("", h.Logout)
	}

	return r
}

// RequestLogger tags each request with an id and logs its outcome
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		log.Debug("Handled request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"requestId", requestID,
			"duration", time.Since(start))
	}
}

func allowsAll(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
