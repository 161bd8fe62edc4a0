package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dkeye/Meet/internal/adapters/signal"
	"github.com/dkeye/Meet/internal/app/orch"
	"github.com/dkeye/Meet/internal/config"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

type eligibilityRequest struct {
	StartTime         *time.Time `json:"startTime" binding:"required"`
	PasswordProtected bool      `json:"passwordProtected"`
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	validate := validator.New(validator.WithRequiredStructEnabled())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")

	api := r.Group("/api")

	ctrl := signal.NewSignalWSController(o, cfg)
	api.GET("/ws", func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("user", c.Query(signal.UserIDParam)).Msg("ws endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": o.Rooms.List()})
	})

	api.GET("/rooms/:id/members", func(c *gin.Context) {
		meeting, err := domain.ParseMeetingID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"meeting": meeting, "members": o.Rooms.Members(meeting)})
	})

	// Called by the meeting-join handler of the CRUD layer.
	api.POST("/meetings/:id/eligibility", func(c *gin.Context) {
		meeting, err := domain.ParseMeetingID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var req eligibilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		decision := o.DecideJoin(meeting, domain.MeetingAccess{
			ScheduledStart:    *req.StartTime,
			PasswordProtected: req.PasswordProtected,
		})
		c.JSON(http.StatusOK, decision)
	})

	// Called after a domain write that should reach a user live.
	api.POST("/users/:id/notifications", func(c *gin.Context) {
		uid, err := domain.ParseUserID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var n domain.Notification
		if err := c.ShouldBindJSON(&n); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		if err := validate.Struct(n); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"delivered": o.Notify(uid, n)})
	})

	return r
}
