package http

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/mindbridge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mindbridge-backend/internal/http/middleware"
	"github.com/yungbote/mindbridge-backend/internal/observability"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

const serviceName = "mindbridge-backend"

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	AuthMiddleware *httpMW.AuthMiddleware
	// Clinicians gates the clinical-notes routes; empty means any authenticated caller.
	Clinicians map[uuid.UUID]struct{}

	HealthHandler      *httpH.HealthHandler
	HealthDataHandler  *httpH.HealthDataHandler
	MoodHandler        *httpH.MoodHandler
	PersonalityHandler *httpH.PersonalityHandler
	ChatHandler        *httpH.ChatHandler
	ClinicalHandler    *httpH.ClinicalHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Apple Health
	if cfg.HealthDataHandler != nil {
		api.POST("/health/import", cfg.HealthDataHandler.Import)
		api.GET("/health/summary", cfg.HealthDataHandler.Summary)
	}

	// Mood
	if cfg.MoodHandler != nil {
		api.POST("/mood-checkin", cfg.MoodHandler.CheckIn)
		api.GET("/mood-history", cfg.MoodHandler.History)
		api.DELETE("/mood-entries/:id", cfg.MoodHandler.Delete)
	}

	// Personality
	if cfg.PersonalityHandler != nil {
		api.POST("/personality-test/results", cfg.PersonalityHandler.RecordResults)
		api.GET("/personality-test/history", cfg.PersonalityHandler.History)
	}

	// Chat
	if cfg.ChatHandler != nil {
		api.POST("/chat", cfg.ChatHandler.Chat)
	}

	// Clinical
	if cfg.ClinicalHandler != nil {
		api.GET("/user-context", cfg.ClinicalHandler.UserContext)

		notes := api.Group("/clinical-notes")
		notes.Use(httpMW.RequireClinician(cfg.Clinicians))
		notes.POST("/analyze", cfg.ClinicalHandler.Analyze)
		notes.GET("", cfg.ClinicalHandler.List)
		notes.GET("/export", cfg.ClinicalHandler.Export)
		notes.GET("/:id", cfg.ClinicalHandler.Get)
		notes.POST("/:id/review", cfg.ClinicalHandler.Review)
	}

	return r
}
