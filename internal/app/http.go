package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/mindbridge-backend/internal/http"
	httpH "github.com/yungbote/mindbridge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mindbridge-backend/internal/http/middleware"
	"github.com/yungbote/mindbridge-backend/internal/observability"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

func wireRouterConfig(db *gorm.DB, log *logger.Logger, cfg Config, services Services, metrics *observability.Metrics) http.RouterConfig {
	log.Info("Wiring handlers...")
	rc := http.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey),
		Clinicians:     cfg.Clinicians,

		HealthDataHandler:  httpH.NewHealthDataHandler(services.Health, cfg.ImportMaxBytes),
		MoodHandler:        httpH.NewMoodHandler(services.Mood),
		PersonalityHandler: httpH.NewPersonalityHandler(services.Personality),
		ChatHandler:        httpH.NewChatHandler(services.Chat),
		ClinicalHandler:    httpH.NewClinicalHandler(services.Clinical),
	}
	if sqlDB, err := db.DB(); err == nil {
		rc.HealthHandler = httpH.NewHealthHandler(sqlDB)
	} else {
		rc.HealthHandler = httpH.NewHealthHandler(nil)
	}
	return rc
}
