package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	httpH "github.com/yungbote/mindbridge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mindbridge-backend/internal/http/middleware"
	"github.com/yungbote/mindbridge-backend/internal/platform/envutil"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	Port           string
	JWTSecretKey   string
	AccessTokenTTL time.Duration

	ImportMaxBytes int64
	Clinicians     map[uuid.UUID]struct{}

	NoteTimeout   time.Duration
	ShutdownDrain time.Duration
}

// LoadConfig fails when CLINICIAN_USER_IDS is set but does not yield a usable allow-list, since
// an empty list opens the clinician routes to every caller.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:           envutil.String("PORT", "8080"),
		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", defaultJWTSecret),
		AccessTokenTTL: envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour),
		ImportMaxBytes: envutil.Int64("HEALTH_IMPORT_MAX_BYTES", httpH.DefaultImportMaxBytes),
		NoteTimeout:    envutil.Seconds("NOTE_TASK_TIMEOUT_SECONDS", 30*time.Second),
		ShutdownDrain:  envutil.Seconds("SHUTDOWN_DRAIN_SECONDS", 15*time.Second),
	}
	if cfg.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY not set; using insecure default")
	}

	raw := strings.TrimSpace(envutil.String("CLINICIAN_USER_IDS", ""))
	clinicians, err := httpMW.ParseUserIDList(raw)
	if err != nil {
		return Config{}, fmt.Errorf("CLINICIAN_USER_IDS: %w", err)
	}
	if raw != "" && len(clinicians) == 0 {
		return Config{}, fmt.Errorf("CLINICIAN_USER_IDS is set but lists no user ids")
	}
	if len(clinicians) == 0 {
		log.Warn("CLINICIAN_USER_IDS not set; clinical notes are open to every authenticated caller")
	}
	cfg.Clinicians = clinicians
	return cfg, nil
}
