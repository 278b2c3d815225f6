package app

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

func TestLoadConfigClinicianAllowList(t *testing.T) {
	clinician := uuid.New()

	cases := []struct {
		name    string
		raw     string
		wantErr string
		wantLen int
	}{
		{name: "unset", raw: "", wantLen: 0},
		{name: "valid", raw: clinician.String() + ", " + uuid.NewString(), wantLen: 2},
		{name: "every id mistyped", raw: "clinician-1, 1234", wantErr: "CLINICIAN_USER_IDS"},
		{name: "one bad id", raw: clinician.String() + ",oops", wantErr: "oops"},
		{name: "only separators", raw: " , ,", wantErr: "lists no user ids"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("CLINICIAN_USER_IDS", tc.raw)
			cfg, err := LoadConfig(logger.Nop())
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("err=%v want containing %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if len(cfg.Clinicians) != tc.wantLen {
				t.Fatalf("clinicians=%d want %d", len(cfg.Clinicians), tc.wantLen)
			}
		})
	}
}
