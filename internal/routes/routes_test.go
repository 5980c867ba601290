package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/auth"
	"github.com/BruksfildServices01/agenda-api/internal/caller"
	"github.com/BruksfildServices01/agenda-api/internal/config"
	"github.com/BruksfildServices01/agenda-api/internal/metrics"
)

func newRouter(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		Timezone:         "America/Guayaquil",
		TokenTTL:         time.Hour,
		DraftTTL:         30 * time.Minute,
		NotifyTimeout:    time.Second,
		BookingTxTimeout: time.Second,
		PublicRateLimit:  10,
	}

	reg := prometheus.NewRegistry()
	dispatcher := audit.NewDispatcher(audit.NewGormWriter(db), zap.NewNop())
	t.Cleanup(dispatcher.Close)

	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:       db,
		Config:   cfg,
		Logger:   zap.NewNop(),
		Metrics:  metrics.NewBookingMetrics(reg),
		Gatherer: reg,
		Audit:    dispatcher,
	})
	return r, cfg
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := newRouter(t)

	w := get(r, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(r, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	r, _ := newRouter(t)

	for _, path := range []string{
		"/api/me",
		"/api/me/appointments?date=2026-03-02",
		"/api/me/staff/1/schedule?from=2026-03-02",
		"/api/me/audit-logs",
	} {
		w := get(r, path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestStaffCannotReadAuditLogs(t *testing.T) {
	r, cfg := newRouter(t)

	token, err := auth.NewTokens(cfg.JWTSecret, time.Hour).Issue(caller.NewStaff(3, 1, 21))
	require.NoError(t, err)

	w := get(r, "/api/me/audit-logs", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestScheduleOfAnotherStaffMemberIsForbidden(t *testing.T) {
	r, cfg := newRouter(t)

	token, err := auth.NewTokens(cfg.JWTSecret, time.Hour).Issue(caller.NewStaff(3, 1, 21))
	require.NoError(t, err)

	w := get(r, "/api/me/staff/22/schedule?from=2026-03-02", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
