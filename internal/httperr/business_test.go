package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("confirm: %w", New(KindConflict, "time_conflict"))

	assert.True(t, IsKind(err, KindConflict))
	assert.True(t, IsBusiness(err, "time_conflict"))
	assert.False(t, IsKind(errors.New("boom"), KindConflict))
}

func TestPersistenceError(t *testing.T) {
	root := errors.New("connection reset")
	err := Persistence("insert appointment", root)

	assert.True(t, IsPersistence(err))
	assert.ErrorIs(t, err, root)
	assert.Nil(t, Persistence("noop", nil))
}

func TestIsExclusionConflict(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"})
	assert.True(t, IsExclusionConflict(err))

	assert.False(t, IsExclusionConflict(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsExclusionConflict(errors.New("other")))
}

func TestFromError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
		known  bool
	}{
		{"missing context", New(KindMissingContext, "missing_booking_context"), http.StatusConflict, "restart_booking", true},
		{"validation", ErrBusiness("invalid_date"), http.StatusBadRequest, "invalid_date", true},
		{"conflict", New(KindConflict, "time_conflict"), http.StatusConflict, "time_conflict", true},
		{"not found", New(KindNotFound, "appointment_not_found"), http.StatusNotFound, "appointment_not_found", true},
		{"forbidden", New(KindForbidden, "forbidden"), http.StatusForbidden, "forbidden", true},
		{"persistence", Persistence("commit", errors.New("db down")), http.StatusInternalServerError, "internal_error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			known := FromError(c, tt.err)

			assert.Equal(t, tt.known, known)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
			assert.NotContains(t, w.Body.String(), "db down")
		})
	}
}
