package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_Health(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantStatus int
		wantDeps   map[string]string
	}{
		{
			name:       "no dependencies",
			wantStatus: http.StatusOK,
			wantDeps:   map[string]string{},
		},
		{
			name:       "all healthy",
			checks:     map[string]HealthCheck{"database": ok, "redis": ok},
			wantStatus: http.StatusOK,
			wantDeps:   map[string]string{"database": "ok", "redis": "ok"},
		},
		{
			name:       "redis down",
			checks:     map[string]HealthCheck{"database": ok, "redis": down},
			wantStatus: http.StatusServiceUnavailable,
			wantDeps:   map[string]string{"database": "ok", "redis": "unavailable: connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler("billbook", "test", tt.checks)
			c, w := newTestContext(http.MethodGet, "/health", "")

			h.Health(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body struct {
				Success bool           `json:"success"`
				Data    HealthResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus == http.StatusOK, body.Success)
			assert.Equal(t, "billbook", body.Data.Name)
			assert.Equal(t, tt.wantDeps, body.Data.Dependencies)
		})
	}
}
