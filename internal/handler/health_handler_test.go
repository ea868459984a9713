package handler

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dappvotes/pkg/logger"
)

type checkerFunc func(ctx context.Context) error

func (f checkerFunc) Health(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Check(t *testing.T) {
	tests := []struct {
		name           string
		checker        checkerFunc
		expectedStatus int
		expectedState  string
	}{
		{
			name:           "store reachable",
			checker:        func(context.Context) error { return nil },
			expectedStatus: http.StatusOK,
			expectedState:  "healthy",
		},
		{
			name:           "store down",
			checker:        func(context.Context) error { return stderrors.New("connection refused") },
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checker, "redis", logger.NewNop())
			rec := httptest.NewRecorder()

			h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedState, resp.Status)
			assert.Equal(t, "dappvotes", resp.Service)
			assert.Equal(t, "redis", resp.Store)
		})
	}
}
