package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/billbook/backend/internal/domain/invoicing"
	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/infrastructure/logger"
	"github.com/billbook/backend/internal/interfaces/http/dto"
	"github.com/billbook/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

// setJWTContext simulates an authenticated request without a real token
func setJWTContext(c *gin.Context, userID uuid.UUID) {
	c.Set(middleware.JWTUserIDKey, userID.String())
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// ============ Context Helper Tests ============

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name:       "from context",
			setup:      func(c *gin.Context) { c.Set(logger.GinRequestIDKey, "ctx-id") },
			expectedID: "ctx-id",
		},
		{
			name:       "from header when context empty",
			setup:      func(c *gin.Context) { c.Request.Header.Set(middleware.RequestIDHeader, "header-id") },
			expectedID: "header-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodGet, "/", "")
			tt.setup(c)
			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestCurrentUser(t *testing.T) {
	h := &BaseHandler{}

	t.Run("missing user writes 401", func(t *testing.T) {
		c, w := newTestContext(http.MethodGet, "/", "")
		_, ok := h.currentUser(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("user from claims", func(t *testing.T) {
		userID := uuid.New()
		c, _ := newTestContext(http.MethodGet, "/", "")
		setJWTContext(c, userID)
		got, ok := h.currentUser(c)
		assert.True(t, ok)
		assert.Equal(t, userID, got)
	})
}

func TestPathID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/", "")
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	_, ok := h.pathID(c)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidInput, decodeResponse(t, w).Error.Code)
}

// ============ Response Helper Tests ============

func TestBaseHandlerList(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/", "")

	List[string](h, c, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true, "data": [], "meta": {"total": 0}}`, w.Body.String())
}

func TestBaseHandlerCreatedAndNoContent(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext(http.MethodPost, "/", "")
	h.Created(c, map[string]string{"id": "1"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)

	c, w = newTestContext(http.MethodDelete, "/", "")
	h.NoContent(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

// ============ Binding Tests ============

func TestBindJSON(t *testing.T) {
	type form struct {
		BuyerName string `json:"buyer_name" binding:"required"`
		Hours     int    `json:"total_hours"`
	}

	tests := []struct {
		name    string
		body    string
		code    string
		details []dto.ValidationDetail
	}{
		{
			name: "validator error",
			body: `{}`,
			code: dto.ErrCodeValidation,
			details: []dto.ValidationDetail{
				{Field: "buyer_name", Message: "This field is required."},
			},
		},
		{
			name: "type mismatch",
			body: `{"buyer_name": "Acme", "total_hours": "ten"}`,
			code: dto.ErrCodeValidation,
			details: []dto.ValidationDetail{
				{Field: "total_hours", Message: "Expected a int value."},
			},
		},
		{
			name: "malformed json",
			body: `{"buyer_name": `,
			code: dto.ErrCodeInvalidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext(http.MethodPost, "/", tt.body)

			var req form
			ok := h.bindJSON(c, &req)

			assert.False(t, ok)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, tt.code, resp.Error.Code)
			if tt.details != nil {
				assert.Equal(t, tt.details, resp.Error.Details)
			}
		})
	}
}

// ============ HandleError Tests ============

func TestBaseHandlerHandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped not found", fmt.Errorf("load invoice: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"allocation conflict", invoicing.ErrAllocationConflict, http.StatusConflict, dto.ErrCodeAllocationConflict},
		{"unknown error", assert.AnError, http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext(http.MethodGet, "/", "")
			c.Set(logger.GinRequestIDKey, "req-9")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
			assert.Equal(t, "req-9", resp.Error.RequestID)
		})
	}
}

func TestBaseHandlerHandleError_ValidationDetails(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodPost, "/", "")

	err := shared.NewValidationError().
		Add("state", "State is required for Indian buyers.").
		Add("buyer_name", "This field is required.")
	h.HandleError(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, []dto.ValidationDetail{
		{Field: "buyer_name", Message: "This field is required."},
		{Field: "state", Message: "State is required for Indian buyers."},
	}, resp.Error.Details)
}

func TestBaseHandlerHandleError_Nil(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/", "")

	h.HandleError(c, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}
