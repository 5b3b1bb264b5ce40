package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/pkg/apperrors"
	"github.com/yigit/ais/internal/pkg/auth"
)

const testCookie = "ais_session"

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", TokenTTL: time.Hour, TokenIssuer: "ais-test"})
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func newProtectedRouter(m *AuthMiddleware, roles ...models.Role) *gin.Engine {
	r := gin.New()
	r.GET("/protected", m.SessionAuth(), m.RoleRequired(roles...), func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		role, _ := CurrentRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	return r
}

func TestSessionAuth(t *testing.T) {
	jwt := newJWT()
	m := NewAuthMiddleware(jwt, testCookie)
	router := newProtectedRouter(m, models.RoleTeacher, models.RoleAdmin)

	teacherToken, _, err := jwt.GenerateToken(7, "tom", string(models.RoleTeacher))
	require.NoError(t, err)
	studentToken, _, err := jwt.GenerateToken(8, "sam", string(models.RoleStudent))
	require.NoError(t, err)
	foreign := auth.NewJWTService(auth.JWTConfig{SecretKey: "other", TokenTTL: time.Hour, TokenIssuer: "ais-test"})
	forgedToken, _, err := foreign.GenerateToken(7, "tom", string(models.RoleAdmin))
	require.NoError(t, err)

	tests := []struct {
		name       string
		prepare    func(r *http.Request)
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{
			name:       "bearer header",
			prepare:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+teacherToken) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "session cookie",
			prepare:    func(r *http.Request) { r.AddCookie(&http.Cookie{Name: testCookie, Value: teacherToken}) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing token",
			prepare:    func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
			wantCode:   dto.ErrorCodeTokenNotFound,
		},
		{
			name:       "malformed header",
			prepare:    func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") },
			wantStatus: http.StatusUnauthorized,
			wantCode:   dto.ErrorCodeInvalidToken,
		},
		{
			name:       "wrong signature",
			prepare:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+forgedToken) },
			wantStatus: http.StatusUnauthorized,
			wantCode:   dto.ErrorCodeInvalidToken,
		},
		{
			name:       "role not allowed",
			prepare:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+studentToken) },
			wantStatus: http.StatusForbidden,
			wantCode:   dto.ErrorCodeForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tt.prepare(req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Error.Code)
				return
			}
			var body struct {
				ID   int64       `json:"id"`
				Role models.Role `json:"role"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, int64(7), body.ID)
			assert.Equal(t, models.RoleTeacher, body.Role)
		})
	}
}

func TestRoleRequired_WithoutSession(t *testing.T) {
	m := NewAuthMiddleware(newJWT(), testCookie)
	r := gin.New()
	r.GET("/x", m.RoleRequired(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    dto.ErrorCode
		wantMessage string
	}{
		{"validation", apperrors.NewValidationError("grade value must be between 0 and 100"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "grade value must be between 0 and 100"},
		{"not found", apperrors.ErrGroupNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "group resource not found"},
		{"exists", apperrors.ErrGroupCodeExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "group code already exists: resource already exists"},
		{"conflict", apperrors.NewConflictError("busy"), http.StatusConflict, dto.ErrorCodeConflict, "busy"},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid username or password"},
		{"expired", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
		{"forbidden", apperrors.ErrNoRole, http.StatusForbidden, dto.ErrorCodeForbidden, "user has no role: permission denied"},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
		{"wrapped not found", fmt.Errorf("loading: %w", apperrors.ErrSubjectNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "loading: subject resource not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
		})
	}
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRateLimitByIP(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimitByIP(2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000"))
}
