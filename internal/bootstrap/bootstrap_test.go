package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/app/repositories/repotest"
	"github.com/yigit/ais/internal/config"
	"github.com/yigit/ais/internal/domain"
	"github.com/yigit/ais/internal/pkg/auth"
	"github.com/yigit/ais/internal/seed"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	auth.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "production"
	cfg.Session.Secret = "test-secret"
	cfg.Session.TTL = "1h"
	cfg.Session.Issuer = "ais-test"
	cfg.Session.CookieName = "ais_session"
	cfg.RateLimit.LoginRequests = 100
	cfg.RateLimit.LoginWindow = "1m"
	cfg.Grades.PassingThreshold = 50
	return cfg
}

func newTestRouter(t *testing.T) (http.Handler, *repotest.Store) {
	t.Helper()
	store := repotest.New()
	repos := Repositories{
		Users:           store.Users(),
		Students:        store.Students(),
		Teachers:        store.Teachers(),
		Groups:          store.Groups(),
		Subjects:        store.Subjects(),
		TeacherSubjects: store.TeacherSubjects(),
		GroupSubjects:   store.GroupSubjects(),
		Grades:          store.Grades(),
	}
	_, err := seed.CreateAdmin(context.Background(), store.Users(), "admin", "secret")
	require.NoError(t, err)

	cfg := testConfig()
	deps := BuildDependencies(cfg, repos, zerolog.Nop())
	router, err := SetupRouter(cfg, deps, zerolog.Nop())
	require.NoError(t, err)
	return router, store
}

type client struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	require.True(t, envelope.Success, w.Body.String())
	return envelope.Data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorCode {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func login(t *testing.T, handler http.Handler, username, password string) *client {
	t.Helper()
	anon := &client{t: t, handler: handler}
	w := anon.do(http.MethodPost, "/auth/login", dto.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeData[dto.AuthResponse](t, w)
	return &client{t: t, handler: handler, token: resp.Token.AccessToken}
}

func TestRouter_PublicAndAuth(t *testing.T) {
	router, _ := newTestRouter(t)
	anon := &client{t: t, handler: router}

	w := anon.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = anon.do(http.MethodPost, "/auth/login", dto.LoginRequest{Username: "admin", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidCredentials, errorCode(t, w))

	w = anon.do(http.MethodPost, "/auth/login", map[string]string{"password": "secret"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = anon.do(http.MethodPost, "/auth/login", dto.LoginRequest{Username: "admin", Password: "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeData[dto.AuthResponse](t, w)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)

	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "ais_session" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)
	assert.Equal(t, resp.Token.AccessToken, sessionCookie.Value)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	req.AddCookie(sessionCookie)
	sw := httptest.NewRecorder()
	router.ServeHTTP(sw, req)
	require.Equal(t, http.StatusOK, sw.Code)
	assert.Equal(t, "admin", decodeData[dto.SessionUser](t, sw).Username)

	w = anon.do(http.MethodGet, "/admin/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_GradingWorkflow(t *testing.T) {
	router, _ := newTestRouter(t)
	admin := login(t, router, "admin", "secret")

	w := admin.do(http.MethodPost, "/admin/groups", map[string]interface{}{"programInitials": "pi", "startYear": 24, "languageCode": "E"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	group := decodeData[models.Group](t, w)
	assert.Equal(t, "PI24E", group.GroupCode)

	w = admin.do(http.MethodPost, "/admin/groups", map[string]interface{}{"programInitials": "PI", "startYear": 24, "languageCode": "e"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = admin.do(http.MethodPost, "/admin/subjects", map[string]interface{}{"code": "MATH101", "credits": 6})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	math := decodeData[models.Subject](t, w)

	w = admin.do(http.MethodPost, "/admin/subjects", map[string]interface{}{"code": "PHYS101"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	physics := decodeData[models.Subject](t, w)

	w = admin.do(http.MethodPost, "/admin/teachers", dto.CreateTeacherRequest{Username: "tom", Password: "secret", Department: "Mathematics"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	teacher := decodeData[dto.TeacherResponse](t, w)

	w = admin.do(http.MethodPost, "/admin/students", dto.CreateStudentRequest{Username: "amy", Password: "secret", GroupID: &group.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	student := decodeData[dto.StudentResponse](t, w)
	assert.Equal(t, "PI24E", student.GroupCode)

	w = admin.do(http.MethodPost, "/admin/assignments", dto.AssignTeacherRequest{TeacherID: teacher.ID, SubjectID: math.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = admin.do(http.MethodPost, fmt.Sprintf("/admin/groups/%d/subjects", group.ID), dto.AssignSubjectRequest{SubjectID: math.ID, AcademicSemester: "2024/25 Fall"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = admin.do(http.MethodGet, fmt.Sprintf("/admin/groups/%d/subjects?semester=2025+Spring", group.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeData[[]models.GroupSubject](t, w))

	w = admin.do(http.MethodGet, "/admin/subjects?semester=2024/25+Fall", nil)
	require.Equal(t, http.StatusOK, w.Code)
	inFall := decodeData[[]models.Subject](t, w)
	require.Len(t, inFall, 1)
	assert.Equal(t, "MATH101", inFall[0].Code)

	w = admin.do(http.MethodGet, fmt.Sprintf("/admin/subjects/%d/info", math.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	info := decodeData[dto.SubjectInfoResponse](t, w)
	assert.Equal(t, int64(1), info.ActiveTeacherCount)
	assert.Equal(t, int64(1), info.GroupCount)
	assert.False(t, info.CanBeDeleted)

	tom := login(t, router, "tom", "secret")
	w = tom.do(http.MethodGet, "/admin/dashboard", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	for _, value := range []float64{95, 85} {
		v := value
		w = tom.do(http.MethodPost, "/teacher/grades", dto.CreateGradeRequest{StudentID: student.ID, SubjectID: math.ID, GradeValue: &v})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	tooHigh := 101.0
	w = tom.do(http.MethodPost, "/teacher/grades", dto.CreateGradeRequest{StudentID: student.ID, SubjectID: math.ID, GradeValue: &tooHigh})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ok := 70.0
	w = tom.do(http.MethodPost, "/teacher/grades", dto.CreateGradeRequest{StudentID: student.ID, SubjectID: physics.ID, GradeValue: &ok})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, errorCode(t, w))

	w = tom.do(http.MethodGet, fmt.Sprintf("/teacher/subjects/%d/stats", math.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decodeData[domain.GradeSummary](t, w)
	assert.Equal(t, domain.GradeSummary{Count: 2, Average: 90, Min: 85, Max: 95}, stats)

	w = tom.do(http.MethodGet, fmt.Sprintf("/teacher/subjects/%d/grades", physics.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	amy := login(t, router, "amy", "secret")
	w = amy.do(http.MethodGet, "/student/average", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, dto.AverageResponse{Average: 90, Count: 2}, decodeData[dto.AverageResponse](t, w))

	w = amy.do(http.MethodGet, "/student/grades", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData[[]models.Grade](t, w), 2)

	w = amy.do(http.MethodGet, "/teacher/dashboard", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = admin.do(http.MethodGet, fmt.Sprintf("/admin/subjects/%d/grades/stats", math.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), decodeData[domain.GradeSummary](t, w).Count)

	w = admin.do(http.MethodDelete, fmt.Sprintf("/admin/groups/%d", group.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = admin.do(http.MethodGet, fmt.Sprintf("/admin/students/%d", student.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeData[dto.StudentResponse](t, w).GroupID)
}

func TestRouter_InputErrors(t *testing.T) {
	router, _ := newTestRouter(t)
	admin := login(t, router, "admin", "secret")

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantStatus int
	}{
		{"non numeric id", http.MethodGet, "/admin/groups/abc", nil, http.StatusBadRequest},
		{"unknown group", http.MethodGet, "/admin/groups/999", nil, http.StatusNotFound},
		{"bad initials", http.MethodPost, "/admin/groups", map[string]interface{}{"programInitials": "P1", "startYear": 24}, http.StatusBadRequest},
		{"year out of range", http.MethodPost, "/admin/groups", map[string]interface{}{"programInitials": "PI", "startYear": 100}, http.StatusBadRequest},
		{"assignment filter missing", http.MethodGet, "/admin/assignments", nil, http.StatusBadRequest},
		{"unknown code", http.MethodGet, "/admin/subjects/code/NOPE", nil, http.StatusNotFound},
		{"bad since", http.MethodGet, "/admin/grades?since=yesterday", nil, http.StatusBadRequest},
		{"bad page falls back", http.MethodGet, "/admin/students?page=zero", nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := admin.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}
