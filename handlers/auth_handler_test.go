package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"asso-cms/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	loginResp *models.AuthResponse
	loginErr  error
}

func (s *stubAuthService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) GetUserByID(id uint) (*models.User, error) {
	return nil, models.ErrorNotFound{Message: "user not found"}
}

func (s *stubAuthService) UpdateProfile(id uint, req models.UpdateProfileRequest) (*models.User, error) {
	return nil, models.ErrorNotFound{Message: "user not found"}
}

type stubResetService struct {
	issueErr   error
	consumeErr error
	verifyErr  error
	issued     []string
}

func (s *stubResetService) Issue(email string) error {
	s.issued = append(s.issued, email)
	return s.issueErr
}

func (s *stubResetService) Consume(token, password string) (*models.User, error) {
	if s.consumeErr != nil {
		return nil, s.consumeErr
	}
	return (&models.User{ID: 1, Email: "claire@example.org"}).Public(), nil
}

func (s *stubResetService) Verify(token string) error {
	return s.verifyErr
}

func newAuthRouter(auth *stubAuthService, reset *stubResetService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(auth, reset)

	router := gin.New()
	router.POST("/api/auth/login", h.Login)
	router.POST("/api/auth/forgot-password", h.ForgotPassword)
	router.POST("/api/auth/reset-password", h.ResetPassword)
	router.POST("/api/auth/verify-reset-token", h.VerifyResetToken)
	return router
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginEndpoint_Success(t *testing.T) {
	user := &models.User{ID: 3, FirstName: "Alice", Email: "a@b.com", Role: models.RoleEditor, Active: true}
	auth := &stubAuthService{loginResp: &models.AuthResponse{
		Token: "signed.jwt.token",
		User:  user.Public(),
	}}
	router := newAuthRouter(auth, &stubResetService{})

	w := postJSON(router, "/api/auth/login", gin.H{"email": "a@b.com", "password": "correct"})

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "signed.jwt.token", body["token"])

	userBody, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "a@b.com", userBody["email"])
	_, hasPassword := userBody["password"]
	assert.False(t, hasPassword, "response must not carry a password field")
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	auth := &stubAuthService{loginErr: models.ErrorUnauthorized{Message: "invalid credentials"}}
	router := newAuthRouter(auth, &stubResetService{})

	w := postJSON(router, "/api/auth/login", gin.H{"email": "a@b.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginEndpoint_MissingFields(t *testing.T) {
	router := newAuthRouter(&stubAuthService{}, &stubResetService{})

	w := postJSON(router, "/api/auth/login", gin.H{"email": "a@b.com"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body["error"])

	fields, ok := body["fields"].(map[string]interface{})
	require.True(t, ok, "validation failures must carry per-field messages")
	messages, ok := fields["password"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "required")
}

func TestLoginEndpoint_MalformedJSON(t *testing.T) {
	router := newAuthRouter(&stubAuthService{}, &stubResetService{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(`{"email":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "fields")
}

func TestForgotPasswordEndpoint_GenericAnswer(t *testing.T) {
	reset := &stubResetService{}
	router := newAuthRouter(&stubAuthService{}, reset)

	w := postJSON(router, "/api/auth/forgot-password", gin.H{"email": "nobody@nowhere.com"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "If this address exists")
	assert.Equal(t, []string{"nobody@nowhere.com"}, reset.issued)
}

func TestResetPasswordEndpoint_ErrorReasons(t *testing.T) {
	tests := []struct {
		name       string
		consumeErr error
		wantStatus int
		wantReason string
	}{
		{"expired token", models.ErrorBadRequest{Message: "expired token"}, http.StatusBadRequest, "expired token"},
		{"used token", models.ErrorBadRequest{Message: "invalid or already used token"}, http.StatusBadRequest, "invalid or already used token"},
		{"disabled account", models.ErrorBadRequest{Message: "account disabled"}, http.StatusBadRequest, "account disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthRouter(&stubAuthService{}, &stubResetService{consumeErr: tt.consumeErr})

			w := postJSON(router, "/api/auth/reset-password", gin.H{"token": "deadbeef", "password": "newpass1"})
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantReason)
		})
	}
}

func TestResetPasswordEndpoint_Success(t *testing.T) {
	router := newAuthRouter(&stubAuthService{}, &stubResetService{})

	w := postJSON(router, "/api/auth/reset-password", gin.H{"token": "deadbeef", "password": "newpass1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestVerifyResetTokenEndpoint(t *testing.T) {
	router := newAuthRouter(&stubAuthService{}, &stubResetService{})
	w := postJSON(router, "/api/auth/verify-reset-token", gin.H{"token": "deadbeef"})
	assert.Equal(t, http.StatusOK, w.Code)

	router = newAuthRouter(&stubAuthService{}, &stubResetService{
		verifyErr: models.ErrorBadRequest{Message: "expired token"},
	})
	w = postJSON(router, "/api/auth/verify-reset-token", gin.H{"token": "deadbeef"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
