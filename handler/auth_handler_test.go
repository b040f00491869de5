package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"studygroup-api/model"
	"studygroup-api/service"
)

func TestAuthHandler_Login(t *testing.T) {
	pair := &model.TokenPair{GrantType: "Bearer", AccessToken: "at", RefreshToken: "rt", AccessTokenExpiresIn: 1800, RefreshTokenExpiresIn: 1209600}

	testCases := []struct {
		name       string
		body       string
		setup      func(m *mockAuth)
		wantStatus int
		wantBody   string
	}{
		{
			name: "success",
			body: `{"email":"alice@example.com","password":"password123"}`,
			setup: func(m *mockAuth) {
				m.On("Login", model.LoginRequest{Email: "alice@example.com", Password: "password123"}).Return(pair, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"grant_type":"Bearer","access_token":"at","refresh_token":"rt","access_token_expires_in":1800,"refresh_token_expires_in":1209600}`,
		},
		{
			name: "wrong password",
			body: `{"email":"alice@example.com","password":"nope"}`,
			setup: func(m *mockAuth) {
				m.On("Login", model.LoginRequest{Email: "alice@example.com", Password: "nope"}).Return(nil, service.ErrInvalidCredentials)
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"code":401,"message":"invalid email or password"}`,
		},
		{
			name:       "invalid email",
			body:       `{"email":"alice","password":"password123"}`,
			setup:      func(m *mockAuth) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			auth := new(mockAuth)
			tc.setup(auth)
			h := NewAuthHandler(auth)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			ErrorHandlingMiddleware(h.Login).ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantBody != "" {
				assert.JSONEq(t, tc.wantBody, rr.Body.String())
			}
			auth.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	auth := new(mockAuth)
	auth.On("Logout", "access-token", "refresh-token").Return(nil)
	h := NewAuthHandler(auth)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", strings.NewReader(`{"refresh_token":"refresh-token"}`))
	req.Header.Set("Authorization", "Bearer access-token")
	rr := httptest.NewRecorder()
	ErrorHandlingMiddleware(h.Logout).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	auth.AssertExpectations(t)
}

func TestAuthHandler_Reissue(t *testing.T) {
	auth := new(mockAuth)
	auth.On("Reissue", "used-token").Return(nil, service.ErrInvalidRefreshToken)
	h := NewAuthHandler(auth)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/reissue", strings.NewReader(`{"refresh_token":"used-token"}`))
	rr := httptest.NewRecorder()
	ErrorHandlingMiddleware(h.Reissue).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"code":401,"message":"invalid refresh token"}`, rr.Body.String())
}

func TestAuthHandler_SignUpConflict(t *testing.T) {
	auth := new(mockAuth)
	req := model.SignUpRequest{Email: "alice@example.com", Password: "password123", Name: "Alice"}
	auth.On("SignUp", req).Return(nil, service.ErrEmailTaken)
	h := NewAuthHandler(auth)

	body := `{"email":"alice@example.com","password":"password123","name":"Alice"}`
	rr := httptest.NewRecorder()
	ErrorHandlingMiddleware(h.SignUp).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body)))

	assert.Equal(t, http.StatusConflict, rr.Code)
}
