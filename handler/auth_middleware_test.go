package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"studygroup-api/model"
	"studygroup-api/service"
)

// captureIdentity records the identity seen by the next handler.
func captureIdentity(seen **model.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen, _ = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	alice := &model.Identity{Email: "alice@example.com", Authorities: []string{model.AuthorityUser}}

	testCases := []struct {
		name      string
		header    string
		setup     func(m *mockTokens)
		wantIdent *model.Identity
	}{
		{
			name:   "no header",
			header: "",
			setup:  func(m *mockTokens) {},
		},
		{
			name:   "malformed header",
			header: "Token abc",
			setup:  func(m *mockTokens) {},
		},
		{
			name:   "valid token",
			header: "Bearer good",
			setup: func(m *mockTokens) {
				m.On("Authenticate", "good").Return(alice, nil).Once()
			},
			wantIdent: alice,
		},
		{
			name:   "invalid token",
			header: "bearer bad",
			setup: func(m *mockTokens) {
				m.On("Authenticate", "bad").Return(nil, service.ErrInvalidToken).Once()
			},
		},
		{
			name:   "revoked token",
			header: "Bearer revoked",
			setup: func(m *mockTokens) {
				m.On("Authenticate", "revoked").Return(nil, service.ErrBlacklistedToken).Once()
			},
		},
		{
			name:   "token without authorities",
			header: "Bearer bare",
			setup: func(m *mockTokens) {
				m.On("Authenticate", "bare").Return(nil, service.ErrMissingAuthorities)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokens := new(mockTokens)
			tc.setup(tokens)

			var seen *model.Identity
			h := AuthMiddleware(tokens)(captureIdentity(&seen))

			req := httptest.NewRequest(http.MethodGet, "/api/members/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code, "the gateway never rejects")
			assert.Equal(t, tc.wantIdent, seen)
			tokens.AssertExpectations(t)
		})
	}
}

func TestRequireIdentity(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RequireIdentity(next)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), &model.Identity{Email: "a@example.com"}))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMapError(t *testing.T) {
	testCases := []struct {
		err     error
		status  int
		message string
	}{
		{service.ErrInvalidCredentials, http.StatusUnauthorized, service.ErrInvalidCredentials.Error()},
		{service.ErrBlacklistedToken, http.StatusUnauthorized, service.ErrBlacklistedToken.Error()},
		{service.ErrPermissionDenied, http.StatusForbidden, service.ErrPermissionDenied.Error()},
		{service.ErrGroupFull, http.StatusForbidden, service.ErrGroupFull.Error()},
		{service.ErrUnauthorized, http.StatusForbidden, service.ErrUnauthorized.Error()},
		{service.ErrParticipantNotFound, http.StatusNotFound, service.ErrParticipantNotFound.Error()},
		{service.ErrStudyGroupNotFound, http.StatusNotFound, service.ErrStudyGroupNotFound.Error()},
		{service.ErrEmailTaken, http.StatusConflict, service.ErrEmailTaken.Error()},
		{errors.New("pq: connection reset"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			appErr := mapError(tc.err)
			assert.Equal(t, tc.status, appErr.Code)
			assert.Equal(t, tc.message, appErr.Message)
		})
	}
}

func TestMapError_HidesWrappedDetail(t *testing.T) {
	err := fmt.Errorf("%w: %v", service.ErrInvalidToken, errors.New("token is malformed: could not base64 decode header"))
	appErr := mapError(err)

	assert.Equal(t, http.StatusUnauthorized, appErr.Code)
	assert.Equal(t, service.ErrInvalidToken.Error(), appErr.Message)
}
