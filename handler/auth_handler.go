package handler

import (
	"context"
	"net/http"
	"studygroup-api/common"
	"studygroup-api/model"
)

// AuthService is the account and token workflow behind /api/auth.
type AuthService interface {
	SignUp(ctx context.Context, req model.SignUpRequest) (*model.Member, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	Reissue(ctx context.Context, refreshToken string) (*model.TokenPair, error)
}

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// SignUp godoc
// @Summary      Register a member
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.SignUpRequest  true  "Sign-up payload"
// @Success      201      {object}  model.Member
// @Failure      400      {object}  common.AppError
// @Failure      409      {object}  common.AppError
// @Router       /api/auth/signup [post]
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.SignUpRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	member, err := h.auth.SignUp(r.Context(), req)
	if err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusCreated, member)
	return nil
}

// Login godoc
// @Summary      Log in and receive a token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.LoginRequest  true  "Credentials"
// @Success      200      {object}  model.TokenPair
// @Failure      401      {object}  common.AppError
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	pair, err := h.auth.Login(r.Context(), req)
	if err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusOK, pair)
	return nil
}

// Logout godoc
// @Summary      Revoke the current tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      model.TokenRequest  true  "Refresh token"
// @Success      200      {object}  map[string]string
// @Failure      401      {object}  common.AppError
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.TokenRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	if err := h.auth.Logout(r.Context(), bearerToken(r), req.RefreshToken); err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	return nil
}

// Reissue godoc
// @Summary      Exchange a refresh token for a new pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.TokenRequest  true  "Refresh token"
// @Success      200      {object}  model.TokenPair
// @Failure      401      {object}  common.AppError
// @Router       /api/auth/reissue [post]
func (h *AuthHandler) Reissue(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.TokenRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	pair, err := h.auth.Reissue(r.Context(), req.RefreshToken)
	if err != nil {
		return mapError(err)
	}
	common.WriteJSON(w, http.StatusOK, pair)
	return nil
}
