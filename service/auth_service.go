package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"studygroup-api/logger"
	"studygroup-api/model"
	"studygroup-api/repository"
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const uniqueViolation = "23505"

// AuthService handles sign-up, login, logout and token reissue.
type AuthService struct {
	members    repository.IMemberRepository
	tokens     *TokenService
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(members repository.IMemberRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		members:    members,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// SignUp creates a member account with a hashed password.
func (s *AuthService) SignUp(ctx context.Context, req model.SignUpRequest) (*model.Member, error) {
	if _, err := s.members.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hashed, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	member := model.NewMember(req.Email, hashed, req.Name, s.now())
	if err := s.members.Create(ctx, member); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return member, nil
}

// Login checks the credentials, then issues and stores a fresh token pair.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.TokenPair, error) {
	log := logger.Log.WithField("email", req.Email)

	member, err := s.members.GetByEmail(ctx, req.Email)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("Login attempt for unknown email")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.CheckPasswordHash(req.Password, member.Password) {
		log.Info("Login attempt with wrong password")
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(member.Email, member.Authorities())
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Persist(ctx, member.Email, pair); err != nil {
		return nil, err
	}

	if err := s.members.TouchLastLogin(ctx, member.ID, s.now()); err != nil {
		log.WithError(err).Warn("Could not record last login")
	}

	log.Info("Member logged in")
	return pair, nil
}

// Logout ends the session the refresh token belongs to. The refresh token
// must be the identity's stored one unless it has already expired. The
// presented access token and the stored one are both revoked.
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := s.tokens.Parse(refreshToken)
	expired := errors.Is(err, ErrExpiredToken)
	if err != nil && !expired {
		return fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}
	if !claims.Refresh {
		return ErrInvalidRefreshToken
	}

	log := logger.Log.WithField("email", claims.Subject)

	storedAccess, storedRefresh, err := s.tokens.Current(ctx, claims.Subject)
	if err != nil {
		return err
	}
	if storedRefresh != refreshToken && (storedRefresh != "" || !expired) {
		log.Info("Refresh token does not match the stored token")
		return ErrInvalidRefreshToken
	}

	if accessToken != "" {
		accessClaims, err := s.tokens.Parse(accessToken)
		if err != nil && !errors.Is(err, ErrExpiredToken) {
			return err
		}
		if accessClaims.Subject != claims.Subject {
			return fmt.Errorf("%w: access and refresh tokens belong to different identities", ErrInvalidToken)
		}
		if err := s.tokens.Revoke(ctx, accessToken); err != nil {
			return err
		}
	}
	if storedAccess != "" && storedAccess != accessToken {
		if err := s.tokens.Revoke(ctx, storedAccess); err != nil {
			return err
		}
	}

	if err := s.tokens.Forget(ctx, claims.Subject); err != nil {
		return err
	}
	log.Info("Member logged out")
	return nil
}

func (s *AuthService) Reissue(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	return s.tokens.Reissue(ctx, refreshToken, s.authoritiesOf)
}

func (s *AuthService) authoritiesOf(ctx context.Context, email string) ([]string, error) {
	member, err := s.members.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return member.Authorities(), nil
}
