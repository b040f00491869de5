package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"studygroup-api/logger"
	"studygroup-api/model"
	"studygroup-api/repository"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	GrantType            = "Bearer"
	authoritiesDelimiter = ","
	blacklistMarker      = "true"
)

// AuthorityLookup resolves the current authorities of a token subject
// when a new access token is minted from a refresh token.
type AuthorityLookup func(ctx context.Context, subject string) ([]string, error)

// TokenService issues, parses, validates, reissues and revokes signed tokens.
type TokenService struct {
	store      repository.ITokenStore
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now for signing and validation.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(store repository.ITokenStore, secret string, accessTTL, refreshTTL time.Duration, opts ...TokenOption) *TokenService {
	s := &TokenService{
		store:      store,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a fresh access/refresh pair. It has no effect on the store.
func (s *TokenService) Issue(identity string, authorities []string) (*model.TokenPair, error) {
	now := s.now()
	joined := strings.Join(authorities, authoritiesDelimiter)

	access, err := s.sign(&model.AppClaims{
		Authorities:      &joined,
		RegisteredClaims: s.registered(identity, now, s.accessTTL),
	})
	if err != nil {
		return nil, err
	}

	refresh, err := s.sign(&model.AppClaims{
		Refresh:          true,
		RegisteredClaims: s.registered(identity, now, s.refreshTTL),
	})
	if err != nil {
		return nil, err
	}

	return &model.TokenPair{
		GrantType:             GrantType,
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresIn:  int64(s.accessTTL / time.Second),
		RefreshTokenExpiresIn: int64(s.refreshTTL / time.Second),
	}, nil
}

func (s *TokenService) registered(subject string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (s *TokenService) sign(claims *model.AppClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		logger.Log.WithError(err).WithField("subject", claims.Subject).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and decodes the claims. An expired token
// still returns its claims together with ErrExpiredToken.
func (s *TokenService) Parse(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err == nil {
		return claims, nil
	}
	if errors.Is(err, jwt.ErrTokenExpired) {
		return claims, ErrExpiredToken
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
}

// Validate is true iff the token verifies, is unexpired and, for access
// tokens, is not blacklisted.
func (s *TokenService) Validate(ctx context.Context, tokenString string) bool {
	claims, err := s.Parse(tokenString)
	if err != nil {
		logger.Log.WithError(err).Debug("Token validation failed")
		return false
	}
	if claims.Refresh {
		return true
	}
	blacklisted, err := s.isBlacklisted(ctx, tokenString)
	if err != nil {
		return false
	}
	return !blacklisted
}

// Authenticate resolves an access token to the caller's identity.
func (s *TokenService) Authenticate(ctx context.Context, accessToken string) (*model.Identity, error) {
	claims, err := s.Parse(accessToken)
	if err != nil {
		return nil, err
	}
	if claims.Refresh {
		return nil, fmt.Errorf("%w: refresh token presented for access", ErrInvalidToken)
	}

	blacklisted, err := s.isBlacklisted(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, ErrBlacklistedToken
	}

	if claims.Authorities == nil {
		return nil, ErrMissingAuthorities
	}
	var authorities []string
	for _, a := range strings.Split(*claims.Authorities, authoritiesDelimiter) {
		if a = strings.TrimSpace(a); a != "" {
			authorities = append(authorities, a)
		}
	}
	if len(authorities) == 0 {
		return nil, ErrEmptyAuthorities
	}

	return &model.Identity{Email: claims.Subject, Authorities: authorities}, nil
}

// Reissue exchanges a stored, unexpired refresh token for a new pair and
// replaces the identity's stored pair, so each refresh token works once.
func (s *TokenService) Reissue(ctx context.Context, refreshToken string, lookup AuthorityLookup) (*model.TokenPair, error) {
	claims, err := s.Parse(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}
	if !claims.Refresh {
		return nil, fmt.Errorf("%w: not a refresh token", ErrInvalidRefreshToken)
	}

	log := logger.Log.WithField("subject", claims.Subject)

	stored, err := s.store.Get(ctx, repository.RefreshKey(claims.Subject))
	if errors.Is(err, repository.ErrKeyNotFound) || (err == nil && stored != refreshToken) {
		log.Info("Refresh token does not match the stored token")
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}

	authorities, err := lookup(ctx, claims.Subject)
	if err != nil {
		log.WithError(err).Info("Could not resolve authorities for reissue")
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	pair, err := s.Issue(claims.Subject, authorities)
	if err != nil {
		return nil, err
	}
	if err := s.Persist(ctx, claims.Subject, pair); err != nil {
		return nil, err
	}

	log.Info("Token pair reissued")
	return pair, nil
}

// Persist publishes pair as the identity's current access/refresh tokens.
func (s *TokenService) Persist(ctx context.Context, identity string, pair *model.TokenPair) error {
	return s.store.ReplacePair(ctx, identity, pair.AccessToken, pair.RefreshToken, s.accessTTL, s.refreshTTL)
}

// Forget drops the identity's stored access/refresh tokens.
func (s *TokenService) Forget(ctx context.Context, identity string) error {
	return s.store.Delete(ctx, repository.AccessKey(identity), repository.RefreshKey(identity))
}

// Current returns the identity's stored access and refresh tokens. A missing
// entry is returned as "".
func (s *TokenService) Current(ctx context.Context, identity string) (access, refresh string, err error) {
	if access, err = s.stored(ctx, repository.AccessKey(identity)); err != nil {
		return "", "", err
	}
	if refresh, err = s.stored(ctx, repository.RefreshKey(identity)); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *TokenService) stored(ctx context.Context, key string) (string, error) {
	value, err := s.store.Get(ctx, key)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return "", nil
	}
	return value, err
}

// Revoke blacklists an access token for the rest of its lifetime and drops
// the identity's stored tokens. An already expired token is a no-op.
func (s *TokenService) Revoke(ctx context.Context, accessToken string) error {
	claims, err := s.Parse(accessToken)
	if errors.Is(err, ErrExpiredToken) {
		return nil
	}
	if err != nil {
		return err
	}

	remaining := claims.ExpiresAt.Time.Sub(s.now())
	if remaining <= 0 {
		return nil
	}

	logger.Log.WithFields(logrus.Fields{
		"subject":   claims.Subject,
		"remaining": remaining.String(),
	}).Info("Revoking access token")

	if err := s.store.Set(ctx, repository.BlacklistKey(accessToken), blacklistMarker, remaining); err != nil {
		return err
	}
	return s.Forget(ctx, claims.Subject)
}

func (s *TokenService) isBlacklisted(ctx context.Context, token string) (bool, error) {
	return s.store.Exists(ctx, repository.BlacklistKey(token))
}
