package service

import (
	"context"
	"fmt"
	"time"

	"reseller-server/internal/core/domain"
	"reseller-server/internal/core/ports"
	"reseller-server/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// userCacheTTL bounds how stale the existence check may be after a
// user is recreated; deletions invalidate eagerly.
const userCacheTTL = 5 * time.Minute

// JWTTokenVerifier implements ports.TokenVerifier using HS256 JWT.
// It only verifies; this server never mints tokens.
type JWTTokenVerifier struct {
	secret []byte
	users  ports.UserRepository
	cache  ports.UserCache
	log    zerolog.Logger
}

// NewJWTTokenVerifier creates a new JWT token verifier. cache may be
// nil to disable the lookup cache.
func NewJWTTokenVerifier(secret string, users ports.UserRepository, cache ports.UserCache, log zerolog.Logger) *JWTTokenVerifier {
	return &JWTTokenVerifier{
		secret: []byte(secret),
		users:  users,
		cache:  cache,
		log:    log,
	}
}

// Verify validates the credential and resolves it to a Principal.
// Every failure mode — bad signature, expiry, malformed claims, user no
// longer existing — collapses to the same Unauthorized error so the
// caller cannot tell which check failed. The cause is logged at debug
// level only.
func (s *JWTTokenVerifier) Verify(ctx context.Context, tokenString string) (*domain.Principal, error) {
	principal, err := s.decode(tokenString)
	if err != nil {
		s.log.Debug().Err(err).Msg("token rejected")
		return nil, apperror.ErrUnauthorized()
	}

	user, err := s.lookupUser(ctx, principal.UserID)
	if err != nil {
		s.log.Debug().Err(err).Str("user_id", principal.UserID.String()).Msg("user lookup failed")
		return nil, apperror.ErrUnauthorized()
	}
	if user == nil {
		s.log.Debug().Str("user_id", principal.UserID.String()).Msg("token references deleted user")
		return nil, apperror.ErrUnauthorized()
	}

	return principal, nil
}

// decode checks signature and expiry and extracts the claims.
func (s *JWTTokenVerifier) decode(tokenString string) (*domain.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("missing subject claim")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", err)
	}

	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("missing role claim")
	}

	mobileNo, _ := claims["mobile_no"].(string)

	return &domain.Principal{
		UserID:   userID,
		MobileNo: mobileNo,
		Role:     domain.Role(role),
	}, nil
}

// lookupUser confirms the token's subject still exists, reading through
// the cache when one is configured.
func (s *JWTTokenVerifier) lookupUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if s.cache != nil {
		if user, err := s.cache.Get(ctx, id); err != nil {
			s.log.Warn().Err(err).Msg("user cache read failed, falling back to repository")
		} else if user != nil {
			return user, nil
		}
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user != nil && s.cache != nil {
		if err := s.cache.Set(ctx, user, userCacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("user cache write failed")
		}
	}
	return user, nil
}
