package service

import (
	"context"
	"time"

	"reseller-server/internal/core/domain"
	"reseller-server/internal/core/ports"
	"reseller-server/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UserService implements ports.UserService. All operations are admin
// facing; role enforcement happens in the HTTP layer.
type UserService struct {
	users ports.UserRepository
	hash  ports.HashService
	cache ports.UserCache
	log   zerolog.Logger
}

// NewUserService creates a new user service. cache may be nil.
func NewUserService(users ports.UserRepository, hash ports.HashService, cache ports.UserCache, log zerolog.Logger) *UserService {
	return &UserService{
		users: users,
		hash:  hash,
		cache: cache,
		log:   log.With().Str("component", "user_service").Logger(),
	}
}

// CreateSeller provisions a new seller account with a zero balance.
// A duplicate mobile number surfaces as the database unique violation,
// which the response layer translates for the client.
func (s *UserService) CreateSeller(ctx context.Context, req ports.CreateSellerRequest) (*domain.User, error) {
	hashed, err := s.hash.Hash(req.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         req.Name,
		MobileNo:     req.MobileNo,
		PasswordHash: hashed,
		Role:         domain.RoleSeller,
		Balance:      0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("seller created")
	return user, nil
}

// List returns users matching the filter, with the total count for
// pagination.
func (s *UserService) List(ctx context.Context, params ports.UserListParams) ([]domain.User, int64, error) {
	return s.users.List(ctx, params)
}

// Delete removes a user and drops any cached snapshot so in-flight
// tokens stop verifying immediately.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NotFound("user")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("user_id", id.String()).Msg("failed to invalidate user cache")
		}
	}

	s.log.Info().Str("user_id", id.String()).Msg("user deleted")
	return nil
}
