package ports

import (
	"context"
	"time"

	"reseller-server/internal/core/domain"

	"github.com/google/uuid"
)

// TokenVerifier validates a bearer credential and resolves it to the
// Principal it proves. Verification only — this service never mints
// tokens.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Principal, error)
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// UserCache caches user snapshots in front of UserRepository for the
// per-request existence check during token verification.
type UserCache interface {
	// Get returns nil, nil on a cache miss.
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Set(ctx context.Context, user *domain.User, ttl time.Duration) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

// --- Service Ports (Business Logic) ---

// UserService defines user administration, available to admins only.
type UserService interface {
	CreateSeller(ctx context.Context, req CreateSellerRequest) (*domain.User, error)
	List(ctx context.Context, params UserListParams) ([]domain.User, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateSellerRequest holds validated input for seller creation.
type CreateSellerRequest struct {
	Name     string
	MobileNo string
	Password string
}

// WithdrawService defines the withdrawal lifecycle.
type WithdrawService interface {
	Request(ctx context.Context, req WithdrawRequest) (*domain.Withdrawal, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Withdrawal, error)
	List(ctx context.Context, params WithdrawalListParams) ([]domain.Withdrawal, int64, error)
	Approve(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error)
	Reject(ctx context.Context, id uuid.UUID, remarks string) (*domain.Withdrawal, error)
}

// WithdrawRequest holds validated input for a withdrawal request.
type WithdrawRequest struct {
	UserID        uuid.UUID
	Amount        int64
	WalletName    domain.WalletName
	WalletPhoneNo string
}
