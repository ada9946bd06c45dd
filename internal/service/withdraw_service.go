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

// WithdrawService implements ports.WithdrawService. The seller's
// balance is only debited at approval time, inside a transaction that
// locks both the withdrawal and the user row.
type WithdrawService struct {
	withdrawals ports.WithdrawalRepository
	users       ports.UserRepository
	transactor  ports.DBTransactor
	cache       ports.UserCache
	log         zerolog.Logger
}

// NewWithdrawService creates a new withdrawal service. cache may be nil.
func NewWithdrawService(
	withdrawals ports.WithdrawalRepository,
	users ports.UserRepository,
	transactor ports.DBTransactor,
	cache ports.UserCache,
	log zerolog.Logger,
) *WithdrawService {
	return &WithdrawService{
		withdrawals: withdrawals,
		users:       users,
		transactor:  transactor,
		cache:       cache,
		log:         log.With().Str("component", "withdraw_service").Logger(),
	}
}

// Request creates a pending withdrawal. The fee schedule decides the
// fee and net payout; the seller must currently cover the gross amount,
// though the balance is not debited until approval.
func (s *WithdrawService) Request(ctx context.Context, req ports.WithdrawRequest) (*domain.Withdrawal, error) {
	details, err := domain.CalculateFee(req.WalletName, req.Amount)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}

	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user")
	}
	if user.Balance < req.Amount {
		return nil, apperror.Validation("Insufficient balance")
	}

	now := time.Now().UTC()
	w := &domain.Withdrawal{
		ID:             uuid.New(),
		UserID:         req.UserID,
		Amount:         details.Amount,
		TransactionFee: details.TransactionFee,
		ActualAmount:   details.ActualAmount,
		WalletName:     details.WalletName,
		WalletPhoneNo:  req.WalletPhoneNo,
		Status:         domain.WithdrawalStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.withdrawals.Create(ctx, w); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("withdrawal_id", w.ID.String()).
		Str("user_id", req.UserID.String()).
		Int64("amount", w.Amount).
		Int64("fee", w.TransactionFee).
		Msg("withdrawal requested")
	return w, nil
}

// ListForUser returns the caller's own withdrawals, newest first.
func (s *WithdrawService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Withdrawal, error) {
	return s.withdrawals.ListByUser(ctx, userID)
}

// List returns withdrawals matching the filter, with the total count.
func (s *WithdrawService) List(ctx context.Context, params ports.WithdrawalListParams) ([]domain.Withdrawal, int64, error) {
	return s.withdrawals.List(ctx, params)
}

// Approve settles a pending withdrawal, debiting the seller's balance.
// Both rows are locked for the duration so a concurrent approval or
// balance change cannot overdraw the account.
func (s *WithdrawService) Approve(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error) {
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	defer tx.Rollback(ctx)

	w, err := s.withdrawals.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, apperror.NotFound("withdrawal")
	}
	if w.IsSettled() {
		return nil, apperror.Conflict("Withdrawal has already been settled")
	}

	user, err := s.users.GetByIDForUpdate(ctx, tx, w.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user")
	}
	if user.Balance < w.Amount {
		return nil, apperror.Validation("Insufficient balance")
	}

	if err := s.users.UpdateBalance(ctx, tx, user.ID, user.Balance-w.Amount); err != nil {
		return nil, err
	}
	if err := s.withdrawals.UpdateStatus(ctx, tx, id, domain.WithdrawalStatusApproved, nil); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.Internal(err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, user.ID); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to invalidate user cache")
		}
	}

	w.Status = domain.WithdrawalStatusApproved
	s.log.Info().
		Str("withdrawal_id", id.String()).
		Str("user_id", user.ID.String()).
		Int64("amount", w.Amount).
		Msg("withdrawal approved")
	return w, nil
}

// Reject settles a pending withdrawal without touching the balance.
// Remarks are recorded for the seller to see.
func (s *WithdrawService) Reject(ctx context.Context, id uuid.UUID, remarks string) (*domain.Withdrawal, error) {
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	defer tx.Rollback(ctx)

	w, err := s.withdrawals.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, apperror.NotFound("withdrawal")
	}
	if w.IsSettled() {
		return nil, apperror.Conflict("Withdrawal has already been settled")
	}

	if err := s.withdrawals.UpdateStatus(ctx, tx, id, domain.WithdrawalStatusRejected, &remarks); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.Internal(err)
	}

	w.Status = domain.WithdrawalStatusRejected
	w.Remarks = &remarks
	s.log.Info().
		Str("withdrawal_id", id.String()).
		Str("remarks", remarks).
		Msg("withdrawal rejected")
	return w, nil
}
