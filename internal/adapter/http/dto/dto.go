package dto

import (
	"reseller-server/internal/core/domain"
)

// CreateWithdrawalRequest is the request body for a withdrawal request.
type CreateWithdrawalRequest struct {
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	WalletName    string `json:"walletName" binding:"required,oneof=bKash Nagad"`
	WalletPhoneNo string `json:"walletPhoneNo" binding:"required,bd_mobile"`
}

// CreateSellerRequest is the request body for admin seller creation.
type CreateSellerRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	MobileNo string `json:"mobileNo" binding:"required,bd_mobile"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// RejectWithdrawalRequest is the request body for a withdrawal rejection.
type RejectWithdrawalRequest struct {
	Remarks string `json:"remarks" binding:"required,min=1,max=500"`
}

// WithdrawalResponse is the response body for a single withdrawal.
type WithdrawalResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	Amount         int64   `json:"amount"`
	TransactionFee int64   `json:"transactionFee"`
	ActualAmount   int64   `json:"actualAmount"`
	WalletName     string  `json:"walletName"`
	WalletPhoneNo  string  `json:"walletPhoneNo"`
	Status         string  `json:"status"`
	Remarks        *string `json:"remarks,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// FromWithdrawal maps a domain withdrawal to its response body.
func FromWithdrawal(w *domain.Withdrawal) WithdrawalResponse {
	return WithdrawalResponse{
		ID:             w.ID.String(),
		UserID:         w.UserID.String(),
		Amount:         w.Amount,
		TransactionFee: w.TransactionFee,
		ActualAmount:   w.ActualAmount,
		WalletName:     string(w.WalletName),
		WalletPhoneNo:  w.WalletPhoneNo,
		Status:         string(w.Status),
		Remarks:        w.Remarks,
		CreatedAt:      w.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// FromWithdrawals maps a slice of domain withdrawals.
func FromWithdrawals(ws []domain.Withdrawal) []WithdrawalResponse {
	out := make([]WithdrawalResponse, 0, len(ws))
	for i := range ws {
		out = append(out, FromWithdrawal(&ws[i]))
	}
	return out
}

// UserResponse is the response body for a single user. The password
// hash never leaves the server.
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MobileNo  string `json:"mobileNo"`
	Role      string `json:"role"`
	Balance   int64  `json:"balance"`
	CreatedAt string `json:"created_at"`
}

// FromUser maps a domain user to its response body.
func FromUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		MobileNo:  u.MobileNo,
		Role:      string(u.Role),
		Balance:   u.Balance,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// FromUsers maps a slice of domain users.
func FromUsers(us []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(us))
	for i := range us {
		out = append(out, FromUser(&us[i]))
	}
	return out
}

// ListResponse wraps a paginated collection.
type ListResponse struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}
