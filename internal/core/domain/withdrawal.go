package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WalletName identifies a mobile-wallet payout provider.
type WalletName string

const (
	WalletBkash WalletName = "bKash"
	WalletNagad WalletName = "Nagad"
)

// WalletNames lists every supported provider.
var WalletNames = []WalletName{WalletBkash, WalletNagad}

// WithdrawalStatus represents the settlement state of a withdrawal.
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "PENDING"
	WithdrawalStatusApproved WithdrawalStatus = "APPROVED"
	WithdrawalStatusRejected WithdrawalStatus = "REJECTED"
)

// Withdrawal is a seller's payout request.
type Withdrawal struct {
	ID             uuid.UUID        `json:"id"`
	UserID         uuid.UUID        `json:"user_id"`
	Amount         int64            `json:"amount"`
	TransactionFee int64            `json:"transactionFee"`
	ActualAmount   int64            `json:"actualAmount"`
	WalletName     WalletName       `json:"walletName"`
	WalletPhoneNo  string           `json:"walletPhoneNo"`
	Status         WithdrawalStatus `json:"status"`
	Remarks        *string          `json:"remarks,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// IsSettled returns true once the withdrawal has left the pending state.
func (w *Withdrawal) IsSettled() bool {
	return w.Status != WithdrawalStatusPending
}

// WithdrawalDetails is the outcome of a fee calculation: what the seller
// asked for, what it costs, and what the wallet account receives.
type WithdrawalDetails struct {
	Amount         int64      `json:"amount"`
	TransactionFee int64      `json:"transactionFee"`
	ActualAmount   int64      `json:"actualAmount"`
	WalletName     WalletName `json:"walletName"`
}

// FeeConfig is the fee schedule for one wallet provider. The fee depends
// only on the gross amount: a flat SmallAmountFee up to and including
// SmallAmountThreshold, LargeAmountFee above it, plus — for providers
// that charge a marginal surcharge — LargeAmountFeePerThousand for every
// full thousand of the gross amount.
type FeeConfig struct {
	MinWithdrawAmount         int64
	SmallAmountThreshold      int64
	SmallAmountFee            int64
	LargeAmountFee            int64
	LargeAmountFeePerThousand int64 // 0 = flat fee above threshold
}

// feeConfigs maps each wallet provider to its fee schedule. The map is
// never mutated after process start; ValidateFeeConfigs guards against
// a provider being added without a schedule.
var feeConfigs = map[WalletName]FeeConfig{
	WalletBkash: {
		MinWithdrawAmount:    50,
		SmallAmountThreshold: 1000,
		SmallAmountFee:       5,
		LargeAmountFee:       10,
	},
	WalletNagad: {
		MinWithdrawAmount:         50,
		SmallAmountThreshold:      1000,
		SmallAmountFee:            5,
		LargeAmountFee:            10,
		LargeAmountFeePerThousand: 5,
	},
}

// FeeConfigFor returns the fee schedule for the given provider.
func FeeConfigFor(wallet WalletName) (FeeConfig, bool) {
	cfg, ok := feeConfigs[wallet]
	return cfg, ok
}

// ValidateFeeConfigs verifies that every wallet provider has a sane fee
// schedule. Called once at startup.
func ValidateFeeConfigs() error {
	for _, name := range WalletNames {
		cfg, ok := feeConfigs[name]
		if !ok {
			return fmt.Errorf("no fee config for wallet %s", name)
		}
		if cfg.MinWithdrawAmount <= 0 {
			return fmt.Errorf("wallet %s: minimum withdrawal must be positive", name)
		}
		if cfg.SmallAmountThreshold < cfg.MinWithdrawAmount {
			return fmt.Errorf("wallet %s: threshold below minimum withdrawal", name)
		}
		if cfg.SmallAmountFee < 0 || cfg.LargeAmountFee < 0 || cfg.LargeAmountFeePerThousand < 0 {
			return fmt.Errorf("wallet %s: fees must be non-negative", name)
		}
	}
	return nil
}

// CalculateFee computes the transaction fee and net payout for a
// withdrawal of amount via the given wallet provider. The fee is derived
// solely from the amount and the provider's schedule.
func CalculateFee(wallet WalletName, amount int64) (*WithdrawalDetails, error) {
	cfg, ok := feeConfigs[wallet]
	if !ok {
		return nil, fmt.Errorf("unsupported wallet %q", wallet)
	}
	if amount < cfg.MinWithdrawAmount {
		return nil, fmt.Errorf("minimum withdrawal for %s is %d", wallet, cfg.MinWithdrawAmount)
	}

	var fee int64
	if amount <= cfg.SmallAmountThreshold {
		fee = cfg.SmallAmountFee
	} else {
		fee = cfg.LargeAmountFee + cfg.LargeAmountFeePerThousand*(amount/1000)
	}

	actual := amount - fee
	if actual < 0 {
		return nil, fmt.Errorf("fee %d exceeds withdrawal amount %d", fee, amount)
	}

	return &WithdrawalDetails{
		Amount:         amount,
		TransactionFee: fee,
		ActualAmount:   actual,
		WalletName:     wallet,
	}, nil
}
