package handler

import (
	"strconv"

	"reseller-server/internal/adapter/http/dto"
	"reseller-server/internal/adapter/http/middleware"
	"reseller-server/internal/core/domain"
	"reseller-server/internal/core/ports"
	"reseller-server/pkg/apperror"
	"reseller-server/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WithdrawalHandler handles withdrawal endpoints for sellers and admins.
type WithdrawalHandler struct {
	withdrawSvc ports.WithdrawService
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawSvc ports.WithdrawService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawSvc: withdrawSvc}
}

// Create handles POST /api/v1/withdrawals.
func (h *WithdrawalHandler) Create(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		response.Error(c, apperror.ErrUnauthorized())
		return
	}

	var req dto.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	w, err := h.withdrawSvc.Request(c.Request.Context(), ports.WithdrawRequest{
		UserID:        principal.UserID,
		Amount:        req.Amount,
		WalletName:    domain.WalletName(req.WalletName),
		WalletPhoneNo: req.WalletPhoneNo,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Withdrawal request submitted", dto.FromWithdrawal(w))
}

// ListOwn handles GET /api/v1/withdrawals.
func (h *WithdrawalHandler) ListOwn(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		response.Error(c, apperror.ErrUnauthorized())
		return
	}

	ws, err := h.withdrawSvc.ListForUser(c.Request.Context(), principal.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Withdrawals retrieved", dto.FromWithdrawals(ws))
}

// List handles GET /api/v1/admin/withdrawals.
func (h *WithdrawalHandler) List(c *gin.Context) {
	params := ports.WithdrawalListParams{
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.WithdrawalStatus(raw)
		switch status {
		case domain.WithdrawalStatusPending, domain.WithdrawalStatusApproved, domain.WithdrawalStatusRejected:
			params.Status = &status
		default:
			response.Error(c, apperror.Validation("Invalid withdrawal status"))
			return
		}
	}

	ws, total, err := h.withdrawSvc.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Withdrawals retrieved", dto.ListResponse{
		Items:    dto.FromWithdrawals(ws),
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
}

// Approve handles PATCH /api/v1/admin/withdrawals/:id/approve.
func (h *WithdrawalHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("Invalid withdrawal ID"))
		return
	}

	w, err := h.withdrawSvc.Approve(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Withdrawal approved", dto.FromWithdrawal(w))
}

// Reject handles PATCH /api/v1/admin/withdrawals/:id/reject.
func (h *WithdrawalHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("Invalid withdrawal ID"))
		return
	}

	var req dto.RejectWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	w, err := h.withdrawSvc.Reject(c.Request.Context(), id, req.Remarks)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Withdrawal rejected", dto.FromWithdrawal(w))
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
