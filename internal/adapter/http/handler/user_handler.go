package handler

import (
	"reseller-server/internal/adapter/http/dto"
	"reseller-server/internal/core/domain"
	"reseller-server/internal/core/ports"
	"reseller-server/pkg/apperror"
	"reseller-server/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles admin user management endpoints.
type UserHandler struct {
	userSvc ports.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userSvc ports.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// CreateSeller handles POST /api/v1/admin/sellers.
func (h *UserHandler) CreateSeller(c *gin.Context) {
	var req dto.CreateSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.userSvc.CreateSeller(c.Request.Context(), ports.CreateSellerRequest{
		Name:     req.Name,
		MobileNo: req.MobileNo,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Seller created", dto.FromUser(user))
}

// ListSellers handles GET /api/v1/admin/sellers.
func (h *UserHandler) ListSellers(c *gin.Context) {
	role := domain.RoleSeller
	params := ports.UserListParams{
		Role:     &role,
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "page_size", 20),
	}

	users, total, err := h.userSvc.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sellers retrieved", dto.ListResponse{
		Items:    dto.FromUsers(users),
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
}

// Delete handles DELETE /api/v1/admin/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("Invalid user ID"))
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User deleted", nil)
}
