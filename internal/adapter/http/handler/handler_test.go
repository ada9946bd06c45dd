package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"reseller-server/internal/adapter/http/handler"
	"reseller-server/internal/core/domain"
	"reseller-server/internal/core/ports"
	"reseller-server/internal/core/ports/mocks"
	"reseller-server/pkg/apperror"
	"reseller-server/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type routerTestDeps struct {
	router      *gin.Engine
	verifier    *mocks.MockTokenVerifier
	userSvc     *mocks.MockUserService
	withdrawSvc *mocks.MockWithdrawService
	ctrl        *gomock.Controller
}

func setupRouter(t *testing.T, checkers ...ports.HealthChecker) *routerTestDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := &routerTestDeps{
		verifier:    mocks.NewMockTokenVerifier(ctrl),
		userSvc:     mocks.NewMockUserService(ctrl),
		withdrawSvc: mocks.NewMockWithdrawService(ctrl),
		ctrl:        ctrl,
	}
	d.router = handler.SetupRouter(handler.RouterDeps{
		Verifier:       d.verifier,
		UserSvc:        d.userSvc,
		WithdrawSvc:    d.withdrawSvc,
		HealthCheckers: checkers,
		Logger:         zerolog.Nop(),
	})
	return d
}

func (d *routerTestDeps) expectPrincipal(token string, role domain.Role) uuid.UUID {
	userID := uuid.New()
	d.verifier.EXPECT().Verify(gomock.Any(), token).Return(&domain.Principal{
		UserID:   userID,
		MobileNo: "01712345678",
		Role:     role,
	}, nil)
	return userID
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeSuccess(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// ==================== Health ====================

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(context.Context) error { return s.err }
func (s stubChecker) Name() string               { return s.name }

func TestRouter_Health_AllHealthy(t *testing.T) {
	d := setupRouter(t, stubChecker{name: "postgresql"}, stubChecker{name: "redis"})
	defer d.ctrl.Finish()

	w := doJSON(t, d.router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeSuccess(t, w)
	assert.Equal(t, "healthy", body["status"])
}

func TestRouter_Health_Degraded(t *testing.T) {
	d := setupRouter(t,
		stubChecker{name: "postgresql"},
		stubChecker{name: "redis", err: errors.New("connection refused")},
	)
	defer d.ctrl.Finish()

	w := doJSON(t, d.router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	body := decodeSuccess(t, w)
	assert.Equal(t, "degraded", body["status"])
}

// ==================== Auth and role guards ====================

func TestRouter_Withdrawals_NoToken(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	w := doJSON(t, d.router, http.MethodGet, "/api/v1/withdrawals", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var env response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "Unauthorized", env.Message)
}

func TestRouter_Withdrawals_AdminRejected(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.expectPrincipal("admin-token", domain.RoleAdmin)

	w := doJSON(t, d.router, http.MethodGet, "/api/v1/withdrawals", "admin-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var env response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "Sellers only", env.Message)
}

func TestRouter_AdminWithdrawals_SellerRejected(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.expectPrincipal("seller-token", domain.RoleSeller)

	w := doJSON(t, d.router, http.MethodGet, "/api/v1/admin/withdrawals", "seller-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var env response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "Admins only", env.Message)
}

// ==================== Seller withdrawal flow ====================

func TestRouter_CreateWithdrawal_Success(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	userID := d.expectPrincipal("seller-token", domain.RoleSeller)
	d.withdrawSvc.EXPECT().Request(gomock.Any(), ports.WithdrawRequest{
		UserID:        userID,
		Amount:        2000,
		WalletName:    domain.WalletBkash,
		WalletPhoneNo: "01712345678",
	}).Return(&domain.Withdrawal{
		ID:             uuid.New(),
		UserID:         userID,
		Amount:         2000,
		TransactionFee: 10,
		ActualAmount:   1990,
		WalletName:     domain.WalletBkash,
		WalletPhoneNo:  "01712345678",
		Status:         domain.WithdrawalStatusPending,
	}, nil)

	w := doJSON(t, d.router, http.MethodPost, "/api/v1/withdrawals", "seller-token", gin.H{
		"amount":        2000,
		"walletName":    "bKash",
		"walletPhoneNo": "01712345678",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	body := decodeSuccess(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1990), data["actualAmount"])
	assert.Equal(t, "PENDING", data["status"])
}

func TestRouter_CreateWithdrawal_InvalidBody(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.expectPrincipal("seller-token", domain.RoleSeller)

	// Unknown wallet fails binding; the service is never called.
	w := doJSON(t, d.router, http.MethodPost, "/api/v1/withdrawals", "seller-token", gin.H{
		"amount":        2000,
		"walletName":    "Rocket",
		"walletPhoneNo": "01712345678",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var env response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, 400, env.StatusCode)
}

func TestRouter_CreateWithdrawal_BusinessError(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.expectPrincipal("seller-token", domain.RoleSeller)
	d.withdrawSvc.EXPECT().Request(gomock.Any(), gomock.Any()).
		Return(nil, apperror.Validation("Insufficient balance"))

	w := doJSON(t, d.router, http.MethodPost, "/api/v1/withdrawals", "seller-token", gin.H{
		"amount":        2000,
		"walletName":    "bKash",
		"walletPhoneNo": "01712345678",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var env response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "Insufficient balance", env.Message)
}

func TestRouter_ListOwnWithdrawals(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	userID := d.expectPrincipal("seller-token", domain.RoleSeller)
	d.withdrawSvc.EXPECT().ListForUser(gomock.Any(), userID).Return([]domain.Withdrawal{
		{ID: uuid.New(), UserID: userID, Amount: 500, Status: domain.WithdrawalStatusPending},
	}, nil)

	w := doJSON(t, d.router, http.MethodGet, "/api/v1/withdrawals", "seller-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeSuccess(t, w)
	assert.Len(t, body["data"], 1)
}

// ==================== Admin withdrawal flow ====================

func TestRouter_AdminListWithdrawals_StatusFilter(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.expectPrincipal("admin-token", domain.RoleAdmin)
	pending := domain.WithdrawalStatusPending
	d.withdrawSvc.EXPECT().List(gomock.Any(), ports.WithdrawalListParams{
		Status:   &pending,
		Page:     1,
		PageSize: 20,
	}).Return([]domain.Withdrawal{{}}, int64(1), nil)

	w := doJSON(t, d.router, http.MethodGet, "/api/v1/admin/withdrawals?status=PENDING", "admin-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_AdminListWithdrawals_BadStatus(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.expectPrincipal("admin-token", domain.RoleAdmin)

	w := doJSON(t, d.router, http.MethodGet, "/api/v1/admin/withdrawals?status=SETTLED", "admin-token", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_ApproveWithdrawal(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.expectPrincipal("admin-token", domain.RoleAdmin)
	withdrawalID := uuid.New()
	d.withdrawSvc.EXPECT().Approve(gomock.Any(), withdrawalID).Return(&domain.Withdrawal{
		ID:     withdrawalID,
		Status: domain.WithdrawalStatusApproved,
	}, nil)

	w := doJSON(t, d.router, http.MethodPatch, "/api/v1/admin/withdrawals/"+withdrawalID.String()+"/approve", "admin-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ApproveWithdrawal_BadID(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.expectPrincipal("admin-token", domain.RoleAdmin)

	w := doJSON(t, d.router, http.MethodPatch, "/api/v1/admin/withdrawals/not-a-uuid/approve", "admin-token", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_RejectWithdrawal(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.expectPrincipal("admin-token", domain.RoleAdmin)
	withdrawalID := uuid.New()
	d.withdrawSvc.EXPECT().Reject(gomock.Any(), withdrawalID, "wrong wallet number").Return(&domain.Withdrawal{
		ID:     withdrawalID,
		Status: domain.WithdrawalStatusRejected,
	}, nil)

	w := doJSON(t, d.router, http.MethodPatch, "/api/v1/admin/withdrawals/"+withdrawalID.String()+"/reject", "admin-token", gin.H{
		"remarks": "wrong wallet number",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RejectWithdrawal_MissingRemarks(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.expectPrincipal("admin-token", domain.RoleAdmin)

	w := doJSON(t, d.router, http.MethodPatch, "/api/v1/admin/withdrawals/"+uuid.New().String()+"/reject", "admin-token", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ==================== Admin user management ====================

func TestRouter_CreateSeller(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.expectPrincipal("admin-token", domain.RoleAdmin)
	d.userSvc.EXPECT().CreateSeller(gomock.Any(), ports.CreateSellerRequest{
		Name:     "Rahim",
		MobileNo: "01712345678",
		Password: "longenough",
	}).Return(&domain.User{
		ID:       uuid.New(),
		Name:     "Rahim",
		MobileNo: "01712345678",
		Role:     domain.RoleSeller,
	}, nil)

	w := doJSON(t, d.router, http.MethodPost, "/api/v1/admin/sellers", "admin-token", gin.H{
		"name":     "Rahim",
		"mobileNo": "01712345678",
		"password": "longenough",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	body := decodeSuccess(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Seller", data["role"])
	assert.NotContains(t, data, "password_hash")
}

func TestRouter_ListSellers(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.expectPrincipal("admin-token", domain.RoleAdmin)
	role := domain.RoleSeller
	d.userSvc.EXPECT().List(gomock.Any(), ports.UserListParams{
		Role:     &role,
		Page:     2,
		PageSize: 5,
	}).Return([]domain.User{{}, {}}, int64(12), nil)

	w := doJSON(t, d.router, http.MethodGet, "/api/v1/admin/sellers?page=2&page_size=5", "admin-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeSuccess(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(12), data["total"])
	assert.Equal(t, float64(2), data["page"])
}

func TestRouter_DeleteUser(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.expectPrincipal("admin-token", domain.RoleAdmin)
	userID := uuid.New()
	d.userSvc.EXPECT().Delete(gomock.Any(), userID).Return(nil)

	w := doJSON(t, d.router, http.MethodDelete, "/api/v1/admin/users/"+userID.String(), "admin-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_DeleteUser_NotFound(t *testing.T) {
	d := setupRouter(t)
	defer d.ctrl.Finish()

	d.expectPrincipal("admin-token", domain.RoleAdmin)
	userID := uuid.New()
	d.userSvc.EXPECT().Delete(gomock.Any(), userID).Return(apperror.NotFound("user"))

	w := doJSON(t, d.router, http.MethodDelete, "/api/v1/admin/users/"+userID.String(), "admin-token", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
