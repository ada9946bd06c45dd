package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"reseller-server/internal/adapter/http/middleware"
	"reseller-server/internal/core/domain"
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

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.ErrorEnvelope {
	t.Helper()
	var env response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// The verifier must not be consulted for an absent credential.
	verifier := mocks.NewMockTokenVerifier(ctrl)

	r := gin.New()
	r.GET("/protected", middleware.Authenticate(verifier, zerolog.Nop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, 401, env.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "Unauthorized", env.Message)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	verifier := mocks.NewMockTokenVerifier(ctrl)

	r := gin.New()
	r.GET("/protected", middleware.Authenticate(verifier, zerolog.Nop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, header := range []string{"Basic abc123", "bearer lowercase", "Bearer"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	verifier := mocks.NewMockTokenVerifier(ctrl)
	verifier.EXPECT().Verify(gomock.Any(), "bad-token").Return(nil, apperror.ErrUnauthorized())

	r := gin.New()
	r.GET("/protected", middleware.Authenticate(verifier, zerolog.Nop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decodeEnvelope(t, w).Message)
}

func TestAuthenticate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	verifier := mocks.NewMockTokenVerifier(ctrl)
	verifier.EXPECT().Verify(gomock.Any(), "good-token").Return(&domain.Principal{
		UserID: userID,
		Role:   domain.RoleSeller,
	}, nil)

	r := gin.New()
	r.GET("/protected", middleware.Authenticate(verifier, zerolog.Nop()), func(c *gin.Context) {
		principal := middleware.PrincipalFrom(c)
		require.NotNil(t, principal)
		assert.Equal(t, userID, principal.UserID)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_WrongRole(t *testing.T) {
	r := gin.New()
	r.GET("/admin",
		func(c *gin.Context) {
			c.Set(middleware.CtxPrincipal, &domain.Principal{UserID: uuid.New(), Role: domain.RoleSeller})
		},
		middleware.RequireRole(domain.RoleAdmin),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Admins only", decodeEnvelope(t, w).Message)
}

func TestRequireRole_SellerGuardMessage(t *testing.T) {
	r := gin.New()
	r.GET("/withdrawals",
		func(c *gin.Context) {
			c.Set(middleware.CtxPrincipal, &domain.Principal{UserID: uuid.New(), Role: domain.RoleAdmin})
		},
		middleware.RequireRole(domain.RoleSeller),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/withdrawals", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Sellers only", decodeEnvelope(t, w).Message)
}

func TestRequireRole_NoPrincipal(t *testing.T) {
	r := gin.New()
	r.GET("/admin", middleware.RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_Allows(t *testing.T) {
	r := gin.New()
	r.GET("/admin",
		func(c *gin.Context) {
			c.Set(middleware.CtxPrincipal, &domain.Principal{UserID: uuid.New(), Role: domain.RoleAdmin})
		},
		middleware.RequireRole(domain.RoleAdmin),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecovery_ReturnsEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Recovery(zerolog.Nop()))
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, 500, env.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "Internal Server Error", env.Message)
}
