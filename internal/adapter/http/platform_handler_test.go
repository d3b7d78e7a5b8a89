package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"peervest/internal/adapter/middleware"
	identityDomain "peervest/internal/domain/identity"
	platformDomain "peervest/internal/domain/platform"
	"peervest/internal/domain/role"
	"peervest/internal/domain/treasury"
	"peervest/internal/domain/uow"
	"peervest/internal/testutil/memuow"
	platformUC "peervest/internal/usecase/platform"
	treasuryUC "peervest/internal/usecase/treasury"
	"peervest/pkg/clock"
	"peervest/pkg/id"
)

type platformTestEnv struct {
	e     *echo.Echo
	store *memuow.Store
	admin string
}

func newPlatformEnv(t *testing.T) *platformTestEnv {
	t.Helper()
	store := memuow.New(platformDomain.Config{
		FeeRateBps:     100,
		ReserveRateBps: 200,
		MinAmount:      1000,
		MaxAmount:      100_000_000,
	})
	admin := id.NewID32()
	store.Grant(admin, role.Admin)
	clk := clock.NewFixed(time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC))
	h := NewPlatformHandler(platformUC.NewUsecase(store, clk), treasuryUC.NewUsecase(store, clk))

	actor := middleware.ActorExtractor()
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.GET("/platform/stats", h.Stats)
	e.GET("/platform/config", h.Config)
	e.GET("/treasury/:category", h.TreasuryBalance)
	e.PUT("/platform/fee-rate", h.UpdateFeeRate, actor)
	e.PUT("/platform/reserve-rate", h.UpdateReserveRate, actor)
	e.POST("/platform/pause", h.Pause, actor)
	e.POST("/platform/unpause", h.Unpause, actor)
	e.POST("/treasury/:category/withdraw", h.TreasuryWithdraw, actor)
	e.GET("/identities/:id/roles", h.ListRoles)
	e.GET("/events", h.RecentEvents)
	e.POST("/identities/:id/roles", h.GrantRole, actor)
	e.DELETE("/identities/:id/roles/:role", h.RevokeRole, actor)
	return &platformTestEnv{e: e, store: store, admin: admin}
}

func (env *platformTestEnv) do(t *testing.T, method, path string, body any, actor string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if actor != "" {
		req.Header.Set("X-Actor-Id", actor)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *platformTestEnv) creditFee(t *testing.T, amount int64) {
	t.Helper()
	ctx := context.Background()
	err := env.store.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Treasury.Append(ctx, &treasury.Entry{Category: treasury.CategoryFee, Amount: amount}); err != nil {
			return err
		}
		return r.Treasury.Credit(ctx, treasury.CategoryFee, amount)
	})
	require.NoError(t, err)
}

func TestPlatformHandler_StatsAndConfig(t *testing.T) {
	env := newPlatformEnv(t)

	rec := env.do(t, http.MethodGet, "/platform/stats", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total_loans_created":0`)

	rec = env.do(t, http.MethodGet, "/platform/config", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"fee_rate_bps":100`)
}

func TestPlatformHandler_UpdateRates(t *testing.T) {
	env := newPlatformEnv(t)

	rec := env.do(t, http.MethodPut, "/platform/fee-rate", map[string]int64{"new_bps": 250}, env.admin)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	require.Equal(t, int64(250), env.store.Config().FeeRateBps)

	// above the cap conflicts
	rec = env.do(t, http.MethodPut, "/platform/fee-rate", map[string]int64{"new_bps": 501}, env.admin)
	require.Equal(t, http.StatusConflict, rec.Code)

	// non-admin forbidden
	rec = env.do(t, http.MethodPut, "/platform/fee-rate", map[string]int64{"new_bps": 200}, id.NewID32())
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPut, "/platform/reserve-rate", map[string]int64{"new_bps": 900}, env.admin)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, int64(900), env.store.Config().ReserveRateBps)
}

func TestPlatformHandler_PauseUnpause(t *testing.T) {
	env := newPlatformEnv(t)

	rec := env.do(t, http.MethodPost, "/platform/pause", nil, env.admin)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, env.store.Config().Paused)

	rec = env.do(t, http.MethodPost, "/platform/unpause", nil, env.admin)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.False(t, env.store.Config().Paused)
}

func TestPlatformHandler_Treasury(t *testing.T) {
	env := newPlatformEnv(t)
	env.creditFee(t, 500)

	rec := env.do(t, http.MethodGet, "/treasury/fee", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"amount":500`)

	rec = env.do(t, http.MethodGet, "/treasury/escrow", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	recipient := id.NewID32()
	rec = env.do(t, http.MethodPost, "/treasury/fee/withdraw", map[string]any{
		"amount": 300, "recipient": recipient,
	}, env.admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, int64(200), env.store.Balance(treasury.CategoryFee))

	// overdraw conflicts
	rec = env.do(t, http.MethodPost, "/treasury/fee/withdraw", map[string]any{
		"amount": 201, "recipient": recipient,
	}, env.admin)
	require.Equal(t, http.StatusConflict, rec.Code)

	// non-admin forbidden
	rec = env.do(t, http.MethodPost, "/treasury/fee/withdraw", map[string]any{
		"amount": 10, "recipient": recipient,
	}, id.NewID32())
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPlatformHandler_Roles(t *testing.T) {
	env := newPlatformEnv(t)
	who := id.NewID32()
	env.store.SeedIdentity(identityDomain.Identity{IdentityID: who, Email: "ops@example.com"})

	rec := env.do(t, http.MethodPost, "/identities/"+who+"/roles", map[string]string{"role": "loan_approver"}, env.admin)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/identities/"+who+"/roles", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"role":"loan_approver"`)

	rec = env.do(t, http.MethodDelete, "/identities/"+who+"/roles/loan_approver", nil, env.admin)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/identities/"+who+"/roles", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "loan_approver")
}

func TestPlatformHandler_RoleGuards(t *testing.T) {
	env := newPlatformEnv(t)
	who := id.NewID32()
	env.store.SeedIdentity(identityDomain.Identity{IdentityID: who, Email: "ops@example.com"})

	// unknown role name
	rec := env.do(t, http.MethodPost, "/identities/"+who+"/roles", map[string]string{"role": "superuser"}, env.admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodDelete, "/identities/"+who+"/roles/superuser", nil, env.admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// non-admin actor
	rec = env.do(t, http.MethodPost, "/identities/"+who+"/roles", map[string]string{"role": "loan_approver"}, id.NewID32())
	require.Equal(t, http.StatusForbidden, rec.Code)

	// unknown identity
	rec = env.do(t, http.MethodPost, "/identities/"+id.NewID32()+"/roles", map[string]string{"role": "loan_approver"}, env.admin)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlatformHandler_RecentEvents(t *testing.T) {
	env := newPlatformEnv(t)

	rec := env.do(t, http.MethodPut, "/platform/fee-rate", map[string]int64{"new_bps": 250}, env.admin)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodPost, "/platform/pause", nil, env.admin)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/events?limit=1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"platform_paused"`)
	require.NotContains(t, rec.Body.String(), `"platform_fee_updated"`)

	rec = env.do(t, http.MethodGet, "/events", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"platform_fee_updated"`)
}
