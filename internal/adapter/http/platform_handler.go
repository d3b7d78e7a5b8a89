package http

import (
	"net/http"
	"strconv"

	"peervest/internal/adapter/middleware"
	roleDomain "peervest/internal/domain/role"
	treasuryDomain "peervest/internal/domain/treasury"
	"peervest/internal/usecase/platform"
	"peervest/internal/usecase/treasury"

	"github.com/labstack/echo/v4"
)

type PlatformHandler struct {
	platform *platform.Usecase
	treasury *treasury.Usecase
}

func NewPlatformHandler(p *platform.Usecase, t *treasury.Usecase) *PlatformHandler {
	return &PlatformHandler{platform: p, treasury: t}
}

func (h *PlatformHandler) Stats(c echo.Context) error {
	dto, err := h.platform.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PlatformHandler) Config(c echo.Context) error {
	cfg, err := h.platform.GetConfig(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cfg)
}

type rateUpdateReq struct {
	NewBps int64 `json:"new_bps" validate:"gte=0"`
}

func (h *PlatformHandler) UpdateFeeRate(c echo.Context) error {
	var req rateUpdateReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if err := h.platform.UpdateFeeRate(c.Request().Context(), middleware.ActorID(c), req.NewBps); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PlatformHandler) UpdateReserveRate(c echo.Context) error {
	var req rateUpdateReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if err := h.platform.UpdateReserveRate(c.Request().Context(), middleware.ActorID(c), req.NewBps); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PlatformHandler) Pause(c echo.Context) error {
	if err := h.platform.Pause(c.Request().Context(), middleware.ActorID(c)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PlatformHandler) Unpause(c echo.Context) error {
	if err := h.platform.Unpause(c.Request().Context(), middleware.ActorID(c)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PlatformHandler) TreasuryBalance(c echo.Context) error {
	dto, err := h.treasury.Balance(c.Request().Context(), treasuryDomain.Category(c.Param("category")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type withdrawReq struct {
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	Recipient string `json:"recipient" validate:"required,hex32"`
}

func (h *PlatformHandler) TreasuryWithdraw(c echo.Context) error {
	var req withdrawReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.treasury.Withdraw(c.Request().Context(), middleware.ActorID(c),
		treasuryDomain.Category(c.Param("category")), req.Amount, req.Recipient)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type grantRoleReq struct {
	Role string `json:"role" validate:"required"`
}

func (h *PlatformHandler) GrantRole(c echo.Context) error {
	var req grantRoleReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	r, err := roleDomain.Parse(req.Role)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.platform.GrantRole(c.Request().Context(), middleware.ActorID(c), c.Param("id"), r); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PlatformHandler) RevokeRole(c echo.Context) error {
	r, err := roleDomain.Parse(c.Param("role"))
	if err != nil {
		return writeError(c, err)
	}
	if err := h.platform.RevokeRole(c.Request().Context(), middleware.ActorID(c), c.Param("id"), r); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PlatformHandler) ListRoles(c echo.Context) error {
	as, err := h.platform.ListRoles(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"identity_id": c.Param("id"), "roles": as})
}

func (h *PlatformHandler) RecentEvents(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	evs, err := h.platform.RecentEvents(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"events": evs})
}
