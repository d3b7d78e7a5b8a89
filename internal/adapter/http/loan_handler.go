package http

import (
	"net/http"

	"peervest/internal/adapter/middleware"
	"peervest/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	BorrowerID       string `json:"borrower_id" validate:"required,hex32"`
	Amount           int64  `json:"amount" validate:"required,gt=0"`
	RequestedRateBps int64  `json:"requested_rate_bps" validate:"required,gt=0"`
	TermMonths       int    `json:"term_months" validate:"required,gt=0"`
	Purpose          string `json:"purpose" validate:"required,max=500"`
}

func (h *LoanHandler) Create(c echo.Context) error {
	var req createLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), loan.CreateInput{
		BorrowerID:       req.BorrowerID,
		Amount:           req.Amount,
		RequestedRateBps: req.RequestedRateBps,
		TermMonths:       req.TermMonths,
		Purpose:          req.Purpose,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) Approve(c echo.Context) error {
	dto, err := h.uc.Approve(c.Request().Context(), middleware.ActorID(c), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type fundLoanReq struct {
	LenderID string `json:"lender_id" validate:"required,hex32"`
	Amount   int64  `json:"amount" validate:"required,gt=0"`
}

func (h *LoanHandler) Fund(c echo.Context) error {
	var req fundLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Fund(c.Request().Context(), c.Param("loan_id"), loan.FundInput{
		LenderID: req.LenderID,
		Amount:   req.Amount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type repayLoanReq struct {
	BorrowerID string `json:"borrower_id" validate:"required,hex32"`
	Amount     int64  `json:"amount" validate:"required,gt=0"`
}

func (h *LoanHandler) Repay(c echo.Context) error {
	var req repayLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Repay(c.Request().Context(), c.Param("loan_id"), loan.RepayInput{
		BorrowerID: req.BorrowerID,
		Amount:     req.Amount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) MarkDefaulted(c echo.Context) error {
	dto, err := h.uc.MarkDefaulted(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) List(c echo.Context) error {
	out, err := h.uc.AllLoans(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) ListByBorrower(c echo.Context) error {
	out, err := h.uc.BorrowerLoans(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) Events(c echo.Context) error {
	evs, err := h.uc.Events(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loan_id": c.Param("loan_id"), "events": evs})
}
