package http

import (
	"net/http"
	"strconv"

	"peervest/internal/adapter/middleware"
	"peervest/internal/usecase/credit"
	"peervest/internal/usecase/identity"

	"github.com/labstack/echo/v4"
)

type IdentityHandler struct {
	identities *identity.Usecase
	profiles   *credit.Usecase
}

func NewIdentityHandler(i *identity.Usecase, p *credit.Usecase) *IdentityHandler {
	return &IdentityHandler{identities: i, profiles: p}
}

type registerReq struct {
	FullName string `json:"full_name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"max=32"`
}

func (h *IdentityHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.identities.Register(c.Request().Context(), identity.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *IdentityHandler) Get(c echo.Context) error {
	out, err := h.identities.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type submitDocumentReq struct {
	DocType     string `json:"doc_type" validate:"required,max=64"`
	ContentHash string `json:"content_hash" validate:"required,max=128"`
	Reference   string `json:"reference" validate:"max=64"`
}

func (h *IdentityHandler) SubmitDocument(c echo.Context) error {
	var req submitDocumentReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.identities.SubmitDocument(c.Request().Context(), c.Param("id"), identity.DocumentInput{
		DocType:     req.DocType,
		ContentHash: req.ContentHash,
		Reference:   req.Reference,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type verifyDocumentReq struct {
	Approved bool   `json:"approved"`
	Note     string `json:"note" validate:"max=500"`
}

func (h *IdentityHandler) VerifyDocument(c echo.Context) error {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid document index"})
	}
	var req verifyDocumentReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.identities.VerifyDocument(c.Request().Context(), middleware.ActorID(c), c.Param("id"), idx, req.Approved, req.Note)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type complianceReq struct {
	AMLPass       bool   `json:"aml_pass"`
	SanctionsPass bool   `json:"sanctions_pass"`
	PEPPass       bool   `json:"pep_pass"`
	RiskScore     int    `json:"risk_score" validate:"gte=0,lte=100"`
	Note          string `json:"note" validate:"max=500"`
}

func (h *IdentityHandler) RecordCompliance(c echo.Context) error {
	var req complianceReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	err := h.identities.RecordComplianceCheck(c.Request().Context(), middleware.ActorID(c), c.Param("id"), identity.ComplianceInput{
		AMLPass:       req.AMLPass,
		SanctionsPass: req.SanctionsPass,
		PEPPass:       req.PEPPass,
		RiskScore:     req.RiskScore,
		Note:          req.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *IdentityHandler) Eligibility(c echo.Context) error {
	eligible, err := h.identities.IsEligible(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"eligible": eligible})
}

type profileReq struct {
	MonthlyIncome    int64 `json:"monthly_income" validate:"gte=0"`
	EmploymentMonths int   `json:"employment_months" validate:"gte=0"`
	ExistingDebt     int64 `json:"existing_debt" validate:"gte=0"`
	HistoryMonths    int   `json:"history_months" validate:"gte=0"`
	PriorDefaults    int   `json:"prior_defaults" validate:"gte=0"`
	RecentInquiries  int   `json:"recent_inquiries" validate:"gte=0"`
}

func (r profileReq) input() credit.ProfileInput {
	return credit.ProfileInput{
		MonthlyIncome:    r.MonthlyIncome,
		EmploymentMonths: r.EmploymentMonths,
		ExistingDebt:     r.ExistingDebt,
		HistoryMonths:    r.HistoryMonths,
		PriorDefaults:    r.PriorDefaults,
		RecentInquiries:  r.RecentInquiries,
	}
}

func (h *IdentityHandler) CreateProfile(c echo.Context) error {
	var req profileReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.profiles.CreateProfile(c.Request().Context(), middleware.ActorID(c), c.Param("id"), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *IdentityHandler) RecomputeProfile(c echo.Context) error {
	var req profileReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.profiles.Recompute(c.Request().Context(), middleware.ActorID(c), c.Param("id"), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *IdentityHandler) Score(c echo.Context) error {
	dto, err := h.profiles.GetScore(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
