package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"peervest/internal/domain/credit"
	"peervest/internal/domain/identity"
	"peervest/internal/domain/loan"
	"peervest/internal/domain/platform"
	"peervest/internal/domain/role"
	"peervest/internal/domain/treasury"
)

func TestHealth(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, NewHandler().Health(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
	require.Contains(t, rec.Body.String(), `"service":"peervest"`)
	require.Contains(t, rec.Body.String(), `"uptime"`)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{loan.ErrInvalidAmount, http.StatusBadRequest},
		{loan.ErrInvalidRate, http.StatusBadRequest},
		{loan.ErrInvalidTerm, http.StatusBadRequest},
		{loan.ErrIncorrectFundingAmount, http.StatusBadRequest},
		{loan.ErrIncorrectRepaymentAmount, http.StatusBadRequest},
		{role.ErrUnknownRole, http.StatusBadRequest},

		{role.ErrUnauthorized, http.StatusForbidden},
		{loan.ErrBorrowerNotVerified, http.StatusForbidden},
		{loan.ErrLenderNotEligible, http.StatusForbidden},
		{loan.ErrSelfFunding, http.StatusForbidden},
		{loan.ErrNotBorrower, http.StatusForbidden},

		{loan.ErrAlreadyApproved, http.StatusConflict},
		{loan.ErrNotApproved, http.StatusConflict},
		{loan.ErrAlreadyFunded, http.StatusConflict},
		{loan.ErrNotFunded, http.StatusConflict},
		{loan.ErrNotPastDue, http.StatusConflict},
		{platform.ErrSystemPaused, http.StatusConflict},
		{platform.ErrFeeRateTooHigh, http.StatusConflict},
		{platform.ErrReserveRateTooHigh, http.StatusConflict},
		{treasury.ErrInsufficientBalance, http.StatusConflict},
		{identity.ErrDuplicate, http.StatusConflict},
		{credit.ErrProfileExists, http.StatusConflict},

		{loan.ErrNotFound, http.StatusNotFound},
		{identity.ErrNotFound, http.StatusNotFound},
		{identity.ErrNoSuchDocument, http.StatusNotFound},
		{credit.ErrNotFound, http.StatusNotFound},
		{platform.ErrConfigNotFound, http.StatusNotFound},
		{treasury.ErrUnknownCategory, http.StatusNotFound},

		{echo.ErrTeapot, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, statusFor(tc.err), "error %v", tc.err)
	}
}
