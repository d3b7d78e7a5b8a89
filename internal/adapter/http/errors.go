package http

import (
	"errors"
	"net/http"

	"peervest/internal/domain/credit"
	"peervest/internal/domain/identity"
	"peervest/internal/domain/loan"
	"peervest/internal/domain/platform"
	"peervest/internal/domain/role"
	"peervest/internal/domain/treasury"

	"github.com/labstack/echo/v4"
)

// statusFor maps engine errors onto the three spec classes: validation
// (400), authorization (403), state-conflict (409), plus 404 for lookups.
func statusFor(err error) int {
	switch {
	case errors.Is(err, loan.ErrInvalidAmount),
		errors.Is(err, loan.ErrInvalidRate),
		errors.Is(err, loan.ErrInvalidTerm),
		errors.Is(err, role.ErrUnknownRole),
		errors.Is(err, loan.ErrIncorrectFundingAmount),
		errors.Is(err, loan.ErrIncorrectRepaymentAmount):
		return http.StatusBadRequest

	case errors.Is(err, role.ErrUnauthorized),
		errors.Is(err, loan.ErrBorrowerNotVerified),
		errors.Is(err, loan.ErrLenderNotEligible),
		errors.Is(err, loan.ErrSelfFunding),
		errors.Is(err, loan.ErrNotBorrower):
		return http.StatusForbidden

	case errors.Is(err, loan.ErrAlreadyApproved),
		errors.Is(err, loan.ErrNotApproved),
		errors.Is(err, loan.ErrAlreadyFunded),
		errors.Is(err, loan.ErrNotFunded),
		errors.Is(err, loan.ErrNotPastDue),
		errors.Is(err, platform.ErrSystemPaused),
		errors.Is(err, platform.ErrFeeRateTooHigh),
		errors.Is(err, platform.ErrReserveRateTooHigh),
		errors.Is(err, treasury.ErrInsufficientBalance),
		errors.Is(err, identity.ErrDuplicate),
		errors.Is(err, credit.ErrProfileExists):
		return http.StatusConflict

	case errors.Is(err, loan.ErrNotFound),
		errors.Is(err, identity.ErrNotFound),
		errors.Is(err, identity.ErrNoSuchDocument),
		errors.Is(err, credit.ErrNotFound),
		errors.Is(err, platform.ErrConfigNotFound),
		errors.Is(err, treasury.ErrUnknownCategory):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
}
