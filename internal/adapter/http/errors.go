package http

import (
	"errors"
	"net/http"

	accountDomain "github.com/emiledger/backend/internal/domain/account"
	"github.com/emiledger/backend/internal/domain/actor"
	agentDomain "github.com/emiledger/backend/internal/domain/agent"
	"github.com/emiledger/backend/internal/domain/payment"
	"github.com/emiledger/backend/internal/domain/schedule"
	settlementDomain "github.com/emiledger/backend/internal/domain/settlement"
	"github.com/emiledger/backend/internal/usecase/approval"

	"github.com/labstack/echo/v4"
)

// writeDomainErr maps the core's error taxonomy onto HTTP statuses:
// validation 400/422, authorization 401/403, conflict 409, not-found 404,
// partial-failure 500 with the committed entry ids exposed for retry.
func writeDomainErr(c echo.Context, err error) error {
	var partial *approval.PartialError
	if errors.As(err, &partial) {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:    partial.Error(),
			EntryIDs: partial.EntryIDs,
			Partial:  true,
		})
	}

	switch {
	case errors.Is(err, agentDomain.ErrBadPIN):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, actor.ErrForbidden), errors.Is(err, agentDomain.ErrInactive):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, accountDomain.ErrNotFound),
		errors.Is(err, schedule.ErrNotFound),
		errors.Is(err, payment.ErrNotFound),
		errors.Is(err, agentDomain.ErrNotFound),
		errors.Is(err, settlementDomain.ErrNotFound),
		errors.Is(err, actor.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, schedule.ErrConflict),
		errors.Is(err, payment.ErrNotPending),
		errors.Is(err, accountDomain.ErrNotRunning):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, payment.ErrTotalsMismatch),
		errors.Is(err, payment.ErrReasonRequired),
		errors.Is(err, approval.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, payment.ErrNoEntries):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
