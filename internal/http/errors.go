package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/AhWirayudha/timesheet/internal/models"
	"github.com/AhWirayudha/timesheet/internal/service"
)

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (re ResponseError) Error() string {
	return re.Message
}

func newResponseError(code string, msg string) ResponseError {
	return ResponseError{
		Code:    code,
		Message: msg,
	}
}

func newInternalError(msg string, args ...any) ResponseError {
	return newResponseError(ErrCodeInternal, fmt.Sprintf(msg, args...))
}

func (rtr *router) handleError(w http.ResponseWriter, err error) {
	respErr := rtr.mapError(err)
	status := statusForCode(respErr.Code)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&models.ErrorResponse{
		Error: models.Error{
			Code:    respErr.Code,
			Message: respErr.Message,
		},
	})
}

func (rtr *router) mapError(err error) ResponseError {
	var respErr ResponseError
	if errors.As(err, &respErr) {
		return respErr
	}

	switch {
	case errors.Is(err, service.ErrTeamValidation), errors.Is(err, service.ErrInviteValidation):
		return newResponseError(ErrCodeValidation, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		return newResponseError(ErrCodePermissionDenied, "requester is not a team owner")
	case errors.Is(err, service.ErrTeamNotFound), errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrInvitationNotFound), errors.Is(err, service.ErrUserNotFound):
		return newResponseError(ErrCodeNotFound, "resource not found")
	case errors.Is(err, service.ErrAlreadyMember):
		return newResponseError(ErrCodeAlreadyMember, "user already belongs to a team")
	case errors.Is(err, service.ErrLastOwner):
		return newResponseError(ErrCodeLastOwner, "team owners cannot be removed")
	case errors.Is(err, service.ErrInvitationNotPending):
		return newResponseError(ErrCodeInvalidState, "invitation is no longer pending")
	case errors.Is(err, service.ErrEmailMismatch):
		return newResponseError(ErrCodeEmailMismatch, "invitation is addressed to a different email")
	default:
		return newInternalError("internal error")
	}
}

func statusForCode(code string) int {
	switch code {
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case ErrCodePermissionDenied:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyMember, ErrCodeLastOwner, ErrCodeInvalidState, ErrCodeEmailMismatch:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
