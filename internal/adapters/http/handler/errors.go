package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/employee-awards/internal/core/auth"
	"github.com/ogurasousui/employee-awards/internal/core/award"
	"github.com/ogurasousui/employee-awards/internal/core/ballot"
	"github.com/ogurasousui/employee-awards/internal/core/employee"
	"github.com/ogurasousui/employee-awards/internal/core/results"
	"github.com/ogurasousui/employee-awards/internal/platform/logger"
)

// ErrorResponse はエラー時の JSON ボディです。
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrInvalidRequest はリクエストボディが解釈できない場合に返却されます。
var ErrInvalidRequest = errors.New("http: invalid request body")

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrAuthenticationRequired), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, "authentication_required"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, ballot.ErrAlreadyVoted):
		return http.StatusConflict, "already_voted"
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, ballot.ErrAwardNotFound),
		errors.Is(err, results.ErrUnknownAward),
		errors.Is(err, results.ErrUnknownNominee):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ballot.ErrInvalidVoterID),
		errors.Is(err, ballot.ErrIneligibleNominee),
		errors.Is(err, ballot.ErrDuplicateSelection),
		errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, award.ErrInvalidID):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// ErrorHandler はドメインエラーを HTTP ステータスと JSON ボディへ変換する echo.HTTPErrorHandler です。
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, kind := statusFor(err)
	message := err.Error()

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		kind = http.StatusText(code)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	}

	if code >= http.StatusInternalServerError {
		logger.FromContext(c.Request().Context()).Error().Err(err).Msg("request failed")
		message = http.StatusText(code)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, ErrorResponse{Error: kind, Message: message})
	}
	if writeErr != nil {
		logger.FromContext(c.Request().Context()).Warn().Err(writeErr).Msg("write error response")
	}
}
