package handler

import (
	"context"
	"errors"

	"github.com/ogurasousui/employee-awards/internal/core/auth"
	"github.com/ogurasousui/employee-awards/internal/core/ballot"
	"github.com/ogurasousui/employee-awards/internal/core/employee"
	"github.com/ogurasousui/employee-awards/internal/core/results"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auth.ErrAuthenticationRequired),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, auth.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, ballot.ErrInvalidVoterID),
		errors.Is(err, ballot.ErrIneligibleNominee),
		errors.Is(err, ballot.ErrDuplicateSelection):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ballot.ErrAlreadyVoted):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, ballot.ErrAwardNotFound),
		errors.Is(err, results.ErrUnknownAward),
		errors.Is(err, results.ErrUnknownNominee):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
