package grpcapi

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus converts a domain error into a gRPC status error. Errors that
// already carry a status are returned unchanged.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(codeOf(err), err.Error())
}

func codeOf(err error) codes.Code {
	switch {
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, domain.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, domain.ErrForbidden):
		return codes.PermissionDenied
	case errors.Is(err, domain.ErrConcurrentModification):
		return codes.Aborted
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrSettlementAlreadyFinalized):
		return codes.FailedPrecondition
	case errors.Is(err, domain.ErrQuantityExceeded):
		return codes.OutOfRange
	case errors.Is(err, domain.ErrValidation):
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}
