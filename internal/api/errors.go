package api

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"shareit/internal/domain"
)

const internalErrorMessage = "internal server error"

// httpStatus maps a domain error kind to its response code. Unknown errors are 500.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrUnsupportedState):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func grpcError(err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, domain.ErrForbidden):
		code = codes.PermissionDenied
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrUnsupportedState):
		code = codes.InvalidArgument
	case errors.Is(err, domain.ErrConflict):
		code = codes.AlreadyExists
	default:
		return status.Error(codes.Internal, internalErrorMessage)
	}
	return status.Error(code, err.Error())
}
