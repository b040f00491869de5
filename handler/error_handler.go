package handler

import (
	"errors"
	"net/http"
	"strconv"
	"studygroup-api/common"
	"studygroup-api/service"
)

func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}

// mapError turns a service error into its HTTP status. Only the message of
// the matched domain error reaches the client.
func mapError(err error) *common.AppError {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, service.ErrEmailTaken):
		return common.NewAppError(http.StatusConflict, publicMessage(err), err)
	case service.IsNotFoundError(err):
		return common.NewAppError(http.StatusNotFound, publicMessage(err), err)
	case service.IsAuthError(err):
		return common.NewAppError(http.StatusUnauthorized, publicMessage(err), err)
	case service.IsMembershipError(err):
		return common.NewAppError(http.StatusForbidden, publicMessage(err), err)
	}
	return common.NewAppError(http.StatusInternalServerError, "Internal server error", err)
}

// publicMessage returns the innermost error of the chain, which for domain
// errors is the sentinel without any wrapped detail.
func publicMessage(err error) string {
	last := err
	for e := err; e != nil; e = errors.Unwrap(e) {
		last = e
	}
	return last.Error()
}

func pathID(r *http.Request, name string) (int, *common.AppError) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		return 0, common.NewAppError(http.StatusBadRequest, "Invalid "+name, err)
	}
	return id, nil
}
