package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"fairhouse/engine"
)

// Response is the common envelope for status and error reporting.
type Response struct {
	Status int    `json:"status"`
	Error  string `json:"error,omitempty"`
}

func OK() Response {
	return Response{Status: http.StatusOK}
}

func Error(msg string, status int) Response {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return Response{Status: status, Error: msg}
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is required", err.Field()))
		case "oneof":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s has an unsupported value", err.Field()))
		case "max":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is invalid", err.Field()))
		}
	}

	return Response{
		Status: http.StatusBadRequest,
		Error:  strings.Join(errMsgs, ", "),
	}
}

// errStatus maps domain errors to HTTP statuses. Internal details never
// reach the client; unknown errors collapse to a generic 500.
func errStatus(err error) (int, string) {
	switch {
	case errors.Is(err, engine.ErrSeedNotFound):
		return http.StatusConflict, "no active server seed"
	case errors.Is(err, engine.ErrActiveSeedExists):
		return http.StatusConflict, "an active server seed already exists"
	case errors.Is(err, engine.ErrSeedAlreadyRevealed):
		return http.StatusConflict, "server seed already revealed"
	case errors.Is(err, engine.ErrStaleSeed):
		return http.StatusConflict, "server seed was rotated, retry the request"
	case errors.Is(err, engine.ErrSeedNotRevealed):
		return http.StatusConflict, "server seed not yet revealed"
	case errors.Is(err, engine.ErrNonceConflict):
		return http.StatusConflict, "nonce already consumed, retry the request"
	case errors.Is(err, engine.ErrInvalidClientSeed):
		return http.StatusBadRequest, "invalid client seed"
	case errors.Is(err, engine.ErrUnknownGame):
		return http.StatusBadRequest, "unknown game type"
	case errors.Is(err, engine.ErrUnknownCrate):
		return http.StatusBadRequest, "unknown crate"
	case errors.Is(err, engine.ErrRoundNotFound):
		return http.StatusNotFound, "round not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
