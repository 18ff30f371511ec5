package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonathan/resume-analyzer/internal/apiclient"
	"github.com/jonathan/resume-analyzer/internal/resume"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// HTTPStatus returns the appropriate HTTP status code for an error. Local
// validation failures are the caller's fault; anything the analysis backend did
// wrong is reported as a bad gateway.
func HTTPStatus(err error) int {
	var (
		validationErr *types.ValidationError
		httpErr       *apiclient.HTTPError
		networkErr    *apiclient.NetworkError
		decodeErr     *apiclient.DecodeError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, resume.ErrInvalidResumeContent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &httpErr), errors.As(err, &networkErr), errors.As(err, &decodeErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
