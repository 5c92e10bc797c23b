package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/pathfinder-backend/internal/intake"
	"github.com/stemsi/pathfinder-backend/internal/response"
	"github.com/stemsi/pathfinder-backend/internal/service"
)

// apiError is the HTTP rendering of a domain error.
type apiError struct {
	status    int
	code      response.ErrCode
	fields    map[string]string
	retryable bool
}

// classify maps domain errors to status codes and error codes. Anything it
// does not recognize is an internal error.
func classify(err error) apiError {
	var answersErr *service.AnswersError
	switch {
	case errors.As(err, &answersErr):
		return apiError{status: http.StatusBadRequest, code: response.ErrInvalidAnswers, fields: answersErr.Fields}
	case errors.Is(err, service.ErrUnknownSection):
		return apiError{status: http.StatusNotFound, code: response.ErrUnknownSection}
	case errors.Is(err, intake.ErrNoAnswer), errors.Is(err, intake.ErrInvalidAnswer):
		return apiError{status: http.StatusBadRequest, code: response.ErrInvalidAnswers}
	case errors.Is(err, intake.ErrSaveFailed):
		return apiError{status: http.StatusServiceUnavailable, code: response.ErrSaveFailed, retryable: true}
	case errors.Is(err, intake.ErrSaveInFlight):
		return apiError{status: http.StatusConflict, code: response.ErrConflict, retryable: true}
	case errors.Is(err, service.ErrProfileBusy):
		return apiError{status: http.StatusConflict, code: response.ErrProfileBusy, retryable: true}
	case errors.Is(err, intake.ErrInvalidState),
		errors.Is(err, intake.ErrSectionBoundary),
		errors.Is(err, intake.ErrNotLastQuestion),
		errors.Is(err, intake.ErrLastQuestion):
		return apiError{status: http.StatusConflict, code: response.ErrConflict}
	case errors.Is(err, service.ErrNoSections):
		return apiError{status: http.StatusUnprocessableEntity, code: response.ErrNoSections}
	case errors.Is(err, service.ErrProfileNotFound):
		return apiError{status: http.StatusNotFound, code: response.ErrProfileNotFound}
	case errors.Is(err, service.ErrNarrativeNotFound):
		return apiError{status: http.StatusNotFound, code: response.ErrNotFound}
	case errors.Is(err, service.ErrNarrativeDisabled):
		return apiError{status: http.StatusServiceUnavailable, code: response.ErrNarrativeDisabled}
	case errors.Is(err, service.ErrNarrativeFailed):
		return apiError{status: http.StatusBadGateway, code: response.ErrNarrativeFailed, retryable: true}
	default:
		return apiError{status: http.StatusInternalServerError, code: response.ErrInternal, retryable: true}
	}
}

// fail writes the error envelope for err.
func fail(c *gin.Context, err error) {
	e := classify(err)
	if e.status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	response.FailBody(c, e.status, response.ErrorBody{
		Code:      e.code,
		Fields:    e.fields,
		Retryable: e.retryable,
	})
}
