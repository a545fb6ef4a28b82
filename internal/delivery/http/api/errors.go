package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avdoshkin/task-manager/internal/forms"
)

var (
	errInvalidRequestBody = errors.New("invalid request body")
	errInvalidCredentials = errors.New("unable to log in with provided credentials")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

// abortValidation reports field-level validation failures.
func abortValidation(c *gin.Context, errs forms.Errors) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": errs})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newForbiddenError(message string) apiError {
	return newAPIError(http.StatusForbidden, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}
