package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriscan/backend/internal/apperrors"
	"github.com/pageza/nutriscan/backend/internal/middleware"
	"github.com/pageza/nutriscan/backend/internal/types"
)

const msgInvalidBody = "Corps de requête JSON invalide"

// bindError classifies a JSON binding failure
func bindError(err error) *apperrors.AppError {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.NewPayloadTooLargeError(middleware.MsgPayloadTooLarge, err)
	}
	return apperrors.NewBadRequestError(msgInvalidBody).WithDetails(err.Error())
}

// respondError writes {"error": ...} with the status of err
func respondError(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err, "")
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.StatusCode(), types.ErrorResponse{
		Error:   appErr.Message,
		Details: internalDetails(appErr),
	})
}

// respondFailure writes {"success": false, "error": ...} with the status of err
func respondFailure(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err, "")
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.StatusCode(), types.FailureResponse{
		Success: false,
		Error:   appErr.Message,
	})
}

// internalDetails exposes the cause of unclassified failures only
func internalDetails(appErr *apperrors.AppError) string {
	if appErr.Details != "" {
		return appErr.Details
	}
	if appErr.Code == apperrors.CodeInternal && appErr.Cause != nil {
		return appErr.Cause.Error()
	}
	return ""
}
