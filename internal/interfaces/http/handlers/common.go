// Package handlers implements the HTTP endpoints of the analysis API.
// Handlers translate between the JSON wire contract and the application
// service; no chemistry lives here.
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
	types "github.com/moleculab/chemalyzer/pkg/types/analysis"
)

// messageForError extracts the user-facing message carried by an AppError.
// Errors without one are masked behind the generic internal message so
// wrapped causes never reach the wire.
func messageForError(err error) string {
	var ae *apperrors.AppError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return apperrors.DefaultMessageForCode(apperrors.CodeInternal)
}

// respondError writes the failure envelope with the HTTP status mapped from
// the error code. Unrecognized codes map to 500.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatusForCode(apperrors.GetCode(err))
	c.JSON(status, types.NewErrorResponse(messageForError(err)))
}
