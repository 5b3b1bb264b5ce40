package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/ais/internal/pkg/validation"
)

// HandleValidationError writes a 400 response for a failed bind. Field
// errors from the validator are listed per field.
func HandleValidationError(ctx *gin.Context, err error) {
	detail := NewErrorDetail(ErrorCodeValidationFailed, "Invalid request data")
	if fields := validation.FieldErrors(err); fields != nil {
		detail = detail.WithDetails(fields)
	} else {
		detail = detail.WithDetails(err.Error())
	}
	ctx.JSON(http.StatusBadRequest, NewErrorResponse(detail))
}
