package utils

import (
	stderrors "errors"
	"net/http"

	apperrors "customer-portal/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HttpResponse is the envelope every endpoint answers with.
type HttpResponse struct {
	Status      bool              `json:"status"`
	Body        interface{}       `json:"body,omitempty"`
	Message     string            `json:"message"`
	TotalCount  *uint64           `json:"total_count,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, totalCount ...uint64) error {
	resp := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	if len(totalCount) > 0 {
		resp.TotalCount = &totalCount[0]
	}
	return ctx.JSON(code, resp)
}

// ErrorResponse maps an error to the proper status code and envelope.
// Validation errors are expanded into per-field messages; internal
// errors are logged and replaced with a generic message.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	var valErrs validator.ValidationErrors
	if stderrors.As(err, &valErrs) {
		fieldErrors := make(map[string]string, len(valErrs))
		for _, fe := range valErrs {
			fieldErrors[fe.Field()] = fe.Tag()
		}
		return ctx.JSON(http.StatusBadRequest, &HttpResponse{
			Status:      false,
			Message:     "validation failed",
			FieldErrors: fieldErrors,
		})
	}

	code := apperrors.StatusFor(err)
	message := err.Error()

	var httpErr *apperrors.HttpError
	if stderrors.As(err, &httpErr) {
		message = httpErr.Message
		if httpErr.Err != nil || httpErr.Context != nil {
			logger.Error("request failed",
				zap.String("uri", ctx.Request().RequestURI),
				zap.Any("context", httpErr.Context),
				zap.Error(httpErr.Err),
			)
		}
	}

	if code == http.StatusInternalServerError {
		logger.Error("internal error",
			zap.String("uri", ctx.Request().RequestURI),
			zap.Error(err),
		)
		message = "internal server error"
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	})
}
