package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "customer-portal/pkg/errors"
)

func parseIDParam(ctx echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(
			http.StatusBadRequest,
			"invalid id",
			err,
			map[string]interface{}{"param": ctx.Param(name)},
		)
	}
	return id, nil
}
