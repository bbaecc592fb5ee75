package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/services"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/utils"
)

type FileController struct {
	fileService services.FileServiceInterface
	logger      *zap.Logger
}

func NewFileController(fileService services.FileServiceInterface, logger *zap.Logger) *FileController {
	return &FileController{fileService: fileService, logger: logger}
}

func (c *FileController) GetFiles(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	files, total, err := c.fileService.GetFiles(reqCtx, actor, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, files, "files listed", http.StatusOK, total)
}

func (c *FileController) FindFile(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	file, err := c.fileService.FindFile(reqCtx, actor, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, file, "file found", http.StatusOK)
}

// Upload expects multipart/form-data: the blob under "file", the
// metadata JSON under "data".
func (c *FileController) Upload(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	dataString := ctx.FormValue("data")
	if dataString == "" {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "form field 'data' is required", apperrors.ErrBadRequest, nil),
			c.logger)
	}

	var payload dto.CreateDownloadFileDTO
	if err := json.Unmarshal([]byte(dataString), &payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid JSON in 'data'", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "form field 'file' is required", err, nil),
			c.logger)
	}

	file, err := c.fileService.Upload(reqCtx, actor, payload, header)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, file, "file uploaded", http.StatusCreated)
}

func (c *FileController) UpdateFile(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateDownloadFileDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	file, err := c.fileService.UpdateFile(reqCtx, actor, id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, file, "file updated", http.StatusOK)
}

func (c *FileController) DeleteFile(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.fileService.DeleteFile(reqCtx, actor, id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "file deleted", http.StatusOK)
}

func (c *FileController) Download(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reader, file, err := c.fileService.Download(reqCtx, actor, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer reader.Close()

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+file.OriginalName+`"`)
	return ctx.Stream(http.StatusOK, file.MimeType, reader)
}
