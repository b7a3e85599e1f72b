package controller

import (
	"eventhub-api/core/constants"
	"eventhub-api/core/controller"
	"eventhub-api/core/errors"
	"eventhub-api/core/utils"
	"eventhub-api/modules/resume/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ResumeController handles resume upload and status HTTP requests
type ResumeController struct {
	controller.BaseController
	ResumeService service.ResumeServiceInterface
}

func NewResumeController(svc service.ResumeServiceInterface) *ResumeController {
	return &ResumeController{
		BaseController: controller.NewBaseController(),
		ResumeService:  svc,
	}
}

func claimsFromContext(ctx echo.Context) (*utils.TokenClaims, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}
	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}
	return claims, nil
}

// Upload handles POST /resumes
// @Summary Upload a resume for asynchronous parsing
// @Tags Resumes
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF or DOCX file"
// @Success 202 {object} dto.ResumeResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /resumes [post]
func (c *ResumeController) Upload(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "could not read uploaded file")
	}
	defer src.Close()

	result, appErr := c.ResumeService.Upload(ctx.Request().Context(), claims,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), src)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.AcceptedResponse(ctx, result, "Resume accepted for parsing")
}

// Latest handles GET /resumes/latest
// @Summary Get the caller's most recent resume version
// @Tags Resumes
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ResumeResponse
// @Failure 404 {object} errors.AppError
// @Router /resumes/latest [get]
func (c *ResumeController) Latest(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.ResumeService.GetLatest(ctx.Request().Context(), claims)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "OK")
}

// Status handles GET /resumes/:id
// @Summary Poll the parsing status of a resume version
// @Tags Resumes
// @Security BearerAuth
// @Produce json
// @Param id path string true "Resume version ID"
// @Success 200 {object} dto.ResumeStatusResponse
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /resumes/{id} [get]
func (c *ResumeController) Status(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	resumeID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid resume id")
	}

	result, appErr := c.ResumeService.GetStatus(ctx.Request().Context(), claims, resumeID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "OK")
}
