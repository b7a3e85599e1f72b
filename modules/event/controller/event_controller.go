package controller

import (
	"eventhub-api/core/constants"
	"eventhub-api/core/controller"
	"eventhub-api/core/errors"
	"eventhub-api/core/utils"
	"eventhub-api/modules/event/dto"
	"eventhub-api/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// EventController handles event and RSVP HTTP requests
type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
	RSVPService  service.RSVPServiceInterface
}

func NewEventController(eventSvc service.EventServiceInterface, rsvpSvc service.RSVPServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   eventSvc,
		RSVPService:    rsvpSvc,
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

func eventIDParam(ctx echo.Context) (uuid.UUID, error) {
	return uuid.Parse(ctx.Param("id"))
}

// Create handles POST /events
// @Summary Create a draft event
// @Tags Events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event payload"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} errors.AppError
// @Router /events [post]
func (c *EventController) Create(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.CreateEvent(ctx.Request().Context(), claims, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event created")
}

// List handles GET /events
// @Summary List published events
// @Tags Events
// @Produce json
// @Success 200 {array} dto.EventResponse
// @Router /events [get]
func (c *EventController) List(ctx echo.Context) error {
	result, appErr := c.EventService.ListPublished(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "OK")
}

// ListMine handles GET /events/mine
// @Summary List the caller's events
// @Tags Events
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.EventResponse
// @Router /events/mine [get]
func (c *EventController) ListMine(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.EventService.ListMyEvents(ctx.Request().Context(), claims)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "OK")
}

// Get handles GET /events/:id
// @Summary Get an event
// @Tags Events
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} errors.AppError
// @Router /events/{id} [get]
func (c *EventController) Get(ctx echo.Context) error {
	claims, _ := claimsFromContext(ctx)

	eventID, err := eventIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.EventService.GetEvent(ctx.Request().Context(), claims, eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "OK")
}

// GetByJoinCode handles GET /events/code/:code
// @Summary Look up a published event by join code
// @Tags Events
// @Produce json
// @Param code path string true "Join code"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} errors.AppError
// @Router /events/code/{code} [get]
func (c *EventController) GetByJoinCode(ctx echo.Context) error {
	result, appErr := c.EventService.GetEventByJoinCode(ctx.Request().Context(), ctx.Param("code"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "OK")
}

// Update handles PATCH /events/:id
// @Summary Update an event
// @Tags Events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Fields to change"
// @Success 200 {object} dto.EventResponse
// @Failure 409 {object} errors.AppError
// @Router /events/{id} [patch]
func (c *EventController) Update(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := eventIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	var req dto.UpdateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.UpdateEvent(ctx.Request().Context(), claims, eventID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event updated")
}

// Publish handles POST /events/:id/publish
// @Summary Publish a draft event
// @Tags Events
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 409 {object} errors.AppError
// @Router /events/{id}/publish [post]
func (c *EventController) Publish(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := eventIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.EventService.PublishEvent(ctx.Request().Context(), claims, eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event published")
}

// Cancel handles POST /events/:id/cancel
// @Summary Cancel an event
// @Tags Events
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Router /events/{id}/cancel [post]
func (c *EventController) Cancel(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := eventIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.EventService.CancelEvent(ctx.Request().Context(), claims, eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event cancelled")
}

// Attendees handles GET /events/:id/attendees
// @Summary List RSVPed attendees
// @Tags Events
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} dto.AttendeeResponse
// @Failure 403 {object} errors.AppError
// @Router /events/{id}/attendees [get]
func (c *EventController) Attendees(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := eventIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.EventService.ListAttendees(ctx.Request().Context(), claims, eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "OK")
}

// RSVP handles POST /events/:id/rsvp
// @Summary RSVP to an event
// @Tags RSVP
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.RSVPResult
// @Failure 409 {object} errors.AppError
// @Router /events/{id}/rsvp [post]
func (c *EventController) RSVP(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := eventIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.RSVPService.RSVP(ctx.Request().Context(), claims.UserID, eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "RSVP recorded")
}

// CancelRSVP handles DELETE /events/:id/rsvp
// @Summary Cancel an RSVP
// @Tags RSVP
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 204
// @Router /events/{id}/rsvp [delete]
func (c *EventController) CancelRSVP(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := eventIDParam(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	if appErr := c.RSVPService.CancelRSVP(ctx.Request().Context(), claims.UserID, eventID); appErr != nil {
		// Cancelling an RSVP that does not exist is not an error to the caller.
		if appErr.Reason == service.ReasonRSVPNotFound {
			return c.NoContentResponse(ctx)
		}
		return c.ErrorResponse(ctx, appErr)
	}
	return c.NoContentResponse(ctx)
}
