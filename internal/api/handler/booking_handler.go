package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devlink/bookings-api/internal/api/metrics"
	"github.com/devlink/bookings-api/internal/core/ports"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Create handles POST /v1/bookings.
//
// @Summary      Create a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookingRequest  true  "Booking details"
// @Success      201   {object}  bookingResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	principal, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	booking, err := h.service.CreateBooking(c.Request().Context(), ports.CreateBookingInput{
		CustomerID:  principal.ID,
		Service:     req.Service,
		ScheduledAt: req.ScheduledAt,
		Notes:       req.Notes,
		Amount:      req.Amount,
		Currency:    req.Currency,
	})
	if err != nil {
		return err
	}

	metrics.BookingsCreatedTotal.WithLabelValues(booking.Service).Inc()
	return c.JSON(http.StatusCreated, toBookingResponse(booking))
}

// Get handles GET /v1/bookings/:id.
//
// @Summary      Get a booking by ID
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Booking ID"
// @Success      200  {object}  bookingResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/bookings/{id} [get]
func (h *BookingHandler) Get(c echo.Context) error {
	principal, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	booking, err := h.service.GetBooking(c.Request().Context(), ports.GetBookingInput{
		BookingID:  c.Param("id"),
		Role:       role,
		CustomerID: principal.ID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toBookingResponse(booking))
}

// List handles GET /v1/bookings.
//
// @Summary      List bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by booking status"
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Success      200     {object}  listBookingsResponse
// @Failure      401     {object}  errorResponse
// @Router       /v1/bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	principal, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var q listBookingsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	result, err := h.service.ListBookings(c.Request().Context(), ports.ListBookingsInput{
		Role:       role,
		CustomerID: principal.ID,
		Status:     q.Status,
		Page:       q.Page,
		Limit:      q.Limit,
	})
	if err != nil {
		return err
	}

	resp := listBookingsResponse{
		Items:      make([]bookingResponse, 0, len(result.Items)),
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	}
	for _, b := range result.Items {
		resp.Items = append(resp.Items, toBookingResponse(b))
	}

	return c.JSON(http.StatusOK, resp)
}
