package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devlink/bookings-api/internal/api/metrics"
	"github.com/devlink/bookings-api/internal/core/ports"
)

// WebhookDispatcher is the interface the handler uses to hand gateway
// events to the background verify workers.
type WebhookDispatcher interface {
	Enqueue(event ports.WebhookEvent)
}

// PaymentHandler handles payment initialization, verification, and gateway
// webhooks.
type PaymentHandler struct {
	service    ports.PaymentService
	dispatcher WebhookDispatcher
}

func NewPaymentHandler(service ports.PaymentService, dispatcher WebhookDispatcher) *PaymentHandler {
	return &PaymentHandler{service: service, dispatcher: dispatcher}
}

// Initialize handles POST /v1/bookings/:id/payments. It opens a gateway
// checkout session for the booking and returns the authorization URL.
//
// @Summary      Initialize a payment for a booking
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Booking ID"
// @Success      200  {object}  initializePaymentResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/bookings/{id}/payments [post]
func (h *PaymentHandler) Initialize(c echo.Context) error {
	principal, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.service.InitializePayment(c.Request().Context(), ports.InitializePaymentInput{
		BookingID:  c.Param("id"),
		CustomerID: principal.ID,
		Email:      principal.Email,
		Role:       role,
	})
	if err != nil {
		return err
	}

	metrics.PaymentsInitializedTotal.Inc()
	return c.JSON(http.StatusOK, initializePaymentResponse{
		Reference:        result.Reference,
		AuthorizationURL: result.AuthorizationURL,
		AccessCode:       result.AccessCode,
		AmountMinor:      result.AmountMinor,
	})
}

// Verify handles GET /v1/payments/:reference/verify. It synchronously checks
// the gateway and applies the result. Safe to call repeatedly.
//
// @Summary      Verify a payment with the gateway
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        reference  path      string  true  "Payment reference"
// @Success      200        {object}  paymentResponse
// @Failure      401        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Failure      502        {object}  errorResponse
// @Router       /v1/payments/{reference}/verify [get]
func (h *PaymentHandler) Verify(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	payment, err := h.service.VerifyPayment(c.Request().Context(), c.Param("reference"))
	if err != nil {
		return err
	}

	metrics.PaymentsVerifiedTotal.WithLabelValues(string(payment.Status)).Inc()
	return c.JSON(http.StatusOK, toPaymentResponse(payment))
}

// Webhook handles POST /v1/payments/webhook. It accepts a gateway charge
// event and hands it to the background workers. Always responds 200 so the
// gateway does not retry deliveries we have already queued; the workers
// verify with the gateway before trusting anything in the payload.
//
// @Summary      Receive a gateway charge webhook
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      webhookRequest  true  "Gateway event"
// @Success      200   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/payments/webhook [post]
func (h *PaymentHandler) Webhook(c echo.Context) error {
	var req webhookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Data.Reference == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing reference")
	}

	h.dispatcher.Enqueue(ports.WebhookEvent{
		Event:     req.Event,
		Reference: req.Data.Reference,
		Status:    req.Data.Status,
	})

	return c.JSON(http.StatusOK, acceptedResponse{Message: "event accepted"})
}
