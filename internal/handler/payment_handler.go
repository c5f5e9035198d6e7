package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mpetrovskiy/reward-service/internal/dto"
	"github.com/mpetrovskiy/reward-service/internal/service"
)

// PaymentHandler handles payment provider requests
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreateCustomer registers the user with the payment provider
// @Summary Create payment customer
// @Description Create a Stripe customer for the authenticated user; one per user
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Customer request"
// @Success 201 {object} dto.CustomerResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /payments/customer [post]
func (h *PaymentHandler) CreateCustomer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	response, err := h.paymentService.CreateCustomer(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// AddCard attaches a card from a provider card token
// @Summary Attach a card
// @Description Exchange a Stripe card token for a stored payment method
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AddCardRequest true "Card request"
// @Success 201 {object} dto.CardResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /payments/cards [post]
func (h *PaymentHandler) AddCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.AddCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	response, err := h.paymentService.AttachCard(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Charge charges a previously stored card
// @Summary Charge a card
// @Description Run a payment against a stored card; failed attempts are recorded too
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ChargeRequest true "Charge request"
// @Success 200 {object} dto.ChargeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /payments/charges [post]
func (h *PaymentHandler) Charge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	response, err := h.paymentService.Charge(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
