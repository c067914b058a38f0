// Package handlers - Payment HTTP handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/jobportal/internal/adapters/http/common"
	"github.com/Haleralex/jobportal/internal/application/action"
	"github.com/Haleralex/jobportal/internal/application/ports"
)

// PaymentService - операции с платёжным провайдером.
type PaymentService interface {
	CreatePrice(ctx context.Context, amount int64) action.Result[string]
	CreateCheckout(ctx context.Context, items []ports.LineItem) action.Result[string]
}

// PaymentHandler обрабатывает HTTP запросы для оплаты membership.
type PaymentHandler struct {
	payments PaymentService
}

// NewPaymentHandler создаёт новый PaymentHandler.
func NewPaymentHandler(payments PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreatePriceRequest - запрос на создание тарифа.
type CreatePriceRequest struct {
	Amount int64 `json:"amount" binding:"required,gte=1"`
}

// CheckoutRequest - запрос на создание checkout-сессии.
type CheckoutRequest struct {
	LineItems []ports.LineItem `json:"lineItems" binding:"required,min=1,dive"`
}

// CreatePrice создаёт годовой тариф; data - id цены.
//
// @Router /api/v1/payments/prices [post]
func (h *PaymentHandler) CreatePrice(c *gin.Context) {
	var req CreatePriceRequest
	if !BindJSON(c, &req) {
		return
	}
	common.Render(c, http.StatusCreated, h.payments.CreatePrice(c.Request.Context(), req.Amount))
}

// CreateCheckout создаёт checkout-сессию; data - id сессии.
//
// @Router /api/v1/payments/checkout [post]
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	var req CheckoutRequest
	if !BindJSON(c, &req) {
		return
	}
	common.Render(c, http.StatusCreated, h.payments.CreateCheckout(c.Request.Context(), req.LineItems))
}
