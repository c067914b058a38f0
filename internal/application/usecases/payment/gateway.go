// Package payment - оформление премиум-подписки через внешний платёжный провайдер.
package payment

import (
	"context"

	"github.com/Haleralex/jobportal/internal/application/action"
	"github.com/Haleralex/jobportal/internal/application/ports"
	domainerrors "github.com/Haleralex/jobportal/internal/domain/errors"
)

// Failure messages.
const (
	MsgPriceFailed    = "Failed to create payment plan. Please try again."
	MsgCheckoutFailed = "Failed to create payment session. Please try again."
)

// Gateway - платёжные операции. Соединение с БД не используется.
type Gateway struct {
	exec     *action.Executor
	provider ports.PaymentGateway
}

// NewGateway создаёт gateway.
func NewGateway(exec *action.Executor, provider ports.PaymentGateway) *Gateway {
	return &Gateway{exec: exec, provider: provider}
}

// CreatePrice создаёт годовой тариф на amount и возвращает его id.
func (g *Gateway) CreatePrice(ctx context.Context, amount int64) action.Result[string] {
	return action.Call(ctx, g.exec, "createPriceId", MsgPriceFailed, func(ctx context.Context) (string, error) {
		if amount <= 0 {
			return "", domainerrors.ValidationErrors{{Field: "amount", Message: "must be greater than 0"}}
		}
		return g.provider.CreatePrice(ctx, amount)
	})
}

// CreateCheckout создаёт checkout-сессию и возвращает её id.
func (g *Gateway) CreateCheckout(ctx context.Context, items []ports.LineItem) action.Result[string] {
	return action.Call(ctx, g.exec, "createStripePayment", MsgCheckoutFailed, func(ctx context.Context) (string, error) {
		if len(items) == 0 {
			return "", domainerrors.ValidationErrors{{Field: "lineItems", Message: "must not be empty"}}
		}
		return g.provider.CreateCheckoutSession(ctx, items)
	})
}
