package ports

import "context"

// LineItem - позиция checkout-сессии.
type LineItem struct {
	Price    string `json:"price" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required,gte=1"`
}

// PaymentGateway - внешний платёжный провайдер.
// Реализация непрозрачна для остального кода: идентификаторы возвращаются как есть.
type PaymentGateway interface {
	// CreatePrice создаёт годовую подписку на amount (в основных единицах валюты).
	CreatePrice(ctx context.Context, amount int64) (string, error)

	// CreateCheckoutSession создаёт checkout-сессию и возвращает её id.
	CreateCheckoutSession(ctx context.Context, items []LineItem) (string, error)
}
