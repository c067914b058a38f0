// Package payment adapts the Stripe API to ports.PaymentGateway.
package payment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/Haleralex/jobportal/internal/application/ports"
	domainerrors "github.com/Haleralex/jobportal/internal/domain/errors"
	"github.com/Haleralex/jobportal/internal/domain/valueobjects"
	"github.com/Haleralex/jobportal/internal/pkg/metrics"
)

// Plan settings for the premium membership.
const (
	PlanName     = "Premium Plan"
	PlanInterval = stripe.PriceRecurringIntervalYear
)

// PlanCurrency is the currency the plan is billed in.
var PlanCurrency = valueobjects.INR

// Config holds the Stripe settings.
type Config struct {
	SecretKey string
	// BaseURL is the public site URL; checkout returns to BaseURL/membership.
	BaseURL string
	// APIURL overrides the Stripe API endpoint. Empty means the real API.
	APIURL string
	// MaxNetworkRetries is passed to the Stripe client.
	MaxNetworkRetries int64
}

// StripeAdapter creates prices and checkout sessions.
type StripeAdapter struct {
	api     *client.API
	baseURL string
	logger  *slog.Logger
}

var _ ports.PaymentGateway = (*StripeAdapter)(nil)

// New returns a Stripe adapter, or a Disabled one when no secret key is set.
func New(cfg Config, log *slog.Logger) ports.PaymentGateway {
	if log == nil {
		log = slog.Default()
	}
	if cfg.SecretKey == "" {
		log.Warn("Stripe secret key not set, payments are disabled")
		return Disabled{}
	}
	return NewStripeAdapter(cfg, log)
}

// NewStripeAdapter creates an adapter with its own client, leaving the
// package-level stripe.Key untouched.
func NewStripeAdapter(cfg Config, log *slog.Logger) *StripeAdapter {
	if log == nil {
		log = slog.Default()
	}

	backendCfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(cfg.MaxNetworkRetries),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(cfg.APIURL)
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendCfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendCfg),
	})

	return &StripeAdapter{
		api:     api,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  log.With(slog.String("component", "stripe")),
	}
}

// CreatePrice creates a yearly recurring price of amount in PlanCurrency major units.
func (a *StripeAdapter) CreatePrice(ctx context.Context, amount int64) (string, error) {
	unitAmount, err := minorUnits(amount)
	if err != nil {
		return "", err
	}

	params := &stripe.PriceParams{
		Currency:   stripe.String(PlanCurrency.Lower()),
		UnitAmount: stripe.Int64(unitAmount),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(string(PlanInterval)),
		},
		ProductData: &stripe.PriceProductDataParams{
			Name: stripe.String(PlanName),
		},
	}
	params.Context = ctx

	price, err := a.api.Prices.New(params)
	metrics.RecordPayment("create_price", err)
	if err != nil {
		return "", a.wrap("create price", err)
	}

	a.logger.InfoContext(ctx, "Stripe price created", slog.String("price_id", price.ID))
	return price.ID, nil
}

// CreateCheckoutSession creates a card subscription checkout for items.
func (a *StripeAdapter) CreateCheckoutSession(ctx context.Context, items []ports.LineItem) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(item.Price),
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		LineItems:                lineItems,
		Mode:                     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		SuccessURL:               stripe.String(a.membershipURL("success")),
		CancelURL:                stripe.String(a.membershipURL("cancel")),
	}
	params.Context = ctx

	session, err := a.api.CheckoutSessions.New(params)
	metrics.RecordPayment("create_checkout_session", err)
	if err != nil {
		return "", a.wrap("create checkout session", err)
	}

	a.logger.InfoContext(ctx, "Stripe checkout session created", slog.String("session_id", session.ID))
	return session.ID, nil
}

func (a *StripeAdapter) membershipURL(status string) string {
	return a.baseURL + "/membership?status=" + status
}

func minorUnits(amount int64) (int64, error) {
	m, err := valueobjects.NewMoneyFromInt(amount, PlanCurrency)
	if err == nil {
		var units int64
		if units, err = m.MinorUnits(); err == nil {
			return units, nil
		}
	}
	return 0, domainerrors.ValidationErrors{{Field: "amount", Message: err.Error()}}
}

func (a *StripeAdapter) wrap(op string, err error) error {
	return domainerrors.NewDomainError(domainerrors.CodePaymentFailed, "stripe: "+op, err)
}

// Disabled rejects every call with ErrPaymentsDisabled.
type Disabled struct{}

var _ ports.PaymentGateway = Disabled{}

// CreatePrice always fails.
func (Disabled) CreatePrice(context.Context, int64) (string, error) {
	return "", domainerrors.ErrPaymentsDisabled
}

// CreateCheckoutSession always fails.
func (Disabled) CreateCheckoutSession(context.Context, []ports.LineItem) (string, error) {
	return "", domainerrors.ErrPaymentsDisabled
}
