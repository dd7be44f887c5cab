package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
)

// StripeProvider implements PaymentProvider over Stripe PaymentIntents. The
// provider order id is the PaymentIntent id.
type StripeProvider struct{}

// NewStripeProvider sets the global Stripe key and returns the provider.
func NewStripeProvider(secretKey string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{}
}

func (s *StripeProvider) Name() string { return "stripe" }

func (s *StripeProvider) GetOrder(ctx context.Context, providerOrderID string) (*ProviderOrder, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(providerOrderID, params)
	if err != nil {
		return nil, fmt.Errorf("get payment intent: %w", err)
	}

	return &ProviderOrder{
		ID:       pi.ID,
		Status:   stripeStatus(pi.Status),
		Amount:   decimal.NewFromInt(pi.Amount).Div(decimal.NewFromInt(100)),
		Currency: string(pi.Currency),
	}, nil
}

func (s *StripeProvider) Capture(ctx context.Context, providerOrderID string) (*ProviderCapture, error) {
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx

	pi, err := paymentintent.Capture(providerOrderID, params)
	if err != nil {
		return nil, fmt.Errorf("capture payment intent: %w", err)
	}

	transactionID := pi.ID
	if pi.LatestCharge != nil && pi.LatestCharge.ID != "" {
		transactionID = pi.LatestCharge.ID
	}

	return &ProviderCapture{
		Status:        stripeStatus(pi.Status),
		TransactionID: transactionID,
	}, nil
}

func stripeStatus(status stripe.PaymentIntentStatus) string {
	switch status {
	case stripe.PaymentIntentStatusRequiresCapture:
		return ProviderStatusApproved
	case stripe.PaymentIntentStatusSucceeded:
		return ProviderStatusCompleted
	case stripe.PaymentIntentStatusRequiresPaymentMethod,
		stripe.PaymentIntentStatusRequiresConfirmation:
		return ProviderStatusCreated
	default:
		return string(status)
	}
}
