package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/plutov/paypal/v4"
	"github.com/shopspring/decimal"
)

// PayPalProvider implements PaymentProvider over the PayPal Orders v2 API.
type PayPalProvider struct {
	client *paypal.Client
}

// NewPayPalProvider creates the PayPal client and obtains an access token.
// sandbox selects the sandbox API base.
func NewPayPalProvider(clientID, clientSecret string, sandbox bool) (*PayPalProvider, error) {
	base := paypal.APIBaseLive
	if sandbox {
		base = paypal.APIBaseSandBox
	}

	client, err := paypal.NewClient(clientID, clientSecret, base)
	if err != nil {
		return nil, fmt.Errorf("create paypal client: %w", err)
	}
	if _, err := client.GetAccessToken(context.Background()); err != nil {
		return nil, fmt.Errorf("paypal access token: %w", err)
	}

	return &PayPalProvider{client: client}, nil
}

func (p *PayPalProvider) Name() string { return "paypal" }

func (p *PayPalProvider) GetOrder(ctx context.Context, providerOrderID string) (*ProviderOrder, error) {
	order, err := p.client.GetOrder(ctx, providerOrderID)
	if err != nil {
		return nil, fmt.Errorf("get paypal order: %w", err)
	}
	if len(order.PurchaseUnits) == 0 || order.PurchaseUnits[0].Amount == nil {
		return nil, fmt.Errorf("paypal order %s has no purchase unit amount", providerOrderID)
	}

	unit := order.PurchaseUnits[0]
	amount, err := decimal.NewFromString(unit.Amount.Value)
	if err != nil {
		return nil, fmt.Errorf("parse paypal amount %q: %w", unit.Amount.Value, err)
	}

	return &ProviderOrder{
		ID:       order.ID,
		Status:   paypalStatus(order.Status),
		Amount:   amount,
		Currency: unit.Amount.Currency,
	}, nil
}

func (p *PayPalProvider) Capture(ctx context.Context, providerOrderID string) (*ProviderCapture, error) {
	capture, err := p.client.CaptureOrder(ctx, providerOrderID, paypal.CaptureOrderRequest{})
	if err != nil {
		return nil, fmt.Errorf("capture paypal order: %w", err)
	}

	transactionID := capture.ID
	for _, unit := range capture.PurchaseUnits {
		if unit.Payments != nil && len(unit.Payments.Captures) > 0 {
			transactionID = unit.Payments.Captures[0].ID
			break
		}
	}

	return &ProviderCapture{
		Status:        paypalStatus(capture.Status),
		TransactionID: transactionID,
	}, nil
}

func paypalStatus(status string) string {
	switch strings.ToUpper(status) {
	case "CREATED":
		return ProviderStatusCreated
	case "APPROVED":
		return ProviderStatusApproved
	case "COMPLETED":
		return ProviderStatusCompleted
	default:
		return strings.ToLower(status)
	}
}
