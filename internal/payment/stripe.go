package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
)

type StripeGateway struct {
	intents  *paymentintent.Client
	currency string
}

func NewStripeGateway(secretKey, currency string) *StripeGateway {
	return NewStripeGatewayWithBackend(stripe.GetBackend(stripe.APIBackend), secretKey, currency)
}

func NewStripeGatewayWithBackend(b stripe.Backend, secretKey, currency string) *StripeGateway {
	return &StripeGateway{
		intents:  &paymentintent.Client{B: b, Key: secretKey},
		currency: currency,
	}
}

// MinorUnits converts a major-unit amount to the integer the provider charges.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// CreateIntent opens a payment intent for amount and returns its client secret.
func (g *StripeGateway) CreateIntent(ctx context.Context, accountID uint, amount decimal.Decimal) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(MinorUnits(amount)),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("account_id", strconv.FormatUint(uint64(accountID), 10))

	pi, err := g.intents.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}
