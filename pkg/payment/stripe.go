// Package payment integrates the Stripe payment provider. Stripe is the
// system of record for financial state; this package only reports what the
// provider returned.
package payment

import (
	"context"
	"errors"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// CardDetails describes a card attached to a customer.
type CardDetails struct {
	PaymentMethodID string
	Last4           string
	ExpMonth        int
	ExpYear         int
	Brand           string
}

// ChargeResult is the outcome of a charge attempt as reported by Stripe.
type ChargeResult struct {
	TransactionID string
	Status        string
	ClientSecret  string
}

// StripeGateway talks to the Stripe API.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway creates a gateway authenticated with the given API key.
func NewStripeGateway(apiKey string) *StripeGateway {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeGateway{api: api}
}

// CreateCustomer creates a Stripe customer and returns its id.
func (g *StripeGateway) CreateCustomer(ctx context.Context, name, email string) (string, error) {
	params := &stripe.CustomerParams{
		Name:  stripe.String(name),
		Email: stripe.String(email),
	}
	params.Context = ctx

	customer, err := g.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create stripe customer: %w", err)
	}

	return customer.ID, nil
}

// AttachCard creates a payment method from a card token and attaches it to
// the customer.
func (g *StripeGateway) AttachCard(ctx context.Context, customerID, cardToken string) (*CardDetails, error) {
	pmParams := &stripe.PaymentMethodParams{
		Type: stripe.String("card"),
		Card: &stripe.PaymentMethodCardParams{Token: stripe.String(cardToken)},
	}
	pmParams.Context = ctx

	pm, err := g.api.PaymentMethods.New(pmParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment method: %w", err)
	}

	attachParams := &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customerID),
	}
	attachParams.Context = ctx

	pm, err = g.api.PaymentMethods.Attach(pm.ID, attachParams)
	if err != nil {
		return nil, fmt.Errorf("failed to attach payment method: %w", err)
	}

	return &CardDetails{
		PaymentMethodID: pm.ID,
		Last4:           pm.Card.Last4,
		ExpMonth:        int(pm.Card.ExpMonth),
		ExpYear:         int(pm.Card.ExpYear),
		Brand:           string(pm.Card.Brand),
	}, nil
}

// Charge confirms a payment intent against a saved payment method. The
// amount is in whole currency units. When Stripe reports a failure the
// returned result still carries whatever transaction metadata the provider
// produced, so callers can persist the failed attempt.
func (g *StripeGateway) Charge(ctx context.Context, customerID, paymentMethodID string, amount int64, currency string) (*ChargeResult, error) {
	if currency == "" {
		currency = "usd"
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amount * 100),
		Currency:      stripe.String(currency),
		Customer:      stripe.String(customerID),
		PaymentMethod: stripe.String(paymentMethodID),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		result := &ChargeResult{Status: "failed"}
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.PaymentIntent != nil {
			result.TransactionID = stripeErr.PaymentIntent.ID
			result.Status = string(stripeErr.PaymentIntent.Status)
			result.ClientSecret = stripeErr.PaymentIntent.ClientSecret
		}
		return result, fmt.Errorf("charge failed: %w", err)
	}

	return &ChargeResult{
		TransactionID: intent.ID,
		Status:        string(intent.Status),
		ClientSecret:  intent.ClientSecret,
	}, nil
}
