package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// StripeLogger defines the logging contract for Stripe provider operations.
type StripeLogger func(ctx context.Context, event string, fields map[string]any)

type stripePaymentIntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Cancel(id string, params *stripe.PaymentIntentCancelParams) (*stripe.PaymentIntent, error)
	Capture(id string, params *stripe.PaymentIntentCaptureParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeProviderConfig configures the StripeProvider.
type StripeProviderConfig struct {
	APIKey   string
	Backends *stripe.Backends
	Logger   StripeLogger
	Clock    func() time.Time
	Intents  stripePaymentIntentAPI
}

// StripeProvider implements DepositProvider using manual-capture payment
// intents: Hold authorizes, Release cancels, Deduct captures.
type StripeProvider struct {
	intents stripePaymentIntentAPI
	clock   func() time.Time
	logger  StripeLogger
}

// NewStripeProvider constructs a Stripe DepositProvider.
func NewStripeProvider(cfg StripeProviderConfig) (*StripeProvider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" && cfg.Intents == nil {
		return nil, errors.New("stripe: api key is required")
	}

	intents := cfg.Intents
	if intents == nil {
		sc := client.New(apiKey, cfg.Backends)
		intents = sc.PaymentIntents
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &StripeProvider{
		intents: intents,
		clock: func() time.Time {
			return clock().UTC()
		},
		logger: logger,
	}, nil
}

// Hold authorizes the deposit amount without capturing it.
func (p *StripeProvider) Hold(ctx context.Context, req HoldRequest) (DepositHold, error) {
	if p == nil {
		return DepositHold{}, errors.New("stripe: provider is nil")
	}
	if req.Amount <= 0 {
		return DepositHold{}, errors.New("stripe: hold amount must be positive")
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(req.Amount),
		Currency:      stripe.String(strings.ToLower(req.Currency)),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		Confirm:       stripe.Bool(true),
	}
	params.Context = ctx
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		params.SetIdempotencyKey(key)
	}
	if req.PaymentMethodID != "" {
		params.PaymentMethod = stripe.String(req.PaymentMethodID)
	}
	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	}
	if len(req.Metadata) > 0 {
		params.Metadata = make(map[string]string, len(req.Metadata))
		for k, v := range req.Metadata {
			params.Metadata[k] = v
		}
	}

	intent, err := p.intents.New(params)
	if err != nil {
		return DepositHold{}, fmt.Errorf("stripe: create deposit hold: %w", err)
	}

	p.logger(ctx, "payments.stripe.deposit.held", map[string]any{
		"paymentIntent": intent.ID,
		"amount":        intent.Amount,
		"currency":      intent.Currency,
	})

	created := p.clock()
	if intent.Created != 0 {
		created = time.Unix(intent.Created, 0).UTC()
	}
	return DepositHold{
		IntentID:  intent.ID,
		Amount:    intent.Amount,
		Currency:  strings.ToUpper(string(intent.Currency)),
		CreatedAt: created,
	}, nil
}

// Release cancels the authorization, returning the hold to the customer.
func (p *StripeProvider) Release(ctx context.Context, intentID string) error {
	if p == nil {
		return errors.New("stripe: provider is nil")
	}
	if strings.TrimSpace(intentID) == "" {
		return errors.New("stripe: intent id is required")
	}
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	if _, err := p.intents.Cancel(intentID, params); err != nil {
		return fmt.Errorf("stripe: release deposit hold: %w", err)
	}
	p.logger(ctx, "payments.stripe.deposit.released", map[string]any{
		"paymentIntent": intentID,
	})
	return nil
}

// Deduct captures part or all of the held deposit and returns the captured amount.
func (p *StripeProvider) Deduct(ctx context.Context, req DeductRequest) (int64, error) {
	if p == nil {
		return 0, errors.New("stripe: provider is nil")
	}
	if strings.TrimSpace(req.IntentID) == "" {
		return 0, errors.New("stripe: intent id is required")
	}
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		params.SetIdempotencyKey(key)
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return 0, errors.New("stripe: deduct amount must be positive")
		}
		params.AmountToCapture = stripe.Int64(*req.Amount)
	}
	intent, err := p.intents.Capture(req.IntentID, params)
	if err != nil {
		return 0, fmt.Errorf("stripe: deduct from deposit hold: %w", err)
	}
	p.logger(ctx, "payments.stripe.deposit.deducted", map[string]any{
		"paymentIntent":  intent.ID,
		"amountReceived": intent.AmountReceived,
	})
	return intent.AmountReceived, nil
}
