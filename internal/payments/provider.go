package payments

import (
	"context"
	"time"
)

// HoldRequest places an authorization for a rental security deposit.
type HoldRequest struct {
	Amount          int64
	Currency        string
	PaymentMethodID string
	CustomerID      string
	IdempotencyKey  string
	Metadata        map[string]string
}

// DepositHold is the provider-side record of an authorized deposit.
type DepositHold struct {
	IntentID  string
	Amount    int64
	Currency  string
	CreatedAt time.Time
}

// DeductRequest captures some or all of a held deposit. Amount nil captures
// the full hold.
type DeductRequest struct {
	IntentID       string
	Amount         *int64
	IdempotencyKey string
}

// DepositProvider is the payment backend for rental security deposits.
// Hold authorizes without charging; Release cancels the authorization;
// Deduct captures up to the held amount when damage or fees apply.
type DepositProvider interface {
	Hold(ctx context.Context, req HoldRequest) (DepositHold, error)
	Release(ctx context.Context, intentID string) error
	Deduct(ctx context.Context, req DeductRequest) (int64, error)
}
