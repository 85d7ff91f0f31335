package firestore

import (
	"context"
	"errors"
	"time"

	pfirestore "github.com/recharge-travels/api/internal/platform/firestore"
)

const healthCheckTimeout = 1500 * time.Millisecond

// HealthRepository verifies Firestore connectivity for readiness probes.
type HealthRepository struct {
	provider *pfirestore.Provider
}

// NewHealthRepository constructs a Firestore-backed health repository.
func NewHealthRepository(provider *pfirestore.Provider) (*HealthRepository, error) {
	if provider == nil {
		return nil, errors.New("health repository requires firestore provider")
	}
	return &HealthRepository{provider: provider}, nil
}

// Ping performs a cheap read against the backend. A missing document is fine;
// only transport-level failures are reported.
func (r *HealthRepository) Ping(ctx context.Context) error {
	if r == nil || r.provider == nil {
		return errors.New("health repository not initialised")
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	client, err := r.provider.Client(ctx)
	if err != nil {
		return err
	}
	_, err = client.Collection("meta").Doc("health").Get(ctx)
	if err != nil {
		wrapped := pfirestore.WrapError("meta.health", err)
		var repoErr *pfirestore.Error
		if errors.As(wrapped, &repoErr) && repoErr.IsNotFound() {
			return nil
		}
		return wrapped
	}
	return nil
}
