package firestore

import (
	"context"
	"errors"

	pfirestore "github.com/recharge-travels/api/internal/platform/firestore"
	"github.com/recharge-travels/api/internal/repositories"
)

// Registry bundles every Firestore repository behind the repositories.Registry
// contract so services receive one injectable dependency.
type Registry struct {
	provider *pfirestore.Provider

	content  *ContentRepository
	ayurveda *AyurvedaRepository
	owners   *VehicleOwnerRepository
	vehicles *VehicleRepository
	bookings *BookingRepository
	reviews  *ReviewRepository
	health   *HealthRepository
}

var _ repositories.Registry = (*Registry)(nil)

// NewRegistry constructs every repository against the shared provider.
func NewRegistry(provider *pfirestore.Provider) (*Registry, error) {
	if provider == nil {
		return nil, errors.New("registry requires firestore provider")
	}

	content, err := NewContentRepository(provider)
	if err != nil {
		return nil, err
	}
	ayurveda, err := NewAyurvedaRepository(provider)
	if err != nil {
		return nil, err
	}
	owners, err := NewVehicleOwnerRepository(provider)
	if err != nil {
		return nil, err
	}
	vehicles, err := NewVehicleRepository(provider)
	if err != nil {
		return nil, err
	}
	bookings, err := NewBookingRepository(provider)
	if err != nil {
		return nil, err
	}
	reviews, err := NewReviewRepository(provider)
	if err != nil {
		return nil, err
	}
	health, err := NewHealthRepository(provider)
	if err != nil {
		return nil, err
	}

	return &Registry{
		provider: provider,
		content:  content,
		ayurveda: ayurveda,
		owners:   owners,
		vehicles: vehicles,
		bookings: bookings,
		reviews:  reviews,
		health:   health,
	}, nil
}

// Close releases the underlying Firestore client.
func (r *Registry) Close(_ context.Context) error {
	if r == nil || r.provider == nil {
		return nil
	}
	return r.provider.Close()
}

// Content returns the public catalogue repository.
func (r *Registry) Content() repositories.ContentRepository { return r.content }

// Ayurveda returns the wellness CMS repository.
func (r *Registry) Ayurveda() repositories.AyurvedaRepository { return r.ayurveda }

// VehicleOwners returns the owner onboarding repository.
func (r *Registry) VehicleOwners() repositories.VehicleOwnerRepository { return r.owners }

// Vehicles returns the vehicle submission repository.
func (r *Registry) Vehicles() repositories.VehicleRepository { return r.vehicles }

// Bookings returns the rental booking repository.
func (r *Registry) Bookings() repositories.BookingRepository { return r.bookings }

// Reviews returns the published review repository.
func (r *Registry) Reviews() repositories.ReviewRepository { return r.reviews }

// Health returns the readiness probe repository.
func (r *Registry) Health() repositories.HealthRepository { return r.health }
