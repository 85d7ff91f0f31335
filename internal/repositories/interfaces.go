package repositories

import (
	"context"

	domain "github.com/recharge-travels/api/internal/domain"
)

// Registry exposes typed repository accessors and lifecycle hooks for dependency injection.
type Registry interface {
	Close(ctx context.Context) error

	Content() ContentRepository
	Ayurveda() AyurvedaRepository
	VehicleOwners() VehicleOwnerRepository
	Vehicles() VehicleRepository
	Bookings() BookingRepository
	Reviews() ReviewRepository
	Health() HealthRepository
}

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// ContentRepository serves the public destination and editorial catalogue.
type ContentRepository interface {
	ListDestinations(ctx context.Context, language string, page domain.Pagination) (domain.CursorPage[domain.Destination], error)
	FindDestinationBySlug(ctx context.Context, slug, language string) (domain.Destination, error)
	ListArticles(ctx context.Context, language string, page domain.Pagination) (domain.CursorPage[domain.Article], error)
	FindArticleBySlug(ctx context.Context, slug, language string) (domain.Article, error)
	ListRegions(ctx context.Context) ([]domain.Region, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// AyurvedaRepository persists the wellness CMS collections.
type AyurvedaRepository interface {
	GetSections(ctx context.Context) (domain.HeroSection, domain.CTASection, error)
	SaveSections(ctx context.Context, hero domain.HeroSection, cta domain.CTASection) error

	ListRetreats(ctx context.Context) ([]domain.Retreat, error)
	CreateRetreat(ctx context.Context, retreat domain.Retreat) (string, error)
	UpdateRetreat(ctx context.Context, retreat domain.Retreat) error
	DeleteRetreat(ctx context.Context, retreatID string) error

	ListTreatments(ctx context.Context) ([]domain.Treatment, error)
	CreateTreatment(ctx context.Context, treatment domain.Treatment) (string, error)
	UpdateTreatment(ctx context.Context, treatment domain.Treatment) error
	DeleteTreatment(ctx context.Context, treatmentID string) error

	ListTestimonials(ctx context.Context) ([]domain.Testimonial, error)
	CreateTestimonial(ctx context.Context, testimonial domain.Testimonial) (string, error)
	UpdateTestimonial(ctx context.Context, testimonial domain.Testimonial) error
	DeleteTestimonial(ctx context.Context, testimonialID string) error
}

// VehicleOwnerRepository persists vehicle owner onboarding records.
type VehicleOwnerRepository interface {
	Create(ctx context.Context, owner domain.VehicleOwner) (string, error)
	FindByID(ctx context.Context, ownerID string) (domain.VehicleOwner, error)
	Update(ctx context.Context, owner domain.VehicleOwner) error
}

// VehicleRepository persists rental vehicle submissions and their documents.
type VehicleRepository interface {
	Create(ctx context.Context, vehicle domain.Vehicle) (string, error)
	FindByID(ctx context.Context, vehicleID string) (domain.Vehicle, error)
	Update(ctx context.Context, vehicle domain.Vehicle) error
	ListByStatus(ctx context.Context, status domain.VehicleStatus, page domain.Pagination) (domain.CursorPage[domain.Vehicle], error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error)
}

// BookingRepository persists rental bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking domain.VehicleBooking) (string, error)
	FindByID(ctx context.Context, bookingID string) (domain.VehicleBooking, error)
	Update(ctx context.Context, booking domain.VehicleBooking) error
	ListByCustomer(ctx context.Context, customerID string) ([]domain.VehicleBooking, error)
	ListByVehicle(ctx context.Context, vehicleID string) ([]domain.VehicleBooking, error)
	ListByStatus(ctx context.Context, status domain.BookingStatus, page domain.Pagination) (domain.CursorPage[domain.VehicleBooking], error)
}

// ReviewRepository persists published vehicle reviews.
type ReviewRepository interface {
	Add(ctx context.Context, review domain.VehicleReview) (string, error)
	ListByVehicle(ctx context.Context, vehicleID string) ([]domain.VehicleReview, error)
}

// HealthRepository reports backend connectivity for readiness probes.
type HealthRepository interface {
	Ping(ctx context.Context) error
}
