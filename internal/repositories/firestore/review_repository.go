package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	domain "github.com/recharge-travels/api/internal/domain"
	pfirestore "github.com/recharge-travels/api/internal/platform/firestore"
)

const reviewCollection = "vehicle_reviews"

// ReviewRepository persists published vehicle reviews in Firestore.
type ReviewRepository struct {
	base *pfirestore.BaseRepository[vehicleReviewDocument]
}

// NewReviewRepository constructs a Firestore-backed review repository.
func NewReviewRepository(provider *pfirestore.Provider) (*ReviewRepository, error) {
	if provider == nil {
		return nil, errors.New("review repository requires firestore provider")
	}
	return &ReviewRepository{
		base: pfirestore.NewBaseRepository[vehicleReviewDocument](provider, reviewCollection, nil, nil),
	}, nil
}

// Add publishes a review under a store-generated id.
func (r *ReviewRepository) Add(ctx context.Context, review domain.VehicleReview) (string, error) {
	if r == nil || r.base == nil {
		return "", errors.New("review repository not initialised")
	}
	id, _, err := r.base.Add(ctx, vehicleReviewDocument{
		VehicleID:    review.VehicleID,
		BookingID:    review.BookingID,
		CustomerID:   review.CustomerID,
		CustomerName: strings.TrimSpace(review.CustomerName),
		Rating:       review.Rating,
		Comment:      review.Comment,
		CreatedAt:    review.CreatedAt,
	})
	return id, err
}

// ListByVehicle returns a vehicle's reviews, newest first.
func (r *ReviewRepository) ListByVehicle(ctx context.Context, vehicleID string) ([]domain.VehicleReview, error) {
	if r == nil || r.base == nil {
		return nil, errors.New("review repository not initialised")
	}
	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("vehicleId", "==", vehicleID).OrderBy("createdAt", firestore.Desc)
	})
	if err != nil {
		return nil, err
	}
	reviews := make([]domain.VehicleReview, 0, len(docs))
	for _, doc := range docs {
		reviews = append(reviews, domain.VehicleReview{
			ID:           doc.ID,
			VehicleID:    doc.Data.VehicleID,
			BookingID:    doc.Data.BookingID,
			CustomerID:   doc.Data.CustomerID,
			CustomerName: doc.Data.CustomerName,
			Rating:       doc.Data.Rating,
			Comment:      doc.Data.Comment,
			CreatedAt:    doc.Data.CreatedAt,
		})
	}
	return reviews, nil
}

type vehicleReviewDocument struct {
	VehicleID    string    `firestore:"vehicleId"`
	BookingID    string    `firestore:"bookingId"`
	CustomerID   string    `firestore:"customerId"`
	CustomerName string    `firestore:"customerName"`
	Rating       int       `firestore:"rating"`
	Comment      string    `firestore:"comment"`
	CreatedAt    time.Time `firestore:"createdAt"`
}
