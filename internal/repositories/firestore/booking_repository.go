package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/recharge-travels/api/internal/domain"
	pfirestore "github.com/recharge-travels/api/internal/platform/firestore"
)

const bookingCollection = "vehicle_bookings"

// BookingRepository persists rental bookings in Firestore.
type BookingRepository struct {
	base *pfirestore.BaseRepository[bookingDocument]
}

// NewBookingRepository constructs a Firestore-backed booking repository.
func NewBookingRepository(provider *pfirestore.Provider) (*BookingRepository, error) {
	if provider == nil {
		return nil, errors.New("booking repository requires firestore provider")
	}
	return &BookingRepository{
		base: pfirestore.NewBaseRepository[bookingDocument](provider, bookingCollection, nil, nil),
	}, nil
}

// Create stores a new booking under a store-generated id.
func (r *BookingRepository) Create(ctx context.Context, booking domain.VehicleBooking) (string, error) {
	if r == nil || r.base == nil {
		return "", errors.New("booking repository not initialised")
	}
	id, _, err := r.base.Add(ctx, fromDomainBooking(booking))
	return id, err
}

// FindByID loads the booking.
func (r *BookingRepository) FindByID(ctx context.Context, bookingID string) (domain.VehicleBooking, error) {
	if r == nil || r.base == nil {
		return domain.VehicleBooking{}, errors.New("booking repository not initialised")
	}
	doc, err := r.base.Get(ctx, bookingID)
	if err != nil {
		return domain.VehicleBooking{}, err
	}
	return toDomainBooking(doc.ID, doc.Data), nil
}

// Update overwrites the booking.
func (r *BookingRepository) Update(ctx context.Context, booking domain.VehicleBooking) error {
	if r == nil || r.base == nil {
		return errors.New("booking repository not initialised")
	}
	if strings.TrimSpace(booking.ID) == "" {
		return pfirestore.WrapError(bookingCollection+".update", status.Error(codes.InvalidArgument, "booking id is required"))
	}
	_, err := r.base.Set(ctx, booking.ID, fromDomainBooking(booking))
	return err
}

// ListByCustomer returns every booking made by a customer, newest first.
func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.VehicleBooking, error) {
	return r.list(ctx, "customerId", customerID)
}

// ListByVehicle returns every booking against a vehicle, newest first.
func (r *BookingRepository) ListByVehicle(ctx context.Context, vehicleID string) ([]domain.VehicleBooking, error) {
	return r.list(ctx, "vehicleId", vehicleID)
}

func (r *BookingRepository) list(ctx context.Context, field, value string) ([]domain.VehicleBooking, error) {
	if r == nil || r.base == nil {
		return nil, errors.New("booking repository not initialised")
	}
	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where(field, "==", value).OrderBy("createdAt", firestore.Desc)
	})
	if err != nil {
		return nil, err
	}
	bookings := make([]domain.VehicleBooking, 0, len(docs))
	for _, doc := range docs {
		bookings = append(bookings, toDomainBooking(doc.ID, doc.Data))
	}
	return bookings, nil
}

// ListByStatus pages through bookings in one lifecycle state, oldest first.
func (r *BookingRepository) ListByStatus(ctx context.Context, bstatus domain.BookingStatus, page domain.Pagination) (domain.CursorPage[domain.VehicleBooking], error) {
	if r == nil || r.base == nil {
		return domain.CursorPage[domain.VehicleBooking]{}, errors.New("booking repository not initialised")
	}

	size := clampPageSize(page.PageSize)
	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		q = q.Where("status", "==", string(bstatus)).
			OrderBy(firestore.DocumentID, firestore.Asc)
		if token := strings.TrimSpace(page.PageToken); token != "" {
			q = q.StartAfter(token)
		}
		return q.Limit(size + 1)
	})
	if err != nil {
		return domain.CursorPage[domain.VehicleBooking]{}, err
	}

	result := domain.CursorPage[domain.VehicleBooking]{}
	for i, doc := range docs {
		if i == size {
			result.NextPageToken = result.Items[size-1].ID
			break
		}
		result.Items = append(result.Items, toDomainBooking(doc.ID, doc.Data))
	}
	return result, nil
}

type bookingDocument struct {
	VehicleID     string                 `firestore:"vehicleId"`
	OwnerID       string                 `firestore:"ownerId"`
	CustomerID    string                 `firestore:"customerId"`
	CustomerName  string                 `firestore:"customerName"`
	PickupDate    time.Time              `firestore:"pickupDate"`
	ReturnDate    time.Time              `firestore:"returnDate"`
	Pricing       bookingPricingDocument `firestore:"pricing"`
	Status        string                 `firestore:"status"`
	PaymentStatus string                 `firestore:"paymentStatus"`
	Deposit       depositDocument        `firestore:"deposit"`
	StatusHistory []statusChangeDocument `firestore:"statusHistory"`
	Review        *reviewDocument        `firestore:"review,omitempty"`
	CreatedAt     time.Time              `firestore:"createdAt"`
	ConfirmedAt   *time.Time             `firestore:"confirmedAt,omitempty"`
	StartedAt     *time.Time             `firestore:"startedAt,omitempty"`
	CompletedAt   *time.Time             `firestore:"completedAt,omitempty"`
	CancelledAt   *time.Time             `firestore:"cancelledAt,omitempty"`
}

type bookingPricingDocument struct {
	Currency   string `firestore:"currency"`
	Days       int    `firestore:"days"`
	DailyRate  int64  `firestore:"dailyRate"`
	Base       int64  `firestore:"base"`
	Insurance  int64  `firestore:"insurance"`
	Delivery   int64  `firestore:"delivery"`
	ServiceFee int64  `firestore:"serviceFee"`
	Deposit    int64  `firestore:"deposit"`
	Total      int64  `firestore:"total"`
}

type depositDocument struct {
	Amount    int64     `firestore:"amount"`
	Status    string    `firestore:"status"`
	IntentID  string    `firestore:"intentId,omitempty"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

type statusChangeDocument struct {
	Status    string    `firestore:"status"`
	ChangedAt time.Time `firestore:"changedAt"`
	Note      string    `firestore:"note,omitempty"`
}

type reviewDocument struct {
	Rating    int       `firestore:"rating"`
	Comment   string    `firestore:"comment"`
	CreatedAt time.Time `firestore:"createdAt"`
}

func toDomainBooking(id string, doc bookingDocument) domain.VehicleBooking {
	history := make([]domain.BookingStatusChange, 0, len(doc.StatusHistory))
	for _, entry := range doc.StatusHistory {
		history = append(history, domain.BookingStatusChange{
			Status:    domain.ParseBookingStatus(entry.Status),
			ChangedAt: entry.ChangedAt,
			Note:      entry.Note,
		})
	}
	var review *domain.BookingReview
	if doc.Review != nil {
		review = &domain.BookingReview{
			Rating:    doc.Review.Rating,
			Comment:   doc.Review.Comment,
			CreatedAt: doc.Review.CreatedAt,
		}
	}
	return domain.VehicleBooking{
		ID:           id,
		VehicleID:    doc.VehicleID,
		OwnerID:      doc.OwnerID,
		CustomerID:   doc.CustomerID,
		CustomerName: doc.CustomerName,
		PickupDate:   doc.PickupDate,
		ReturnDate:   doc.ReturnDate,
		Pricing: domain.BookingPricing{
			Currency:   doc.Pricing.Currency,
			Days:       doc.Pricing.Days,
			DailyRate:  doc.Pricing.DailyRate,
			Base:       doc.Pricing.Base,
			Insurance:  doc.Pricing.Insurance,
			Delivery:   doc.Pricing.Delivery,
			ServiceFee: doc.Pricing.ServiceFee,
			Deposit:    doc.Pricing.Deposit,
			Total:      doc.Pricing.Total,
		},
		Status:        domain.ParseBookingStatus(doc.Status),
		PaymentStatus: domain.ParsePaymentStatus(doc.PaymentStatus),
		Deposit: domain.DepositInfo{
			Amount:    doc.Deposit.Amount,
			Status:    domain.ParseDepositStatus(doc.Deposit.Status),
			IntentID:  doc.Deposit.IntentID,
			UpdatedAt: doc.Deposit.UpdatedAt,
		},
		StatusHistory: history,
		Review:        review,
		CreatedAt:     doc.CreatedAt,
		ConfirmedAt:   doc.ConfirmedAt,
		StartedAt:     doc.StartedAt,
		CompletedAt:   doc.CompletedAt,
		CancelledAt:   doc.CancelledAt,
	}
}

func fromDomainBooking(booking domain.VehicleBooking) bookingDocument {
	history := make([]statusChangeDocument, 0, len(booking.StatusHistory))
	for _, entry := range booking.StatusHistory {
		history = append(history, statusChangeDocument{
			Status:    string(entry.Status),
			ChangedAt: entry.ChangedAt,
			Note:      entry.Note,
		})
	}
	var review *reviewDocument
	if booking.Review != nil {
		review = &reviewDocument{
			Rating:    booking.Review.Rating,
			Comment:   booking.Review.Comment,
			CreatedAt: booking.Review.CreatedAt,
		}
	}
	return bookingDocument{
		VehicleID:    booking.VehicleID,
		OwnerID:      booking.OwnerID,
		CustomerID:   booking.CustomerID,
		CustomerName: strings.TrimSpace(booking.CustomerName),
		PickupDate:   booking.PickupDate,
		ReturnDate:   booking.ReturnDate,
		Pricing: bookingPricingDocument{
			Currency:   strings.ToUpper(strings.TrimSpace(booking.Pricing.Currency)),
			Days:       booking.Pricing.Days,
			DailyRate:  booking.Pricing.DailyRate,
			Base:       booking.Pricing.Base,
			Insurance:  booking.Pricing.Insurance,
			Delivery:   booking.Pricing.Delivery,
			ServiceFee: booking.Pricing.ServiceFee,
			Deposit:    booking.Pricing.Deposit,
			Total:      booking.Pricing.Total,
		},
		Status:        string(booking.Status),
		PaymentStatus: string(booking.PaymentStatus),
		Deposit: depositDocument{
			Amount:    booking.Deposit.Amount,
			Status:    string(booking.Deposit.Status),
			IntentID:  booking.Deposit.IntentID,
			UpdatedAt: booking.Deposit.UpdatedAt,
		},
		StatusHistory: history,
		Review:        review,
		CreatedAt:     booking.CreatedAt,
		ConfirmedAt:   booking.ConfirmedAt,
		StartedAt:     booking.StartedAt,
		CompletedAt:   booking.CompletedAt,
		CancelledAt:   booking.CancelledAt,
	}
}
