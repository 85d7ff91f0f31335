package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "github.com/recharge-travels/api/internal/domain"
	"github.com/recharge-travels/api/internal/payments"
	"github.com/recharge-travels/api/internal/platform/requestctx"
	"github.com/recharge-travels/api/internal/repositories"
)

// Event types emitted by the booking lifecycle.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingStarted   = "booking.started"
	EventBookingCompleted = "booking.completed"
	EventBookingCancelled = "booking.cancelled"
)

// ErrBookingRepositoryMissing signals that the booking repository dependency is absent.
var ErrBookingRepositoryMissing = errors.New("booking service: booking repository is not configured")

// ErrInvalidBookingTransition is returned when the requested state change is not
// allowed from the booking's current status.
var ErrInvalidBookingTransition = errors.New("booking service: invalid status transition")

// ErrVehicleNotBookable is returned when the vehicle is not an active listing.
var ErrVehicleNotBookable = errors.New("booking service: vehicle is not available for booking")

// ErrReviewNotAllowed is returned when a review is submitted before the rental completed.
var ErrReviewNotAllowed = errors.New("booking service: reviews are only accepted on completed bookings")

// BookingPricingConfig holds the fee schedule applied on top of the vehicle's
// daily rate. Amounts are minor units; the service fee is basis points of the
// base rental amount.
type BookingPricingConfig struct {
	InsurancePerDay int64
	DeliveryFee     int64
	ServiceFeeBps   int64
	DepositAmount   int64
}

// DefaultBookingPricing is the fee schedule used when none is configured.
var DefaultBookingPricing = BookingPricingConfig{
	InsurancePerDay: 1500,
	DeliveryFee:     5000,
	ServiceFeeBps:   500,
	DepositAmount:   50000,
}

// BookingServiceDeps groups constructor parameters for the booking service.
type BookingServiceDeps struct {
	Bookings  repositories.BookingRepository
	Vehicles  repositories.VehicleRepository
	Reviews   repositories.ReviewRepository
	Deposits  payments.DepositProvider
	Publisher EventPublisher
	Clock     func() time.Time
	Pricing   *BookingPricingConfig
}

type bookingService struct {
	bookings  repositories.BookingRepository
	vehicles  repositories.VehicleRepository
	reviews   repositories.ReviewRepository
	deposits  payments.DepositProvider
	publisher EventPublisher
	clock     func() time.Time
	pricing   BookingPricingConfig
}

// NewBookingService constructs the rental booking service.
func NewBookingService(deps BookingServiceDeps) (BookingService, error) {
	if deps.Bookings == nil {
		return nil, ErrBookingRepositoryMissing
	}
	if deps.Vehicles == nil {
		return nil, errors.New("booking service: vehicle repository is not configured")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	pricing := DefaultBookingPricing
	if deps.Pricing != nil {
		pricing = *deps.Pricing
	}
	return &bookingService{
		bookings:  deps.Bookings,
		vehicles:  deps.Vehicles,
		reviews:   deps.Reviews,
		deposits:  deps.Deposits,
		publisher: deps.Publisher,
		clock:     func() time.Time { return clock().UTC() },
		pricing:   pricing,
	}, nil
}

// CreateBooking prices the rental from the vehicle's stored rate and stores it
// as pending. Client-submitted totals are never trusted.
func (s *bookingService) CreateBooking(ctx context.Context, req BookingRequest) (domain.VehicleBooking, error) {
	if strings.TrimSpace(req.VehicleID) == "" {
		return domain.VehicleBooking{}, errors.New("booking service: vehicle id is required")
	}
	if strings.TrimSpace(req.CustomerID) == "" {
		return domain.VehicleBooking{}, errors.New("booking service: customer id is required")
	}
	if !req.ReturnDate.After(req.PickupDate) {
		return domain.VehicleBooking{}, errors.New("booking service: return date must be after pickup date")
	}

	vehicle, err := s.vehicles.FindByID(ctx, req.VehicleID)
	if err != nil {
		return domain.VehicleBooking{}, err
	}
	if vehicle.Status != domain.VehicleStatusActive {
		return domain.VehicleBooking{}, fmt.Errorf("%w: status %s", ErrVehicleNotBookable, vehicle.Status)
	}

	days := domain.RentalDays(req.PickupDate, req.ReturnDate)
	var insurance, delivery int64
	if req.IncludeInsurance {
		insurance = s.pricing.InsurancePerDay * int64(days)
	}
	if req.IncludeDelivery {
		delivery = s.pricing.DeliveryFee
	}
	serviceFee := vehicle.DailyRate * int64(days) * s.pricing.ServiceFeeBps / 10000

	now := s.clock()
	booking := domain.VehicleBooking{
		VehicleID:     vehicle.ID,
		OwnerID:       vehicle.OwnerID,
		CustomerID:    req.CustomerID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		PickupDate:    req.PickupDate.UTC(),
		ReturnDate:    req.ReturnDate.UTC(),
		Pricing:       domain.ComputePricing(vehicle.Currency, days, vehicle.DailyRate, insurance, delivery, serviceFee, s.pricing.DepositAmount),
		Status:        domain.BookingStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		StatusHistory: []domain.BookingStatusChange{{Status: domain.BookingStatusPending, ChangedAt: now, Note: "booking created"}},
		CreatedAt:     now,
	}

	id, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return domain.VehicleBooking{}, err
	}
	booking.ID = id
	s.publishBooking(ctx, EventBookingCreated, booking)
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID string) (domain.VehicleBooking, error) {
	return s.bookings.FindByID(ctx, bookingID)
}

func (s *bookingService) ListCustomerBookings(ctx context.Context, customerID string) ([]domain.VehicleBooking, error) {
	return s.bookings.ListByCustomer(ctx, customerID)
}

func (s *bookingService) ListVehicleBookings(ctx context.Context, vehicleID string) ([]domain.VehicleBooking, error) {
	return s.bookings.ListByVehicle(ctx, vehicleID)
}

func (s *bookingService) ListBookingsByStatus(ctx context.Context, status domain.BookingStatus, page domain.Pagination) (domain.CursorPage[domain.VehicleBooking], error) {
	return s.bookings.ListByStatus(ctx, status, page)
}

// ConfirmBooking moves pending to confirmed and, when a payment provider is
// wired, places the security deposit hold.
func (s *bookingService) ConfirmBooking(ctx context.Context, bookingID, paymentMethodID string) (domain.VehicleBooking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return domain.VehicleBooking{}, err
	}
	if booking.Status != domain.BookingStatusPending {
		return domain.VehicleBooking{}, fmt.Errorf("%w: %s -> %s", ErrInvalidBookingTransition, booking.Status, domain.BookingStatusConfirmed)
	}

	now := s.clock()
	if s.deposits != nil && booking.Pricing.Deposit > 0 {
		hold, err := s.deposits.Hold(ctx, payments.HoldRequest{
			Amount:          booking.Pricing.Deposit,
			Currency:        booking.Pricing.Currency,
			PaymentMethodID: paymentMethodID,
			IdempotencyKey:  "deposit-" + booking.ID,
			Metadata:        map[string]string{"bookingId": booking.ID},
		})
		if err != nil {
			return domain.VehicleBooking{}, fmt.Errorf("hold deposit: %w", err)
		}
		booking.Deposit = domain.DepositInfo{
			Amount:    hold.Amount,
			Status:    domain.DepositStatusHeld,
			IntentID:  hold.IntentID,
			UpdatedAt: now,
		}
	}

	booking.Status = domain.BookingStatusConfirmed
	booking.ConfirmedAt = &now
	booking.StatusHistory = append(booking.StatusHistory, domain.BookingStatusChange{
		Status:    domain.BookingStatusConfirmed,
		ChangedAt: now,
		Note:      "deposit held",
	})
	if err := s.bookings.Update(ctx, booking); err != nil {
		return domain.VehicleBooking{}, err
	}
	s.publishBooking(ctx, EventBookingConfirmed, booking)
	return booking, nil
}

// StartRental moves confirmed to in_progress at pickup.
func (s *bookingService) StartRental(ctx context.Context, bookingID string) (domain.VehicleBooking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return domain.VehicleBooking{}, err
	}
	if booking.Status != domain.BookingStatusConfirmed {
		return domain.VehicleBooking{}, fmt.Errorf("%w: %s -> %s", ErrInvalidBookingTransition, booking.Status, domain.BookingStatusInProgress)
	}

	now := s.clock()
	booking.Status = domain.BookingStatusInProgress
	booking.StartedAt = &now
	booking.StatusHistory = append(booking.StatusHistory, domain.BookingStatusChange{
		Status:    domain.BookingStatusInProgress,
		ChangedAt: now,
		Note:      "vehicle picked up",
	})
	if err := s.bookings.Update(ctx, booking); err != nil {
		return domain.VehicleBooking{}, err
	}
	s.publishBooking(ctx, EventBookingStarted, booking)
	return booking, nil
}

// CompleteRental moves in_progress to completed and settles the deposit:
// a deduction captures that amount, otherwise the hold is released.
func (s *bookingService) CompleteRental(ctx context.Context, bookingID string, deduction *DepositDeduction) (domain.VehicleBooking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return domain.VehicleBooking{}, err
	}
	if booking.Status != domain.BookingStatusInProgress {
		return domain.VehicleBooking{}, fmt.Errorf("%w: %s -> %s", ErrInvalidBookingTransition, booking.Status, domain.BookingStatusCompleted)
	}

	now := s.clock()
	note := "rental completed"
	if s.deposits != nil && booking.Deposit.IntentID != "" && booking.Deposit.Status == domain.DepositStatusHeld {
		if deduction != nil && deduction.Amount > 0 {
			amount := deduction.Amount
			captured, err := s.deposits.Deduct(ctx, payments.DeductRequest{
				IntentID:       booking.Deposit.IntentID,
				Amount:         &amount,
				IdempotencyKey: "deduct-" + booking.ID,
			})
			if err != nil {
				return domain.VehicleBooking{}, fmt.Errorf("deduct deposit: %w", err)
			}
			booking.Deposit.Status = domain.DepositStatusDeducted
			booking.Deposit.UpdatedAt = now
			note = fmt.Sprintf("deposit deducted %d: %s", captured, strings.TrimSpace(deduction.Reason))
		} else {
			if err := s.deposits.Release(ctx, booking.Deposit.IntentID); err != nil {
				return domain.VehicleBooking{}, fmt.Errorf("release deposit: %w", err)
			}
			booking.Deposit.Status = domain.DepositStatusReleased
			booking.Deposit.UpdatedAt = now
			note = "deposit released"
		}
	}

	booking.Status = domain.BookingStatusCompleted
	booking.CompletedAt = &now
	booking.StatusHistory = append(booking.StatusHistory, domain.BookingStatusChange{
		Status:    domain.BookingStatusCompleted,
		ChangedAt: now,
		Note:      note,
	})
	if err := s.bookings.Update(ctx, booking); err != nil {
		return domain.VehicleBooking{}, err
	}
	s.publishBooking(ctx, EventBookingCompleted, booking)
	return booking, nil
}

// CancelBooking cancels a pending or confirmed booking, releasing any held
// deposit and flagging paid amounts for refund.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID, note string) (domain.VehicleBooking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return domain.VehicleBooking{}, err
	}
	if booking.Status != domain.BookingStatusPending && booking.Status != domain.BookingStatusConfirmed {
		return domain.VehicleBooking{}, fmt.Errorf("%w: %s -> %s", ErrInvalidBookingTransition, booking.Status, domain.BookingStatusCancelled)
	}

	now := s.clock()
	if s.deposits != nil && booking.Deposit.IntentID != "" && booking.Deposit.Status == domain.DepositStatusHeld {
		if err := s.deposits.Release(ctx, booking.Deposit.IntentID); err != nil {
			return domain.VehicleBooking{}, fmt.Errorf("release deposit: %w", err)
		}
		booking.Deposit.Status = domain.DepositStatusReleased
		booking.Deposit.UpdatedAt = now
	}
	if booking.PaymentStatus == domain.PaymentStatusPaid || booking.PaymentStatus == domain.PaymentStatusPartial {
		booking.PaymentStatus = domain.PaymentStatusRefunded
	}

	booking.Status = domain.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.StatusHistory = append(booking.StatusHistory, domain.BookingStatusChange{
		Status:    domain.BookingStatusCancelled,
		ChangedAt: now,
		Note:      strings.TrimSpace(note),
	})
	if err := s.bookings.Update(ctx, booking); err != nil {
		return domain.VehicleBooking{}, err
	}
	s.publishBooking(ctx, EventBookingCancelled, booking)
	return booking, nil
}

// RecordPayment updates how much of the booking has been paid.
func (s *bookingService) RecordPayment(ctx context.Context, bookingID string, status domain.PaymentStatus) (domain.VehicleBooking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return domain.VehicleBooking{}, err
	}
	booking.PaymentStatus = status
	if err := s.bookings.Update(ctx, booking); err != nil {
		return domain.VehicleBooking{}, err
	}
	return booking, nil
}

// SubmitReview records the customer's review on a completed booking and
// publishes it to the vehicle's public review list.
func (s *bookingService) SubmitReview(ctx context.Context, bookingID string, rating int, comment string) (domain.VehicleBooking, error) {
	if rating < 1 || rating > 5 {
		return domain.VehicleBooking{}, errors.New("booking service: rating must be between 1 and 5")
	}
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return domain.VehicleBooking{}, err
	}
	if booking.Status != domain.BookingStatusCompleted {
		return domain.VehicleBooking{}, ErrReviewNotAllowed
	}

	now := s.clock()
	booking.Review = &domain.BookingReview{
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: now,
	}
	if err := s.bookings.Update(ctx, booking); err != nil {
		return domain.VehicleBooking{}, err
	}

	if s.reviews != nil {
		if _, err := s.reviews.Add(ctx, domain.VehicleReview{
			VehicleID:    booking.VehicleID,
			BookingID:    booking.ID,
			CustomerID:   booking.CustomerID,
			CustomerName: booking.CustomerName,
			Rating:       rating,
			Comment:      booking.Review.Comment,
			CreatedAt:    now,
		}); err != nil {
			return domain.VehicleBooking{}, fmt.Errorf("publish review: %w", err)
		}
	}
	return booking, nil
}

// ListVehicleReviews returns the published reviews shown on a vehicle's page.
func (s *bookingService) ListVehicleReviews(ctx context.Context, vehicleID string) ([]domain.VehicleReview, error) {
	if s.reviews == nil {
		return nil, nil
	}
	return s.reviews.ListByVehicle(ctx, vehicleID)
}

func (s *bookingService) publishBooking(ctx context.Context, eventType string, booking domain.VehicleBooking) {
	if s.publisher == nil {
		return
	}
	if _, err := s.publisher.PublishEvent(ctx, TravelEvent{
		Type:       eventType,
		EntityID:   booking.ID,
		OccurredAt: s.clock(),
		Payload: map[string]any{
			"vehicleId":  booking.VehicleID,
			"customerId": booking.CustomerID,
			"status":     string(booking.Status),
		},
	}); err != nil {
		requestctx.Logger(ctx).Warn("booking event publish failed",
			zap.String("event_type", eventType),
			zap.String("booking_id", booking.ID),
			zap.Error(err))
	}
}
