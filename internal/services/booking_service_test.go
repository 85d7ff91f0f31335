package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	domain "github.com/recharge-travels/api/internal/domain"
	"github.com/recharge-travels/api/internal/payments"
	"github.com/recharge-travels/api/internal/platform/requestctx"
)

type stubBookingRepo struct {
	bookings map[string]domain.VehicleBooking
	nextID   int
}

func newStubBookingRepo() *stubBookingRepo {
	return &stubBookingRepo{bookings: map[string]domain.VehicleBooking{}}
}

func (s *stubBookingRepo) Create(_ context.Context, booking domain.VehicleBooking) (string, error) {
	s.nextID++
	id := fmt.Sprintf("bk%d", s.nextID)
	booking.ID = id
	s.bookings[id] = booking
	return id, nil
}

func (s *stubBookingRepo) FindByID(_ context.Context, id string) (domain.VehicleBooking, error) {
	booking, ok := s.bookings[id]
	if !ok {
		return domain.VehicleBooking{}, errors.New("booking not found")
	}
	return booking, nil
}

func (s *stubBookingRepo) Update(_ context.Context, booking domain.VehicleBooking) error {
	s.bookings[booking.ID] = booking
	return nil
}

func (s *stubBookingRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.VehicleBooking, error) {
	var out []domain.VehicleBooking
	for _, b := range s.bookings {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubBookingRepo) ListByVehicle(_ context.Context, vehicleID string) ([]domain.VehicleBooking, error) {
	var out []domain.VehicleBooking
	for _, b := range s.bookings {
		if b.VehicleID == vehicleID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubBookingRepo) ListByStatus(_ context.Context, status domain.BookingStatus, _ domain.Pagination) (domain.CursorPage[domain.VehicleBooking], error) {
	var page domain.CursorPage[domain.VehicleBooking]
	for _, b := range s.bookings {
		if b.Status == status {
			page.Items = append(page.Items, b)
		}
	}
	return page, nil
}

type stubVehicleRepo struct {
	vehicles map[string]domain.Vehicle
	nextID   int
	updates  []domain.Vehicle
}

func newStubVehicleRepo() *stubVehicleRepo {
	return &stubVehicleRepo{vehicles: map[string]domain.Vehicle{}}
}

func (s *stubVehicleRepo) Create(_ context.Context, vehicle domain.Vehicle) (string, error) {
	s.nextID++
	id := fmt.Sprintf("veh%d", s.nextID)
	vehicle.ID = id
	s.vehicles[id] = vehicle
	return id, nil
}

func (s *stubVehicleRepo) FindByID(_ context.Context, id string) (domain.Vehicle, error) {
	vehicle, ok := s.vehicles[id]
	if !ok {
		return domain.Vehicle{}, errors.New("vehicle not found")
	}
	return vehicle, nil
}

func (s *stubVehicleRepo) Update(_ context.Context, vehicle domain.Vehicle) error {
	s.vehicles[vehicle.ID] = vehicle
	s.updates = append(s.updates, vehicle)
	return nil
}

func (s *stubVehicleRepo) ListByStatus(_ context.Context, status domain.VehicleStatus, _ domain.Pagination) (domain.CursorPage[domain.Vehicle], error) {
	var page domain.CursorPage[domain.Vehicle]
	for _, v := range s.vehicles {
		if v.Status == status {
			page.Items = append(page.Items, v)
		}
	}
	return page, nil
}

func (s *stubVehicleRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	for _, v := range s.vehicles {
		if v.OwnerID == ownerID {
			out = append(out, v)
		}
	}
	return out, nil
}

type stubReviewRepo struct {
	added []domain.VehicleReview
}

func (s *stubReviewRepo) Add(_ context.Context, review domain.VehicleReview) (string, error) {
	s.added = append(s.added, review)
	return fmt.Sprintf("rev%d", len(s.added)), nil
}

func (s *stubReviewRepo) ListByVehicle(_ context.Context, vehicleID string) ([]domain.VehicleReview, error) {
	var out []domain.VehicleReview
	for _, r := range s.added {
		if r.VehicleID == vehicleID {
			out = append(out, r)
		}
	}
	return out, nil
}

type stubDepositProvider struct {
	held      []payments.HoldRequest
	released  []string
	deducted  []payments.DeductRequest
	holdErr   error
	nextIntID int
}

func (s *stubDepositProvider) Hold(_ context.Context, req payments.HoldRequest) (payments.DepositHold, error) {
	if s.holdErr != nil {
		return payments.DepositHold{}, s.holdErr
	}
	s.held = append(s.held, req)
	s.nextIntID++
	return payments.DepositHold{
		IntentID: fmt.Sprintf("pi_%d", s.nextIntID),
		Amount:   req.Amount,
		Currency: req.Currency,
	}, nil
}

func (s *stubDepositProvider) Release(_ context.Context, intentID string) error {
	s.released = append(s.released, intentID)
	return nil
}

func (s *stubDepositProvider) Deduct(_ context.Context, req payments.DeductRequest) (int64, error) {
	s.deducted = append(s.deducted, req)
	if req.Amount != nil {
		return *req.Amount, nil
	}
	return 0, nil
}

type stubPublisher struct {
	events  []TravelEvent
	failErr error
}

func (s *stubPublisher) PublishEvent(_ context.Context, event TravelEvent) (string, error) {
	if s.failErr != nil {
		return "", s.failErr
	}
	s.events = append(s.events, event)
	return fmt.Sprintf("msg%d", len(s.events)), nil
}

type bookingFixture struct {
	svc       BookingService
	bookings  *stubBookingRepo
	vehicles  *stubVehicleRepo
	reviews   *stubReviewRepo
	deposits  *stubDepositProvider
	publisher *stubPublisher
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	f := &bookingFixture{
		bookings:  newStubBookingRepo(),
		vehicles:  newStubVehicleRepo(),
		reviews:   &stubReviewRepo{},
		deposits:  &stubDepositProvider{},
		publisher: &stubPublisher{},
	}
	f.vehicles.vehicles["veh1"] = domain.Vehicle{
		ID:        "veh1",
		OwnerID:   "own1",
		DailyRate: 10000,
		Currency:  "LKR",
		Status:    domain.VehicleStatusActive,
	}
	svc, err := NewBookingService(BookingServiceDeps{
		Bookings:  f.bookings,
		Vehicles:  f.vehicles,
		Reviews:   f.reviews,
		Deposits:  f.deposits,
		Publisher: f.publisher,
		Clock:     func() time.Time { return time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("NewBookingService: %v", err)
	}
	f.svc = svc
	return f
}

func (f *bookingFixture) create(t *testing.T) domain.VehicleBooking {
	t.Helper()
	booking, err := f.svc.CreateBooking(context.Background(), BookingRequest{
		VehicleID:        "veh1",
		CustomerID:       "cust1",
		CustomerName:     "Nimal Perera",
		PickupDate:       time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		ReturnDate:       time.Date(2026, 6, 4, 9, 0, 0, 0, time.UTC),
		IncludeInsurance: true,
		IncludeDelivery:  true,
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	return booking
}

func TestCreateBookingComputesPricingServerSide(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.create(t)

	if booking.Pricing.Days != 3 {
		t.Fatalf("days = %d, want 3", booking.Pricing.Days)
	}
	if booking.Pricing.Base != 30000 {
		t.Fatalf("base = %d", booking.Pricing.Base)
	}
	if booking.Pricing.Insurance != 3*DefaultBookingPricing.InsurancePerDay {
		t.Fatalf("insurance = %d", booking.Pricing.Insurance)
	}
	if booking.Pricing.Delivery != DefaultBookingPricing.DeliveryFee {
		t.Fatalf("delivery = %d", booking.Pricing.Delivery)
	}
	wantFee := int64(30000) * DefaultBookingPricing.ServiceFeeBps / 10000
	if booking.Pricing.ServiceFee != wantFee {
		t.Fatalf("service fee = %d, want %d", booking.Pricing.ServiceFee, wantFee)
	}
	wantTotal := booking.Pricing.Base + booking.Pricing.Insurance + booking.Pricing.Delivery + booking.Pricing.ServiceFee
	if booking.Pricing.Total != wantTotal {
		t.Fatalf("total = %d, want %d", booking.Pricing.Total, wantTotal)
	}
	if booking.Status != domain.BookingStatusPending || booking.PaymentStatus != domain.PaymentStatusPending {
		t.Fatalf("status = %s/%s", booking.Status, booking.PaymentStatus)
	}
	if len(booking.StatusHistory) != 1 || booking.StatusHistory[0].Status != domain.BookingStatusPending {
		t.Fatalf("history = %+v", booking.StatusHistory)
	}
	if len(f.publisher.events) != 1 || f.publisher.events[0].Type != EventBookingCreated {
		t.Fatalf("events = %+v", f.publisher.events)
	}
}

func TestCreateBookingRefusesInactiveVehicle(t *testing.T) {
	f := newBookingFixture(t)
	f.vehicles.vehicles["veh2"] = domain.Vehicle{ID: "veh2", Status: domain.VehicleStatusPendingReview}

	_, err := f.svc.CreateBooking(context.Background(), BookingRequest{
		VehicleID:  "veh2",
		CustomerID: "cust1",
		PickupDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		ReturnDate: time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrVehicleNotBookable) {
		t.Fatalf("err = %v, want ErrVehicleNotBookable", err)
	}
}

func TestConfirmBookingHoldsDeposit(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.create(t)

	confirmed, err := f.svc.ConfirmBooking(context.Background(), booking.ID, "pm_1")
	if err != nil {
		t.Fatalf("ConfirmBooking: %v", err)
	}
	if confirmed.Status != domain.BookingStatusConfirmed {
		t.Fatalf("status = %s", confirmed.Status)
	}
	if confirmed.Deposit.Status != domain.DepositStatusHeld || confirmed.Deposit.IntentID == "" {
		t.Fatalf("deposit = %+v", confirmed.Deposit)
	}
	if confirmed.ConfirmedAt == nil {
		t.Fatal("confirmedAt not set")
	}
	if len(f.deposits.held) != 1 || f.deposits.held[0].Amount != DefaultBookingPricing.DepositAmount {
		t.Fatalf("holds = %+v", f.deposits.held)
	}
	if got := len(confirmed.StatusHistory); got != 2 {
		t.Fatalf("history length = %d", got)
	}
}

func TestConfirmBookingRejectsWrongState(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.create(t)
	if _, err := f.svc.ConfirmBooking(context.Background(), booking.ID, "pm_1"); err != nil {
		t.Fatalf("ConfirmBooking: %v", err)
	}
	if _, err := f.svc.ConfirmBooking(context.Background(), booking.ID, "pm_1"); !errors.Is(err, ErrInvalidBookingTransition) {
		t.Fatalf("err = %v, want ErrInvalidBookingTransition", err)
	}
}

func TestCompleteRentalReleasesDeposit(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.create(t)
	if _, err := f.svc.ConfirmBooking(context.Background(), booking.ID, "pm_1"); err != nil {
		t.Fatalf("ConfirmBooking: %v", err)
	}
	if _, err := f.svc.StartRental(context.Background(), booking.ID); err != nil {
		t.Fatalf("StartRental: %v", err)
	}

	completed, err := f.svc.CompleteRental(context.Background(), booking.ID, nil)
	if err != nil {
		t.Fatalf("CompleteRental: %v", err)
	}
	if completed.Status != domain.BookingStatusCompleted {
		t.Fatalf("status = %s", completed.Status)
	}
	if completed.Deposit.Status != domain.DepositStatusReleased {
		t.Fatalf("deposit = %+v", completed.Deposit)
	}
	if len(f.deposits.released) != 1 {
		t.Fatalf("releases = %v", f.deposits.released)
	}
}

func TestCompleteRentalDeductsDamage(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.create(t)
	if _, err := f.svc.ConfirmBooking(context.Background(), booking.ID, "pm_1"); err != nil {
		t.Fatalf("ConfirmBooking: %v", err)
	}
	if _, err := f.svc.StartRental(context.Background(), booking.ID); err != nil {
		t.Fatalf("StartRental: %v", err)
	}

	completed, err := f.svc.CompleteRental(context.Background(), booking.ID, &DepositDeduction{Amount: 20000, Reason: "scratched door"})
	if err != nil {
		t.Fatalf("CompleteRental: %v", err)
	}
	if completed.Deposit.Status != domain.DepositStatusDeducted {
		t.Fatalf("deposit = %+v", completed.Deposit)
	}
	if len(f.deposits.deducted) != 1 || *f.deposits.deducted[0].Amount != 20000 {
		t.Fatalf("deductions = %+v", f.deposits.deducted)
	}
}

func TestCancelBookingReleasesHoldAndFlagsRefund(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.create(t)
	if _, err := f.svc.ConfirmBooking(context.Background(), booking.ID, "pm_1"); err != nil {
		t.Fatalf("ConfirmBooking: %v", err)
	}
	if _, err := f.svc.RecordPayment(context.Background(), booking.ID, domain.PaymentStatusPaid); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	cancelled, err := f.svc.CancelBooking(context.Background(), booking.ID, "plans changed")
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if cancelled.Status != domain.BookingStatusCancelled {
		t.Fatalf("status = %s", cancelled.Status)
	}
	if cancelled.Deposit.Status != domain.DepositStatusReleased {
		t.Fatalf("deposit = %+v", cancelled.Deposit)
	}
	if cancelled.PaymentStatus != domain.PaymentStatusRefunded {
		t.Fatalf("payment = %s", cancelled.PaymentStatus)
	}
	if cancelled.CancelledAt == nil {
		t.Fatal("cancelledAt not set")
	}
}

func TestCancelCompletedBookingRejected(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.create(t)
	for _, step := range []func() error{
		func() error { _, err := f.svc.ConfirmBooking(context.Background(), booking.ID, "pm_1"); return err },
		func() error { _, err := f.svc.StartRental(context.Background(), booking.ID); return err },
		func() error { _, err := f.svc.CompleteRental(context.Background(), booking.ID, nil); return err },
	} {
		if err := step(); err != nil {
			t.Fatalf("setup step: %v", err)
		}
	}
	if _, err := f.svc.CancelBooking(context.Background(), booking.ID, "too late"); !errors.Is(err, ErrInvalidBookingTransition) {
		t.Fatalf("err = %v, want ErrInvalidBookingTransition", err)
	}
}

func TestSubmitReviewOnlyAfterCompletion(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.create(t)

	if _, err := f.svc.SubmitReview(context.Background(), booking.ID, 5, "great car"); !errors.Is(err, ErrReviewNotAllowed) {
		t.Fatalf("err = %v, want ErrReviewNotAllowed", err)
	}

	for _, step := range []func() error{
		func() error { _, err := f.svc.ConfirmBooking(context.Background(), booking.ID, "pm_1"); return err },
		func() error { _, err := f.svc.StartRental(context.Background(), booking.ID); return err },
		func() error { _, err := f.svc.CompleteRental(context.Background(), booking.ID, nil); return err },
	} {
		if err := step(); err != nil {
			t.Fatalf("setup step: %v", err)
		}
	}

	reviewed, err := f.svc.SubmitReview(context.Background(), booking.ID, 5, "great car")
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	if reviewed.Review == nil || reviewed.Review.Rating != 5 {
		t.Fatalf("review = %+v", reviewed.Review)
	}
	if len(f.reviews.added) != 1 || f.reviews.added[0].VehicleID != "veh1" {
		t.Fatalf("published reviews = %+v", f.reviews.added)
	}

	if _, err := f.svc.SubmitReview(context.Background(), booking.ID, 9, "x"); err == nil {
		t.Fatal("expected error for out-of-range rating")
	}
}

func TestBookingHistoryGrowsWithEachTransition(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.create(t)
	if _, err := f.svc.ConfirmBooking(context.Background(), booking.ID, "pm_1"); err != nil {
		t.Fatalf("ConfirmBooking: %v", err)
	}
	if _, err := f.svc.StartRental(context.Background(), booking.ID); err != nil {
		t.Fatalf("StartRental: %v", err)
	}
	final, err := f.svc.CompleteRental(context.Background(), booking.ID, nil)
	if err != nil {
		t.Fatalf("CompleteRental: %v", err)
	}
	want := []domain.BookingStatus{
		domain.BookingStatusPending,
		domain.BookingStatusConfirmed,
		domain.BookingStatusInProgress,
		domain.BookingStatusCompleted,
	}
	if len(final.StatusHistory) != len(want) {
		t.Fatalf("history = %+v", final.StatusHistory)
	}
	for i, entry := range final.StatusHistory {
		if entry.Status != want[i] {
			t.Fatalf("history[%d] = %s, want %s", i, entry.Status, want[i])
		}
	}
}

func TestCreateBookingSurvivesPublishFailure(t *testing.T) {
	f := newBookingFixture(t)
	f.publisher.failErr = errors.New("topic unavailable")

	core, logs := observer.New(zapcore.WarnLevel)
	ctx := requestctx.WithLogger(context.Background(), zap.New(core))

	booking, err := f.svc.CreateBooking(ctx, BookingRequest{
		VehicleID:    "veh1",
		CustomerID:   "cust1",
		CustomerName: "Nimal Perera",
		PickupDate:   time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		ReturnDate:   time.Date(2026, 6, 4, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if _, err := f.bookings.FindByID(ctx, booking.ID); err != nil {
		t.Fatalf("booking was not persisted: %v", err)
	}

	entries := logs.FilterMessage("booking event publish failed").All()
	if len(entries) != 1 {
		t.Fatalf("warn entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["event_type"] != EventBookingCreated {
		t.Fatalf("event_type = %v", fields["event_type"])
	}
	if fields["booking_id"] != booking.ID {
		t.Fatalf("booking_id = %v", fields["booking_id"])
	}
}
