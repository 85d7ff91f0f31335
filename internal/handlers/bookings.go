package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/recharge-travels/api/internal/domain"
	"github.com/recharge-travels/api/internal/platform/auth"
	"github.com/recharge-travels/api/internal/platform/httpx"
	"github.com/recharge-travels/api/internal/services"
)

// BookingHandlers exposes customer-facing rental booking endpoints.
type BookingHandlers struct {
	authn    *auth.Authenticator
	bookings services.BookingService
}

// NewBookingHandlers constructs a new BookingHandlers instance.
func NewBookingHandlers(authn *auth.Authenticator, bookings services.BookingService) *BookingHandlers {
	return &BookingHandlers{authn: authn, bookings: bookings}
}

// Routes registers the /bookings endpoints.
func (h *BookingHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireFirebaseAuth())
	}
	r.Post("/", h.createBooking)
	r.Get("/", h.listBookings)
	r.Get("/{bookingID}", h.getBooking)
	r.Post("/{bookingID}/confirm", h.confirmBooking)
	r.Post("/{bookingID}/cancel", h.cancelBooking)
	r.Post("/{bookingID}/review", h.submitReview)
}

type bookingRequestPayload struct {
	VehicleID        string `json:"vehicleId"`
	CustomerName     string `json:"customerName,omitempty"`
	PickupDate       string `json:"pickupDate"`
	ReturnDate       string `json:"returnDate"`
	IncludeInsurance bool   `json:"includeInsurance,omitempty"`
	IncludeDelivery  bool   `json:"includeDelivery,omitempty"`
}

type bookingPricingPayload struct {
	Currency   string `json:"currency"`
	Days       int    `json:"days"`
	DailyRate  int64  `json:"dailyRate"`
	Base       int64  `json:"base"`
	Insurance  int64  `json:"insurance"`
	Delivery   int64  `json:"delivery"`
	ServiceFee int64  `json:"serviceFee"`
	Deposit    int64  `json:"deposit"`
	Total      int64  `json:"total"`
}

type depositPayload struct {
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type statusChangePayload struct {
	Status    string `json:"status"`
	ChangedAt string `json:"changedAt"`
	Note      string `json:"note,omitempty"`
}

type bookingReviewPayload struct {
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type bookingPayload struct {
	ID            string                `json:"id"`
	VehicleID     string                `json:"vehicleId"`
	OwnerID       string                `json:"ownerId,omitempty"`
	CustomerID    string                `json:"customerId"`
	CustomerName  string                `json:"customerName,omitempty"`
	PickupDate    string                `json:"pickupDate"`
	ReturnDate    string                `json:"returnDate"`
	Pricing       bookingPricingPayload `json:"pricing"`
	Status        string                `json:"status"`
	PaymentStatus string                `json:"paymentStatus"`
	Deposit       *depositPayload       `json:"deposit,omitempty"`
	StatusHistory []statusChangePayload `json:"statusHistory,omitempty"`
	Review        *bookingReviewPayload `json:"review,omitempty"`
	CreatedAt     string                `json:"createdAt,omitempty"`
	ConfirmedAt   string                `json:"confirmedAt,omitempty"`
	StartedAt     string                `json:"startedAt,omitempty"`
	CompletedAt   string                `json:"completedAt,omitempty"`
	CancelledAt   string                `json:"cancelledAt,omitempty"`
}

type confirmBookingPayload struct {
	PaymentMethodID string `json:"paymentMethodId"`
}

type cancelBookingPayload struct {
	Note string `json:"note,omitempty"`
}

type reviewRequestPayload struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

func buildBookingPayload(booking domain.VehicleBooking) bookingPayload {
	payload := bookingPayload{
		ID:           booking.ID,
		VehicleID:    booking.VehicleID,
		OwnerID:      booking.OwnerID,
		CustomerID:   booking.CustomerID,
		CustomerName: booking.CustomerName,
		PickupDate:   formatTime(booking.PickupDate),
		ReturnDate:   formatTime(booking.ReturnDate),
		Pricing: bookingPricingPayload{
			Currency:   booking.Pricing.Currency,
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
		CreatedAt:     formatTime(booking.CreatedAt),
		ConfirmedAt:   formatTimePointer(booking.ConfirmedAt),
		StartedAt:     formatTimePointer(booking.StartedAt),
		CompletedAt:   formatTimePointer(booking.CompletedAt),
		CancelledAt:   formatTimePointer(booking.CancelledAt),
	}
	if booking.Deposit.IntentID != "" || booking.Deposit.Amount > 0 {
		payload.Deposit = &depositPayload{
			Amount:    booking.Deposit.Amount,
			Status:    string(booking.Deposit.Status),
			UpdatedAt: formatTime(booking.Deposit.UpdatedAt),
		}
	}
	for _, change := range booking.StatusHistory {
		payload.StatusHistory = append(payload.StatusHistory, statusChangePayload{
			Status:    string(change.Status),
			ChangedAt: formatTime(change.ChangedAt),
			Note:      change.Note,
		})
	}
	if booking.Review != nil {
		payload.Review = &bookingReviewPayload{
			Rating:    booking.Review.Rating,
			Comment:   booking.Review.Comment,
			CreatedAt: formatTime(booking.Review.CreatedAt),
		}
	}
	return payload
}

func writeBookingError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, services.ErrVehicleNotBookable):
		httpx.WriteError(ctx, w, httpx.NewError("vehicle_not_bookable", "vehicle is not available for booking", http.StatusConflict))
	case errors.Is(err, services.ErrInvalidBookingTransition):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_transition", "booking is not in a state that allows this action", http.StatusConflict))
	case errors.Is(err, services.ErrReviewNotAllowed):
		httpx.WriteError(ctx, w, httpx.NewError("review_not_allowed", "reviews are only accepted on completed bookings", http.StatusConflict))
	default:
		writeRepositoryError(ctx, w, err)
	}
}

func (h *BookingHandlers) createBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.bookings == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "booking service unavailable", http.StatusServiceUnavailable))
		return
	}
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok || identity == nil || strings.TrimSpace(identity.UID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return
	}

	var payload bookingRequestPayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if strings.TrimSpace(payload.VehicleID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "vehicleId is required", http.StatusBadRequest))
		return
	}
	pickup, err := parseTimeParam(strings.TrimSpace(payload.PickupDate))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid pickupDate", http.StatusBadRequest))
		return
	}
	ret, err := parseTimeParam(strings.TrimSpace(payload.ReturnDate))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid returnDate", http.StatusBadRequest))
		return
	}
	if !ret.After(pickup) {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "returnDate must be after pickupDate", http.StatusBadRequest))
		return
	}

	booking, err := h.bookings.CreateBooking(ctx, services.BookingRequest{
		VehicleID:        payload.VehicleID,
		CustomerID:       identity.UID,
		CustomerName:     payload.CustomerName,
		PickupDate:       pickup,
		ReturnDate:       ret,
		IncludeInsurance: payload.IncludeInsurance,
		IncludeDelivery:  payload.IncludeDelivery,
	})
	if err != nil {
		writeBookingError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, buildBookingPayload(booking))
}

func (h *BookingHandlers) listBookings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.bookings == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "booking service unavailable", http.StatusServiceUnavailable))
		return
	}
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok || identity == nil || strings.TrimSpace(identity.UID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return
	}

	customerID := identity.UID
	if requested := strings.TrimSpace(r.URL.Query().Get("customer")); requested != "" && !strings.EqualFold(requested, customerID) {
		if !identity.HasAnyRole(auth.RoleStaff, auth.RoleAdmin) {
			httpx.WriteError(ctx, w, httpx.NewError("forbidden", "insufficient permissions", http.StatusForbidden))
			return
		}
		customerID = requested
	}

	bookings, err := h.bookings.ListCustomerBookings(ctx, customerID)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	items := make([]bookingPayload, 0, len(bookings))
	for _, booking := range bookings {
		items = append(items, buildBookingPayload(booking))
	}
	writeJSONResponse(w, http.StatusOK, listResponse[bookingPayload]{Items: items})
}

func (h *BookingHandlers) getBooking(w http.ResponseWriter, r *http.Request) {
	booking, ok := h.loadOwnBooking(w, r)
	if !ok {
		return
	}
	writeJSONResponse(w, http.StatusOK, buildBookingPayload(booking))
}

func (h *BookingHandlers) confirmBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	booking, ok := h.loadOwnBooking(w, r)
	if !ok {
		return
	}

	var payload confirmBookingPayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if strings.TrimSpace(payload.PaymentMethodID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "paymentMethodId is required", http.StatusBadRequest))
		return
	}

	confirmed, err := h.bookings.ConfirmBooking(ctx, booking.ID, payload.PaymentMethodID)
	if err != nil {
		writeBookingError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildBookingPayload(confirmed))
}

func (h *BookingHandlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	booking, ok := h.loadOwnBooking(w, r)
	if !ok {
		return
	}

	var payload cancelBookingPayload
	if err := decodeJSONBody(w, r, &payload); err != nil && !strings.Contains(err.Error(), "request body is required") {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	cancelled, err := h.bookings.CancelBooking(ctx, booking.ID, payload.Note)
	if err != nil {
		writeBookingError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildBookingPayload(cancelled))
}

func (h *BookingHandlers) submitReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	booking, ok := h.loadOwnBooking(w, r)
	if !ok {
		return
	}

	var payload reviewRequestPayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if payload.Rating < 1 || payload.Rating > 5 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "rating must be between 1 and 5", http.StatusBadRequest))
		return
	}

	reviewed, err := h.bookings.SubmitReview(ctx, booking.ID, payload.Rating, payload.Comment)
	if err != nil {
		writeBookingError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildBookingPayload(reviewed))
}

// loadOwnBooking fetches the booking and enforces that the caller owns it
// unless they hold a staff or admin role.
func (h *BookingHandlers) loadOwnBooking(w http.ResponseWriter, r *http.Request) (domain.VehicleBooking, bool) {
	ctx := r.Context()
	if h.bookings == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "booking service unavailable", http.StatusServiceUnavailable))
		return domain.VehicleBooking{}, false
	}
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok || identity == nil || strings.TrimSpace(identity.UID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return domain.VehicleBooking{}, false
	}

	bookingID := strings.TrimSpace(chi.URLParam(r, "bookingID"))
	if bookingID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "booking id is required", http.StatusBadRequest))
		return domain.VehicleBooking{}, false
	}

	booking, err := h.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return domain.VehicleBooking{}, false
	}
	if !strings.EqualFold(booking.CustomerID, identity.UID) && !identity.HasAnyRole(auth.RoleStaff, auth.RoleAdmin) {
		httpx.WriteError(ctx, w, httpx.NewError("forbidden", "insufficient permissions", http.StatusForbidden))
		return domain.VehicleBooking{}, false
	}
	return booking, true
}
