package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/recharge-travels/api/internal/domain"
	"github.com/recharge-travels/api/internal/platform/httpx"
	"github.com/recharge-travels/api/internal/services"
)

// AdminBookingHandlers exposes the rental desk operations for staff.
type AdminBookingHandlers struct {
	bookings services.BookingService
}

// NewAdminBookingHandlers constructs a new AdminBookingHandlers instance.
func NewAdminBookingHandlers(bookings services.BookingService) *AdminBookingHandlers {
	return &AdminBookingHandlers{bookings: bookings}
}

// Routes registers the /admin/bookings endpoints.
func (h *AdminBookingHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listByStatus)
	r.Get("/vehicles/{vehicleID}", h.listVehicleBookings)
	r.Post("/{bookingID}/start", h.startRental)
	r.Post("/{bookingID}/complete", h.completeRental)
	r.Post("/{bookingID}/payment", h.recordPayment)
}

type completeRentalPayload struct {
	DeductionAmount int64  `json:"deductionAmount,omitempty"`
	DeductionReason string `json:"deductionReason,omitempty"`
}

type paymentUpdatePayload struct {
	Status string `json:"status"`
}

func (h *AdminBookingHandlers) listByStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.bookings == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "booking service unavailable", http.StatusServiceUnavailable))
		return
	}
	page, err := parsePagination(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	status := domain.ParseBookingStatus(r.URL.Query().Get("status"))

	result, err := h.bookings.ListBookingsByStatus(ctx, status, page)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	items := make([]bookingPayload, 0, len(result.Items))
	for _, booking := range result.Items {
		items = append(items, buildBookingPayload(booking))
	}
	writeJSONResponse(w, http.StatusOK, listResponse[bookingPayload]{Items: items, NextPageToken: result.NextPageToken})
}

func (h *AdminBookingHandlers) listVehicleBookings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.bookings == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "booking service unavailable", http.StatusServiceUnavailable))
		return
	}
	vehicleID := strings.TrimSpace(chi.URLParam(r, "vehicleID"))
	if vehicleID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "vehicle id is required", http.StatusBadRequest))
		return
	}
	bookings, err := h.bookings.ListVehicleBookings(ctx, vehicleID)
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

func (h *AdminBookingHandlers) startRental(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.bookings == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "booking service unavailable", http.StatusServiceUnavailable))
		return
	}
	bookingID := strings.TrimSpace(chi.URLParam(r, "bookingID"))
	if bookingID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "booking id is required", http.StatusBadRequest))
		return
	}
	booking, err := h.bookings.StartRental(ctx, bookingID)
	if err != nil {
		writeBookingError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildBookingPayload(booking))
}

func (h *AdminBookingHandlers) completeRental(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.bookings == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "booking service unavailable", http.StatusServiceUnavailable))
		return
	}
	bookingID := strings.TrimSpace(chi.URLParam(r, "bookingID"))
	if bookingID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "booking id is required", http.StatusBadRequest))
		return
	}

	var payload completeRentalPayload
	if err := decodeJSONBody(w, r, &payload); err != nil && !strings.Contains(err.Error(), "request body is required") {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if payload.DeductionAmount < 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "deductionAmount must not be negative", http.StatusBadRequest))
		return
	}

	var deduction *services.DepositDeduction
	if payload.DeductionAmount > 0 {
		deduction = &services.DepositDeduction{
			Amount: payload.DeductionAmount,
			Reason: payload.DeductionReason,
		}
	}

	booking, err := h.bookings.CompleteRental(ctx, bookingID, deduction)
	if err != nil {
		writeBookingError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildBookingPayload(booking))
}

func (h *AdminBookingHandlers) recordPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.bookings == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "booking service unavailable", http.StatusServiceUnavailable))
		return
	}
	bookingID := strings.TrimSpace(chi.URLParam(r, "bookingID"))
	if bookingID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "booking id is required", http.StatusBadRequest))
		return
	}

	var payload paymentUpdatePayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	raw := strings.ToLower(strings.TrimSpace(payload.Status))
	switch raw {
	case string(domain.PaymentStatusPending), string(domain.PaymentStatusPartial), string(domain.PaymentStatusPaid), string(domain.PaymentStatusRefunded):
	default:
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "status must be one of pending, partial, paid, refunded", http.StatusBadRequest))
		return
	}

	booking, err := h.bookings.RecordPayment(ctx, bookingID, domain.PaymentStatus(raw))
	if err != nil {
		writeBookingError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildBookingPayload(booking))
}
