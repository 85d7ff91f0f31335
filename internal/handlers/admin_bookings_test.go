package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	domain "github.com/recharge-travels/api/internal/domain"
	"github.com/recharge-travels/api/internal/platform/auth"
	"github.com/recharge-travels/api/internal/services"
)

func newAdminBookingRouter(svc services.BookingService) http.Handler {
	handlers := NewAdminBookingHandlers(svc)
	return NewRouter(WithAdminRoutes(func(r chi.Router) {
		r.Route("/bookings", handlers.Routes)
	}))
}

func TestAdminListBookingsByStatus(t *testing.T) {
	svc := &stubBookingService{booking: sampleBooking()}
	router := newAdminBookingRouter(svc)

	req := identityRequest(httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings/?status=confirmed", nil), "staff1", auth.RoleStaff)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if svc.lastStatus != domain.BookingStatusConfirmed {
		t.Fatalf("status filter = %q", svc.lastStatus)
	}
	var response struct {
		Items         []json.RawMessage `json:"items"`
		NextPageToken string            `json:"nextPageToken"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(response.Items) != 1 || response.NextPageToken != "more" {
		t.Fatalf("response = %+v", response)
	}
}

func TestAdminCompleteRentalWithDeduction(t *testing.T) {
	svc := &stubBookingService{booking: sampleBooking()}
	router := newAdminBookingRouter(svc)

	body := `{"deductionAmount":7500,"deductionReason":"scratched door panel"}`
	req := identityRequest(httptest.NewRequest(http.MethodPost, "/api/v1/admin/bookings/bk1/complete", strings.NewReader(body)), "staff1", auth.RoleStaff)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if svc.lastDeduction == nil || svc.lastDeduction.Amount != 7500 {
		t.Fatalf("deduction = %+v", svc.lastDeduction)
	}
	if svc.lastDeduction.Reason != "scratched door panel" {
		t.Fatalf("deduction reason = %q", svc.lastDeduction.Reason)
	}
}

func TestAdminCompleteRentalWithoutBody(t *testing.T) {
	svc := &stubBookingService{booking: sampleBooking()}
	router := newAdminBookingRouter(svc)

	req := identityRequest(httptest.NewRequest(http.MethodPost, "/api/v1/admin/bookings/bk1/complete", nil), "staff1", auth.RoleStaff)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if svc.lastDeduction != nil {
		t.Fatalf("deduction = %+v", svc.lastDeduction)
	}
}

func TestAdminCompleteRentalRejectsNegativeDeduction(t *testing.T) {
	router := newAdminBookingRouter(&stubBookingService{booking: sampleBooking()})

	body := `{"deductionAmount":-100}`
	req := identityRequest(httptest.NewRequest(http.MethodPost, "/api/v1/admin/bookings/bk1/complete", strings.NewReader(body)), "staff1", auth.RoleStaff)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestAdminRecordPayment(t *testing.T) {
	svc := &stubBookingService{booking: sampleBooking()}
	router := newAdminBookingRouter(svc)

	body := `{"status":"paid"}`
	req := identityRequest(httptest.NewRequest(http.MethodPost, "/api/v1/admin/bookings/bk1/payment", strings.NewReader(body)), "staff1", auth.RoleStaff)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if svc.lastPayment != domain.PaymentStatusPaid {
		t.Fatalf("payment status = %q", svc.lastPayment)
	}
}

func TestAdminRecordPaymentRejectsUnknownStatus(t *testing.T) {
	router := newAdminBookingRouter(&stubBookingService{booking: sampleBooking()})

	body := `{"status":"settled"}`
	req := identityRequest(httptest.NewRequest(http.MethodPost, "/api/v1/admin/bookings/bk1/payment", strings.NewReader(body)), "staff1", auth.RoleStaff)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}
