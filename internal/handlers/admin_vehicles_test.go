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

func newAdminVehicleRouter(svc services.VehicleService) http.Handler {
	handlers := NewAdminVehicleHandlers(svc)
	return NewRouter(WithAdminRoutes(func(r chi.Router) {
		r.Route("/vehicles", handlers.Routes)
	}))
}

func TestAdminListVehiclesFiltersByStatus(t *testing.T) {
	svc := &stubVehicleService{vehicle: sampleVehicle()}
	router := newAdminVehicleRouter(svc)

	req := identityRequest(httptest.NewRequest(http.MethodGet, "/api/v1/admin/vehicles/?status=active&page_size=5", nil), "staff1", auth.RoleStaff)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if svc.lastListStatus != domain.VehicleStatusActive {
		t.Fatalf("status filter = %q", svc.lastListStatus)
	}
	if svc.lastListPage.PageSize != 5 {
		t.Fatalf("page size = %d", svc.lastListPage.PageSize)
	}

	var response struct {
		Items         []json.RawMessage `json:"items"`
		NextPageToken string            `json:"nextPageToken"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(response.Items) != 1 || response.NextPageToken != "next" {
		t.Fatalf("response = %+v", response)
	}
}

func TestAdminListVehiclesSearchesByText(t *testing.T) {
	svc := &stubVehicleService{vehicle: sampleVehicle()}
	router := newAdminVehicleRouter(svc)

	req := identityRequest(httptest.NewRequest(http.MethodGet, "/api/v1/admin/vehicles/?status=pending_review&q=CAB-1234", nil), "staff1", auth.RoleStaff)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if svc.lastQuery != "CAB-1234" {
		t.Fatalf("query = %q", svc.lastQuery)
	}
}

func TestAdminApproveVehicleRecordsReviewer(t *testing.T) {
	svc := &stubVehicleService{vehicle: sampleVehicle()}
	router := newAdminVehicleRouter(svc)

	req := identityRequest(httptest.NewRequest(http.MethodPost, "/api/v1/admin/vehicles/veh1/approve", nil), "staff1", auth.RoleStaff)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if svc.lastReviewer != "staff1" {
		t.Fatalf("reviewer = %q", svc.lastReviewer)
	}
}

func TestAdminApproveVehicleConflictOnBadTransition(t *testing.T) {
	svc := &stubVehicleService{decideErr: services.ErrInvalidVehicleTransition}
	router := newAdminVehicleRouter(svc)

	req := identityRequest(httptest.NewRequest(http.MethodPost, "/api/v1/admin/vehicles/veh1/approve", nil), "staff1", auth.RoleStaff)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestAdminRejectVehicleForwardsReason(t *testing.T) {
	svc := &stubVehicleService{vehicle: sampleVehicle()}
	router := newAdminVehicleRouter(svc)

	body := `{"reason":"blurry registration photo"}`
	req := identityRequest(httptest.NewRequest(http.MethodPost, "/api/v1/admin/vehicles/veh1/reject", strings.NewReader(body)), "staff1", auth.RoleStaff)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if svc.lastReason != "blurry registration photo" {
		t.Fatalf("reason = %q", svc.lastReason)
	}
}

func TestAdminVerifyDocument(t *testing.T) {
	svc := &stubVehicleService{vehicle: sampleVehicle()}
	router := newAdminVehicleRouter(svc)

	body := `{"verdict":"verified"}`
	req := identityRequest(httptest.NewRequest(http.MethodPost, "/api/v1/admin/vehicles/veh1/documents/doc1/verify", strings.NewReader(body)), "staff1", auth.RoleStaff)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if svc.lastVerdict != domain.DocumentStatusVerified {
		t.Fatalf("verdict = %q", svc.lastVerdict)
	}
}

func TestAdminVerifyDocumentRejectsPendingVerdict(t *testing.T) {
	router := newAdminVehicleRouter(&stubVehicleService{vehicle: sampleVehicle()})

	body := `{"verdict":"pending"}`
	req := identityRequest(httptest.NewRequest(http.MethodPost, "/api/v1/admin/vehicles/veh1/documents/doc1/verify", strings.NewReader(body)), "staff1", auth.RoleStaff)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestAdminDocumentDownloadURL(t *testing.T) {
	svc := &stubVehicleService{downloadTo: "https://storage.example.com/download/vehicles/veh1/doc1.pdf"}
	router := newAdminVehicleRouter(svc)

	req := identityRequest(httptest.NewRequest(http.MethodGet, "/api/v1/admin/vehicles/veh1/documents/doc1/download", nil), "staff1", auth.RoleStaff)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var response map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if !strings.Contains(response["downloadUrl"], "doc1.pdf") {
		t.Fatalf("response = %v", response)
	}
}

func TestAdminDocumentVerifyMissingDocument(t *testing.T) {
	svc := &stubVehicleService{verifyErr: services.ErrDocumentNotFound}
	router := newAdminVehicleRouter(svc)

	body := `{"verdict":"verified"}`
	req := identityRequest(httptest.NewRequest(http.MethodPost, "/api/v1/admin/vehicles/veh1/documents/ghost/verify", strings.NewReader(body)), "staff1", auth.RoleStaff)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", rr.Code, rr.Body.String())
	}
}
