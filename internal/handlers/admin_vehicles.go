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

// AdminVehicleHandlers exposes the vehicle review queue for staff.
type AdminVehicleHandlers struct {
	vehicles services.VehicleService
}

// NewAdminVehicleHandlers constructs a new AdminVehicleHandlers instance.
func NewAdminVehicleHandlers(vehicles services.VehicleService) *AdminVehicleHandlers {
	return &AdminVehicleHandlers{vehicles: vehicles}
}

// Routes registers the /admin/vehicles endpoints.
func (h *AdminVehicleHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listByStatus)
	r.Post("/{vehicleID}/approve", h.approve)
	r.Post("/{vehicleID}/reject", h.reject)
	r.Post("/{vehicleID}/suspend", h.suspend)
	r.Post("/{vehicleID}/reinstate", h.reinstate)
	r.Post("/{vehicleID}/documents/{documentID}/verify", h.verifyDocument)
	r.Get("/{vehicleID}/documents/{documentID}/download", h.documentDownload)
}

type reviewDecisionPayload struct {
	Reason string `json:"reason,omitempty"`
}

type documentVerdictPayload struct {
	Verdict string `json:"verdict"`
	Note    string `json:"note,omitempty"`
}

func reviewerID(r *http.Request) string {
	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		return identity.UID
	}
	return ""
}

func writeVehicleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, services.ErrInvalidVehicleTransition):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_transition", "vehicle is not in a state that allows this action", http.StatusConflict))
	case errors.Is(err, services.ErrRejectionReasonRequired):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "a reason is required", http.StatusBadRequest))
	case errors.Is(err, services.ErrDocumentNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("not_found", "document not found", http.StatusNotFound))
	default:
		writeRepositoryError(ctx, w, err)
	}
}

func (h *AdminVehicleHandlers) listByStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.vehicles == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "vehicle service unavailable", http.StatusServiceUnavailable))
		return
	}
	page, err := parsePagination(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	status := domain.ParseVehicleStatus(r.URL.Query().Get("status"))
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	var result domain.CursorPage[domain.Vehicle]
	if query != "" {
		result, err = h.vehicles.SearchVehicles(ctx, status, query, page)
	} else {
		result, err = h.vehicles.ListVehiclesByStatus(ctx, status, page)
	}
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	items := make([]vehiclePayload, 0, len(result.Items))
	for _, vehicle := range result.Items {
		items = append(items, buildVehiclePayload(vehicle))
	}
	writeJSONResponse(w, http.StatusOK, listResponse[vehiclePayload]{Items: items, NextPageToken: result.NextPageToken})
}

func (h *AdminVehicleHandlers) approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, func(vehicleID string) (domain.Vehicle, error) {
		return h.vehicles.ApproveVehicle(r.Context(), vehicleID, reviewerID(r))
	})
}

func (h *AdminVehicleHandlers) reject(w http.ResponseWriter, r *http.Request) {
	h.decideWithReason(w, r, func(vehicleID, reason string) (domain.Vehicle, error) {
		return h.vehicles.RejectVehicle(r.Context(), vehicleID, reviewerID(r), reason)
	})
}

func (h *AdminVehicleHandlers) suspend(w http.ResponseWriter, r *http.Request) {
	h.decideWithReason(w, r, func(vehicleID, reason string) (domain.Vehicle, error) {
		return h.vehicles.SuspendVehicle(r.Context(), vehicleID, reviewerID(r), reason)
	})
}

func (h *AdminVehicleHandlers) reinstate(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, func(vehicleID string) (domain.Vehicle, error) {
		return h.vehicles.ReinstateVehicle(r.Context(), vehicleID, reviewerID(r))
	})
}

func (h *AdminVehicleHandlers) decide(w http.ResponseWriter, r *http.Request, run func(string) (domain.Vehicle, error)) {
	ctx := r.Context()
	if h.vehicles == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "vehicle service unavailable", http.StatusServiceUnavailable))
		return
	}
	vehicleID := strings.TrimSpace(chi.URLParam(r, "vehicleID"))
	if vehicleID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "vehicle id is required", http.StatusBadRequest))
		return
	}
	vehicle, err := run(vehicleID)
	if err != nil {
		writeVehicleError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildVehiclePayload(vehicle))
}

func (h *AdminVehicleHandlers) decideWithReason(w http.ResponseWriter, r *http.Request, run func(string, string) (domain.Vehicle, error)) {
	ctx := r.Context()
	if h.vehicles == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "vehicle service unavailable", http.StatusServiceUnavailable))
		return
	}
	vehicleID := strings.TrimSpace(chi.URLParam(r, "vehicleID"))
	if vehicleID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "vehicle id is required", http.StatusBadRequest))
		return
	}

	var payload reviewDecisionPayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	vehicle, err := run(vehicleID, payload.Reason)
	if err != nil {
		writeVehicleError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildVehiclePayload(vehicle))
}

func (h *AdminVehicleHandlers) verifyDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.vehicles == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "vehicle service unavailable", http.StatusServiceUnavailable))
		return
	}
	vehicleID := strings.TrimSpace(chi.URLParam(r, "vehicleID"))
	documentID := strings.TrimSpace(chi.URLParam(r, "documentID"))
	if vehicleID == "" || documentID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "vehicle id and document id are required", http.StatusBadRequest))
		return
	}

	var payload documentVerdictPayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	var verdict domain.DocumentStatus
	switch strings.ToLower(strings.TrimSpace(payload.Verdict)) {
	case string(domain.DocumentStatusVerified):
		verdict = domain.DocumentStatusVerified
	case string(domain.DocumentStatusRejected):
		verdict = domain.DocumentStatusRejected
	default:
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "verdict must be verified or rejected", http.StatusBadRequest))
		return
	}

	vehicle, err := h.vehicles.VerifyDocument(ctx, vehicleID, documentID, verdict, payload.Note)
	if err != nil {
		writeVehicleError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildVehiclePayload(vehicle))
}

func (h *AdminVehicleHandlers) documentDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.vehicles == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "vehicle service unavailable", http.StatusServiceUnavailable))
		return
	}
	vehicleID := strings.TrimSpace(chi.URLParam(r, "vehicleID"))
	documentID := strings.TrimSpace(chi.URLParam(r, "documentID"))
	if vehicleID == "" || documentID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "vehicle id and document id are required", http.StatusBadRequest))
		return
	}

	url, err := h.vehicles.DocumentDownloadURL(ctx, vehicleID, documentID)
	if err != nil {
		writeVehicleError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"downloadUrl": url})
}
