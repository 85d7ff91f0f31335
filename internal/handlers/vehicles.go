package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/recharge-travels/api/internal/domain"
	"github.com/recharge-travels/api/internal/platform/auth"
	"github.com/recharge-travels/api/internal/platform/httpx"
	"github.com/recharge-travels/api/internal/services"
)

// VehicleReviewLister serves the published reviews for a vehicle's page.
type VehicleReviewLister interface {
	ListVehicleReviews(ctx context.Context, vehicleID string) ([]domain.VehicleReview, error)
}

// VehicleHandlers exposes owner onboarding and vehicle listing endpoints.
type VehicleHandlers struct {
	authn    *auth.Authenticator
	vehicles services.VehicleService
	reviews  VehicleReviewLister
}

// NewVehicleHandlers constructs a new VehicleHandlers instance.
func NewVehicleHandlers(authn *auth.Authenticator, vehicles services.VehicleService, reviews VehicleReviewLister) *VehicleHandlers {
	return &VehicleHandlers{authn: authn, vehicles: vehicles, reviews: reviews}
}

// Routes registers the /vehicles endpoints. Review listings stay public;
// everything else requires a signed-in caller.
func (h *VehicleHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listActiveVehicles)
	r.Get("/{vehicleID}/reviews", h.listVehicleReviews)
	r.Group(func(g chi.Router) {
		if h.authn != nil {
			g.Use(h.authn.RequireFirebaseAuth())
		}
		g.Post("/owners", h.registerOwner)
		g.Get("/owners/{ownerID}", h.getOwner)
		g.Get("/owners/{ownerID}/vehicles", h.listOwnerVehicles)
		g.Post("/", h.submitVehicle)
		g.Get("/{vehicleID}", h.getVehicle)
		g.Post("/{vehicleID}/documents", h.requestDocumentUpload)
	})
}

type ownerRegistrationPayload struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

type ownerPayload struct {
	ID                 string `json:"id"`
	FullName           string `json:"fullName"`
	Email              string `json:"email"`
	Phone              string `json:"phone,omitempty"`
	Address            string `json:"address,omitempty"`
	VerificationStatus string `json:"verificationStatus"`
	CreatedAt          string `json:"createdAt,omitempty"`
	VerifiedAt         string `json:"verifiedAt,omitempty"`
}

type vehicleSubmissionPayload struct {
	OwnerID           string   `json:"ownerId"`
	Make              string   `json:"make"`
	Model             string   `json:"model"`
	Year              int      `json:"year"`
	RegistrationPlate string   `json:"registrationPlate"`
	Type              string   `json:"type,omitempty"`
	Seats             int      `json:"seats,omitempty"`
	Transmission      string   `json:"transmission,omitempty"`
	FuelType          string   `json:"fuelType,omitempty"`
	DailyRate         int64    `json:"dailyRate"`
	Currency          string   `json:"currency"`
	Images            []string `json:"images,omitempty"`
}

type vehicleDocumentPayload struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	Note       string `json:"note,omitempty"`
	UploadedAt string `json:"uploadedAt,omitempty"`
	VerifiedAt string `json:"verifiedAt,omitempty"`
}

type vehiclePayload struct {
	ID                string                   `json:"id"`
	OwnerID           string                   `json:"ownerId"`
	OwnerName         string                   `json:"ownerName,omitempty"`
	Make              string                   `json:"make"`
	Model             string                   `json:"model"`
	Year              int                      `json:"year,omitempty"`
	RegistrationPlate string                   `json:"registrationPlate,omitempty"`
	Type              string                   `json:"type,omitempty"`
	Seats             int                      `json:"seats,omitempty"`
	Transmission      string                   `json:"transmission,omitempty"`
	FuelType          string                   `json:"fuelType,omitempty"`
	DailyRate         int64                    `json:"dailyRate"`
	Currency          string                   `json:"currency"`
	Images            []string                 `json:"images,omitempty"`
	Documents         []vehicleDocumentPayload `json:"documents,omitempty"`
	Status            string                   `json:"status"`
	RejectionReason   string                   `json:"rejectionReason,omitempty"`
	SubmittedAt       string                   `json:"submittedAt,omitempty"`
	ReviewedAt        string                   `json:"reviewedAt,omitempty"`
	ApprovedAt        string                   `json:"approvedAt,omitempty"`
}

type documentUploadRequestPayload struct {
	Type     string `json:"type"`
	Filename string `json:"filename"`
}

type documentUploadPayload struct {
	DocumentID string `json:"documentId"`
	ObjectPath string `json:"objectPath"`
	UploadURL  string `json:"uploadUrl"`
	ExpiresAt  string `json:"expiresAt"`
}

func buildOwnerPayload(owner domain.VehicleOwner) ownerPayload {
	return ownerPayload{
		ID:                 owner.ID,
		FullName:           owner.FullName,
		Email:              owner.Email,
		Phone:              owner.Phone,
		Address:            owner.Address,
		VerificationStatus: string(owner.VerificationStatus),
		CreatedAt:          formatTime(owner.CreatedAt),
		VerifiedAt:         formatTimePointer(owner.VerifiedAt),
	}
}

func buildVehiclePayload(vehicle domain.Vehicle) vehiclePayload {
	payload := vehiclePayload{
		ID:                vehicle.ID,
		OwnerID:           vehicle.OwnerID,
		OwnerName:         vehicle.OwnerName,
		Make:              vehicle.Make,
		Model:             vehicle.Model,
		Year:              vehicle.Year,
		RegistrationPlate: vehicle.RegistrationPlate,
		Type:              vehicle.Type,
		Seats:             vehicle.Seats,
		Transmission:      vehicle.Transmission,
		FuelType:          vehicle.FuelType,
		DailyRate:         vehicle.DailyRate,
		Currency:          vehicle.Currency,
		Images:            vehicle.Images,
		Status:            string(vehicle.Status),
		RejectionReason:   vehicle.RejectionReason,
		SubmittedAt:       formatTime(vehicle.SubmittedAt),
		ReviewedAt:        formatTimePointer(vehicle.ReviewedAt),
		ApprovedAt:        formatTimePointer(vehicle.ApprovedAt),
	}
	for _, doc := range vehicle.Documents {
		payload.Documents = append(payload.Documents, vehicleDocumentPayload{
			ID:         doc.ID,
			Type:       doc.Type,
			Status:     string(doc.Status),
			Note:       doc.Note,
			UploadedAt: formatTime(doc.UploadedAt),
			VerifiedAt: formatTimePointer(doc.VerifiedAt),
		})
	}
	return payload
}

// listActiveVehicles is the public browse surface for the rental pages.
// Documents are internal to the approval workflow and are never included.
func (h *VehicleHandlers) listActiveVehicles(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.vehicles.ListVehiclesByStatus(ctx, domain.VehicleStatusActive, page)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	items := make([]vehiclePayload, 0, len(result.Items))
	for _, vehicle := range result.Items {
		payload := buildVehiclePayload(vehicle)
		payload.Documents = nil
		items = append(items, payload)
	}
	writeJSONResponse(w, http.StatusOK, listResponse[vehiclePayload]{Items: items, NextPageToken: result.NextPageToken})
}

func (h *VehicleHandlers) registerOwner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.vehicles == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "vehicle service unavailable", http.StatusServiceUnavailable))
		return
	}

	var payload ownerRegistrationPayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if strings.TrimSpace(payload.FullName) == "" || strings.TrimSpace(payload.Email) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "fullName and email are required", http.StatusBadRequest))
		return
	}

	owner, err := h.vehicles.RegisterOwner(ctx, services.OwnerRegistration{
		FullName: payload.FullName,
		Email:    payload.Email,
		Phone:    payload.Phone,
		Address:  payload.Address,
	})
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, buildOwnerPayload(owner))
}

func (h *VehicleHandlers) getOwner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.vehicles == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "vehicle service unavailable", http.StatusServiceUnavailable))
		return
	}
	ownerID := strings.TrimSpace(chi.URLParam(r, "ownerID"))
	if ownerID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "owner id is required", http.StatusBadRequest))
		return
	}
	owner, err := h.vehicles.GetOwner(ctx, ownerID)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildOwnerPayload(owner))
}

func (h *VehicleHandlers) listOwnerVehicles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.vehicles == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "vehicle service unavailable", http.StatusServiceUnavailable))
		return
	}
	ownerID := strings.TrimSpace(chi.URLParam(r, "ownerID"))
	if ownerID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "owner id is required", http.StatusBadRequest))
		return
	}
	vehicles, err := h.vehicles.ListOwnerVehicles(ctx, ownerID)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	items := make([]vehiclePayload, 0, len(vehicles))
	for _, vehicle := range vehicles {
		items = append(items, buildVehiclePayload(vehicle))
	}
	writeJSONResponse(w, http.StatusOK, listResponse[vehiclePayload]{Items: items})
}

func (h *VehicleHandlers) submitVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.vehicles == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "vehicle service unavailable", http.StatusServiceUnavailable))
		return
	}

	var payload vehicleSubmissionPayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if strings.TrimSpace(payload.OwnerID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "ownerId is required", http.StatusBadRequest))
		return
	}
	if strings.TrimSpace(payload.Make) == "" || strings.TrimSpace(payload.Model) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "make and model are required", http.StatusBadRequest))
		return
	}
	if payload.DailyRate <= 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "dailyRate must be positive", http.StatusBadRequest))
		return
	}

	vehicle, err := h.vehicles.SubmitVehicle(ctx, services.VehicleSubmission{
		OwnerID:           payload.OwnerID,
		Make:              payload.Make,
		Model:             payload.Model,
		Year:              payload.Year,
		RegistrationPlate: payload.RegistrationPlate,
		Type:              payload.Type,
		Seats:             payload.Seats,
		Transmission:      payload.Transmission,
		FuelType:          payload.FuelType,
		DailyRate:         payload.DailyRate,
		Currency:          payload.Currency,
		Images:            payload.Images,
	})
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, buildVehiclePayload(vehicle))
}

func (h *VehicleHandlers) getVehicle(w http.ResponseWriter, r *http.Request) {
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
	vehicle, err := h.vehicles.GetVehicle(ctx, vehicleID)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildVehiclePayload(vehicle))
}

type vehicleReviewPayload struct {
	ID           string `json:"id"`
	VehicleID    string `json:"vehicleId"`
	BookingID    string `json:"bookingId,omitempty"`
	CustomerName string `json:"customerName,omitempty"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

func (h *VehicleHandlers) listVehicleReviews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.reviews == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "review listing unavailable", http.StatusServiceUnavailable))
		return
	}
	vehicleID := strings.TrimSpace(chi.URLParam(r, "vehicleID"))
	if vehicleID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "vehicle id is required", http.StatusBadRequest))
		return
	}

	reviews, err := h.reviews.ListVehicleReviews(ctx, vehicleID)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	items := make([]vehicleReviewPayload, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, vehicleReviewPayload{
			ID:           review.ID,
			VehicleID:    review.VehicleID,
			BookingID:    review.BookingID,
			CustomerName: review.CustomerName,
			Rating:       review.Rating,
			Comment:      review.Comment,
			CreatedAt:    formatTime(review.CreatedAt),
		})
	}
	writeJSONResponse(w, http.StatusOK, listResponse[vehicleReviewPayload]{Items: items})
}

func (h *VehicleHandlers) requestDocumentUpload(w http.ResponseWriter, r *http.Request) {
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

	var payload documentUploadRequestPayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if strings.TrimSpace(payload.Type) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "document type is required", http.StatusBadRequest))
		return
	}

	upload, err := h.vehicles.RequestDocumentUpload(ctx, vehicleID, payload.Type, payload.Filename)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			httpx.WriteError(ctx, w, httpx.NewError("not_found", "document not found", http.StatusNotFound))
			return
		}
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, documentUploadPayload{
		DocumentID: upload.DocumentID,
		ObjectPath: upload.ObjectPath,
		UploadURL:  upload.UploadURL,
		ExpiresAt:  formatTime(upload.ExpiresAt),
	})
}
