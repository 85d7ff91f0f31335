package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	domain "github.com/recharge-travels/api/internal/domain"
	"github.com/recharge-travels/api/internal/platform/requestctx"
	"github.com/recharge-travels/api/internal/platform/storage"
	"github.com/recharge-travels/api/internal/repositories"
)

// Event types emitted by the vehicle workflow.
const (
	EventVehicleSubmitted  = "vehicle.submitted"
	EventVehicleApproved   = "vehicle.approved"
	EventVehicleRejected   = "vehicle.rejected"
	EventVehicleSuspended  = "vehicle.suspended"
	EventVehicleReinstated = "vehicle.reinstated"
)

// ErrVehicleRepositoryMissing signals that the vehicle repository dependency is absent.
var ErrVehicleRepositoryMissing = errors.New("vehicle service: vehicle repository is not configured")

// ErrOwnerRepositoryMissing signals that the owner repository dependency is absent.
var ErrOwnerRepositoryMissing = errors.New("vehicle service: owner repository is not configured")

// ErrRejectionReasonRequired is returned when a rejection or suspension omits its reason.
var ErrRejectionReasonRequired = errors.New("vehicle service: a reason is required")

// ErrInvalidVehicleTransition is returned when the requested state change is not allowed
// from the vehicle's current status.
var ErrInvalidVehicleTransition = errors.New("vehicle service: invalid status transition")

// ErrDocumentNotFound is returned when the referenced document is not attached to the vehicle.
var ErrDocumentNotFound = errors.New("vehicle service: document not found")

// DocumentStore issues signed URLs for verification documents.
type DocumentStore interface {
	SignedUploadURL(objectPath, contentType string) (string, error)
	SignedDownloadURL(objectPath string) (string, error)
}

// VehicleServiceDeps groups constructor parameters for the vehicle service.
type VehicleServiceDeps struct {
	Vehicles  repositories.VehicleRepository
	Owners    repositories.VehicleOwnerRepository
	Documents DocumentStore
	Publisher EventPublisher
	Clock     func() time.Time
	UploadTTL time.Duration
}

type vehicleService struct {
	vehicles  repositories.VehicleRepository
	owners    repositories.VehicleOwnerRepository
	documents DocumentStore
	publisher EventPublisher
	clock     func() time.Time
	uploadTTL time.Duration

	entropyMu sync.Mutex
	entropy   *rand.Rand
}

// NewVehicleService constructs the vehicle onboarding and approval service.
func NewVehicleService(deps VehicleServiceDeps) (VehicleService, error) {
	if deps.Vehicles == nil {
		return nil, ErrVehicleRepositoryMissing
	}
	if deps.Owners == nil {
		return nil, ErrOwnerRepositoryMissing
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	ttl := deps.UploadTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &vehicleService{
		vehicles:  deps.Vehicles,
		owners:    deps.Owners,
		documents: deps.Documents,
		publisher: deps.Publisher,
		clock:     func() time.Time { return clock().UTC() },
		uploadTTL: ttl,
		entropy:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// RegisterOwner stores a new owner awaiting identity verification.
func (s *vehicleService) RegisterOwner(ctx context.Context, reg OwnerRegistration) (domain.VehicleOwner, error) {
	if strings.TrimSpace(reg.FullName) == "" {
		return domain.VehicleOwner{}, errors.New("vehicle service: owner full name is required")
	}
	if strings.TrimSpace(reg.Email) == "" {
		return domain.VehicleOwner{}, errors.New("vehicle service: owner email is required")
	}

	owner := domain.VehicleOwner{
		FullName:           strings.TrimSpace(reg.FullName),
		Email:              strings.ToLower(strings.TrimSpace(reg.Email)),
		Phone:              strings.TrimSpace(reg.Phone),
		Address:            strings.TrimSpace(reg.Address),
		VerificationStatus: domain.OwnerVerificationPending,
		CreatedAt:          s.clock(),
	}
	id, err := s.owners.Create(ctx, owner)
	if err != nil {
		return domain.VehicleOwner{}, err
	}
	owner.ID = id
	return owner, nil
}

func (s *vehicleService) GetOwner(ctx context.Context, ownerID string) (domain.VehicleOwner, error) {
	return s.owners.FindByID(ctx, ownerID)
}

// SubmitVehicle stores a new listing in pending_review.
func (s *vehicleService) SubmitVehicle(ctx context.Context, sub VehicleSubmission) (domain.Vehicle, error) {
	if strings.TrimSpace(sub.OwnerID) == "" {
		return domain.Vehicle{}, errors.New("vehicle service: owner id is required")
	}
	if strings.TrimSpace(sub.Make) == "" || strings.TrimSpace(sub.Model) == "" {
		return domain.Vehicle{}, errors.New("vehicle service: make and model are required")
	}
	if sub.DailyRate <= 0 {
		return domain.Vehicle{}, errors.New("vehicle service: daily rate must be positive")
	}

	owner, err := s.owners.FindByID(ctx, sub.OwnerID)
	if err != nil {
		return domain.Vehicle{}, err
	}

	vehicle := domain.Vehicle{
		OwnerID:           owner.ID,
		OwnerName:         owner.FullName,
		Make:              strings.TrimSpace(sub.Make),
		Model:             strings.TrimSpace(sub.Model),
		Year:              sub.Year,
		RegistrationPlate: strings.ToUpper(strings.TrimSpace(sub.RegistrationPlate)),
		Type:              strings.TrimSpace(sub.Type),
		Seats:             sub.Seats,
		Transmission:      strings.TrimSpace(sub.Transmission),
		FuelType:          strings.TrimSpace(sub.FuelType),
		DailyRate:         sub.DailyRate,
		Currency:          strings.ToUpper(strings.TrimSpace(sub.Currency)),
		Images:            sub.Images,
		Status:            domain.VehicleStatusPendingReview,
		SubmittedAt:       s.clock(),
	}
	id, err := s.vehicles.Create(ctx, vehicle)
	if err != nil {
		return domain.Vehicle{}, err
	}
	vehicle.ID = id
	s.publish(ctx, EventVehicleSubmitted, id, map[string]any{"ownerId": owner.ID})
	return vehicle, nil
}

func (s *vehicleService) GetVehicle(ctx context.Context, vehicleID string) (domain.Vehicle, error) {
	return s.vehicles.FindByID(ctx, vehicleID)
}

func (s *vehicleService) ListOwnerVehicles(ctx context.Context, ownerID string) ([]domain.Vehicle, error) {
	return s.vehicles.ListByOwner(ctx, ownerID)
}

func (s *vehicleService) ListVehiclesByStatus(ctx context.Context, status domain.VehicleStatus, page domain.Pagination) (domain.CursorPage[domain.Vehicle], error) {
	return s.vehicles.ListByStatus(ctx, status, page)
}

// SearchVehicles narrows a status listing by free text. Firestore has no text
// index, so the match runs over the fetched page: owner name, make, model and
// registration plate, case-insensitive substring.
func (s *vehicleService) SearchVehicles(ctx context.Context, status domain.VehicleStatus, query string, page domain.Pagination) (domain.CursorPage[domain.Vehicle], error) {
	result, err := s.vehicles.ListByStatus(ctx, status, page)
	if err != nil {
		return domain.CursorPage[domain.Vehicle]{}, err
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return result, nil
	}
	matched := result.Items[:0]
	for _, vehicle := range result.Items {
		haystack := strings.ToLower(strings.Join([]string{
			vehicle.OwnerName,
			vehicle.Make,
			vehicle.Model,
			vehicle.RegistrationPlate,
		}, " "))
		if strings.Contains(haystack, needle) {
			matched = append(matched, vehicle)
		}
	}
	result.Items = matched
	return result, nil
}

// ApproveVehicle moves pending_review to active.
func (s *vehicleService) ApproveVehicle(ctx context.Context, vehicleID, reviewerID string) (domain.Vehicle, error) {
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if vehicle.Status != domain.VehicleStatusPendingReview {
		return domain.Vehicle{}, fmt.Errorf("%w: %s -> %s", ErrInvalidVehicleTransition, vehicle.Status, domain.VehicleStatusActive)
	}

	now := s.clock()
	vehicle.Status = domain.VehicleStatusActive
	vehicle.RejectionReason = ""
	vehicle.ReviewedAt = &now
	vehicle.ApprovedAt = &now
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return domain.Vehicle{}, err
	}
	s.publish(ctx, EventVehicleApproved, vehicle.ID, map[string]any{"reviewerId": reviewerID})
	return vehicle, nil
}

// RejectVehicle moves pending_review to rejected. The reason is mandatory so
// the owner always learns why.
func (s *vehicleService) RejectVehicle(ctx context.Context, vehicleID, reviewerID, reason string) (domain.Vehicle, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.Vehicle{}, ErrRejectionReasonRequired
	}
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if vehicle.Status != domain.VehicleStatusPendingReview {
		return domain.Vehicle{}, fmt.Errorf("%w: %s -> %s", ErrInvalidVehicleTransition, vehicle.Status, domain.VehicleStatusRejected)
	}

	now := s.clock()
	vehicle.Status = domain.VehicleStatusRejected
	vehicle.RejectionReason = reason
	vehicle.ReviewedAt = &now
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return domain.Vehicle{}, err
	}
	s.publish(ctx, EventVehicleRejected, vehicle.ID, map[string]any{"reviewerId": reviewerID, "reason": reason})
	return vehicle, nil
}

// SuspendVehicle takes an active listing off the market, with a mandatory reason.
func (s *vehicleService) SuspendVehicle(ctx context.Context, vehicleID, reviewerID, reason string) (domain.Vehicle, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.Vehicle{}, ErrRejectionReasonRequired
	}
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if vehicle.Status != domain.VehicleStatusActive {
		return domain.Vehicle{}, fmt.Errorf("%w: %s -> %s", ErrInvalidVehicleTransition, vehicle.Status, domain.VehicleStatusSuspended)
	}

	now := s.clock()
	vehicle.Status = domain.VehicleStatusSuspended
	vehicle.RejectionReason = reason
	vehicle.ReviewedAt = &now
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return domain.Vehicle{}, err
	}
	s.publish(ctx, EventVehicleSuspended, vehicle.ID, map[string]any{"reviewerId": reviewerID, "reason": reason})
	return vehicle, nil
}

// ReinstateVehicle returns a suspended listing to active.
func (s *vehicleService) ReinstateVehicle(ctx context.Context, vehicleID, reviewerID string) (domain.Vehicle, error) {
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if vehicle.Status != domain.VehicleStatusSuspended {
		return domain.Vehicle{}, fmt.Errorf("%w: %s -> %s", ErrInvalidVehicleTransition, vehicle.Status, domain.VehicleStatusActive)
	}

	now := s.clock()
	vehicle.Status = domain.VehicleStatusActive
	vehicle.RejectionReason = ""
	vehicle.ReviewedAt = &now
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return domain.Vehicle{}, err
	}
	s.publish(ctx, EventVehicleReinstated, vehicle.ID, map[string]any{"reviewerId": reviewerID})
	return vehicle, nil
}

// RequestDocumentUpload registers a pending document on the vehicle and hands
// back a signed upload slot for the file.
func (s *vehicleService) RequestDocumentUpload(ctx context.Context, vehicleID, documentType, filename string) (DocumentUpload, error) {
	if s.documents == nil {
		return DocumentUpload{}, errors.New("vehicle service: document store is not configured")
	}
	documentType = strings.TrimSpace(strings.ToLower(documentType))
	if documentType == "" {
		return DocumentUpload{}, errors.New("vehicle service: document type is required")
	}

	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return DocumentUpload{}, err
	}

	now := s.clock()
	documentID := s.newDocumentID(now)
	objectPath := storage.DocumentObjectPath(vehicle.ID, documentID, filename)

	uploadURL, err := s.documents.SignedUploadURL(objectPath, "")
	if err != nil {
		return DocumentUpload{}, fmt.Errorf("sign upload url: %w", err)
	}

	vehicle.Documents = append(vehicle.Documents, domain.VehicleDocument{
		ID:         documentID,
		Type:       documentType,
		ObjectPath: objectPath,
		Status:     domain.DocumentStatusPending,
		UploadedAt: now,
	})
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return DocumentUpload{}, err
	}

	return DocumentUpload{
		DocumentID: documentID,
		ObjectPath: objectPath,
		UploadURL:  uploadURL,
		ExpiresAt:  now.Add(s.uploadTTL),
	}, nil
}

// DocumentDownloadURL signs a read URL for one attached document.
func (s *vehicleService) DocumentDownloadURL(ctx context.Context, vehicleID, documentID string) (string, error) {
	if s.documents == nil {
		return "", errors.New("vehicle service: document store is not configured")
	}
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return "", err
	}
	for _, doc := range vehicle.Documents {
		if doc.ID == documentID {
			return s.documents.SignedDownloadURL(doc.ObjectPath)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
}

// VerifyDocument records the reviewer's verdict on one attached document.
func (s *vehicleService) VerifyDocument(ctx context.Context, vehicleID, documentID string, verdict domain.DocumentStatus, note string) (domain.Vehicle, error) {
	if verdict != domain.DocumentStatusVerified && verdict != domain.DocumentStatusRejected {
		return domain.Vehicle{}, errors.New("vehicle service: verdict must be verified or rejected")
	}
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return domain.Vehicle{}, err
	}

	now := s.clock()
	found := false
	for i := range vehicle.Documents {
		if vehicle.Documents[i].ID != documentID {
			continue
		}
		vehicle.Documents[i].Status = verdict
		vehicle.Documents[i].Note = strings.TrimSpace(note)
		if verdict == domain.DocumentStatusVerified {
			vehicle.Documents[i].VerifiedAt = &now
		} else {
			vehicle.Documents[i].VerifiedAt = nil
		}
		found = true
		break
	}
	if !found {
		return domain.Vehicle{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
	}
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return domain.Vehicle{}, err
	}
	return vehicle, nil
}

func (s *vehicleService) newDocumentID(now time.Time) string {
	s.entropyMu.Lock()
	defer s.entropyMu.Unlock()
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(now), s.entropy).String())
}

func (s *vehicleService) publish(ctx context.Context, eventType, entityID string, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	// Event delivery is best effort; workflow writes are already durable.
	if _, err := s.publisher.PublishEvent(ctx, TravelEvent{
		Type:       eventType,
		EntityID:   entityID,
		OccurredAt: s.clock(),
		Payload:    payload,
	}); err != nil {
		requestctx.Logger(ctx).Warn("vehicle event publish failed",
			zap.String("event_type", eventType),
			zap.String("vehicle_id", entityID),
			zap.Error(err))
	}
}
