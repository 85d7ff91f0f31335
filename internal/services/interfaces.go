package services

import (
	"context"
	"time"

	"github.com/recharge-travels/api/internal/ai"
	"github.com/recharge-travels/api/internal/assistant"
	domain "github.com/recharge-travels/api/internal/domain"
)

// TravelEvent is the envelope published to the events topic when a booking or
// approval changes state.
type TravelEvent struct {
	Type       string         `json:"type"`
	EntityID   string         `json:"entityId"`
	OccurredAt time.Time      `json:"occurredAt"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// EventPublisher delivers travel events to downstream consumers.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event TravelEvent) (string, error)
}

// AyurvedaPage is the public wellness page: section copy plus only the active
// rows, already ordered.
type AyurvedaPage struct {
	Hero         domain.HeroSection
	CTA          domain.CTASection
	Retreats     []domain.Retreat
	Treatments   []domain.Treatment
	Testimonials []domain.Testimonial
}

// ContentService serves the public site catalogue.
type ContentService interface {
	ListDestinations(ctx context.Context, language string, page domain.Pagination) (domain.CursorPage[domain.Destination], error)
	GetDestination(ctx context.Context, slug, language string) (domain.Destination, error)
	ListArticles(ctx context.Context, language string, page domain.Pagination) (domain.CursorPage[domain.Article], error)
	GetArticle(ctx context.Context, slug, language string) (domain.Article, error)
	ListRegions(ctx context.Context) ([]domain.Region, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetAyurvedaPage(ctx context.Context) (AyurvedaPage, error)
}

// MoveDirection is a one-step reorder request against an admin list.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// AyurvedaSaveRequest is the full editor payload. Rows carrying a client
// temporary id are created; rows with a stored id are updated; ids listed for
// deletion are removed unless they are temporary and were never persisted.
type AyurvedaSaveRequest struct {
	Hero domain.HeroSection
	CTA  domain.CTASection

	Retreats     []domain.Retreat
	Treatments   []domain.Treatment
	Testimonials []domain.Testimonial

	DeletedRetreatIDs     []string
	DeletedTreatmentIDs   []string
	DeletedTestimonialIDs []string
}

// AyurvedaService backs the wellness admin panel.
type AyurvedaService interface {
	GetContent(ctx context.Context) (domain.AyurvedaContent, error)
	SaveContent(ctx context.Context, req AyurvedaSaveRequest) (domain.AyurvedaContent, error)
	MoveRetreat(ctx context.Context, retreatID string, direction MoveDirection) ([]domain.Retreat, error)
	MoveTreatment(ctx context.Context, treatmentID string, direction MoveDirection) ([]domain.Treatment, error)
	MoveTestimonial(ctx context.Context, testimonialID string, direction MoveDirection) ([]domain.Testimonial, error)
}

// OwnerRegistration is the onboarding form for a vehicle owner.
type OwnerRegistration struct {
	FullName string
	Email    string
	Phone    string
	Address  string
}

// VehicleSubmission is the listing form for a new rental vehicle.
type VehicleSubmission struct {
	OwnerID           string
	Make              string
	Model             string
	Year              int
	RegistrationPlate string
	Type              string
	Seats             int
	Transmission      string
	FuelType          string
	DailyRate         int64
	Currency          string
	Images            []string
}

// DocumentUpload is a signed upload slot for one verification document.
type DocumentUpload struct {
	DocumentID string
	ObjectPath string
	UploadURL  string
	ExpiresAt  time.Time
}

// VehicleService runs owner onboarding and the vehicle approval workflow.
type VehicleService interface {
	RegisterOwner(ctx context.Context, reg OwnerRegistration) (domain.VehicleOwner, error)
	GetOwner(ctx context.Context, ownerID string) (domain.VehicleOwner, error)

	SubmitVehicle(ctx context.Context, sub VehicleSubmission) (domain.Vehicle, error)
	GetVehicle(ctx context.Context, vehicleID string) (domain.Vehicle, error)
	ListOwnerVehicles(ctx context.Context, ownerID string) ([]domain.Vehicle, error)
	ListVehiclesByStatus(ctx context.Context, status domain.VehicleStatus, page domain.Pagination) (domain.CursorPage[domain.Vehicle], error)
	SearchVehicles(ctx context.Context, status domain.VehicleStatus, query string, page domain.Pagination) (domain.CursorPage[domain.Vehicle], error)

	ApproveVehicle(ctx context.Context, vehicleID, reviewerID string) (domain.Vehicle, error)
	RejectVehicle(ctx context.Context, vehicleID, reviewerID, reason string) (domain.Vehicle, error)
	SuspendVehicle(ctx context.Context, vehicleID, reviewerID, reason string) (domain.Vehicle, error)
	ReinstateVehicle(ctx context.Context, vehicleID, reviewerID string) (domain.Vehicle, error)

	RequestDocumentUpload(ctx context.Context, vehicleID, documentType, filename string) (DocumentUpload, error)
	DocumentDownloadURL(ctx context.Context, vehicleID, documentID string) (string, error)
	VerifyDocument(ctx context.Context, vehicleID, documentID string, verdict domain.DocumentStatus, note string) (domain.Vehicle, error)
}

// BookingRequest is the customer-facing rental request. Pricing is always
// recomputed from the vehicle's stored rate.
type BookingRequest struct {
	VehicleID        string
	CustomerID       string
	CustomerName     string
	PickupDate       time.Time
	ReturnDate       time.Time
	IncludeInsurance bool
	IncludeDelivery  bool
}

// DepositDeduction describes how much of the held deposit to capture when a
// rental finishes with damage or fees.
type DepositDeduction struct {
	Amount int64
	Reason string
}

// BookingService runs the rental booking lifecycle.
type BookingService interface {
	CreateBooking(ctx context.Context, req BookingRequest) (domain.VehicleBooking, error)
	GetBooking(ctx context.Context, bookingID string) (domain.VehicleBooking, error)
	ListCustomerBookings(ctx context.Context, customerID string) ([]domain.VehicleBooking, error)
	ListVehicleBookings(ctx context.Context, vehicleID string) ([]domain.VehicleBooking, error)
	ListBookingsByStatus(ctx context.Context, status domain.BookingStatus, page domain.Pagination) (domain.CursorPage[domain.VehicleBooking], error)

	ConfirmBooking(ctx context.Context, bookingID, paymentMethodID string) (domain.VehicleBooking, error)
	StartRental(ctx context.Context, bookingID string) (domain.VehicleBooking, error)
	CompleteRental(ctx context.Context, bookingID string, deduction *DepositDeduction) (domain.VehicleBooking, error)
	CancelBooking(ctx context.Context, bookingID, note string) (domain.VehicleBooking, error)

	RecordPayment(ctx context.Context, bookingID string, status domain.PaymentStatus) (domain.VehicleBooking, error)
	SubmitReview(ctx context.Context, bookingID string, rating int, comment string) (domain.VehicleBooking, error)
	ListVehicleReviews(ctx context.Context, vehicleID string) ([]domain.VehicleReview, error)
}

// ChatInput is one assistant turn: the query plus the client-carried context.
type ChatInput struct {
	Message   string
	Context   assistant.UserContext
	History   []ai.ChatMessage
	WithAudio bool
	VoiceID   string
}

// ChatOutput is the assistant reply with the updated context echoed back for
// the client to store.
type ChatOutput struct {
	Reply            string
	Intent           assistant.Intent
	Suggestions      []string
	Context          assistant.UserContext
	Fallback         bool
	Audio            []byte
	AudioContentType string
}

// AssistantService answers visitor questions with model-backed replies and
// canned fallbacks.
type AssistantService interface {
	Chat(ctx context.Context, input ChatInput) (ChatOutput, error)
	Synthesize(ctx context.Context, text, voiceID string) (ai.SpeechResult, error)
}
