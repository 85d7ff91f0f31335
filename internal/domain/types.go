package domain

import (
	"strings"
	"time"
)

// Pagination defines standard paging inputs for list operations.
type Pagination struct {
	PageSize  int
	PageToken string
}

// CursorPage wraps a page of results with the token for the next page.
type CursorPage[T any] struct {
	Items         []T
	NextPageToken string
}

// ClientTempIDPrefix marks CMS rows created in the admin UI that have not been
// persisted yet. Saving such a row issues a create; deleting it is a no-op.
const ClientTempIDPrefix = "new-"

// IsClientTempID reports whether the id was generated client-side and never stored.
func IsClientTempID(id string) bool {
	return strings.HasPrefix(strings.TrimSpace(id), ClientTempIDPrefix)
}

// Destination is a public marketing page for a place, keyed by slug+language.
// Slug+language is expected unique per published item by query convention only.
type Destination struct {
	ID          string
	Slug        string
	Language    string
	Title       string
	Summary     string
	BodyHTML    string
	HeroImage   string
	Gallery     []string
	RegionID    string
	CategoryIDs []string
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Article is long-form editorial content sharing the destination shape.
type Article struct {
	ID          string
	Slug        string
	Language    string
	Title       string
	Summary     string
	BodyHTML    string
	HeroImage   string
	RegionID    string
	CategoryIDs []string
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Region groups destinations geographically.
type Region struct {
	ID   string
	Name string
	Slug string
}

// Category tags destinations and articles by theme.
type Category struct {
	ID   string
	Name string
	Slug string
}

// AyurvedaContent is the full CMS document edited by the Ayurveda admin panel.
type AyurvedaContent struct {
	Hero         HeroSection
	CTA          CTASection
	Retreats     []Retreat
	Treatments   []Treatment
	Testimonials []Testimonial
}

// HeroSection is the page-top banner copy.
type HeroSection struct {
	Title           string
	Subtitle        string
	BackgroundImage string
}

// CTASection is the page-bottom call to action.
type CTASection struct {
	Title           string
	Subtitle        string
	BackgroundImage string
	ButtonLabel     string
}

// Retreat is a bookable wellness programme with a manual sort order.
type Retreat struct {
	ID          string
	Title       string
	Category    string
	Duration    string
	Price       int64
	Description string
	Image       string
	Highlights  []string
	Order       int
	IsActive    bool
}

// Treatment is an individual therapy listed on the wellness page.
type Treatment struct {
	ID          string
	Name        string
	Icon        string
	Description string
	Image       string
	Order       int
	IsActive    bool
}

// Testimonial is a guest quote shown on marketing pages.
type Testimonial struct {
	ID       string
	Name     string
	Country  string
	Quote    string
	Image    string
	Rating   int
	Order    int
	IsActive bool
}

// OwnerVerificationStatus tracks identity checks on a vehicle owner.
type OwnerVerificationStatus string

const (
	OwnerVerificationPending  OwnerVerificationStatus = "pending"
	OwnerVerificationVerified OwnerVerificationStatus = "verified"
	OwnerVerificationRejected OwnerVerificationStatus = "rejected"
)

// ParseOwnerVerificationStatus safe-casts a stored value, defaulting to pending.
func ParseOwnerVerificationStatus(raw string) OwnerVerificationStatus {
	switch OwnerVerificationStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case OwnerVerificationVerified:
		return OwnerVerificationVerified
	case OwnerVerificationRejected:
		return OwnerVerificationRejected
	default:
		return OwnerVerificationPending
	}
}

// VehicleOwner is the person onboarding one or more rental vehicles.
type VehicleOwner struct {
	ID                 string
	FullName           string
	Email              string
	Phone              string
	Address            string
	VerificationStatus OwnerVerificationStatus
	CreatedAt          time.Time
	VerifiedAt         *time.Time
}

// VehicleStatus is the overall lifecycle of a vehicle submission.
type VehicleStatus string

const (
	VehicleStatusPendingReview VehicleStatus = "pending_review"
	VehicleStatusActive        VehicleStatus = "active"
	VehicleStatusSuspended     VehicleStatus = "suspended"
	VehicleStatusRejected      VehicleStatus = "rejected"
)

// ParseVehicleStatus safe-casts a stored value, defaulting to pending_review.
func ParseVehicleStatus(raw string) VehicleStatus {
	switch VehicleStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case VehicleStatusActive:
		return VehicleStatusActive
	case VehicleStatusSuspended:
		return VehicleStatusSuspended
	case VehicleStatusRejected:
		return VehicleStatusRejected
	default:
		return VehicleStatusPendingReview
	}
}

// DocumentStatus tracks verification of a single uploaded document.
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusVerified DocumentStatus = "verified"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// ParseDocumentStatus safe-casts a stored value, defaulting to pending.
func ParseDocumentStatus(raw string) DocumentStatus {
	switch DocumentStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case DocumentStatusVerified:
		return DocumentStatusVerified
	case DocumentStatusRejected:
		return DocumentStatusRejected
	default:
		return DocumentStatusPending
	}
}

// VehicleDocument is one verification document attached to a submission.
type VehicleDocument struct {
	ID         string
	Type       string
	ObjectPath string
	Status     DocumentStatus
	Note       string
	UploadedAt time.Time
	VerifiedAt *time.Time
}

// Vehicle is a rental vehicle submission moving through the approval workflow.
type Vehicle struct {
	ID                string
	OwnerID           string
	OwnerName         string
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
	Documents         []VehicleDocument
	Status            VehicleStatus
	RejectionReason   string
	SubmittedAt       time.Time
	ReviewedAt        *time.Time
	ApprovedAt        *time.Time
}

// BookingStatus is the rental booking lifecycle.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// ParseBookingStatus safe-casts a stored value, defaulting to pending.
func ParseBookingStatus(raw string) BookingStatus {
	switch BookingStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case BookingStatusConfirmed:
		return BookingStatusConfirmed
	case BookingStatusInProgress:
		return BookingStatusInProgress
	case BookingStatusCompleted:
		return BookingStatusCompleted
	case BookingStatusCancelled:
		return BookingStatusCancelled
	default:
		return BookingStatusPending
	}
}

// PaymentStatus tracks how much of the booking has been paid.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ParsePaymentStatus safe-casts a stored value, defaulting to pending.
func ParsePaymentStatus(raw string) PaymentStatus {
	switch PaymentStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case PaymentStatusPartial:
		return PaymentStatusPartial
	case PaymentStatusPaid:
		return PaymentStatusPaid
	case PaymentStatusRefunded:
		return PaymentStatusRefunded
	default:
		return PaymentStatusPending
	}
}

// DepositStatus is the lifecycle of the refundable security deposit.
type DepositStatus string

const (
	DepositStatusHeld     DepositStatus = "held"
	DepositStatusReleased DepositStatus = "released"
	DepositStatusDeducted DepositStatus = "deducted"
)

// ParseDepositStatus safe-casts a stored value, defaulting to held.
func ParseDepositStatus(raw string) DepositStatus {
	switch DepositStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case DepositStatusReleased:
		return DepositStatusReleased
	case DepositStatusDeducted:
		return DepositStatusDeducted
	default:
		return DepositStatusHeld
	}
}

// DepositInfo records the provider hold backing the security deposit.
type DepositInfo struct {
	Amount    int64
	Status    DepositStatus
	IntentID  string
	UpdatedAt time.Time
}

// BookingStatusChange is one entry in the booking's embedded status history.
type BookingStatusChange struct {
	Status    BookingStatus
	ChangedAt time.Time
	Note      string
}

// BookingReview is the optional post-rental review.
type BookingReview struct {
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// VehicleReview is a published review copied out of a completed booking so it
// can be listed on the vehicle's public page.
type VehicleReview struct {
	ID           string
	VehicleID    string
	BookingID    string
	CustomerID   string
	CustomerName string
	Rating       int
	Comment      string
	CreatedAt    time.Time
}

// VehicleBooking is a rental booking record.
type VehicleBooking struct {
	ID            string
	VehicleID     string
	OwnerID       string
	CustomerID    string
	CustomerName  string
	PickupDate    time.Time
	ReturnDate    time.Time
	Pricing       BookingPricing
	Status        BookingStatus
	PaymentStatus PaymentStatus
	Deposit       DepositInfo
	StatusHistory []BookingStatusChange
	Review        *BookingReview
	CreatedAt     time.Time
	ConfirmedAt   *time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
}
