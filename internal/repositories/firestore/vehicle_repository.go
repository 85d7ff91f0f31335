package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/recharge-travels/api/internal/domain"
	pfirestore "github.com/recharge-travels/api/internal/platform/firestore"
)

const (
	vehicleOwnerCollection = "vehicle_owners"
	vehicleCollection      = "vehicles"
)

// VehicleOwnerRepository persists owner onboarding records in Firestore.
type VehicleOwnerRepository struct {
	base *pfirestore.BaseRepository[vehicleOwnerDocument]
}

// NewVehicleOwnerRepository constructs a Firestore-backed owner repository.
func NewVehicleOwnerRepository(provider *pfirestore.Provider) (*VehicleOwnerRepository, error) {
	if provider == nil {
		return nil, errors.New("vehicle owner repository requires firestore provider")
	}
	return &VehicleOwnerRepository{
		base: pfirestore.NewBaseRepository[vehicleOwnerDocument](provider, vehicleOwnerCollection, nil, nil),
	}, nil
}

// Create stores a new owner under a store-generated id.
func (r *VehicleOwnerRepository) Create(ctx context.Context, owner domain.VehicleOwner) (string, error) {
	if r == nil || r.base == nil {
		return "", errors.New("vehicle owner repository not initialised")
	}
	id, _, err := r.base.Add(ctx, fromDomainOwner(owner))
	return id, err
}

// FindByID loads the owner record.
func (r *VehicleOwnerRepository) FindByID(ctx context.Context, ownerID string) (domain.VehicleOwner, error) {
	if r == nil || r.base == nil {
		return domain.VehicleOwner{}, errors.New("vehicle owner repository not initialised")
	}
	doc, err := r.base.Get(ctx, ownerID)
	if err != nil {
		return domain.VehicleOwner{}, err
	}
	return toDomainOwner(doc.ID, doc.Data), nil
}

// Update overwrites the owner record.
func (r *VehicleOwnerRepository) Update(ctx context.Context, owner domain.VehicleOwner) error {
	if r == nil || r.base == nil {
		return errors.New("vehicle owner repository not initialised")
	}
	if strings.TrimSpace(owner.ID) == "" {
		return pfirestore.WrapError(vehicleOwnerCollection+".update", status.Error(codes.InvalidArgument, "owner id is required"))
	}
	_, err := r.base.Set(ctx, owner.ID, fromDomainOwner(owner))
	return err
}

// VehicleRepository persists rental vehicle submissions in Firestore. Documents
// are embedded in the vehicle record since they are always read together
// during review.
type VehicleRepository struct {
	base *pfirestore.BaseRepository[vehicleDocument]
}

// NewVehicleRepository constructs a Firestore-backed vehicle repository.
func NewVehicleRepository(provider *pfirestore.Provider) (*VehicleRepository, error) {
	if provider == nil {
		return nil, errors.New("vehicle repository requires firestore provider")
	}
	return &VehicleRepository{
		base: pfirestore.NewBaseRepository[vehicleDocument](provider, vehicleCollection, nil, nil),
	}, nil
}

// Create stores a new submission under a store-generated id.
func (r *VehicleRepository) Create(ctx context.Context, vehicle domain.Vehicle) (string, error) {
	if r == nil || r.base == nil {
		return "", errors.New("vehicle repository not initialised")
	}
	id, _, err := r.base.Add(ctx, fromDomainVehicle(vehicle))
	return id, err
}

// FindByID loads the submission.
func (r *VehicleRepository) FindByID(ctx context.Context, vehicleID string) (domain.Vehicle, error) {
	if r == nil || r.base == nil {
		return domain.Vehicle{}, errors.New("vehicle repository not initialised")
	}
	doc, err := r.base.Get(ctx, vehicleID)
	if err != nil {
		return domain.Vehicle{}, err
	}
	return toDomainVehicle(doc.ID, doc.Data), nil
}

// Update overwrites the submission.
func (r *VehicleRepository) Update(ctx context.Context, vehicle domain.Vehicle) error {
	if r == nil || r.base == nil {
		return errors.New("vehicle repository not initialised")
	}
	if strings.TrimSpace(vehicle.ID) == "" {
		return pfirestore.WrapError(vehicleCollection+".update", status.Error(codes.InvalidArgument, "vehicle id is required"))
	}
	_, err := r.base.Set(ctx, vehicle.ID, fromDomainVehicle(vehicle))
	return err
}

// ListByStatus pages through submissions in one lifecycle state, oldest first
// so the review queue is processed in submission order.
func (r *VehicleRepository) ListByStatus(ctx context.Context, vstatus domain.VehicleStatus, page domain.Pagination) (domain.CursorPage[domain.Vehicle], error) {
	if r == nil || r.base == nil {
		return domain.CursorPage[domain.Vehicle]{}, errors.New("vehicle repository not initialised")
	}

	size := clampPageSize(page.PageSize)
	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		q = q.Where("status", "==", string(vstatus)).
			OrderBy(firestore.DocumentID, firestore.Asc)
		if token := strings.TrimSpace(page.PageToken); token != "" {
			q = q.StartAfter(token)
		}
		return q.Limit(size + 1)
	})
	if err != nil {
		return domain.CursorPage[domain.Vehicle]{}, err
	}

	result := domain.CursorPage[domain.Vehicle]{}
	for i, doc := range docs {
		if i == size {
			result.NextPageToken = result.Items[size-1].ID
			break
		}
		result.Items = append(result.Items, toDomainVehicle(doc.ID, doc.Data))
	}
	return result, nil
}

// ListByOwner returns every submission belonging to an owner.
func (r *VehicleRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error) {
	if r == nil || r.base == nil {
		return nil, errors.New("vehicle repository not initialised")
	}
	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("ownerId", "==", ownerID)
	})
	if err != nil {
		return nil, err
	}
	vehicles := make([]domain.Vehicle, 0, len(docs))
	for _, doc := range docs {
		vehicles = append(vehicles, toDomainVehicle(doc.ID, doc.Data))
	}
	return vehicles, nil
}

type vehicleOwnerDocument struct {
	FullName           string     `firestore:"fullName"`
	Email              string     `firestore:"email"`
	Phone              string     `firestore:"phone"`
	Address            string     `firestore:"address"`
	VerificationStatus string     `firestore:"verificationStatus"`
	CreatedAt          time.Time  `firestore:"createdAt"`
	VerifiedAt         *time.Time `firestore:"verifiedAt,omitempty"`
}

type vehicleDocument struct {
	OwnerID           string                  `firestore:"ownerId"`
	OwnerName         string                  `firestore:"ownerName"`
	Make              string                  `firestore:"make"`
	Model             string                  `firestore:"model"`
	Year              int                     `firestore:"year"`
	RegistrationPlate string                  `firestore:"registrationPlate"`
	Type              string                  `firestore:"type"`
	Seats             int                     `firestore:"seats"`
	Transmission      string                  `firestore:"transmission"`
	FuelType          string                  `firestore:"fuelType"`
	DailyRate         int64                   `firestore:"dailyRate"`
	Currency          string                  `firestore:"currency"`
	Images            []string                `firestore:"images"`
	Documents         []vehicleDocumentEntry  `firestore:"documents"`
	Status            string                  `firestore:"status"`
	RejectionReason   string                  `firestore:"rejectionReason,omitempty"`
	SubmittedAt       time.Time               `firestore:"submittedAt"`
	ReviewedAt        *time.Time              `firestore:"reviewedAt,omitempty"`
	ApprovedAt        *time.Time              `firestore:"approvedAt,omitempty"`
}

type vehicleDocumentEntry struct {
	ID         string     `firestore:"id"`
	Type       string     `firestore:"type"`
	ObjectPath string     `firestore:"objectPath"`
	Status     string     `firestore:"status"`
	Note       string     `firestore:"note,omitempty"`
	UploadedAt time.Time  `firestore:"uploadedAt"`
	VerifiedAt *time.Time `firestore:"verifiedAt,omitempty"`
}

func toDomainOwner(id string, doc vehicleOwnerDocument) domain.VehicleOwner {
	return domain.VehicleOwner{
		ID:                 id,
		FullName:           doc.FullName,
		Email:              strings.TrimSpace(doc.Email),
		Phone:              strings.TrimSpace(doc.Phone),
		Address:            doc.Address,
		VerificationStatus: domain.ParseOwnerVerificationStatus(doc.VerificationStatus),
		CreatedAt:          doc.CreatedAt,
		VerifiedAt:         doc.VerifiedAt,
	}
}

func fromDomainOwner(owner domain.VehicleOwner) vehicleOwnerDocument {
	return vehicleOwnerDocument{
		FullName:           strings.TrimSpace(owner.FullName),
		Email:              strings.ToLower(strings.TrimSpace(owner.Email)),
		Phone:              strings.TrimSpace(owner.Phone),
		Address:            strings.TrimSpace(owner.Address),
		VerificationStatus: string(owner.VerificationStatus),
		CreatedAt:          owner.CreatedAt,
		VerifiedAt:         owner.VerifiedAt,
	}
}

func toDomainVehicle(id string, doc vehicleDocument) domain.Vehicle {
	documents := make([]domain.VehicleDocument, 0, len(doc.Documents))
	for _, entry := range doc.Documents {
		documents = append(documents, domain.VehicleDocument{
			ID:         entry.ID,
			Type:       entry.Type,
			ObjectPath: entry.ObjectPath,
			Status:     domain.ParseDocumentStatus(entry.Status),
			Note:       entry.Note,
			UploadedAt: entry.UploadedAt,
			VerifiedAt: entry.VerifiedAt,
		})
	}
	return domain.Vehicle{
		ID:                id,
		OwnerID:           doc.OwnerID,
		OwnerName:         doc.OwnerName,
		Make:              doc.Make,
		Model:             doc.Model,
		Year:              doc.Year,
		RegistrationPlate: doc.RegistrationPlate,
		Type:              doc.Type,
		Seats:             doc.Seats,
		Transmission:      doc.Transmission,
		FuelType:          doc.FuelType,
		DailyRate:         doc.DailyRate,
		Currency:          doc.Currency,
		Images:            cloneStrings(doc.Images),
		Documents:         documents,
		Status:            domain.ParseVehicleStatus(doc.Status),
		RejectionReason:   doc.RejectionReason,
		SubmittedAt:       doc.SubmittedAt,
		ReviewedAt:        doc.ReviewedAt,
		ApprovedAt:        doc.ApprovedAt,
	}
}

func fromDomainVehicle(vehicle domain.Vehicle) vehicleDocument {
	documents := make([]vehicleDocumentEntry, 0, len(vehicle.Documents))
	for _, entry := range vehicle.Documents {
		documents = append(documents, vehicleDocumentEntry{
			ID:         entry.ID,
			Type:       entry.Type,
			ObjectPath: entry.ObjectPath,
			Status:     string(entry.Status),
			Note:       entry.Note,
			UploadedAt: entry.UploadedAt,
			VerifiedAt: entry.VerifiedAt,
		})
	}
	return vehicleDocument{
		OwnerID:           vehicle.OwnerID,
		OwnerName:         strings.TrimSpace(vehicle.OwnerName),
		Make:              strings.TrimSpace(vehicle.Make),
		Model:             strings.TrimSpace(vehicle.Model),
		Year:              vehicle.Year,
		RegistrationPlate: strings.ToUpper(strings.TrimSpace(vehicle.RegistrationPlate)),
		Type:              strings.TrimSpace(vehicle.Type),
		Seats:             vehicle.Seats,
		Transmission:      strings.TrimSpace(vehicle.Transmission),
		FuelType:          strings.TrimSpace(vehicle.FuelType),
		DailyRate:         vehicle.DailyRate,
		Currency:          strings.ToUpper(strings.TrimSpace(vehicle.Currency)),
		Images:            cloneStrings(vehicle.Images),
		Documents:         documents,
		Status:            string(vehicle.Status),
		RejectionReason:   strings.TrimSpace(vehicle.RejectionReason),
		SubmittedAt:       vehicle.SubmittedAt,
		ReviewedAt:        vehicle.ReviewedAt,
		ApprovedAt:        vehicle.ApprovedAt,
	}
}
