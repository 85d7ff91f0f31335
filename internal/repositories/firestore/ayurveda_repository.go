package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/recharge-travels/api/internal/domain"
	pfirestore "github.com/recharge-travels/api/internal/platform/firestore"
)

const (
	retreatCollection     = "ayurveda_retreats"
	treatmentCollection   = "ayurveda_treatments"
	testimonialCollection = "ayurveda_testimonials"
	sectionsCollection    = "ayurveda_content"

	sectionsDocID = "sections"
)

// AyurvedaRepository persists the wellness CMS collections in Firestore.
type AyurvedaRepository struct {
	retreats     *pfirestore.BaseRepository[retreatDocument]
	treatments   *pfirestore.BaseRepository[treatmentDocument]
	testimonials *pfirestore.BaseRepository[testimonialDocument]
	sections     *pfirestore.BaseRepository[sectionsDocument]
}

// NewAyurvedaRepository constructs a Firestore-backed Ayurveda CMS repository.
func NewAyurvedaRepository(provider *pfirestore.Provider) (*AyurvedaRepository, error) {
	if provider == nil {
		return nil, errors.New("ayurveda repository requires firestore provider")
	}
	return &AyurvedaRepository{
		retreats:     pfirestore.NewBaseRepository[retreatDocument](provider, retreatCollection, nil, nil),
		treatments:   pfirestore.NewBaseRepository[treatmentDocument](provider, treatmentCollection, nil, nil),
		testimonials: pfirestore.NewBaseRepository[testimonialDocument](provider, testimonialCollection, nil, nil),
		sections:     pfirestore.NewBaseRepository[sectionsDocument](provider, sectionsCollection, nil, nil),
	}, nil
}

// GetSections loads the hero and call-to-action copy. A missing document is
// returned as empty sections rather than an error so a fresh project renders.
func (r *AyurvedaRepository) GetSections(ctx context.Context) (domain.HeroSection, domain.CTASection, error) {
	if r == nil || r.sections == nil {
		return domain.HeroSection{}, domain.CTASection{}, errors.New("ayurveda repository not initialised")
	}
	doc, err := r.sections.Get(ctx, sectionsDocID)
	if err != nil {
		var repoErr *pfirestore.Error
		if errors.As(err, &repoErr) && repoErr.IsNotFound() {
			return domain.HeroSection{}, domain.CTASection{}, nil
		}
		return domain.HeroSection{}, domain.CTASection{}, err
	}
	hero := domain.HeroSection{
		Title:           doc.Data.Hero.Title,
		Subtitle:        doc.Data.Hero.Subtitle,
		BackgroundImage: doc.Data.Hero.BackgroundImage,
	}
	cta := domain.CTASection{
		Title:           doc.Data.CTA.Title,
		Subtitle:        doc.Data.CTA.Subtitle,
		BackgroundImage: doc.Data.CTA.BackgroundImage,
		ButtonLabel:     doc.Data.CTA.ButtonLabel,
	}
	return hero, cta, nil
}

// SaveSections upserts the hero and call-to-action copy.
func (r *AyurvedaRepository) SaveSections(ctx context.Context, hero domain.HeroSection, cta domain.CTASection) error {
	if r == nil || r.sections == nil {
		return errors.New("ayurveda repository not initialised")
	}
	_, err := r.sections.Set(ctx, sectionsDocID, sectionsDocument{
		Hero: sectionDocument{
			Title:           hero.Title,
			Subtitle:        hero.Subtitle,
			BackgroundImage: hero.BackgroundImage,
		},
		CTA: ctaDocument{
			Title:           cta.Title,
			Subtitle:        cta.Subtitle,
			BackgroundImage: cta.BackgroundImage,
			ButtonLabel:     cta.ButtonLabel,
		},
	})
	return err
}

// ListRetreats returns every retreat ordered by its manual position.
func (r *AyurvedaRepository) ListRetreats(ctx context.Context) ([]domain.Retreat, error) {
	if r == nil || r.retreats == nil {
		return nil, errors.New("ayurveda repository not initialised")
	}
	docs, err := r.retreats.Query(ctx, orderByPosition)
	if err != nil {
		return nil, err
	}
	retreats := make([]domain.Retreat, 0, len(docs))
	for _, doc := range docs {
		retreats = append(retreats, toDomainRetreat(doc.ID, doc.Data))
	}
	return retreats, nil
}

// CreateRetreat stores a new retreat under a store-generated id.
func (r *AyurvedaRepository) CreateRetreat(ctx context.Context, retreat domain.Retreat) (string, error) {
	if r == nil || r.retreats == nil {
		return "", errors.New("ayurveda repository not initialised")
	}
	id, _, err := r.retreats.Add(ctx, fromDomainRetreat(retreat))
	return id, err
}

// UpdateRetreat overwrites an existing retreat.
func (r *AyurvedaRepository) UpdateRetreat(ctx context.Context, retreat domain.Retreat) error {
	if r == nil || r.retreats == nil {
		return errors.New("ayurveda repository not initialised")
	}
	if strings.TrimSpace(retreat.ID) == "" {
		return pfirestore.WrapError(retreatCollection+".update", status.Error(codes.InvalidArgument, "retreat id is required"))
	}
	_, err := r.retreats.Set(ctx, retreat.ID, fromDomainRetreat(retreat))
	return err
}

// DeleteRetreat removes the retreat by id.
func (r *AyurvedaRepository) DeleteRetreat(ctx context.Context, retreatID string) error {
	if r == nil || r.retreats == nil {
		return errors.New("ayurveda repository not initialised")
	}
	return r.retreats.Delete(ctx, retreatID)
}

// ListTreatments returns every treatment ordered by its manual position.
func (r *AyurvedaRepository) ListTreatments(ctx context.Context) ([]domain.Treatment, error) {
	if r == nil || r.treatments == nil {
		return nil, errors.New("ayurveda repository not initialised")
	}
	docs, err := r.treatments.Query(ctx, orderByPosition)
	if err != nil {
		return nil, err
	}
	treatments := make([]domain.Treatment, 0, len(docs))
	for _, doc := range docs {
		treatments = append(treatments, toDomainTreatment(doc.ID, doc.Data))
	}
	return treatments, nil
}

// CreateTreatment stores a new treatment under a store-generated id.
func (r *AyurvedaRepository) CreateTreatment(ctx context.Context, treatment domain.Treatment) (string, error) {
	if r == nil || r.treatments == nil {
		return "", errors.New("ayurveda repository not initialised")
	}
	id, _, err := r.treatments.Add(ctx, fromDomainTreatment(treatment))
	return id, err
}

// UpdateTreatment overwrites an existing treatment.
func (r *AyurvedaRepository) UpdateTreatment(ctx context.Context, treatment domain.Treatment) error {
	if r == nil || r.treatments == nil {
		return errors.New("ayurveda repository not initialised")
	}
	if strings.TrimSpace(treatment.ID) == "" {
		return pfirestore.WrapError(treatmentCollection+".update", status.Error(codes.InvalidArgument, "treatment id is required"))
	}
	_, err := r.treatments.Set(ctx, treatment.ID, fromDomainTreatment(treatment))
	return err
}

// DeleteTreatment removes the treatment by id.
func (r *AyurvedaRepository) DeleteTreatment(ctx context.Context, treatmentID string) error {
	if r == nil || r.treatments == nil {
		return errors.New("ayurveda repository not initialised")
	}
	return r.treatments.Delete(ctx, treatmentID)
}

// ListTestimonials returns every testimonial ordered by its manual position.
func (r *AyurvedaRepository) ListTestimonials(ctx context.Context) ([]domain.Testimonial, error) {
	if r == nil || r.testimonials == nil {
		return nil, errors.New("ayurveda repository not initialised")
	}
	docs, err := r.testimonials.Query(ctx, orderByPosition)
	if err != nil {
		return nil, err
	}
	testimonials := make([]domain.Testimonial, 0, len(docs))
	for _, doc := range docs {
		testimonials = append(testimonials, toDomainTestimonial(doc.ID, doc.Data))
	}
	return testimonials, nil
}

// CreateTestimonial stores a new testimonial under a store-generated id.
func (r *AyurvedaRepository) CreateTestimonial(ctx context.Context, testimonial domain.Testimonial) (string, error) {
	if r == nil || r.testimonials == nil {
		return "", errors.New("ayurveda repository not initialised")
	}
	id, _, err := r.testimonials.Add(ctx, fromDomainTestimonial(testimonial))
	return id, err
}

// UpdateTestimonial overwrites an existing testimonial.
func (r *AyurvedaRepository) UpdateTestimonial(ctx context.Context, testimonial domain.Testimonial) error {
	if r == nil || r.testimonials == nil {
		return errors.New("ayurveda repository not initialised")
	}
	if strings.TrimSpace(testimonial.ID) == "" {
		return pfirestore.WrapError(testimonialCollection+".update", status.Error(codes.InvalidArgument, "testimonial id is required"))
	}
	_, err := r.testimonials.Set(ctx, testimonial.ID, fromDomainTestimonial(testimonial))
	return err
}

// DeleteTestimonial removes the testimonial by id.
func (r *AyurvedaRepository) DeleteTestimonial(ctx context.Context, testimonialID string) error {
	if r == nil || r.testimonials == nil {
		return errors.New("ayurveda repository not initialised")
	}
	return r.testimonials.Delete(ctx, testimonialID)
}

func orderByPosition(q firestore.Query) firestore.Query {
	return q.OrderBy("order", firestore.Asc)
}

type sectionsDocument struct {
	Hero sectionDocument `firestore:"hero"`
	CTA  ctaDocument     `firestore:"cta"`
}

type sectionDocument struct {
	Title           string `firestore:"title"`
	Subtitle        string `firestore:"subtitle"`
	BackgroundImage string `firestore:"backgroundImage"`
}

type ctaDocument struct {
	Title           string `firestore:"title"`
	Subtitle        string `firestore:"subtitle"`
	BackgroundImage string `firestore:"backgroundImage"`
	ButtonLabel     string `firestore:"buttonLabel"`
}

type retreatDocument struct {
	Title       string   `firestore:"title"`
	Category    string   `firestore:"category"`
	Duration    string   `firestore:"duration"`
	Price       int64    `firestore:"price"`
	Description string   `firestore:"description"`
	Image       string   `firestore:"image"`
	Highlights  []string `firestore:"highlights"`
	Order       int      `firestore:"order"`
	IsActive    bool     `firestore:"isActive"`
}

type treatmentDocument struct {
	Name        string `firestore:"name"`
	Icon        string `firestore:"icon"`
	Description string `firestore:"description"`
	Image       string `firestore:"image"`
	Order       int    `firestore:"order"`
	IsActive    bool   `firestore:"isActive"`
}

type testimonialDocument struct {
	Name     string `firestore:"name"`
	Country  string `firestore:"country"`
	Quote    string `firestore:"quote"`
	Image    string `firestore:"image"`
	Rating   int    `firestore:"rating"`
	Order    int    `firestore:"order"`
	IsActive bool   `firestore:"isActive"`
}

func toDomainRetreat(id string, doc retreatDocument) domain.Retreat {
	return domain.Retreat{
		ID:          id,
		Title:       doc.Title,
		Category:    doc.Category,
		Duration:    doc.Duration,
		Price:       doc.Price,
		Description: doc.Description,
		Image:       doc.Image,
		Highlights:  cloneStrings(doc.Highlights),
		Order:       doc.Order,
		IsActive:    doc.IsActive,
	}
}

func fromDomainRetreat(retreat domain.Retreat) retreatDocument {
	return retreatDocument{
		Title:       strings.TrimSpace(retreat.Title),
		Category:    strings.TrimSpace(retreat.Category),
		Duration:    strings.TrimSpace(retreat.Duration),
		Price:       retreat.Price,
		Description: retreat.Description,
		Image:       strings.TrimSpace(retreat.Image),
		Highlights:  cloneStrings(retreat.Highlights),
		Order:       retreat.Order,
		IsActive:    retreat.IsActive,
	}
}

func toDomainTreatment(id string, doc treatmentDocument) domain.Treatment {
	return domain.Treatment{
		ID:          id,
		Name:        doc.Name,
		Icon:        doc.Icon,
		Description: doc.Description,
		Image:       doc.Image,
		Order:       doc.Order,
		IsActive:    doc.IsActive,
	}
}

func fromDomainTreatment(treatment domain.Treatment) treatmentDocument {
	return treatmentDocument{
		Name:        strings.TrimSpace(treatment.Name),
		Icon:        strings.TrimSpace(treatment.Icon),
		Description: treatment.Description,
		Image:       strings.TrimSpace(treatment.Image),
		Order:       treatment.Order,
		IsActive:    treatment.IsActive,
	}
}

func toDomainTestimonial(id string, doc testimonialDocument) domain.Testimonial {
	return domain.Testimonial{
		ID:       id,
		Name:     doc.Name,
		Country:  doc.Country,
		Quote:    doc.Quote,
		Image:    doc.Image,
		Rating:   doc.Rating,
		Order:    doc.Order,
		IsActive: doc.IsActive,
	}
}

func fromDomainTestimonial(testimonial domain.Testimonial) testimonialDocument {
	return testimonialDocument{
		Name:     strings.TrimSpace(testimonial.Name),
		Country:  strings.TrimSpace(testimonial.Country),
		Quote:    testimonial.Quote,
		Image:    strings.TrimSpace(testimonial.Image),
		Rating:   testimonial.Rating,
		Order:    testimonial.Order,
		IsActive: testimonial.IsActive,
	}
}
