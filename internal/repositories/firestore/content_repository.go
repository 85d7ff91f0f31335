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
	destinationCollection = "destinations"
	articleCollection     = "articles"
	regionCollection      = "regions"
	categoryCollection    = "categories"

	defaultPageSize = 20
	maxPageSize     = 100
)

// ContentRepository serves the public destination and editorial catalogue from Firestore.
type ContentRepository struct {
	destinations *pfirestore.BaseRepository[destinationDocument]
	articles     *pfirestore.BaseRepository[articleDocument]
	regions      *pfirestore.BaseRepository[regionDocument]
	categories   *pfirestore.BaseRepository[categoryDocument]
}

// NewContentRepository constructs a Firestore-backed content repository.
func NewContentRepository(provider *pfirestore.Provider) (*ContentRepository, error) {
	if provider == nil {
		return nil, errors.New("content repository requires firestore provider")
	}
	return &ContentRepository{
		destinations: pfirestore.NewBaseRepository[destinationDocument](provider, destinationCollection, nil, nil),
		articles:     pfirestore.NewBaseRepository[articleDocument](provider, articleCollection, nil, nil),
		regions:      pfirestore.NewBaseRepository[regionDocument](provider, regionCollection, nil, nil),
		categories:   pfirestore.NewBaseRepository[categoryDocument](provider, categoryCollection, nil, nil),
	}, nil
}

// ListDestinations returns published destinations for a language, ordered by slug.
func (r *ContentRepository) ListDestinations(ctx context.Context, language string, page domain.Pagination) (domain.CursorPage[domain.Destination], error) {
	if r == nil || r.destinations == nil {
		return domain.CursorPage[domain.Destination]{}, errors.New("content repository not initialised")
	}

	size := clampPageSize(page.PageSize)
	docs, err := r.destinations.Query(ctx, func(q firestore.Query) firestore.Query {
		q = q.Where("language", "==", normaliseLanguage(language)).
			Where("published", "==", true).
			OrderBy("slug", firestore.Asc)
		if token := strings.TrimSpace(page.PageToken); token != "" {
			q = q.StartAfter(token)
		}
		return q.Limit(size + 1)
	})
	if err != nil {
		return domain.CursorPage[domain.Destination]{}, err
	}

	result := domain.CursorPage[domain.Destination]{}
	for i, doc := range docs {
		if i == size {
			result.NextPageToken = result.Items[size-1].Slug
			break
		}
		result.Items = append(result.Items, toDomainDestination(doc.ID, doc.Data))
	}
	return result, nil
}

// FindDestinationBySlug loads one published destination by slug and language.
func (r *ContentRepository) FindDestinationBySlug(ctx context.Context, slug, language string) (domain.Destination, error) {
	if r == nil || r.destinations == nil {
		return domain.Destination{}, errors.New("content repository not initialised")
	}
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return domain.Destination{}, errors.New("destination slug is required")
	}

	docs, err := r.destinations.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("slug", "==", slug).
			Where("language", "==", normaliseLanguage(language)).
			Where("published", "==", true).
			Limit(1)
	})
	if err != nil {
		return domain.Destination{}, err
	}
	if len(docs) == 0 {
		return domain.Destination{}, pfirestore.WrapError(destinationCollection+".find", status.Error(codes.NotFound, "destination not found"))
	}
	return toDomainDestination(docs[0].ID, docs[0].Data), nil
}

// ListArticles returns published articles for a language, newest first.
func (r *ContentRepository) ListArticles(ctx context.Context, language string, page domain.Pagination) (domain.CursorPage[domain.Article], error) {
	if r == nil || r.articles == nil {
		return domain.CursorPage[domain.Article]{}, errors.New("content repository not initialised")
	}

	size := clampPageSize(page.PageSize)
	docs, err := r.articles.Query(ctx, func(q firestore.Query) firestore.Query {
		q = q.Where("language", "==", normaliseLanguage(language)).
			Where("published", "==", true).
			OrderBy("slug", firestore.Asc)
		if token := strings.TrimSpace(page.PageToken); token != "" {
			q = q.StartAfter(token)
		}
		return q.Limit(size + 1)
	})
	if err != nil {
		return domain.CursorPage[domain.Article]{}, err
	}

	result := domain.CursorPage[domain.Article]{}
	for i, doc := range docs {
		if i == size {
			result.NextPageToken = result.Items[size-1].Slug
			break
		}
		result.Items = append(result.Items, toDomainArticle(doc.ID, doc.Data))
	}
	return result, nil
}

// FindArticleBySlug loads one published article by slug and language.
func (r *ContentRepository) FindArticleBySlug(ctx context.Context, slug, language string) (domain.Article, error) {
	if r == nil || r.articles == nil {
		return domain.Article{}, errors.New("content repository not initialised")
	}
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return domain.Article{}, errors.New("article slug is required")
	}

	docs, err := r.articles.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("slug", "==", slug).
			Where("language", "==", normaliseLanguage(language)).
			Where("published", "==", true).
			Limit(1)
	})
	if err != nil {
		return domain.Article{}, err
	}
	if len(docs) == 0 {
		return domain.Article{}, pfirestore.WrapError(articleCollection+".find", status.Error(codes.NotFound, "article not found"))
	}
	return toDomainArticle(docs[0].ID, docs[0].Data), nil
}

// ListRegions returns all regions ordered by name.
func (r *ContentRepository) ListRegions(ctx context.Context) ([]domain.Region, error) {
	if r == nil || r.regions == nil {
		return nil, errors.New("content repository not initialised")
	}
	docs, err := r.regions.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.OrderBy("name", firestore.Asc)
	})
	if err != nil {
		return nil, err
	}
	regions := make([]domain.Region, 0, len(docs))
	for _, doc := range docs {
		regions = append(regions, domain.Region{ID: doc.ID, Name: doc.Data.Name, Slug: doc.Data.Slug})
	}
	return regions, nil
}

// ListCategories returns all categories ordered by name.
func (r *ContentRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if r == nil || r.categories == nil {
		return nil, errors.New("content repository not initialised")
	}
	docs, err := r.categories.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.OrderBy("name", firestore.Asc)
	})
	if err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, domain.Category{ID: doc.ID, Name: doc.Data.Name, Slug: doc.Data.Slug})
	}
	return categories, nil
}

type destinationDocument struct {
	Slug        string    `firestore:"slug"`
	Language    string    `firestore:"language"`
	Title       string    `firestore:"title"`
	Summary     string    `firestore:"summary"`
	BodyHTML    string    `firestore:"bodyHtml"`
	HeroImage   string    `firestore:"heroImage"`
	Gallery     []string  `firestore:"gallery"`
	RegionID    string    `firestore:"regionId"`
	CategoryIDs []string  `firestore:"categoryIds"`
	Published   bool      `firestore:"published"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

type articleDocument struct {
	Slug        string    `firestore:"slug"`
	Language    string    `firestore:"language"`
	Title       string    `firestore:"title"`
	Summary     string    `firestore:"summary"`
	BodyHTML    string    `firestore:"bodyHtml"`
	HeroImage   string    `firestore:"heroImage"`
	RegionID    string    `firestore:"regionId"`
	CategoryIDs []string  `firestore:"categoryIds"`
	Published   bool      `firestore:"published"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

type regionDocument struct {
	Name string `firestore:"name"`
	Slug string `firestore:"slug"`
}

type categoryDocument struct {
	Name string `firestore:"name"`
	Slug string `firestore:"slug"`
}

func toDomainDestination(id string, doc destinationDocument) domain.Destination {
	return domain.Destination{
		ID:          id,
		Slug:        doc.Slug,
		Language:    doc.Language,
		Title:       doc.Title,
		Summary:     doc.Summary,
		BodyHTML:    doc.BodyHTML,
		HeroImage:   doc.HeroImage,
		Gallery:     cloneStrings(doc.Gallery),
		RegionID:    doc.RegionID,
		CategoryIDs: cloneStrings(doc.CategoryIDs),
		Published:   doc.Published,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func toDomainArticle(id string, doc articleDocument) domain.Article {
	return domain.Article{
		ID:          id,
		Slug:        doc.Slug,
		Language:    doc.Language,
		Title:       doc.Title,
		Summary:     doc.Summary,
		BodyHTML:    doc.BodyHTML,
		HeroImage:   doc.HeroImage,
		RegionID:    doc.RegionID,
		CategoryIDs: cloneStrings(doc.CategoryIDs),
		Published:   doc.Published,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func normaliseLanguage(language string) string {
	language = strings.TrimSpace(strings.ToLower(language))
	if language == "" {
		return "en"
	}
	return language
}

func clampPageSize(size int) int {
	if size <= 0 {
		return defaultPageSize
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
