package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"

	domain "github.com/recharge-travels/api/internal/domain"
	"github.com/recharge-travels/api/internal/repositories"
)

const defaultContentLanguage = "en"

// ErrContentRepositoryMissing signals that the content repository dependency is absent.
var ErrContentRepositoryMissing = errors.New("content service: content repository is not configured")

// ErrAyurvedaRepositoryMissing signals that the Ayurveda repository dependency is absent.
var ErrAyurvedaRepositoryMissing = errors.New("content service: ayurveda repository is not configured")

// ContentServiceDeps groups constructor parameters for the content service.
type ContentServiceDeps struct {
	Repository      repositories.ContentRepository
	Ayurveda        repositories.AyurvedaRepository
	DefaultLanguage string
}

type contentService struct {
	repo            repositories.ContentRepository
	ayurveda        repositories.AyurvedaRepository
	defaultLanguage string
	sanitizer       *bluemonday.Policy
}

// NewContentService constructs the content service with the supplied dependencies.
// Stored body HTML is sanitised on the way out so editor mistakes or imported
// markup never reach the browser unfiltered.
func NewContentService(deps ContentServiceDeps) (ContentService, error) {
	if deps.Repository == nil {
		return nil, ErrContentRepositoryMissing
	}
	if deps.Ayurveda == nil {
		return nil, ErrAyurvedaRepositoryMissing
	}
	language := strings.TrimSpace(strings.ToLower(deps.DefaultLanguage))
	if language == "" {
		language = defaultContentLanguage
	}
	return &contentService{
		repo:            deps.Repository,
		ayurveda:        deps.Ayurveda,
		defaultLanguage: language,
		sanitizer:       bluemonday.UGCPolicy(),
	}, nil
}

func (s *contentService) ListDestinations(ctx context.Context, language string, page domain.Pagination) (domain.CursorPage[domain.Destination], error) {
	result, err := s.repo.ListDestinations(ctx, s.language(language), page)
	if err != nil {
		return domain.CursorPage[domain.Destination]{}, err
	}
	for i := range result.Items {
		result.Items[i].BodyHTML = s.sanitizer.Sanitize(result.Items[i].BodyHTML)
	}
	return result, nil
}

func (s *contentService) GetDestination(ctx context.Context, slug, language string) (domain.Destination, error) {
	requested := s.language(language)
	destination, err := s.repo.FindDestinationBySlug(ctx, slug, requested)
	if isNotFound(err) && requested != s.defaultLanguage {
		destination, err = s.repo.FindDestinationBySlug(ctx, slug, s.defaultLanguage)
	}
	if err != nil {
		return domain.Destination{}, err
	}
	destination.BodyHTML = s.sanitizer.Sanitize(destination.BodyHTML)
	return destination, nil
}

func (s *contentService) ListArticles(ctx context.Context, language string, page domain.Pagination) (domain.CursorPage[domain.Article], error) {
	result, err := s.repo.ListArticles(ctx, s.language(language), page)
	if err != nil {
		return domain.CursorPage[domain.Article]{}, err
	}
	for i := range result.Items {
		result.Items[i].BodyHTML = s.sanitizer.Sanitize(result.Items[i].BodyHTML)
	}
	return result, nil
}

func (s *contentService) GetArticle(ctx context.Context, slug, language string) (domain.Article, error) {
	requested := s.language(language)
	article, err := s.repo.FindArticleBySlug(ctx, slug, requested)
	if isNotFound(err) && requested != s.defaultLanguage {
		article, err = s.repo.FindArticleBySlug(ctx, slug, s.defaultLanguage)
	}
	if err != nil {
		return domain.Article{}, err
	}
	article.BodyHTML = s.sanitizer.Sanitize(article.BodyHTML)
	return article, nil
}

func (s *contentService) ListRegions(ctx context.Context) ([]domain.Region, error) {
	return s.repo.ListRegions(ctx)
}

func (s *contentService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

// GetAyurvedaPage assembles the public wellness page: section copy plus only
// the active rows in their manual order.
func (s *contentService) GetAyurvedaPage(ctx context.Context) (AyurvedaPage, error) {
	hero, cta, err := s.ayurveda.GetSections(ctx)
	if err != nil {
		return AyurvedaPage{}, err
	}
	retreats, err := s.ayurveda.ListRetreats(ctx)
	if err != nil {
		return AyurvedaPage{}, err
	}
	treatments, err := s.ayurveda.ListTreatments(ctx)
	if err != nil {
		return AyurvedaPage{}, err
	}
	testimonials, err := s.ayurveda.ListTestimonials(ctx)
	if err != nil {
		return AyurvedaPage{}, err
	}

	page := AyurvedaPage{Hero: hero, CTA: cta}
	for _, retreat := range retreats {
		if retreat.IsActive {
			page.Retreats = append(page.Retreats, retreat)
		}
	}
	for _, treatment := range treatments {
		if treatment.IsActive {
			page.Treatments = append(page.Treatments, treatment)
		}
	}
	for _, testimonial := range testimonials {
		if testimonial.IsActive {
			page.Testimonials = append(page.Testimonials, testimonial)
		}
	}
	sort.SliceStable(page.Retreats, func(i, j int) bool { return page.Retreats[i].Order < page.Retreats[j].Order })
	sort.SliceStable(page.Treatments, func(i, j int) bool { return page.Treatments[i].Order < page.Treatments[j].Order })
	sort.SliceStable(page.Testimonials, func(i, j int) bool { return page.Testimonials[i].Order < page.Testimonials[j].Order })
	return page, nil
}

// language canonicalises a requested BCP 47 tag down to its base language,
// so "si-LK" and " SI " both resolve the Sinhala catalogue. Anything
// unparseable falls back to the site default rather than erroring a public
// page.
func (s *contentService) language(tag string) string {
	tag = strings.ReplaceAll(strings.TrimSpace(tag), "_", "-")
	if tag == "" {
		return s.defaultLanguage
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return s.defaultLanguage
	}
	base, _ := parsed.Base()
	return base.String()
}

func isNotFound(err error) bool {
	var repoErr repositories.RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsNotFound()
}
