package services

import (
	"context"
	"strings"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/recharge-travels/api/internal/domain"
	pfirestore "github.com/recharge-travels/api/internal/platform/firestore"
)

var errNotFound = pfirestore.WrapError("find by slug", status.Error(codes.NotFound, "missing"))

type stubContentRepo struct {
	destinations  []domain.Destination
	articles      []domain.Article
	lastLanguages []string
}

func (s *stubContentRepo) ListDestinations(_ context.Context, language string, _ domain.Pagination) (domain.CursorPage[domain.Destination], error) {
	s.lastLanguages = append(s.lastLanguages, language)
	return domain.CursorPage[domain.Destination]{Items: append([]domain.Destination(nil), s.destinations...)}, nil
}

func (s *stubContentRepo) FindDestinationBySlug(_ context.Context, slug, language string) (domain.Destination, error) {
	s.lastLanguages = append(s.lastLanguages, language)
	for _, d := range s.destinations {
		if d.Slug == slug && (d.Language == "" || d.Language == language) {
			return d, nil
		}
	}
	return domain.Destination{}, errNotFound
}

func (s *stubContentRepo) ListArticles(_ context.Context, language string, _ domain.Pagination) (domain.CursorPage[domain.Article], error) {
	s.lastLanguages = append(s.lastLanguages, language)
	return domain.CursorPage[domain.Article]{Items: append([]domain.Article(nil), s.articles...)}, nil
}

func (s *stubContentRepo) FindArticleBySlug(_ context.Context, slug, language string) (domain.Article, error) {
	s.lastLanguages = append(s.lastLanguages, language)
	for _, a := range s.articles {
		if a.Slug == slug {
			return a, nil
		}
	}
	return domain.Article{}, errNotFound
}

func (s *stubContentRepo) ListRegions(context.Context) ([]domain.Region, error) {
	return nil, nil
}

func (s *stubContentRepo) ListCategories(context.Context) ([]domain.Category, error) {
	return nil, nil
}

func newContentFixture(t *testing.T, repo *stubContentRepo, ayurveda *stubAyurvedaRepo) ContentService {
	t.Helper()
	if ayurveda == nil {
		ayurveda = &stubAyurvedaRepo{}
	}
	svc, err := NewContentService(ContentServiceDeps{Repository: repo, Ayurveda: ayurveda})
	if err != nil {
		t.Fatalf("NewContentService: %v", err)
	}
	return svc
}

func TestGetDestinationSanitisesBody(t *testing.T) {
	repo := &stubContentRepo{destinations: []domain.Destination{{
		Slug:     "ella",
		Title:    "Ella",
		BodyHTML: `<p>Nine Arches Bridge</p><script>alert("x")</script>`,
	}}}
	svc := newContentFixture(t, repo, nil)

	destination, err := svc.GetDestination(context.Background(), "ella", "en")
	if err != nil {
		t.Fatalf("GetDestination: %v", err)
	}
	if strings.Contains(destination.BodyHTML, "<script") {
		t.Fatalf("script survived sanitiser: %q", destination.BodyHTML)
	}
	if !strings.Contains(destination.BodyHTML, "<p>Nine Arches Bridge</p>") {
		t.Fatalf("safe markup stripped: %q", destination.BodyHTML)
	}
}

func TestGetDestinationFallsBackToDefaultLanguage(t *testing.T) {
	repo := &stubContentRepo{destinations: []domain.Destination{{
		Slug:     "ella",
		Title:    "Ella",
		Language: "en",
	}}}
	svc := newContentFixture(t, repo, nil)

	destination, err := svc.GetDestination(context.Background(), "ella", "si")
	if err != nil {
		t.Fatalf("GetDestination: %v", err)
	}
	if destination.Title != "Ella" {
		t.Fatalf("destination = %+v", destination)
	}
	if len(repo.lastLanguages) != 2 || repo.lastLanguages[0] != "si" || repo.lastLanguages[1] != "en" {
		t.Fatalf("lookup languages = %v", repo.lastLanguages)
	}
}

func TestListArticlesSanitisesEveryItem(t *testing.T) {
	repo := &stubContentRepo{articles: []domain.Article{
		{Slug: "a", BodyHTML: `<em>fine</em>`},
		{Slug: "b", BodyHTML: `<img src=x onerror="steal()">`},
	}}
	svc := newContentFixture(t, repo, nil)

	page, err := svc.ListArticles(context.Background(), "", domain.Pagination{})
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	for _, article := range page.Items {
		if strings.Contains(article.BodyHTML, "onerror") {
			t.Fatalf("event handler survived sanitiser: %q", article.BodyHTML)
		}
	}
}

func TestLanguageDefaultsToEnglish(t *testing.T) {
	repo := &stubContentRepo{}
	svc := newContentFixture(t, repo, nil)

	if _, err := svc.ListDestinations(context.Background(), "", domain.Pagination{}); err != nil {
		t.Fatalf("ListDestinations: %v", err)
	}
	if _, err := svc.ListDestinations(context.Background(), " SI ", domain.Pagination{}); err != nil {
		t.Fatalf("ListDestinations: %v", err)
	}
	if _, err := svc.ListDestinations(context.Background(), "si-LK", domain.Pagination{}); err != nil {
		t.Fatalf("ListDestinations: %v", err)
	}
	if _, err := svc.ListDestinations(context.Background(), "not a tag", domain.Pagination{}); err != nil {
		t.Fatalf("ListDestinations: %v", err)
	}
	want := []string{"en", "si", "si", "en"}
	if len(repo.lastLanguages) != len(want) {
		t.Fatalf("languages = %v", repo.lastLanguages)
	}
	for i, lang := range want {
		if repo.lastLanguages[i] != lang {
			t.Fatalf("languages = %v, want %v", repo.lastLanguages, want)
		}
	}
}

func TestGetAyurvedaPageFiltersAndOrders(t *testing.T) {
	ayurveda := &stubAyurvedaRepo{
		hero: domain.HeroSection{Title: "Ancient Healing"},
		retreats: []domain.Retreat{
			{ID: "r2", Title: "Hill Country", Order: 1, IsActive: true},
			{ID: "r3", Title: "Hidden", Order: 2, IsActive: false},
			{ID: "r1", Title: "Coastal", Order: 0, IsActive: true},
		},
		treatments: []domain.Treatment{
			{ID: "t1", Name: "Shirodhara", Order: 0, IsActive: true},
		},
	}
	svc := newContentFixture(t, &stubContentRepo{}, ayurveda)

	page, err := svc.GetAyurvedaPage(context.Background())
	if err != nil {
		t.Fatalf("GetAyurvedaPage: %v", err)
	}
	if page.Hero.Title != "Ancient Healing" {
		t.Fatalf("hero = %+v", page.Hero)
	}
	if len(page.Retreats) != 2 {
		t.Fatalf("retreats = %+v", page.Retreats)
	}
	if page.Retreats[0].ID != "r1" || page.Retreats[1].ID != "r2" {
		t.Fatalf("retreat order = %s, %s", page.Retreats[0].ID, page.Retreats[1].ID)
	}
	if len(page.Treatments) != 1 || len(page.Testimonials) != 0 {
		t.Fatalf("page = %+v", page)
	}
}
