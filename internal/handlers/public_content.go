package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/recharge-travels/api/internal/domain"
	"github.com/recharge-travels/api/internal/platform/httpx"
	"github.com/recharge-travels/api/internal/services"
)

// ContentHandlers exposes the public site catalogue: destinations, articles,
// regions, categories and the wellness page.
type ContentHandlers struct {
	content services.ContentService
}

// NewContentHandlers constructs a new ContentHandlers instance.
func NewContentHandlers(content services.ContentService) *ContentHandlers {
	return &ContentHandlers{content: content}
}

// Routes registers the public content endpoints.
func (h *ContentHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/destinations", h.listDestinations)
	r.Get("/destinations/{slug}", h.getDestination)
	r.Get("/articles", h.listArticles)
	r.Get("/articles/{slug}", h.getArticle)
	r.Get("/regions", h.listRegions)
	r.Get("/categories", h.listCategories)
	r.Get("/ayurveda", h.getAyurvedaPage)
}

type destinationPayload struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Language    string   `json:"language"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary,omitempty"`
	BodyHTML    string   `json:"bodyHtml,omitempty"`
	HeroImage   string   `json:"heroImage,omitempty"`
	Gallery     []string `json:"gallery,omitempty"`
	RegionID    string   `json:"regionId,omitempty"`
	CategoryIDs []string `json:"categoryIds,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

type articlePayload struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Language    string   `json:"language"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary,omitempty"`
	BodyHTML    string   `json:"bodyHtml,omitempty"`
	HeroImage   string   `json:"heroImage,omitempty"`
	RegionID    string   `json:"regionId,omitempty"`
	CategoryIDs []string `json:"categoryIds,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

type listResponse[T any] struct {
	Items         []T    `json:"items"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

func buildDestinationPayload(d domain.Destination) destinationPayload {
	return destinationPayload{
		ID:          d.ID,
		Slug:        d.Slug,
		Language:    d.Language,
		Title:       d.Title,
		Summary:     d.Summary,
		BodyHTML:    d.BodyHTML,
		HeroImage:   d.HeroImage,
		Gallery:     d.Gallery,
		RegionID:    d.RegionID,
		CategoryIDs: d.CategoryIDs,
		UpdatedAt:   formatTime(d.UpdatedAt),
	}
}

func buildArticlePayload(a domain.Article) articlePayload {
	return articlePayload{
		ID:          a.ID,
		Slug:        a.Slug,
		Language:    a.Language,
		Title:       a.Title,
		Summary:     a.Summary,
		BodyHTML:    a.BodyHTML,
		HeroImage:   a.HeroImage,
		RegionID:    a.RegionID,
		CategoryIDs: a.CategoryIDs,
		UpdatedAt:   formatTime(a.UpdatedAt),
	}
}

func (h *ContentHandlers) listDestinations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.content == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "content service unavailable", http.StatusServiceUnavailable))
		return
	}
	page, err := parsePagination(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	result, err := h.content.ListDestinations(ctx, r.URL.Query().Get("language"), page)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}

	items := make([]destinationPayload, 0, len(result.Items))
	for _, d := range result.Items {
		items = append(items, buildDestinationPayload(d))
	}
	writeJSONResponse(w, http.StatusOK, listResponse[destinationPayload]{Items: items, NextPageToken: result.NextPageToken})
}

func (h *ContentHandlers) getDestination(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.content == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "content service unavailable", http.StatusServiceUnavailable))
		return
	}
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "slug is required", http.StatusBadRequest))
		return
	}

	destination, err := h.content.GetDestination(ctx, slug, r.URL.Query().Get("language"))
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildDestinationPayload(destination))
}

func (h *ContentHandlers) listArticles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.content == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "content service unavailable", http.StatusServiceUnavailable))
		return
	}
	page, err := parsePagination(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	result, err := h.content.ListArticles(ctx, r.URL.Query().Get("language"), page)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}

	items := make([]articlePayload, 0, len(result.Items))
	for _, a := range result.Items {
		items = append(items, buildArticlePayload(a))
	}
	writeJSONResponse(w, http.StatusOK, listResponse[articlePayload]{Items: items, NextPageToken: result.NextPageToken})
}

func (h *ContentHandlers) getArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.content == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "content service unavailable", http.StatusServiceUnavailable))
		return
	}
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "slug is required", http.StatusBadRequest))
		return
	}

	article, err := h.content.GetArticle(ctx, slug, r.URL.Query().Get("language"))
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildArticlePayload(article))
}

func (h *ContentHandlers) listRegions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.content == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "content service unavailable", http.StatusServiceUnavailable))
		return
	}
	regions, err := h.content.ListRegions(ctx)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	items := make([]map[string]any, 0, len(regions))
	for _, region := range regions {
		items = append(items, map[string]any{"id": region.ID, "name": region.Name, "slug": region.Slug})
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"items": items})
}

func (h *ContentHandlers) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.content == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "content service unavailable", http.StatusServiceUnavailable))
		return
	}
	categories, err := h.content.ListCategories(ctx)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	items := make([]map[string]any, 0, len(categories))
	for _, category := range categories {
		items = append(items, map[string]any{"id": category.ID, "name": category.Name, "slug": category.Slug})
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"items": items})
}

func (h *ContentHandlers) getAyurvedaPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.content == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "content service unavailable", http.StatusServiceUnavailable))
		return
	}
	page, err := h.content.GetAyurvedaPage(ctx)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildAyurvedaPagePayload(page))
}
