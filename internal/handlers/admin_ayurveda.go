package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/recharge-travels/api/internal/domain"
	"github.com/recharge-travels/api/internal/platform/httpx"
	"github.com/recharge-travels/api/internal/services"
)

// AdminAyurvedaHandlers exposes the wellness CMS editor endpoints.
type AdminAyurvedaHandlers struct {
	ayurveda services.AyurvedaService
}

// NewAdminAyurvedaHandlers constructs a new AdminAyurvedaHandlers instance.
func NewAdminAyurvedaHandlers(ayurveda services.AyurvedaService) *AdminAyurvedaHandlers {
	return &AdminAyurvedaHandlers{ayurveda: ayurveda}
}

// Routes registers the /admin/ayurveda endpoints.
func (h *AdminAyurvedaHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getContent)
	r.Put("/", h.saveContent)
	r.Post("/retreats/{itemID}/move", h.moveRetreat)
	r.Post("/treatments/{itemID}/move", h.moveTreatment)
	r.Post("/testimonials/{itemID}/move", h.moveTestimonial)
}

type heroSectionPayload struct {
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle,omitempty"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
}

type ctaSectionPayload struct {
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle,omitempty"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
	ButtonLabel     string `json:"buttonLabel,omitempty"`
}

type retreatPayload struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Price       int64    `json:"price"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
	Order       int      `json:"order"`
	IsActive    bool     `json:"isActive"`
}

type treatmentPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Order       int    `json:"order"`
	IsActive    bool   `json:"isActive"`
}

type testimonialPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Country  string `json:"country,omitempty"`
	Quote    string `json:"quote"`
	Image    string `json:"image,omitempty"`
	Rating   int    `json:"rating"`
	Order    int    `json:"order"`
	IsActive bool   `json:"isActive"`
}

type ayurvedaContentPayload struct {
	Hero         heroSectionPayload   `json:"hero"`
	CTA          ctaSectionPayload    `json:"cta"`
	Retreats     []retreatPayload     `json:"retreats"`
	Treatments   []treatmentPayload   `json:"treatments"`
	Testimonials []testimonialPayload `json:"testimonials"`
}

type ayurvedaSaveRequestPayload struct {
	Hero         heroSectionPayload   `json:"hero"`
	CTA          ctaSectionPayload    `json:"cta"`
	Retreats     []retreatPayload     `json:"retreats"`
	Treatments   []treatmentPayload   `json:"treatments"`
	Testimonials []testimonialPayload `json:"testimonials"`

	DeletedRetreatIDs     []string `json:"deletedRetreatIds,omitempty"`
	DeletedTreatmentIDs   []string `json:"deletedTreatmentIds,omitempty"`
	DeletedTestimonialIDs []string `json:"deletedTestimonialIds,omitempty"`
}

type moveRequestPayload struct {
	Direction string `json:"direction"`
}

func buildRetreatPayload(r domain.Retreat) retreatPayload {
	return retreatPayload{
		ID:          r.ID,
		Title:       r.Title,
		Category:    r.Category,
		Duration:    r.Duration,
		Price:       r.Price,
		Description: r.Description,
		Image:       r.Image,
		Highlights:  r.Highlights,
		Order:       r.Order,
		IsActive:    r.IsActive,
	}
}

func buildTreatmentPayload(t domain.Treatment) treatmentPayload {
	return treatmentPayload{
		ID:          t.ID,
		Name:        t.Name,
		Icon:        t.Icon,
		Description: t.Description,
		Image:       t.Image,
		Order:       t.Order,
		IsActive:    t.IsActive,
	}
}

func buildTestimonialPayload(t domain.Testimonial) testimonialPayload {
	return testimonialPayload{
		ID:       t.ID,
		Name:     t.Name,
		Country:  t.Country,
		Quote:    t.Quote,
		Image:    t.Image,
		Rating:   t.Rating,
		Order:    t.Order,
		IsActive: t.IsActive,
	}
}

func buildAyurvedaContentPayload(content domain.AyurvedaContent) ayurvedaContentPayload {
	payload := ayurvedaContentPayload{
		Hero:         heroSectionPayload(content.Hero),
		CTA:          ctaSectionPayload(content.CTA),
		Retreats:     make([]retreatPayload, 0, len(content.Retreats)),
		Treatments:   make([]treatmentPayload, 0, len(content.Treatments)),
		Testimonials: make([]testimonialPayload, 0, len(content.Testimonials)),
	}
	for _, retreat := range content.Retreats {
		payload.Retreats = append(payload.Retreats, buildRetreatPayload(retreat))
	}
	for _, treatment := range content.Treatments {
		payload.Treatments = append(payload.Treatments, buildTreatmentPayload(treatment))
	}
	for _, testimonial := range content.Testimonials {
		payload.Testimonials = append(payload.Testimonials, buildTestimonialPayload(testimonial))
	}
	return payload
}

func buildAyurvedaPagePayload(page services.AyurvedaPage) ayurvedaContentPayload {
	return buildAyurvedaContentPayload(domain.AyurvedaContent{
		Hero:         page.Hero,
		CTA:          page.CTA,
		Retreats:     page.Retreats,
		Treatments:   page.Treatments,
		Testimonials: page.Testimonials,
	})
}

func (h *AdminAyurvedaHandlers) getContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.ayurveda == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "ayurveda service unavailable", http.StatusServiceUnavailable))
		return
	}
	content, err := h.ayurveda.GetContent(ctx)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildAyurvedaContentPayload(content))
}

func (h *AdminAyurvedaHandlers) saveContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.ayurveda == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "ayurveda service unavailable", http.StatusServiceUnavailable))
		return
	}

	var payload ayurvedaSaveRequestPayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	req := services.AyurvedaSaveRequest{
		Hero:                  domain.HeroSection(payload.Hero),
		CTA:                   domain.CTASection(payload.CTA),
		DeletedRetreatIDs:     payload.DeletedRetreatIDs,
		DeletedTreatmentIDs:   payload.DeletedTreatmentIDs,
		DeletedTestimonialIDs: payload.DeletedTestimonialIDs,
	}
	for _, retreat := range payload.Retreats {
		req.Retreats = append(req.Retreats, domain.Retreat{
			ID:          retreat.ID,
			Title:       retreat.Title,
			Category:    retreat.Category,
			Duration:    retreat.Duration,
			Price:       retreat.Price,
			Description: retreat.Description,
			Image:       retreat.Image,
			Highlights:  retreat.Highlights,
			IsActive:    retreat.IsActive,
		})
	}
	for _, treatment := range payload.Treatments {
		req.Treatments = append(req.Treatments, domain.Treatment{
			ID:          treatment.ID,
			Name:        treatment.Name,
			Icon:        treatment.Icon,
			Description: treatment.Description,
			Image:       treatment.Image,
			IsActive:    treatment.IsActive,
		})
	}
	for _, testimonial := range payload.Testimonials {
		req.Testimonials = append(req.Testimonials, domain.Testimonial{
			ID:       testimonial.ID,
			Name:     testimonial.Name,
			Country:  testimonial.Country,
			Quote:    testimonial.Quote,
			Image:    testimonial.Image,
			Rating:   testimonial.Rating,
			IsActive: testimonial.IsActive,
		})
	}

	content, err := h.ayurveda.SaveContent(ctx, req)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildAyurvedaContentPayload(content))
}

func (h *AdminAyurvedaHandlers) moveRetreat(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, func(r *http.Request, itemID string, direction services.MoveDirection) (any, error) {
		retreats, err := h.ayurveda.MoveRetreat(r.Context(), itemID, direction)
		if err != nil {
			return nil, err
		}
		items := make([]retreatPayload, 0, len(retreats))
		for _, retreat := range retreats {
			items = append(items, buildRetreatPayload(retreat))
		}
		return listResponse[retreatPayload]{Items: items}, nil
	})
}

func (h *AdminAyurvedaHandlers) moveTreatment(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, func(r *http.Request, itemID string, direction services.MoveDirection) (any, error) {
		treatments, err := h.ayurveda.MoveTreatment(r.Context(), itemID, direction)
		if err != nil {
			return nil, err
		}
		items := make([]treatmentPayload, 0, len(treatments))
		for _, treatment := range treatments {
			items = append(items, buildTreatmentPayload(treatment))
		}
		return listResponse[treatmentPayload]{Items: items}, nil
	})
}

func (h *AdminAyurvedaHandlers) moveTestimonial(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, func(r *http.Request, itemID string, direction services.MoveDirection) (any, error) {
		testimonials, err := h.ayurveda.MoveTestimonial(r.Context(), itemID, direction)
		if err != nil {
			return nil, err
		}
		items := make([]testimonialPayload, 0, len(testimonials))
		for _, testimonial := range testimonials {
			items = append(items, buildTestimonialPayload(testimonial))
		}
		return listResponse[testimonialPayload]{Items: items}, nil
	})
}

func (h *AdminAyurvedaHandlers) move(w http.ResponseWriter, r *http.Request, run func(*http.Request, string, services.MoveDirection) (any, error)) {
	ctx := r.Context()
	if h.ayurveda == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "ayurveda service unavailable", http.StatusServiceUnavailable))
		return
	}

	itemID := strings.TrimSpace(chi.URLParam(r, "itemID"))
	if itemID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "item id is required", http.StatusBadRequest))
		return
	}

	var payload moveRequestPayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	var direction services.MoveDirection
	switch strings.ToLower(strings.TrimSpace(payload.Direction)) {
	case "up":
		direction = services.MoveUp
	case "down":
		direction = services.MoveDown
	default:
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "direction must be up or down", http.StatusBadRequest))
		return
	}

	result, err := run(r, itemID, direction)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			httpx.WriteError(ctx, w, httpx.NewError("not_found", "item not found", http.StatusNotFound))
		case errors.Is(err, services.ErrUnknownMoveDirection):
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "direction must be up or down", http.StatusBadRequest))
		default:
			writeRepositoryError(ctx, w, err)
		}
		return
	}
	writeJSONResponse(w, http.StatusOK, result)
}
