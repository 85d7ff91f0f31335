package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	domain "github.com/recharge-travels/api/internal/domain"
	"github.com/recharge-travels/api/internal/services"
)

type stubAyurvedaService struct {
	content  domain.AyurvedaContent
	saved    *services.AyurvedaSaveRequest
	moveErr  error
	retreats []domain.Retreat
}

func (s *stubAyurvedaService) GetContent(context.Context) (domain.AyurvedaContent, error) {
	return s.content, nil
}

func (s *stubAyurvedaService) SaveContent(_ context.Context, req services.AyurvedaSaveRequest) (domain.AyurvedaContent, error) {
	s.saved = &req
	return s.content, nil
}

func (s *stubAyurvedaService) MoveRetreat(_ context.Context, retreatID string, direction services.MoveDirection) ([]domain.Retreat, error) {
	if s.moveErr != nil {
		return nil, s.moveErr
	}
	return s.retreats, nil
}

func (s *stubAyurvedaService) MoveTreatment(context.Context, string, services.MoveDirection) ([]domain.Treatment, error) {
	return nil, nil
}

func (s *stubAyurvedaService) MoveTestimonial(context.Context, string, services.MoveDirection) ([]domain.Testimonial, error) {
	return nil, nil
}

func newAyurvedaAdminRouter(svc services.AyurvedaService) http.Handler {
	return NewRouter(WithAdminRoutes(func(r chi.Router) {
		r.Route("/ayurveda", NewAdminAyurvedaHandlers(svc).Routes)
	}))
}

func TestAdminAyurvedaSaveContent(t *testing.T) {
	svc := &stubAyurvedaService{content: domain.AyurvedaContent{
		Hero: domain.HeroSection{Title: "Ancient Healing"},
	}}
	router := newAyurvedaAdminRouter(svc)

	body := `{
		"hero": {"title": "Ancient Healing"},
		"cta": {"title": "Book now"},
		"retreats": [{"id": "new-1", "title": "Coastal", "isActive": true}],
		"treatments": [],
		"testimonials": [],
		"deletedRetreatIds": ["r9"]
	}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/ayurveda/", strings.NewReader(body))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if svc.saved == nil {
		t.Fatal("save request not forwarded")
	}
	if svc.saved.Hero.Title != "Ancient Healing" {
		t.Fatalf("hero = %+v", svc.saved.Hero)
	}
	if len(svc.saved.Retreats) != 1 || svc.saved.Retreats[0].ID != "new-1" {
		t.Fatalf("retreats = %+v", svc.saved.Retreats)
	}
	if len(svc.saved.DeletedRetreatIDs) != 1 || svc.saved.DeletedRetreatIDs[0] != "r9" {
		t.Fatalf("deleted = %v", svc.saved.DeletedRetreatIDs)
	}
}

func TestAdminAyurvedaMoveRetreat(t *testing.T) {
	svc := &stubAyurvedaService{retreats: []domain.Retreat{
		{ID: "r2", Order: 0},
		{ID: "r1", Order: 1},
	}}
	router := newAyurvedaAdminRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/ayurveda/retreats/r2/move", strings.NewReader(`{"direction":"up"}`))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Items []struct {
			ID    string `json:"id"`
			Order int    `json:"order"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(body.Items) != 2 || body.Items[0].ID != "r2" {
		t.Fatalf("items = %+v", body.Items)
	}
}

func TestAdminAyurvedaMoveRejectsBadDirection(t *testing.T) {
	router := newAyurvedaAdminRouter(&stubAyurvedaService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/ayurveda/retreats/r1/move", strings.NewReader(`{"direction":"sideways"}`))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestAdminAyurvedaMoveUnknownItem(t *testing.T) {
	router := newAyurvedaAdminRouter(&stubAyurvedaService{moveErr: services.ErrItemNotFound})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/ayurveda/retreats/missing/move", strings.NewReader(`{"direction":"down"}`))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}
