package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	domain "github.com/recharge-travels/api/internal/domain"
	"github.com/recharge-travels/api/internal/repositories"
)

// ErrAyurvedaRepositoryRequired signals that the Ayurveda repository dependency is absent.
var ErrAyurvedaRepositoryRequired = errors.New("ayurveda service: repository is not configured")

// ErrUnknownMoveDirection signals a reorder request with an unrecognised direction.
var ErrUnknownMoveDirection = errors.New("ayurveda service: unknown move direction")

// ErrItemNotFound signals a reorder request against an id that is not in the list.
var ErrItemNotFound = errors.New("ayurveda service: item not found")

// AyurvedaServiceDeps groups constructor parameters for the Ayurveda service.
type AyurvedaServiceDeps struct {
	Repository repositories.AyurvedaRepository
}

type ayurvedaService struct {
	repo repositories.AyurvedaRepository
}

// NewAyurvedaService constructs the wellness CMS service.
func NewAyurvedaService(deps AyurvedaServiceDeps) (AyurvedaService, error) {
	if deps.Repository == nil {
		return nil, ErrAyurvedaRepositoryRequired
	}
	return &ayurvedaService{repo: deps.Repository}, nil
}

// GetContent loads the whole editor payload: sections plus all rows in order,
// inactive ones included so the admin can re-enable them.
func (s *ayurvedaService) GetContent(ctx context.Context) (domain.AyurvedaContent, error) {
	hero, cta, err := s.repo.GetSections(ctx)
	if err != nil {
		return domain.AyurvedaContent{}, err
	}
	retreats, err := s.repo.ListRetreats(ctx)
	if err != nil {
		return domain.AyurvedaContent{}, err
	}
	treatments, err := s.repo.ListTreatments(ctx)
	if err != nil {
		return domain.AyurvedaContent{}, err
	}
	testimonials, err := s.repo.ListTestimonials(ctx)
	if err != nil {
		return domain.AyurvedaContent{}, err
	}
	return domain.AyurvedaContent{
		Hero:         hero,
		CTA:          cta,
		Retreats:     retreats,
		Treatments:   treatments,
		Testimonials: testimonials,
	}, nil
}

// SaveContent persists the editor payload sequentially: sections first, then
// one create per temporary-id row, one update per stored row, and finally the
// requested deletes. Deletes of rows that were never persisted are skipped.
// Writes are not transactional; a failure leaves earlier writes in place and
// is reported to the caller.
func (s *ayurvedaService) SaveContent(ctx context.Context, req AyurvedaSaveRequest) (domain.AyurvedaContent, error) {
	if err := s.repo.SaveSections(ctx, req.Hero, req.CTA); err != nil {
		return domain.AyurvedaContent{}, fmt.Errorf("save sections: %w", err)
	}

	for i, retreat := range req.Retreats {
		retreat.Order = i
		if domain.IsClientTempID(retreat.ID) {
			if _, err := s.repo.CreateRetreat(ctx, retreat); err != nil {
				return domain.AyurvedaContent{}, fmt.Errorf("create retreat: %w", err)
			}
			continue
		}
		if err := s.repo.UpdateRetreat(ctx, retreat); err != nil {
			return domain.AyurvedaContent{}, fmt.Errorf("update retreat %s: %w", retreat.ID, err)
		}
	}
	for _, id := range req.DeletedRetreatIDs {
		if domain.IsClientTempID(id) || strings.TrimSpace(id) == "" {
			continue
		}
		if err := s.repo.DeleteRetreat(ctx, id); err != nil {
			return domain.AyurvedaContent{}, fmt.Errorf("delete retreat %s: %w", id, err)
		}
	}

	for i, treatment := range req.Treatments {
		treatment.Order = i
		if domain.IsClientTempID(treatment.ID) {
			if _, err := s.repo.CreateTreatment(ctx, treatment); err != nil {
				return domain.AyurvedaContent{}, fmt.Errorf("create treatment: %w", err)
			}
			continue
		}
		if err := s.repo.UpdateTreatment(ctx, treatment); err != nil {
			return domain.AyurvedaContent{}, fmt.Errorf("update treatment %s: %w", treatment.ID, err)
		}
	}
	for _, id := range req.DeletedTreatmentIDs {
		if domain.IsClientTempID(id) || strings.TrimSpace(id) == "" {
			continue
		}
		if err := s.repo.DeleteTreatment(ctx, id); err != nil {
			return domain.AyurvedaContent{}, fmt.Errorf("delete treatment %s: %w", id, err)
		}
	}

	for i, testimonial := range req.Testimonials {
		testimonial.Order = i
		if domain.IsClientTempID(testimonial.ID) {
			if _, err := s.repo.CreateTestimonial(ctx, testimonial); err != nil {
				return domain.AyurvedaContent{}, fmt.Errorf("create testimonial: %w", err)
			}
			continue
		}
		if err := s.repo.UpdateTestimonial(ctx, testimonial); err != nil {
			return domain.AyurvedaContent{}, fmt.Errorf("update testimonial %s: %w", testimonial.ID, err)
		}
	}
	for _, id := range req.DeletedTestimonialIDs {
		if domain.IsClientTempID(id) || strings.TrimSpace(id) == "" {
			continue
		}
		if err := s.repo.DeleteTestimonial(ctx, id); err != nil {
			return domain.AyurvedaContent{}, fmt.Errorf("delete testimonial %s: %w", id, err)
		}
	}

	return s.GetContent(ctx)
}

// MoveRetreat shifts one retreat a single step and rewrites every row's
// position to its list index. A move past either end is a no-op.
func (s *ayurvedaService) MoveRetreat(ctx context.Context, retreatID string, direction MoveDirection) ([]domain.Retreat, error) {
	retreats, err := s.repo.ListRetreats(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(retreats, func(i, j int) bool { return retreats[i].Order < retreats[j].Order })

	moved, changed, err := shiftByID(retreats, retreatID, direction, func(r domain.Retreat) string { return r.ID })
	if err != nil {
		return nil, err
	}
	if !changed {
		return retreats, nil
	}
	for i := range moved {
		moved[i].Order = i
		if err := s.repo.UpdateRetreat(ctx, moved[i]); err != nil {
			return nil, fmt.Errorf("update retreat %s: %w", moved[i].ID, err)
		}
	}
	return moved, nil
}

// MoveTreatment shifts one treatment a single step; see MoveRetreat.
func (s *ayurvedaService) MoveTreatment(ctx context.Context, treatmentID string, direction MoveDirection) ([]domain.Treatment, error) {
	treatments, err := s.repo.ListTreatments(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(treatments, func(i, j int) bool { return treatments[i].Order < treatments[j].Order })

	moved, changed, err := shiftByID(treatments, treatmentID, direction, func(t domain.Treatment) string { return t.ID })
	if err != nil {
		return nil, err
	}
	if !changed {
		return treatments, nil
	}
	for i := range moved {
		moved[i].Order = i
		if err := s.repo.UpdateTreatment(ctx, moved[i]); err != nil {
			return nil, fmt.Errorf("update treatment %s: %w", moved[i].ID, err)
		}
	}
	return moved, nil
}

// MoveTestimonial shifts one testimonial a single step; see MoveRetreat.
func (s *ayurvedaService) MoveTestimonial(ctx context.Context, testimonialID string, direction MoveDirection) ([]domain.Testimonial, error) {
	testimonials, err := s.repo.ListTestimonials(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(testimonials, func(i, j int) bool { return testimonials[i].Order < testimonials[j].Order })

	moved, changed, err := shiftByID(testimonials, testimonialID, direction, func(t domain.Testimonial) string { return t.ID })
	if err != nil {
		return nil, err
	}
	if !changed {
		return testimonials, nil
	}
	for i := range moved {
		moved[i].Order = i
		if err := s.repo.UpdateTestimonial(ctx, moved[i]); err != nil {
			return nil, fmt.Errorf("update testimonial %s: %w", moved[i].ID, err)
		}
	}
	return moved, nil
}

// shiftByID swaps the identified element with its neighbour in the given
// direction. Returns the (possibly unchanged) slice and whether a swap happened.
func shiftByID[T any](items []T, id string, direction MoveDirection, idOf func(T) string) ([]T, bool, error) {
	index := -1
	for i, item := range items {
		if idOf(item) == id {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, false, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	var target int
	switch direction {
	case MoveUp:
		target = index - 1
	case MoveDown:
		target = index + 1
	default:
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownMoveDirection, direction)
	}
	if target < 0 || target >= len(items) {
		return items, false, nil
	}
	items[index], items[target] = items[target], items[index]
	return items, true, nil
}
