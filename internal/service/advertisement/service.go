package advertisement

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/internal/repository"
	"github.com/newsai/admin-api/pkg/errors"
)

type Servicer interface {
	CreateAd(ctx context.Context, ad *model.Advertisement) error
	GetAd(ctx context.Context, id uuid.UUID) (*model.Advertisement, error)
	UpdateAd(ctx context.Context, ad *model.Advertisement) error
	ListAds(ctx context.Context, filter *model.AdFilter) ([]*model.Advertisement, int, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status model.AdStatus) (*model.Advertisement, error)
	SoftDeleteAd(ctx context.Context, id uuid.UUID) error
	RestoreAd(ctx context.Context, id uuid.UUID) (*model.Advertisement, error)
	HardDeleteAd(ctx context.Context, id uuid.UUID) error
	BulkChangeStatus(ctx context.Context, ids []uuid.UUID, status model.AdStatus) (int, error)
	BulkSoftDelete(ctx context.Context, ids []uuid.UUID) (int, error)
}

type eventRecorder interface {
	Record(ctx context.Context, eventType string, payload interface{}) error
}

type Service struct {
	repo   repository.AdRepository
	events eventRecorder
}

func NewService(repo repository.AdRepository, events eventRecorder) *Service {
	return &Service{repo: repo, events: events}
}

func (s *Service) CreateAd(ctx context.Context, ad *model.Advertisement) error {
	if ad.StartsAt != nil && ad.EndsAt != nil && ad.EndsAt.Before(*ad.StartsAt) {
		return errors.BadRequest("campaign end date precedes start date", nil)
	}

	ad.Status = model.AdStatusPending

	if err := s.repo.Create(ctx, ad); err != nil {
		return fmt.Errorf("failed to create advertisement: %w", err)
	}

	s.recordEvent(ctx, "ad.created", ad)
	return nil
}

func (s *Service) GetAd(ctx context.Context, id uuid.UUID) (*model.Advertisement, error) {
	ad, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("advertisement", err)
	}
	return ad, nil
}

func (s *Service) UpdateAd(ctx context.Context, ad *model.Advertisement) error {
	if ad.StartsAt != nil && ad.EndsAt != nil && ad.EndsAt.Before(*ad.StartsAt) {
		return errors.BadRequest("campaign end date precedes start date", nil)
	}

	if err := s.repo.Update(ctx, ad); err != nil {
		return fmt.Errorf("failed to update advertisement: %w", err)
	}

	s.recordEvent(ctx, "ad.updated", ad)
	return nil
}

func (s *Service) ListAds(ctx context.Context, filter *model.AdFilter) ([]*model.Advertisement, int, error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, status model.AdStatus) (*model.Advertisement, error) {
	if !model.ValidAdStatus(status) {
		return nil, errors.BadRequest(fmt.Sprintf("invalid advertisement status %q", status), nil)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, errors.NotFound("advertisement", err)
	}

	ad, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload advertisement: %w", err)
	}

	s.recordEvent(ctx, "ad.status_changed", ad)
	return ad, nil
}

func (s *Service) SoftDeleteAd(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return errors.NotFound("advertisement", err)
	}
	s.recordEvent(ctx, "ad.deleted", map[string]string{"id": id.String()})
	return nil
}

func (s *Service) RestoreAd(ctx context.Context, id uuid.UUID) (*model.Advertisement, error) {
	if err := s.repo.Restore(ctx, id); err != nil {
		return nil, errors.NotFound("deleted advertisement", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) HardDeleteAd(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetDeleted(ctx, id); err != nil {
		return errors.Conflict("advertisement must be moved to trash before permanent deletion", err)
	}

	if err := s.repo.HardDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to permanently delete advertisement: %w", err)
	}

	s.recordEvent(ctx, "ad.hard_deleted", map[string]string{"id": id.String()})
	return nil
}

func (s *Service) BulkChangeStatus(ctx context.Context, ids []uuid.UUID, status model.AdStatus) (int, error) {
	if !model.ValidAdStatus(status) {
		return 0, errors.BadRequest(fmt.Sprintf("invalid advertisement status %q", status), nil)
	}

	n, err := s.repo.BulkUpdateStatus(ctx, ids, status)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk change status: %w", err)
	}

	s.recordEvent(ctx, "ad.bulk_status_changed", map[string]interface{}{
		"ids": ids, "status": status, "affected": n,
	})
	return n, nil
}

func (s *Service) BulkSoftDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	n, err := s.repo.BulkSoftDelete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk delete: %w", err)
	}

	s.recordEvent(ctx, "ad.bulk_deleted", map[string]interface{}{"ids": ids, "affected": n})
	return n, nil
}

func (s *Service) recordEvent(ctx context.Context, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	_ = s.events.Record(ctx, eventType, payload)
}
