package setting

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/internal/repository"
)

const (
	cacheKey = "settings:all"
	cacheTTL = 5 * time.Minute
)

type Servicer interface {
	ListSettings(ctx context.Context) ([]*model.Setting, error)
	UpdateSettings(ctx context.Context, settings map[string]string, updatedBy string) error
}

// Service serves global settings with a short read-through cache; the
// settings page reads far more often than it writes.
type Service struct {
	repo  repository.SettingRepository
	cache *gocache.Cache
}

func NewService(repo repository.SettingRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, 10*time.Minute),
	}
}

func (s *Service) ListSettings(ctx context.Context) ([]*model.Setting, error) {
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.([]*model.Setting), nil
	}

	settings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	s.cache.Set(cacheKey, settings, gocache.DefaultExpiration)
	return settings, nil
}

func (s *Service) UpdateSettings(ctx context.Context, settings map[string]string, updatedBy string) error {
	if err := s.repo.Upsert(ctx, settings, updatedBy); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	s.cache.Delete(cacheKey)
	return nil
}
