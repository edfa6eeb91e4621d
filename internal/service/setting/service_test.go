package setting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsai/admin-api/internal/model"
)

type fakeSettingRepo struct {
	settings  []*model.Setting
	listCalls int
	upserts   []map[string]string
}

func (f *fakeSettingRepo) List(ctx context.Context) ([]*model.Setting, error) {
	f.listCalls++
	return f.settings, nil
}

func (f *fakeSettingRepo) Get(ctx context.Context, key string) (*model.Setting, error) {
	for _, s := range f.settings {
		if s.Key == key {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSettingRepo) Upsert(ctx context.Context, settings map[string]string, updatedBy string) error {
	f.upserts = append(f.upserts, settings)
	return nil
}

func TestListSettingsCachesReads(t *testing.T) {
	repo := &fakeSettingRepo{settings: []*model.Setting{{Key: "site_name", Value: "NewsAI"}}}
	svc := NewService(repo)

	for i := 0; i < 5; i++ {
		settings, err := svc.ListSettings(context.Background())
		require.NoError(t, err)
		require.Len(t, settings, 1)
	}

	// Only the first call hits the repository
	assert.Equal(t, 1, repo.listCalls)
}

func TestUpdateSettingsInvalidatesCache(t *testing.T) {
	repo := &fakeSettingRepo{settings: []*model.Setting{{Key: "site_name", Value: "NewsAI"}}}
	svc := NewService(repo)

	_, err := svc.ListSettings(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateSettings(context.Background(), map[string]string{"site_name": "NewsAI v2"}, "admin@newsai.io"))

	_, err = svc.ListSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
	require.Len(t, repo.upserts, 1)
}
