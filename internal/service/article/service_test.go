package article

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/pkg/errors"
)

// fakeRepo is an in-memory ArticleRepository good enough for service tests
type fakeRepo struct {
	articles map[uuid.UUID]*model.Article
	trashed  map[uuid.UUID]*model.Article

	lastStatus         model.ArticleStatus
	lastSetPublishedAt bool
	created            []*model.Article
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		articles: make(map[uuid.UUID]*model.Article),
		trashed:  make(map[uuid.UUID]*model.Article),
	}
}

func (f *fakeRepo) Create(ctx context.Context, a *model.Article) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	f.articles[a.ID] = a
	f.created = append(f.created, a)
	return nil
}

func (f *fakeRepo) Get(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	a, ok := f.articles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return a, nil
}

func (f *fakeRepo) GetDeleted(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	a, ok := f.trashed[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return a, nil
}

func (f *fakeRepo) Update(ctx context.Context, a *model.Article) error {
	if _, ok := f.articles[a.ID]; !ok {
		return sql.ErrNoRows
	}
	f.articles[a.ID] = a
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter *model.ArticleFilter) ([]*model.Article, int, error) {
	var out []*model.Article
	for _, a := range f.articles {
		out = append(out, a)
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ArticleStatus, setPublishedAt bool) error {
	a, ok := f.articles[id]
	if !ok {
		return sql.ErrNoRows
	}
	a.Status = status
	f.lastStatus = status
	f.lastSetPublishedAt = setPublishedAt
	return nil
}

func (f *fakeRepo) SetFlag(ctx context.Context, id uuid.UUID, flag string, value bool) error {
	a, ok := f.articles[id]
	if !ok {
		return sql.ErrNoRows
	}
	if flag == "featured" {
		a.Featured = value
	} else {
		a.Breaking = value
	}
	return nil
}

func (f *fakeRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	a, ok := f.articles[id]
	if !ok {
		return sql.ErrNoRows
	}
	delete(f.articles, id)
	f.trashed[id] = a
	return nil
}

func (f *fakeRepo) Restore(ctx context.Context, id uuid.UUID) error {
	a, ok := f.trashed[id]
	if !ok {
		return sql.ErrNoRows
	}
	delete(f.trashed, id)
	a.Status = model.ArticleStatusDraft
	f.articles[id] = a
	return nil
}

func (f *fakeRepo) HardDelete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.trashed[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.trashed, id)
	return nil
}

func (f *fakeRepo) BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status model.ArticleStatus) (int, error) {
	n := 0
	for _, id := range ids {
		if a, ok := f.articles[id]; ok {
			a.Status = status
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) BulkSoftDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	n := 0
	for _, id := range ids {
		if f.SoftDelete(ctx, id) == nil {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) BulkRestore(ctx context.Context, ids []uuid.UUID) (int, error) {
	n := 0
	for _, id := range ids {
		if f.Restore(ctx, id) == nil {
			n++
		}
	}
	return n, nil
}

type recordedEvent struct {
	eventType string
	payload   interface{}
}

type fakeEvents struct {
	events []recordedEvent
}

func (f *fakeEvents) Record(ctx context.Context, eventType string, payload interface{}) error {
	f.events = append(f.events, recordedEvent{eventType, payload})
	return nil
}

func seedArticle(repo *fakeRepo, title string, status model.ArticleStatus) *model.Article {
	a := &model.Article{
		Title:  title,
		Status: status,
	}
	a.ID = uuid.New()
	repo.articles[a.ID] = a
	return a
}

func TestCreateArticleDefaultsToDraft(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeEvents{})

	a := &model.Article{Title: "GPT-5 Review", AuthorID: uuid.New()}
	require.NoError(t, svc.CreateArticle(context.Background(), a))

	assert.Equal(t, model.ArticleStatusDraft, a.Status)
	assert.Equal(t, "gpt-5-review", a.Slug)
}

func TestCreateArticleRequiresTitle(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	err := svc.CreateArticle(context.Background(), &model.Article{})
	assert.Error(t, err)
}

func TestChangeStatusPublishStampsTimestamp(t *testing.T) {
	repo := newFakeRepo()
	events := &fakeEvents{}
	svc := NewService(repo, events)
	a := seedArticle(repo, "Draft piece", model.ArticleStatusDraft)

	got, err := svc.ChangeStatus(context.Background(), a.ID, model.ArticleStatusPublished)
	require.NoError(t, err)

	assert.Equal(t, model.ArticleStatusPublished, got.Status)
	assert.True(t, repo.lastSetPublishedAt)
	require.NotEmpty(t, events.events)
	assert.Equal(t, "article.status_changed", events.events[len(events.events)-1].eventType)
}

func TestChangeStatusNonPublishDoesNotStamp(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	a := seedArticle(repo, "Live piece", model.ArticleStatusPublished)

	_, err := svc.ChangeStatus(context.Background(), a.ID, model.ArticleStatusArchived)
	require.NoError(t, err)
	assert.False(t, repo.lastSetPublishedAt)
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	a := seedArticle(repo, "Piece", model.ArticleStatusDraft)

	_, err := svc.ChangeStatus(context.Background(), a.ID, "nonsense")
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrBadRequest, appErr.Code)
}

func TestHardDeleteRequiresTrash(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	a := seedArticle(repo, "Still live", model.ArticleStatusDraft)

	err := svc.HardDeleteArticle(context.Background(), a.ID)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrConflict, appErr.Code)

	// After soft delete the permanent delete goes through
	require.NoError(t, svc.SoftDeleteArticle(context.Background(), a.ID))
	require.NoError(t, svc.HardDeleteArticle(context.Background(), a.ID))
}

func TestRestoreBringsArticleBackAsDraft(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	a := seedArticle(repo, "Published piece", model.ArticleStatusPublished)

	require.NoError(t, svc.SoftDeleteArticle(context.Background(), a.ID))

	restored, err := svc.RestoreArticle(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ArticleStatusDraft, restored.Status)
}

func TestDuplicateArticle(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	src := seedArticle(repo, "Original title", model.ArticleStatusPublished)
	src.Featured = true
	author := uuid.New()

	dup, err := svc.DuplicateArticle(context.Background(), src.ID, author)
	require.NoError(t, err)

	assert.Equal(t, "Copy of Original title", dup.Title)
	assert.Equal(t, model.ArticleStatusDraft, dup.Status)
	assert.Equal(t, author, dup.AuthorID)
	assert.False(t, dup.Featured)
	assert.NotEqual(t, src.ID, dup.ID)
}

func TestToggleFlag(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	a := seedArticle(repo, "Piece", model.ArticleStatusDraft)

	got, err := svc.ToggleFlag(context.Background(), a.ID, "featured")
	require.NoError(t, err)
	assert.True(t, got.Featured)

	got, err = svc.ToggleFlag(context.Background(), a.ID, "featured")
	require.NoError(t, err)
	assert.False(t, got.Featured)

	_, err = svc.ToggleFlag(context.Background(), a.ID, "deleted_at")
	assert.Error(t, err)
}

func TestBulkChangeStatusValidates(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	_, err := svc.BulkChangeStatus(context.Background(), []uuid.UUID{uuid.New()}, "bogus")
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello, World!"))
	assert.Equal(t, "gpt-4-turbo-2024", Slugify("GPT-4 Turbo (2024)"))
	assert.Equal(t, "a-b", Slugify("--a--b--"))
}
