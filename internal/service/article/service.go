package article

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/internal/repository"
	"github.com/newsai/admin-api/pkg/errors"
)

type Servicer interface {
	CreateArticle(ctx context.Context, article *model.Article) error
	GetArticle(ctx context.Context, id uuid.UUID) (*model.Article, error)
	UpdateArticle(ctx context.Context, article *model.Article) error
	ListArticles(ctx context.Context, filter *model.ArticleFilter) ([]*model.Article, int, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status model.ArticleStatus) (*model.Article, error)
	ToggleFlag(ctx context.Context, id uuid.UUID, flag string) (*model.Article, error)
	SoftDeleteArticle(ctx context.Context, id uuid.UUID) error
	RestoreArticle(ctx context.Context, id uuid.UUID) (*model.Article, error)
	HardDeleteArticle(ctx context.Context, id uuid.UUID) error
	DuplicateArticle(ctx context.Context, id, authorID uuid.UUID) (*model.Article, error)
	BulkChangeStatus(ctx context.Context, ids []uuid.UUID, status model.ArticleStatus) (int, error)
	BulkSoftDelete(ctx context.Context, ids []uuid.UUID) (int, error)
	BulkRestore(ctx context.Context, ids []uuid.UUID) (int, error)
}

type eventRecorder interface {
	Record(ctx context.Context, eventType string, payload interface{}) error
}

type Service struct {
	repo   repository.ArticleRepository
	events eventRecorder
}

func NewService(repo repository.ArticleRepository, events eventRecorder) *Service {
	return &Service{repo: repo, events: events}
}

func (s *Service) CreateArticle(ctx context.Context, article *model.Article) error {
	if article.Title == "" {
		return errors.BadRequest("title is required", nil)
	}

	article.Status = model.ArticleStatusDraft
	article.Slug = Slugify(article.Title)

	if err := s.repo.Create(ctx, article); err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}

	s.recordEvent(ctx, "article.created", article)
	return nil
}

func (s *Service) GetArticle(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	article, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("article", err)
	}
	return article, nil
}

func (s *Service) UpdateArticle(ctx context.Context, article *model.Article) error {
	if article.Title != "" {
		article.Slug = Slugify(article.Title)
	}

	if err := s.repo.Update(ctx, article); err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}

	s.recordEvent(ctx, "article.updated", article)
	return nil
}

func (s *Service) ListArticles(ctx context.Context, filter *model.ArticleFilter) ([]*model.Article, int, error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

// ChangeStatus moves an article through its lifecycle. Publishing stamps
// published_at on the first transition only.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, status model.ArticleStatus) (*model.Article, error) {
	if !model.ValidArticleStatus(status) {
		return nil, errors.BadRequest(fmt.Sprintf("invalid article status %q", status), nil)
	}

	setPublishedAt := status == model.ArticleStatusPublished
	if err := s.repo.UpdateStatus(ctx, id, status, setPublishedAt); err != nil {
		return nil, errors.NotFound("article", err)
	}

	article, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload article: %w", err)
	}

	s.recordEvent(ctx, "article.status_changed", article)
	return article, nil
}

func (s *Service) ToggleFlag(ctx context.Context, id uuid.UUID, flag string) (*model.Article, error) {
	article, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("article", err)
	}

	var value bool
	switch flag {
	case "featured":
		value = !article.Featured
	case "breaking":
		value = !article.Breaking
	default:
		return nil, errors.BadRequest(fmt.Sprintf("unknown article flag %q", flag), nil)
	}

	if err := s.repo.SetFlag(ctx, id, flag, value); err != nil {
		return nil, fmt.Errorf("failed to toggle %s: %w", flag, err)
	}

	if flag == "featured" {
		article.Featured = value
	} else {
		article.Breaking = value
	}
	return article, nil
}

func (s *Service) SoftDeleteArticle(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return errors.NotFound("article", err)
	}
	s.recordEvent(ctx, "article.deleted", map[string]string{"id": id.String()})
	return nil
}

// RestoreArticle brings a soft-deleted article back as a draft.
func (s *Service) RestoreArticle(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	if err := s.repo.Restore(ctx, id); err != nil {
		return nil, errors.NotFound("deleted article", err)
	}

	article, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload article: %w", err)
	}

	s.recordEvent(ctx, "article.restored", article)
	return article, nil
}

// HardDeleteArticle permanently removes an article. Only articles already in
// the trash can be removed; this is the precondition behind the typed
// confirmation in the back-office UI.
func (s *Service) HardDeleteArticle(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetDeleted(ctx, id); err != nil {
		return errors.Conflict("article must be moved to trash before permanent deletion", err)
	}

	if err := s.repo.HardDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to permanently delete article: %w", err)
	}

	s.recordEvent(ctx, "article.hard_deleted", map[string]string{"id": id.String()})
	return nil
}

// DuplicateArticle copies an existing article into a fresh draft.
func (s *Service) DuplicateArticle(ctx context.Context, id, authorID uuid.UUID) (*model.Article, error) {
	src, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("article", err)
	}

	dup := &model.Article{
		Title:      fmt.Sprintf("Copy of %s", src.Title),
		Summary:    src.Summary,
		Content:    src.Content,
		CategoryID: src.CategoryID,
		AuthorID:   authorID,
		Status:     model.ArticleStatusDraft,
		Featured:   false,
		Breaking:   false,
	}
	dup.Slug = Slugify(dup.Title)

	if err := s.repo.Create(ctx, dup); err != nil {
		return nil, fmt.Errorf("failed to duplicate article: %w", err)
	}

	s.recordEvent(ctx, "article.duplicated", dup)
	return dup, nil
}

func (s *Service) BulkChangeStatus(ctx context.Context, ids []uuid.UUID, status model.ArticleStatus) (int, error) {
	if !model.ValidArticleStatus(status) {
		return 0, errors.BadRequest(fmt.Sprintf("invalid article status %q", status), nil)
	}

	n, err := s.repo.BulkUpdateStatus(ctx, ids, status)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk change status: %w", err)
	}

	s.recordEvent(ctx, "article.bulk_status_changed", map[string]interface{}{
		"ids": ids, "status": status, "affected": n, "at": time.Now(),
	})
	return n, nil
}

func (s *Service) BulkSoftDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	n, err := s.repo.BulkSoftDelete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk delete: %w", err)
	}

	s.recordEvent(ctx, "article.bulk_deleted", map[string]interface{}{"ids": ids, "affected": n})
	return n, nil
}

func (s *Service) BulkRestore(ctx context.Context, ids []uuid.UUID) (int, error) {
	n, err := s.repo.BulkRestore(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk restore: %w", err)
	}

	s.recordEvent(ctx, "article.bulk_restored", map[string]interface{}{"ids": ids, "affected": n})
	return n, nil
}

// recordEvent logs event failures without failing the request; the outbox is
// best-effort relative to the primary write.
func (s *Service) recordEvent(ctx context.Context, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	_ = s.events.Record(ctx, eventType, payload)
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a URL slug
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugStrip.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
