package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/newsai/admin-api/internal/model"
)

type ArticleRepository interface {
	Create(ctx context.Context, article *model.Article) error
	Get(ctx context.Context, id uuid.UUID) (*model.Article, error)
	GetDeleted(ctx context.Context, id uuid.UUID) (*model.Article, error)
	Update(ctx context.Context, article *model.Article) error
	List(ctx context.Context, filter *model.ArticleFilter) ([]*model.Article, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ArticleStatus, setPublishedAt bool) error
	SetFlag(ctx context.Context, id uuid.UUID, flag string, value bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) error
	BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status model.ArticleStatus) (int, error)
	BulkSoftDelete(ctx context.Context, ids []uuid.UUID) (int, error)
	BulkRestore(ctx context.Context, ids []uuid.UUID) (int, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Get(ctx context.Context, id uuid.UUID) (*model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	List(ctx context.Context, filter *model.CategoryFilter) ([]*model.Category, int, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	BulkSetActive(ctx context.Context, ids []uuid.UUID, active bool) (int, error)
	BulkSoftDelete(ctx context.Context, ids []uuid.UUID) (int, error)
}

type AdRepository interface {
	Create(ctx context.Context, ad *model.Advertisement) error
	Get(ctx context.Context, id uuid.UUID) (*model.Advertisement, error)
	GetDeleted(ctx context.Context, id uuid.UUID) (*model.Advertisement, error)
	Update(ctx context.Context, ad *model.Advertisement) error
	List(ctx context.Context, filter *model.AdFilter) ([]*model.Advertisement, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AdStatus) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) error
	BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status model.AdStatus) (int, error)
	BulkSoftDelete(ctx context.Context, ids []uuid.UUID) (int, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	List(ctx context.Context, filter *model.UserFilter) ([]*model.User, int, error)
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	BulkSetBlocked(ctx context.Context, ids []uuid.UUID, blocked bool) (int, error)
	RecordLoginFailure(ctx context.Context, id uuid.UUID, failures int, lockedUntil *time.Time) error
	RecordLoginSuccess(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	UpdateEmailVerified(ctx context.Context, id uuid.UUID, verified bool) error
	Subscribe(ctx context.Context, userID, categoryID uuid.UUID) error
	Unsubscribe(ctx context.Context, userID, categoryID uuid.UUID) error
	ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]*model.Category, error)
}

type SettingRepository interface {
	List(ctx context.Context) ([]*model.Setting, error)
	Get(ctx context.Context, key string) (*model.Setting, error)
	Upsert(ctx context.Context, settings map[string]string, updatedBy string) error
}

type OutboxRepository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
}
