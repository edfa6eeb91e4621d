package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/internal/repository"
)

var userSortColumns = map[string]string{
	"email":         "email",
	"name":          "name",
	"role":          "role",
	"status":        "status",
	"last_login_at": "last_login_at",
	"created_at":    "created_at",
}

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, email, name, password_hash, role, status, blocked,
			email_verified, failed_logins, newsletter_opt_in, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.Blocked,
		user.EmailVerified,
		user.FailedLogins,
		user.NewsletterOptIn,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT * FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT * FROM users
		WHERE email = $1 AND deleted_at IS NULL
	`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users SET
			email = $1,
			name = $2,
			role = $3,
			newsletter_opt_in = $4,
			updated_at = $5
		WHERE id = $6 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.Name,
		user.Role,
		user.NewsletterOptIn,
		time.Now(),
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRowsAffected(result, "user")
}

func (r *userRepository) List(ctx context.Context, filter *model.UserFilter) ([]*model.User, int, error) {
	clause := newListClause()
	clause.addSearch(filter.Search, "email", "name")

	if filter.Status != "" && filter.Status != "all" {
		clause.add("status = $%d", filter.Status)
	}
	if filter.Role != "" && filter.Role != "all" {
		clause.add("role = $%d", filter.Role)
	}
	if filter.Blocked != nil {
		clause.add("blocked = $%d", *filter.Blocked)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM users" + clause.where()
	if err := r.db.GetContext(ctx, &total, countQuery, clause.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := "SELECT * FROM users" + clause.where() +
		orderBy(filter.SortOrder, userSortColumns) +
		paginate(filter.Pagination)

	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, clause.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (r *userRepository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	status := model.UserStatusActive
	if blocked {
		status = model.UserStatusBlocked
	}

	query := `
		UPDATE users
		SET blocked = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, blocked, status, id)
	if err != nil {
		return fmt.Errorf("failed to set user blocked: %w", err)
	}
	return requireRowsAffected(result, "user")
}

func (r *userRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRowsAffected(result, "user")
}

func (r *userRepository) BulkSetBlocked(ctx context.Context, ids []uuid.UUID, blocked bool) (int, error) {
	status := model.UserStatusActive
	if blocked {
		status = model.UserStatusBlocked
	}

	query := `
		UPDATE users
		SET blocked = $2, status = $3, updated_at = NOW()
		WHERE id = ANY($1) AND deleted_at IS NULL
	`
	n, err := r.bulkExec(ctx, query, ids, blocked, status)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk set user blocked: %w", err)
	}
	return n, nil
}

func (r *userRepository) RecordLoginFailure(ctx context.Context, id uuid.UUID, failures int, lockedUntil *time.Time) error {
	query := `
		UPDATE users
		SET failed_logins = $1, locked_until = $2, updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, failures, lockedUntil, id)
	if err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}
	return requireRowsAffected(result, "user")
}

func (r *userRepository) RecordLoginSuccess(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET failed_logins = 0, locked_until = NULL, last_login_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to record login success: %w", err)
	}
	return requireRowsAffected(result, "user")
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	query := `
		UPDATE users
		SET password_hash = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, hash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireRowsAffected(result, "user")
}

func (r *userRepository) UpdateEmailVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	query := `
		UPDATE users
		SET email_verified = $1, status = 'active', updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, verified, id)
	if err != nil {
		return fmt.Errorf("failed to update email verification status: %w", err)
	}
	return requireRowsAffected(result, "user")
}

func (r *userRepository) Subscribe(ctx context.Context, userID, categoryID uuid.UUID) error {
	query := `
		INSERT INTO subscriptions (user_id, category_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, category_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, userID, categoryID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	return nil
}

func (r *userRepository) Unsubscribe(ctx context.Context, userID, categoryID uuid.UUID) error {
	query := `
		DELETE FROM subscriptions
		WHERE user_id = $1 AND category_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, userID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	return requireRowsAffected(result, "subscription")
}

func (r *userRepository) ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]*model.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.description, c.color, c.active,
		       c.created_at, c.updated_at
		FROM categories c
		JOIN subscriptions s ON c.id = s.category_id
		WHERE s.user_id = $1 AND c.deleted_at IS NULL
		ORDER BY c.name
	`

	var categories []*model.Category
	if err := r.db.SelectContext(ctx, &categories, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return categories, nil
}
