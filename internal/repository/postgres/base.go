package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/newsai/admin-api/internal/model"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// GetDB returns the database instance
func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

// WithTx executes a function within a transaction
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// listClause accumulates WHERE conditions and args for dynamic list queries
type listClause struct {
	conds []string
	args  []interface{}
}

func newListClause() *listClause {
	return &listClause{conds: []string{"deleted_at IS NULL"}}
}

func (c *listClause) add(cond string, arg interface{}) {
	c.args = append(c.args, arg)
	c.conds = append(c.conds, fmt.Sprintf(cond, len(c.args)))
}

// addSearch adds a case-insensitive LIKE over the given columns
func (c *listClause) addSearch(search string, columns ...string) {
	if search == "" {
		return
	}
	c.args = append(c.args, "%"+strings.ToLower(search)+"%")
	n := len(c.args)
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, fmt.Sprintf("LOWER(%s) LIKE $%d", col, n))
	}
	c.conds = append(c.conds, "("+strings.Join(parts, " OR ")+")")
}

func (c *listClause) where() string {
	return " WHERE " + strings.Join(c.conds, " AND ")
}

// orderBy builds an ORDER BY clause against a column whitelist. Unknown or
// empty fields fall back to created_at so operator input never reaches SQL.
func orderBy(sort model.SortOrder, allowed map[string]string) string {
	col, ok := allowed[sort.Field]
	if !ok {
		col = "created_at"
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, sort.Direction())
}

func paginate(p model.Pagination) string {
	return fmt.Sprintf(" LIMIT %d OFFSET %d", p.PageSize, p.Offset())
}

// bulkResult returns affected rows for a bulk statement over an id array
func (r *BaseRepository) bulkExec(ctx context.Context, query string, ids []uuid.UUID, extra ...interface{}) (int, error) {
	args := append([]interface{}{pq.Array(ids)}, extra...)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}
