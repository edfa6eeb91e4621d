package model

import (
	"time"

	"github.com/google/uuid"
)

type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusReview    ArticleStatus = "review"
	ArticleStatusPublished ArticleStatus = "published"
	ArticleStatusArchived  ArticleStatus = "archived"
	ArticleStatusBlocked   ArticleStatus = "blocked"
)

// ValidArticleStatus reports whether s belongs to the closed status set
func ValidArticleStatus(s ArticleStatus) bool {
	switch s {
	case ArticleStatusDraft, ArticleStatusReview, ArticleStatusPublished,
		ArticleStatusArchived, ArticleStatusBlocked:
		return true
	}
	return false
}

type Article struct {
	Base
	Title       string        `json:"title" db:"title"`
	Slug        string        `json:"slug" db:"slug"`
	Summary     string        `json:"summary" db:"summary"`
	Content     string        `json:"content" db:"content"`
	CategoryID  *uuid.UUID    `json:"category_id,omitempty" db:"category_id"`
	AuthorID    uuid.UUID     `json:"author_id" db:"author_id"`
	Status      ArticleStatus `json:"status" db:"status"`
	Featured    bool          `json:"featured" db:"featured"`
	Breaking    bool          `json:"breaking" db:"breaking"`
	Views       int           `json:"views" db:"views"`
	Likes       int           `json:"likes" db:"likes"`
	PublishedAt *time.Time    `json:"published_at,omitempty" db:"published_at"`
}

// ArticleFilter constrains the admin article list
type ArticleFilter struct {
	ListFilter
	CategoryID *uuid.UUID `form:"category"`
	AuthorID   *uuid.UUID `form:"author"`
	Featured   *bool      `form:"featured"`
}

type CreateArticleRequest struct {
	Title      string     `json:"title" binding:"required,min=3,max=200"`
	Summary    string     `json:"summary" binding:"max=500"`
	Content    string     `json:"content" binding:"required"`
	CategoryID *uuid.UUID `json:"category_id"`
	Featured   bool       `json:"featured"`
	Breaking   bool       `json:"breaking"`
}

type UpdateArticleRequest struct {
	Title      *string    `json:"title" binding:"omitempty,min=3,max=200"`
	Summary    *string    `json:"summary" binding:"omitempty,max=500"`
	Content    *string    `json:"content"`
	CategoryID *uuid.UUID `json:"category_id"`
	Featured   *bool      `json:"featured"`
	Breaking   *bool      `json:"breaking"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,articlestatus"`
}

type BulkRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

type BulkStatusRequest struct {
	IDs    []uuid.UUID `json:"ids" binding:"required,min=1"`
	Status string      `json:"status" binding:"required,articlestatus"`
}
