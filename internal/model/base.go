package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Pagination represents common pagination parameters
type Pagination struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"limit" form:"limit"`
}

// DefaultPageSize matches the admin list views
const DefaultPageSize = 15

// Normalize clamps pagination to sane bounds
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// Offset returns the SQL offset for the current page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// SortOrder represents sorting parameters
type SortOrder struct {
	Field string `json:"field" form:"sort_field"`
	Dir   string `json:"direction" form:"sort_dir"`
}

// Direction returns a validated SQL direction keyword
func (s SortOrder) Direction() string {
	if s.Dir == "asc" {
		return "ASC"
	}
	return "DESC"
}

// ListFilter contains the filter fields shared by every admin list view
type ListFilter struct {
	Pagination
	SortOrder
	Search string `json:"search" form:"search"`
	Status string `json:"status" form:"status"`
}

// ListResult is the common shape of an admin list response
type ListResult struct {
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// TotalPagesFor computes ceil(total / pageSize)
func TotalPagesFor(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
