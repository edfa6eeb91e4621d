package model

type Category struct {
	Base
	Name         string `json:"name" db:"name"`
	Slug         string `json:"slug" db:"slug"`
	Description  string `json:"description" db:"description"`
	Color        string `json:"color" db:"color"`
	Active       bool   `json:"active" db:"active"`
	ArticleCount int    `json:"article_count" db:"article_count"`
}

// CategoryFilter constrains the admin category list
type CategoryFilter struct {
	ListFilter
	Active *bool `form:"active"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=80"`
	Description string `json:"description" binding:"max=300"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=80"`
	Description *string `json:"description" binding:"omitempty,max=300"`
	Color       *string `json:"color" binding:"omitempty,hexcolor"`
	Active      *bool   `json:"active"`
}
