package model

import "time"

type AdStatus string

const (
	AdStatusPending  AdStatus = "pending"
	AdStatusApproved AdStatus = "approved"
	AdStatusRejected AdStatus = "rejected"
	AdStatusActive   AdStatus = "active"
	AdStatusPaused   AdStatus = "paused"
)

// ValidAdStatus reports whether s belongs to the closed status set
func ValidAdStatus(s AdStatus) bool {
	switch s {
	case AdStatusPending, AdStatusApproved, AdStatusRejected,
		AdStatusActive, AdStatusPaused:
		return true
	}
	return false
}

type Advertisement struct {
	Base
	Name        string     `json:"name" db:"name"`
	Advertiser  string     `json:"advertiser" db:"advertiser"`
	Placement   string     `json:"placement" db:"placement"`
	TargetURL   string     `json:"target_url" db:"target_url"`
	ImageURL    string     `json:"image_url" db:"image_url"`
	Status      AdStatus   `json:"status" db:"status"`
	Spend       float64    `json:"spend" db:"spend"`
	Impressions int        `json:"impressions" db:"impressions"`
	Clicks      int        `json:"clicks" db:"clicks"`
	StartsAt    *time.Time `json:"starts_at,omitempty" db:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty" db:"ends_at"`
}

// AdFilter constrains the admin advertisement list
type AdFilter struct {
	ListFilter
	Placement  string `form:"placement"`
	Advertiser string `form:"advertiser"`
}

type CreateAdRequest struct {
	Name       string     `json:"name" binding:"required,min=2,max=120"`
	Advertiser string     `json:"advertiser" binding:"required,min=2,max=120"`
	Placement  string     `json:"placement" binding:"required"`
	TargetURL  string     `json:"target_url" binding:"required,url"`
	ImageURL   string     `json:"image_url" binding:"omitempty,url"`
	StartsAt   *time.Time `json:"starts_at"`
	EndsAt     *time.Time `json:"ends_at"`
}

type ChangeAdStatusRequest struct {
	Status string `json:"status" binding:"required,adstatus"`
}

type UpdateAdRequest struct {
	Name       *string    `json:"name" binding:"omitempty,min=2,max=120"`
	Advertiser *string    `json:"advertiser" binding:"omitempty,min=2,max=120"`
	Placement  *string    `json:"placement"`
	TargetURL  *string    `json:"target_url" binding:"omitempty,url"`
	ImageURL   *string    `json:"image_url" binding:"omitempty,url"`
	StartsAt   *time.Time `json:"starts_at"`
	EndsAt     *time.Time `json:"ends_at"`
}
