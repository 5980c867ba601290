package models

import "time"

const (
	LocationLocal    = "LOCAL"
	LocationDelivery = "DELIVERY"
	LocationBoth     = "BOTH"
)

type Service struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index;not null" json:"business_id"`

	Name         string  `gorm:"size:100;not null" json:"name"`
	Description  string  `gorm:"size:255" json:"description"`
	DurationMin  int     `gorm:"not null" json:"duration_min"`
	Price        float64 `gorm:"type:numeric(10,2)" json:"price"`
	LocationType string  `gorm:"size:10;default:'LOCAL'" json:"location_type"`
	Active       bool    `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMin) * time.Minute
}
