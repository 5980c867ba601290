package models

import "time"

type Business struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OwnerID uint   `gorm:"index" json:"owner_id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Slug    string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	// Added to the footprint of at-home bookings.
	TravelBufferMin   int  `gorm:"default:30" json:"travel_buffer_min"`
	MinAdvanceMinutes int  `gorm:"default:0" json:"min_advance_minutes"`
	Active            bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Business) TravelBuffer() time.Duration {
	return time.Duration(b.TravelBufferMin) * time.Minute
}

func (b *Business) MinAdvance() time.Duration {
	return time.Duration(b.MinAdvanceMinutes) * time.Minute
}
