package models

import "time"

// WorkingHoursBlock is one declared availability window on one day.
type WorkingHoursBlock struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	StaffMemberID uint `gorm:"index:idx_working_hours_staff_start;not null" json:"staff_member_id"`

	StartTime time.Time `gorm:"index:idx_working_hours_staff_start;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	StaffEditable bool `gorm:"default:false" json:"staff_editable"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
