package models

import "time"

type TimeOffBlock struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	StaffMemberID uint `gorm:"index:idx_time_off_staff_start;not null" json:"staff_member_id"`

	StartTime time.Time `gorm:"index:idx_time_off_staff_start;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	Reason    string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
