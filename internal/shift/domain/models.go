// Package domain holds the shift records billing reads. Shifts are owned by
// the scheduling subsystem; this engine never mutates them.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Shift is one worked interval. StartTime and EndTime are local clock times in
// HH:MM; an end before the start means the shift runs past midnight.
type Shift struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	LocationID int64        `gorm:"not null;index" json:"location_id"`
	EmployeeID int64        `gorm:"not null;index" json:"employee_id"`
	Date       time.Time    `gorm:"not null;index" json:"date"`
	StartTime  string       `gorm:"type:text;not null" json:"start_time"`
	EndTime    string       `gorm:"type:text;not null" json:"end_time"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Shift) TableName() string { return "shifts" }
