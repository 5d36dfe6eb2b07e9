// Package domain holds the client and location records invoicing needs.
// Full client administration lives elsewhere; billing only reads identity
// fields for the invoice document.
package domain

import (
	"errors"
	"time"
)

type Client struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	KVK       string    `gorm:"type:text" json:"kvk"`
	Address   string    `gorm:"type:text" json:"address"`
	Phone     string    `gorm:"type:text" json:"phone"`
	Email     string    `gorm:"type:text" json:"email"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }

type Location struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	ClientID  int64     `gorm:"not null;index" json:"client_id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Location) TableName() string { return "locations" }

var (
	ErrClientNotFound   = errors.New("client_not_found")
	ErrLocationNotFound = errors.New("location_not_found")
)
