package domain

import "time"

// Sweet is the inventory item managed by the shop.
//
// Invariants: name is unique across all sweets (backed by the unique index,
// the source of truth under concurrent writes) and quantity never drops
// below zero (enforced by the conditional atomic decrement in the store).
type Sweet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:120;not null" json:"name"`
	Category  string    `gorm:"size:80;not null" json:"category"`
	Price     float64   `gorm:"not null" json:"price"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
