package models

import "time"

const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
	TableReserved  = "reserved"
)

type Table struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Number    string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"number"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	Status    string    `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// ValidTableStatus reports whether s is one of the known occupancy states.
func ValidTableStatus(s string) bool {
	return s == TableAvailable || s == TableOccupied || s == TableReserved
}
