package models

import "gorm.io/gorm"

// OrderItem snapshots the price at the time of order. It is created inside
// the placement transaction and never mutated afterwards.
type OrderItem struct {
	gorm.Model
	OrderID    uint `gorm:"not null"`
	MenuItemID uint `gorm:"not null"`
	MenuItem   MenuItem
	Quantity   uint    `gorm:"not null"`
	Price      float64 `gorm:"not null"`
}
