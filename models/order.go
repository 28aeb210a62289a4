package models

import "gorm.io/gorm"

// Statuses the clients render specially. The column is an open enumeration:
// unknown values are stored and served untouched, clients fall back to a
// generic style.
const (
	StatusPending        = "PENDING"
	StatusConfirmed      = "CONFIRMED"
	StatusCooking        = "COOKING"
	StatusOutForDelivery = "OUT_FOR_DELIVERY"
	StatusDelivered      = "DELIVERED"
	StatusCancelled      = "CANCELLED"
)

type Order struct {
	gorm.Model
	UserID              uint `gorm:"not null"`
	User                User
	KitchenID           uint `gorm:"not null"`
	Kitchen             Kitchen
	Items               []OrderItem `gorm:"foreignKey:OrderID"`
	TotalPrice          float64     `gorm:"not null"`
	Status              string      `gorm:"not null;default:PENDING"`
	DeliveryAddress     string
	SpecialInstructions string
}
