package models

import "gorm.io/gorm"

const (
	RoleCustomer     = "CUSTOMER"
	RoleKitchenOwner = "KITCHEN_OWNER"
)

type User struct {
	gorm.Model
	Phone       string `gorm:"unique;not null"`
	Name        string
	Email       string
	Role        string    `gorm:"not null"`
	Kitchens    []Kitchen `gorm:"foreignKey:OwnerID"`
	Orders      []Order
	LoginTokens []LoginToken
}
