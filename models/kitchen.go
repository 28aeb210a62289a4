package models

import "gorm.io/gorm"

type Kitchen struct {
	gorm.Model
	OwnerID     uint `gorm:"not null"`
	Owner       User `gorm:"foreignKey:OwnerID"`
	Name        string `gorm:"not null"`
	Description string
	Logo        string
	Address     string
	MenuItems   []MenuItem
	Orders      []Order
}
