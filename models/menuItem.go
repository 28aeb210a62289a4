package models

import "gorm.io/gorm"

type MenuItem struct {
	gorm.Model
	KitchenID   uint `gorm:"not null"`
	Kitchen     Kitchen
	Name        string  `gorm:"not null"`
	Price       float64 `gorm:"not null"`
	Description string
	Image       string
}
