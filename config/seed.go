package config

import (
	"gorm.io/gorm"

	"khabee/models"
)

// SeedDatabase creates a sample owner, three kitchens and their menus.
// Safe to run more than once.
func SeedDatabase(db *gorm.DB) error {
	owner := models.User{
		Phone: "+8801234567890",
		Name:  "Sample Owner",
		Email: "owner@khabee.com",
		Role:  models.RoleKitchenOwner,
	}
	if err := db.Where("phone = ?", owner.Phone).FirstOrCreate(&owner).Error; err != nil {
		return err
	}

	kitchens := []models.Kitchen{
		{
			OwnerID:     owner.ID,
			Name:        "Ammi's Kitchen",
			Description: "Authentic home-cooked Bangladeshi meals",
			Logo:        "🏠",
			Address:     "123 Gulshan Avenue, Dhaka",
		},
		{
			OwnerID:     owner.ID,
			Name:        "Burger Haven",
			Description: "Juicy burgers and crispy fries",
			Logo:        "🍔",
			Address:     "456 Dhanmondi Road, Dhaka",
		},
		{
			OwnerID:     owner.ID,
			Name:        "Pasta Paradise",
			Description: "Italian pasta dishes made with love",
			Logo:        "🍝",
			Address:     "789 Banani Street, Dhaka",
		},
	}

	menu := []models.MenuItem{
		{
			Name:        "Chicken Biryani",
			Price:       250.00,
			Description: "Fragrant basmati rice with tender chicken and spices",
			Image:       "https://via.placeholder.com/300x200?text=Chicken+Biryani",
		},
		{
			Name:        "Beef Burger",
			Price:       180.00,
			Description: "Juicy beef patty with lettuce, tomato, and special sauce",
			Image:       "https://via.placeholder.com/300x200?text=Beef+Burger",
		},
		{
			Name:        "Carbonara Pasta",
			Price:       220.00,
			Description: "Creamy pasta with bacon, eggs, and parmesan cheese",
			Image:       "https://via.placeholder.com/300x200?text=Carbonara+Pasta",
		},
		{
			Name:        "Chocolate Cake",
			Price:       120.00,
			Description: "Rich chocolate cake with vanilla frosting",
			Image:       "https://via.placeholder.com/300x200?text=Chocolate+Cake",
		},
	}

	for _, kitchen := range kitchens {
		if err := db.Where("owner_id = ? AND name = ?", owner.ID, kitchen.Name).
			FirstOrCreate(&kitchen).Error; err != nil {
			return err
		}

		for _, item := range menu {
			item.KitchenID = kitchen.ID
			if err := db.Where("kitchen_id = ? AND name = ?", kitchen.ID, item.Name).
				FirstOrCreate(&item).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
