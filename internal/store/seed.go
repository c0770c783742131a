package store

import "github.com/jeyasuryak/chai-fi/internal/core"

// DefaultUsers are the accounts seeded into an empty backend.
func DefaultUsers() []core.User {
	return []core.User{
		{Username: "Inowara", Password: "Inowara@2025"},
		{Username: "Chai-fi", Password: "Chai-fi@2025"},
	}
}

// DefaultMenuItems are the menu items seeded into an empty backend.
func DefaultMenuItems() []core.MenuItem {
	return []core.MenuItem{
		{
			Name:        "Masala Chai",
			Description: "Traditional spiced tea",
			Price:       "25.00",
			Category:    "Tea",
			Image:       "https://images.unsplash.com/photo-1571934811356-5cc061b6821f?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=250",
			Available:   true,
		},
		{
			Name:        "Green Tea",
			Description: "Healthy herbal tea",
			Price:       "30.00",
			Category:    "Tea",
			Image:       "https://images.unsplash.com/photo-1556909114-f6e7ad7d3136?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=250",
			Available:   true,
		},
		{
			Name:        "Cappuccino",
			Description: "Rich coffee with foam",
			Price:       "80.00",
			Category:    "Coffee",
			Image:       "https://images.unsplash.com/photo-1509042239860-f550ce710b93?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=250",
			Available:   true,
		},
		{
			Name:        "Black Coffee",
			Description: "Strong black coffee",
			Price:       "50.00",
			Category:    "Coffee",
			Image:       "https://images.unsplash.com/photo-1447933601403-0c6688de566e?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=250",
			Available:   true,
		},
		{
			Name:        "Samosa",
			Description: "Crispy fried snack",
			Price:       "20.00",
			Category:    "Snacks",
			Image:       "https://images.unsplash.com/photo-1601050690597-df0568f70950?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=250",
			Available:   true,
		},
		{
			Name:        "Veg Sandwich",
			Description: "Fresh vegetable sandwich",
			Price:       "60.00",
			Category:    "Snacks",
			Image:       "https://images.unsplash.com/photo-1509722747041-616f39b57569?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=250",
			Available:   true,
		},
		{
			Name:        "Orange Juice",
			Description: "Fresh squeezed orange",
			Price:       "40.00",
			Category:    "Beverages",
			Image:       "https://images.unsplash.com/photo-1621506289937-a8e4df240d0b?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=250",
			Available:   true,
		},
		{
			Name:        "Mango Lassi",
			Description: "Sweet yogurt drink",
			Price:       "45.00",
			Category:    "Beverages",
			Image:       "https://images.unsplash.com/photo-1571091718767-18b5b1457add?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=250",
			Available:   true,
		},
	}
}
