package service

import (
	"quickbite/order-svc/internal/domain"
)

// The fallback catalog is served while storage is unreachable so the storefront keeps rendering.

func FallbackRestaurants() []domain.Restaurant {
	return []domain.Restaurant{
		{
			ID:           1,
			Name:         "Pizza Palace",
			Description:  "Wood-fired pizza and pasta",
			ImageURL:     "/images/restaurants/pizza-palace.jpg",
			Rating:       4.7,
			DeliveryTime: "25-35 min",
			DeliveryFee:  domain.MustMoney("99.00"),
			MinOrder:     domain.MustMoney("500.00"),
			Categories:   []string{"pizza", "italian"},
			IsActive:     true,
		},
		{
			ID:           2,
			Name:         "Sushi Bar",
			Description:  "Rolls, nigiri and bowls",
			ImageURL:     "/images/restaurants/sushi-bar.jpg",
			Rating:       4.5,
			DeliveryTime: "35-45 min",
			DeliveryFee:  domain.MustMoney("149.00"),
			MinOrder:     domain.MustMoney("800.00"),
			Categories:   []string{"sushi", "japanese"},
			IsActive:     true,
		},
	}
}

func fallbackRestaurant(id int64) (*domain.Restaurant, bool) {
	for _, rest := range FallbackRestaurants() {
		if rest.ID == id {
			return &rest, true
		}
	}
	return nil, false
}

func FallbackDishes(restaurantID int64) []domain.Dish {
	all := []domain.Dish{
		{ID: 1, RestaurantID: 1, Name: "Margherita", Description: "Tomato, mozzarella, basil",
			Price: domain.MustMoney("599.00"), ImageURL: "/images/dishes/margherita.jpg", IsAvailable: true, IsVegetarian: true},
		{ID: 2, RestaurantID: 1, Name: "Pepperoni", Description: "Spicy salami, mozzarella",
			Price: domain.MustMoney("699.00"), ImageURL: "/images/dishes/pepperoni.jpg", IsAvailable: true, IsSpicy: true},
		{ID: 3, RestaurantID: 1, Name: "Carbonara", Description: "Spaghetti, guanciale, egg",
			Price: domain.MustMoney("549.00"), ImageURL: "/images/dishes/carbonara.jpg", IsAvailable: true},
		{ID: 4, RestaurantID: 2, Name: "Philadelphia roll", Description: "Salmon, cream cheese, cucumber",
			Price: domain.MustMoney("749.00"), ImageURL: "/images/dishes/philadelphia.jpg", IsAvailable: true},
		{ID: 5, RestaurantID: 2, Name: "Avocado maki", Description: "Avocado, rice, nori",
			Price: domain.MustMoney("329.00"), ImageURL: "/images/dishes/avocado-maki.jpg", IsAvailable: true, IsVegetarian: true},
	}
	dishes := make([]domain.Dish, 0, len(all))
	for _, dish := range all {
		if dish.RestaurantID == restaurantID {
			dishes = append(dishes, dish)
		}
	}
	return dishes
}

// ExampleGlobalStats is shown on the admin dashboard when no real numbers are available. The figures
// are illustrative and consistent: the status counts add up to Orders.
func ExampleGlobalStats() domain.GlobalStats {
	return domain.GlobalStats{
		Users:   150,
		Orders:  1234,
		Revenue: domain.MustMoney("45678.90"),
		ByStatus: map[string]int{
			string(domain.StatusPending):    12,
			string(domain.StatusPreparing):  8,
			string(domain.StatusDelivering): 5,
			string(domain.StatusDelivered):  1189,
			string(domain.StatusCancelled):  20,
		},
	}
}
