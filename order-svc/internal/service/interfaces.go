package service

import (
	"context"

	"quickbite/order-svc/internal/domain"
	"quickbite/order-svc/internal/notify"
)

type OrderStore interface {
	CreateOrder(ctx context.Context, header *domain.Order) (string, error)
	AddLineItem(ctx context.Context, orderID string, item domain.OrderItem) error
	ReadComposite(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrdersForUser(ctx context.Context, userID int64, limit int) ([]domain.Order, error)
	ListAllOrders(ctx context.Context, limit int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
	SaveQRCode(ctx context.Context, orderID string, qr []byte) error
	GetQRCode(ctx context.Context, orderID string) ([]byte, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	UserChannel(ctx context.Context, userID int64) (string, error)
	UserStats(ctx context.Context, userID int64) (domain.UserStats, error)
	GlobalStats(ctx context.Context) (domain.GlobalStats, error)
}

type CatalogStore interface {
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error)
	ListDishes(ctx context.Context, restaurantID int64) ([]domain.Dish, error)
	ToggleDishAvailability(ctx context.Context, dishID int64) (*domain.Dish, error)
	UpdateDish(ctx context.Context, dishID int64, update domain.DishUpdate) (*domain.Dish, error)
}

type AccountStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID int64, hash string) error
}

type CatalogCache interface {
	GetRestaurants(ctx context.Context) ([]domain.Restaurant, bool, error)
	SetRestaurants(ctx context.Context, restaurants []domain.Restaurant) error
	GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, bool, error)
	SetRestaurant(ctx context.Context, rest *domain.Restaurant) error
	GetDishes(ctx context.Context, restaurantID int64) ([]domain.Dish, bool, error)
	SetDishes(ctx context.Context, restaurantID int64, dishes []domain.Dish) error
	InvalidateDishes(ctx context.Context, restaurantID int64) error
}

type Notifier interface {
	NotifyOrder(summary notify.OrderSummary)
	NotifyStatus(chatID string, order domain.Order)
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type TokenIssuer interface {
	Issue(userID int64, role domain.Role) (string, error)
}

type RestaurantLookup interface {
	GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error)
}

type OrderServiceInterface interface {
	Create(ctx context.Context, caller domain.Identity, req domain.CreateOrderRequest) (*OrderResult, error)
	Get(ctx context.Context, caller domain.Identity, orderID string) (*domain.Order, error)
	GetComposite(ctx context.Context, orderID string) (*domain.Order, error)
	ListForUser(ctx context.Context, caller domain.Identity, limit int) ([]domain.Order, error)
	ListAll(ctx context.Context, limit int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) (*OrderResult, error)
	QRCode(ctx context.Context, orderID string) ([]byte, error)
	UserStats(ctx context.Context, caller domain.Identity) (domain.UserStats, error)
	GlobalStats(ctx context.Context) (domain.GlobalStats, error)
}

type CatalogServiceInterface interface {
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error)
	ListDishes(ctx context.Context, restaurantID int64) ([]domain.Dish, error)
	ToggleDish(ctx context.Context, dishID int64) (*domain.Dish, error)
	UpdateDish(ctx context.Context, dishID int64, update domain.DishUpdate) (*domain.Dish, error)
}

type AccountServiceInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Me(ctx context.Context, caller domain.Identity) (*domain.User, error)
	ChangePassword(ctx context.Context, caller domain.Identity, current, next string) error
}

var (
	_ OrderServiceInterface   = (*OrderService)(nil)
	_ CatalogServiceInterface = (*CatalogService)(nil)
	_ AccountServiceInterface = (*AccountService)(nil)
)
