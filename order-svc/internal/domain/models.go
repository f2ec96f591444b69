package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Role           Role      `json:"role"`
	TelegramChatID string    `json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID int64
	Role   Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type Restaurant struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	ImageURL     string   `json:"image_url"`
	Rating       float64  `json:"rating"`
	DeliveryTime string   `json:"delivery_time"`
	DeliveryFee  Money    `json:"delivery_fee"`
	MinOrder     Money    `json:"min_order"`
	Categories   []string `json:"categories"`
	IsActive     bool     `json:"is_active"`
}

type Dish struct {
	ID           int64  `json:"id"`
	RestaurantID int64  `json:"restaurant_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Price        Money  `json:"price"`
	ImageURL     string `json:"image_url"`
	IsAvailable  bool   `json:"is_available"`
	IsVegetarian bool   `json:"is_vegetarian"`
	IsSpicy      bool   `json:"is_spicy"`
}

// DishUpdate carries the fields an admin wants to change; nil means unchanged.
type DishUpdate struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Price        *Money  `json:"price"`
	ImageURL     *string `json:"image_url"`
	IsAvailable  *bool   `json:"is_available"`
	IsVegetarian *bool   `json:"is_vegetarian"`
	IsSpicy      *bool   `json:"is_spicy"`
}

func (u DishUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.ImageURL == nil &&
		u.IsAvailable == nil && u.IsVegetarian == nil && u.IsSpicy == nil
}

// Order is the composite order: the header snapshot plus its line items.
type Order struct {
	ID              string      `json:"id"`
	UserID          int64       `json:"user_id,omitempty"`
	RestaurantID    int64       `json:"restaurant_id,omitempty"`
	RestaurantName  string      `json:"restaurant_name"`
	RestaurantImage string      `json:"restaurant_image"`
	OrderDate       time.Time   `json:"order_date"`
	TotalAmount     Money       `json:"total_amount"`
	Status          OrderStatus `json:"status"`
	DeliveryAddress string      `json:"delivery_address"`
	PaymentMethod   string      `json:"payment_method"`
	CustomerName    string      `json:"customer_name,omitempty"`
	CustomerPhone   string      `json:"customer_phone,omitempty"`
	Items           []OrderItem `json:"items"`
}

// OrderItem fields are copied from the dish when the order is placed and never change afterwards.
type OrderItem struct {
	DishID          int64  `json:"dish_id"`
	DishName        string `json:"dish_name"`
	DishPrice       Money  `json:"dish_price"`
	Quantity        int    `json:"quantity"`
	DishImage       string `json:"dish_image"`
	DishDescription string `json:"dish_description,omitempty"`
}

// RawItem is a line item exactly as the client sent it.
type RawItem map[string]any

type CreateOrderRequest struct {
	RestaurantID    FlexID    `json:"restaurant_id"`
	RestaurantName  string    `json:"restaurant_name"`
	RestaurantImage string    `json:"restaurant_image"`
	Items           []RawItem `json:"items"`
	DeliveryAddress string    `json:"delivery_address"`
	PaymentMethod   string    `json:"payment_method"`
	CustomerName    string    `json:"customer_name"`
	CustomerPhone   string    `json:"customer_phone"`
}

// FlexID accepts an identifier sent either as a JSON number or as a string.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err == nil {
		*f = FlexID(number.String())
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("id must be a number or string: %w", err)
	}
	*f = FlexID(strings.TrimSpace(text))
	return nil
}

func (f FlexID) Empty() bool {
	return strings.TrimSpace(string(f)) == ""
}

func (f FlexID) Int64() (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(string(f)), 10, 64)
}

type UserStats struct {
	OrderCount  int        `json:"order_count"`
	TotalSpent  Money      `json:"total_spent"`
	LastOrderAt *time.Time `json:"last_order_at,omitempty"`
}

type GlobalStats struct {
	Users    int            `json:"users"`
	Orders   int            `json:"orders"`
	Revenue  Money          `json:"revenue"`
	ByStatus map[string]int `json:"by_status"`
}

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
)

type OrderEvent struct {
	Type         string      `json:"type"`
	OrderID      string      `json:"order_id"`
	UserID       int64       `json:"user_id"`
	RestaurantID int64       `json:"restaurant_id"`
	Status       OrderStatus `json:"status"`
	TotalAmount  Money       `json:"total_amount"`
	Timestamp    time.Time   `json:"timestamp"`
}
