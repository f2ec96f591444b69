package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"quickbite/order-svc/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

const orderColumns = `id, user_id, COALESCE(restaurant_id, 0), COALESCE(restaurant_name, ''), COALESCE(restaurant_image, ''),
	created_at, total_amount, status, COALESCE(delivery_address, ''), COALESCE(payment_method, ''),
	COALESCE(customer_name, ''), COALESCE(customer_phone, '')`

const dishColumns = `id, restaurant_id, name, COALESCE(description, ''), price, COALESCE(image_url, ''),
	is_available, is_vegetarian, is_spicy`

type rowScanner interface {
	Scan(dest ...any) error
}

func parseOrderID(id string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("order %q: %w", id, domain.ErrNotFound)
	}
	return parsed, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	var one int
	return r.DB.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, header *domain.Order) (string, error) {
	var id int64
	if err := r.DB.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, restaurant_id, restaurant_name, restaurant_image, total_amount, status,
			delivery_address, payment_method, customer_name, customer_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`, header.UserID, header.RestaurantID, header.RestaurantName, header.RestaurantImage, header.TotalAmount.Decimal,
		string(header.Status), header.DeliveryAddress, header.PaymentMethod, header.CustomerName, header.CustomerPhone).
		Scan(&id, &header.OrderDate); err != nil {
		return "", err
	}
	header.ID = strconv.FormatInt(id, 10)
	return header.ID, nil
}

func (r *PostgresRepository) AddLineItem(ctx context.Context, orderID string, item domain.OrderItem) error {
	id, err := parseOrderID(orderID)
	if err != nil {
		return err
	}
	var dishID sql.NullInt64
	if item.DishID > 0 {
		dishID = sql.NullInt64{Int64: item.DishID, Valid: true}
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO order_items (order_id, dish_id, dish_name, dish_price, quantity, dish_image)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, dishID, item.DishName, item.DishPrice.Decimal, item.Quantity, item.DishImage)
	return err
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order  domain.Order
		id     int64
		status string
	)
	if err := row.Scan(&id, &order.UserID, &order.RestaurantID, &order.RestaurantName, &order.RestaurantImage,
		&order.OrderDate, &order.TotalAmount, &status, &order.DeliveryAddress, &order.PaymentMethod,
		&order.CustomerName, &order.CustomerPhone); err != nil {
		return nil, err
	}
	order.ID = strconv.FormatInt(id, 10)
	order.Status = domain.OrderStatus(status)
	return &order, nil
}

func (r *PostgresRepository) readItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT COALESCE(oi.dish_id, 0), COALESCE(oi.dish_name, d.name, ''), COALESCE(oi.dish_price, d.price, 0),
			oi.quantity, COALESCE(oi.dish_image, d.image_url, ''), COALESCE(d.description, '')
		FROM order_items oi
		LEFT JOIN dishes d ON oi.dish_id = d.id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.DishID, &item.DishName, &item.DishPrice, &item.Quantity, &item.DishImage,
			&item.DishDescription); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ReadComposite joins the order header with its line items. Items whose dish has since been removed
// are still returned from their snapshot columns.
func (r *PostgresRepository) ReadComposite(ctx context.Context, orderID string) (*domain.Order, error) {
	id, err := parseOrderID(orderID)
	if err != nil {
		return nil, err
	}
	order, err := scanOrder(r.DB.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if err != nil {
		return nil, notFound(err, "order "+orderID)
	}
	if order.Items, err = r.readItems(ctx, id); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *PostgresRepository) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range orders {
		id, _ := strconv.ParseInt(orders[i].ID, 10, 64)
		items, err := r.readItems(ctx, id)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *PostgresRepository) ListOrdersForUser(ctx context.Context, userID int64, limit int) ([]domain.Order, error) {
	return r.listOrders(ctx, "SELECT "+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
}

func (r *PostgresRepository) ListAllOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	return r.listOrders(ctx, "SELECT "+orderColumns+`
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1`, limit)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	id, err := parseOrderID(orderID)
	if err != nil {
		return nil, err
	}
	order, err := scanOrder(r.DB.QueryRowContext(ctx,
		"UPDATE orders SET status = $1 WHERE id = $2 RETURNING "+orderColumns, string(status), id))
	if err != nil {
		return nil, notFound(err, "order "+orderID)
	}
	if order.Items, err = r.readItems(ctx, id); err != nil {
		return nil, err
	}
	return order, nil
}

func scanDish(row rowScanner) (*domain.Dish, error) {
	var dish domain.Dish
	if err := row.Scan(&dish.ID, &dish.RestaurantID, &dish.Name, &dish.Description, &dish.Price, &dish.ImageURL,
		&dish.IsAvailable, &dish.IsVegetarian, &dish.IsSpicy); err != nil {
		return nil, err
	}
	return &dish, nil
}

func (r *PostgresRepository) ToggleDishAvailability(ctx context.Context, dishID int64) (*domain.Dish, error) {
	dish, err := scanDish(r.DB.QueryRowContext(ctx,
		"UPDATE dishes SET is_available = NOT is_available WHERE id = $1 RETURNING "+dishColumns, dishID))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("dish %d", dishID))
	}
	return dish, nil
}

func (r *PostgresRepository) UpdateDish(ctx context.Context, dishID int64, update domain.DishUpdate) (*domain.Dish, error) {
	var price any
	if update.Price != nil {
		price = update.Price.Decimal
	}
	dish, err := scanDish(r.DB.QueryRowContext(ctx, `
		UPDATE dishes
		SET name = COALESCE($1, name),
			description = COALESCE($2, description),
			price = COALESCE($3, price),
			image_url = COALESCE($4, image_url),
			is_available = COALESCE($5, is_available),
			is_vegetarian = COALESCE($6, is_vegetarian),
			is_spicy = COALESCE($7, is_spicy)
		WHERE id = $8
		RETURNING `+dishColumns,
		nullString(update.Name), nullString(update.Description), price, nullString(update.ImageURL),
		nullBool(update.IsAvailable), nullBool(update.IsVegetarian), nullBool(update.IsSpicy), dishID))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("dish %d", dishID))
	}
	return dish, nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullBool(value *bool) sql.NullBool {
	if value == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *value, Valid: true}
}

func (r *PostgresRepository) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), COALESCE(image_url, ''), COALESCE(rating, 0),
			COALESCE(delivery_time, ''), COALESCE(delivery_fee, 0), COALESCE(min_order, 0), categories, is_active
		FROM restaurants
		WHERE is_active
		ORDER BY rating DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restaurants := []domain.Restaurant{}
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		restaurants = append(restaurants, *rest)
	}
	return restaurants, rows.Err()
}

func scanRestaurant(row rowScanner) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	if err := row.Scan(&rest.ID, &rest.Name, &rest.Description, &rest.ImageURL, &rest.Rating, &rest.DeliveryTime,
		&rest.DeliveryFee, &rest.MinOrder, pq.Array(&rest.Categories), &rest.IsActive); err != nil {
		return nil, err
	}
	if rest.Categories == nil {
		rest.Categories = []string{}
	}
	return &rest, nil
}

func (r *PostgresRepository) GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error) {
	rest, err := scanRestaurant(r.DB.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(description, ''), COALESCE(image_url, ''), COALESCE(rating, 0),
			COALESCE(delivery_time, ''), COALESCE(delivery_fee, 0), COALESCE(min_order, 0), categories, is_active
		FROM restaurants
		WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("restaurant %d", id))
	}
	return rest, nil
}

func (r *PostgresRepository) ListDishes(ctx context.Context, restaurantID int64) ([]domain.Dish, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+dishColumns+`
		FROM dishes
		WHERE restaurant_id = $1
		ORDER BY id`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dishes := []domain.Dish{}
	for rows.Next() {
		dish, err := scanDish(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dish: %w", err)
		}
		dishes = append(dishes, *dish)
	}
	return dishes, rows.Err()
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, name, phone, role, telegram_chat_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id, created_at
	`, user.Email, user.PasswordHash, user.Name, user.Phone, string(user.Role), user.TelegramChatID).
		Scan(&user.ID, &user.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("user %s: %w", user.Email, domain.ErrConflict)
	}
	return err
}

const userColumns = `id, email, password_hash, COALESCE(name, ''), COALESCE(phone, ''), role,
	COALESCE(telegram_chat_id, ''), created_at`

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user domain.User
		role string
	)
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Phone, &role,
		&user.TelegramChatID, &user.CreatedAt); err != nil {
		return nil, err
	}
	user.Role = domain.Role(role)
	return &user, nil
}

func (r *PostgresRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("user %d", id))
	}
	return user, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE lower(email) = lower($1)", email))
	if err != nil {
		return nil, notFound(err, "user "+email)
	}
	return user, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, userID int64, hash string) error {
	result, err := r.DB.ExecContext(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", hash, userID)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	return nil
}

// UserChannel returns the user's external notification channel, or "" when none is registered.
func (r *PostgresRepository) UserChannel(ctx context.Context, userID int64) (string, error) {
	var channel sql.NullString
	err := r.DB.QueryRowContext(ctx, "SELECT telegram_chat_id FROM users WHERE id = $1", userID).Scan(&channel)
	if err != nil {
		return "", notFound(err, fmt.Sprintf("user %d", userID))
	}
	return strings.TrimSpace(channel.String), nil
}

func (r *PostgresRepository) UserStats(ctx context.Context, userID int64) (domain.UserStats, error) {
	var (
		stats domain.UserStats
		last  sql.NullTime
	)
	if err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0), MAX(created_at)
		FROM orders
		WHERE user_id = $1 AND status <> 'cancelled'
	`, userID).Scan(&stats.OrderCount, &stats.TotalSpent, &last); err != nil {
		return domain.UserStats{}, err
	}
	if last.Valid {
		stats.LastOrderAt = &last.Time
	}
	return stats, nil
}

func (r *PostgresRepository) GlobalStats(ctx context.Context) (domain.GlobalStats, error) {
	stats := domain.GlobalStats{ByStatus: map[string]int{}}
	if err := r.DB.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM users), COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
	`).Scan(&stats.Users, &stats.Orders, &stats.Revenue); err != nil {
		return domain.GlobalStats{}, err
	}

	rows, err := r.DB.QueryContext(ctx, "SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		return domain.GlobalStats{}, err
	}
	defer rows.Close()
	for _, status := range domain.AllStatuses {
		stats.ByStatus[string(status)] = 0
	}
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return domain.GlobalStats{}, fmt.Errorf("scan status count: %w", err)
		}
		stats.ByStatus[status] = count
	}
	return stats, rows.Err()
}

func (r *PostgresRepository) SaveQRCode(ctx context.Context, orderID string, qr []byte) error {
	id, err := parseOrderID(orderID)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, "UPDATE orders SET qr_code = $1 WHERE id = $2", qr, id)
	return err
}

func (r *PostgresRepository) GetQRCode(ctx context.Context, orderID string) ([]byte, error) {
	id, err := parseOrderID(orderID)
	if err != nil {
		return nil, err
	}
	var qr []byte
	if err := r.DB.QueryRowContext(ctx, "SELECT qr_code FROM orders WHERE id = $1", id).Scan(&qr); err != nil {
		return nil, notFound(err, "order "+orderID)
	}
	return qr, nil
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT,
			phone TEXT,
			role TEXT NOT NULL DEFAULT 'user',
			telegram_chat_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS restaurants (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			image_url TEXT,
			rating NUMERIC(2,1) DEFAULT 0,
			delivery_time TEXT,
			delivery_fee NUMERIC(10,2) DEFAULT 0,
			min_order NUMERIC(10,2) DEFAULT 0,
			categories TEXT[] NOT NULL DEFAULT '{}',
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS dishes (
			id BIGSERIAL PRIMARY KEY,
			restaurant_id BIGINT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT,
			price NUMERIC(10,2) NOT NULL DEFAULT 0,
			image_url TEXT,
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			is_vegetarian BOOLEAN NOT NULL DEFAULT FALSE,
			is_spicy BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			restaurant_id BIGINT,
			restaurant_name TEXT,
			restaurant_image TEXT,
			total_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			delivery_address TEXT NOT NULL,
			payment_method TEXT,
			customer_name TEXT,
			customer_phone TEXT,
			qr_code BYTEA,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id BIGSERIAL PRIMARY KEY,
			order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			dish_id BIGINT,
			dish_name TEXT,
			dish_price NUMERIC(10,2) NOT NULL DEFAULT 0,
			quantity INTEGER NOT NULL DEFAULT 1,
			dish_image TEXT
		)`,
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders (user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id)",
	}
	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return strings.TrimSpace(stmt[:i])
	}
	return stmt
}
