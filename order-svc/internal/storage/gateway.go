package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"quickbite/order-svc/internal/domain"
)

const DefaultProbeInterval = 30 * time.Second

// Repository is the durable store behind the Gateway.
type Repository interface {
	Ping(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	CreateOrder(ctx context.Context, header *domain.Order) (string, error)
	AddLineItem(ctx context.Context, orderID string, item domain.OrderItem) error
	ReadComposite(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrdersForUser(ctx context.Context, userID int64, limit int) ([]domain.Order, error)
	ListAllOrders(ctx context.Context, limit int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
	SaveQRCode(ctx context.Context, orderID string, qr []byte) error
	GetQRCode(ctx context.Context, orderID string) ([]byte, error)

	ToggleDishAvailability(ctx context.Context, dishID int64) (*domain.Dish, error)
	UpdateDish(ctx context.Context, dishID int64, update domain.DishUpdate) (*domain.Dish, error)
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error)
	ListDishes(ctx context.Context, restaurantID int64) ([]domain.Dish, error)

	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID int64, hash string) error
	UserChannel(ctx context.Context, userID int64) (string, error)
	UserStats(ctx context.Context, userID int64) (domain.UserStats, error)
	GlobalStats(ctx context.Context) (domain.GlobalStats, error)
}

var _ Repository = (*PostgresRepository)(nil)

// Gateway owns the availability state of the durable store. While the store is unreachable every
// operation fails fast with domain.ErrStorageUnavailable so callers can take their fallback path.
// Driver errors never leave the Gateway unclassified.
type Gateway struct {
	repo      Repository
	logger    *zap.Logger
	onRecover func(ctx context.Context) error
	available atomic.Bool
}

type GatewayOption func(*Gateway)

// OnRecover registers work that must succeed before the store is marked available again, such as
// schema setup for a database that came up after the service.
func OnRecover(fn func(ctx context.Context) error) GatewayOption {
	return func(g *Gateway) { g.onRecover = fn }
}

// NewGateway starts out unavailable; call Probe before serving traffic. A nil repository keeps the
// gateway permanently in degraded mode.
func NewGateway(repo Repository, logger *zap.Logger, opts ...GatewayOption) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gateway{repo: repo, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Available() bool {
	return g.repo != nil && g.available.Load()
}

// Probe issues a trivial liveness query and records the outcome.
func (g *Gateway) Probe(ctx context.Context) bool {
	if g.repo == nil {
		return false
	}
	err := g.repo.Ping(ctx)
	if err == nil && !g.available.Load() && g.onRecover != nil {
		if err = g.onRecover(ctx); err != nil {
			g.logger.Error("storage reachable but recovery step failed", zap.Error(err))
		}
	}
	g.setAvailable(err == nil, err)
	return err == nil
}

// Run re-probes the store every interval until ctx is cancelled.
func (g *Gateway) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, interval/2)
			g.Probe(probeCtx)
			cancel()
		}
	}
}

func (g *Gateway) setAvailable(up bool, cause error) {
	was := g.available.Swap(up)
	switch {
	case up && !was:
		g.logger.Info("storage available")
	case !up && was:
		g.logger.Warn("storage unavailable, switching to degraded mode", zap.Error(cause))
	}
}

func isConnectivityError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// check converts repository errors into the domain taxonomy.
func (g *Gateway) check(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrConflict):
		return err
	case isConnectivityError(err):
		g.setAvailable(false, err)
		return fmt.Errorf("%s: %w", op, domain.ErrStorageUnavailable)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (g *Gateway) CreateOrder(ctx context.Context, header *domain.Order) (string, error) {
	if !g.Available() {
		return "", domain.ErrStorageUnavailable
	}
	id, err := g.repo.CreateOrder(ctx, header)
	return id, g.check("create order", err)
}

func (g *Gateway) AddLineItem(ctx context.Context, orderID string, item domain.OrderItem) error {
	if !g.Available() {
		return domain.ErrStorageUnavailable
	}
	return g.check("add line item", g.repo.AddLineItem(ctx, orderID, item))
}

func (g *Gateway) ReadComposite(ctx context.Context, orderID string) (*domain.Order, error) {
	if !g.Available() {
		return nil, domain.ErrStorageUnavailable
	}
	order, err := g.repo.ReadComposite(ctx, orderID)
	if err = g.check("read order", err); err != nil {
		return nil, err
	}
	return order, nil
}

func (g *Gateway) ListOrdersForUser(ctx context.Context, userID int64, limit int) ([]domain.Order, error) {
	if !g.Available() {
		return nil, domain.ErrStorageUnavailable
	}
	orders, err := g.repo.ListOrdersForUser(ctx, userID, limit)
	return orders, g.check("list user orders", err)
}

func (g *Gateway) ListAllOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	if !g.Available() {
		return nil, domain.ErrStorageUnavailable
	}
	orders, err := g.repo.ListAllOrders(ctx, limit)
	return orders, g.check("list orders", err)
}

func (g *Gateway) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !g.Available() {
		return nil, domain.ErrStorageUnavailable
	}
	order, err := g.repo.UpdateStatus(ctx, orderID, status)
	if err = g.check("update status", err); err != nil {
		return nil, err
	}
	return order, nil
}

func (g *Gateway) SaveQRCode(ctx context.Context, orderID string, qr []byte) error {
	if !g.Available() {
		return domain.ErrStorageUnavailable
	}
	return g.check("save qr code", g.repo.SaveQRCode(ctx, orderID, qr))
}

func (g *Gateway) GetQRCode(ctx context.Context, orderID string) ([]byte, error) {
	if !g.Available() {
		return nil, domain.ErrStorageUnavailable
	}
	qr, err := g.repo.GetQRCode(ctx, orderID)
	return qr, g.check("get qr code", err)
}

func (g *Gateway) ToggleDishAvailability(ctx context.Context, dishID int64) (*domain.Dish, error) {
	if !g.Available() {
		return nil, domain.ErrStorageUnavailable
	}
	dish, err := g.repo.ToggleDishAvailability(ctx, dishID)
	if err = g.check("toggle dish", err); err != nil {
		return nil, err
	}
	return dish, nil
}

func (g *Gateway) UpdateDish(ctx context.Context, dishID int64, update domain.DishUpdate) (*domain.Dish, error) {
	if !g.Available() {
		return nil, domain.ErrStorageUnavailable
	}
	dish, err := g.repo.UpdateDish(ctx, dishID, update)
	if err = g.check("update dish", err); err != nil {
		return nil, err
	}
	return dish, nil
}

func (g *Gateway) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	if !g.Available() {
		return nil, domain.ErrStorageUnavailable
	}
	restaurants, err := g.repo.ListRestaurants(ctx)
	return restaurants, g.check("list restaurants", err)
}

func (g *Gateway) GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error) {
	if !g.Available() {
		return nil, domain.ErrStorageUnavailable
	}
	rest, err := g.repo.GetRestaurant(ctx, id)
	if err = g.check("get restaurant", err); err != nil {
		return nil, err
	}
	return rest, nil
}

func (g *Gateway) ListDishes(ctx context.Context, restaurantID int64) ([]domain.Dish, error) {
	if !g.Available() {
		return nil, domain.ErrStorageUnavailable
	}
	dishes, err := g.repo.ListDishes(ctx, restaurantID)
	return dishes, g.check("list dishes", err)
}

func (g *Gateway) CreateUser(ctx context.Context, user *domain.User) error {
	if !g.Available() {
		return domain.ErrStorageUnavailable
	}
	return g.check("create user", g.repo.CreateUser(ctx, user))
}

func (g *Gateway) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if !g.Available() {
		return nil, domain.ErrStorageUnavailable
	}
	user, err := g.repo.GetUser(ctx, id)
	if err = g.check("get user", err); err != nil {
		return nil, err
	}
	return user, nil
}

func (g *Gateway) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if !g.Available() {
		return nil, domain.ErrStorageUnavailable
	}
	user, err := g.repo.GetUserByEmail(ctx, email)
	if err = g.check("get user", err); err != nil {
		return nil, err
	}
	return user, nil
}

func (g *Gateway) UpdatePassword(ctx context.Context, userID int64, hash string) error {
	if !g.Available() {
		return domain.ErrStorageUnavailable
	}
	return g.check("update password", g.repo.UpdatePassword(ctx, userID, hash))
}

func (g *Gateway) UserChannel(ctx context.Context, userID int64) (string, error) {
	if !g.Available() {
		return "", domain.ErrStorageUnavailable
	}
	channel, err := g.repo.UserChannel(ctx, userID)
	return channel, g.check("user channel", err)
}

func (g *Gateway) UserStats(ctx context.Context, userID int64) (domain.UserStats, error) {
	if !g.Available() {
		return domain.UserStats{}, domain.ErrStorageUnavailable
	}
	stats, err := g.repo.UserStats(ctx, userID)
	return stats, g.check("user stats", err)
}

func (g *Gateway) GlobalStats(ctx context.Context) (domain.GlobalStats, error) {
	if !g.Available() {
		return domain.GlobalStats{}, domain.ErrStorageUnavailable
	}
	stats, err := g.repo.GlobalStats(ctx)
	return stats, g.check("global stats", err)
}
