package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"quickbite/order-svc/internal/domain"
	"quickbite/order-svc/internal/notify"
	"quickbite/order-svc/internal/pricing"
)

const (
	DefaultPaymentMethod = "cash"
	DefaultUserLimit     = 50
	DefaultAdminLimit    = 100
	MaxListLimit         = 200

	LocalOrderPrefix = "local-"

	sideEffectTimeout = 5 * time.Second
)

// OrderResult is an order together with whether it reached durable storage.
type OrderResult struct {
	Order     *domain.Order
	Persisted bool
}

type OrderService struct {
	store     OrderStore
	calc      *pricing.Calculator
	notifier  Notifier
	catalog   RestaurantLookup
	publisher EventPublisher
	qr        QRGenerator
	logger    *zap.Logger
	now       func() time.Time
}

type OrderServiceOption func(*OrderService)

func WithEventPublisher(publisher EventPublisher) OrderServiceOption {
	return func(s *OrderService) { s.publisher = publisher }
}

func WithQRGenerator(qr QRGenerator) OrderServiceOption {
	return func(s *OrderService) { s.qr = qr }
}

func WithRestaurantLookup(catalog RestaurantLookup) OrderServiceOption {
	return func(s *OrderService) { s.catalog = catalog }
}

func WithLogger(logger *zap.Logger) OrderServiceOption {
	return func(s *OrderService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) OrderServiceOption {
	return func(s *OrderService) { s.now = now }
}

func NewOrderService(store OrderStore, calc *pricing.Calculator, notifier Notifier, opts ...OrderServiceOption) *OrderService {
	s := &OrderService{
		store:    store,
		calc:     calc,
		notifier: notifier,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create runs Validate → Price → Persist-or-Fallback → Notify → Respond. Once validation passes the
// submission runs to completion even if the client goes away.
func (s *OrderService) Create(ctx context.Context, caller domain.Identity, req domain.CreateOrderRequest) (*OrderResult, error) {
	if caller.UserID <= 0 {
		return nil, domain.ErrUnauthorized
	}
	restaurantID, err := validateCreate(req)
	if err != nil {
		return nil, err
	}

	priced, err := s.calc.Calculate(req.Items)
	if err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	header := s.buildHeader(ctx, caller, req, restaurantID, priced)

	result, err := s.persist(ctx, header, priced.OrderItems())
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyOrder(notify.OrderSummary{
		OrderID:         result.Order.ID,
		CustomerName:    result.Order.CustomerName,
		CustomerPhone:   result.Order.CustomerPhone,
		DeliveryAddress: result.Order.DeliveryAddress,
		RestaurantName:  result.Order.RestaurantName,
		PaymentMethod:   result.Order.PaymentMethod,
		Persisted:       result.Persisted,
		Items:           req.Items,
	})

	if result.Persisted {
		s.storeQRCode(ctx, result.Order.ID)
		s.publish(ctx, domain.EventOrderCreated, *result.Order)
	}
	return result, nil
}

func validateCreate(req domain.CreateOrderRequest) (int64, error) {
	if req.RestaurantID.Empty() || len(req.Items) == 0 || strings.TrimSpace(req.DeliveryAddress) == "" {
		return 0, fmt.Errorf("%w: restaurant_id, items and delivery_address are required", domain.ErrInvalidRequest)
	}
	restaurantID, err := req.RestaurantID.Int64()
	if err != nil || restaurantID <= 0 {
		return 0, fmt.Errorf("%w: restaurant_id must be a positive integer", domain.ErrInvalidRequest)
	}
	return restaurantID, nil
}

func (s *OrderService) buildHeader(ctx context.Context, caller domain.Identity, req domain.CreateOrderRequest,
	restaurantID int64, priced pricing.Result) domain.Order {
	header := domain.Order{
		UserID:          caller.UserID,
		RestaurantID:    restaurantID,
		RestaurantName:  strings.TrimSpace(req.RestaurantName),
		RestaurantImage: strings.TrimSpace(req.RestaurantImage),
		TotalAmount:     priced.Total,
		Status:          domain.StatusPending,
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
	}
	if header.PaymentMethod == "" {
		header.PaymentMethod = DefaultPaymentMethod
	}

	if (header.RestaurantName == "" || header.RestaurantImage == "") && s.catalog != nil {
		if rest, err := s.catalog.GetRestaurant(ctx, restaurantID); err == nil && rest != nil {
			if header.RestaurantName == "" {
				header.RestaurantName = rest.Name
			}
			if header.RestaurantImage == "" {
				header.RestaurantImage = rest.ImageURL
			}
		}
	}

	if header.CustomerName == "" || header.CustomerPhone == "" {
		if user, err := s.store.GetUser(ctx, caller.UserID); err == nil && user != nil {
			if header.CustomerName == "" {
				header.CustomerName = user.Name
			}
			if header.CustomerPhone == "" {
				header.CustomerPhone = user.Phone
			}
		}
	}
	return header
}

// persist writes the header, then each line item, then re-reads the composite. A store that is
// unavailable before the header write yields a synthesized order that was never persisted. Once the
// header exists the order is reported as created even if its items are not all stored.
func (s *OrderService) persist(ctx context.Context, header domain.Order, items []domain.OrderItem) (*OrderResult, error) {
	id, err := s.store.CreateOrder(ctx, &header)
	if errors.Is(err, domain.ErrStorageUnavailable) {
		s.logger.Warn("storage unavailable, synthesizing order", zap.Int64("user_id", header.UserID))
		return &OrderResult{Order: s.synthesize(header, items), Persisted: false}, nil
	}
	if err != nil {
		return nil, err
	}

	inMemory := header
	inMemory.ID = id
	inMemory.Items = items

	for i, item := range items {
		if err := s.store.AddLineItem(ctx, id, item); err != nil {
			s.logger.Error("line item not persisted, order left incomplete",
				zap.String("order_id", id), zap.Int("item", i), zap.Error(err))
			return &OrderResult{Order: &inMemory, Persisted: true}, nil
		}
	}

	composite, err := s.store.ReadComposite(ctx, id)
	if err != nil {
		s.logger.Warn("composite re-read failed, responding from memory", zap.String("order_id", id), zap.Error(err))
		return &OrderResult{Order: &inMemory, Persisted: true}, nil
	}
	return &OrderResult{Order: composite, Persisted: true}, nil
}

// synthesize builds an order that exists only in the response. Its id is derived from the current time
// and is not checked for collisions.
func (s *OrderService) synthesize(header domain.Order, items []domain.OrderItem) *domain.Order {
	now := s.now()
	order := header
	order.ID = LocalOrderPrefix + ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
	order.OrderDate = now.UTC()
	order.Items = items
	return &order
}

func (s *OrderService) storeQRCode(ctx context.Context, orderID string) {
	if s.qr == nil {
		return
	}
	qr, err := s.qr.Generate(orderID)
	if err != nil {
		s.logger.Warn("qr code not generated", zap.String("order_id", orderID), zap.Error(err))
		return
	}
	if err := s.store.SaveQRCode(ctx, orderID, qr); err != nil {
		s.logger.Warn("qr code not stored", zap.String("order_id", orderID), zap.Error(err))
	}
}

func (s *OrderService) publish(ctx context.Context, kind string, order domain.Order) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()
	err := s.publisher.PublishOrderEvent(ctx, domain.OrderEvent{
		Type:         kind,
		OrderID:      order.ID,
		UserID:       order.UserID,
		RestaurantID: order.RestaurantID,
		Status:       order.Status,
		TotalAmount:  order.TotalAmount,
		Timestamp:    s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("order event not published", zap.String("order_id", order.ID), zap.String("type", kind), zap.Error(err))
	}
}

// UpdateStatus overwrites the order status with any member of the status set; predecessor states are
// not enforced. With storage unavailable the update is reported without a durable effect.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, raw string) (*OrderResult, error) {
	status, err := domain.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, fmt.Errorf("%w: order id is required", domain.ErrInvalidRequest)
	}

	order, err := s.store.UpdateStatus(ctx, orderID, status)
	if errors.Is(err, domain.ErrStorageUnavailable) {
		s.logger.Warn("storage unavailable, status update not persisted",
			zap.String("order_id", orderID), zap.String("status", string(status)))
		return &OrderResult{
			Order:     &domain.Order{ID: orderID, Status: status, Items: []domain.OrderItem{}},
			Persisted: false,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	s.notifyOwner(ctx, *order)
	s.publish(ctx, domain.EventOrderStatusChanged, *order)
	return &OrderResult{Order: order, Persisted: true}, nil
}

func (s *OrderService) notifyOwner(ctx context.Context, order domain.Order) {
	channel, err := s.store.UserChannel(ctx, order.UserID)
	if err != nil {
		s.logger.Debug("owner channel lookup failed", zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	if channel == "" {
		return
	}
	s.notifier.NotifyStatus(channel, order)
}

// Get returns one of the caller's own orders; admins may read any order.
func (s *OrderService) Get(ctx context.Context, caller domain.Identity, orderID string) (*domain.Order, error) {
	order, err := s.store.ReadComposite(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != caller.UserID && !caller.IsAdmin() {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	return order, nil
}

func (s *OrderService) GetComposite(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.store.ReadComposite(ctx, orderID)
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// ListForUser answers with an empty history while storage is unavailable.
func (s *OrderService) ListForUser(ctx context.Context, caller domain.Identity, limit int) ([]domain.Order, error) {
	orders, err := s.store.ListOrdersForUser(ctx, caller.UserID, clampLimit(limit, DefaultUserLimit))
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return []domain.Order{}, nil
	}
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) ListAll(ctx context.Context, limit int) ([]domain.Order, error) {
	orders, err := s.store.ListAllOrders(ctx, clampLimit(limit, DefaultAdminLimit))
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return []domain.Order{}, nil
	}
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// QRCode returns the stored QR image, regenerating it when missing. Without storage the image is
// generated on the fly and not cached.
func (s *OrderService) QRCode(ctx context.Context, orderID string) ([]byte, error) {
	if s.qr == nil {
		return nil, fmt.Errorf("qr code: %w", domain.ErrNotFound)
	}
	qr, err := s.store.GetQRCode(ctx, orderID)
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return s.qr.Generate(orderID)
	}
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 {
		regenerated, err := s.qr.Generate(orderID)
		if err != nil {
			return nil, err
		}
		if err := s.store.SaveQRCode(ctx, orderID, regenerated); err != nil {
			s.logger.Warn("regenerated qr code not cached", zap.String("order_id", orderID), zap.Error(err))
		}
		return regenerated, nil
	}
	return qr, nil
}

// UserStats reports zeros while storage is unavailable.
func (s *OrderService) UserStats(ctx context.Context, caller domain.Identity) (domain.UserStats, error) {
	stats, err := s.store.UserStats(ctx, caller.UserID)
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return domain.UserStats{}, nil
	}
	return stats, err
}

// GlobalStats reports a fixed example while storage is unavailable.
func (s *OrderService) GlobalStats(ctx context.Context) (domain.GlobalStats, error) {
	stats, err := s.store.GlobalStats(ctx)
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return ExampleGlobalStats(), nil
	}
	return stats, err
}
