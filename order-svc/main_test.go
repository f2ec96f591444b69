package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"quickbite/config"
	httpapi "quickbite/order-svc/internal/api/http"
	"quickbite/order-svc/internal/auth"
	"quickbite/order-svc/internal/domain"
	"quickbite/order-svc/internal/notify"
	"quickbite/order-svc/internal/service"
	"quickbite/order-svc/internal/storage"
)

const pizzaOrder = `{
	"restaurant_id": "1",
	"restaurant_name": "Pizza Palace",
	"restaurant_image": "pizza.png",
	"customer_name": "Ann",
	"customer_phone": "+100",
	"delivery_address": "X",
	"items": [{"dish_id": 1, "dish_name": "Pizza", "dish_price": "699.00", "quantity": 2}]
}`

type chatMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// fakeTelegram records every sendMessage call.
type fakeTelegram struct {
	mu       sync.Mutex
	messages []chatMessage
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var msg chatMessage
	_ = json.NewDecoder(r.Body).Decode(&msg)
	f.mu.Lock()
	f.messages = append(f.messages, msg)
	f.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (f *fakeTelegram) sent() []chatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]chatMessage(nil), f.messages...)
}

type eventWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
}

func (w *eventWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, msgs...)
	return nil
}

type app struct {
	router     http.Handler
	dispatcher *notify.Dispatcher
	telegram   *fakeTelegram
	events     *eventWriter
	tokens     *auth.TokenAuthenticator
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret",
		JWTTTL:         time.Hour,
		AdminKey:       "admin-key",
		TelegramChatID: "ops",
		NotifyTimeout:  time.Second,
		PricingMode:    "lenient",
		PublicBaseURL:  "http://quickbite.test",
	}
}

func newApp(t *testing.T, gateway *storage.Gateway, cache *storage.RedisCache) *app {
	t.Helper()
	cfg := testConfig()
	telegram := &fakeTelegram{}
	srv := httptest.NewServer(telegram)
	t.Cleanup(srv.Close)

	events := &eventWriter{}
	sender := notify.NewTelegramSender(srv.URL, "bot-token", srv.Client())
	var catalogCache service.CatalogCache
	if cache != nil {
		catalogCache = cache
	}

	handler, dispatcher := newHandler(cfg, gateway, catalogCache, storage.NewKafkaPublisher(events), sender, zaptest.NewLogger(t))
	return &app{
		router:     httpapi.NewRouter(handler),
		dispatcher: dispatcher,
		telegram:   telegram,
		events:     events,
		tokens:     auth.NewTokenAuthenticator(cfg.JWTSecret, cfg.JWTTTL),
	}
}

func (a *app) post(t *testing.T, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	token, err := a.tokens.Issue(7, domain.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &decoded), rr.Body.String())
	return rr, decoded
}

func TestCreateOrder_Persisted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	gateway := storage.NewGateway(storage.NewPostgresRepository(db), zaptest.NewLogger(t))
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	require.True(t, gateway.Probe(context.Background()))

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(42, created))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(int64(42), int64(1), "Pizza", sqlmock.AnyArg(), 2, "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, user_id").WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "restaurant_id", "restaurant_name", "restaurant_image", "created_at", "total_amount",
			"status", "delivery_address", "payment_method", "customer_name", "customer_phone",
		}).AddRow(42, 7, 1, "Pizza Palace", "pizza.png", created, "1398.00", "pending", "X", "cash", "Ann", "+100"))
	mock.ExpectQuery("FROM order_items oi").WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"dish_id", "dish_name", "dish_price", "quantity", "dish_image", "description"}).
			AddRow(1, "Pizza", "699.00", 2, "", ""))
	mock.ExpectExec("UPDATE orders SET qr_code").
		WithArgs(sqlmock.AnyArg(), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	a := newApp(t, gateway, nil)
	rr, resp := a.post(t, "/orders", pizzaOrder)
	a.dispatcher.Wait()

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, true, resp["persisted"])
	order := resp["order"].(map[string]any)
	assert.Equal(t, "42", order["id"])
	assert.Equal(t, 1398.0, order["total_amount"])
	assert.NoError(t, mock.ExpectationsWereMet())

	sent := a.telegram.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ops", sent[0].ChatID)
	assert.True(t, strings.HasPrefix(sent[0].Text, "New order #42\n"))
	assert.True(t, strings.HasSuffix(sent[0].Text, "Total: 1398.00"))

	require.Len(t, a.events.messages, 1)
	assert.Equal(t, "42", string(a.events.messages[0].Key))
}

func TestCreateOrder_StorageDown(t *testing.T) {
	a := newApp(t, storage.NewGateway(nil, nil), nil)
	rr, resp := a.post(t, "/orders", pizzaOrder)
	a.dispatcher.Wait()

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, false, resp["persisted"])
	order := resp["order"].(map[string]any)
	assert.True(t, strings.HasPrefix(order["id"].(string), "local-"))
	assert.Equal(t, 1398.0, order["total_amount"])

	sent := a.telegram.sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Text, "not persisted")
	assert.True(t, strings.HasSuffix(sent[0].Text, "Total: 1398.00"))
	assert.Empty(t, a.events.messages)
}

func TestRestaurants_ServedFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	cache := storage.NewRedisCache(client, time.Minute)
	require.NoError(t, cache.SetRestaurants(context.Background(), []domain.Restaurant{{ID: 9, Name: "Cached Noodles"}}))

	a := newApp(t, storage.NewGateway(nil, nil), cache)
	req := httptest.NewRequest(http.MethodGet, "/restaurants", nil)
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Cached Noodles")
	assert.NotContains(t, rr.Body.String(), "Pizza Palace")
}

func TestHealth_ReportsDegradedStorage(t *testing.T) {
	a := newApp(t, storage.NewGateway(nil, nil), nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"storage":"unavailable"`)
}
