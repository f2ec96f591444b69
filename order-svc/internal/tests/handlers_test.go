package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpapi "quickbite/order-svc/internal/api/http"
	"quickbite/order-svc/internal/auth"
	"quickbite/order-svc/internal/domain"
	"quickbite/order-svc/internal/mocks"
	"quickbite/order-svc/internal/pricing"
	"quickbite/order-svc/internal/service"
)

const (
	testSecret   = "test-secret"
	testAdminKey = "admin-key"
)

type storageFlag bool

func (f storageFlag) Available() bool { return bool(f) }

type handlerFixture struct {
	router   *mux.Router
	orders   *mocks.OrderStore
	catalog  *mocks.CatalogStore
	accounts *mocks.AccountStore
	notifier *mocks.Notifier
	tokens   *auth.TokenAuthenticator
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	f := &handlerFixture{
		orders:   mocks.NewOrderStore(t),
		catalog:  mocks.NewCatalogStore(t),
		accounts: mocks.NewAccountStore(t),
		notifier: mocks.NewNotifier(t),
		tokens:   auth.NewTokenAuthenticator(testSecret, time.Hour),
	}
	calc := pricing.NewCalculator(pricing.ModeLenient)
	handler := httpapi.NewHandler(
		service.NewOrderService(f.orders, calc, f.notifier),
		service.NewCatalogService(f.catalog, nil, nil),
		service.NewAccountService(f.accounts, f.tokens),
		f.tokens, testAdminKey, storageFlag(true), nil,
	)
	f.router = mux.NewRouter()
	handler.RegisterRoutes(f.router)
	return f
}

func (f *handlerFixture) do(t *testing.T, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Header().Get("Content-Type") == "application/json" {
		decoder := json.NewDecoder(bytes.NewReader(w.Body.Bytes()))
		decoder.UseNumber()
		require.NoError(t, decoder.Decode(&decoded))
	}
	return w, decoded
}

func (f *handlerFixture) bearer(t *testing.T, id domain.Identity) map[string]string {
	token, err := f.tokens.Issue(id.UserID, id.Role)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestCreateOrderHandler_PizzaScenario(t *testing.T) {
	f := newHandlerFixture(t)

	f.orders.On("CreateOrder", mock.Anything, mock.Anything).Return("", domain.ErrStorageUnavailable).Once()
	f.orders.On("GetUser", mock.Anything, customer.UserID).Return(nil, domain.ErrStorageUnavailable).Once()
	f.notifier.On("NotifyOrder", mock.Anything).Once()

	body := `{"restaurant_id":1,"items":[{"dish_name":"Pizza","dish_price":"699.00","quantity":2}],"delivery_address":"X"}`
	w, resp := f.do(t, "POST", "/orders", body, f.bearer(t, customer))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, false, resp["persisted"])

	order := resp["order"].(map[string]any)
	assert.Equal(t, json.Number("1398.00"), order["total_amount"])
	assert.Equal(t, "pending", order["status"])
	assert.Len(t, order["items"], 1)
	assert.IsType(t, "", order["id"])
}

func TestCreateOrderHandler(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		auth     bool
		wantCode int
	}{
		{name: "no token", body: `{}`, auth: false, wantCode: http.StatusUnauthorized},
		{name: "invalid JSON", body: `{invalid}`, auth: true, wantCode: http.StatusBadRequest},
		{name: "missing items", body: `{"restaurant_id":"1","delivery_address":"X"}`, auth: true, wantCode: http.StatusBadRequest},
		{name: "missing address", body: `{"restaurant_id":1,"items":[{"dish_price":1}]}`, auth: true, wantCode: http.StatusBadRequest},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			headers := map[string]string{}
			if testCase.auth {
				headers = f.bearer(t, customer)
			}
			w, resp := f.do(t, "POST", "/orders", testCase.body, headers)
			assert.Equal(t, testCase.wantCode, w.Code)
			assert.Equal(t, false, resp["success"])
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestMyOrdersHandler(t *testing.T) {
	t.Run("missing token never touches storage", func(t *testing.T) {
		f := newHandlerFixture(t)
		w, resp := f.do(t, "GET", "/users/me/orders", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, false, resp["success"])
	})

	t.Run("tampered token", func(t *testing.T) {
		f := newHandlerFixture(t)
		w, _ := f.do(t, "GET", "/users/me/orders", "", map[string]string{"Authorization": "Bearer abc.def.ghi"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("storage down returns empty list", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.orders.On("ListOrdersForUser", mock.Anything, customer.UserID, 20).Return(nil, domain.ErrStorageUnavailable).Once()

		w, resp := f.do(t, "GET", "/users/me/orders?limit=20", "", f.bearer(t, customer))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []any{}, resp["orders"])
	})
}

func TestGetOrderHandler(t *testing.T) {
	tests := []struct {
		name     string
		readErr  error
		owner    int64
		wantCode int
	}{
		{name: "own order", owner: customer.UserID, wantCode: http.StatusOK},
		{name: "foreign order", owner: 99, wantCode: http.StatusNotFound},
		{name: "unknown order", readErr: domain.ErrNotFound, wantCode: http.StatusNotFound},
		{name: "storage down", readErr: domain.ErrStorageUnavailable, wantCode: http.StatusServiceUnavailable},
		{name: "driver failure", readErr: assert.AnError, wantCode: http.StatusInternalServerError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			var order *domain.Order
			if testCase.readErr == nil {
				order = &domain.Order{ID: "42", UserID: testCase.owner, Items: []domain.OrderItem{}}
			}
			f.orders.On("ReadComposite", mock.Anything, "42").Return(order, testCase.readErr).Once()

			w, resp := f.do(t, "GET", "/orders/42", "", f.bearer(t, customer))
			assert.Equal(t, testCase.wantCode, w.Code)
			if testCase.wantCode == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", resp["error"])
			}
		})
	}
}

func TestUpdateStatusHandler(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		key           string
		body          string
		setup         func(*handlerFixture)
		wantCode      int
		wantPersisted any
	}{
		{
			name: "missing admin key", path: "/admin/orders/42/status", key: "",
			body: `{"status":"preparing"}`, setup: func(*handlerFixture) {}, wantCode: http.StatusUnauthorized,
		},
		{
			name: "wrong admin key", path: "/bot/orders/42/status", key: "guess",
			body: `{"status":"preparing"}`, setup: func(*handlerFixture) {}, wantCode: http.StatusUnauthorized,
		},
		{
			name: "invalid status makes no write", path: "/admin/orders/42/status", key: testAdminKey,
			body: `{"status":"lost"}`, setup: func(*handlerFixture) {}, wantCode: http.StatusBadRequest,
		},
		{
			name: "bot update", path: "/bot/orders/42/status", key: testAdminKey, body: `{"status":"preparing"}`,
			setup: func(f *handlerFixture) {
				updated := &domain.Order{ID: "42", UserID: 7, Status: domain.StatusPreparing}
				f.orders.On("UpdateStatus", mock.Anything, "42", domain.StatusPreparing).Return(updated, nil).Once()
				f.orders.On("UserChannel", mock.Anything, int64(7)).Return("555", nil).Once()
				f.notifier.On("NotifyStatus", "555", *updated).Once()
			},
			wantCode: http.StatusOK, wantPersisted: true,
		},
		{
			name: "storage down is cosmetic success", path: "/admin/orders/42/status", key: testAdminKey,
			body: `{"status":"delivered"}`,
			setup: func(f *handlerFixture) {
				f.orders.On("UpdateStatus", mock.Anything, "42", domain.StatusDelivered).Return(nil, domain.ErrStorageUnavailable).Once()
			},
			wantCode: http.StatusOK, wantPersisted: false,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			testCase.setup(f)

			headers := map[string]string{}
			if testCase.key != "" {
				headers[auth.AdminKeyHeader] = testCase.key
			}
			w, resp := f.do(t, "PUT", testCase.path, testCase.body, headers)
			assert.Equal(t, testCase.wantCode, w.Code)
			if testCase.wantPersisted != nil {
				assert.Equal(t, testCase.wantPersisted, resp["persisted"])
			}
		})
	}
}

func TestToggleDishHandler_StorageDown(t *testing.T) {
	f := newHandlerFixture(t)
	f.catalog.On("ToggleDishAvailability", mock.Anything, int64(3)).Return(nil, domain.ErrStorageUnavailable).Once()

	w, resp := f.do(t, "POST", "/bot/dishes/3/toggle", "", map[string]string{auth.AdminKeyHeader: testAdminKey})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, false, resp["success"])
}

func TestRestaurantsHandler_Fallback(t *testing.T) {
	f := newHandlerFixture(t)
	f.catalog.On("ListRestaurants", mock.Anything).Return(nil, domain.ErrStorageUnavailable).Once()

	w, resp := f.do(t, "GET", "/restaurants", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["restaurants"], len(service.FallbackRestaurants()))
}

func TestRegisterAndMeHandlers(t *testing.T) {
	f := newHandlerFixture(t)
	f.accounts.On("CreateUser", mock.Anything, mock.Anything).Return(func(_ context.Context, u *domain.User) error {
		u.ID = 12
		return nil
	}).Once()
	f.accounts.On("GetUser", mock.Anything, int64(12)).Return(&domain.User{ID: 12, Email: "ann@example.com", Name: "Ann"}, nil).Once()

	w, resp := f.do(t, "POST", "/auth/register", `{"email":"ann@example.com","password":"secret1","name":"Ann"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token := resp["token"].(string)
	assert.NotContains(t, w.Body.String(), "password_hash")

	w, resp = f.do(t, "GET", "/users/me", "", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ann", resp["user"].(map[string]any)["name"])
}

func TestHealthHandler(t *testing.T) {
	f := newHandlerFixture(t)
	w, resp := f.do(t, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "available", resp["storage"])
}
