package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"quickbite/order-svc/internal/auth"
	"quickbite/order-svc/internal/domain"
	"quickbite/order-svc/internal/service"
)

// StorageStatus reports whether durable storage is currently reachable.
type StorageStatus interface {
	Available() bool
}

type Handler struct {
	Orders   service.OrderServiceInterface
	Catalog  service.CatalogServiceInterface
	Accounts service.AccountServiceInterface

	Auth     auth.Authenticator
	AdminKey string
	Storage  StorageStatus
	Logger   *zap.Logger
}

func NewHandler(orders service.OrderServiceInterface, catalog service.CatalogServiceInterface,
	accounts service.AccountServiceInterface, authenticator auth.Authenticator, adminKey string,
	storage StorageStatus, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Orders:   orders,
		Catalog:  catalog,
		Accounts: accounts,
		Auth:     authenticator,
		AdminKey: adminKey,
		Storage:  storage,
		Logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	identity := auth.RequireIdentity(h.Auth)
	admin := auth.AdminKey(h.AdminKey)

	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/auth/register", h.register).Methods("POST")
	r.HandleFunc("/auth/login", h.login).Methods("POST")

	r.Handle("/users/me", identity(http.HandlerFunc(h.me))).Methods("GET")
	r.Handle("/users/me/password", identity(http.HandlerFunc(h.changePassword))).Methods("PUT")
	r.Handle("/users/me/orders", identity(http.HandlerFunc(h.myOrders))).Methods("GET")
	r.Handle("/users/me/stats", identity(http.HandlerFunc(h.myStats))).Methods("GET")

	r.HandleFunc("/restaurants", h.getRestaurants).Methods("GET")
	r.HandleFunc("/restaurants/{id}", h.getRestaurant).Methods("GET")
	r.HandleFunc("/restaurants/{id}/dishes", h.getRestaurantDishes).Methods("GET")

	r.Handle("/orders", identity(http.HandlerFunc(h.createOrder))).Methods("POST")
	r.Handle("/orders/{id}", identity(http.HandlerFunc(h.getOrder))).Methods("GET")
	r.HandleFunc("/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")

	r.Handle("/admin/orders", admin(http.HandlerFunc(h.listAllOrders))).Methods("GET")
	r.Handle("/admin/orders/{id}/status", admin(http.HandlerFunc(h.updateOrderStatus))).Methods("PUT")
	r.Handle("/admin/dishes/{id}", admin(http.HandlerFunc(h.updateDish))).Methods("PUT")
	r.Handle("/admin/stats", admin(http.HandlerFunc(h.globalStats))).Methods("GET")

	r.Handle("/bot/orders/{id}", admin(http.HandlerFunc(h.botGetOrder))).Methods("GET")
	r.Handle("/bot/orders/{id}/status", admin(http.HandlerFunc(h.updateOrderStatus))).Methods("PUT")
	r.Handle("/bot/dishes/{id}/toggle", admin(http.HandlerFunc(h.toggleDish))).Methods("POST")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	storage := "unavailable"
	if h.Storage != nil && h.Storage.Available() {
		storage = "available"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "order-svc",
		"storage":   storage,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.ErrInvalidRequest)
		return
	}
	user, token, err := h.Accounts.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]any{"user": user, "token": token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.ErrInvalidRequest)
		return
	}
	user, token, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.IdentityFrom(r.Context())
	user, err := h.Accounts.Me(r.Context(), caller)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"user": user})
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.IdentityFrom(r.Context())
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.ErrInvalidRequest)
		return
	}
	if err := h.Accounts.ChangePassword(r.Context(), caller, req.CurrentPassword, req.NewPassword); err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"message": "password updated"})
}

func (h *Handler) myOrders(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.IdentityFrom(r.Context())
	orders, err := h.Orders.ListForUser(r.Context(), caller, queryLimit(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) myStats(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.IdentityFrom(r.Context())
	stats, err := h.Orders.UserStats(r.Context(), caller)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"stats": stats})
}

func (h *Handler) getRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Catalog.ListRestaurants(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"restaurants": restaurants})
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, domain.ErrNotFound)
		return
	}
	rest, err := h.Catalog.GetRestaurant(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"restaurant": rest})
}

func (h *Handler) getRestaurantDishes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, domain.ErrNotFound)
		return
	}
	dishes, err := h.Catalog.ListDishes(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"dishes": dishes})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.IdentityFrom(r.Context())
	var req domain.CreateOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		h.writeError(w, domain.ErrInvalidRequest)
		return
	}
	result, err := h.Orders.Create(r.Context(), caller, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]any{
		"order":     result.Order,
		"persisted": result.Persisted,
	})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.IdentityFrom(r.Context())
	order, err := h.Orders.Get(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"order": order})
}

func (h *Handler) botGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.GetComposite(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"order": order})
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	qr, err := h.Orders.QRCode(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(qr)
}

func (h *Handler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListAll(r.Context(), queryLimit(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.ErrInvalidRequest)
		return
	}
	result, err := h.Orders.UpdateStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"order":     result.Order,
		"persisted": result.Persisted,
	})
}

func (h *Handler) updateDish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, domain.ErrNotFound)
		return
	}
	var update domain.DishUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, domain.ErrInvalidRequest)
		return
	}
	dish, err := h.Catalog.UpdateDish(r.Context(), id, update)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"dish": dish})
}

func (h *Handler) toggleDish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, domain.ErrNotFound)
		return
	}
	dish, err := h.Catalog.ToggleDish(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"dish": dish})
}

func (h *Handler) globalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Orders.GlobalStats(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"stats": stats})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

func queryLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return limit
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, code int, payload map[string]any) {
	payload["success"] = true
	writeJSON(w, code, payload)
}

// writeError maps the domain error taxonomy onto status codes. Unexpected errors are logged in full
// and the client only sees a generic message.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	msg := "internal server error"
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidStatus):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		code, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		code, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrConflict):
		code, msg = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrStorageUnavailable):
		code, msg = http.StatusServiceUnavailable, domain.ErrStorageUnavailable.Error()
	default:
		h.Logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, code, map[string]any{"success": false, "error": msg})
}
