package transport

import (
	"errors"
	"net/http"

	"bistro-pos/internal/cart"
	"bistro-pos/internal/domain"
	"bistro-pos/internal/middleware"
	"bistro-pos/internal/repository"
	"bistro-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const idempotencyHeader = "Idempotency-Key"

// AddItemRequest represents the add-to-cart payload
type AddItemRequest struct {
	ItemID string `json:"item_id" validate:"required,uuid"`
}

// UpdateQuantityRequest represents an increment or decrement of one line
type UpdateQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// CheckoutRequest represents the checkout payload; both fields are optional
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"omitempty,max=50"`
	Status        string `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
}

// CheckoutResponse is returned after a successful checkout
type CheckoutResponse struct {
	Order PaymentRecordResponse `json:"order"`
	Cart  CartResponse          `json:"cart"`
}

// CartHandler handles HTTP requests for register carts
type CartHandler struct {
	registry        *cart.Registry
	catalogService  service.CatalogService
	checkoutService service.CheckoutService
	logger          *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(
	registry *cart.Registry,
	catalogService service.CatalogService,
	checkoutService service.CheckoutService,
	logger *zap.Logger,
) *CartHandler {
	return &CartHandler{
		registry:        registry,
		catalogService:  catalogService,
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/carts", func(r chi.Router) {
		r.Post("/", h.Create)

		r.Route("/{cartID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Delete("/", h.Abandon)
			r.Post("/items", h.AddItem)
			r.Delete("/items", h.Clear)
			r.Patch("/items/{itemID}", h.UpdateQuantity)
			r.Delete("/items/{itemID}", h.RemoveItem)
			r.Post("/checkout", h.Checkout)
		})
	})
}

// Create opens an empty cart
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := h.registry.Create()
	h.respondWithCart(w, http.StatusCreated, session)
}

// Get returns the cart with its derived totals
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respondWithCart(w, http.StatusOK, session)
}

// Abandon discards the cart without storing anything
func (h *CartHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "cartID")
	if !ok {
		return
	}
	if err := h.registry.Delete(id); err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "cart not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddItem adds one unit of a catalog item
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	item, err := h.catalogService.Lookup(r.Context(), uuid.MustParse(req.ItemID))
	if err != nil {
		if errors.Is(err, repository.ErrCatalogItemNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "catalog item not found")
			return
		}
		middleware.RespondWithError(w, http.StatusServiceUnavailable, "menu is unavailable, please try again")
		return
	}

	h.mutate(w, session, func(a *cart.Aggregator) { a.AddItem(item) })
}

// UpdateQuantity applies a delta to one line. Unknown lines are ignored.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(w, r, "itemID")
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	h.mutate(w, session, func(a *cart.Aggregator) { a.UpdateQuantity(itemID, req.Delta) })
}

// RemoveItem drops one line. Unknown lines are ignored.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(w, r, "itemID")
	if !ok {
		return
	}

	h.mutate(w, session, func(a *cart.Aggregator) { a.RemoveItem(itemID) })
}

// Clear empties the cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.mutate(w, session, func(a *cart.Aggregator) { a.Clear() })
}

// Checkout stores the cart as a PaymentRecord and empties it
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req CheckoutRequest
	if r.ContentLength != 0 {
		if err := middleware.DecodeAndValidate(r, &req); err != nil {
			middleware.RespondWithDecodeError(w, err)
			return
		}
	}

	key := r.Header.Get(idempotencyHeader)
	if len(key) > 255 {
		middleware.RespondWithError(w, http.StatusBadRequest, "idempotency key too long")
		return
	}

	rate := h.checkoutService.ServiceChargeRate()
	var (
		record *domain.PaymentRecord
		snap   domain.OrderSnapshot
	)
	err := session.Do(func(a *cart.Aggregator) error {
		var err error
		record, err = h.checkoutService.Checkout(r.Context(), a, service.CheckoutRequest{
			PaymentMethod:  domain.PaymentMethod(req.PaymentMethod),
			Status:         domain.OrderStatus(req.Status),
			IdempotencyKey: key,
		})
		snap = a.Snapshot(rate)
		return err
	})
	if err != nil {
		h.respondWithCheckoutError(w, session, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, CheckoutResponse{
		Order: toPaymentRecordResponse(record),
		Cart:  toCartResponse(session.ID.String(), snap, rate),
	})
}

func (h *CartHandler) respondWithCheckoutError(w http.ResponseWriter, session *cart.Session, err error) {
	var ce *service.CheckoutError
	if !errors.As(err, &ce) {
		h.logger.Error("Unexpected checkout failure", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	details := map[string]interface{}{"kind": string(ce.Kind), "cart_id": session.ID.String()}
	switch ce.Kind {
	case service.KindValidation:
		if errors.Is(ce.Err, service.ErrIdempotencyKeyReused) {
			middleware.RespondWithErrorDetails(w, http.StatusConflict, ce.Err.Error(), details)
			return
		}
		middleware.RespondWithErrorDetails(w, http.StatusUnprocessableEntity, ce.Err.Error(), details)
	case service.KindTimeout:
		middleware.RespondWithErrorDetails(w, http.StatusGatewayTimeout, "the order store did not respond, please try again", details)
	default:
		middleware.RespondWithErrorDetails(w, http.StatusServiceUnavailable, "error processing order, please try again", details)
	}
}

func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) (*cart.Session, bool) {
	id, ok := parseUUIDParam(w, r, "cartID")
	if !ok {
		return nil, false
	}
	session, err := h.registry.Get(id)
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "cart not found")
		return nil, false
	}
	return session, true
}

// mutate applies fn under the session lock and responds with the new state
func (h *CartHandler) mutate(w http.ResponseWriter, session *cart.Session, fn func(a *cart.Aggregator)) {
	rate := h.checkoutService.ServiceChargeRate()
	var snap domain.OrderSnapshot
	_ = session.Do(func(a *cart.Aggregator) error {
		fn(a)
		snap = a.Snapshot(rate)
		return nil
	})
	middleware.RespondWithJSON(w, http.StatusOK, toCartResponse(session.ID.String(), snap, rate))
}

func (h *CartHandler) respondWithCart(w http.ResponseWriter, status int, session *cart.Session) {
	rate := h.checkoutService.ServiceChargeRate()
	var snap domain.OrderSnapshot
	_ = session.Do(func(a *cart.Aggregator) error {
		snap = a.Snapshot(rate)
		return nil
	})
	middleware.RespondWithJSON(w, status, toCartResponse(session.ID.String(), snap, rate))
}
