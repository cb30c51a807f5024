package transport

import (
	"errors"
	"net/http"

	"bistro-pos/internal/middleware"
	"bistro-pos/internal/repository"
	"bistro-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogItemRequest represents the create/update payload of a menu entry
type CatalogItemRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	Price        string `json:"price" validate:"required,money"`
	Category     string `json:"category" validate:"required,max=100"`
	ImageURL     string `json:"image_url" validate:"omitempty,url,max=500"`
	IsSpicy      bool   `json:"is_spicy"`
	IsVegetarian bool   `json:"is_vegetarian"`
}

func (req CatalogItemRequest) toInput() service.CatalogItemInput {
	// money validation already guaranteed a parseable amount
	price, _ := decimal.NewFromString(req.Price)
	return service.CatalogItemInput{
		Name:         req.Name,
		Price:        price,
		Category:     req.Category,
		ImageURL:     req.ImageURL,
		IsSpicy:      req.IsSpicy,
		IsVegetarian: req.IsVegetarian,
	}
}

// CatalogHandler handles HTTP requests for the menu
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes. Writes need an authenticated
// back-office role.
func (h *CatalogHandler) RegisterRoutes(r chi.Router, authMiddleware, backOffice func(http.Handler) http.Handler) {
	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/categories", h.Categories)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, backOffice)
			r.Post("/", h.Create)
			r.Get("/{id}", h.Get)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List returns the catalog filtered by ?q= and ?category=
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := h.catalogService.Browse(r.Context(), q.Get("q"), q.Get("category"))

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items": toCatalogItemResponses(items),
		"count": len(items),
	})
}

// Categories returns the distinct categories of the catalog
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.catalogService.Categories(r.Context()),
	})
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	item, err := h.catalogService.Get(r.Context(), id)
	if err != nil {
		h.respondWithCatalogError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toCatalogItemResponse(*item))
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CatalogItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Catalog item validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	item, err := h.catalogService.Create(r.Context(), req.toInput())
	if err != nil {
		h.respondWithCatalogError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, toCatalogItemResponse(*item))
}

func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req CatalogItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Catalog item validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	item, err := h.catalogService.Update(r.Context(), id, req.toInput())
	if err != nil {
		h.respondWithCatalogError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toCatalogItemResponse(*item))
}

func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalogService.Delete(r.Context(), id); err != nil {
		h.respondWithCatalogError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) respondWithCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrCatalogItemNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "catalog item not found")
	case errors.Is(err, service.ErrInvalidCatalogItem):
		middleware.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("Catalog operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update catalog")
	}
}

// parseUUIDParam reads a uuid URL parameter, writing a 400 when it is malformed
func parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
