package handler

import (
	"context"
	"net/http"

	"concierge/internal/catalog"
	apperrors "concierge/pkg/errors"
	httputil "concierge/pkg/http"
	"concierge/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type Catalog interface {
	Find(ctx context.Context, q catalog.Query) []catalog.Item
	GetByID(ctx context.Context, id string) catalog.Item
}

type ListResponse struct {
	Items []catalog.Item `json:"items"`
	Count int            `json:"count"`
}

type CatalogHandler struct {
	catalog Catalog
	log     *logger.Logger
}

func NewCatalogHandler(catalog Catalog, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: log}
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	minPrice, err := httputil.ParseFloatQuery(r, "min_price")
	if err != nil {
		h.writeError(w, "List", err)
		return
	}
	maxPrice, err := httputil.ParseFloatQuery(r, "max_price")
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	query := r.URL.Query()
	items := h.catalog.Find(r.Context(), catalog.Query{
		Category: query.Get("category"),
		Location: query.Get("location"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Text:     query.Get("q"),
	})

	if err := httputil.WriteOK(w, ListResponse{Items: items, Count: len(items)}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "List", "operation", "WriteJSON", "error", err)
	}
}

func (h *CatalogHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	item := h.catalog.GetByID(r.Context(), id)
	if item == nil {
		h.writeError(w, "GetByID", apperrors.NotFoundWithID("Catalog item", id))
		return
	}

	if err := httputil.WriteOK(w, item); err != nil {
		h.log.Error("failed to write JSON response", "handler", "GetByID", "operation", "WriteJSON", "error", err)
	}
}

func (h *CatalogHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/catalog", h.List)
	router.GET("/api/catalog/items/:id", h.GetByID)
}
