package handlers

import (
	"net/http"

	"github.com/alextreichler/meatpoint/internal/auth"
	"github.com/alextreichler/meatpoint/internal/service"
	"github.com/alextreichler/meatpoint/internal/store"
)

// APIHandler serves the JSON API under /api.
type APIHandler struct {
	Store    *store.Store
	Catalog  *service.CatalogService
	Bookings *service.BookingService
	Auth     *auth.Service
	Issuer   *auth.Issuer
}

func (h *APIHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.PublicItems(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *APIHandler) ListAllItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.AllItems(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *APIHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var in service.CreateItemInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.Catalog.CreateItem(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"item": item})
}

func (h *APIHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateItemInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.Catalog.UpdateItem(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

func (h *APIHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeleteItem(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *APIHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeAPIError(w, http.StatusNotFound, CodeNotFound, "Route not found", nil)
}
