package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/alextreichler/meatpoint/internal/service"
	"github.com/alextreichler/meatpoint/internal/store"
	"github.com/alextreichler/meatpoint/internal/validate"
)

var rupeesRe = regexp.MustCompile(`^([0-9]{1,9})(?:\.([0-9]{1,2}))?$`)

// parseRupees reads a price typed in rupees ("249" or "249.50") as minor units.
func parseRupees(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("price is required")
	}
	m := rupeesRe.FindStringSubmatch(s)
	if m == nil {
		return 0, errors.New("price must be in rupees with at most two decimals, e.g. 249.50")
	}
	rupees, _ := strconv.Atoi(m[1])
	paise := 0
	if m[2] != "" {
		paise, _ = strconv.Atoi(m[2])
		if len(m[2]) == 1 {
			paise *= 10
		}
	}
	return rupees*100 + paise, nil
}

func (h *AdminHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flash(w, r, "error", "Could not read the form.")
		return
	}

	price, err := parseRupees(r.PostFormValue("price"))
	if err != nil {
		h.flash(w, r, "error", err.Error())
		return
	}
	active := r.PostFormValue("isActive") != ""
	in := service.CreateItemInput{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: optionalString(r.PostFormValue("description")),
		PriceCents:  price,
		IsActive:    &active,
	}

	item, err := h.Catalog.CreateItem(r.Context(), in)
	if err != nil {
		h.flash(w, r, "error", itemErrorMessage(err))
		return
	}
	h.flash(w, r, "success", "Item \""+item.Name+"\" added.")
}

// UpdateItem applies the edit form. Every field is sent, so this is a full
// replacement expressed as a patch.
func (h *AdminHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flash(w, r, "error", "Could not read the form.")
		return
	}

	price, err := parseRupees(r.PostFormValue("price"))
	if err != nil {
		h.flash(w, r, "error", err.Error())
		return
	}
	name := strings.TrimSpace(r.PostFormValue("name"))
	desc := strings.TrimSpace(r.PostFormValue("description"))
	active := r.PostFormValue("isActive") != ""
	in := service.UpdateItemInput{
		Name:        &name,
		Description: &desc,
		PriceCents:  &price,
		IsActive:    &active,
	}

	item, err := h.Catalog.UpdateItem(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.flash(w, r, "error", itemErrorMessage(err))
		return
	}
	h.flash(w, r, "success", "Item \""+item.Name+"\" updated.")
}

// ToggleItem flips availability without touching the other fields.
func (h *AdminHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	active := r.PostFormValue("isActive") == "true"
	item, err := h.Catalog.UpdateItem(r.Context(), r.PathValue("id"), service.UpdateItemInput{IsActive: &active})
	if err != nil {
		h.flash(w, r, "error", itemErrorMessage(err))
		return
	}
	state := "hidden"
	if item.IsActive {
		state = "active"
	}
	h.flash(w, r, "success", "Item \""+item.Name+"\" is now "+state+".")
}

func (h *AdminHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeleteItem(r.Context(), r.PathValue("id")); err != nil {
		h.flash(w, r, "error", itemErrorMessage(err))
		return
	}
	h.flash(w, r, "success", "Item deleted.")
}

func itemErrorMessage(err error) string {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		return strings.Join(verr.Messages(), "; ")
	case errors.Is(err, store.ErrNotFound):
		return "Item not found."
	case errors.Is(err, store.ErrItemInUse):
		return "This item has bookings. Hide it instead of deleting."
	case errors.Is(err, store.ErrConflict):
		return "An item with this name already exists."
	default:
		slog.Error("Item operation failed", "error", err)
		return "Something went wrong. Please try again."
	}
}
