package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/alextreichler/meatpoint/internal/models"
	"github.com/alextreichler/meatpoint/internal/service"
	"github.com/alextreichler/meatpoint/internal/store"
	"github.com/alextreichler/meatpoint/internal/validate"
)

const publicSession = "public-session"

var bookingFormFields = []string{"itemId", "qty", "customerName", "phone", "fulfillment", "note"}

type HomeHandler struct {
	Catalog      *service.CatalogService
	Bookings     *service.BookingService
	Templates    *TemplateCache
	SessionStore sessions.Store
}

func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.PublicItems(r.Context())
	if err != nil {
		slog.Error("Failed to list items", "error", err)
		http.Error(w, "Error fetching items", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, publicSession)
	values, _ := session.Values["form"].(map[string]string)
	delete(session.Values, "form")

	data := map[string]any{
		"Items":     items,
		"Flashes":   GetFlash(session),
		"Values":    values,
		"CsrfField": csrf.TemplateField(r),
	}
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	h.Templates.Render(w, "home.html", data)
}

// SubmitBooking handles the booking form on the home page.
func (h *HomeHandler) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, publicSession)

	if err := r.ParseForm(); err != nil {
		h.bookingFailed(w, r, session, "Could not read the form.")
		return
	}

	in := service.CreateBookingInput{
		ItemID:       r.PostFormValue("itemId"),
		CustomerName: strings.TrimSpace(r.PostFormValue("customerName")),
		Phone:        strings.TrimSpace(r.PostFormValue("phone")),
		Fulfillment:  models.Fulfillment(r.PostFormValue("fulfillment")),
	}
	if note := strings.TrimSpace(r.PostFormValue("note")); note != "" {
		in.Note = &note
	}
	qty, err := strconv.Atoi(r.PostFormValue("qty"))
	if err != nil {
		h.bookingFailed(w, r, session, "qty: must be a whole number")
		return
	}
	in.Qty = qty

	b, err := h.Bookings.Create(r.Context(), in)
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		h.bookingFailed(w, r, session, strings.Join(verr.Messages(), "; "))
		return
	case errors.Is(err, store.ErrItemUnavailable):
		h.bookingFailed(w, r, session, "That item is not available any more.")
		return
	case err != nil:
		slog.Error("Failed to create booking", "error", err)
		h.bookingFailed(w, r, session, "Something went wrong. Please try again.")
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Booking confirmed! Reference: " + b.ID})
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// bookingFailed flashes msg and keeps the submitted values so the form can be
// refilled after the redirect.
func (h *HomeHandler) bookingFailed(w http.ResponseWriter, r *http.Request, session *sessions.Session, msg string) {
	values := make(map[string]string, len(bookingFormFields))
	for _, f := range bookingFormFields {
		values[f] = r.PostFormValue(f)
	}
	session.Values["form"] = values
	session.AddFlash(FlashMessage{Type: "error", Message: msg})
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
