package handlers

import (
	"net/http"
	"time"

	"github.com/alextreichler/meatpoint/internal/service"
)

type bookingCreated struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *APIHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var in service.CreateBookingInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	b, err := h.Bookings.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"booking": bookingCreated{ID: b.ID, CreatedAt: b.CreatedAt},
	})
}

func (h *APIHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Bookings.Recent(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}
