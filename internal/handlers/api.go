package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/alextreichler/meatpoint/internal/store"
	"github.com/alextreichler/meatpoint/internal/validate"
)

const maxBodyBytes = 1 << 20

// Error codes of the JSON API.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInternal           = "INTERNAL_ERROR"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeAPIError(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, errorResponse{Error: apiError{Code: code, Message: message, Details: details}})
}

// writeError converts any error coming out of the service layer into the
// structured error body. Unknown errors are logged and reported generically.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		writeAPIError(w, http.StatusBadRequest, CodeValidation, "Invalid input", verr)
	case errors.Is(err, store.ErrItemUnavailable):
		writeAPIError(w, http.StatusNotFound, CodeNotFound, "Item not available", nil)
	case errors.Is(err, store.ErrNotFound):
		writeAPIError(w, http.StatusNotFound, CodeNotFound, "Item not found", nil)
	case errors.Is(err, store.ErrItemInUse):
		writeAPIError(w, http.StatusConflict, CodeConflict, "Item has bookings; deactivate it instead", nil)
	case errors.Is(err, store.ErrConflict):
		writeAPIError(w, http.StatusConflict, CodeConflict, "An item with this name already exists", nil)
	default:
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeAPIError(w, http.StatusInternalServerError, CodeInternal, "Internal server error", nil)
	}
}

// decodeJSON reads a JSON object body into dst. Syntax and type problems are
// reported as validation errors, and so is an explicit null for any field of
// dst: optional fields are omitted, never null.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return validate.FormError("Request body too large")
		}
		return validate.FormError("Malformed JSON")
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return validate.FormError("Request body must be a JSON object")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return validate.FormError("Malformed JSON")
	}
	if err := rejectNulls(fields, reflect.TypeOf(dst).Elem()); err != nil {
		return err
	}

	var typeErr *json.UnmarshalTypeError
	err = json.Unmarshal(raw, dst)
	switch {
	case err == nil:
		return nil
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return validate.FieldError(typeErr.Field, fmt.Sprintf("expected %s, received %s", jsonKind(typeErr.Type.Kind().String()), typeErr.Value))
	default:
		return validate.FormError("Malformed JSON")
	}
}

// rejectNulls reports every field of struct type t that the body sets to null.
func rejectNulls(fields map[string]json.RawMessage, t reflect.Type) *validate.Error {
	if t.Kind() != reflect.Struct {
		return nil
	}
	var out *validate.Error
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			if nested := rejectNulls(fields, f.Type); nested != nil {
				if out == nil {
					out = nested
					continue
				}
				for name, msgs := range nested.FieldErrors {
					out.FieldErrors[name] = msgs
				}
			}
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if v, ok := fields[name]; !ok || string(v) != "null" {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if out == nil {
			out = &validate.Error{FormErrors: []string{}, FieldErrors: map[string][]string{}}
		}
		out.FieldErrors[name] = []string{"expected " + jsonKind(ft.Kind().String()) + ", received null"}
	}
	return out
}

func jsonKind(goKind string) string {
	switch goKind {
	case "int", "int64", "int32":
		return "integer"
	case "bool":
		return "boolean"
	case "string":
		return "string"
	default:
		return goKind
	}
}
