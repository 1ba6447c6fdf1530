package ebook

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"ebookapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Create handles POST /api/ebook/
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if fieldErrors := ValidateInput(in); fieldErrors != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "All ebook fields must be provided", toDetails(fieldErrors))
		return
	}

	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, created, nil)
}

// List handles GET /api/ebook/
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	ebooks, err := h.service.List(r.Context(), query.Get("genre"), query.Get("author"), query.Get("format"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, ebooks, map[string]any{"count": len(ebooks)})
}

// Get handles GET /api/ebook/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.readID(w, r)
	if !ok {
		return
	}

	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, e, nil)
}

// Update handles PUT /api/ebook/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.readID(w, r)
	if !ok {
		return
	}

	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if fieldErrors := ValidateInput(in); fieldErrors != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ebook fields", toDetails(fieldErrors))
		return
	}

	updated, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, updated, nil)
}

// ChangeAvailability handles PUT /api/ebook/{id}/change-availability
func (h *HTTPHandler) ChangeAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := h.readID(w, r)
	if !ok {
		return
	}

	updated, err := h.service.ChangeAvailability(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, updated, nil)
}

// IncrementStock handles PUT /api/ebook/{id}/increment-stock
func (h *HTTPHandler) IncrementStock(w http.ResponseWriter, r *http.Request) {
	id, ok := h.readID(w, r)
	if !ok {
		return
	}

	var in StockInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	updated, err := h.service.IncrementStock(r.Context(), id, in.Stock)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, updated, nil)
}

// Purchase handles POST /api/ebook/purchase
func (h *HTTPHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var in PurchaseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if err := h.service.Purchase(r.Context(), in); err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]string{"message": "purchase completed"}, nil)
}

// Delete handles DELETE /api/ebook/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.readID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func (h *HTTPHandler) readID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid ebook id", nil)
		return 0, false
	}
	return id, true
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalid):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, ErrConflict):
		httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "The ebook is already registered", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Ebook not found", nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

func toDetails(fieldErrors []FieldError) []httpx.ErrorDetail {
	details := make([]httpx.ErrorDetail, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		details = append(details, httpx.ErrorDetail{Field: fe.Field, Message: fe.Message})
	}
	return details
}
