package ebook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockHandler(t *testing.T) (*HTTPHandler, *MockRepository) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockRepo := NewMockRepository(ctrl)
	return NewHTTPHandler(NewService(mockRepo)), mockRepo
}

func jsonRequest(method, path string, body any) *http.Request {
	payload, _ := json.Marshal(body)
	r := httptest.NewRequest(method, path, bytes.NewReader(payload))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestHTTPHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, mockRepo := newMockHandler(t)

		mockRepo.EXPECT().ExistsWithTitle(gomock.Any(), "The Hobbit").Return(false, nil)
		mockRepo.EXPECT().ExistsWithAuthor(gomock.Any(), "J.R.R. Tolkien").Return(false, nil)
		mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e *EBook) error {
				e.ID = 1
				return nil
			})

		w := httptest.NewRecorder()
		handler.Create(w, jsonRequest(http.MethodPost, "/api/ebook/", validInput("The Hobbit", "J.R.R. Tolkien")))

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool  `json:"success"`
			Data    EBook `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, int64(1), resp.Data.ID)
		assert.True(t, resp.Data.IsAvailable)
		assert.Equal(t, 0, resp.Data.Stock)
	})

	t.Run("validation failure", func(t *testing.T) {
		handler, _ := newMockHandler(t)

		in := validInput("Ab", "J.R.R. Tolkien")
		w := httptest.NewRecorder()
		handler.Create(w, jsonRequest(http.MethodPost, "/api/ebook/", in))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate", func(t *testing.T) {
		handler, mockRepo := newMockHandler(t)

		mockRepo.EXPECT().ExistsWithTitle(gomock.Any(), "The Hobbit").Return(true, nil)
		mockRepo.EXPECT().ExistsWithAuthor(gomock.Any(), "J.R.R. Tolkien").Return(true, nil)

		w := httptest.NewRecorder()
		handler.Create(w, jsonRequest(http.MethodPost, "/api/ebook/", validInput("The Hobbit", "J.R.R. Tolkien")))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHTTPHandler_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, mockRepo := newMockHandler(t)

		mockRepo.EXPECT().List(gomock.Any(), Filter{Genre: "Fantasy"}).Return([]EBook{{ID: 1, Title: "The Hobbit"}}, nil)

		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/api/ebook/?genre=Fantasy", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("repository error", func(t *testing.T) {
		handler, mockRepo := newMockHandler(t)

		mockRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/api/ebook/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		handler, mockRepo := newMockHandler(t)

		mockRepo.EXPECT().GetByID(gomock.Any(), int64(42)).Return(EBook{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/ebook/42", nil)
		r.SetPathValue("id", "42")
		handler.Get(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		handler, _ := newMockHandler(t)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/ebook/abc", nil)
		r.SetPathValue("id", "abc")
		handler.Get(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Update(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		handler, mockRepo := newMockHandler(t)

		mockRepo.EXPECT().GetByID(gomock.Any(), int64(42)).Return(EBook{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := jsonRequest(http.MethodPut, "/api/ebook/42", UpdateInput{Author: strPtr("Someone New")})
		r.SetPathValue("id", "42")
		handler.Update(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		handler, mockRepo := newMockHandler(t)

		existing := EBook{ID: 42, Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", Format: "EPUB", IsAvailable: true}
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(42)).Return(existing, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		r := jsonRequest(http.MethodPut, "/api/ebook/42", UpdateInput{Author: strPtr("Someone New")})
		r.SetPathValue("id", "42")
		handler.Update(w, r)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data EBook `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Someone New", resp.Data.Author)
		assert.Equal(t, "The Hobbit", resp.Data.Title)
	})
}

func TestHTTPHandler_IncrementStock(t *testing.T) {
	t.Run("non-positive delta", func(t *testing.T) {
		handler, mockRepo := newMockHandler(t)

		mockRepo.EXPECT().GetByID(gomock.Any(), int64(42)).Return(EBook{ID: 42, IsAvailable: true}, nil)

		w := httptest.NewRecorder()
		r := jsonRequest(http.MethodPut, "/api/ebook/42/increment-stock", StockInput{Stock: 0})
		r.SetPathValue("id", "42")
		handler.IncrementStock(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Purchase(t *testing.T) {
	t.Run("invalid order data", func(t *testing.T) {
		handler, _ := newMockHandler(t)

		w := httptest.NewRecorder()
		handler.Purchase(w, jsonRequest(http.MethodPost, "/api/ebook/purchase", PurchaseInput{ID: 0, Quantity: 1, Amount: 100}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		handler, mockRepo := newMockHandler(t)

		stocked := EBook{ID: 1, Title: "The Hobbit", IsAvailable: true, Price: intPtr(100), Stock: 10}
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(stocked, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e *EBook) error {
				assert.Equal(t, 5, e.Stock)
				return nil
			})

		w := httptest.NewRecorder()
		handler.Purchase(w, jsonRequest(http.MethodPost, "/api/ebook/purchase", PurchaseInput{ID: 1, Quantity: 5, Amount: 500}))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unavailable record reports not found", func(t *testing.T) {
		handler, mockRepo := newMockHandler(t)

		mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(EBook{ID: 1, IsAvailable: false, Price: intPtr(100), Stock: 10}, nil)

		w := httptest.NewRecorder()
		handler.Purchase(w, jsonRequest(http.MethodPost, "/api/ebook/purchase", PurchaseInput{ID: 1, Quantity: 5, Amount: 500}))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, mockRepo := newMockHandler(t)

		mockRepo.EXPECT().Delete(gomock.Any(), int64(42)).Return(nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/api/ebook/42", nil)
		r.SetPathValue("id", "42")
		handler.Delete(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})

	t.Run("not found", func(t *testing.T) {
		handler, mockRepo := newMockHandler(t)

		mockRepo.EXPECT().Delete(gomock.Any(), int64(42)).Return(ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/api/ebook/42", nil)
		r.SetPathValue("id", "42")
		handler.Delete(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
