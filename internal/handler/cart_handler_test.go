package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"brewcart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, ownerKey string) (*model.Cart, error) {
	args := m.Called(ctx, ownerKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, ownerKey string, req *model.AddItemRequest) (*model.Cart, error) {
	args := m.Called(ctx, ownerKey, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) UpdateItem(ctx context.Context, ownerKey, lineID string, req *model.UpdateItemRequest) (*model.Cart, error) {
	args := m.Called(ctx, ownerKey, lineID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, ownerKey, lineID string) (*model.Cart, error) {
	args := m.Called(ctx, ownerKey, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, ownerKey string) error {
	args := m.Called(ctx, ownerKey)
	return args.Error(0)
}

func testCart() *model.Cart {
	return &model.Cart{
		OwnerKey: "owner-1",
		Status:   model.CartStatusActive,
		Version:  1,
		Items: []model.CartItem{
			{LineID: "l1", ItemID: "latte", Quantity: 2},
		},
	}
}

func TestCartHandler_Get(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		ownerKey       string
		mockReturn     *model.Cart
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			ownerKey:       "owner-1",
			mockReturn:     testCart(),
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Missing owner key",
			ownerKey:       "",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Service error",
			ownerKey:       "owner-1",
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCartService)
			h := NewCartHandler(mockService, logger)

			if tt.expectService {
				mockService.On("GetCart", mock.Anything, tt.ownerKey).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
			if tt.ownerKey != "" {
				req.Header.Set("X-Owner-Key", tt.ownerKey)
			}
			w := httptest.NewRecorder()

			h.Get(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestCartHandler_AddItem(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		requestBody    interface{}
		mockReturn     *model.Cart
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			requestBody:    &model.AddItemRequest{ItemID: "latte", Quantity: 2, Size: "large"},
			mockReturn:     testCart(),
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Unknown item",
			requestBody:    &model.AddItemRequest{ItemID: "flat-white", Quantity: 1},
			mockError:      model.ErrItemNotFound,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Size not available",
			requestBody:    &model.AddItemRequest{ItemID: "latte", Quantity: 1, Size: "venti"},
			mockError:      model.ErrSizeNotAvailable,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Cart conflict",
			requestBody:    &model.AddItemRequest{ItemID: "latte", Quantity: 1},
			mockError:      model.ErrCartConflict,
			expectedStatus: http.StatusConflict,
			expectService:  true,
		},
		{
			name:           "Missing item ID",
			requestBody:    &model.AddItemRequest{Quantity: 1},
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Invalid JSON",
			requestBody:    "invalid json",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCartService)
			h := NewCartHandler(mockService, logger)

			var body []byte
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				var err error
				body, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			if tt.expectService {
				mockService.On("AddItem", mock.Anything, "owner-1", mock.AnythingOfType("*model.AddItemRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/cart/items", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Owner-Key", "owner-1")
			w := httptest.NewRecorder()

			h.AddItem(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestCartHandler_Clear(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		ownerKey       string
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			ownerKey:       "owner-1",
			expectedStatus: http.StatusNoContent,
			expectService:  true,
		},
		{
			name:           "Cart conflict",
			ownerKey:       "owner-1",
			mockError:      model.ErrCartConflict,
			expectedStatus: http.StatusConflict,
			expectService:  true,
		},
		{
			name:           "Missing owner key",
			ownerKey:       "",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCartService)
			h := NewCartHandler(mockService, logger)

			if tt.expectService {
				mockService.On("Clear", mock.Anything, tt.ownerKey).Return(tt.mockError)
			}

			req := httptest.NewRequest(http.MethodDelete, "/api/cart", nil)
			if tt.ownerKey != "" {
				req.Header.Set("X-Owner-Key", tt.ownerKey)
			}
			w := httptest.NewRecorder()

			h.Clear(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestCartHandler_RemoveItem(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		lineID         string
		mockReturn     *model.Cart
		mockError      error
		expectedStatus int
	}{
		{
			name:           "Success",
			lineID:         "l1",
			mockReturn:     &model.Cart{OwnerKey: "owner-1", Status: model.CartStatusActive, Version: 2},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Line not found",
			lineID:         "missing",
			mockError:      model.ErrLineNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCartService)
			h := NewCartHandler(mockService, logger)

			mockService.On("RemoveItem", mock.Anything, "owner-1", tt.lineID).Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodDelete, "/api/cart/items/"+tt.lineID, nil)
			req.Header.Set("X-Owner-Key", "owner-1")
			w := httptest.NewRecorder()

			h.RemoveItem(w, req, tt.lineID)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
