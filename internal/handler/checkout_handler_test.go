package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"brewcart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCheckoutService is a mock implementation of CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Quote(ctx context.Context, ownerKey string, couponCode *string) (*model.QuoteResponse, error) {
	args := m.Called(ctx, ownerKey, couponCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuoteResponse), args.Error(1)
}

func (m *MockCheckoutService) Checkout(ctx context.Context, ownerKey string, req *model.CheckoutRequest) (*model.OrderResponse, error) {
	args := m.Called(ctx, ownerKey, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockCheckoutService) GetOrder(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func testOrderResponse() *model.OrderResponse {
	orderID := uuid.New()
	return &model.OrderResponse{
		Order: model.Order{
			ID:       orderID,
			OwnerKey: "owner-1",
			Subtotal: decimal.RequireFromString("16.00"),
			Tax:      decimal.RequireFromString("1.28"),
			Discount: decimal.Zero,
			Total:    decimal.RequireFromString("17.28"),
		},
		Items: []model.OrderItem{
			{ID: uuid.New(), OrderID: orderID, ItemID: "latte", Name: "Latte", Quantity: 2},
		},
	}
}

func TestCheckoutHandler_Checkout(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		method         string
		ownerKey       string
		requestBody    interface{}
		mockReturn     *model.OrderResponse
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			method:         http.MethodPost,
			ownerKey:       "owner-1",
			requestBody:    &model.CheckoutRequest{},
			mockReturn:     testOrderResponse(),
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Empty cart",
			method:         http.MethodPost,
			ownerKey:       "owner-1",
			requestBody:    &model.CheckoutRequest{},
			mockError:      model.ErrCartEmpty,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Cart conflict",
			method:         http.MethodPost,
			ownerKey:       "owner-1",
			requestBody:    &model.CheckoutRequest{},
			mockError:      model.ErrCartConflict,
			expectedStatus: http.StatusConflict,
			expectService:  true,
		},
		{
			name:     "Coupon not found",
			method:   http.MethodPost,
			ownerKey: "owner-1",
			requestBody: &model.CheckoutRequest{
				CouponCode: func() *string { s := "NOPE"; return &s }(),
			},
			mockError:      model.ErrCouponNotFound,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:     "Coupon below minimum",
			method:   http.MethodPost,
			ownerKey: "owner-1",
			requestBody: &model.CheckoutRequest{
				CouponCode: func() *string { s := "BIGSPEND"; return &s }(),
			},
			mockError:      model.NewCouponBelowMinimumError(decimal.RequireFromString("25.00")),
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Missing owner key",
			method:         http.MethodPost,
			ownerKey:       "",
			requestBody:    &model.CheckoutRequest{},
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodGet,
			ownerKey:       "owner-1",
			expectedStatus: http.StatusMethodNotAllowed,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCheckoutService)
			h := NewCheckoutHandler(mockService, logger)

			var body []byte
			if tt.requestBody != nil {
				var err error
				body, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			if tt.expectService {
				mockService.On("Checkout", mock.Anything, tt.ownerKey, mock.AnythingOfType("*model.CheckoutRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(tt.method, "/api/checkout", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			if tt.ownerKey != "" {
				req.Header.Set("X-Owner-Key", tt.ownerKey)
			}
			w := httptest.NewRecorder()

			h.Checkout(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestCheckoutHandler_Quote(t *testing.T) {
	logger := zerolog.Nop()

	quote := &model.QuoteResponse{
		Subtotal: decimal.RequireFromString("16.00"),
		Tax:      decimal.RequireFromString("1.28"),
		Discount: decimal.RequireFromString("1.73"),
		Total:    decimal.RequireFromString("15.55"),
	}

	mockService := new(MockCheckoutService)
	h := NewCheckoutHandler(mockService, logger)

	couponCode := "SAVE10"
	mockService.On("Quote", mock.Anything, "owner-1", &couponCode).Return(quote, nil)

	body, err := json.Marshal(&model.QuoteRequest{CouponCode: &couponCode})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout/quote", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Owner-Key", "owner-1")
	w := httptest.NewRecorder()

	h.Quote(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp model.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Total.Equal(quote.Total))
	mockService.AssertExpectations(t)
}

func TestCheckoutHandler_GetOrder(t *testing.T) {
	logger := zerolog.Nop()

	orderID := uuid.New()

	tests := []struct {
		name           string
		method         string
		path           string
		mockReturn     *model.OrderResponse
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			method:         http.MethodGet,
			path:           "/api/orders/" + orderID.String(),
			mockReturn:     testOrderResponse(),
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Order not found - service returns nil",
			method:         http.MethodGet,
			path:           "/api/orders/" + uuid.New().String(),
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:           "Service error",
			method:         http.MethodGet,
			path:           "/api/orders/" + uuid.New().String(),
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
		{
			name:           "Invalid UUID format",
			method:         http.MethodGet,
			path:           "/api/orders/invalid-uuid",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodPut,
			path:           "/api/orders/" + orderID.String(),
			expectedStatus: http.StatusMethodNotAllowed,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCheckoutService)
			h := NewCheckoutHandler(mockService, logger)

			if tt.expectService {
				mockService.On("GetOrder", mock.Anything, mock.AnythingOfType("uuid.UUID")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			h.GetOrder(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}
