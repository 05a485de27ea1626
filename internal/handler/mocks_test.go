package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boutique/internal/auth"
	"boutique/internal/middleware"
	"boutique/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "handler-test-secret"

// serveAuthed signs a token for the user and serves the request through the
// authentication middleware, the way the router wires protected routes.
func serveAuthed(t *testing.T, fn http.HandlerFunc, req *http.Request, user *model.User) *httptest.ResponseRecorder {
	t.Helper()

	token, err := auth.SignToken(user, testJWTSecret, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	middleware.Authenticate(testJWTSecret, zerolog.Nop())(fn).ServeHTTP(w, req)
	return w
}

// MockSaleService is a mock implementation of service.SaleService.
type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) CreateSale(ctx context.Context, req *model.CreateSaleRequest) (*model.Sale, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sale), args.Error(1)
}

func (m *MockSaleService) CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreateOrderResponse), args.Error(1)
}

func (m *MockSaleService) GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sale), args.Error(1)
}

func (m *MockSaleService) List(ctx context.Context, filter model.SaleFilter) (*model.SaleList, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SaleList), args.Error(1)
}

func (m *MockSaleService) Cancel(ctx context.Context, id uuid.UUID, reason, actorEmail string) error {
	args := m.Called(ctx, id, reason, actorEmail)
	return args.Error(0)
}

func (m *MockSaleService) SetDelivering(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSaleService) SetCompleted(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSaleService) RequestRefund(ctx context.Context, id uuid.UUID, message string) error {
	args := m.Called(ctx, id, message)
	return args.Error(0)
}

func (m *MockSaleService) CompleteRefund(ctx context.Context, id uuid.UUID, message string, action model.RefundAction) error {
	args := m.Called(ctx, id, message, action)
	return args.Error(0)
}

// MockPaymentService is a mock implementation of service.PaymentService.
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Initiate(ctx context.Context, saleID uuid.UUID) (string, error) {
	args := m.Called(ctx, saleID)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentService) HandleCallback(ctx context.Context, externalRef, status string) error {
	args := m.Called(ctx, externalRef, status)
	return args.Error(0)
}

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}
