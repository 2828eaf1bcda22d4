package services

import (
	"context"
	"io"

	"ledger-service/internal/event"
	"ledger-service/internal/models"

	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) ListTraders(ctx context.Context, params models.TraderListParams) ([]models.Trader, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Trader), args.Int(1), args.Error(2)
}

func (m *MockLedgerRepository) ListAllTraders(ctx context.Context) ([]models.Trader, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Trader), args.Error(1)
}

func (m *MockLedgerRepository) GetTraderByID(ctx context.Context, id int64) (*models.Trader, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trader), args.Error(1)
}

func (m *MockLedgerRepository) CreateTrader(ctx context.Context, req models.CreateTraderRequest) (*models.Trader, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trader), args.Error(1)
}

func (m *MockLedgerRepository) UpdateTrader(ctx context.Context, id int64, req models.UpdateTraderRequest) (*models.Trader, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trader), args.Error(1)
}

func (m *MockLedgerRepository) DeleteTrader(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) GetStatistics(ctx context.Context) (*models.LedgerStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LedgerStatistics), args.Error(1)
}

func (m *MockLedgerRepository) ListBills(ctx context.Context, traderID int64, params models.BillListParams) ([]models.Bill, int, error) {
	args := m.Called(ctx, traderID, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Bill), args.Int(1), args.Error(2)
}

func (m *MockLedgerRepository) GetBillByID(ctx context.Context, id int64) (*models.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *MockLedgerRepository) GetBillWithItems(ctx context.Context, id int64) (*models.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *MockLedgerRepository) CreateBillWithItems(ctx context.Context, traderID int64, input models.CreateBillInput, items []models.CreateBillItemRequest) (*models.Bill, error) {
	args := m.Called(ctx, traderID, input, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *MockLedgerRepository) UpdateBill(ctx context.Context, id int64, req models.UpdateBillRequest) (*models.Bill, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *MockLedgerRepository) DeleteBill(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) AddBillItem(ctx context.Context, billID int64, req models.CreateBillItemRequest) (*models.BillItem, error) {
	args := m.Called(ctx, billID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BillItem), args.Error(1)
}

func (m *MockLedgerRepository) UpdateBillItem(ctx context.Context, id int64, req models.UpdateBillItemRequest) (*models.BillItem, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BillItem), args.Error(1)
}

func (m *MockLedgerRepository) RemoveBillItem(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) RecordPayment(ctx context.Context, traderID int64, req models.CreatePaymentRequest, createdBy *int64) (*models.Payment, error) {
	args := m.Called(ctx, traderID, req, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockLedgerRepository) ListPayments(ctx context.Context, traderID int64, page, limit int) ([]models.Payment, int, error) {
	args := m.Called(ctx, traderID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Payment), args.Int(1), args.Error(2)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(ctx context.Context, evt event.LedgerEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) PutBillImage(ctx context.Context, billID int64, contentType string, size int64, reader io.Reader) (string, error) {
	args := m.Called(ctx, billID, contentType, size, reader)
	return args.String(0), args.Error(1)
}
