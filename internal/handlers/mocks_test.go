package handlers

import (
	"context"
	"io"

	"ledger-service/internal/models"
	"ledger-service/internal/services"

	"github.com/stretchr/testify/mock"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) ListTraders(ctx context.Context, params models.TraderListParams) ([]models.Trader, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Trader), args.Int(1), args.Error(2)
}

func (m *MockLedgerService) GetTrader(ctx context.Context, id int64) (*models.Trader, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trader), args.Error(1)
}

func (m *MockLedgerService) CreateTrader(ctx context.Context, req models.CreateTraderRequest) (*models.Trader, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trader), args.Error(1)
}

func (m *MockLedgerService) UpdateTrader(ctx context.Context, id int64, req models.UpdateTraderRequest) (*models.Trader, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trader), args.Error(1)
}

func (m *MockLedgerService) DeleteTrader(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLedgerService) GetBalance(ctx context.Context, traderID int64) (*models.TraderBalance, error) {
	args := m.Called(ctx, traderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TraderBalance), args.Error(1)
}

func (m *MockLedgerService) GetStatistics(ctx context.Context) (*models.LedgerStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LedgerStatistics), args.Error(1)
}

func (m *MockLedgerService) ExportTraders(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	if payload, ok := args.Get(0).([]byte); ok {
		_, _ = w.Write(payload)
		return args.Error(1)
	}
	return args.Error(1)
}

func (m *MockLedgerService) GetBills(ctx context.Context, traderID int64, params models.BillListParams) ([]models.Bill, int, error) {
	args := m.Called(ctx, traderID, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Bill), args.Int(1), args.Error(2)
}

func (m *MockLedgerService) GetBill(ctx context.Context, id int64) (*models.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *MockLedgerService) CreateBill(ctx context.Context, traderID int64, req models.CreateBillRequest, createdBy *int64) (*models.Bill, error) {
	args := m.Called(ctx, traderID, req, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *MockLedgerService) UpdateBill(ctx context.Context, id int64, req models.UpdateBillRequest) (*models.Bill, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *MockLedgerService) DeleteBill(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLedgerService) UploadBillImage(ctx context.Context, billID int64, upload services.BillImageUpload) (*models.Bill, error) {
	args := m.Called(ctx, billID, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *MockLedgerService) AddBillItem(ctx context.Context, billID int64, req models.CreateBillItemRequest) (*models.BillItem, error) {
	args := m.Called(ctx, billID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BillItem), args.Error(1)
}

func (m *MockLedgerService) UpdateBillItem(ctx context.Context, id int64, req models.UpdateBillItemRequest) (*models.BillItem, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BillItem), args.Error(1)
}

func (m *MockLedgerService) RemoveBillItem(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLedgerService) GetPayments(ctx context.Context, traderID int64, page, limit int) ([]models.Payment, int, error) {
	args := m.Called(ctx, traderID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Payment), args.Int(1), args.Error(2)
}

func (m *MockLedgerService) RecordPayment(ctx context.Context, traderID int64, req models.CreatePaymentRequest, createdBy *int64) (*models.Payment, error) {
	args := m.Called(ctx, traderID, req, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

type fakeRevocation struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocation) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[jti], nil
}
