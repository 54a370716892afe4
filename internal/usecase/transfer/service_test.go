package transfer

import (
	"context"
	"testing"
	"time"

	"github.com/mehrbank/ledger-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClientRepository is a mock implementation of ClientRepository for testing
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Update(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) UpdateBalances(ctx context.Context, clients ...*domain.Client) error {
	args := m.Called(ctx, clients)
	return args.Error(0)
}

func (m *MockClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) GetByNationalID(ctx context.Context, nationalID string) (*domain.Client, error) {
	args := m.Called(ctx, nationalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Client, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *MockClientRepository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	args := m.Called(ctx, nationalID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientRepository) ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	args := m.Called(ctx, accountNumber)
	return args.Bool(0), args.Error(1)
}

// MockTrackingRepository is a mock implementation of TrackingRepository for testing
type MockTrackingRepository struct {
	mock.Mock
}

func (m *MockTrackingRepository) Create(ctx context.Context, tracking *domain.TransferTracking) error {
	args := m.Called(ctx, tracking)
	return args.Error(0)
}

func (m *MockTrackingRepository) Update(ctx context.Context, tracking *domain.TransferTracking) error {
	args := m.Called(ctx, tracking)
	return args.Error(0)
}

func (m *MockTrackingRepository) GetByTrackingCode(ctx context.Context, code string) (*domain.TransferTracking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferTracking), args.Error(1)
}

func (m *MockTrackingRepository) Find(ctx context.Context, query domain.TrackingQuery) ([]*domain.TransferTracking, int64, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.TransferTracking), args.Get(1).(int64), args.Error(2)
}

func (m *MockTrackingRepository) FindLastByAccountAndType(ctx context.Context, accountNumber string, transferType domain.TransferType, offset, limit int) ([]*domain.TransferTracking, int64, error) {
	args := m.Called(ctx, accountNumber, transferType, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.TransferTracking), args.Get(1).(int64), args.Error(2)
}

const (
	senderAccount   = "12345678901234"
	receiverAccount = "43210987654321"
)

func mockTime() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func activeClient(accountNumber, name, balance string) *domain.Client {
	return &domain.Client{
		Name:          name,
		AccountNumber: accountNumber,
		AccountStatus: domain.AccountStatusActive,
		Inventory:     decimal.RequireFromString(balance),
	}
}

// newTestService wires a service against mocks that accept any tracking
// writes and hand back the captured record for assertions
func newTestService(clientRepo *MockClientRepository) (*Service, *MockTrackingRepository, *domain.TransferTracking) {
	trackingRepo := new(MockTrackingRepository)
	captured := &domain.TransferTracking{}

	trackingRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.TransferTracking")).
		Run(func(args mock.Arguments) {
			*captured = *args.Get(1).(*domain.TransferTracking)
		}).
		Return(nil)
	trackingRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.TransferTracking")).
		Run(func(args mock.Arguments) {
			*captured = *args.Get(1).(*domain.TransferTracking)
		}).
		Return(nil)

	return NewService(clientRepo, trackingRepo), trackingRepo, captured
}

func TestProcess_DepositIncreasesBalance(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	sender := activeClient(senderAccount, "Sara Ahmadi", "100.0000")

	clientRepo.On("GetByAccountNumber", ctx, senderAccount).Return(sender, nil)
	clientRepo.On("UpdateBalances", ctx, mock.Anything).Return(nil)

	service, _, tracking := newTestService(clientRepo)

	code, err := service.Process(ctx, Request{
		Type:                domain.TransferTypeDeposit,
		SenderAccountNumber: senderAccount,
		Amount:              decimal.RequireFromString("25.5000"),
	})

	require.NoError(t, err)
	assert.Len(t, code, domain.TrackingCodeLength)
	assert.Equal(t, domain.TransferStatusCompleted, tracking.Status)
	assert.True(t, tracking.Fee.IsZero())
	assert.True(t, sender.Inventory.Equal(decimal.RequireFromString("125.5000")),
		"got balance %s", sender.Inventory)
	assert.False(t, sender.LastUsageDate.IsZero())
}

func TestProcess_HarvestDecreasesBalance(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	sender := activeClient(senderAccount, "Sara Ahmadi", "100.0000")

	clientRepo.On("GetByAccountNumber", ctx, senderAccount).Return(sender, nil)
	clientRepo.On("UpdateBalances", ctx, mock.Anything).Return(nil)

	service, _, tracking := newTestService(clientRepo)

	_, err := service.Process(ctx, Request{
		Type:                domain.TransferTypeHarvest,
		SenderAccountNumber: senderAccount,
		Amount:              decimal.RequireFromString("40.0000"),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusCompleted, tracking.Status)
	assert.True(t, tracking.Fee.IsZero())
	assert.True(t, sender.Inventory.Equal(decimal.RequireFromString("60.0000")))
}

func TestProcess_TransferMovesAmountAndChargesFee(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	sender := activeClient(senderAccount, "Sara Ahmadi", "100.0000")
	receiver := activeClient(receiverAccount, "Omid Karimi", "10.0000")

	clientRepo.On("GetByAccountNumber", ctx, senderAccount).Return(sender, nil)
	clientRepo.On("GetByAccountNumber", ctx, receiverAccount).Return(receiver, nil)
	clientRepo.On("UpdateBalances", ctx, mock.Anything).Return(nil)

	service, _, tracking := newTestService(clientRepo)

	_, err := service.Process(ctx, Request{
		Type:                  domain.TransferTypeTransfer,
		SenderAccountNumber:   senderAccount,
		ReceiverAccountNumber: receiverAccount,
		Amount:                decimal.RequireFromString("50.0000"),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusCompleted, tracking.Status)
	assert.True(t, tracking.Fee.Equal(decimal.RequireFromString("0.0500")), "got fee %s", tracking.Fee)
	assert.True(t, sender.Inventory.Equal(decimal.RequireFromString("49.9500")), "got sender balance %s", sender.Inventory)
	assert.True(t, receiver.Inventory.Equal(decimal.RequireFromString("60.0000")), "got receiver balance %s", receiver.Inventory)

	clientRepo.AssertCalled(t, "UpdateBalances", ctx, mock.MatchedBy(func(clients []*domain.Client) bool {
		return len(clients) == 2
	}))
}

func TestProcess_InsufficientFundsFailsWithoutMutation(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	sender := activeClient(senderAccount, "Sara Ahmadi", "10.0000")

	clientRepo.On("GetByAccountNumber", ctx, senderAccount).Return(sender, nil)

	service, _, tracking := newTestService(clientRepo)

	code, err := service.Process(ctx, Request{
		Type:                domain.TransferTypeHarvest,
		SenderAccountNumber: senderAccount,
		Amount:              decimal.RequireFromString("20.0000"),
	})

	require.NoError(t, err, "domain failures are recorded, not returned")
	assert.Len(t, code, domain.TrackingCodeLength)
	assert.Equal(t, domain.TransferStatusFailed, tracking.Status)
	assert.Equal(t, "insufficient funds", tracking.ErrorMessage)
	assert.True(t, tracking.Fee.IsZero())
	assert.True(t, sender.Inventory.Equal(decimal.RequireFromString("10.0000")), "balance must be untouched")
	clientRepo.AssertNotCalled(t, "UpdateBalances", mock.Anything, mock.Anything)
}

func TestProcess_TransferSufficiencyIncludesFee(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	// Exactly amount + fee available: 50 + 0.05
	sender := activeClient(senderAccount, "Sara Ahmadi", "50.0500")
	receiver := activeClient(receiverAccount, "Omid Karimi", "0.0000")

	clientRepo.On("GetByAccountNumber", ctx, senderAccount).Return(sender, nil)
	clientRepo.On("GetByAccountNumber", ctx, receiverAccount).Return(receiver, nil)
	clientRepo.On("UpdateBalances", ctx, mock.Anything).Return(nil)

	service, _, tracking := newTestService(clientRepo)

	_, err := service.Process(ctx, Request{
		Type:                  domain.TransferTypeTransfer,
		SenderAccountNumber:   senderAccount,
		ReceiverAccountNumber: receiverAccount,
		Amount:                decimal.RequireFromString("50.0000"),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusCompleted, tracking.Status)
	assert.True(t, sender.Inventory.IsZero(), "got sender balance %s", sender.Inventory)

	// One ten-thousandth less must fail
	shortSender := activeClient(senderAccount, "Sara Ahmadi", "50.0499")
	shortRepo := new(MockClientRepository)
	shortRepo.On("GetByAccountNumber", ctx, senderAccount).Return(shortSender, nil)
	shortRepo.On("GetByAccountNumber", ctx, receiverAccount).Return(receiver, nil)

	service, _, tracking = newTestService(shortRepo)
	_, err = service.Process(ctx, Request{
		Type:                  domain.TransferTypeTransfer,
		SenderAccountNumber:   senderAccount,
		ReceiverAccountNumber: receiverAccount,
		Amount:                decimal.RequireFromString("50.0000"),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusFailed, tracking.Status)
	assert.Equal(t, "insufficient funds", tracking.ErrorMessage)
}

func TestProcess_SelfTransferFails(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	sender := activeClient(senderAccount, "Sara Ahmadi", "100.0000")

	clientRepo.On("GetByAccountNumber", ctx, senderAccount).Return(sender, nil)

	service, _, tracking := newTestService(clientRepo)

	_, err := service.Process(ctx, Request{
		Type:                  domain.TransferTypeTransfer,
		SenderAccountNumber:   senderAccount,
		ReceiverAccountNumber: senderAccount,
		Amount:                decimal.RequireFromString("10.0000"),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusFailed, tracking.Status)
	assert.Equal(t, "sender and receiver accounts cannot be the same", tracking.ErrorMessage)
	assert.True(t, sender.Inventory.Equal(decimal.RequireFromString("100.0000")))
	clientRepo.AssertNotCalled(t, "UpdateBalances", mock.Anything, mock.Anything)
}

func TestProcess_MissingReceiverFails(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	sender := activeClient(senderAccount, "Sara Ahmadi", "100.0000")

	clientRepo.On("GetByAccountNumber", ctx, senderAccount).Return(sender, nil)

	service, _, tracking := newTestService(clientRepo)

	_, err := service.Process(ctx, Request{
		Type:                domain.TransferTypeTransfer,
		SenderAccountNumber: senderAccount,
		Amount:              decimal.RequireFromString("10.0000"),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusFailed, tracking.Status)
	assert.Equal(t, "receiver account number is required for transfers", tracking.ErrorMessage)
}

func TestProcess_UnknownSenderFails(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	clientRepo.On("GetByAccountNumber", ctx, senderAccount).Return(nil, domain.ErrClientNotFound)

	service, _, tracking := newTestService(clientRepo)

	_, err := service.Process(ctx, Request{
		Type:                domain.TransferTypeDeposit,
		SenderAccountNumber: senderAccount,
		Amount:              decimal.RequireFromString("10.0000"),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusFailed, tracking.Status)
	assert.Equal(t, "sender account not found", tracking.ErrorMessage)
}

func TestProcess_InactiveAccountsFailWithStatusInMessage(t *testing.T) {
	ctx := context.Background()

	banned := activeClient(senderAccount, "Sara Ahmadi", "100.0000")
	banned.AccountStatus = domain.AccountStatusBanned

	clientRepo := new(MockClientRepository)
	clientRepo.On("GetByAccountNumber", ctx, senderAccount).Return(banned, nil)

	service, _, tracking := newTestService(clientRepo)
	_, err := service.Process(ctx, Request{
		Type:                domain.TransferTypeDeposit,
		SenderAccountNumber: senderAccount,
		Amount:              decimal.RequireFromString("10.0000"),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusFailed, tracking.Status)
	assert.Equal(t, "sender account is banned", tracking.ErrorMessage)

	// Inactive receiver on a transfer
	sender := activeClient(senderAccount, "Sara Ahmadi", "100.0000")
	inactive := activeClient(receiverAccount, "Omid Karimi", "0.0000")
	inactive.AccountStatus = domain.AccountStatusInactive

	clientRepo = new(MockClientRepository)
	clientRepo.On("GetByAccountNumber", ctx, senderAccount).Return(sender, nil)
	clientRepo.On("GetByAccountNumber", ctx, receiverAccount).Return(inactive, nil)

	service, _, tracking = newTestService(clientRepo)
	_, err = service.Process(ctx, Request{
		Type:                  domain.TransferTypeTransfer,
		SenderAccountNumber:   senderAccount,
		ReceiverAccountNumber: receiverAccount,
		Amount:                decimal.RequireFromString("10.0000"),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusFailed, tracking.Status)
	assert.Equal(t, "receiver account is inactive", tracking.ErrorMessage)
}

func TestProcess_RejectsAmountBelowMinimumBeforeTracking(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	trackingRepo := new(MockTrackingRepository)
	service := NewService(clientRepo, trackingRepo)

	_, err := service.Process(ctx, Request{
		Type:                domain.TransferTypeDeposit,
		SenderAccountNumber: senderAccount,
		Amount:              decimal.RequireFromString("0.00009"),
	})

	assert.ErrorIs(t, err, domain.ErrAmountBelowMinimum)
	trackingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProcess_RejectsUnknownType(t *testing.T) {
	ctx := context.Background()
	service := NewService(new(MockClientRepository), new(MockTrackingRepository))

	_, err := service.Process(ctx, Request{
		Type:                domain.TransferType("WITHDRAW"),
		SenderAccountNumber: senderAccount,
		Amount:              decimal.RequireFromString("10.0000"),
	})

	assert.Error(t, err)
}

func TestGetStatus_EnrichesCurrentNames(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	trackingRepo := new(MockTrackingRepository)

	stored := domain.NewTransferTracking("A1B2C3D4E5F6A7B8", domain.TransferTypeTransfer,
		senderAccount, receiverAccount, decimal.RequireFromString("50.0000"), "", mockTime())

	trackingRepo.On("GetByTrackingCode", ctx, "A1B2C3D4E5F6A7B8").Return(stored, nil)
	clientRepo.On("GetByAccountNumber", ctx, senderAccount).Return(activeClient(senderAccount, "Sara Renamed", "0"), nil)
	clientRepo.On("GetByAccountNumber", ctx, receiverAccount).Return(nil, domain.ErrClientNotFound)

	service := NewService(clientRepo, trackingRepo)

	status, err := service.GetStatus(ctx, "A1B2C3D4E5F6A7B8")

	require.NoError(t, err)
	assert.Equal(t, "Sara Renamed", status.SenderName)
	assert.Empty(t, status.ReceiverName, "unresolvable accounts enrich as empty")
	assert.Same(t, stored, status.Tracking)
}

func TestGetStatus_UnknownCode(t *testing.T) {
	ctx := context.Background()
	trackingRepo := new(MockTrackingRepository)
	trackingRepo.On("GetByTrackingCode", ctx, "0000000000000000").Return(nil, domain.ErrTrackingNotFound)

	service := NewService(new(MockClientRepository), trackingRepo)

	_, err := service.GetStatus(ctx, "0000000000000000")
	assert.ErrorIs(t, err, domain.ErrTrackingNotFound)
}
