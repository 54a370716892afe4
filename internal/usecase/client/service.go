package client

import (
	"context"
	"fmt"
	"time"

	"github.com/mehrbank/ledger-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// accountValidityYears is how long a freshly opened account is valid
const accountValidityYears = 5

// CreateInput represents the data needed to open a client account
type CreateInput struct {
	Name        string
	NationalID  string
	DateOfBirth time.Time
	ClientType  domain.ClientType
	PhoneNumber string
	Address     string
	PostalCode  string
}

// UpdateInput carries the profile fields a client may change. Nil fields
// are left untouched.
type UpdateInput struct {
	Name        *string
	DateOfBirth *time.Time
	ClientType  *domain.ClientType
	PhoneNumber *string
	Address     *string
	PostalCode  *string
}

// Service handles client registration, profile maintenance and account
// lookups. Balances are read here but only ever mutated by the transfer
// engine.
type Service struct {
	ClientRepo    domain.ClientRepository
	ChangeLogRepo domain.ChangeLogRepository

	generator *AccountNumberGenerator
}

// NewService creates a new client Service instance
func NewService(clientRepo domain.ClientRepository, changeLogRepo domain.ChangeLogRepository) *Service {
	return &Service{
		ClientRepo:    clientRepo,
		ChangeLogRepo: changeLogRepo,
		generator:     NewAccountNumberGenerator(clientRepo),
	}
}

// Create opens a new client account with a unique account number, an
// ACTIVE status, a zero balance and a five-year validity
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Client, error) {
	exists, err := s.ClientRepo.ExistsByNationalID(ctx, input.NationalID)
	if err != nil {
		return nil, fmt.Errorf("failed to check national ID: %w", err)
	}
	if exists {
		return nil, domain.NewValidationError("a client with this national ID already exists")
	}

	accountNumber, err := s.generator.Generate(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	client := &domain.Client{
		Name:             input.Name,
		NationalID:       input.NationalID,
		DateOfBirth:      input.DateOfBirth,
		ClientType:       input.ClientType,
		PhoneNumber:      input.PhoneNumber,
		Address:          input.Address,
		PostalCode:       input.PostalCode,
		AccountNumber:    accountNumber,
		AccountCreatedAt: now,
		AccountExpiresAt: now.AddDate(accountValidityYears, 0, 0),
		LastUsageDate:    now,
		AccountStatus:    domain.AccountStatusActive,
		Inventory:        decimal.Zero,
	}

	if err := client.Validate(); err != nil {
		return nil, err
	}

	if err := s.ClientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// Update applies the non-nil fields of input to the client's profile and
// appends one change-log entry per changed field
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput, updatedBy string) (*domain.Client, error) {
	client, err := s.ClientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	if input.Name != nil && *input.Name != client.Name {
		if err := s.logChange(ctx, client, "name", client.Name, *input.Name, updatedBy, now); err != nil {
			return nil, err
		}
		client.Name = *input.Name
	}

	if input.DateOfBirth != nil && !input.DateOfBirth.Equal(client.DateOfBirth) {
		if err := s.logChange(ctx, client, "dateOfBirth",
			client.DateOfBirth.Format("2006-01-02"), input.DateOfBirth.Format("2006-01-02"), updatedBy, now); err != nil {
			return nil, err
		}
		client.DateOfBirth = *input.DateOfBirth
	}

	if input.ClientType != nil && *input.ClientType != client.ClientType {
		if err := s.logChange(ctx, client, "clientType",
			string(client.ClientType), string(*input.ClientType), updatedBy, now); err != nil {
			return nil, err
		}
		client.ClientType = *input.ClientType
	}

	if input.PhoneNumber != nil && *input.PhoneNumber != client.PhoneNumber {
		if err := s.logChange(ctx, client, "phoneNumber", client.PhoneNumber, *input.PhoneNumber, updatedBy, now); err != nil {
			return nil, err
		}
		client.PhoneNumber = *input.PhoneNumber
	}

	if input.Address != nil && *input.Address != client.Address {
		if err := s.logChange(ctx, client, "address", client.Address, *input.Address, updatedBy, now); err != nil {
			return nil, err
		}
		client.Address = *input.Address
	}

	if input.PostalCode != nil && *input.PostalCode != client.PostalCode {
		if err := s.logChange(ctx, client, "postalCode", client.PostalCode, *input.PostalCode, updatedBy, now); err != nil {
			return nil, err
		}
		client.PostalCode = *input.PostalCode
	}

	if err := client.Validate(); err != nil {
		return nil, err
	}

	if err := s.ClientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	return client, nil
}

func (s *Service) logChange(ctx context.Context, client *domain.Client, field, oldValue, newValue, changedBy string, at time.Time) error {
	entry := domain.NewClientChangeLog(client, field, oldValue, newValue, changedBy, at)
	if err := s.ChangeLogRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to log %s change: %w", field, err)
	}
	return nil
}

// GetAccountInfo retrieves a client by account number and touches its
// last-usage date. This is the one read in the system with a side effect;
// Inventory and tracking reads stay side-effect free.
func (s *Service) GetAccountInfo(ctx context.Context, accountNumber string) (*domain.Client, error) {
	client, err := s.ClientRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	client.LastUsageDate = time.Now()
	if err := s.ClientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to touch last usage date: %w", err)
	}

	return client, nil
}

// Inventory retrieves a client's balance view without side effects
func (s *Service) Inventory(ctx context.Context, accountNumber string) (*domain.Client, error) {
	return s.ClientRepo.GetByAccountNumber(ctx, accountNumber)
}

// AccountNumberByNationalID resolves a client's account number
func (s *Service) AccountNumberByNationalID(ctx context.Context, nationalID string) (string, error) {
	client, err := s.ClientRepo.GetByNationalID(ctx, nationalID)
	if err != nil {
		return "", err
	}

	return client.AccountNumber, nil
}

// GetByID retrieves a client by numeric ID
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	return s.ClientRepo.GetByID(ctx, id)
}

// GetByNationalID retrieves a client by national ID
func (s *Service) GetByNationalID(ctx context.Context, nationalID string) (*domain.Client, error) {
	return s.ClientRepo.GetByNationalID(ctx, nationalID)
}

// GetByAccountNumber retrieves a client by account number
func (s *Service) GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Client, error) {
	return s.ClientRepo.GetByAccountNumber(ctx, accountNumber)
}

// List retrieves all clients
func (s *Service) List(ctx context.Context) ([]*domain.Client, error) {
	return s.ClientRepo.List(ctx)
}

// ChangeHistory retrieves a client's profile change log, newest first
func (s *Service) ChangeHistory(ctx context.Context, clientID int64) ([]*domain.ClientChangeLog, error) {
	return s.ChangeLogRepo.ListByClientID(ctx, clientID)
}
