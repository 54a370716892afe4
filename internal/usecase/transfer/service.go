package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mehrbank/ledger-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// minimumAmount is the smallest accepted transaction amount
var minimumAmount = decimal.RequireFromString("0.0001")

// Request represents a money-movement request handed to the engine.
// ReceiverAccountNumber is only meaningful for TRANSFER.
type Request struct {
	Type                  domain.TransferType
	SenderAccountNumber   string
	ReceiverAccountNumber string
	Amount                decimal.Decimal
	Description           string
}

// Status is a tracking record enriched with the current display names of
// the accounts involved. Names are joined live, so a renamed client shows
// its current name even on historical records.
type Status struct {
	Tracking     *domain.TransferTracking
	SenderName   string
	ReceiverName string
}

// Service is the transfer engine. It validates a request, mutates one or
// two client balances and records the outcome as a tracking record. Domain
// failures never escape Process; they end up as FAILED tracking records.
type Service struct {
	ClientRepo   domain.ClientRepository
	TrackingRepo domain.TrackingRepository

	locker *accountLocker
}

// NewService creates a new transfer Service instance
func NewService(clientRepo domain.ClientRepository, trackingRepo domain.TrackingRepository) *Service {
	return &Service{
		ClientRepo:   clientRepo,
		TrackingRepo: trackingRepo,
		locker:       newAccountLocker(),
	}
}

// Process handles one transfer request and returns its tracking code.
// Logic:
//  1. Create a PENDING tracking record with the request's fields
//  2. Lock the accounts involved (ascending order) and validate
//  3. On a rule violation, finalize the record FAILED with the reason
//  4. Otherwise compute the fee, apply the balance deltas atomically and
//     finalize the record COMPLETED
//
// Only malformed input (bad type, amount below 0.0001) or a storage
// failure produce an error; every accepted request yields a tracking code.
func (s *Service) Process(ctx context.Context, req Request) (string, error) {
	if _, err := domain.ParseTransferType(string(req.Type)); err != nil {
		return "", err
	}

	if req.Amount.LessThan(minimumAmount) {
		return "", domain.ErrAmountBelowMinimum
	}

	tracking := domain.NewTransferTracking(
		newTrackingCode(),
		req.Type,
		req.SenderAccountNumber,
		req.ReceiverAccountNumber,
		req.Amount,
		req.Description,
		time.Now(),
	)

	if err := s.TrackingRepo.Create(ctx, tracking); err != nil {
		return "", fmt.Errorf("failed to create tracking record: %w", err)
	}

	// Everything from the balance read to the balance write happens under
	// the account locks, so two concurrent requests cannot both pass the
	// sufficiency check against a stale balance.
	unlock := s.locker.Lock(req.SenderAccountNumber, req.ReceiverAccountNumber)
	defer unlock()

	sender, receiver, err := s.validateRequest(ctx, req)
	if err != nil {
		if !domain.IsValidationError(err) {
			return "", err
		}
		return tracking.TrackingCode, s.finalizeFailed(ctx, tracking, err.Error())
	}

	fee := ComputeFee(req.Type, req.Amount)
	if err := s.applyBalances(ctx, req, sender, receiver, fee); err != nil {
		return "", err
	}

	if err := tracking.Complete(fee, time.Now()); err != nil {
		return "", err
	}

	if err := s.TrackingRepo.Update(ctx, tracking); err != nil {
		return "", fmt.Errorf("failed to finalize tracking record: %w", err)
	}

	return tracking.TrackingCode, nil
}

// applyBalances mutates the in-memory accounts per the operation type and
// persists them through one repository call
func (s *Service) applyBalances(ctx context.Context, req Request, sender, receiver *domain.Client, fee decimal.Decimal) error {
	now := time.Now()
	sender.LastUsageDate = now

	touched := []*domain.Client{sender}

	switch req.Type {
	case domain.TransferTypeDeposit:
		sender.Inventory = sender.Inventory.Add(req.Amount)
	case domain.TransferTypeHarvest:
		sender.Inventory = sender.Inventory.Sub(req.Amount)
	case domain.TransferTypeTransfer:
		sender.Inventory = sender.Inventory.Sub(req.Amount.Add(fee))
		receiver.Inventory = receiver.Inventory.Add(req.Amount)
		receiver.LastUsageDate = now
		touched = append(touched, receiver)
	}

	if err := s.ClientRepo.UpdateBalances(ctx, touched...); err != nil {
		return fmt.Errorf("failed to apply balance changes: %w", err)
	}

	return nil
}

// finalizeFailed records a domain-rule violation on the tracking record
func (s *Service) finalizeFailed(ctx context.Context, tracking *domain.TransferTracking, reason string) error {
	if err := tracking.Fail(reason, time.Now()); err != nil {
		return err
	}

	if err := s.TrackingRepo.Update(ctx, tracking); err != nil {
		return fmt.Errorf("failed to finalize tracking record: %w", err)
	}

	return nil
}

// GetStatus retrieves a tracking record by code, enriched with the
// current names of the accounts involved. Reading a status never mutates
// anything, so reading it twice returns identical data.
func (s *Service) GetStatus(ctx context.Context, trackingCode string) (*Status, error) {
	tracking, err := s.TrackingRepo.GetByTrackingCode(ctx, trackingCode)
	if err != nil {
		return nil, err
	}

	status := &Status{Tracking: tracking}
	status.SenderName = s.lookupName(ctx, tracking.SenderAccountNumber)
	status.ReceiverName = s.lookupName(ctx, tracking.ReceiverAccountNumber)

	return status, nil
}

// lookupName returns the client's current display name, or "" when the
// account no longer resolves
func (s *Service) lookupName(ctx context.Context, accountNumber string) string {
	if accountNumber == "" {
		return ""
	}

	client, err := s.ClientRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return ""
	}

	return client.Name
}

// newTrackingCode derives a 16-character uppercase alphanumeric code from
// a random UUID. The code space is large enough that collisions are not
// handled beyond the tracking table's uniqueness constraint.
func newTrackingCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:domain.TrackingCodeLength])
}

// ErrInvalidTrackingCode is kept for callers that want to distinguish a
// malformed code from an unknown one before hitting storage.
var ErrInvalidTrackingCode = errors.New("invalid tracking code")
