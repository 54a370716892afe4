package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransferType represents the kind of money movement
type TransferType string

const (
	TransferTypeDeposit  TransferType = "DEPOSIT"
	TransferTypeHarvest  TransferType = "HARVEST"
	TransferTypeTransfer TransferType = "TRANSFER"
)

// ParseTransferType converts the wire spelling into a TransferType
func ParseTransferType(s string) (TransferType, error) {
	switch TransferType(s) {
	case TransferTypeDeposit, TransferTypeHarvest, TransferTypeTransfer:
		return TransferType(s), nil
	default:
		return "", fmt.Errorf("unknown transfer type %q", s)
	}
}

// TransferStatus is the terminal-status lifecycle of a tracking record
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "PENDING"
	TransferStatusCompleted TransferStatus = "COMPLETED"
	TransferStatusFailed    TransferStatus = "FAILED"
)

// TrackingCodeLength is the fixed length of a tracking code
const TrackingCodeLength = 16

// TransferTracking is the audit record of one transfer attempt.
// It is created PENDING at request intake and transitions exactly once,
// through Complete or Fail, after which it is immutable.
type TransferTracking struct {
	TrackingCode          string
	Type                  TransferType
	SenderAccountNumber   string
	ReceiverAccountNumber string
	Amount                decimal.Decimal
	Fee                   decimal.Decimal
	Description           string
	RequestDate           time.Time
	ProcessDate           *time.Time
	Status                TransferStatus
	ErrorMessage          string
}

// NewTransferTracking creates a PENDING tracking record for a request
func NewTransferTracking(code string, transferType TransferType, sender, receiver string, amount decimal.Decimal, description string, requestedAt time.Time) *TransferTracking {
	return &TransferTracking{
		TrackingCode:          code,
		Type:                  transferType,
		SenderAccountNumber:   sender,
		ReceiverAccountNumber: receiver,
		Amount:                amount,
		Fee:                   decimal.Zero,
		Description:           description,
		RequestDate:           requestedAt,
		Status:                TransferStatusPending,
	}
}

// Finalized reports whether the record has reached a terminal status
func (t *TransferTracking) Finalized() bool {
	return t.Status != TransferStatusPending
}

// Complete marks the record COMPLETED with the fee that was charged.
// It fails if the record was already finalized.
func (t *TransferTracking) Complete(fee decimal.Decimal, processedAt time.Time) error {
	if t.Finalized() {
		return fmt.Errorf("tracking record %s is already %s", t.TrackingCode, t.Status)
	}

	t.Status = TransferStatusCompleted
	t.Fee = fee
	t.ProcessDate = &processedAt
	t.ErrorMessage = ""

	return nil
}

// Fail marks the record FAILED with the reason the request was rejected.
// A reason is mandatory: a FAILED record without one would be unreadable
// to the caller polling the status endpoint.
func (t *TransferTracking) Fail(reason string, processedAt time.Time) error {
	if t.Finalized() {
		return fmt.Errorf("tracking record %s is already %s", t.TrackingCode, t.Status)
	}

	if reason == "" {
		return errors.New("a failed tracking record requires an error message")
	}

	t.Status = TransferStatusFailed
	t.Fee = decimal.Zero
	t.ProcessDate = &processedAt
	t.ErrorMessage = reason

	return nil
}
