package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mehrbank/ledger-backend/internal/domain"
)

// validateRequest runs the read-only domain checks for a transfer request
// and returns the accounts involved. The checks short-circuit on the first
// failure, in this order: sender exists, sender active, receiver present
// (TRANSFER), not a self transfer, receiver exists, receiver active,
// sufficient funds (HARVEST and TRANSFER, fee included for TRANSFER).
//
// A *domain.ValidationError is a rule violation destined for the tracking
// record; any other error is a storage failure and propagates.
func (s *Service) validateRequest(ctx context.Context, req Request) (sender, receiver *domain.Client, err error) {
	sender, err = s.ClientRepo.GetByAccountNumber(ctx, req.SenderAccountNumber)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return nil, nil, domain.NewValidationError("sender account not found")
		}
		return nil, nil, fmt.Errorf("failed to load sender account: %w", err)
	}

	if sender.AccountStatus != domain.AccountStatusActive {
		return nil, nil, domain.NewValidationError("sender account is %s", strings.ToLower(string(sender.AccountStatus)))
	}

	if req.Type == domain.TransferTypeTransfer {
		if req.ReceiverAccountNumber == "" {
			return nil, nil, domain.NewValidationError("receiver account number is required for transfers")
		}

		if req.SenderAccountNumber == req.ReceiverAccountNumber {
			return nil, nil, domain.NewValidationError("sender and receiver accounts cannot be the same")
		}

		receiver, err = s.ClientRepo.GetByAccountNumber(ctx, req.ReceiverAccountNumber)
		if err != nil {
			if errors.Is(err, domain.ErrClientNotFound) {
				return nil, nil, domain.NewValidationError("receiver account not found")
			}
			return nil, nil, fmt.Errorf("failed to load receiver account: %w", err)
		}

		if receiver.AccountStatus != domain.AccountStatusActive {
			return nil, nil, domain.NewValidationError("receiver account is %s", strings.ToLower(string(receiver.AccountStatus)))
		}
	}

	if req.Type != domain.TransferTypeDeposit {
		required := req.Amount.Add(ComputeFee(req.Type, req.Amount))
		if sender.Inventory.LessThan(required) {
			return nil, nil, domain.NewValidationError("insufficient funds")
		}
	}

	return sender, receiver, nil
}
