package client

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"github.com/mehrbank/ledger-backend/internal/domain"
)

// Account numbers are 14 decimal digits with a non-zero first digit,
// i.e. values in [10^13, 10^14)
var (
	accountNumberFloor = int64(1e13)
	accountNumberSpan  = big.NewInt(int64(9e13))
)

// AccountNumberGenerator issues unique public account numbers. Candidates
// are drawn from a cryptographic source and re-drawn while the number is
// already taken.
type AccountNumberGenerator struct {
	ClientRepo domain.ClientRepository
}

// NewAccountNumberGenerator creates a new AccountNumberGenerator instance
func NewAccountNumberGenerator(clientRepo domain.ClientRepository) *AccountNumberGenerator {
	return &AccountNumberGenerator{ClientRepo: clientRepo}
}

// Generate returns an account number not present in the client store
func (g *AccountNumberGenerator) Generate(ctx context.Context) (string, error) {
	for {
		candidate, err := randomAccountNumber()
		if err != nil {
			return "", fmt.Errorf("failed to draw account number: %w", err)
		}

		taken, err := g.ClientRepo.ExistsByAccountNumber(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check account number uniqueness: %w", err)
		}

		if !taken {
			return candidate, nil
		}
	}
}

func randomAccountNumber() (string, error) {
	n, err := rand.Int(rand.Reader, accountNumberSpan)
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(accountNumberFloor+n.Int64(), 10), nil
}
