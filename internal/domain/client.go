package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ClientType distinguishes natural persons from legal entities
type ClientType string

const (
	ClientTypeReal  ClientType = "REAL"
	ClientTypeLegal ClientType = "LEGAL"
)

// AccountStatus represents the administrative state of a client's account
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
	AccountStatusBanned   AccountStatus = "BANNED"
)

// AccountNumberLength is the fixed length of a public account identifier
const AccountNumberLength = 14

// Client represents a client entity in the domain layer.
// Inventory is the client's monetary balance, stored as a fixed-point
// decimal with 4 fractional digits. Only the transfer engine mutates
// Inventory and LastUsageDate.
type Client struct {
	ID               int64
	Name             string
	NationalID       string
	DateOfBirth      time.Time
	ClientType       ClientType
	PhoneNumber      string
	Address          string
	PostalCode       string
	AccountNumber    string
	AccountCreatedAt time.Time
	AccountExpiresAt time.Time
	LastUsageDate    time.Time
	AccountStatus    AccountStatus
	Inventory        decimal.Decimal
}

// Validate ensures the client adheres to domain rules
// Returns an error if validation fails
func (c *Client) Validate() error {
	if c.Name == "" {
		return errors.New("client name cannot be empty")
	}

	if c.NationalID == "" {
		return errors.New("client national ID cannot be empty")
	}

	if c.ClientType != ClientTypeReal && c.ClientType != ClientTypeLegal {
		return errors.New("client type must be REAL or LEGAL")
	}

	switch c.AccountStatus {
	case AccountStatusActive, AccountStatusInactive, AccountStatusBanned:
	default:
		return errors.New("account status must be ACTIVE, INACTIVE or BANNED")
	}

	if c.AccountNumber != "" && !ValidAccountNumber(c.AccountNumber) {
		return errors.New("account number must be 14 digits with a non-zero first digit")
	}

	if c.Inventory.IsNegative() {
		return errors.New("inventory cannot be negative")
	}

	return nil
}

// ValidAccountNumber reports whether s is a well-formed public account
// identifier: exactly 14 decimal digits, first digit in 1-9.
func ValidAccountNumber(s string) bool {
	if len(s) != AccountNumberLength {
		return false
	}

	if s[0] < '1' || s[0] > '9' {
		return false
	}

	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
