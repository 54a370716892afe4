package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ClientRepository defines the interface for client persistence operations
type ClientRepository interface {
	// Create creates a new client
	Create(ctx context.Context, client *Client) error

	// Update persists changes to an existing client's profile
	Update(ctx context.Context, client *Client) error

	// UpdateBalances persists the inventory and last-usage date of one or
	// two clients atomically. For a transfer both writes happen in a single
	// storage transaction so a crash cannot leave the ledger unbalanced.
	UpdateBalances(ctx context.Context, clients ...*Client) error

	// GetByID retrieves a client by its numeric ID
	GetByID(ctx context.Context, id int64) (*Client, error)

	// GetByNationalID retrieves a client by national ID
	GetByNationalID(ctx context.Context, nationalID string) (*Client, error)

	// GetByAccountNumber retrieves a client by public account number
	GetByAccountNumber(ctx context.Context, accountNumber string) (*Client, error)

	// List retrieves all clients
	List(ctx context.Context) ([]*Client, error)

	// ExistsByNationalID reports whether a client with the national ID exists
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)

	// ExistsByAccountNumber reports whether the account number is taken
	ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error)
}

// TrackingQuery filters and paginates tracking records.
// Nil/empty fields are not applied. Amount and date bounds are inclusive.
// Results are ordered by request date, newest first.
type TrackingQuery struct {
	// AccountNumber matches records where the account is sender OR receiver
	AccountNumber string

	Type *TransferType

	// OriginAccount matches the sender only
	OriginAccount string

	// DestinationAccount matches the receiver only
	DestinationAccount string

	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal

	StartDate *time.Time
	EndDate   *time.Time

	Offset int
	Limit  int
}

// TrackingRepository defines the interface for tracking-record persistence
type TrackingRepository interface {
	// Create persists a new (PENDING) tracking record
	Create(ctx context.Context, tracking *TransferTracking) error

	// Update persists the finalized state of a tracking record
	Update(ctx context.Context, tracking *TransferTracking) error

	// GetByTrackingCode retrieves a tracking record by its code.
	// Returns ErrTrackingNotFound if the code is unknown.
	GetByTrackingCode(ctx context.Context, code string) (*TransferTracking, error)

	// Find returns one page of records matching the query plus the total
	// number of matching records
	Find(ctx context.Context, query TrackingQuery) ([]*TransferTracking, int64, error)

	// FindLastByAccountAndType returns the newest records where the account
	// is the sender and the type matches, plus the total count
	FindLastByAccountAndType(ctx context.Context, accountNumber string, transferType TransferType, offset, limit int) ([]*TransferTracking, int64, error)
}

// ChangeLogRepository defines the interface for client change-log persistence
type ChangeLogRepository interface {
	// Create appends a change-log entry
	Create(ctx context.Context, entry *ClientChangeLog) error

	// ListByClientID retrieves a client's change history, newest first
	ListByClientID(ctx context.Context, clientID int64) ([]*ClientChangeLog, error)
}
