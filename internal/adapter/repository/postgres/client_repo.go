package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/mehrbank/ledger-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const clientColumns = `
	id, name, national_id, date_of_birth, client_type, phone_number,
	address, postal_code, account_number, account_created_at,
	account_expires_at, last_usage_date, account_status, inventory
`

// clientRepository implements domain.ClientRepository
type clientRepository struct {
	db *DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *DB) domain.ClientRepository {
	return &clientRepository{db: db}
}

// Create creates a new client and fills in its generated ID
func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (name, national_id, date_of_birth, client_type, phone_number,
			address, postal_code, account_number, account_created_at,
			account_expires_at, last_usage_date, account_status, inventory)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		client.Name,
		client.NationalID,
		client.DateOfBirth,
		string(client.ClientType),
		client.PhoneNumber,
		client.Address,
		client.PostalCode,
		client.AccountNumber,
		client.AccountCreatedAt,
		client.AccountExpiresAt,
		client.LastUsageDate,
		string(client.AccountStatus),
		client.Inventory.String(),
	).Scan(&client.ID)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// Update persists a client's profile fields
func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := `
		UPDATE clients
		SET name = $1, date_of_birth = $2, client_type = $3, phone_number = $4,
			address = $5, postal_code = $6, last_usage_date = $7, account_status = $8
		WHERE id = $9
	`

	result, err := r.db.ExecContext(ctx, query,
		client.Name,
		client.DateOfBirth,
		string(client.ClientType),
		client.PhoneNumber,
		client.Address,
		client.PostalCode,
		client.LastUsageDate,
		string(client.AccountStatus),
		client.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

// UpdateBalances writes the inventory and last-usage date of the given
// clients in a single database transaction. Rows are written in ascending
// account-number order so two concurrent transfers cannot deadlock at the
// row-lock level either.
func (r *clientRepository) UpdateBalances(ctx context.Context, clients ...*domain.Client) error {
	ordered := make([]*domain.Client, len(clients))
	copy(ordered, clients)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].AccountNumber < ordered[j].AccountNumber
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE clients
		SET inventory = $1, last_usage_date = $2
		WHERE account_number = $3
	`

	for _, client := range ordered {
		result, err := tx.ExecContext(ctx, query,
			client.Inventory.String(),
			client.LastUsageDate,
			client.AccountNumber,
		)
		if err != nil {
			return fmt.Errorf("failed to update balance of %s: %w", client.AccountNumber, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read balance update result: %w", err)
		}
		if affected == 0 {
			return domain.ErrClientNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit balance updates: %w", err)
	}

	return nil
}

// GetByID retrieves a client by its numeric ID
func (r *clientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return r.scanClient(r.db.QueryRowContext(ctx, query, id))
}

// GetByNationalID retrieves a client by national ID
func (r *clientRepository) GetByNationalID(ctx context.Context, nationalID string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE national_id = $1`
	return r.scanClient(r.db.QueryRowContext(ctx, query, nationalID))
}

// GetByAccountNumber retrieves a client by public account number
func (r *clientRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE account_number = $1`
	return r.scanClient(r.db.QueryRowContext(ctx, query, accountNumber))
}

// List retrieves all clients ordered by creation
func (r *clientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := r.scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}

	return clients, nil
}

// ExistsByNationalID reports whether a client with the national ID exists
func (r *clientRepository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM clients WHERE national_id = $1)`, nationalID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check national ID: %w", err)
	}
	return exists, nil
}

// ExistsByAccountNumber reports whether the account number is taken
func (r *clientRepository) ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM clients WHERE account_number = $1)`, accountNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account number: %w", err)
	}
	return exists, nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *clientRepository) scanClient(row rowScanner) (*domain.Client, error) {
	var client domain.Client
	var clientType, accountStatus, inventoryStr string

	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.NationalID,
		&client.DateOfBirth,
		&clientType,
		&client.PhoneNumber,
		&client.Address,
		&client.PostalCode,
		&client.AccountNumber,
		&client.AccountCreatedAt,
		&client.AccountExpiresAt,
		&client.LastUsageDate,
		&accountStatus,
		&inventoryStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to scan client: %w", err)
	}

	client.ClientType = domain.ClientType(clientType)
	client.AccountStatus = domain.AccountStatus(accountStatus)

	inventory, err := decimal.NewFromString(inventoryStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse inventory: %w", err)
	}
	client.Inventory = inventory

	return &client, nil
}
