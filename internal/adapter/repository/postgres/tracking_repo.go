package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mehrbank/ledger-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const trackingColumns = `
	tracking_code, type, sender_account, receiver_account, amount, fee,
	description, request_date, process_date, status, error_message
`

// trackingRepository implements domain.TrackingRepository
type trackingRepository struct {
	db *DB
}

// NewTrackingRepository creates a new tracking repository
func NewTrackingRepository(db *DB) domain.TrackingRepository {
	return &trackingRepository{db: db}
}

// Create persists a new tracking record
func (r *trackingRepository) Create(ctx context.Context, tracking *domain.TransferTracking) error {
	query := `
		INSERT INTO transfer_tracking (tracking_code, type, sender_account, receiver_account,
			amount, fee, description, request_date, process_date, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		tracking.TrackingCode,
		string(tracking.Type),
		tracking.SenderAccountNumber,
		nullString(tracking.ReceiverAccountNumber),
		tracking.Amount.String(),
		tracking.Fee.String(),
		nullString(tracking.Description),
		tracking.RequestDate,
		tracking.ProcessDate,
		string(tracking.Status),
		nullString(tracking.ErrorMessage),
	)
	if err != nil {
		return fmt.Errorf("failed to create tracking record: %w", err)
	}

	return nil
}

// Update persists the finalized state of a tracking record
func (r *trackingRepository) Update(ctx context.Context, tracking *domain.TransferTracking) error {
	query := `
		UPDATE transfer_tracking
		SET fee = $1, process_date = $2, status = $3, error_message = $4
		WHERE tracking_code = $5
	`

	result, err := r.db.ExecContext(ctx, query,
		tracking.Fee.String(),
		tracking.ProcessDate,
		string(tracking.Status),
		nullString(tracking.ErrorMessage),
		tracking.TrackingCode,
	)
	if err != nil {
		return fmt.Errorf("failed to update tracking record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read tracking update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrTrackingNotFound
	}

	return nil
}

// GetByTrackingCode retrieves a tracking record by its code
func (r *trackingRepository) GetByTrackingCode(ctx context.Context, code string) (*domain.TransferTracking, error) {
	query := `SELECT ` + trackingColumns + ` FROM transfer_tracking WHERE tracking_code = $1`
	return r.scanTracking(r.db.QueryRowContext(ctx, query, code))
}

// Find returns one page of records matching the query, newest first,
// plus the total number of matching records
func (r *trackingRepository) Find(ctx context.Context, q domain.TrackingQuery) ([]*domain.TransferTracking, int64, error) {
	where, args := buildTrackingWhere(q)

	var total int64
	countQuery := `SELECT COUNT(*) FROM transfer_tracking` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tracking records: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM transfer_tracking%s ORDER BY request_date DESC LIMIT $%d OFFSET $%d`,
		trackingColumns, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset)

	return r.queryTrackings(ctx, query, args, total)
}

// FindLastByAccountAndType returns the newest records where the account
// is the sender and the type matches
func (r *trackingRepository) FindLastByAccountAndType(ctx context.Context, accountNumber string, transferType domain.TransferType, offset, limit int) ([]*domain.TransferTracking, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transfer_tracking WHERE sender_account = $1 AND type = $2`,
		accountNumber, string(transferType)).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tracking records: %w", err)
	}

	query := `SELECT ` + trackingColumns + `
		FROM transfer_tracking
		WHERE sender_account = $1 AND type = $2
		ORDER BY request_date DESC
		LIMIT $3 OFFSET $4`

	return r.queryTrackings(ctx, query, []any{accountNumber, string(transferType), limit, offset}, total)
}

// buildTrackingWhere assembles the WHERE clause for a TrackingQuery.
// Only set fields contribute conditions.
func buildTrackingWhere(q domain.TrackingQuery) (string, []any) {
	conditions := make([]string, 0, 8)
	args := make([]any, 0, 8)

	if q.AccountNumber != "" {
		args = append(args, q.AccountNumber)
		conditions = append(conditions,
			fmt.Sprintf("(sender_account = $%d OR receiver_account = $%d)", len(args), len(args)))
	}
	if q.Type != nil {
		args = append(args, string(*q.Type))
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if q.OriginAccount != "" {
		args = append(args, q.OriginAccount)
		conditions = append(conditions, fmt.Sprintf("sender_account = $%d", len(args)))
	}
	if q.DestinationAccount != "" {
		args = append(args, q.DestinationAccount)
		conditions = append(conditions, fmt.Sprintf("receiver_account = $%d", len(args)))
	}
	if q.MinAmount != nil {
		args = append(args, q.MinAmount.String())
		conditions = append(conditions, fmt.Sprintf("amount >= $%d", len(args)))
	}
	if q.MaxAmount != nil {
		args = append(args, q.MaxAmount.String())
		conditions = append(conditions, fmt.Sprintf("amount <= $%d", len(args)))
	}
	if q.StartDate != nil {
		args = append(args, *q.StartDate)
		conditions = append(conditions, fmt.Sprintf("request_date >= $%d", len(args)))
	}
	if q.EndDate != nil {
		args = append(args, *q.EndDate)
		conditions = append(conditions, fmt.Sprintf("request_date <= $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *trackingRepository) queryTrackings(ctx context.Context, query string, args []any, total int64) ([]*domain.TransferTracking, int64, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query tracking records: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.TransferTracking, 0)
	for rows.Next() {
		record, err := r.scanTracking(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate tracking records: %w", err)
	}

	return records, total, nil
}

func (r *trackingRepository) scanTracking(row rowScanner) (*domain.TransferTracking, error) {
	var tracking domain.TransferTracking
	var transferType, status, amountStr, feeStr string
	var receiver, description, errorMessage sql.NullString
	var processDate sql.NullTime

	err := row.Scan(
		&tracking.TrackingCode,
		&transferType,
		&tracking.SenderAccountNumber,
		&receiver,
		&amountStr,
		&feeStr,
		&description,
		&tracking.RequestDate,
		&processDate,
		&status,
		&errorMessage,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTrackingNotFound
		}
		return nil, fmt.Errorf("failed to scan tracking record: %w", err)
	}

	tracking.Type = domain.TransferType(transferType)
	tracking.Status = domain.TransferStatus(status)
	tracking.ReceiverAccountNumber = receiver.String
	tracking.Description = description.String
	tracking.ErrorMessage = errorMessage.String

	if processDate.Valid {
		processed := processDate.Time
		tracking.ProcessDate = &processed
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	tracking.Amount = amount

	fee, err := decimal.NewFromString(feeStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fee: %w", err)
	}
	tracking.Fee = fee

	return &tracking, nil
}

// nullString maps "" to NULL on write
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
