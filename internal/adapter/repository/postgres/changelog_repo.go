package postgres

import (
	"context"
	"fmt"

	"github.com/mehrbank/ledger-backend/internal/domain"
)

// changeLogRepository implements domain.ChangeLogRepository
type changeLogRepository struct {
	db *DB
}

// NewChangeLogRepository creates a new change log repository
func NewChangeLogRepository(db *DB) domain.ChangeLogRepository {
	return &changeLogRepository{db: db}
}

// Create appends a profile change entry
func (r *changeLogRepository) Create(ctx context.Context, entry *domain.ClientChangeLog) error {
	query := `
		INSERT INTO client_change_log (client_id, client_name, field_name,
			old_value, new_value, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		entry.ClientID,
		entry.ClientName,
		entry.FieldName,
		entry.OldValue,
		entry.NewValue,
		entry.ChangedBy,
		entry.ChangedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to create change log entry: %w", err)
	}

	return nil
}

// ListByClientID retrieves a client's change history, newest first
func (r *changeLogRepository) ListByClientID(ctx context.Context, clientID int64) ([]*domain.ClientChangeLog, error) {
	query := `
		SELECT id, client_id, client_name, field_name, old_value, new_value, changed_by, changed_at
		FROM client_change_log
		WHERE client_id = $1
		ORDER BY changed_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list change log: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.ClientChangeLog, 0)
	for rows.Next() {
		var entry domain.ClientChangeLog
		err := rows.Scan(
			&entry.ID,
			&entry.ClientID,
			&entry.ClientName,
			&entry.FieldName,
			&entry.OldValue,
			&entry.NewValue,
			&entry.ChangedBy,
			&entry.ChangedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan change log entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate change log: %w", err)
	}

	return entries, nil
}
