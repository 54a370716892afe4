package domain

import "time"

// ClientChangeLog records one field change made to a client's profile.
// Rows are append-only; they reference the client by numeric ID and keep
// the name as it was at the time of the change.
type ClientChangeLog struct {
	ID         int64
	ClientID   int64
	ClientName string
	FieldName  string
	OldValue   string
	NewValue   string
	ChangedBy  string
	ChangedAt  time.Time
}

// NewClientChangeLog creates a change-log entry for a single field change
func NewClientChangeLog(client *Client, fieldName, oldValue, newValue, changedBy string, changedAt time.Time) *ClientChangeLog {
	return &ClientChangeLog{
		ClientID:   client.ID,
		ClientName: client.Name,
		FieldName:  fieldName,
		OldValue:   oldValue,
		NewValue:   newValue,
		ChangedBy:  changedBy,
		ChangedAt:  changedAt,
	}
}
