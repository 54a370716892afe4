package postgres

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the connection pool shared by the ledger repositories
type DB struct {
	*sql.DB
}

// NewDB opens a connection pool against the ledger database and verifies
// it with a ping. connectionString is a lib/pq keyword string, e.g.
// "host=localhost port=5432 user=postgres password=postgres dbname=ledger sslmode=disable".
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	return db.DB.Close()
}
