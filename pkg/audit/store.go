package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
)

// Store handles audit message persistence to database
type Store struct {
	db *sql.DB
}

// NewStore creates a new audit store from AUDIT_DATABASE_URL
// Returns nil if AUDIT_DATABASE_URL is not set (audit DB disabled)
func NewStore() (*Store, error) {
	dbURL := os.Getenv("AUDIT_DATABASE_URL")
	if dbURL == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// NewStoreWithDB creates a store with an existing database connection
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s != nil && s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save persists an audit event to the database
func (s *Store) Save(event Event) error {
	return s.SaveContext(context.Background(), event)
}

// SaveContext is Save with a caller-supplied context
func (s *Store) SaveContext(ctx context.Context, event Event) error {
	if s == nil || s.db == nil {
		return nil
	}

	hostname, _ := os.Hostname()

	sdataJSON, err := json.Marshal(event.StructuredData())
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		event.Facility(),
		int(event.Severity()),
		time.Now().UTC(),
		hostname,
		AppName,
		strconv.Itoa(os.Getpid()),
		event.MessageID(),
		sdataJSON,
		event.Message(),
	)

	return err
}
