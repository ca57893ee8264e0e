package store

import (
	"database/sql"
	"time"
)

// Sync state keys, suffixed with the user id
const (
	KeyLastSync      = "last_sync:"
	KeyLastSyncError = "last_sync_error:"
)

// GetSyncState retrieves a sync state value by key
// Returns empty string if key doesn't exist
func (db *DB) GetSyncState(key string) (string, error) {
	var value string
	err := db.QueryRow(`
		SELECT value FROM sync_state WHERE key = ?
	`, key).Scan(&value)

	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSyncState sets a sync state value
func (db *DB) SetSyncState(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO sync_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// GetLastSync returns when userID's profile was last accepted by the backend.
// The zero time means never.
func (db *DB) GetLastSync(userID string) (time.Time, error) {
	v, err := db.GetSyncState(KeyLastSync + userID)
	if err != nil || v == "" {
		return time.Time{}, err
	}
	return parseTimestamp(v), nil
}

// SetLastSync records a successful sync and clears any stored error.
func (db *DB) SetLastSync(userID string, at time.Time) error {
	if err := db.SetSyncState(KeyLastSync+userID, at.UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return db.SetSyncState(KeyLastSyncError+userID, "")
}

// GetLastSyncError returns the message of the most recent failed sync, if any.
func (db *DB) GetLastSyncError(userID string) (string, error) {
	return db.GetSyncState(KeyLastSyncError + userID)
}

// SetLastSyncError records a failed sync.
func (db *DB) SetLastSyncError(userID, msg string) error {
	return db.SetSyncState(KeyLastSyncError+userID, msg)
}
