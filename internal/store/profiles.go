package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wellness/internal/domain"
)

// CachedProfile is a locally stored profile snapshot
type CachedProfile struct {
	Profile   domain.UserProfile
	Synced    bool // true when this snapshot matches what the backend last accepted
	UpdatedAt time.Time
}

// SaveProfile upserts the snapshot for p.UserID
func (db *DB) SaveProfile(p domain.UserProfile, synced bool) error {
	if p.UserID == "" {
		return errors.New("saving profile: empty user id")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO profiles (user_id, data, synced, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			data = excluded.data,
			synced = excluded.synced,
			updated_at = excluded.updated_at
	`, p.UserID, string(data), boolToInt(synced), time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetProfile returns the cached snapshot for userID
func (db *DB) GetProfile(userID string) (*CachedProfile, error) {
	row := db.QueryRow(`
		SELECT data, synced, updated_at
		FROM profiles
		WHERE user_id = ?
	`, userID)

	var data, updatedAt string
	var synced int
	err := row.Scan(&data, &synced, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotCached
	}
	if err != nil {
		return nil, err
	}

	var cp CachedProfile
	if err := json.Unmarshal([]byte(data), &cp.Profile); err != nil {
		return nil, fmt.Errorf("decoding cached profile: %w", err)
	}
	cp.Profile.Normalize()
	cp.Synced = synced != 0
	cp.UpdatedAt = parseTimestamp(updatedAt)
	return &cp, nil
}

// DeleteProfile drops the snapshot for userID
func (db *DB) DeleteProfile(userID string) error {
	_, err := db.Exec(`DELETE FROM profiles WHERE user_id = ?`, userID)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseTimestamp accepts RFC3339 and SQLite's CURRENT_TIMESTAMP format
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
