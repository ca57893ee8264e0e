package store

import (
	"database/sql"
	"errors"
)

// ActiveUser is the account signed in on this machine
type ActiveUser struct {
	UserID string
	Email  string
}

// GetCurrentUser returns the signed-in user
func (db *DB) GetCurrentUser() (*ActiveUser, error) {
	row := db.QueryRow(`
		SELECT user_id, email
		FROM active_user
		WHERE id = 1
	`)

	var u ActiveUser
	err := row.Scan(&u.UserID, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoCurrentUser
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SetCurrentUser stores or replaces the signed-in user
func (db *DB) SetCurrentUser(u ActiveUser) error {
	_, err := db.Exec(`
		INSERT INTO active_user (id, user_id, email, updated_at)
		VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			email = excluded.email,
			updated_at = CURRENT_TIMESTAMP
	`, u.UserID, u.Email)
	return err
}

// ClearCurrentUser signs the machine out. Cached profiles are kept.
func (db *DB) ClearCurrentUser() error {
	_, err := db.Exec(`DELETE FROM active_user WHERE id = 1`)
	return err
}
