package store

import (
	"database/sql"
)

// NewTestStore wraps sqlDB after running migrations on it.
// This is only intended for use in tests.
func NewTestStore(sqlDB *sql.DB) (*DB, error) {
	if err := migrate(sqlDB); err != nil {
		return nil, err
	}
	return &DB{sqlDB}, nil
}
