package entities

import (
	"database/sql"
	"time"

	"customer-portal/pkg/constants"
)

// User is the storage-layer representation of an account. PasswordHash
// never leaves the service layer.
type User struct {
	ID           uint64
	Username     string
	PasswordHash string
	Role         constants.Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    sql.NullTime
}
