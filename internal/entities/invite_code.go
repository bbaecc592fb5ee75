package entities

import (
	"database/sql"
	"time"

	"customer-portal/pkg/constants"
)

// InviteCode grants registration with a predefined role. A code is
// consumed exactly once.
type InviteCode struct {
	ID        uint64
	Code      string
	Role      constants.Role
	Used      bool
	UsedBy    sql.NullInt64
	UsedAt    sql.NullTime
	CreatedBy uint64
	CreatedAt time.Time
}
