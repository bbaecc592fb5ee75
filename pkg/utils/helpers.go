package utils

import (
	"context"
	"database/sql"
	"time"

	"customer-portal/internal/entities"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/contextkeys"
)

const timeLayout = "2006-01-02 15:04:05"

func NullStringToString(v sql.NullString) string {
	if v.Valid {
		return v.String
	}
	return ""
}

func NullTimeToEmptyString(v sql.NullTime) string {
	if v.Valid {
		return v.Time.Local().Format(timeLayout)
	}
	return ""
}

func FormatTime(t time.Time) string {
	return t.Local().Format(timeLayout)
}

func Ptr[T any](v T) *T { return &v }

// UserFromContext returns the authenticated user placed into the request
// context by the session middleware.
func UserFromContext(ctx context.Context) (*entities.User, error) {
	user, ok := ctx.Value(contextkeys.UserKey).(*entities.User)
	if !ok || user == nil {
		return nil, apperrors.ErrUserNotInContext
	}
	return user, nil
}
