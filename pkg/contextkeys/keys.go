package contextkeys

type contextKey string

const (
	// UserKey holds the authenticated *entities.User for the request.
	UserKey contextKey = "current_user"
	// SessionTokenKey holds the raw session token the request arrived with.
	SessionTokenKey contextKey = "session_token"
)
