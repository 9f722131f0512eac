package auth

import (
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Session data keys
const (
	SessionKeyUserID   = "user_id"
	SessionKeyUsername = "username"
	SessionKeyCSRF     = "csrf_token"
)

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager backed by the same
// database the entities live in. The sqlDB parameter is the underlying
// *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, driver config.Driver, cfg config.Auth) (*SessionManager, error) {
	// Create the sessions table if it doesn't exist. The column types differ
	// between the two supported drivers.
	ddl := `CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BYTEA NOT NULL,
		expiry TIMESTAMPTZ NOT NULL
	)`
	if driver == config.DriverSQLite {
		ddl = `CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		)`
	}
	if _, err := sqlDB.Exec(ddl); err != nil {
		return nil, err
	}
	if _, err := sqlDB.Exec(`CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry)`); err != nil {
		return nil, err
	}

	sm := scs.New()

	if driver == config.DriverSQLite {
		sm.Store = sqlite3store.New(sqlDB)
	} else {
		sm.Store = postgresstore.New(sqlDB)
	}

	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// CreateSession marks the session authenticated for a user after successful
// credential verification.
func (sm *SessionManager) CreateSession(r *http.Request, user *entities.User) error {
	// Renew token to prevent session fixation
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}

	sm.Put(r.Context(), SessionKeyUserID, int(user.ID))
	sm.Put(r.Context(), SessionKeyUsername, user.Username)

	return nil
}

// DestroySession removes all session data and invalidates the session.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// GetUserID retrieves the user ID from the session. Returns 0 if the
// session is not authenticated.
func (sm *SessionManager) GetUserID(r *http.Request) uint {
	return uint(sm.GetInt(r.Context(), SessionKeyUserID))
}

// GetUsername retrieves the username from the session.
func (sm *SessionManager) GetUsername(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyUsername)
}

// IsAuthenticated returns true if the request has a valid session.
func (sm *SessionManager) IsAuthenticated(r *http.Request) bool {
	return sm.GetUserID(r) != 0
}

// IssueCSRFToken generates a fresh form token and stores it in the session,
// replacing any previous one. The returned value goes into the rendered form.
func (sm *SessionManager) IssueCSRFToken(r *http.Request) (string, error) {
	token, err := GenerateTokenValue()
	if err != nil {
		return "", err
	}
	sm.Put(r.Context(), SessionKeyCSRF, token)
	return token, nil
}

// TakeCSRFToken removes and returns the stored form token. The token is
// single-use: it is gone after this call whether or not the comparison that
// follows succeeds.
func (sm *SessionManager) TakeCSRFToken(r *http.Request) string {
	return sm.PopString(r.Context(), SessionKeyCSRF)
}
