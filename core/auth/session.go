// Package auth implements browser sessions and the delegated sign-in flow.
// There are no local credentials: identity comes entirely from the external
// provider and the only authorization state is the two-tier role held in
// the session.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Roles derived from the identity provider's guild membership.
const (
	RoleStaff  = "staff"
	RoleMember = "member"
)

// CookieName is the browser cookie carrying the signed session token.
const CookieName = "wavelib_session"

// Session is the per-browser state: the OAuth state nonce during sign-in,
// then the external identity and derived role once authenticated. An empty
// Role means the browser has not completed sign-in.
type Session struct {
	ID              string `json:"id"`
	State           string `json:"state,omitempty"`
	DiscordID       string `json:"discordId,omitempty"`
	DiscordUsername string `json:"discordUsername,omitempty"`
	Role            string `json:"role,omitempty"`
}

// IsStaff reports whether the session belongs to signed-in staff.
func (s *Session) IsStaff() bool {
	return s != nil && s.Role == RoleStaff
}

// SessionStore keeps session payloads in Redis, keyed by session ID, with
// the session lifetime as TTL. The browser only ever sees the signed token
// carrying the ID.
type SessionStore struct {
	redis  *redis.Client
	secret []byte
	maxAge time.Duration
	secure bool
}

// NewSessionStore creates a session store. secure controls the cookie's
// Secure flag and should follow the preferred URL scheme.
func NewSessionStore(client *redis.Client, secret string, maxAge time.Duration, secure bool) *SessionStore {
	return &SessionStore{
		redis:  client,
		secret: []byte(secret),
		maxAge: maxAge,
		secure: secure,
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

// New creates an empty session with a fresh ID. The session is not persisted
// until Save is called.
func (st *SessionStore) New() *Session {
	return &Session{ID: uuid.NewString()}
}

// Save persists the session payload, resetting its TTL.
func (st *SessionStore) Save(ctx context.Context, s *Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := st.redis.Set(ctx, sessionKey(s.ID), payload, st.maxAge).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get loads a session by ID, returning nil when it does not exist or has
// expired.
func (st *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	payload, err := st.redis.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	s := &Session{}
	if err := json.Unmarshal(payload, s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return s, nil
}

// Delete removes a session.
func (st *SessionStore) Delete(ctx context.Context, id string) error {
	if err := st.redis.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// IssueCookie writes the signed session cookie to the response.
func (st *SessionStore) IssueCookie(w http.ResponseWriter, s *Session) error {
	token, err := generateSessionToken(s.ID, st.secret, st.maxAge)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(st.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   st.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie expires the session cookie.
func (st *SessionStore) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   st.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest resolves the request's session, or nil when the browser has no
// valid session cookie. An invalid or expired token is treated the same as
// no cookie at all.
func (st *SessionStore) FromRequest(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}
	id, err := parseSessionToken(cookie.Value, st.secret)
	if err != nil {
		return nil, nil
	}
	return st.Get(r.Context(), id)
}
