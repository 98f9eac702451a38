package types

import (
	"time"

	"github.com/google/uuid"
)

// AccessState is the console access level of the current visitor.
type AccessState string

const (
	AccessUnauthenticated       AccessState = "unauthenticated"
	AccessAuthenticatedNonAdmin AccessState = "authenticated-non-admin"
	AccessAuthenticatedAdmin    AccessState = "authenticated-admin"
)

// Redirect returns where a visitor in this state is sent when opening the
// console. Admins stay, so the result is empty.
func (s AccessState) Redirect() string {
	switch s {
	case AccessAuthenticatedAdmin:
		return ""
	case AccessAuthenticatedNonAdmin:
		return "/"
	default:
		return "/auth"
	}
}

// Session is the per-request view of the signed-in account. It is built from
// the token and a fresh role lookup, and is never cached across requests.
type Session struct {
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	IsAdmin   bool      `json:"is_admin"`
}

// NewSession builds a session from validated claims and the role lookup result.
func NewSession(claims *TokenClaims, isAdmin bool) *Session {
	if claims == nil {
		return nil
	}
	session := &Session{
		AccountID: claims.UserID,
		Email:     claims.Email,
		TokenID:   claims.ID,
		IsAdmin:   isAdmin,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session
}

// ResolveAccess maps a session to its console access state.
func ResolveAccess(session *Session) AccessState {
	switch {
	case session == nil || session.AccountID == uuid.Nil:
		return AccessUnauthenticated
	case session.IsAdmin:
		return AccessAuthenticatedAdmin
	default:
		return AccessAuthenticatedNonAdmin
	}
}
