package models

// PrincipalKind discriminates the two account populations. Every
// session, cookie and JWT carries exactly one kind.
type PrincipalKind string

const (
	KindMentee PrincipalKind = "mentee"
	KindMentor PrincipalKind = "mentor"
)

// Valid reports whether the kind is one of the two known populations
func (k PrincipalKind) Valid() bool {
	return k == KindMentee || k == KindMentor
}

// CookieName returns the session cookie name for this kind
func (k PrincipalKind) CookieName() string {
	if k == KindMentor {
		return "mentor_session"
	}
	return "mentee_session"
}

// Session represents an authenticated principal of either kind
type Session struct {
	PrincipalID int64         `json:"principal_id"`
	Kind        PrincipalKind `json:"kind"`
	Email       string        `json:"email"`
	Name        string        `json:"name"`
	ExpiresAt   int64         `json:"exp"`
	IssuedAt    int64         `json:"iat"`
}

// LoginRequest is the payload for password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Success bool     `json:"success"`
	Session *Session `json:"session,omitempty"`
}

// LogoutResponse is returned after logout
type LogoutResponse struct {
	Success bool `json:"success"`
}

// SessionResponse is returned by the session introspection endpoint
type SessionResponse struct {
	Session *Session `json:"session"`
}
