package user

import (
	"time"
)

// Role is an ordered enumeration of account roles. Authorization is a total
// order: a route requiring role R accepts any principal with Level() >= R.Level().
type Role string

const (
	RoleUser   Role = "USER"
	RolePolicy Role = "POLICY"
	RoleAdmin  Role = "ADMIN"
)

// Level returns the position of the role in the hierarchy. Unknown roles map
// to 0 and therefore never satisfy any requirement.
func (r Role) Level() int {
	switch r {
	case RoleUser:
		return 1
	case RolePolicy:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// Allows reports whether a principal holding r may access a resource that
// requires the given role.
func (r Role) Allows(required Role) bool {
	return r.Level() > 0 && r.Level() >= required.Level()
}

// ParseRole validates a role string, defaulting to RoleUser when empty.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RolePolicy, RoleAdmin:
		return Role(s), true
	case "":
		return RoleUser, true
	default:
		return "", false
	}
}

// User represents an account in the system.
// This is the core entity for the user module, used across the repository,
// service, and handler layers.
type User struct {
	ID           string     `db:"id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	FirstName    *string    `db:"first_name"`
	LastName     *string    `db:"last_name"`
	PhoneNumber  *string    `db:"phone_number"`
	Address      *string    `db:"address"`
	City         *string    `db:"city"`
	Region       *string    `db:"region"`
	Role         Role       `db:"role"`
	Verified     bool       `db:"verified"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// Sanitized is the public view of a User with the password hash omitted.
type Sanitized struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   *string   `json:"firstName,omitempty"`
	LastName    *string   `json:"lastName,omitempty"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
	Address     *string   `json:"address,omitempty"`
	City        *string   `json:"city,omitempty"`
	Region      *string   `json:"region,omitempty"`
	Role        Role      `json:"role"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Sanitize returns the user with the password hash stripped.
func (u *User) Sanitize() Sanitized {
	return Sanitized{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		City:        u.City,
		Region:      u.Region,
		Role:        u.Role,
		Verified:    u.Verified,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// Session represents one logged-in device. It is deleted on logout or
// password reset, and its expiry is extended in place on refresh when close
// to expiring.
type Session struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	UserAgent *string   `db:"user_agent"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// SessionTTL is the lifetime of a newly created or rotated session.
const SessionTTL = 30 * 24 * time.Hour

// SessionRefreshWindow is the remaining-lifetime threshold under which a
// refresh rotates the session and issues a new refresh token.
const SessionRefreshWindow = 24 * time.Hour

// CodeType distinguishes the two kinds of verification codes.
type CodeType string

const (
	CodeTypeEmailVerification CodeType = "email_verification"
	CodeTypePasswordReset     CodeType = "password_reset"
)

// VerificationCode is a single-use code: it is deleted atomically with the
// state change it authorizes and never left valid after use. The code the
// user receives is the record's id.
type VerificationCode struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Type      CodeType  `db:"type"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

const (
	// EmailVerificationTTL is deliberately long: verification links should
	// effectively never expire in practice.
	EmailVerificationTTL = 365 * 24 * time.Hour
	PasswordResetTTL     = time.Hour
	// PasswordResetWindow is the rate-limit window for issuing reset codes.
	PasswordResetWindow = 5 * time.Minute
)
