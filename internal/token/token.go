package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token audience shared by both token kinds; verification rejects tokens
// minted for a different audience.
const Audience = "user"

const (
	AccessTokenTTL  = 60 * time.Minute
	RefreshTokenTTL = 30 * 24 * time.Hour
)

var (
	// ErrTokenExpired is returned when a token's expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for any other verification failure
	// (bad signature, malformed payload, wrong audience).
	ErrTokenInvalid = errors.New("token invalid")
)

// AccessClaims is the payload of a short-lived access token.
type AccessClaims struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a long-lived refresh token. It carries only
// the session id; the session record is the source of truth for validity.
type RefreshClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// Service signs and verifies access and refresh tokens. The two secrets are
// distinct so a compromise of the access secret cannot mint long-lived refresh
// tokens and vice versa.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

// NewService creates a token service with the given secrets.
func NewService(accessSecret, refreshSecret []byte) *Service {
	return &Service{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		now:           time.Now,
	}
}

// SignAccessToken mints a 60-minute access token bound to a user, session and role.
func (s *Service) SignAccessToken(userID, sessionID, role string) (string, error) {
	now := s.now()
	claims := AccessClaims{
		UserID:    userID,
		SessionID: sessionID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
}

// SignRefreshToken mints a 30-day refresh token bound to a session.
func (s *Service) SignRefreshToken(sessionID string) (string, error) {
	now := s.now()
	claims := RefreshClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
}

// VerifyAccessToken parses and validates an access token.
func (s *Service) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.verify(tokenString, claims, s.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefreshToken parses and validates a refresh token.
func (s *Service) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.verify(tokenString, claims, s.refreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// DecodeAccessToken extracts the claims of an access token without verifying
// the signature or expiry. Logout uses it so that an already-expired token can
// still revoke its session; callers must never trust the result for
// authentication.
func (s *Service) DecodeAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *Service) verify(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithAudience(Audience), jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
