// Package auth implements the credential and session-token primitives of the
// INFORM server: bcrypt password hashing and the HS256 session token codec.
//
// Two token classes exist. A full session grants normal access for an
// operational day. A restricted session is issued at login while a password
// rotation is still pending; it is short-lived and usable only to invoke the
// password-change operation. The class is part of the decoded Session value,
// so the authorization layer switches on it rather than re-inspecting raw
// claims at each call site.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ddanilovs/inform/internal/common"
	"github.com/ddanilovs/inform/internal/server/models"
)

// SessionKind distinguishes the two token classes.
type SessionKind int

const (
	SessionFull SessionKind = iota
	SessionRestricted
)

// Claims is the wire shape of a session token payload.
type Claims struct {
	jwt.RegisteredClaims
	UserID     string `json:"id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Name       string `json:"name"`
	Restricted bool   `json:"restricted,omitempty"`
}

// Session is a verified, decoded token. Expiry has already been enforced by
// the codec; callers never check it themselves.
type Session struct {
	UserID string
	Email  string
	Role   string
	Name   string
	Kind   SessionKind
}

// IsAdmin reports whether the session belongs to an administrator identity.
func (s *Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// GenerateToken issues a signed token of the given kind for the user.
func GenerateToken(user *models.User, kind SessionKind, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:     user.ID,
		Email:      user.Email,
		Role:       user.Role,
		Name:       user.Name,
		Restricted: kind == SessionRestricted,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature and expiry and returns the decoded session.
// It fails with common.ErrTokenExpired past expiry and common.ErrInvalidToken
// for anything else; a tampered or expired token is never accepted.
func ParseToken(tokenString string, secretKey []byte) (*Session, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	kind := SessionFull
	if claims.Restricted {
		kind = SessionRestricted
	}

	return &Session{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
		Name:   claims.Name,
		Kind:   kind,
	}, nil
}
