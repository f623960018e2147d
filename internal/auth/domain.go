package auth

import (
	"time"

	"github.com/atelier-lms/atelier/internal/shared"
)

// User is the credential row backing authentication. PasswordHash never
// leaves this package.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Roles        []shared.Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session records an issued refresh token for revocation and audit.
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TokenPair is issued on login and rotated on refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}
