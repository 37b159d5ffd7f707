package domain

import (
	"errors"
	"time"
)

// Profile is the authoritative, store-persisted role record for a principal.
// At most one profile exists per principal; the role defaults to customer
// and is mutated only by administrative action.
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileExists      = errors.New("profile already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
