package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email is already taken")
)

// UserRecord is one stored account. Email is always the normalized
// (lower-cased) form; no two records share one. The password is stored
// and compared verbatim, a known deviation from production practice
// kept for compatibility with the existing user data file.
type UserRecord struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Password  string
	CreatedAt time.Time
}

// NormalizeEmail lower-cases an email for use as the unique record key.
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}

type UserRepository interface {
	NextID() (uuid.UUID, error)
	Find(email string) (*UserRecord, error)
	Create(record *UserRecord) error
}
