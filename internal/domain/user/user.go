package user

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type User struct {
	ID           uuid.UUID `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"date"`
}

// Summary is the public projection of a user attached to profiles.
type Summary struct {
	ID     uuid.UUID `json:"_id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

func (u *User) Summary() *Summary {
	return &Summary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

// NormalizeEmail lowercases and trims so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GravatarURL builds the 200px, pg-rated, mystery-man fallback avatar for email.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(NormalizeEmail(email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=mm&r=pg&s=200", hex.EncodeToString(sum[:]))
}

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*User, error)
	Create(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
