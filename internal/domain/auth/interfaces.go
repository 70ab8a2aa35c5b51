package auth

import (
	"context"
	"time"
)

// UserRepositoryInterface lists only the methods the auth service uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateName(ctx context.Context, id int64, name string) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	CreateResetToken(ctx context.Context, t *PasswordResetToken) error
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) error
}

type jwtService interface {
	GenerateToken(userID int64, email string) (string, error)
	TTL() time.Duration
}
