package users

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Verifier decides whether password authenticates u.
type Verifier interface {
	Verify(ctx context.Context, u User, password string) error
}

// SharedPassword accepts one password for every active user. It is meant for
// the demo deployment only: it keeps a bcrypt hash, never the plain text.
type SharedPassword struct {
	hash []byte
}

func NewSharedPassword(password string, cost int) (*SharedPassword, error) {
	if password == "" {
		return nil, errors.New("shared password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}
	return &SharedPassword{hash: hash}, nil
}

func (p *SharedPassword) Verify(_ context.Context, _ User, password string) error {
	if err := bcrypt.CompareHashAndPassword(p.hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
