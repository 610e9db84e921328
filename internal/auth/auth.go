// Package auth provides the sign-in capability and the in-process session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"spendwise/internal/core"
)

type Provider string

const (
	Apple  Provider = "apple"
	Google Provider = "google"
)

var (
	ErrUnsupportedProvider = errors.New("auth: unsupported provider")
	ErrUnknownAvatar       = errors.New("auth: unknown avatar")
	ErrNotSignedIn         = errors.New("auth: not signed in")
)

// Avatars are the icon names a user can pick from.
var Avatars = []string{"piggy-bank", "wallet", "credit-card", "coins", "dollar-sign", "briefcase"}

func ParseProvider(s string) (Provider, error) {
	switch p := Provider(s); p {
	case Apple, Google:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, s)
}

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

func DemoUser() User {
	return User{ID: core.DemoUserID, Name: "Demo User", Email: "demo@example.com", Avatar: "piggy-bank"}
}

type Authenticator interface {
	SignIn(ctx context.Context, p Provider) (User, error)
}

// StubAuthenticator signs every supported provider in as the demo user.
type StubAuthenticator struct{}

func (StubAuthenticator) SignIn(ctx context.Context, p Provider) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	if p != Apple && p != Google {
		return User{}, fmt.Errorf("%w: %q", ErrUnsupportedProvider, p)
	}
	return DemoUser(), nil
}

// Session holds the signed-in user.
type Session struct {
	auth Authenticator

	mu   sync.RWMutex
	user *User
}

func NewSession(a Authenticator) *Session {
	if a == nil {
		a = StubAuthenticator{}
	}
	return &Session{auth: a}
}

func (s *Session) SignIn(ctx context.Context, p Provider) (User, error) {
	u, err := s.auth.SignIn(ctx, p)
	if err != nil {
		return User{}, fmt.Errorf("sign in with %s: %w", p, err)
	}
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	return u, nil
}

func (s *Session) SignOut() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// Current returns the signed-in user, if any.
func (s *Session) Current() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

func (s *Session) SetAvatar(avatar string) error {
	if !slices.Contains(Avatars, avatar) {
		return fmt.Errorf("%w: %q", ErrUnknownAvatar, avatar)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ErrNotSignedIn
	}
	s.user.Avatar = avatar
	return nil
}
