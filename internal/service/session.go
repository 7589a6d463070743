package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/charity-donation-platform/internal/model"
	"github.com/iliyamo/charity-donation-platform/internal/utils"
)

// CredentialStore is the slice of the stores the session issuer reads.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (model.Account, error)
	FindByEmailAndRole(ctx context.Context, email string, role model.Role) (model.Account, error)
}

// ProfileStore loads the role profile for a verified account.
type ProfileStore interface {
	FindByAccount(ctx context.Context, role model.Role, accountID uint64) (model.Profile, error)
}

// SessionIssuer verifies credentials and mints self-contained session
// tokens embedding the account identity and a profile snapshot.
type SessionIssuer struct {
	accounts CredentialStore
	profiles ProfileStore
	secret   string
	ttl      time.Duration
}

func NewSessionIssuer(accounts CredentialStore, profiles ProfileStore, secret string, ttl time.Duration) *SessionIssuer {
	return &SessionIssuer{accounts: accounts, profiles: profiles, secret: secret, ttl: ttl}
}

// Session is the outcome of a successful authentication.
type Session struct {
	Token   string
	Exp     time.Time
	Account model.Account
	Profile model.Profile
}

// Authenticate verifies email+password and returns a fresh session token.
// When role is non-empty the lookup is scoped to (email, role), so logging
// in with the wrong role fails even with the right password. Every
// credential failure maps to ErrInvalidCredentials; a valid account with a
// missing profile row is an integrity violation and surfaces as a store
// error instead.
func (s *SessionIssuer) Authenticate(ctx context.Context, email, password, role string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	var acc model.Account
	var err error
	if role != "" {
		r, ok := model.ParseRole(role)
		if !ok {
			return Session{}, ErrInvalidCredentials
		}
		acc, err = s.accounts.FindByEmailAndRole(ctx, email, r)
	} else {
		// Legacy path: the stored role decides which profile table to read.
		acc, err = s.accounts.FindByEmail(ctx, email)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("account lookup: %w", err)
	}

	if !utils.VerifyPassword(acc.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}

	profile, err := s.profiles.FindByAccount(ctx, acc.Role, acc.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("account %d has no %s profile: %w", acc.ID, acc.Role, err)
	}
	if err != nil {
		return Session{}, fmt.Errorf("profile lookup: %w", err)
	}

	return s.Issue(acc, profile)
}

// Issue mints a session token for an already-verified account. Used by
// Authenticate and right after signup.
func (s *SessionIssuer) Issue(acc model.Account, profile model.Profile) (Session, error) {
	tok, err := utils.NewSessionToken(s.secret, acc.ID, acc.Email, string(acc.Role), profile.Snapshot(), s.ttl)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{Token: tok.Token, Exp: tok.Exp, Account: acc, Profile: profile}, nil
}
