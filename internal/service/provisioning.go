package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/iliyamo/charity-donation-platform/internal/model"
	"github.com/iliyamo/charity-donation-platform/internal/repository"
	"github.com/iliyamo/charity-donation-platform/internal/utils"
)

// AccountStore is the slice of the credential store the provisioner needs.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (model.Account, error)
	Provision(ctx context.Context, acc model.Account, p model.Profile) (model.Account, model.Profile, error)
}

// Provisioner creates an account and its matching role profile as one
// logical unit.
type Provisioner struct {
	store      AccountStore
	accessCode string
	bcryptCost int
}

func NewProvisioner(store AccountStore, adminAccessCode string, bcryptCost int) *Provisioner {
	return &Provisioner{store: store, accessCode: adminAccessCode, bcryptCost: bcryptCost}
}

// RegisterInput carries the credentials plus the role-specific attributes
// for one signup. Profile.Role selects the variant; exactly one variant
// pointer must be populated.
type RegisterInput struct {
	Email      string
	Password   string
	AccessCode string // admin signups only
	Profile    model.Profile
}

// RegisterResult is the persisted account and profile, ready for token
// minting.
type RegisterResult struct {
	Account model.Account
	Profile model.Profile
}

// Register validates the input, hashes the password and provisions the
// account together with its profile row. The two inserts run in a single
// transaction inside the store; a failed profile insert leaves no orphan
// account. Duplicate emails surface as repository.ErrEmailTaken, admin
// access code mismatches as ErrAccessCode and bad input as
// *ValidationError.
func (s *Provisioner) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return RegisterResult{}, missing("email")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return RegisterResult{}, &ValidationError{Field: "email", Reason: "malformed"}
	}
	if in.Password == "" {
		return RegisterResult{}, missing("password")
	}
	if err := validateProfile(in.Profile); err != nil {
		return RegisterResult{}, err
	}
	if in.Profile.Role == model.RoleAdmin && in.AccessCode != s.accessCode {
		return RegisterResult{}, ErrAccessCode
	}

	// Fail fast on known duplicates; the unique index decides races.
	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return RegisterResult{}, repository.ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return RegisterResult{}, fmt.Errorf("email lookup: %w", err)
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("hash password: %w", err)
	}

	acc, profile, err := s.store.Provision(ctx, model.Account{
		Email:        email,
		PasswordHash: hash,
		Role:         in.Profile.Role,
	}, in.Profile)
	if err != nil {
		return RegisterResult{}, err
	}
	return RegisterResult{Account: acc, Profile: profile}, nil
}

func validateProfile(p model.Profile) error {
	switch p.Role {
	case model.RoleDonor:
		if p.Donor == nil || p.Donor.FullName == "" {
			return missing("full_name")
		}
	case model.RoleNGO:
		if p.NGO == nil || p.NGO.OrgName == "" {
			return missing("org_name")
		}
		if p.NGO.State == "" {
			return missing("state")
		}
		if p.NGO.City == "" {
			return missing("city")
		}
		if p.NGO.RegistrationNumber == "" {
			return missing("registration_number")
		}
		if p.NGO.Approved {
			return &ValidationError{Field: "approved", Reason: "cannot be set at signup"}
		}
	case model.RoleCampaigner:
		if p.Campaigner == nil || p.Campaigner.FullName == "" {
			return missing("full_name")
		}
		if p.Campaigner.Phone == "" {
			return missing("phone")
		}
		if p.Campaigner.City == "" {
			return missing("city")
		}
		if p.Campaigner.State == "" {
			return missing("state")
		}
		if p.Campaigner.PANNumber == "" {
			return missing("pan_number")
		}
		if p.Campaigner.IDType == "" {
			return missing("id_type")
		}
		if p.Campaigner.Approved {
			return &ValidationError{Field: "approved", Reason: "cannot be set at signup"}
		}
	case model.RoleAdmin:
		if p.Admin == nil || p.Admin.AccessCode == "" {
			return missing("access_code")
		}
	default:
		return &ValidationError{Field: "role", Reason: "unknown role"}
	}
	return nil
}
