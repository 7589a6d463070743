package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/charity-donation-platform/internal/model"
	"github.com/iliyamo/charity-donation-platform/internal/repository"
)

const testAccessCode = "LET-ME-IN"

func newProvisioner(store AccountStore) *Provisioner {
	return NewProvisioner(store, testAccessCode, bcrypt.MinCost)
}

func donorInput(email string) RegisterInput {
	return RegisterInput{
		Email:    email,
		Password: "p",
		Profile: model.Profile{
			Role:  model.RoleDonor,
			Donor: &model.DonorProfile{FullName: "Jane", Phone: "555"},
		},
	}
}

func ngoInput(email string) RegisterInput {
	return RegisterInput{
		Email:    email,
		Password: "p",
		Profile: model.Profile{
			Role: model.RoleNGO,
			NGO: &model.NGOProfile{
				OrgName:            "Helping Hands",
				State:              "KA",
				City:               "Bengaluru",
				RegistrationNumber: "REG-42",
			},
		},
	}
}

func TestRegisterDonor(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	p := newProvisioner(store)

	res, err := p.Register(context.Background(), donorInput("d@x.com"))
	require.NoError(t, err)
	require.NotZero(t, res.Account.ID)
	require.Equal(t, "d@x.com", res.Account.Email)
	require.Equal(t, model.RoleDonor, res.Account.Role)
	require.NotNil(t, res.Profile.Donor)
	require.Equal(t, "Jane", res.Profile.Donor.FullName)

	// The stored secret is a hash, never the plain password.
	require.NotEqual(t, "p", res.Account.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.Account.PasswordHash), []byte("p")))
}

func TestRegisterNormalizesEmail(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	p := newProvisioner(store)

	res, err := p.Register(context.Background(), donorInput("  D@X.com "))
	require.NoError(t, err)
	require.Equal(t, "d@x.com", res.Account.Email)
}

func TestRegisterDuplicateEmailAnyRole(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	p := newProvisioner(store)

	_, err := p.Register(context.Background(), donorInput("dup@x.com"))
	require.NoError(t, err)

	// Same email under a different role still conflicts.
	_, err = p.Register(context.Background(), ngoInput("dup@x.com"))
	require.ErrorIs(t, err, repository.ErrEmailTaken)
	require.Equal(t, 1, store.count())
}

func TestRegisterProfileFailureLeavesNoOrphan(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	store.profileErr = errors.New("profile insert boom")
	p := newProvisioner(store)

	_, err := p.Register(context.Background(), donorInput("a@x.com"))
	require.Error(t, err)

	// The account insert must have been rolled back with the profile.
	_, err = store.FindByEmail(context.Background(), "a@x.com")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.Zero(t, store.count())
}

func TestRegisterAdminAccessCode(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	p := newProvisioner(store)

	in := RegisterInput{
		Email:      "root@x.com",
		Password:   "p",
		AccessCode: "WRONG",
		Profile: model.Profile{
			Role:  model.RoleAdmin,
			Admin: &model.AdminProfile{AccessCode: "WRONG"},
		},
	}
	_, err := p.Register(context.Background(), in)
	require.ErrorIs(t, err, ErrAccessCode)
	require.Zero(t, store.count())

	in.AccessCode = testAccessCode
	in.Profile.Admin.AccessCode = testAccessCode
	res, err := p.Register(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, res.Account.Role)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{
			name:  "missing email",
			in:    RegisterInput{Password: "p", Profile: model.Profile{Role: model.RoleDonor, Donor: &model.DonorProfile{FullName: "J"}}},
			field: "email",
		},
		{
			name:  "malformed email",
			in:    RegisterInput{Email: "not-an-email", Password: "p", Profile: model.Profile{Role: model.RoleDonor, Donor: &model.DonorProfile{FullName: "J"}}},
			field: "email",
		},
		{
			name:  "missing password",
			in:    RegisterInput{Email: "a@x.com", Profile: model.Profile{Role: model.RoleDonor, Donor: &model.DonorProfile{FullName: "J"}}},
			field: "password",
		},
		{
			name: "campaigner missing phone",
			in: RegisterInput{Email: "c@x.com", Password: "p", Profile: model.Profile{
				Role: model.RoleCampaigner,
				Campaigner: &model.CampaignerProfile{
					FullName: "C", City: "Pune", State: "MH", PANNumber: "PAN1", IDType: "aadhaar",
				},
			}},
			field: "phone",
		},
		{
			name: "ngo missing registration number",
			in: RegisterInput{Email: "n@x.com", Password: "p", Profile: model.Profile{
				Role: model.RoleNGO,
				NGO:  &model.NGOProfile{OrgName: "N", State: "KA", City: "Mysuru"},
			}},
			field: "registration_number",
		},
		{
			name:  "unknown role",
			in:    RegisterInput{Email: "u@x.com", Password: "p", Profile: model.Profile{Role: "superuser"}},
			field: "role",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			store := newMemStore()
			_, err := newProvisioner(store).Register(context.Background(), tc.in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tc.field, ve.Field)
			require.Zero(t, store.count())
		})
	}
}

func TestRegisterRejectsPreApprovedProfiles(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	in := ngoInput("n@x.com")
	in.Profile.NGO.Approved = true

	_, err := newProvisioner(store).Register(context.Background(), in)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "approved", ve.Field)
}
