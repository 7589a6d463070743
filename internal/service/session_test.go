package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/charity-donation-platform/internal/model"
	"github.com/iliyamo/charity-donation-platform/internal/utils"
)

const testSecret = "test-secret"

func newIssuer(store *memStore) *SessionIssuer {
	return NewSessionIssuer(store, store, testSecret, 24*time.Hour)
}

func TestAuthenticateRoundTrip(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	_, err := newProvisioner(store).Register(context.Background(), donorInput("d@x.com"))
	require.NoError(t, err)

	sess, err := newIssuer(store).Authenticate(context.Background(), "d@x.com", "p", "donor")
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)

	claims, err := utils.ParseSessionToken(testSecret, sess.Token)
	require.NoError(t, err)
	id, err := claims.AccountID()
	require.NoError(t, err)
	require.Equal(t, sess.Account.ID, id)
	require.Equal(t, "d@x.com", claims.Email)
	require.Equal(t, "donor", claims.Role)
	require.Equal(t, "Jane", claims.Profile["full_name"])
}

func TestAuthenticateWrongRoleFails(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	_, err := newProvisioner(store).Register(context.Background(), ngoInput("a@x.com"))
	require.NoError(t, err)

	// Correct password, wrong role: must not leak that the email exists.
	_, err = newIssuer(store).Authenticate(context.Background(), "a@x.com", "p", "donor")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateFailuresAreUniform(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	_, err := newProvisioner(store).Register(context.Background(), donorInput("d@x.com"))
	require.NoError(t, err)
	issuer := newIssuer(store)

	for _, tc := range []struct {
		name                  string
		email, password, role string
	}{
		{"unknown email", "nobody@x.com", "p", "donor"},
		{"wrong password", "d@x.com", "wrong", "donor"},
		{"invalid role value", "d@x.com", "p", "superuser"},
		{"empty password", "d@x.com", "", "donor"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := issuer.Authenticate(context.Background(), tc.email, tc.password, tc.role)
			require.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAuthenticateLegacyEmailOnly(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	_, err := newProvisioner(store).Register(context.Background(), ngoInput("n@x.com"))
	require.NoError(t, err)

	// Without a role the stored role picks the profile table.
	sess, err := newIssuer(store).Authenticate(context.Background(), "n@x.com", "p", "")
	require.NoError(t, err)
	require.Equal(t, model.RoleNGO, sess.Account.Role)
	require.NotNil(t, sess.Profile.NGO)
}

func TestAuthenticateMissingProfileIsIntegrityFailure(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	_, err := newProvisioner(store).Register(context.Background(), donorInput("d@x.com"))
	require.NoError(t, err)

	// Simulate a profile row lost behind the account's back.
	store.mu.Lock()
	acc := store.accounts["d@x.com"]
	delete(store.profiles, acc.ID)
	store.mu.Unlock()

	_, err = newIssuer(store).Authenticate(context.Background(), "d@x.com", "p", "donor")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestApprovalDefaultsFalseInSnapshot(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	_, err := newProvisioner(store).Register(context.Background(), ngoInput("n@x.com"))
	require.NoError(t, err)

	sess, err := newIssuer(store).Authenticate(context.Background(), "n@x.com", "p", "ngo")
	require.NoError(t, err)

	claims, err := utils.ParseSessionToken(testSecret, sess.Token)
	require.NoError(t, err)
	require.Equal(t, false, claims.Profile["approved"])

	// Once the admin workflow approves, the next login reflects it.
	store.mu.Lock()
	acc := store.accounts["n@x.com"]
	p := store.profiles[acc.ID]
	p.NGO.Approved = true
	store.profiles[acc.ID] = p
	store.mu.Unlock()

	sess, err = newIssuer(store).Authenticate(context.Background(), "n@x.com", "p", "ngo")
	require.NoError(t, err)
	claims, err = utils.ParseSessionToken(testSecret, sess.Token)
	require.NoError(t, err)
	require.Equal(t, true, claims.Profile["approved"])
}

func TestSnapshotShapeByRole(t *testing.T) {
	t.Parallel()
	donor := model.Profile{Role: model.RoleDonor, Donor: &model.DonorProfile{FullName: "J"}}
	require.NotContains(t, donor.Snapshot(), "approved")

	ngo := model.Profile{Role: model.RoleNGO, NGO: &model.NGOProfile{OrgName: "N"}}
	require.Contains(t, ngo.Snapshot(), "approved")

	campaigner := model.Profile{Role: model.RoleCampaigner, Campaigner: &model.CampaignerProfile{FullName: "C"}}
	require.Contains(t, campaigner.Snapshot(), "approved")

	admin := model.Profile{Role: model.RoleAdmin, Admin: &model.AdminProfile{}}
	require.Contains(t, admin.Snapshot(), "two_factor_enabled")
}
