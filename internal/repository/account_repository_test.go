package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/charity-donation-platform/internal/model"
)

func newMockRepo(t *testing.T) (*AccountRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAccountRepo(db, NewProfileRepo(db)), mock
}

func accountRows(id uint64, email, role string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "is_verified", "created_at", "updated_at"}).
		AddRow(id, email, "hash", role, false, now, now)
}

func donorProvisionInput() (model.Account, model.Profile) {
	acc := model.Account{Email: "d@x.com", PasswordHash: "hash", Role: model.RoleDonor}
	p := model.Profile{
		Role:  model.RoleDonor,
		Donor: &model.DonorProfile{FullName: "Jane", Phone: "555"},
	}
	return acc, p
}

func TestProvisionCommitsAccountAndProfile(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	acc, p := donorProvisionInput()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO accounts").
		WithArgs("d@x.com", "hash", "donor").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO donors").
		WithArgs(uint64(7), "Jane", sql.NullString{String: "555", Valid: true}, sql.NullString{}).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE id=").
		WithArgs(int64(7)).
		WillReturnRows(accountRows(7, "d@x.com", "donor"))
	mock.ExpectQuery("SELECT full_name, phone, pan_card FROM donors").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"full_name", "phone", "pan_card"}).
			AddRow("Jane", "555", nil))
	mock.ExpectCommit()

	created, profile, err := repo.Provision(context.Background(), acc, p)
	require.NoError(t, err)
	require.Equal(t, uint64(7), created.ID)
	require.Equal(t, model.RoleDonor, created.Role)
	require.NotNil(t, profile.Donor)
	require.Equal(t, "Jane", profile.Donor.FullName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProvisionRollsBackWhenProfileInsertFails(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	acc, p := donorProvisionInput()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO accounts").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO donors").
		WillReturnError(errors.New("disk on fire"))
	mock.ExpectRollback()

	_, _, err := repo.Provision(context.Background(), acc, p)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProvisionTranslatesDuplicateEmail(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	acc, p := donorProvisionInput()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO accounts").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'd@x.com'"))
	mock.ExpectRollback()

	_, _, err := repo.Provision(context.Background(), acc, p)
	require.ErrorIs(t, err, ErrEmailTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmailAndRole(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE email=(.+) AND role=").
		WithArgs("n@x.com", "ngo").
		WillReturnRows(accountRows(3, "n@x.com", "ngo"))

	acc, err := repo.FindByEmailAndRole(context.Background(), " N@x.com ", model.RoleNGO)
	require.NoError(t, err)
	require.Equal(t, uint64(3), acc.ID)
	require.Equal(t, model.RoleNGO, acc.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmailNoRows(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE email=").
		WithArgs("ghost@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@x.com")
	require.ErrorIs(t, err, sql.ErrNoRows)
}
