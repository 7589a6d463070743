package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/charity-donation-platform/internal/model"
)

const accountColumns = "id,email,password_hash,role,is_verified,created_at,updated_at"

// AccountRepo persists login identities and runs the provisioning
// transaction that creates an account together with its profile row.
type AccountRepo struct {
	DB       *sql.DB
	Profiles *ProfileRepo
}

func NewAccountRepo(db *sql.DB, profiles *ProfileRepo) *AccountRepo {
	return &AccountRepo{DB: db, Profiles: profiles}
}

// FindByEmail fetches an account by normalized email. Returns sql.ErrNoRows
// when the email is unknown.
func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (model.Account, error) {
	return scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE email=? LIMIT 1",
		normalizeEmail(email)))
}

// FindByEmailAndRole fetches an account only when both the email and the
// stored role match. A login against the wrong role must not see the row.
func (r *AccountRepo) FindByEmailAndRole(ctx context.Context, email string, role model.Role) (model.Account, error) {
	return scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE email=? AND role=? LIMIT 1",
		normalizeEmail(email), string(role)))
}

// Provision inserts the account and its matching profile row as one
// transaction and re-reads both before committing, so callers always get
// the persisted state back. Any failure rolls the whole unit back; a
// duplicate email surfaces as ErrEmailTaken no matter which statement
// detected it.
func (r *AccountRepo) Provision(ctx context.Context, acc model.Account, p model.Profile) (model.Account, model.Profile, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Account{}, model.Profile{}, fmt.Errorf("begin provision: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO accounts (email, password_hash, role) VALUES (?,?,?)",
		normalizeEmail(acc.Email), acc.PasswordHash, string(acc.Role))
	if err != nil {
		if isDuplicate(err) {
			return model.Account{}, model.Profile{}, ErrEmailTaken
		}
		return model.Account{}, model.Profile{}, fmt.Errorf("insert account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Account{}, model.Profile{}, fmt.Errorf("account id: %w", err)
	}
	p.AccountID = uint64(id)

	if err := r.Profiles.InsertTx(ctx, tx, p); err != nil {
		return model.Account{}, model.Profile{}, fmt.Errorf("insert %s profile: %w", p.Role, err)
	}

	created, err := scanAccount(tx.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id=? LIMIT 1", id))
	if err != nil {
		return model.Account{}, model.Profile{}, fmt.Errorf("reload account: %w", err)
	}
	profile, err := r.Profiles.findOn(ctx, tx, p.Role, uint64(id))
	if err != nil {
		return model.Account{}, model.Profile{}, fmt.Errorf("reload %s profile: %w", p.Role, err)
	}

	if err := tx.Commit(); err != nil {
		return model.Account{}, model.Profile{}, fmt.Errorf("commit provision: %w", err)
	}
	return created, profile, nil
}

// DonorRecord is one row of the donor directory listing.
type DonorRecord struct {
	AccountID uint64    `json:"account_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	PANCard   string    `json:"pan_card,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListDonors joins accounts with donor profiles, newest signup first.
func (r *AccountRepo) ListDonors(ctx context.Context) ([]DonorRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT a.id, a.email, d.full_name, COALESCE(d.phone,''), COALESCE(d.pan_card,''), a.created_at
		FROM accounts a
		JOIN donors d ON d.account_id = a.id
		ORDER BY a.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DonorRecord{}
	for rows.Next() {
		var rec DonorRecord
		if err := rows.Scan(&rec.AccountID, &rec.Email, &rec.FullName, &rec.Phone, &rec.PANCard, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanAccount(row *sql.Row) (model.Account, error) {
	var a model.Account
	var role string
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &role, &a.IsVerified, &a.CreatedAt, &a.UpdatedAt)
	a.Role = model.Role(role)
	return a, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MySQL reports unique index violations as error 1062.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
