package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/charity-donation-platform/internal/model"
)

// ProfileRepo reads and writes the four role-specific tables behind the
// model.Profile tagged union. Inserts happen through InsertTx inside the
// provisioning transaction; only the approval flag mutates afterwards.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

// InsertTx writes the variant row matching p.Role on the given transaction.
func (r *ProfileRepo) InsertTx(ctx context.Context, tx *sql.Tx, p model.Profile) error {
	switch p.Role {
	case model.RoleDonor:
		_, err := tx.ExecContext(ctx,
			"INSERT INTO donors (account_id, full_name, phone, pan_card) VALUES (?,?,?,?)",
			p.AccountID, p.Donor.FullName, nullable(p.Donor.Phone), nullable(p.Donor.PANCard))
		return err
	case model.RoleNGO:
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ngos (account_id, org_name, phone, state, city, website,
				registration_number, certificate_url, pan_tan)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			p.AccountID, p.NGO.OrgName, nullable(p.NGO.Phone), p.NGO.State, p.NGO.City,
			nullable(p.NGO.Website), p.NGO.RegistrationNumber,
			nullable(p.NGO.CertificateURL), nullable(p.NGO.PANTAN))
		return err
	case model.RoleCampaigner:
		_, err := tx.ExecContext(ctx, `
			INSERT INTO campaigners (account_id, full_name, phone, city, state,
				pan_number, id_type, govt_id_url)
			VALUES (?,?,?,?,?,?,?,?)`,
			p.AccountID, p.Campaigner.FullName, p.Campaigner.Phone, p.Campaigner.City,
			p.Campaigner.State, p.Campaigner.PANNumber, p.Campaigner.IDType,
			nullable(p.Campaigner.GovtIDURL))
		return err
	case model.RoleAdmin:
		_, err := tx.ExecContext(ctx,
			"INSERT INTO admins (account_id, access_code, two_factor_enabled) VALUES (?,?,?)",
			p.AccountID, p.Admin.AccessCode, p.Admin.TwoFactorEnabled)
		return err
	}
	return fmt.Errorf("unknown role %q", p.Role)
}

// FindByAccount fetches the profile variant for an account. Returns
// sql.ErrNoRows when the row is missing, which for an existing account is
// an integrity violation the caller must not swallow.
func (r *ProfileRepo) FindByAccount(ctx context.Context, role model.Role, accountID uint64) (model.Profile, error) {
	return r.findOn(ctx, r.DB, role, accountID)
}

func (r *ProfileRepo) findOn(ctx context.Context, q DBTX, role model.Role, accountID uint64) (model.Profile, error) {
	p := model.Profile{Role: role, AccountID: accountID}
	switch role {
	case model.RoleDonor:
		var d model.DonorProfile
		var phone, pan sql.NullString
		err := q.QueryRowContext(ctx,
			"SELECT full_name, phone, pan_card FROM donors WHERE account_id=? LIMIT 1",
			accountID).Scan(&d.FullName, &phone, &pan)
		if err != nil {
			return model.Profile{}, err
		}
		d.Phone, d.PANCard = phone.String, pan.String
		p.Donor = &d
	case model.RoleNGO:
		var n model.NGOProfile
		var phone, website, cert, pantan sql.NullString
		err := q.QueryRowContext(ctx, `
			SELECT org_name, phone, state, city, website, registration_number,
				certificate_url, pan_tan, is_approved
			FROM ngos WHERE account_id=? LIMIT 1`,
			accountID).Scan(&n.OrgName, &phone, &n.State, &n.City, &website,
			&n.RegistrationNumber, &cert, &pantan, &n.Approved)
		if err != nil {
			return model.Profile{}, err
		}
		n.Phone, n.Website, n.CertificateURL, n.PANTAN = phone.String, website.String, cert.String, pantan.String
		p.NGO = &n
	case model.RoleCampaigner:
		var c model.CampaignerProfile
		var govtID sql.NullString
		err := q.QueryRowContext(ctx, `
			SELECT full_name, phone, city, state, pan_number, id_type, govt_id_url, is_approved
			FROM campaigners WHERE account_id=? LIMIT 1`,
			accountID).Scan(&c.FullName, &c.Phone, &c.City, &c.State, &c.PANNumber,
			&c.IDType, &govtID, &c.Approved)
		if err != nil {
			return model.Profile{}, err
		}
		c.GovtIDURL = govtID.String
		p.Campaigner = &c
	case model.RoleAdmin:
		var a model.AdminProfile
		err := q.QueryRowContext(ctx,
			"SELECT access_code, two_factor_enabled FROM admins WHERE account_id=? LIMIT 1",
			accountID).Scan(&a.AccessCode, &a.TwoFactorEnabled)
		if err != nil {
			return model.Profile{}, err
		}
		p.Admin = &a
	default:
		return model.Profile{}, fmt.Errorf("unknown role %q", role)
	}
	return p, nil
}

// UpdateNGOApproval flips the approval flag on an NGO profile. Invoked by
// the admin review workflow.
func (r *ProfileRepo) UpdateNGOApproval(ctx context.Context, accountID uint64, approved bool) error {
	return r.updateApproval(ctx, "ngos", accountID, approved)
}

// UpdateCampaignerApproval flips the approval flag on a campaigner profile.
func (r *ProfileRepo) UpdateCampaignerApproval(ctx context.Context, accountID uint64, approved bool) error {
	return r.updateApproval(ctx, "campaigners", accountID, approved)
}

func (r *ProfileRepo) updateApproval(ctx context.Context, table string, accountID uint64, approved bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE "+table+" SET is_approved=? WHERE account_id=?", approved, accountID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// nullable maps empty optional strings to SQL NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
