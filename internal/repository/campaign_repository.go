package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/charity-donation-platform/internal/model"
)

// CampaignRepo persists fundraising campaigns. Deletion is soft: rows are
// deactivated so past donations keep a valid reference.
type CampaignRepo struct{ DB *sql.DB }

func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{DB: db} }

const campaignSelect = `
	SELECT c.id, c.title, c.description, c.target_amount, c.raised_amount,
		c.organizer_id, c.organizer_role, c.category, COALESCE(c.location,''),
		COALESCE(c.image_url,''), COALESCE(c.start_date,''), COALESCE(c.end_date,''),
		c.is_active, c.created_at, c.updated_at,
		CASE
			WHEN c.organizer_role = 'ngo' THEN COALESCE(n.org_name,'')
			ELSE COALESCE(p.full_name,'')
		END AS organizer_name
	FROM campaigns c
	LEFT JOIN ngos n ON c.organizer_role = 'ngo' AND n.account_id = c.organizer_id
	LEFT JOIN campaigners p ON c.organizer_role = 'campaigner' AND p.account_id = c.organizer_id`

// Create inserts a campaign and returns its id.
func (r *CampaignRepo) Create(ctx context.Context, cp model.Campaign) (uint64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO campaigns (title, description, target_amount, organizer_id,
			organizer_role, category, location, image_url, start_date, end_date)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		cp.Title, cp.Description, cp.TargetAmount, cp.OrganizerID, string(cp.OrganizerRole),
		cp.Category, nullable(cp.Location), nullable(cp.ImageURL),
		nullable(cp.StartDate), nullable(cp.EndDate))
	if err != nil {
		return 0, fmt.Errorf("insert campaign: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListActive returns all active campaigns, newest first, with the organizer
// name joined in from the matching profile table.
func (r *CampaignRepo) ListActive(ctx context.Context) ([]model.Campaign, error) {
	rows, err := r.DB.QueryContext(ctx, campaignSelect+" WHERE c.is_active=1 ORDER BY c.created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Campaign{}
	for rows.Next() {
		cp, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}

// GetActive fetches one active campaign by id. Returns ErrNotFound for
// unknown or deactivated campaigns.
func (r *CampaignRepo) GetActive(ctx context.Context, id uint64) (model.Campaign, error) {
	rows, err := r.DB.QueryContext(ctx, campaignSelect+" WHERE c.id=? AND c.is_active=1 LIMIT 1", id)
	if err != nil {
		return model.Campaign{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.Campaign{}, err
		}
		return model.Campaign{}, ErrNotFound
	}
	return scanCampaign(rows)
}

// Update rewrites the mutable fields of a campaign owned by the given
// organizer. A row owned by someone else is reported as ErrForbidden.
func (r *CampaignRepo) Update(ctx context.Context, cp model.Campaign) error {
	owned, err := r.ownedBy(ctx, cp.ID, cp.OrganizerID, cp.OrganizerRole)
	if err != nil {
		return err
	}
	if !owned {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx, `
		UPDATE campaigns SET title=?, description=?, target_amount=?, category=?,
			location=?, image_url=?, start_date=?, end_date=?, updated_at=NOW()
		WHERE id=?`,
		cp.Title, cp.Description, cp.TargetAmount, cp.Category,
		nullable(cp.Location), nullable(cp.ImageURL),
		nullable(cp.StartDate), nullable(cp.EndDate), cp.ID)
	return err
}

// SoftDelete deactivates a campaign owned by the given organizer.
func (r *CampaignRepo) SoftDelete(ctx context.Context, id, organizerID uint64, role model.Role) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE campaigns SET is_active=0, updated_at=NOW() WHERE id=? AND organizer_id=? AND organizer_role=? AND is_active=1",
		id, organizerID, string(role))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrForbidden
	}
	return nil
}

func (r *CampaignRepo) ownedBy(ctx context.Context, id, organizerID uint64, role model.Role) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM campaigns WHERE id=? AND organizer_id=? AND organizer_role=? AND is_active=1 LIMIT 1",
		id, organizerID, string(role)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func scanCampaign(rows *sql.Rows) (model.Campaign, error) {
	var cp model.Campaign
	var role string
	err := rows.Scan(&cp.ID, &cp.Title, &cp.Description, &cp.TargetAmount, &cp.RaisedAmount,
		&cp.OrganizerID, &role, &cp.Category, &cp.Location, &cp.ImageURL,
		&cp.StartDate, &cp.EndDate, &cp.IsActive, &cp.CreatedAt, &cp.UpdatedAt,
		&cp.OrganizerName)
	cp.OrganizerRole = model.Role(role)
	return cp, err
}
