package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/charity-donation-platform/internal/model"
)

// DonationRepo records donations against campaigns. Recording a donation
// and bumping the campaign's raised amount happen in one transaction.
type DonationRepo struct{ DB *sql.DB }

func NewDonationRepo(db *sql.DB) *DonationRepo { return &DonationRepo{DB: db} }

// Create inserts a completed donation and increments the campaign's raised
// amount. Returns ErrNotFound when the campaign is missing or inactive.
func (r *DonationRepo) Create(ctx context.Context, d model.Donation) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin donation: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM campaigns WHERE id=? AND is_active=1 FOR UPDATE", d.CampaignID).Scan(&one)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lock campaign: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO donations (donor_id, campaign_id, amount, transaction_id, status) VALUES (?,?,?,?,'completed')",
		d.DonorID, d.CampaignID, d.Amount, nullable(d.TransactionID))
	if err != nil {
		return 0, fmt.Errorf("insert donation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE campaigns SET raised_amount = raised_amount + ?, updated_at=NOW() WHERE id=?",
		d.Amount, d.CampaignID); err != nil {
		return 0, fmt.Errorf("bump raised amount: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit donation: %w", err)
	}
	return uint64(id), nil
}

// ListByCampaign returns the donations recorded against one campaign,
// newest first.
func (r *DonationRepo) ListByCampaign(ctx context.Context, campaignID uint64) ([]model.Donation, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, donor_id, campaign_id, amount, COALESCE(transaction_id,''), status, created_at
		FROM donations WHERE campaign_id=? ORDER BY created_at DESC`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Donation{}
	for rows.Next() {
		var d model.Donation
		if err := rows.Scan(&d.ID, &d.DonorID, &d.CampaignID, &d.Amount, &d.TransactionID, &d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
