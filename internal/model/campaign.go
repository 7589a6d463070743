package model

import "time"

// Campaign mirrors the `campaigns` table. OrganizerID references the
// organizer's account; OrganizerRole is always ngo or campaigner. Soft
// deletion flips IsActive instead of removing the row.
type Campaign struct {
	ID            uint64
	Title         string
	Description   string
	TargetAmount  float64
	RaisedAmount  float64
	OrganizerID   uint64
	OrganizerRole Role
	OrganizerName string // joined from the organizer's profile on reads
	Category      string
	Location      string
	ImageURL      string
	StartDate     string
	EndDate       string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Donation mirrors the `donations` table.
type Donation struct {
	ID            uint64
	DonorID       uint64
	CampaignID    uint64
	Amount        float64
	TransactionID string
	Status        string
	CreatedAt     time.Time
}
