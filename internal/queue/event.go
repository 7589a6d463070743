// Package queue defines the domain events exchanged over the message
// broker plus the publisher and the background audit consumer.
package queue

// SignupCompletedQueue and DonationReceivedQueue are the durable queue
// names used by both the publisher and the consumer.
const (
	SignupCompletedQueue  = "signup.completed"
	DonationReceivedQueue = "donation.received"
)

// SignupCompletedEvent is published after an account and its profile have
// been provisioned. It carries no secrets.
type SignupCompletedEvent struct {
	AccountID  uint64 `json:"account_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	SignedUpAt string `json:"signed_up_at"`
}

// DonationReceivedEvent is published when a donation is recorded.
type DonationReceivedEvent struct {
	DonationID uint64  `json:"donation_id"`
	CampaignID uint64  `json:"campaign_id"`
	DonorID    uint64  `json:"donor_id"`
	Amount     float64 `json:"amount"`
	ReceivedAt string  `json:"received_at"`
}
