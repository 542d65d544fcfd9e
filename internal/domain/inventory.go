package domain

import "time"

const (
	CampaignStatusUpcoming = "UPCOMING"
	CampaignStatusActive   = "ACTIVE"
	CampaignStatusExpired  = "EXPIRED"

	DropsEnabledTag = "c2542d6d-cd10-4532-919b-3d19f30a768b"
)

type DropsCampaign struct {
	ID         string
	Name       string
	Game       Game
	Status     string
	StartsAt   time.Time
	EndsAt     time.Time
	TimedDrops []TimedDrop
}

func (c DropsCampaign) Upcoming() bool {
	return c.Status == CampaignStatusUpcoming
}

type TimedDrop struct {
	ID              string
	Name            string
	CurrentMinutes  int
	RequiredMinutes int
	IsClaimed       bool
	// DropInstanceID is only set once the drop has been earned and awaits a claim.
	DropInstanceID string
}

func (d TimedDrop) CanClaim() bool {
	return d.DropInstanceID != "" && !d.IsClaimed
}

func (d TimedDrop) CanEarn() bool {
	return !d.IsClaimed && d.DropInstanceID == "" && d.CurrentMinutes < d.RequiredMinutes
}

func (d TimedDrop) Progress() float64 {
	if d.RequiredMinutes <= 0 {
		return 0
	}
	progress := float64(d.CurrentMinutes) / float64(d.RequiredMinutes)
	if progress > 1 {
		return 1
	}
	return progress
}

type PointsContext struct {
	ChannelID        int64
	Balance          int
	AvailableClaimID string
}
