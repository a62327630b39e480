package domain

import "time"

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

type CampaignType string

const (
	CampaignTypeCustom CampaignType = "custom"
	CampaignTypeMini   CampaignType = "mini"
)

type Campaign struct {
	ID                      string         `json:"id"`
	CreatorID               string         `json:"creator_id"`
	Title                   string         `json:"title"`
	Status                  CampaignStatus `json:"status"`
	Type                    CampaignType   `json:"campaign_type"`
	RegistrationStartDate   *time.Time     `json:"registration_start_date,omitempty"`
	RegistrationEndDate     *time.Time     `json:"registration_end_date,omitempty"`
	SubmissionStartDate     *time.Time     `json:"submission_start_date,omitempty"`
	SubmissionEndDate       *time.Time     `json:"submission_end_date,omitempty"`
	ResultsAnnouncementDate *time.Time     `json:"results_announcement_date,omitempty"`
	AwardDistributionDate   *time.Time     `json:"award_distribution_date,omitempty"`
	FundingTrail            bool           `json:"funding_trail"`
	LikesCount              int64          `json:"likes_count"`
	SharesCount             int64          `json:"shares_count"`
	ViewsCount              int64          `json:"views_count"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
}

// AcceptsParticipation reports whether users may apply at all.
func (c Campaign) AcceptsParticipation() bool {
	return c.Status == CampaignActive && c.FundingTrail
}

type WindowState int

const (
	WindowOpen WindowState = iota
	WindowNotOpen
	WindowClosed
)

// SubmissionWindowAt evaluates the submission window at now. Both edges are
// inclusive and an unset edge never blocks.
func (c Campaign) SubmissionWindowAt(now time.Time) WindowState {
	if c.SubmissionStartDate != nil && now.Before(*c.SubmissionStartDate) {
		return WindowNotOpen
	}
	if c.SubmissionEndDate != nil && now.After(*c.SubmissionEndDate) {
		return WindowClosed
	}
	return WindowOpen
}

// LifecycleDeadline is the instant after which an active campaign is done.
func (c Campaign) LifecycleDeadline() *time.Time {
	if c.AwardDistributionDate != nil {
		return c.AwardDistributionDate
	}
	return c.ResultsAnnouncementDate
}

type Project struct {
	ID          string    `json:"id"`
	CreatorID   string    `json:"creator_id"`
	Title       string    `json:"title"`
	LikesCount  int64     `json:"likes_count"`
	SharesCount int64     `json:"shares_count"`
	ViewsCount  int64     `json:"views_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
