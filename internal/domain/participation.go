package domain

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/fundhub/campaign-api/internal/pkg/apperr"
)

var ErrInvalidApplication = apperr.New(apperr.KindValidation, "invalid_application", "invalid application")

type ParticipationStatus string

const (
	ParticipationPending  ParticipationStatus = "pending"
	ParticipationApproved ParticipationStatus = "approved"
	ParticipationRejected ParticipationStatus = "rejected"
)

func (s ParticipationStatus) IsDecision() bool {
	return s == ParticipationApproved || s == ParticipationRejected
}

// SubmissionState is the participation-side mirror of the submission status.
// It shares the submission taxonomy plus not_submitted.
type SubmissionState string

const (
	SubmissionStateNotSubmitted SubmissionState = "not_submitted"
	SubmissionStateSubmitted    SubmissionState = "submitted"
	SubmissionStateUnderReview  SubmissionState = "under_review"
	SubmissionStateGraded       SubmissionState = "graded"
	SubmissionStateWinner       SubmissionState = "winner"
	SubmissionStateRunnerUp     SubmissionState = "runner_up"
	SubmissionStateNotSelected  SubmissionState = "not_selected"
)

type Participation struct {
	ID               string              `json:"id"`
	CampaignID       string              `json:"campaign_id"`
	UserID           string              `json:"user_id"`
	Status           ParticipationStatus `json:"status"`
	SubmissionStatus SubmissionState     `json:"submission_status"`
	Motivation       string              `json:"motivation"`
	Experience       string              `json:"experience"`
	Portfolio        string              `json:"portfolio,omitempty"`
	AdditionalInfo   string              `json:"additional_info,omitempty"`
	SubmittedAt      time.Time           `json:"submitted_at"`
	ReviewedAt       *time.Time          `json:"reviewed_at,omitempty"`
	ReviewedBy       string              `json:"reviewed_by,omitempty"`
	ReviewNotes      string              `json:"review_notes,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

func (p Participation) HasSubmission() bool {
	return p.SubmissionStatus != "" && p.SubmissionStatus != SubmissionStateNotSubmitted
}

type Application struct {
	Motivation     string
	Experience     string
	Portfolio      string
	AdditionalInfo string
}

func (a Application) Normalize() Application {
	a.Motivation = strings.TrimSpace(a.Motivation)
	a.Experience = strings.TrimSpace(a.Experience)
	a.Portfolio = strings.TrimSpace(a.Portfolio)
	a.AdditionalInfo = strings.TrimSpace(a.AdditionalInfo)
	return a
}

func (a Application) Validate() error {
	err := validation.ValidateStruct(&a,
		validation.Field(&a.Motivation, validation.Required, validation.Length(1, 5000)),
		validation.Field(&a.Experience, validation.Required, validation.Length(1, 5000)),
		validation.Field(&a.Portfolio, validation.Length(0, 2000)),
		validation.Field(&a.AdditionalInfo, validation.Length(0, 5000)),
	)
	if err != nil {
		return ErrInvalidApplication.With(err)
	}
	return nil
}

type ReviewDecision struct {
	Decision ParticipationStatus
	Notes    string
}

type ParticipationFilter struct {
	CampaignID string
	Status     ParticipationStatus
}
