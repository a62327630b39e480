package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/fundhub/campaign-api/internal/pkg/apperr"
)

var (
	ErrInvalidSubmission = apperr.New(apperr.KindValidation, "invalid_submission", "invalid submission payload")
	ErrInvalidGrade      = apperr.New(apperr.KindValidation, "invalid_grade", "invalid grading input")
)

var httpURL = regexp.MustCompile(`^https?://`)

type SubmissionStatus string

const (
	SubmissionSubmitted   SubmissionStatus = "submitted"
	SubmissionUnderReview SubmissionStatus = "under_review"
	SubmissionGraded      SubmissionStatus = "graded"
	SubmissionWinner      SubmissionStatus = "winner"
	SubmissionRunnerUp    SubmissionStatus = "runner_up"
	SubmissionNotSelected SubmissionStatus = "not_selected"
)

// GradingStatuses are the statuses a grader may assign.
var GradingStatuses = []interface{}{
	SubmissionGraded, SubmissionWinner, SubmissionRunnerUp, SubmissionNotSelected,
}

// LetterGrades is the accepted grade taxonomy.
var LetterGrades = []interface{}{"A+", "A", "B+", "B", "C+", "C", "D", "F"}

type SubmissionLinks struct {
	DemoURL   string `json:"demo_url,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
	FilesURL  string `json:"files_url,omitempty"`
}

type Submission struct {
	ID                 string           `json:"id"`
	ParticipationID    string           `json:"participation_id"`
	CampaignID         string           `json:"campaign_id"`
	UserID             string           `json:"user_id"`
	ProjectTitle       string           `json:"project_title"`
	ProjectDescription string           `json:"project_description"`
	ScreenshotURLs     []string         `json:"screenshot_urls"`
	Links              SubmissionLinks  `json:"links"`
	PitchDeckURL       string           `json:"pitch_deck_url,omitempty"`
	Status             SubmissionStatus `json:"status"`
	SubmissionDate     time.Time        `json:"submission_date"`
	Score              *int             `json:"score,omitempty"`
	Grade              string           `json:"grade,omitempty"`
	Feedback           string           `json:"feedback,omitempty"`
	GraderID           string           `json:"grader_id,omitempty"`
	GradedAt           *time.Time       `json:"graded_at,omitempty"`
	Position           *int             `json:"position,omitempty"`
	PrizeAmount        *float64         `json:"prize_amount,omitempty"`
	Distributed        bool             `json:"distributed"`
	DistributedAt      *time.Time       `json:"distributed_at,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// MirrorState is the value Participation.SubmissionStatus must hold for a
// participation whose latest submission is s. A nil submission means none exists.
func MirrorState(s *Submission) SubmissionState {
	if s == nil {
		return SubmissionStateNotSubmitted
	}
	return SubmissionState(s.Status)
}

type SubmissionPayload struct {
	ProjectTitle       string
	ProjectDescription string
	ScreenshotURLs     []string
	Links              SubmissionLinks
	PitchDeckURL       string
}

func (p SubmissionPayload) Normalize() SubmissionPayload {
	p.ProjectTitle = strings.TrimSpace(p.ProjectTitle)
	p.ProjectDescription = strings.TrimSpace(p.ProjectDescription)
	urls := make([]string, 0, len(p.ScreenshotURLs))
	for _, u := range p.ScreenshotURLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	p.ScreenshotURLs = urls
	p.Links.DemoURL = strings.TrimSpace(p.Links.DemoURL)
	p.Links.SourceURL = strings.TrimSpace(p.Links.SourceURL)
	p.Links.FilesURL = strings.TrimSpace(p.Links.FilesURL)
	p.PitchDeckURL = strings.TrimSpace(p.PitchDeckURL)
	return p
}

func (p SubmissionPayload) Validate() error {
	urlRules := []validation.Rule{is.URL, validation.Match(httpURL).Error("must be an http(s) URL")}

	err := validation.ValidateStruct(&p,
		validation.Field(&p.ProjectTitle, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.ProjectDescription, validation.Required),
		validation.Field(&p.ScreenshotURLs, validation.Required.Error("at least one screenshot URL is required"),
			validation.By(eachURL(urlRules))),
		validation.Field(&p.PitchDeckURL, urlRules...),
	)
	if err != nil {
		return ErrInvalidSubmission.With(err)
	}

	err = validation.ValidateStruct(&p.Links,
		validation.Field(&p.Links.DemoURL, urlRules...),
		validation.Field(&p.Links.SourceURL, urlRules...),
		validation.Field(&p.Links.FilesURL, urlRules...),
	)
	if err != nil {
		return ErrInvalidSubmission.With(err)
	}

	return nil
}

func eachURL(rules []validation.Rule) validation.RuleFunc {
	return func(value interface{}) error {
		urls, _ := value.([]string)
		for _, u := range urls {
			if err := validation.Validate(u, rules...); err != nil {
				return errors.New(u + ": " + err.Error())
			}
		}
		return nil
	}
}

type GradeInput struct {
	Score       *int
	Grade       string
	Feedback    string
	Status      SubmissionStatus
	Position    *int
	PrizeAmount *float64
}

func (g GradeInput) Validate() error {
	err := validation.ValidateStruct(&g,
		validation.Field(&g.Score, validation.NotNil, validation.By(intBetween(0, 100))),
		validation.Field(&g.Grade, validation.Required, validation.In(LetterGrades...)),
		validation.Field(&g.Status, validation.In(GradingStatuses...)),
		validation.Field(&g.Position, validation.By(intBetween(1, 3))),
		validation.Field(&g.PrizeAmount, validation.Min(0.0)),
	)
	if err != nil {
		return ErrInvalidGrade.With(err)
	}
	return nil
}

// EffectiveStatus is the status written by a grade, graded when omitted.
func (g GradeInput) EffectiveStatus() SubmissionStatus {
	if g.Status == "" {
		return SubmissionGraded
	}
	return g.Status
}

func intBetween(min, max int) validation.RuleFunc {
	return func(value interface{}) error {
		v, ok := value.(*int)
		if !ok || v == nil {
			return nil
		}
		if *v < min || *v > max {
			return fmt.Errorf("must be between %d and %d", min, max)
		}
		return nil
	}
}

// IsAward reports whether the status carries a podium position and prize.
func (s SubmissionStatus) IsAward() bool {
	return s == SubmissionWinner || s == SubmissionRunnerUp
}

// Apply writes a validated grade onto the submission. Position and prize are
// replaced by the grade's, and cleared for statuses that win nothing.
func (s *Submission) Apply(g GradeInput, graderID string, now time.Time) {
	score := *g.Score
	s.Score = &score
	s.Grade = g.Grade
	s.Feedback = strings.TrimSpace(g.Feedback)
	s.Status = g.EffectiveStatus()
	s.GraderID = graderID
	gradedAt := now
	s.GradedAt = &gradedAt
	s.Position, s.PrizeAmount = nil, nil
	if !s.Status.IsAward() {
		return
	}
	if g.Position != nil {
		position := *g.Position
		s.Position = &position
	}
	if g.PrizeAmount != nil {
		prize := *g.PrizeAmount
		s.PrizeAmount = &prize
	}
}

type LeaderboardEntry struct {
	Rank         int              `json:"rank"`
	SubmissionID string           `json:"submission_id"`
	UserID       string           `json:"user_id"`
	ProjectTitle string           `json:"project_title"`
	Status       SubmissionStatus `json:"status"`
	Score        int              `json:"score"`
	Grade        string           `json:"grade"`
	Position     *int             `json:"position,omitempty"`
	PrizeAmount  *float64         `json:"prize_amount,omitempty"`
}
