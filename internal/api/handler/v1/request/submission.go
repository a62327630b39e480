package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/fundhub/campaign-api/internal/domain"
)

type SubmissionLinks struct {
	DemoURL   string `json:"demo_url,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
	FilesURL  string `json:"files_url,omitempty"`
}

type SubmitRequest struct {
	ProjectTitle       string          `json:"project_title"`
	ProjectDescription string          `json:"project_description"`
	ScreenshotURLs     []string        `json:"screenshot_urls"`
	Links              SubmissionLinks `json:"links"`
	PitchDeckURL       string          `json:"pitch_deck_url,omitempty"`
}

// Validate checks presence only. URL rules live on the domain payload.
func (req *SubmitRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ProjectTitle, validation.Required),
		validation.Field(&req.ProjectDescription, validation.Required),
		validation.Field(&req.ScreenshotURLs, validation.Required),
	)
}

func (req *SubmitRequest) ToDomain() domain.SubmissionPayload {
	return domain.SubmissionPayload{
		ProjectTitle:       req.ProjectTitle,
		ProjectDescription: req.ProjectDescription,
		ScreenshotURLs:     req.ScreenshotURLs,
		Links: domain.SubmissionLinks{
			DemoURL:   req.Links.DemoURL,
			SourceURL: req.Links.SourceURL,
			FilesURL:  req.Links.FilesURL,
		},
		PitchDeckURL: req.PitchDeckURL,
	}
}

type GradeRequest struct {
	Score       *int     `json:"score"`
	Grade       string   `json:"grade"`
	Feedback    string   `json:"feedback,omitempty"`
	Status      string   `json:"status,omitempty"`
	Position    *int     `json:"position,omitempty"`
	PrizeAmount *float64 `json:"prize_amount,omitempty"`
}

func (req *GradeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Score, validation.NotNil),
		validation.Field(&req.Grade, validation.Required),
		validation.Field(&req.Feedback, validation.Length(0, 5000)),
	)
}

func (req *GradeRequest) ToDomain() domain.GradeInput {
	return domain.GradeInput{
		Score:       req.Score,
		Grade:       req.Grade,
		Feedback:    req.Feedback,
		Status:      domain.SubmissionStatus(req.Status),
		Position:    req.Position,
		PrizeAmount: req.PrizeAmount,
	}
}
