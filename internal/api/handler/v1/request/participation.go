package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/fundhub/campaign-api/internal/domain"
)

type ApplyRequest struct {
	Motivation     string `json:"motivation"`
	Experience     string `json:"experience"`
	Portfolio      string `json:"portfolio,omitempty"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

func (req *ApplyRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Motivation, validation.Required),
		validation.Field(&req.Experience, validation.Required),
	)
}

func (req *ApplyRequest) ToDomain() domain.Application {
	return domain.Application{
		Motivation:     req.Motivation,
		Experience:     req.Experience,
		Portfolio:      req.Portfolio,
		AdditionalInfo: req.AdditionalInfo,
	}
}

type ReviewRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes,omitempty"`
}

func (req *ReviewRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Decision, validation.Required, validation.In("approved", "rejected")),
		validation.Field(&req.Notes, validation.Length(0, 2000)),
	)
}

func (req *ReviewRequest) ToDomain() domain.ReviewDecision {
	return domain.ReviewDecision{
		Decision: domain.ParticipationStatus(req.Decision),
		Notes:    req.Notes,
	}
}
