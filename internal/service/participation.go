package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fundhub/campaign-api/internal/domain"
	"github.com/fundhub/campaign-api/internal/pkg/apperr"
	"github.com/fundhub/campaign-api/internal/repository"
)

var (
	ErrCampaignNotFound      = repository.ErrCampaignNotFound
	ErrParticipationNotFound = repository.ErrParticipationNotFound
	ErrParticipationExists   = repository.ErrParticipationExists

	ErrNotEligible       = apperr.New(apperr.KindForbidden, "not_eligible", "only students can take part in campaigns")
	ErrNotVerified       = apperr.New(apperr.KindForbidden, "not_verified", "your account verification has not been approved")
	ErrCampaignNotActive = apperr.New(apperr.KindInvalidState, "campaign_not_active", "campaign is not accepting participants")
	ErrInvalidDecision   = apperr.New(apperr.KindValidation, "invalid_decision", "decision must be approved or rejected")
	ErrInvalidFilter     = apperr.New(apperr.KindValidation, "invalid_status_filter", "unknown participation status")
	ErrApprovalLocked    = apperr.New(apperr.KindInvalidState, "approval_locked", "approval cannot be revoked once a submission exists")
)

type CampaignRepository interface {
	FindByID(ctx context.Context, id string) (domain.Campaign, error)
}

type ParticipationRepository interface {
	Create(ctx context.Context, participation domain.Participation) (domain.Participation, error)
	FindByID(ctx context.Context, id string) (domain.Participation, error)
	FindByCampaignAndUser(ctx context.Context, campaignID, userID string) (domain.Participation, error)
	List(ctx context.Context, filter domain.ParticipationFilter) ([]domain.Participation, error)
	Update(ctx context.Context, id string, mutate func(p *domain.Participation) error) (domain.Participation, error)
}

// ParticipationService admits users into campaigns and records the
// creator's decision on each application.
type ParticipationService struct {
	repo         ParticipationRepository
	campaignRepo CampaignRepository
	auth         Authorizer
	now          Clock
}

func NewParticipationService(repo ParticipationRepository, campaignRepo CampaignRepository, auth Authorizer, now Clock) *ParticipationService {
	return &ParticipationService{
		repo:         repo,
		campaignRepo: campaignRepo,
		auth:         auth,
		now:          now,
	}
}

func (s *ParticipationService) Apply(ctx context.Context, caller domain.Caller, campaignID string, application domain.Application) (domain.Participation, error) {
	if caller.UserID == "" {
		return domain.Participation{}, ErrUnauthenticated
	}
	if !caller.CanParticipate() {
		return domain.Participation{}, ErrNotEligible
	}
	if !caller.IsVerified() {
		return domain.Participation{}, ErrNotVerified
	}

	campaign, err := s.findCampaign(ctx, campaignID)
	if err != nil {
		return domain.Participation{}, err
	}
	if !campaign.AcceptsParticipation() {
		return domain.Participation{}, ErrCampaignNotActive
	}

	// The unique index still decides concurrent applies.
	_, err = s.repo.FindByCampaignAndUser(ctx, campaign.ID, caller.UserID)
	switch {
	case err == nil:
		return domain.Participation{}, ErrParticipationExists
	case !errors.Is(err, ErrParticipationNotFound):
		return domain.Participation{}, fmt.Errorf("s.repo.FindByCampaignAndUser -> %w", err)
	}

	application = application.Normalize()
	if err := application.Validate(); err != nil {
		return domain.Participation{}, err
	}

	created, err := s.repo.Create(ctx, domain.Participation{
		CampaignID:       campaign.ID,
		UserID:           caller.UserID,
		Status:           domain.ParticipationPending,
		SubmissionStatus: domain.SubmissionStateNotSubmitted,
		Motivation:       application.Motivation,
		Experience:       application.Experience,
		Portfolio:        application.Portfolio,
		AdditionalInfo:   application.AdditionalInfo,
		SubmittedAt:      s.now(),
	})
	if err != nil {
		return domain.Participation{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Review records an approve or reject decision. Re-review overwrites the
// previous decision, except that an approval cannot be revoked once the
// participant has submitted work.
func (s *ParticipationService) Review(ctx context.Context, caller domain.Caller, participationID string, decision domain.ReviewDecision) (domain.Participation, error) {
	if caller.UserID == "" {
		return domain.Participation{}, ErrUnauthenticated
	}
	if !decision.Decision.IsDecision() {
		return domain.Participation{}, ErrInvalidDecision
	}

	participation, campaign, err := s.load(ctx, participationID)
	if err != nil {
		return domain.Participation{}, err
	}
	if !s.auth.CanReview(caller, campaign) {
		return domain.Participation{}, ErrNotCampaignOwner
	}

	reviewed, err := s.repo.Update(ctx, participation.ID, func(p *domain.Participation) error {
		if p.Status == domain.ParticipationApproved && decision.Decision == domain.ParticipationRejected && p.HasSubmission() {
			return ErrApprovalLocked
		}

		now := s.now()
		p.Status = decision.Decision
		p.ReviewedAt = &now
		p.ReviewedBy = caller.UserID
		p.ReviewNotes = decision.Notes
		return nil
	})
	if err != nil {
		return domain.Participation{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return reviewed, nil
}

// GetParticipation is visible to the applicant, the campaign creator and admins.
func (s *ParticipationService) GetParticipation(ctx context.Context, caller domain.Caller, participationID string) (domain.Participation, error) {
	if caller.UserID == "" {
		return domain.Participation{}, ErrUnauthenticated
	}

	participation, campaign, err := s.load(ctx, participationID)
	if err != nil {
		return domain.Participation{}, err
	}
	if participation.UserID != caller.UserID && !s.auth.CanReview(caller, campaign) {
		return domain.Participation{}, ErrNotOwner
	}

	return participation, nil
}

func (s *ParticipationService) ListParticipations(ctx context.Context, caller domain.Caller, campaignID string, status domain.ParticipationStatus) ([]domain.Participation, error) {
	if caller.UserID == "" {
		return nil, ErrUnauthenticated
	}
	switch status {
	case "", domain.ParticipationPending, domain.ParticipationApproved, domain.ParticipationRejected:
	default:
		return nil, ErrInvalidFilter
	}

	campaign, err := s.findCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if !s.auth.CanReview(caller, campaign) {
		return nil, ErrNotCampaignOwner
	}

	participations, err := s.repo.List(ctx, domain.ParticipationFilter{CampaignID: campaign.ID, Status: status})
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return participations, nil
}

func (s *ParticipationService) findCampaign(ctx context.Context, campaignID string) (domain.Campaign, error) {
	if !validID(campaignID) {
		return domain.Campaign{}, ErrCampaignNotFound
	}

	campaign, err := s.campaignRepo.FindByID(ctx, campaignID)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("s.campaignRepo.FindByID -> %w", err)
	}

	return campaign, nil
}

func (s *ParticipationService) load(ctx context.Context, participationID string) (domain.Participation, domain.Campaign, error) {
	if !validID(participationID) {
		return domain.Participation{}, domain.Campaign{}, ErrParticipationNotFound
	}

	participation, err := s.repo.FindByID(ctx, participationID)
	if err != nil {
		return domain.Participation{}, domain.Campaign{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	campaign, err := s.campaignRepo.FindByID(ctx, participation.CampaignID)
	if err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			return domain.Participation{}, domain.Campaign{}, ErrParticipationNotFound
		}
		return domain.Participation{}, domain.Campaign{}, fmt.Errorf("s.campaignRepo.FindByID -> %w", err)
	}

	return participation, campaign, nil
}
