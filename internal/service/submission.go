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
	ErrSubmissionNotFound = repository.ErrSubmissionNotFound
	ErrSubmissionExists   = repository.ErrSubmissionExists

	ErrWindowNotOpen = apperr.New(apperr.KindInvalidState, "window_not_open", "the submission window has not opened yet")
	ErrWindowClosed  = apperr.New(apperr.KindInvalidState, "window_closed", "the submission window is closed")
	ErrNotApproved   = apperr.New(apperr.KindForbidden, "not_approved", "an approved participation is required to submit")
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission domain.Submission, guard func(p domain.Participation) error) (domain.Submission, error)
	FindByID(ctx context.Context, id string) (domain.Submission, error)
	Update(ctx context.Context, id string, mutate func(s *domain.Submission) error) (domain.Submission, error)
	ListRanked(ctx context.Context, campaignID string) ([]domain.Submission, error)
}

// SubmissionService accepts one piece of work per approved participation,
// inside the campaign's submission window.
type SubmissionService struct {
	repo              SubmissionRepository
	participationRepo ParticipationRepository
	campaignRepo      CampaignRepository
	auth              Authorizer
	now               Clock
}

func NewSubmissionService(repo SubmissionRepository, participationRepo ParticipationRepository, campaignRepo CampaignRepository, auth Authorizer, now Clock) *SubmissionService {
	return &SubmissionService{
		repo:              repo,
		participationRepo: participationRepo,
		campaignRepo:      campaignRepo,
		auth:              auth,
		now:               now,
	}
}

func (s *SubmissionService) Submit(ctx context.Context, caller domain.Caller, campaignID string, payload domain.SubmissionPayload) (domain.Submission, error) {
	if caller.UserID == "" {
		return domain.Submission{}, ErrUnauthenticated
	}
	if !caller.CanParticipate() {
		return domain.Submission{}, ErrNotEligible
	}

	if !validID(campaignID) {
		return domain.Submission{}, ErrCampaignNotFound
	}
	campaign, err := s.campaignRepo.FindByID(ctx, campaignID)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.campaignRepo.FindByID -> %w", err)
	}

	now := s.now()
	switch campaign.SubmissionWindowAt(now) {
	case domain.WindowNotOpen:
		return domain.Submission{}, ErrWindowNotOpen
	case domain.WindowClosed:
		return domain.Submission{}, ErrWindowClosed
	}

	participation, err := s.participationRepo.FindByCampaignAndUser(ctx, campaign.ID, caller.UserID)
	if err != nil {
		if errors.Is(err, ErrParticipationNotFound) {
			return domain.Submission{}, ErrNotApproved
		}
		return domain.Submission{}, fmt.Errorf("s.participationRepo.FindByCampaignAndUser -> %w", err)
	}
	if participation.Status != domain.ParticipationApproved {
		return domain.Submission{}, ErrNotApproved
	}
	if participation.HasSubmission() {
		return domain.Submission{}, ErrSubmissionExists
	}

	payload = payload.Normalize()
	if err := payload.Validate(); err != nil {
		return domain.Submission{}, err
	}

	created, err := s.repo.Create(ctx, domain.Submission{
		ParticipationID:    participation.ID,
		CampaignID:         campaign.ID,
		UserID:             caller.UserID,
		ProjectTitle:       payload.ProjectTitle,
		ProjectDescription: payload.ProjectDescription,
		ScreenshotURLs:     payload.ScreenshotURLs,
		Links:              payload.Links,
		PitchDeckURL:       payload.PitchDeckURL,
		Status:             domain.SubmissionSubmitted,
		SubmissionDate:     now,
	}, func(p domain.Participation) error {
		// The approval may have been revoked since it was read above.
		if p.Status != domain.ParticipationApproved {
			return ErrNotApproved
		}
		return nil
	})
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// GetSubmission is visible to the author, the campaign creator and admins.
func (s *SubmissionService) GetSubmission(ctx context.Context, caller domain.Caller, submissionID string) (domain.Submission, error) {
	if caller.UserID == "" {
		return domain.Submission{}, ErrUnauthenticated
	}

	submission, campaign, err := loadSubmission(ctx, s.repo, s.campaignRepo, submissionID)
	if err != nil {
		return domain.Submission{}, err
	}
	if submission.UserID != caller.UserID && !s.auth.CanGrade(caller, campaign) {
		return domain.Submission{}, ErrNotOwner
	}

	return submission, nil
}

func loadSubmission(ctx context.Context, repo SubmissionRepository, campaignRepo CampaignRepository, submissionID string) (domain.Submission, domain.Campaign, error) {
	if !validID(submissionID) {
		return domain.Submission{}, domain.Campaign{}, ErrSubmissionNotFound
	}

	submission, err := repo.FindByID(ctx, submissionID)
	if err != nil {
		return domain.Submission{}, domain.Campaign{}, fmt.Errorf("repo.FindByID -> %w", err)
	}

	campaign, err := campaignRepo.FindByID(ctx, submission.CampaignID)
	if err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			return domain.Submission{}, domain.Campaign{}, ErrSubmissionNotFound
		}
		return domain.Submission{}, domain.Campaign{}, fmt.Errorf("campaignRepo.FindByID -> %w", err)
	}

	return submission, campaign, nil
}
