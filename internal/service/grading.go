package service

import (
	"context"
	"fmt"

	"github.com/fundhub/campaign-api/internal/domain"
	"github.com/fundhub/campaign-api/internal/pkg/apperr"
)

var (
	ErrReviewNotAllowed = apperr.New(apperr.KindInvalidState, "review_not_allowed", "only a freshly submitted entry can be moved under review")
)

// GradingService scores submissions and ranks them per campaign. Every
// status it writes is mirrored onto the owning participation by the
// repository in the same transaction.
type GradingService struct {
	repo         SubmissionRepository
	campaignRepo CampaignRepository
	auth         Authorizer
	now          Clock
}

func NewGradingService(repo SubmissionRepository, campaignRepo CampaignRepository, auth Authorizer, now Clock) *GradingService {
	return &GradingService{
		repo:         repo,
		campaignRepo: campaignRepo,
		auth:         auth,
		now:          now,
	}
}

func (s *GradingService) Grade(ctx context.Context, caller domain.Caller, submissionID string, input domain.GradeInput) (domain.Submission, error) {
	if caller.UserID == "" {
		return domain.Submission{}, ErrUnauthenticated
	}

	submission, campaign, err := loadSubmission(ctx, s.repo, s.campaignRepo, submissionID)
	if err != nil {
		return domain.Submission{}, err
	}
	if !s.auth.CanGrade(caller, campaign) {
		return domain.Submission{}, ErrNotCampaignOwner
	}

	if err := input.Validate(); err != nil {
		return domain.Submission{}, err
	}

	graded, err := s.repo.Update(ctx, submission.ID, func(sub *domain.Submission) error {
		sub.Apply(input, caller.UserID, s.now())
		return nil
	})
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return graded, nil
}

// BeginReview moves a submitted entry to under_review. Calling it again on
// an entry already under review is a no-op.
func (s *GradingService) BeginReview(ctx context.Context, caller domain.Caller, submissionID string) (domain.Submission, error) {
	if caller.UserID == "" {
		return domain.Submission{}, ErrUnauthenticated
	}

	submission, campaign, err := loadSubmission(ctx, s.repo, s.campaignRepo, submissionID)
	if err != nil {
		return domain.Submission{}, err
	}
	if !s.auth.CanGrade(caller, campaign) {
		return domain.Submission{}, ErrNotCampaignOwner
	}

	updated, err := s.repo.Update(ctx, submission.ID, func(sub *domain.Submission) error {
		switch sub.Status {
		case domain.SubmissionSubmitted, domain.SubmissionUnderReview:
			sub.Status = domain.SubmissionUnderReview
			return nil
		}
		return ErrReviewNotAllowed
	})
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// Leaderboard ranks graded submissions: podium positions first, then score,
// then the earliest submission.
func (s *GradingService) Leaderboard(ctx context.Context, campaignID string) ([]domain.LeaderboardEntry, error) {
	if !validID(campaignID) {
		return nil, ErrCampaignNotFound
	}
	if _, err := s.campaignRepo.FindByID(ctx, campaignID); err != nil {
		return nil, fmt.Errorf("s.campaignRepo.FindByID -> %w", err)
	}

	ranked, err := s.repo.ListRanked(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListRanked -> %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(ranked))
	for i, sub := range ranked {
		var score int
		if sub.Score != nil {
			score = *sub.Score
		}
		entries = append(entries, domain.LeaderboardEntry{
			Rank:         i + 1,
			SubmissionID: sub.ID,
			UserID:       sub.UserID,
			ProjectTitle: sub.ProjectTitle,
			Status:       sub.Status,
			Score:        score,
			Grade:        sub.Grade,
			Position:     sub.Position,
			PrizeAmount:  sub.PrizeAmount,
		})
	}

	return entries, nil
}
