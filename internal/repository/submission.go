package repository

import (
	"context"
	"fmt"

	"github.com/fundhub/campaign-api/internal/domain"
	"github.com/fundhub/campaign-api/internal/repository/dao"
)

var (
	ErrSubmissionNotFound = dao.ErrSubmissionNotFound
	ErrSubmissionExists   = dao.ErrSubmissionExists
)

type SubmissionDAO interface {
	Insert(ctx context.Context, submission dao.Submission, guard func(p dao.Participation) error, mirror dao.MirrorFunc) (dao.Submission, error)
	FindByID(ctx context.Context, id string) (dao.Submission, error)
	Update(ctx context.Context, id string, mutate func(s *dao.Submission) error, mirror dao.MirrorFunc) (dao.Submission, error)
	ListRanked(ctx context.Context, campaignID string) ([]dao.Submission, error)
}

type SubmissionRepository struct {
	dao SubmissionDAO
}

func NewSubmissionRepository(dao SubmissionDAO) *SubmissionRepository {
	return &SubmissionRepository{
		dao: dao,
	}
}

// Create stores the submission once guard accepts the locked participation
// it belongs to. The participation's submission status follows in the same
// transaction.
func (r *SubmissionRepository) Create(ctx context.Context, submission domain.Submission, guard func(p domain.Participation) error) (domain.Submission, error) {
	created, err := r.dao.Insert(ctx, submissionDomainToDao(submission), func(p dao.Participation) error {
		return guard(participationDaoToDomain(p))
	}, mirrorState)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return submissionDaoToDomain(created), nil
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (domain.Submission, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return submissionDaoToDomain(found), nil
}

func (r *SubmissionRepository) Update(ctx context.Context, id string, mutate func(s *domain.Submission) error) (domain.Submission, error) {
	updated, err := r.dao.Update(ctx, id, func(row *dao.Submission) error {
		s := submissionDaoToDomain(*row)
		if err := mutate(&s); err != nil {
			return err
		}

		*row = submissionDomainToDao(s)
		return nil
	}, mirrorState)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return submissionDaoToDomain(updated), nil
}

func (r *SubmissionRepository) ListRanked(ctx context.Context, campaignID string) ([]domain.Submission, error) {
	found, err := r.dao.ListRanked(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListRanked -> %w", err)
	}

	submissions := make([]domain.Submission, 0, len(found))
	for _, s := range found {
		submissions = append(submissions, submissionDaoToDomain(s))
	}

	return submissions, nil
}

// mirrorState is the participation submission_status matching a stored row.
func mirrorState(row dao.Submission) string {
	s := submissionDaoToDomain(row)
	return string(domain.MirrorState(&s))
}

func submissionDomainToDao(s domain.Submission) dao.Submission {
	var graderID *string
	if s.GraderID != "" {
		id := s.GraderID
		graderID = &id
	}

	return dao.Submission{
		ID:                 s.ID,
		ParticipationID:    s.ParticipationID,
		CampaignID:         s.CampaignID,
		UserID:             s.UserID,
		ProjectTitle:       s.ProjectTitle,
		ProjectDescription: s.ProjectDescription,
		ScreenshotURLs:     s.ScreenshotURLs,
		Links: dao.SubmissionLinks{
			DemoURL:   s.Links.DemoURL,
			SourceURL: s.Links.SourceURL,
			FilesURL:  s.Links.FilesURL,
		},
		PitchDeckURL:   s.PitchDeckURL,
		Status:         string(s.Status),
		SubmissionDate: s.SubmissionDate,
		Score:          s.Score,
		Grade:          s.Grade,
		Feedback:       s.Feedback,
		GraderID:       graderID,
		GradedAt:       s.GradedAt,
		Position:       s.Position,
		PrizeAmount:    s.PrizeAmount,
		Distributed:    s.Distributed,
		DistributedAt:  s.DistributedAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func submissionDaoToDomain(s dao.Submission) domain.Submission {
	var graderID string
	if s.GraderID != nil {
		graderID = *s.GraderID
	}

	return domain.Submission{
		ID:                 s.ID,
		ParticipationID:    s.ParticipationID,
		CampaignID:         s.CampaignID,
		UserID:             s.UserID,
		ProjectTitle:       s.ProjectTitle,
		ProjectDescription: s.ProjectDescription,
		ScreenshotURLs:     s.ScreenshotURLs,
		Links: domain.SubmissionLinks{
			DemoURL:   s.Links.DemoURL,
			SourceURL: s.Links.SourceURL,
			FilesURL:  s.Links.FilesURL,
		},
		PitchDeckURL:   s.PitchDeckURL,
		Status:         domain.SubmissionStatus(s.Status),
		SubmissionDate: s.SubmissionDate,
		Score:          s.Score,
		Grade:          s.Grade,
		Feedback:       s.Feedback,
		GraderID:       graderID,
		GradedAt:       s.GradedAt,
		Position:       s.Position,
		PrizeAmount:    s.PrizeAmount,
		Distributed:    s.Distributed,
		DistributedAt:  s.DistributedAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
