package repository

import (
	"context"
	"fmt"

	"github.com/fundhub/campaign-api/internal/domain"
	"github.com/fundhub/campaign-api/internal/repository/dao"
)

var (
	ErrParticipationNotFound = dao.ErrParticipationNotFound
	ErrParticipationExists   = dao.ErrParticipationExists
)

type ParticipationDAO interface {
	Insert(ctx context.Context, participation dao.Participation) (dao.Participation, error)
	FindByID(ctx context.Context, id string) (dao.Participation, error)
	FindByCampaignAndUser(ctx context.Context, campaignID, userID string) (dao.Participation, error)
	List(ctx context.Context, filter dao.ParticipationFilter) ([]dao.Participation, error)
	Update(ctx context.Context, id string, mutate func(p *dao.Participation) error) (dao.Participation, error)
}

type ParticipationRepository struct {
	dao ParticipationDAO
}

func NewParticipationRepository(dao ParticipationDAO) *ParticipationRepository {
	return &ParticipationRepository{
		dao: dao,
	}
}

func (r *ParticipationRepository) Create(ctx context.Context, participation domain.Participation) (domain.Participation, error) {
	created, err := r.dao.Insert(ctx, participationDomainToDao(participation))
	if err != nil {
		return domain.Participation{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return participationDaoToDomain(created), nil
}

func (r *ParticipationRepository) FindByID(ctx context.Context, id string) (domain.Participation, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Participation{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return participationDaoToDomain(found), nil
}

func (r *ParticipationRepository) FindByCampaignAndUser(ctx context.Context, campaignID, userID string) (domain.Participation, error) {
	found, err := r.dao.FindByCampaignAndUser(ctx, campaignID, userID)
	if err != nil {
		return domain.Participation{}, fmt.Errorf("r.dao.FindByCampaignAndUser -> %w", err)
	}

	return participationDaoToDomain(found), nil
}

func (r *ParticipationRepository) List(ctx context.Context, filter domain.ParticipationFilter) ([]domain.Participation, error) {
	found, err := r.dao.List(ctx, dao.ParticipationFilter{
		CampaignID: filter.CampaignID,
		Status:     string(filter.Status),
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	participations := make([]domain.Participation, 0, len(found))
	for _, p := range found {
		participations = append(participations, participationDaoToDomain(p))
	}

	return participations, nil
}

// Update runs mutate against the locked row. Returning an error from mutate
// leaves the row untouched.
func (r *ParticipationRepository) Update(ctx context.Context, id string, mutate func(p *domain.Participation) error) (domain.Participation, error) {
	updated, err := r.dao.Update(ctx, id, func(row *dao.Participation) error {
		p := participationDaoToDomain(*row)
		if err := mutate(&p); err != nil {
			return err
		}

		*row = participationDomainToDao(p)
		return nil
	})
	if err != nil {
		return domain.Participation{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return participationDaoToDomain(updated), nil
}

func participationDomainToDao(p domain.Participation) dao.Participation {
	var reviewedBy *string
	if p.ReviewedBy != "" {
		by := p.ReviewedBy
		reviewedBy = &by
	}

	return dao.Participation{
		ID:               p.ID,
		CampaignID:       p.CampaignID,
		UserID:           p.UserID,
		Status:           string(p.Status),
		SubmissionStatus: string(p.SubmissionStatus),
		Motivation:       p.Motivation,
		Experience:       p.Experience,
		Portfolio:        p.Portfolio,
		AdditionalInfo:   p.AdditionalInfo,
		SubmittedAt:      p.SubmittedAt,
		ReviewedAt:       p.ReviewedAt,
		ReviewedBy:       reviewedBy,
		ReviewNotes:      p.ReviewNotes,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func participationDaoToDomain(p dao.Participation) domain.Participation {
	var reviewedBy string
	if p.ReviewedBy != nil {
		reviewedBy = *p.ReviewedBy
	}

	return domain.Participation{
		ID:               p.ID,
		CampaignID:       p.CampaignID,
		UserID:           p.UserID,
		Status:           domain.ParticipationStatus(p.Status),
		SubmissionStatus: domain.SubmissionState(p.SubmissionStatus),
		Motivation:       p.Motivation,
		Experience:       p.Experience,
		Portfolio:        p.Portfolio,
		AdditionalInfo:   p.AdditionalInfo,
		SubmittedAt:      p.SubmittedAt,
		ReviewedAt:       p.ReviewedAt,
		ReviewedBy:       reviewedBy,
		ReviewNotes:      p.ReviewNotes,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
