package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fundhub/campaign-api/internal/domain"
	"github.com/fundhub/campaign-api/internal/repository/dao"
)

var (
	ErrCampaignNotFound = dao.ErrCampaignNotFound
)

type CampaignDAO interface {
	Insert(ctx context.Context, campaign dao.Campaign) (dao.Campaign, error)
	InsertProject(ctx context.Context, project dao.Project) (dao.Project, error)
	FindByID(ctx context.Context, id string) (dao.Campaign, error)
	CompleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type CampaignRepository struct {
	dao CampaignDAO
}

func NewCampaignRepository(dao CampaignDAO) *CampaignRepository {
	return &CampaignRepository{
		dao: dao,
	}
}

func (r *CampaignRepository) Create(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(campaign))
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *CampaignRepository) CreateProject(ctx context.Context, project domain.Project) (domain.Project, error) {
	created, err := r.dao.InsertProject(ctx, dao.Project{
		ID:        project.ID,
		CreatorID: project.CreatorID,
		Title:     project.Title,
	})
	if err != nil {
		return domain.Project{}, fmt.Errorf("r.dao.InsertProject -> %w", err)
	}

	return domain.Project{
		ID:          created.ID,
		CreatorID:   created.CreatorID,
		Title:       created.Title,
		LikesCount:  created.LikesCount,
		SharesCount: created.SharesCount,
		ViewsCount:  created.ViewsCount,
		CreatedAt:   created.CreatedAt,
		UpdatedAt:   created.UpdatedAt,
	}, nil
}

func (r *CampaignRepository) FindByID(ctx context.Context, id string) (domain.Campaign, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *CampaignRepository) CompleteExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.dao.CompleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CompleteExpired -> %w", err)
	}

	return n, nil
}

func (r *CampaignRepository) domainToDao(c domain.Campaign) dao.Campaign {
	return dao.Campaign{
		ID:                      c.ID,
		CreatorID:               c.CreatorID,
		Title:                   c.Title,
		Status:                  string(c.Status),
		CampaignType:            string(c.Type),
		RegistrationStartDate:   c.RegistrationStartDate,
		RegistrationEndDate:     c.RegistrationEndDate,
		SubmissionStartDate:     c.SubmissionStartDate,
		SubmissionEndDate:       c.SubmissionEndDate,
		ResultsAnnouncementDate: c.ResultsAnnouncementDate,
		AwardDistributionDate:   c.AwardDistributionDate,
		FundingTrail:            c.FundingTrail,
		LikesCount:              c.LikesCount,
		SharesCount:             c.SharesCount,
		ViewsCount:              c.ViewsCount,
	}
}

func (r *CampaignRepository) daoToDomain(c dao.Campaign) domain.Campaign {
	return domain.Campaign{
		ID:                      c.ID,
		CreatorID:               c.CreatorID,
		Title:                   c.Title,
		Status:                  domain.CampaignStatus(c.Status),
		Type:                    domain.CampaignType(c.CampaignType),
		RegistrationStartDate:   c.RegistrationStartDate,
		RegistrationEndDate:     c.RegistrationEndDate,
		SubmissionStartDate:     c.SubmissionStartDate,
		SubmissionEndDate:       c.SubmissionEndDate,
		ResultsAnnouncementDate: c.ResultsAnnouncementDate,
		AwardDistributionDate:   c.AwardDistributionDate,
		FundingTrail:            c.FundingTrail,
		LikesCount:              c.LikesCount,
		SharesCount:             c.SharesCount,
		ViewsCount:              c.ViewsCount,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
	}
}
