package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Campaign struct {
	ID                      string `gorm:"primaryKey;type:uuid"`
	CreatorID               string `gorm:"type:uuid;not null;index"`
	Title                   string `gorm:"not null"`
	Status                  string `gorm:"type:varchar(16);not null;default:'draft';index"`
	CampaignType            string `gorm:"type:varchar(16);not null;default:'custom'"`
	RegistrationStartDate   *time.Time
	RegistrationEndDate     *time.Time
	SubmissionStartDate     *time.Time
	SubmissionEndDate       *time.Time
	ResultsAnnouncementDate *time.Time
	AwardDistributionDate   *time.Time
	FundingTrail            bool  `gorm:"not null;default:false"`
	LikesCount              int64 `gorm:"not null;default:0"`
	SharesCount             int64 `gorm:"not null;default:0"`
	ViewsCount              int64 `gorm:"not null;default:0"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Project is the second engagement target; its other columns belong to the
// project service.
type Project struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	CreatorID   string `gorm:"type:uuid;not null;index"`
	Title       string `gorm:"not null"`
	LikesCount  int64  `gorm:"not null;default:0"`
	SharesCount int64  `gorm:"not null;default:0"`
	ViewsCount  int64  `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CampaignDAO struct {
	db *gorm.DB
}

func NewCampaignDAO(db *gorm.DB) *CampaignDAO {
	return &CampaignDAO{
		db: db,
	}
}

func (d *CampaignDAO) Insert(ctx context.Context, campaign Campaign) (Campaign, error) {
	if campaign.ID == "" {
		campaign.ID = uuid.NewString()
	}

	if err := d.db.WithContext(ctx).Create(&campaign).Error; err != nil {
		return Campaign{}, err
	}

	return campaign, nil
}

func (d *CampaignDAO) InsertProject(ctx context.Context, project Project) (Project, error) {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}

	if err := d.db.WithContext(ctx).Create(&project).Error; err != nil {
		return Project{}, err
	}

	return project, nil
}

func (d *CampaignDAO) FindByID(ctx context.Context, id string) (Campaign, error) {
	var campaign Campaign

	result := d.db.WithContext(ctx).First(&campaign, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Campaign{}, ErrCampaignNotFound
		}

		return Campaign{}, result.Error
	}

	return campaign, nil
}

// CompleteExpired moves active campaigns whose award distribution date (or
// results announcement when unset) has passed to completed.
func (d *CampaignDAO) CompleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := d.db.WithContext(ctx).
		Model(&Campaign{}).
		Where("status = ?", "active").
		Where("COALESCE(award_distribution_date, results_announcement_date) <= ?", now).
		Updates(map[string]interface{}{
			"status":     "completed",
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
