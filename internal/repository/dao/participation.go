package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Participation struct {
	ID               string `gorm:"primaryKey;type:uuid"`
	CampaignID       string `gorm:"type:uuid;not null;uniqueIndex:uni_participations_campaign_user"`
	UserID           string `gorm:"type:uuid;not null;uniqueIndex:uni_participations_campaign_user;index"`
	Status           string `gorm:"type:varchar(16);not null;default:'pending'"`
	SubmissionStatus string `gorm:"type:varchar(16);not null;default:'not_submitted'"`
	Motivation       string `gorm:"type:text;not null"`
	Experience       string `gorm:"type:text;not null"`
	Portfolio        string `gorm:"type:text"`
	AdditionalInfo   string `gorm:"type:text"`
	SubmittedAt      time.Time `gorm:"not null"`
	ReviewedAt       *time.Time
	ReviewedBy       *string `gorm:"type:uuid"`
	ReviewNotes      string  `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Campaign Campaign `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE"`
}

type ParticipationFilter struct {
	CampaignID string
	Status     string
}

type ParticipationDAO struct {
	db *gorm.DB
}

func NewParticipationDAO(db *gorm.DB) *ParticipationDAO {
	return &ParticipationDAO{
		db: db,
	}
}

func (d *ParticipationDAO) Insert(ctx context.Context, participation Participation) (Participation, error) {
	if participation.ID == "" {
		participation.ID = uuid.NewString()
	}

	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&participation)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return Participation{}, ErrParticipationExists
		}

		return Participation{}, result.Error
	}

	return participation, nil
}

func (d *ParticipationDAO) FindByID(ctx context.Context, id string) (Participation, error) {
	var participation Participation

	result := d.db.WithContext(ctx).First(&participation, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participation{}, ErrParticipationNotFound
		}

		return Participation{}, result.Error
	}

	return participation, nil
}

func (d *ParticipationDAO) FindByCampaignAndUser(ctx context.Context, campaignID, userID string) (Participation, error) {
	var participation Participation

	result := d.db.WithContext(ctx).
		Where("campaign_id = ? AND user_id = ?", campaignID, userID).
		First(&participation)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participation{}, ErrParticipationNotFound
		}

		return Participation{}, result.Error
	}

	return participation, nil
}

func (d *ParticipationDAO) List(ctx context.Context, filter ParticipationFilter) ([]Participation, error) {
	tx := d.db.WithContext(ctx).Model(&Participation{})
	if filter.CampaignID != "" {
		tx = tx.Where("campaign_id = ?", filter.CampaignID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}

	var participations []Participation
	if err := tx.Order("submitted_at ASC").Find(&participations).Error; err != nil {
		return nil, err
	}

	return participations, nil
}

// Update re-reads the row under FOR UPDATE, lets mutate change it and saves
// it in the same transaction. An error from mutate aborts without writing.
func (d *ParticipationDAO) Update(ctx context.Context, id string, mutate func(p *Participation) error) (Participation, error) {
	var participation Participation

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&participation, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipationNotFound
			}
			return err
		}

		if err := mutate(&participation); err != nil {
			return err
		}

		return tx.Omit(clause.Associations).Save(&participation).Error
	})
	if err != nil {
		return Participation{}, err
	}

	return participation, nil
}
