package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionLinks struct {
	DemoURL   string `json:"demo_url,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
	FilesURL  string `json:"files_url,omitempty"`
}

type Submission struct {
	ID                 string          `gorm:"primaryKey;type:uuid"`
	ParticipationID    string          `gorm:"type:uuid;not null;uniqueIndex:uni_submissions_participation_id"`
	CampaignID         string          `gorm:"type:uuid;not null;index"`
	UserID             string          `gorm:"type:uuid;not null;index"`
	ProjectTitle       string          `gorm:"not null"`
	ProjectDescription string          `gorm:"type:text;not null"`
	ScreenshotURLs     []string        `gorm:"serializer:json;type:jsonb;not null"`
	Links              SubmissionLinks `gorm:"serializer:json;type:jsonb"`
	PitchDeckURL       string
	Status             string    `gorm:"type:varchar(16);not null;default:'submitted';index"`
	SubmissionDate     time.Time `gorm:"not null"`
	Score              *int
	Grade              string `gorm:"type:varchar(2)"`
	Feedback           string `gorm:"type:text"`
	GraderID           *string `gorm:"type:uuid"`
	GradedAt           *time.Time
	Position           *int
	PrizeAmount        *float64 `gorm:"type:numeric(12,2)"`
	Distributed        bool     `gorm:"not null;default:false"`
	DistributedAt      *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Participation Participation `gorm:"foreignKey:ParticipationID;constraint:OnDelete:CASCADE"`
}

// MirrorFunc returns the submission_status the owning participation must
// hold once s is stored.
type MirrorFunc func(s Submission) string

var gradedStatuses = []string{"graded", "winner", "runner_up", "not_selected"}

type SubmissionDAO struct {
	db *gorm.DB
}

func NewSubmissionDAO(db *gorm.DB) *SubmissionDAO {
	return &SubmissionDAO{
		db: db,
	}
}

// Insert creates the submission and writes mirror's state onto the owning
// participation in one transaction. The participation row is locked first
// and handed to guard, so a concurrent review cannot slip in between the
// eligibility check and the insert.
func (d *SubmissionDAO) Insert(ctx context.Context, submission Submission, guard func(p Participation) error, mirror MirrorFunc) (Submission, error) {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var participation Participation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&participation, "id = ?", submission.ParticipationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipationNotFound
			}
			return err
		}

		if err := guard(participation); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(&submission).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrSubmissionExists
			}
			return err
		}

		return mirrorSubmissionStatus(tx, submission.ParticipationID, mirror(submission))
	})
	if err != nil {
		return Submission{}, err
	}

	return submission, nil
}

func (d *SubmissionDAO) FindByID(ctx context.Context, id string) (Submission, error) {
	var submission Submission

	result := d.db.WithContext(ctx).First(&submission, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Submission{}, ErrSubmissionNotFound
		}

		return Submission{}, result.Error
	}

	return submission, nil
}

// Update is a locked read-modify-write of one submission. mirror's state is
// written to the participation in the same transaction.
func (d *SubmissionDAO) Update(ctx context.Context, id string, mutate func(s *Submission) error, mirror MirrorFunc) (Submission, error) {
	var submission Submission

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&submission, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return err
		}

		if err := mutate(&submission); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(&submission).Error; err != nil {
			return err
		}

		return mirrorSubmissionStatus(tx, submission.ParticipationID, mirror(submission))
	})
	if err != nil {
		return Submission{}, err
	}

	return submission, nil
}

func (d *SubmissionDAO) ListRanked(ctx context.Context, campaignID string) ([]Submission, error) {
	var submissions []Submission

	err := d.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Where("status IN ?", gradedStatuses).
		Order("position ASC NULLS LAST").
		Order("score DESC NULLS LAST").
		Order("submission_date ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}

	return submissions, nil
}

func mirrorSubmissionStatus(tx *gorm.DB, participationID, state string) error {
	result := tx.Model(&Participation{}).
		Where("id = ?", participationID).
		Updates(map[string]interface{}{
			"submission_status": state,
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParticipationNotFound
	}

	return nil
}
