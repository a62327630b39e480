package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Like struct {
	EntityType string    `gorm:"primaryKey;type:varchar(16)"`
	EntityID   string    `gorm:"primaryKey;type:uuid"`
	UserID     string    `gorm:"primaryKey;type:uuid;index"`
	CreatedAt  time.Time `gorm:"not null"`
}

type Share struct {
	ID         string  `gorm:"primaryKey;type:uuid"`
	EntityType string  `gorm:"type:varchar(16);not null;index:idx_shares_entity"`
	EntityID   string  `gorm:"type:uuid;not null;index:idx_shares_entity"`
	UserID     *string `gorm:"type:uuid"`
	Platform   string  `gorm:"type:varchar(64);not null;default:'direct'"`
	CreatedAt  time.Time
}

type Counters struct {
	LikesCount  int64
	SharesCount int64
	ViewsCount  int64
}

type EngagementDAO struct {
	db *gorm.DB
}

func NewEngagementDAO(db *gorm.DB) *EngagementDAO {
	return &EngagementDAO{
		db: db,
	}
}

// entityTable resolves an entity type to the table that owns its counters.
// Only the two known names ever reach raw SQL.
func entityTable(entityType string) (string, error) {
	switch entityType {
	case "campaign":
		return "campaigns", nil
	case "project":
		return "projects", nil
	}
	return "", fmt.Errorf("unknown entity type %q", entityType)
}

// ToggleLike flips the like of userID on the entity and recomputes
// likes_count from the likes table. The entity row lock serializes every
// toggle on the same entity, so the stored count never drifts.
func (d *EngagementDAO) ToggleLike(ctx context.Context, entityType, entityID, userID string) (bool, int64, error) {
	table, err := entityTable(entityType)
	if err != nil {
		return false, 0, err
	}

	var (
		liked bool
		count int64
	)

	err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked struct{ ID string }
		result := tx.Table(table).Select("id").
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", entityID).
			Take(&locked)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrEntityNotFound
			}
			return result.Error
		}

		deleted := tx.Where("entity_type = ? AND entity_id = ? AND user_id = ?", entityType, entityID, userID).
			Delete(&Like{})
		if deleted.Error != nil {
			return deleted.Error
		}

		if deleted.RowsAffected == 0 {
			like := Like{EntityType: entityType, EntityID: entityID, UserID: userID, CreatedAt: time.Now().UTC()}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return err
			}
			liked = true
		}

		if err := tx.Model(&Like{}).
			Where("entity_type = ? AND entity_id = ?", entityType, entityID).
			Count(&count).Error; err != nil {
			return err
		}

		return tx.Table(table).Where("id = ?", entityID).
			Updates(map[string]interface{}{"likes_count": count}).Error
	})
	if err != nil {
		return false, 0, err
	}

	return liked, count, nil
}

// LikeStatus reports whether userID likes the entity. An empty userID only
// reads the counter.
func (d *EngagementDAO) LikeStatus(ctx context.Context, entityType, entityID, userID string) (bool, int64, error) {
	counters, err := d.Counters(ctx, entityType, entityID)
	if err != nil {
		return false, 0, err
	}

	if userID == "" {
		return false, counters.LikesCount, nil
	}

	var n int64
	if err := d.db.WithContext(ctx).Model(&Like{}).
		Where("entity_type = ? AND entity_id = ? AND user_id = ?", entityType, entityID, userID).
		Count(&n).Error; err != nil {
		return false, 0, err
	}

	return n > 0, counters.LikesCount, nil
}

func (d *EngagementDAO) IncrementShares(ctx context.Context, entityType, entityID string) (int64, error) {
	return d.increment(ctx, entityType, entityID, "shares_count")
}

func (d *EngagementDAO) IncrementViews(ctx context.Context, entityType, entityID string) (int64, error) {
	return d.increment(ctx, entityType, entityID, "views_count")
}

func (d *EngagementDAO) increment(ctx context.Context, entityType, entityID, column string) (int64, error) {
	table, err := entityTable(entityType)
	if err != nil {
		return 0, err
	}

	var counts []int64
	query := fmt.Sprintf("UPDATE %s SET %s = %s + 1 WHERE id = ? RETURNING %s", table, column, column, column)
	if err := d.db.WithContext(ctx).Raw(query, entityID).Scan(&counts).Error; err != nil {
		return 0, err
	}
	if len(counts) == 0 {
		return 0, ErrEntityNotFound
	}

	return counts[0], nil
}

func (d *EngagementDAO) InsertShare(ctx context.Context, share Share) error {
	if share.ID == "" {
		share.ID = uuid.NewString()
	}

	return d.db.WithContext(ctx).Create(&share).Error
}

func (d *EngagementDAO) Counters(ctx context.Context, entityType, entityID string) (Counters, error) {
	table, err := entityTable(entityType)
	if err != nil {
		return Counters{}, err
	}

	var counters Counters
	result := d.db.WithContext(ctx).Table(table).
		Select("likes_count, shares_count, views_count").
		Where("id = ?", entityID).
		Take(&counters)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Counters{}, ErrEntityNotFound
		}
		return Counters{}, result.Error
	}

	return counters, nil
}
