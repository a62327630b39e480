package repository

import (
	"context"
	"fmt"

	"github.com/fundhub/campaign-api/internal/domain"
	"github.com/fundhub/campaign-api/internal/repository/dao"
)

var (
	ErrEntityNotFound = dao.ErrEntityNotFound
)

type EngagementDAO interface {
	ToggleLike(ctx context.Context, entityType, entityID, userID string) (bool, int64, error)
	LikeStatus(ctx context.Context, entityType, entityID, userID string) (bool, int64, error)
	IncrementShares(ctx context.Context, entityType, entityID string) (int64, error)
	IncrementViews(ctx context.Context, entityType, entityID string) (int64, error)
	InsertShare(ctx context.Context, share dao.Share) error
	Counters(ctx context.Context, entityType, entityID string) (dao.Counters, error)
}

type EngagementRepository struct {
	dao EngagementDAO
}

func NewEngagementRepository(dao EngagementDAO) *EngagementRepository {
	return &EngagementRepository{
		dao: dao,
	}
}

func (r *EngagementRepository) ToggleLike(ctx context.Context, ref domain.EntityRef, userID string) (domain.LikeStatus, error) {
	liked, count, err := r.dao.ToggleLike(ctx, string(ref.Type), ref.ID, userID)
	if err != nil {
		return domain.LikeStatus{}, fmt.Errorf("r.dao.ToggleLike -> %w", err)
	}

	return domain.LikeStatus{Liked: liked, LikesCount: count}, nil
}

func (r *EngagementRepository) LikeStatus(ctx context.Context, ref domain.EntityRef, userID string) (domain.LikeStatus, error) {
	liked, count, err := r.dao.LikeStatus(ctx, string(ref.Type), ref.ID, userID)
	if err != nil {
		return domain.LikeStatus{}, fmt.Errorf("r.dao.LikeStatus -> %w", err)
	}

	return domain.LikeStatus{Liked: liked, LikesCount: count}, nil
}

func (r *EngagementRepository) IncrementShares(ctx context.Context, ref domain.EntityRef) (int64, error) {
	n, err := r.dao.IncrementShares(ctx, string(ref.Type), ref.ID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.IncrementShares -> %w", err)
	}

	return n, nil
}

func (r *EngagementRepository) IncrementViews(ctx context.Context, ref domain.EntityRef) (int64, error) {
	n, err := r.dao.IncrementViews(ctx, string(ref.Type), ref.ID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.IncrementViews -> %w", err)
	}

	return n, nil
}

func (r *EngagementRepository) RecordShare(ctx context.Context, share domain.Share) error {
	var userID *string
	if share.UserID != "" {
		id := share.UserID
		userID = &id
	}

	err := r.dao.InsertShare(ctx, dao.Share{
		ID:         share.ID,
		EntityType: string(share.Entity.Type),
		EntityID:   share.Entity.ID,
		UserID:     userID,
		Platform:   share.Platform,
		CreatedAt:  share.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("r.dao.InsertShare -> %w", err)
	}

	return nil
}

func (r *EngagementRepository) Counters(ctx context.Context, ref domain.EntityRef) (domain.Counters, error) {
	c, err := r.dao.Counters(ctx, string(ref.Type), ref.ID)
	if err != nil {
		return domain.Counters{}, fmt.Errorf("r.dao.Counters -> %w", err)
	}

	return domain.Counters{
		LikesCount:  c.LikesCount,
		SharesCount: c.SharesCount,
		ViewsCount:  c.ViewsCount,
	}, nil
}
