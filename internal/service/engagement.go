package service

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/fundhub/campaign-api/internal/domain"
	"github.com/fundhub/campaign-api/internal/pkg/apperr"
	"github.com/fundhub/campaign-api/internal/repository"
)

var (
	ErrEntityNotFound    = repository.ErrEntityNotFound
	ErrUnknownEntityType = apperr.New(apperr.KindValidation, "unknown_entity_type", "entity type must be campaign or project")
)

type EngagementRepository interface {
	ToggleLike(ctx context.Context, ref domain.EntityRef, userID string) (domain.LikeStatus, error)
	LikeStatus(ctx context.Context, ref domain.EntityRef, userID string) (domain.LikeStatus, error)
	IncrementShares(ctx context.Context, ref domain.EntityRef) (int64, error)
	IncrementViews(ctx context.Context, ref domain.EntityRef) (int64, error)
	RecordShare(ctx context.Context, share domain.Share) error
	Counters(ctx context.Context, ref domain.EntityRef) (domain.Counters, error)
}

// Notifier receives the counters of an entity after every change.
type Notifier interface {
	Publish(snapshot domain.CounterSnapshot)
}

// EventRecorder counts engagement events, e.g. in prometheus.
type EventRecorder interface {
	EngagementEvent(entityType, event string)
}

type EngagementService struct {
	repo     EngagementRepository
	notifier Notifier
	events   EventRecorder
	now      Clock
}

func NewEngagementService(repo EngagementRepository, notifier Notifier, events EventRecorder, now Clock) *EngagementService {
	return &EngagementService{
		repo:     repo,
		notifier: notifier,
		events:   events,
		now:      now,
	}
}

// ParseEntityRef validates an entity reference taken from a request path.
func ParseEntityRef(entityType, entityID string) (domain.EntityRef, error) {
	et, ok := domain.ParseEntityType(entityType)
	if !ok {
		return domain.EntityRef{}, ErrUnknownEntityType
	}
	if !validID(entityID) {
		return domain.EntityRef{}, ErrEntityNotFound
	}
	return domain.EntityRef{Type: et, ID: entityID}, nil
}

// ToggleLike likes the entity for the caller, or removes the like when one
// exists. The stored counter always equals the number of like rows.
func (s *EngagementService) ToggleLike(ctx context.Context, caller domain.Caller, entityType, entityID string) (domain.LikeStatus, error) {
	if caller.UserID == "" {
		return domain.LikeStatus{}, ErrUnauthenticated
	}

	ref, err := ParseEntityRef(entityType, entityID)
	if err != nil {
		return domain.LikeStatus{}, err
	}

	status, err := s.repo.ToggleLike(ctx, ref, caller.UserID)
	if err != nil {
		return domain.LikeStatus{}, fmt.Errorf("s.repo.ToggleLike -> %w", err)
	}

	event := "unlike"
	if status.Liked {
		event = "like"
	}
	s.changed(ctx, ref, event, func(c *domain.Counters) { c.LikesCount = status.LikesCount })

	return status, nil
}

// GetLikeStatus never writes. Anonymous callers only get the counter.
func (s *EngagementService) GetLikeStatus(ctx context.Context, caller domain.Caller, entityType, entityID string) (domain.LikeStatus, error) {
	ref, err := ParseEntityRef(entityType, entityID)
	if err != nil {
		return domain.LikeStatus{}, err
	}

	status, err := s.repo.LikeStatus(ctx, ref, caller.UserID)
	if err != nil {
		return domain.LikeStatus{}, fmt.Errorf("s.repo.LikeStatus -> %w", err)
	}

	return status, nil
}

// TrackShare bumps the share counter, then stores a detail row. The counter
// is authoritative: a failed detail insert is logged and dropped.
func (s *EngagementService) TrackShare(ctx context.Context, caller domain.Caller, entityType, entityID, platform string) (int64, error) {
	ref, err := ParseEntityRef(entityType, entityID)
	if err != nil {
		return 0, err
	}

	count, err := s.repo.IncrementShares(ctx, ref)
	if err != nil {
		return 0, fmt.Errorf("s.repo.IncrementShares -> %w", err)
	}

	share := domain.Share{
		Entity:    ref,
		UserID:    caller.UserID,
		Platform:  NormalizePlatform(platform),
		CreatedAt: s.now(),
	}
	if err := s.repo.RecordShare(ctx, share); err != nil {
		zap.L().Warn("failed to record share detail",
			zap.String("entity_type", string(ref.Type)),
			zap.String("entity_id", ref.ID),
			zap.String("platform", share.Platform),
			zap.Error(err),
		)
	}

	s.changed(ctx, ref, "share", func(c *domain.Counters) { c.SharesCount = count })

	return count, nil
}

func (s *EngagementService) TrackView(ctx context.Context, entityType, entityID string) (int64, error) {
	ref, err := ParseEntityRef(entityType, entityID)
	if err != nil {
		return 0, err
	}

	count, err := s.repo.IncrementViews(ctx, ref)
	if err != nil {
		return 0, fmt.Errorf("s.repo.IncrementViews -> %w", err)
	}

	s.changed(ctx, ref, "view", func(c *domain.Counters) { c.ViewsCount = count })

	return count, nil
}

func (s *EngagementService) Counters(ctx context.Context, entityType, entityID string) (domain.CounterSnapshot, error) {
	ref, err := ParseEntityRef(entityType, entityID)
	if err != nil {
		return domain.CounterSnapshot{}, err
	}

	counters, err := s.repo.Counters(ctx, ref)
	if err != nil {
		return domain.CounterSnapshot{}, fmt.Errorf("s.repo.Counters -> %w", err)
	}

	return domain.CounterSnapshot{EntityRef: ref, Counters: counters}, nil
}

// NormalizePlatform slugs the share platform, "direct" when empty.
func NormalizePlatform(platform string) string {
	p := slug.Make(platform)
	if p == "" {
		return domain.DefaultSharePlatform
	}
	if len(p) > 64 {
		p = p[:64]
	}
	return p
}

// changed publishes the entity's counters. The counter written by the
// mutation comes from its own result via set; the others are re-read.
func (s *EngagementService) changed(ctx context.Context, ref domain.EntityRef, event string, set func(c *domain.Counters)) {
	if s.events != nil {
		s.events.EngagementEvent(string(ref.Type), event)
	}
	if s.notifier == nil {
		return
	}

	counters, err := s.repo.Counters(ctx, ref)
	if err != nil {
		zap.L().Debug("skip live snapshot", zap.String("entity_id", ref.ID), zap.Error(err))
		return
	}
	set(&counters)
	s.notifier.Publish(domain.CounterSnapshot{EntityRef: ref, Counters: counters})
}
