package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundhub/campaign-api/internal/domain"
	"github.com/fundhub/campaign-api/internal/pkg/apperr"
	"github.com/fundhub/campaign-api/internal/repository"
)

func TestEngagementService_ToggleLike(t *testing.T) {
	ctx := context.Background()

	t.Run("toggle twice returns to the original state", func(t *testing.T) {
		f := newFixture(t)

		liked, err := f.engagement.ToggleLike(ctx, f.student, "campaign", f.campaign.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.LikeStatus{Liked: true, LikesCount: 1}, liked)

		unliked, err := f.engagement.ToggleLike(ctx, f.student, "campaign", f.campaign.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.LikeStatus{Liked: false, LikesCount: 0}, unliked)
	})

	t.Run("counts distinct users", func(t *testing.T) {
		f := newFixture(t)

		for _, caller := range []domain.Caller{f.student, f.creator, f.admin} {
			_, err := f.engagement.ToggleLike(ctx, caller, "campaign", f.campaign.ID)
			require.NoError(t, err)
		}

		status, err := f.engagement.GetLikeStatus(ctx, f.creator, "campaign", f.campaign.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.LikeStatus{Liked: true, LikesCount: 3}, status)
		assert.Equal(t, int64(3), f.store.LikeRows("campaign", f.campaign.ID))
	})

	t.Run("works on projects", func(t *testing.T) {
		f := newFixture(t)
		project, err := f.campaigns.CreateProject(ctx, domain.Project{CreatorID: f.creator.UserID, Title: "Kiosk"})
		require.NoError(t, err)

		status, err := f.engagement.ToggleLike(ctx, f.student, "project", project.ID)
		require.NoError(t, err)
		assert.True(t, status.Liked)
		assert.Equal(t, int64(1), status.LikesCount)
	})

	t.Run("errors", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.engagement.ToggleLike(ctx, domain.Caller{}, "campaign", f.campaign.ID)
		assert.ErrorIs(t, err, apperr.Unauthenticated)

		_, err = f.engagement.ToggleLike(ctx, f.student, "campaign", uuid.NewString())
		assert.ErrorIs(t, err, ErrEntityNotFound)

		_, err = f.engagement.ToggleLike(ctx, f.student, "comment", f.campaign.ID)
		assert.ErrorIs(t, err, ErrUnknownEntityType)
		assert.ErrorIs(t, err, apperr.Validation)
	})

	t.Run("publishes a snapshot", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.engagement.ToggleLike(ctx, f.student, "campaign", f.campaign.ID)
		require.NoError(t, err)

		snap := f.notifier.Last()
		assert.Equal(t, domain.EntityRef{Type: domain.EntityCampaign, ID: f.campaign.ID}, snap.EntityRef)
		assert.Equal(t, int64(1), snap.LikesCount)
	})
}

func TestEngagementService_ToggleLikeConcurrently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const toggles = 2
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []domain.LikeStatus
	)
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := f.engagement.ToggleLike(ctx, f.student, "campaign", f.campaign.ID)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			results = append(results, status)
			mu.Unlock()
		}()
	}
	wg.Wait()

	likes := 0
	for _, r := range results {
		if r.Liked {
			likes++
			assert.Equal(t, int64(1), r.LikesCount)
		} else {
			assert.Equal(t, int64(0), r.LikesCount)
		}
	}
	assert.Equal(t, 1, likes)

	status, err := f.engagement.GetLikeStatus(ctx, f.student, "campaign", f.campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, f.store.LikeRows("campaign", f.campaign.ID), status.LikesCount)
	assert.Equal(t, int64(0), status.LikesCount)
}

func TestEngagementService_ManyUsersConcurrently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const users = 25
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		caller := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleStudent}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engagement.ToggleLike(ctx, caller, "campaign", f.campaign.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	status, err := f.engagement.GetLikeStatus(ctx, domain.Caller{}, "campaign", f.campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(users), status.LikesCount)
	assert.Equal(t, int64(users), f.store.LikeRows("campaign", f.campaign.ID))
}

func TestEngagementService_GetLikeStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engagement.ToggleLike(ctx, f.student, "campaign", f.campaign.ID)
	require.NoError(t, err)

	anonymous, err := f.engagement.GetLikeStatus(ctx, domain.Caller{}, "campaign", f.campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LikeStatus{Liked: false, LikesCount: 1}, anonymous)

	other, err := f.engagement.GetLikeStatus(ctx, f.creator, "campaign", f.campaign.ID)
	require.NoError(t, err)
	assert.False(t, other.Liked)

	// reading twice leaves the counter alone
	again, err := f.engagement.GetLikeStatus(ctx, f.student, "campaign", f.campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LikeStatus{Liked: true, LikesCount: 1}, again)
}

func TestEngagementService_TrackShare(t *testing.T) {
	ctx := context.Background()

	t.Run("counts and records the platform", func(t *testing.T) {
		f := newFixture(t)

		n, err := f.engagement.TrackShare(ctx, f.student, "campaign", f.campaign.ID, " Twitter X ")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = f.engagement.TrackShare(ctx, domain.Caller{}, "campaign", f.campaign.ID, "")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		shares := f.store.Shares()
		require.Len(t, shares, 2)
		assert.Equal(t, "twitter-x", shares[0].Platform)
		require.NotNil(t, shares[0].UserID)
		assert.Equal(t, f.student.UserID, *shares[0].UserID)
		assert.Equal(t, domain.DefaultSharePlatform, shares[1].Platform)
		assert.Nil(t, shares[1].UserID)
	})

	t.Run("detail failure never fails the share", func(t *testing.T) {
		f := newFixture(t)
		f.store.FailShareInserts(errors.New("duplicate share"))

		n, err := f.engagement.TrackShare(ctx, f.student, "campaign", f.campaign.ID, "email")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.Empty(t, f.store.Shares())
		assert.Equal(t, int64(1), f.notifier.Last().SharesCount)
	})

	t.Run("unknown entity", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.engagement.TrackShare(ctx, f.student, "campaign", uuid.NewString(), "")
		assert.ErrorIs(t, err, ErrEntityNotFound)
	})
}

func TestEngagementService_TrackView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, err := f.engagement.TrackView(ctx, "campaign", f.campaign.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(i), n)
	}

	snap, err := f.engagement.Counters(ctx, "campaign", f.campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), snap.ViewsCount)

	_, err = f.engagement.TrackView(ctx, "campaign", "bad-id")
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestNormalizePlatform(t *testing.T) {
	assert.Equal(t, "direct", NormalizePlatform(""))
	assert.Equal(t, "direct", NormalizePlatform("  "))
	assert.Equal(t, "linkedin", NormalizePlatform("LinkedIn"))
	assert.Equal(t, "whats-app", NormalizePlatform("Whats App"))
}

// laggingCounters answers Counters with values already moved on by other
// requests, as a read after commit can.
type laggingCounters struct {
	EngagementRepository
	counters domain.Counters
}

func (r laggingCounters) Counters(context.Context, domain.EntityRef) (domain.Counters, error) {
	return r.counters, nil
}

func TestEngagementService_SnapshotUsesMutationResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	notifier := &recordingNotifier{}
	repo := laggingCounters{
		EngagementRepository: repository.NewEngagementRepository(f.store.Engagement()),
		counters:             domain.Counters{LikesCount: 40, SharesCount: 7, ViewsCount: 9},
	}
	svc := NewEngagementService(repo, notifier, nil, f.clock.Now)

	_, err := svc.ToggleLike(ctx, f.student, "campaign", f.campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Counters{LikesCount: 1, SharesCount: 7, ViewsCount: 9}, notifier.Last().Counters)

	_, err = svc.TrackShare(ctx, f.student, "campaign", f.campaign.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.Counters{LikesCount: 40, SharesCount: 1, ViewsCount: 9}, notifier.Last().Counters)

	_, err = svc.TrackView(ctx, "campaign", f.campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Counters{LikesCount: 40, SharesCount: 7, ViewsCount: 1}, notifier.Last().Counters)
}
