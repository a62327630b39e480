package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundhub/campaign-api/internal/repository/dao"
	"github.com/fundhub/campaign-api/internal/repository/memory"
)

type countingRecorder struct {
	total atomic.Int64
}

func (r *countingRecorder) CampaignCompleted(n int64) {
	r.total.Add(n)
}

type failingCompleter struct{}

func (failingCompleter) CompleteExpired(context.Context, time.Time) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestLifecycle_RunOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	past, future := now.Add(-time.Hour), now.Add(time.Hour)

	store := memory.NewStore()
	campaigns := store.Campaigns()

	insert := func(c dao.Campaign) string {
		created, err := campaigns.Insert(ctx, c)
		require.NoError(t, err)
		return created.ID
	}
	awardPassed := insert(dao.Campaign{Status: "active", AwardDistributionDate: &past, ResultsAnnouncementDate: &future})
	resultsPassed := insert(dao.Campaign{Status: "active", ResultsAnnouncementDate: &past})
	awardPending := insert(dao.Campaign{Status: "active", AwardDistributionDate: &future, ResultsAnnouncementDate: &past})
	noDates := insert(dao.Campaign{Status: "active"})
	draft := insert(dao.Campaign{Status: "draft", AwardDistributionDate: &past})

	recorder := &countingRecorder{}
	lifecycle := NewLifecycle(campaigns, recorder, func() time.Time { return now })

	n, err := lifecycle.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, int64(2), recorder.total.Load())

	status := func(id string) string {
		c, err := campaigns.FindByID(ctx, id)
		require.NoError(t, err)
		return c.Status
	}
	assert.Equal(t, "completed", status(awardPassed))
	assert.Equal(t, "completed", status(resultsPassed))
	assert.Equal(t, "active", status(awardPending))
	assert.Equal(t, "active", status(noDates))
	assert.Equal(t, "draft", status(draft))

	n, err = lifecycle.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLifecycle_RunOnceError(t *testing.T) {
	lifecycle := NewLifecycle(failingCompleter{}, nil, time.Now)

	_, err := lifecycle.RunOnce(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestLifecycle_StartShutdown(t *testing.T) {
	ctx := context.Background()
	past := time.Now().Add(-time.Minute)

	store := memory.NewStore()
	campaigns := store.Campaigns()
	created, err := campaigns.Insert(ctx, dao.Campaign{Status: "active", AwardDistributionDate: &past})
	require.NoError(t, err)

	lifecycle := NewLifecycle(campaigns, nil, time.Now)
	require.NoError(t, lifecycle.Start(ctx, time.Hour))
	t.Cleanup(func() { assert.NoError(t, lifecycle.Shutdown()) })

	assert.Eventually(t, func() bool {
		c, err := campaigns.FindByID(ctx, created.ID)
		return err == nil && c.Status == "completed"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLifecycle_ShutdownWithoutStart(t *testing.T) {
	assert.NoError(t, NewLifecycle(failingCompleter{}, nil, time.Now).Shutdown())
}
