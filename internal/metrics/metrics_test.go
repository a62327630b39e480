package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_EngagementEvent(t *testing.T) {
	m := New()

	m.EngagementEvent("campaign", "like")
	m.EngagementEvent("campaign", "like")
	m.EngagementEvent("project", "view")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EngagementEvents.WithLabelValues("campaign", "like")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EngagementEvents.WithLabelValues("project", "view")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.EngagementEvent("campaign", "like")
		m.CampaignCompleted(3)
	})
}

func TestMetrics_CampaignCompleted(t *testing.T) {
	m := New()

	m.CampaignCompleted(0)
	m.CampaignCompleted(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CampaignsCompleted))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.EngagementEvent("campaign", "share")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `campaign_api_engagement_events_total{entity_type="campaign",event="share"} 1`)
}
