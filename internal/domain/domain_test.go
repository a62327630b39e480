package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundhub/campaign-api/internal/pkg/apperr"
)

func intPtr(i int) *int { return &i }

func TestCampaign_SubmissionWindowAt(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)
	c := Campaign{SubmissionStartDate: &start, SubmissionEndDate: &end}

	tests := []struct {
		name string
		now  time.Time
		want WindowState
	}{
		{"before start", start.Add(-time.Nanosecond), WindowNotOpen},
		{"exactly at start", start, WindowOpen},
		{"inside", start.Add(24 * time.Hour), WindowOpen},
		{"exactly at end", end, WindowOpen},
		{"after end", end.Add(time.Nanosecond), WindowClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.SubmissionWindowAt(tt.now))
		})
	}

	t.Run("unset edges never block", func(t *testing.T) {
		assert.Equal(t, WindowOpen, Campaign{}.SubmissionWindowAt(time.Now()))
	})
}

func TestCampaign_AcceptsParticipation(t *testing.T) {
	assert.True(t, Campaign{Status: CampaignActive, FundingTrail: true}.AcceptsParticipation())
	assert.False(t, Campaign{Status: CampaignActive}.AcceptsParticipation())
	assert.False(t, Campaign{Status: CampaignDraft, FundingTrail: true}.AcceptsParticipation())
}

func TestMirrorState(t *testing.T) {
	assert.Equal(t, SubmissionStateNotSubmitted, MirrorState(nil))
	for _, status := range []SubmissionStatus{
		SubmissionSubmitted, SubmissionUnderReview, SubmissionGraded,
		SubmissionWinner, SubmissionRunnerUp, SubmissionNotSelected,
	} {
		assert.Equal(t, string(status), string(MirrorState(&Submission{Status: status})))
	}
}

func TestSubmissionPayload_Validate(t *testing.T) {
	valid := SubmissionPayload{
		ProjectTitle:       "Solar kiosk",
		ProjectDescription: "Off-grid charging for markets",
		ScreenshotURLs:     []string{"https://cdn.example.com/1.png"},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(p *SubmissionPayload)
	}{
		{"empty title", func(p *SubmissionPayload) { p.ProjectTitle = "" }},
		{"empty description", func(p *SubmissionPayload) { p.ProjectDescription = "" }},
		{"no screenshots", func(p *SubmissionPayload) { p.ScreenshotURLs = nil }},
		{"bad screenshot url", func(p *SubmissionPayload) { p.ScreenshotURLs = []string{"ftp://x/1.png"} }},
		{"bad pitch deck", func(p *SubmissionPayload) { p.PitchDeckURL = "not a url" }},
		{"bad demo link", func(p *SubmissionPayload) { p.Links.DemoURL = "javascript:alert(1)" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			p.ScreenshotURLs = append([]string(nil), valid.ScreenshotURLs...)
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.Validation))
			assert.True(t, errors.Is(err, ErrInvalidSubmission))
		})
	}
}

func TestSubmissionPayload_Normalize(t *testing.T) {
	p := SubmissionPayload{
		ProjectTitle:   "  Title ",
		ScreenshotURLs: []string{" https://a/1.png ", "", "  "},
	}.Normalize()

	assert.Equal(t, "Title", p.ProjectTitle)
	assert.Equal(t, []string{"https://a/1.png"}, p.ScreenshotURLs)
}

func TestGradeInput_Validate(t *testing.T) {
	ok := GradeInput{Score: intPtr(92), Grade: "A", Status: SubmissionWinner, Position: intPtr(1)}
	require.NoError(t, ok.Validate())
	require.NoError(t, GradeInput{Score: intPtr(0), Grade: "F"}.Validate())

	tests := []struct {
		name  string
		input GradeInput
	}{
		{"score above range", GradeInput{Score: intPtr(101), Grade: "A"}},
		{"score below range", GradeInput{Score: intPtr(-1), Grade: "A"}},
		{"missing score", GradeInput{Grade: "A"}},
		{"unknown grade", GradeInput{Score: intPtr(50), Grade: "Z"}},
		{"missing grade", GradeInput{Score: intPtr(50)}},
		{"submitted is not a grading status", GradeInput{Score: intPtr(50), Grade: "C", Status: SubmissionSubmitted}},
		{"position zero", GradeInput{Score: intPtr(50), Grade: "C", Position: intPtr(0)}},
		{"position four", GradeInput{Score: intPtr(50), Grade: "C", Position: intPtr(4)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidGrade))
		})
	}
}

func TestSubmission_Apply(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	prize := 500.0
	s := Submission{Status: SubmissionSubmitted}

	s.Apply(GradeInput{Score: intPtr(92), Grade: "A", Feedback: " great ", Status: SubmissionWinner, Position: intPtr(1), PrizeAmount: &prize}, "grader", now)

	assert.Equal(t, SubmissionWinner, s.Status)
	assert.Equal(t, 92, *s.Score)
	assert.Equal(t, "great", s.Feedback)
	assert.Equal(t, "grader", s.GraderID)
	assert.Equal(t, now, *s.GradedAt)
	assert.Equal(t, 1, *s.Position)
	assert.Equal(t, 500.0, *s.PrizeAmount)
	assert.False(t, s.Distributed)

	s.Apply(GradeInput{Score: intPtr(40), Grade: "D", Status: SubmissionNotSelected}, "grader", now)
	assert.Equal(t, SubmissionNotSelected, s.Status)
	assert.Nil(t, s.Position)
	assert.Nil(t, s.PrizeAmount)

	s.Apply(GradeInput{Score: intPtr(80), Grade: "B", Position: intPtr(2), PrizeAmount: &prize}, "grader", now)
	assert.Equal(t, SubmissionGraded, s.Status)
	assert.Nil(t, s.Position, "only winners and runners-up hold a position")
	assert.Nil(t, s.PrizeAmount)
}

func TestParseEntityType(t *testing.T) {
	et, ok := ParseEntityType(" Campaign ")
	assert.True(t, ok)
	assert.Equal(t, EntityCampaign, et)

	_, ok = ParseEntityType("comment")
	assert.False(t, ok)
}

func TestApplication_Validate(t *testing.T) {
	ok := Application{Motivation: "I build solar kits", Experience: "Two hackathons"}.Normalize()
	require.NoError(t, ok.Validate())

	err := Application{Motivation: "   ", Experience: "x"}.Normalize().Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidApplication))
	assert.True(t, errors.Is(err, apperr.Validation))
}

func TestParticipation_HasSubmission(t *testing.T) {
	assert.False(t, Participation{}.HasSubmission())
	assert.False(t, Participation{SubmissionStatus: SubmissionStateNotSubmitted}.HasSubmission())
	assert.True(t, Participation{SubmissionStatus: SubmissionStateUnderReview}.HasSubmission())
}
