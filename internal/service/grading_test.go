package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundhub/campaign-api/internal/domain"
	"github.com/fundhub/campaign-api/internal/pkg/apperr"
)

func TestGradingService_Grade(t *testing.T) {
	ctx := context.Background()

	t.Run("records the grade and mirrors the status", func(t *testing.T) {
		f := newFixture(t)
		s := f.submitted(t, f.student)
		prize := 250.0

		graded, err := f.grading.Grade(ctx, f.creator, s.ID, domain.GradeInput{
			Score:       intPtr(88),
			Grade:       "B+",
			Feedback:    "solid",
			Status:      domain.SubmissionRunnerUp,
			Position:    intPtr(2),
			PrizeAmount: &prize,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.SubmissionRunnerUp, graded.Status)
		assert.Equal(t, 88, *graded.Score)
		assert.Equal(t, "B+", graded.Grade)
		assert.Equal(t, f.creator.UserID, graded.GraderID)
		assert.Equal(t, 2, *graded.Position)
		assert.Equal(t, 250.0, *graded.PrizeAmount)
		assert.False(t, graded.Distributed)

		p, err := f.participations.GetParticipation(ctx, f.student, s.ParticipationID)
		require.NoError(t, err)
		assert.Equal(t, domain.SubmissionStateRunnerUp, p.SubmissionStatus)
	})

	t.Run("status defaults to graded", func(t *testing.T) {
		f := newFixture(t)
		s := f.submitted(t, f.student)

		graded, err := f.grading.Grade(ctx, f.admin, s.ID, domain.GradeInput{Score: intPtr(70), Grade: "C+"})
		require.NoError(t, err)
		assert.Equal(t, domain.SubmissionGraded, graded.Status)
	})

	t.Run("invalid input never mutates", func(t *testing.T) {
		f := newFixture(t)
		s := f.submitted(t, f.student)

		for _, input := range []domain.GradeInput{
			{Score: intPtr(101), Grade: "A"},
			{Score: intPtr(50), Grade: "Z"},
			{Score: intPtr(50), Grade: "A", Position: intPtr(4)},
			{Score: intPtr(50), Grade: "A", Status: domain.SubmissionUnderReview},
		} {
			_, err := f.grading.Grade(ctx, f.creator, s.ID, input)
			assert.ErrorIs(t, err, apperr.Validation)
		}

		unchanged, err := f.submissions.GetSubmission(ctx, f.creator, s.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SubmissionSubmitted, unchanged.Status)
		assert.Nil(t, unchanged.Score)
		assert.Empty(t, unchanged.Grade)
	})

	t.Run("only the creator or an admin grades", func(t *testing.T) {
		f := newFixture(t)
		s := f.submitted(t, f.student)

		_, err := f.grading.Grade(ctx, f.student, s.ID, domain.GradeInput{Score: intPtr(100), Grade: "A+"})
		assert.ErrorIs(t, err, ErrNotCampaignOwner)

		_, err = f.grading.Grade(ctx, domain.Caller{}, s.ID, domain.GradeInput{Score: intPtr(100), Grade: "A+"})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("unknown submission", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.grading.Grade(ctx, f.creator, uuid.NewString(), domain.GradeInput{Score: intPtr(1), Grade: "F"})
		assert.ErrorIs(t, err, ErrSubmissionNotFound)
	})

	t.Run("a later grade overwrites the status", func(t *testing.T) {
		f := newFixture(t)
		s := f.submitted(t, f.student)

		prize := 500.0
		_, err := f.grading.Grade(ctx, f.creator, s.ID, domain.GradeInput{
			Score: intPtr(90), Grade: "A", Status: domain.SubmissionWinner, Position: intPtr(1), PrizeAmount: &prize,
		})
		require.NoError(t, err)

		other := f.submitted(t, f.newStudent(t))
		_, err = f.grading.Grade(ctx, f.creator, other.ID, domain.GradeInput{
			Score: intPtr(85), Grade: "A", Status: domain.SubmissionWinner, Position: intPtr(1), PrizeAmount: &prize,
		})
		require.NoError(t, err)

		regraded, err := f.grading.Grade(ctx, f.creator, s.ID, domain.GradeInput{Score: intPtr(60), Grade: "C", Status: domain.SubmissionNotSelected})
		require.NoError(t, err)
		assert.Equal(t, domain.SubmissionNotSelected, regraded.Status)
		assert.Nil(t, regraded.Position)
		assert.Nil(t, regraded.PrizeAmount)

		stored, err := f.submissions.GetSubmission(ctx, f.creator, s.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.Position)
		assert.Nil(t, stored.PrizeAmount)

		board, err := f.grading.Leaderboard(ctx, f.campaign.ID)
		require.NoError(t, err)
		require.Len(t, board, 2)
		assert.Equal(t, other.ID, board[0].SubmissionID)
		assert.Equal(t, domain.SubmissionWinner, board[0].Status)
		assert.Equal(t, s.ID, board[1].SubmissionID)
		assert.Nil(t, board[1].Position)

		p, err := f.participations.GetParticipation(ctx, f.creator, s.ParticipationID)
		require.NoError(t, err)
		assert.Equal(t, domain.SubmissionStateNotSelected, p.SubmissionStatus)
	})
}

func TestGradingService_BeginReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.submitted(t, f.student)

	reviewing, err := f.grading.BeginReview(ctx, f.creator, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionUnderReview, reviewing.Status)

	again, err := f.grading.BeginReview(ctx, f.creator, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionUnderReview, again.Status)

	p, err := f.participations.GetParticipation(ctx, f.student, s.ParticipationID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionStateUnderReview, p.SubmissionStatus)

	_, err = f.grading.Grade(ctx, f.creator, s.ID, domain.GradeInput{Score: intPtr(80), Grade: "B"})
	require.NoError(t, err)

	_, err = f.grading.BeginReview(ctx, f.creator, s.ID)
	assert.ErrorIs(t, err, ErrReviewNotAllowed)

	_, err = f.grading.BeginReview(ctx, f.student, s.ID)
	assert.ErrorIs(t, err, apperr.Forbidden)
}

func TestGradingService_Leaderboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	grade := func(student domain.Caller, offset time.Duration, input domain.GradeInput) domain.Submission {
		f.approved(t, student)
		f.clock.Set(submissionStart.Add(offset))
		s, err := f.submissions.Submit(ctx, student, f.campaign.ID, validPayload())
		require.NoError(t, err)
		if input.Score == nil {
			return s
		}
		_, err = f.grading.Grade(ctx, f.creator, s.ID, input)
		require.NoError(t, err)
		return s
	}

	early := grade(f.student, time.Hour, domain.GradeInput{Score: intPtr(75), Grade: "B"})
	late := grade(f.newStudent(t), 2*time.Hour, domain.GradeInput{Score: intPtr(75), Grade: "B"})
	top := grade(f.newStudent(t), 3*time.Hour, domain.GradeInput{Score: intPtr(95), Grade: "A+"})
	winner := grade(f.newStudent(t), 4*time.Hour, domain.GradeInput{Score: intPtr(90), Grade: "A", Status: domain.SubmissionWinner, Position: intPtr(1)})
	grade(f.newStudent(t), 5*time.Hour, domain.GradeInput{})

	board, err := f.grading.Leaderboard(ctx, f.campaign.ID)
	require.NoError(t, err)
	require.Len(t, board, 4)

	assert.Equal(t, winner.ID, board[0].SubmissionID)
	assert.Equal(t, top.ID, board[1].SubmissionID)
	assert.Equal(t, early.ID, board[2].SubmissionID)
	assert.Equal(t, late.ID, board[3].SubmissionID)
	for i, entry := range board {
		assert.Equal(t, i+1, entry.Rank)
	}

	_, err = f.grading.Leaderboard(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestEndToEnd_ApplyApproveSubmitGrade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.participations.Apply(ctx, f.student, f.campaign.ID, validApplication())
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipationPending, p.Status)

	p, err = f.participations.Review(ctx, f.creator, p.ID, domain.ReviewDecision{Decision: domain.ParticipationApproved})
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipationApproved, p.Status)

	f.clock.Set(submissionStart.Add(48 * time.Hour))
	s, err := f.submissions.Submit(ctx, f.student, f.campaign.ID, domain.SubmissionPayload{
		ProjectTitle:       "Water filter",
		ProjectDescription: "Sand and charcoal filter",
		ScreenshotURLs:     []string{"https://cdn.example.com/filter.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionSubmitted, s.Status)

	p, err = f.participations.GetParticipation(ctx, f.student, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionStateSubmitted, p.SubmissionStatus)

	s, err = f.grading.Grade(ctx, f.creator, s.ID, domain.GradeInput{
		Score:    intPtr(92),
		Grade:    "A",
		Status:   domain.SubmissionWinner,
		Position: intPtr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionWinner, s.Status)

	p, err = f.participations.GetParticipation(ctx, f.student, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionStateWinner, p.SubmissionStatus)
}
