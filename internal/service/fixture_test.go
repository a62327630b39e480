package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fundhub/campaign-api/internal/domain"
	"github.com/fundhub/campaign-api/internal/repository"
	"github.com/fundhub/campaign-api/internal/repository/memory"
)

var (
	submissionStart = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	submissionEnd   = time.Date(2026, 5, 31, 17, 0, 0, 0, time.UTC)
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordingNotifier struct {
	mu        sync.Mutex
	snapshots []domain.CounterSnapshot
}

func (n *recordingNotifier) Publish(snapshot domain.CounterSnapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.snapshots = append(n.snapshots, snapshot)
}

func (n *recordingNotifier) Last() domain.CounterSnapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snapshots[len(n.snapshots)-1]
}

type fixture struct {
	store    *memory.Store
	clock    *fakeClock
	notifier *recordingNotifier

	campaigns      *repository.CampaignRepository
	participations *ParticipationService
	submissions    *SubmissionService
	grading        *GradingService
	engagement     *EngagementService

	creator  domain.Caller
	admin    domain.Caller
	student  domain.Caller
	campaign domain.Campaign
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	clock := &fakeClock{now: submissionStart.Add(-24 * time.Hour)}
	notifier := &recordingNotifier{}

	userRepo := repository.NewUserRepository(store.Users())
	campaignRepo := repository.NewCampaignRepository(store.Campaigns())
	participationRepo := repository.NewParticipationRepository(store.Participations())
	submissionRepo := repository.NewSubmissionRepository(store.Submissions())
	engagementRepo := repository.NewEngagementRepository(store.Engagement())

	f := &fixture{
		store:          store,
		clock:          clock,
		notifier:       notifier,
		campaigns:      campaignRepo,
		participations: NewParticipationService(participationRepo, campaignRepo, Policy{}, clock.Now),
		submissions:    NewSubmissionService(submissionRepo, participationRepo, campaignRepo, Policy{}, clock.Now),
		grading:        NewGradingService(submissionRepo, campaignRepo, Policy{}, clock.Now),
		engagement:     NewEngagementService(engagementRepo, notifier, nil, clock.Now),
	}

	ctx := context.Background()
	f.creator = f.newUser(t, userRepo, domain.RoleCreator, domain.VerificationApproved).AsCaller()
	f.admin = f.newUser(t, userRepo, domain.RoleAdmin, domain.VerificationApproved).AsCaller()
	f.student = f.newUser(t, userRepo, domain.RoleStudent, domain.VerificationApproved).AsCaller()

	start, end := submissionStart, submissionEnd
	campaign, err := campaignRepo.Create(ctx, domain.Campaign{
		CreatorID:           f.creator.UserID,
		Title:               "Clean water challenge",
		Status:              domain.CampaignActive,
		Type:                domain.CampaignTypeCustom,
		FundingTrail:        true,
		SubmissionStartDate: &start,
		SubmissionEndDate:   &end,
	})
	require.NoError(t, err)
	f.campaign = campaign

	return f
}

func (f *fixture) newUser(t *testing.T, repo *repository.UserRepository, role domain.Role, verification domain.VerificationStatus) domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), domain.User{
		Email:              uuid.NewString() + "@example.com",
		Name:               string(role),
		Role:               role,
		VerificationStatus: verification,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) newStudent(t *testing.T) domain.Caller {
	t.Helper()
	return f.newUser(t, repository.NewUserRepository(f.store.Users()), domain.RoleStudent, domain.VerificationApproved).AsCaller()
}

func validApplication() domain.Application {
	return domain.Application{Motivation: "I want to help", Experience: "Built a rain tank"}
}

func validPayload() domain.SubmissionPayload {
	return domain.SubmissionPayload{
		ProjectTitle:       "Rain tank",
		ProjectDescription: "Collects rainwater for a school",
		ScreenshotURLs:     []string{"https://cdn.example.com/tank.png"},
	}
}

// approved applies student to the fixture campaign and approves it.
func (f *fixture) approved(t *testing.T, student domain.Caller) domain.Participation {
	t.Helper()
	ctx := context.Background()

	p, err := f.participations.Apply(ctx, student, f.campaign.ID, validApplication())
	require.NoError(t, err)
	p, err = f.participations.Review(ctx, f.creator, p.ID, domain.ReviewDecision{Decision: domain.ParticipationApproved})
	require.NoError(t, err)
	return p
}

// submitted walks student through approval and a submission inside the window.
func (f *fixture) submitted(t *testing.T, student domain.Caller) domain.Submission {
	t.Helper()
	f.approved(t, student)
	f.clock.Set(submissionStart.Add(time.Hour))

	s, err := f.submissions.Submit(context.Background(), student, f.campaign.ID, validPayload())
	require.NoError(t, err)
	return s
}

func intPtr(i int) *int { return &i }
