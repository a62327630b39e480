// Package memory keeps every table in maps behind one mutex. It satisfies the
// repository DAO interfaces so services can be exercised without Postgres.
// Holding the mutex for a whole call plays the role of the row locks and
// unique indexes of the gorm implementation.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fundhub/campaign-api/internal/repository/dao"
)

type likeKey struct {
	entityType string
	entityID   string
	userID     string
}

type Store struct {
	mu sync.Mutex

	users          map[string]dao.User
	campaigns      map[string]dao.Campaign
	projects       map[string]dao.Project
	participations map[string]dao.Participation
	submissions    map[string]dao.Submission
	likes          map[likeKey]time.Time
	shares         []dao.Share
	shareErr       error

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:          make(map[string]dao.User),
		campaigns:      make(map[string]dao.Campaign),
		projects:       make(map[string]dao.Project),
		participations: make(map[string]dao.Participation),
		submissions:    make(map[string]dao.Submission),
		likes:          make(map[likeKey]time.Time),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() *UserDAO                   { return &UserDAO{s: s} }
func (s *Store) Campaigns() *CampaignDAO           { return &CampaignDAO{s: s} }
func (s *Store) Participations() *ParticipationDAO { return &ParticipationDAO{s: s} }
func (s *Store) Submissions() *SubmissionDAO       { return &SubmissionDAO{s: s} }
func (s *Store) Engagement() *EngagementDAO        { return &EngagementDAO{s: s} }

// Shares returns a copy of the recorded share rows.
func (s *Store) Shares() []dao.Share {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dao.Share(nil), s.shares...)
}

// FailShareInserts makes every later share row insert return err.
func (s *Store) FailShareInserts(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shareErr = err
}

// LikeRows counts stored likes of one entity.
func (s *Store) LikeRows(entityType, entityID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLikes(entityType, entityID)
}

func (s *Store) countLikes(entityType, entityID string) int64 {
	var n int64
	for k := range s.likes {
		if k.entityType == entityType && k.entityID == entityID {
			n++
		}
	}
	return n
}

type UserDAO struct{ s *Store }

func (d *UserDAO) Insert(_ context.Context, user dao.User) (dao.User, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	for _, u := range d.s.users {
		if u.Email == user.Email {
			return dao.User{}, dao.ErrUserEmailExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = d.s.now()
	user.UpdatedAt = user.CreatedAt
	d.s.users[user.ID] = user
	return user, nil
}

func (d *UserDAO) FindByID(_ context.Context, id string) (dao.User, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	user, ok := d.s.users[id]
	if !ok {
		return dao.User{}, dao.ErrUserNotFound
	}
	return user, nil
}

type CampaignDAO struct{ s *Store }

func (d *CampaignDAO) Insert(_ context.Context, campaign dao.Campaign) (dao.Campaign, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	if campaign.ID == "" {
		campaign.ID = uuid.NewString()
	}
	campaign.CreatedAt = d.s.now()
	campaign.UpdatedAt = campaign.CreatedAt
	d.s.campaigns[campaign.ID] = campaign
	return campaign, nil
}

func (d *CampaignDAO) InsertProject(_ context.Context, project dao.Project) (dao.Project, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	project.CreatedAt = d.s.now()
	project.UpdatedAt = project.CreatedAt
	d.s.projects[project.ID] = project
	return project, nil
}

func (d *CampaignDAO) FindByID(_ context.Context, id string) (dao.Campaign, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	campaign, ok := d.s.campaigns[id]
	if !ok {
		return dao.Campaign{}, dao.ErrCampaignNotFound
	}
	return campaign, nil
}

func (d *CampaignDAO) CompleteExpired(_ context.Context, now time.Time) (int64, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	var n int64
	for id, c := range d.s.campaigns {
		if c.Status != "active" {
			continue
		}
		deadline := c.AwardDistributionDate
		if deadline == nil {
			deadline = c.ResultsAnnouncementDate
		}
		if deadline == nil || deadline.After(now) {
			continue
		}
		c.Status = "completed"
		c.UpdatedAt = now
		d.s.campaigns[id] = c
		n++
	}
	return n, nil
}

type ParticipationDAO struct{ s *Store }

func (d *ParticipationDAO) Insert(_ context.Context, participation dao.Participation) (dao.Participation, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	for _, p := range d.s.participations {
		if p.CampaignID == participation.CampaignID && p.UserID == participation.UserID {
			return dao.Participation{}, dao.ErrParticipationExists
		}
	}
	if participation.ID == "" {
		participation.ID = uuid.NewString()
	}
	if participation.SubmissionStatus == "" {
		participation.SubmissionStatus = "not_submitted"
	}
	participation.CreatedAt = d.s.now()
	participation.UpdatedAt = participation.CreatedAt
	d.s.participations[participation.ID] = participation
	return participation, nil
}

func (d *ParticipationDAO) FindByID(_ context.Context, id string) (dao.Participation, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	p, ok := d.s.participations[id]
	if !ok {
		return dao.Participation{}, dao.ErrParticipationNotFound
	}
	return p, nil
}

func (d *ParticipationDAO) FindByCampaignAndUser(_ context.Context, campaignID, userID string) (dao.Participation, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	for _, p := range d.s.participations {
		if p.CampaignID == campaignID && p.UserID == userID {
			return p, nil
		}
	}
	return dao.Participation{}, dao.ErrParticipationNotFound
}

func (d *ParticipationDAO) List(_ context.Context, filter dao.ParticipationFilter) ([]dao.Participation, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	out := make([]dao.Participation, 0)
	for _, p := range d.s.participations {
		if filter.CampaignID != "" && p.CampaignID != filter.CampaignID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

func (d *ParticipationDAO) Update(_ context.Context, id string, mutate func(p *dao.Participation) error) (dao.Participation, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	p, ok := d.s.participations[id]
	if !ok {
		return dao.Participation{}, dao.ErrParticipationNotFound
	}
	if err := mutate(&p); err != nil {
		return dao.Participation{}, err
	}
	p.UpdatedAt = d.s.now()
	d.s.participations[id] = p
	return p, nil
}

type SubmissionDAO struct{ s *Store }

func (d *SubmissionDAO) Insert(_ context.Context, submission dao.Submission, guard func(p dao.Participation) error, mirror dao.MirrorFunc) (dao.Submission, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	p, ok := d.s.participations[submission.ParticipationID]
	if !ok {
		return dao.Submission{}, dao.ErrParticipationNotFound
	}
	if err := guard(p); err != nil {
		return dao.Submission{}, err
	}
	for _, existing := range d.s.submissions {
		if existing.ParticipationID == submission.ParticipationID {
			return dao.Submission{}, dao.ErrSubmissionExists
		}
	}

	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	submission.ScreenshotURLs = append([]string(nil), submission.ScreenshotURLs...)
	submission.CreatedAt = d.s.now()
	submission.UpdatedAt = submission.CreatedAt
	d.s.submissions[submission.ID] = submission

	p.SubmissionStatus = mirror(submission)
	p.UpdatedAt = submission.CreatedAt
	d.s.participations[p.ID] = p
	return submission, nil
}

func (d *SubmissionDAO) FindByID(_ context.Context, id string) (dao.Submission, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	s, ok := d.s.submissions[id]
	if !ok {
		return dao.Submission{}, dao.ErrSubmissionNotFound
	}
	return s, nil
}

func (d *SubmissionDAO) Update(_ context.Context, id string, mutate func(s *dao.Submission) error, mirror dao.MirrorFunc) (dao.Submission, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	s, ok := d.s.submissions[id]
	if !ok {
		return dao.Submission{}, dao.ErrSubmissionNotFound
	}
	if err := mutate(&s); err != nil {
		return dao.Submission{}, err
	}
	p, ok := d.s.participations[s.ParticipationID]
	if !ok {
		return dao.Submission{}, dao.ErrParticipationNotFound
	}

	s.UpdatedAt = d.s.now()
	d.s.submissions[id] = s
	p.SubmissionStatus = mirror(s)
	p.UpdatedAt = s.UpdatedAt
	d.s.participations[p.ID] = p
	return s, nil
}

var rankedStatuses = map[string]bool{"graded": true, "winner": true, "runner_up": true, "not_selected": true}

func (d *SubmissionDAO) ListRanked(_ context.Context, campaignID string) ([]dao.Submission, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	out := make([]dao.Submission, 0)
	for _, s := range d.s.submissions {
		if s.CampaignID == campaignID && rankedStatuses[s.Status] {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Position == nil) != (b.Position == nil) {
			return a.Position != nil
		}
		if a.Position != nil && *a.Position != *b.Position {
			return *a.Position < *b.Position
		}
		if (a.Score == nil) != (b.Score == nil) {
			return a.Score != nil
		}
		if a.Score != nil && *a.Score != *b.Score {
			return *a.Score > *b.Score
		}
		return a.SubmissionDate.Before(b.SubmissionDate)
	})
	return out, nil
}

type EngagementDAO struct{ s *Store }

// counters loads the counter columns of an entity together with a setter that
// writes them back. Callers hold the mutex.
func (d *EngagementDAO) counters(entityType, entityID string) (*dao.Counters, func(dao.Counters), error) {
	switch entityType {
	case "campaign":
		c, ok := d.s.campaigns[entityID]
		if !ok {
			return nil, nil, dao.ErrEntityNotFound
		}
		return &dao.Counters{LikesCount: c.LikesCount, SharesCount: c.SharesCount, ViewsCount: c.ViewsCount},
			func(n dao.Counters) {
				c.LikesCount, c.SharesCount, c.ViewsCount = n.LikesCount, n.SharesCount, n.ViewsCount
				d.s.campaigns[entityID] = c
			}, nil
	case "project":
		p, ok := d.s.projects[entityID]
		if !ok {
			return nil, nil, dao.ErrEntityNotFound
		}
		return &dao.Counters{LikesCount: p.LikesCount, SharesCount: p.SharesCount, ViewsCount: p.ViewsCount},
			func(n dao.Counters) {
				p.LikesCount, p.SharesCount, p.ViewsCount = n.LikesCount, n.SharesCount, n.ViewsCount
				d.s.projects[entityID] = p
			}, nil
	}
	return nil, nil, dao.ErrEntityNotFound
}

func (d *EngagementDAO) ToggleLike(_ context.Context, entityType, entityID, userID string) (bool, int64, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	c, save, err := d.counters(entityType, entityID)
	if err != nil {
		return false, 0, err
	}

	key := likeKey{entityType: entityType, entityID: entityID, userID: userID}
	_, liked := d.s.likes[key]
	if liked {
		delete(d.s.likes, key)
	} else {
		d.s.likes[key] = d.s.now()
	}

	c.LikesCount = d.s.countLikes(entityType, entityID)
	save(*c)
	return !liked, c.LikesCount, nil
}

func (d *EngagementDAO) LikeStatus(_ context.Context, entityType, entityID, userID string) (bool, int64, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	c, _, err := d.counters(entityType, entityID)
	if err != nil {
		return false, 0, err
	}
	if userID == "" {
		return false, c.LikesCount, nil
	}
	_, liked := d.s.likes[likeKey{entityType: entityType, entityID: entityID, userID: userID}]
	return liked, c.LikesCount, nil
}

func (d *EngagementDAO) IncrementShares(_ context.Context, entityType, entityID string) (int64, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	c, save, err := d.counters(entityType, entityID)
	if err != nil {
		return 0, err
	}
	c.SharesCount++
	save(*c)
	return c.SharesCount, nil
}

func (d *EngagementDAO) IncrementViews(_ context.Context, entityType, entityID string) (int64, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	c, save, err := d.counters(entityType, entityID)
	if err != nil {
		return 0, err
	}
	c.ViewsCount++
	save(*c)
	return c.ViewsCount, nil
}

func (d *EngagementDAO) InsertShare(_ context.Context, share dao.Share) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	if d.s.shareErr != nil {
		return d.s.shareErr
	}
	if share.ID == "" {
		share.ID = uuid.NewString()
	}
	d.s.shares = append(d.s.shares, share)
	return nil
}

func (d *EngagementDAO) Counters(_ context.Context, entityType, entityID string) (dao.Counters, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	c, _, err := d.counters(entityType, entityID)
	if err != nil {
		return dao.Counters{}, err
	}
	return *c, nil
}
