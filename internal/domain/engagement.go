package domain

import (
	"strings"
	"time"
)

type EntityType string

const (
	EntityCampaign EntityType = "campaign"
	EntityProject  EntityType = "project"
)

func ParseEntityType(s string) (EntityType, bool) {
	switch EntityType(strings.ToLower(strings.TrimSpace(s))) {
	case EntityCampaign:
		return EntityCampaign, true
	case EntityProject:
		return EntityProject, true
	}
	return "", false
}

type EntityRef struct {
	Type EntityType `json:"entity_type"`
	ID   string     `json:"entity_id"`
}

const DefaultSharePlatform = "direct"

type Share struct {
	ID        string
	Entity    EntityRef
	UserID    string
	Platform  string
	CreatedAt time.Time
}

type LikeStatus struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

type Counters struct {
	LikesCount  int64 `json:"likes_count"`
	SharesCount int64 `json:"shares_count"`
	ViewsCount  int64 `json:"views_count"`
}

// CounterSnapshot is pushed to live feed subscribers of an entity.
type CounterSnapshot struct {
	EntityRef
	Counters
}
