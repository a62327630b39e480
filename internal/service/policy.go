package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/fundhub/campaign-api/internal/domain"
	"github.com/fundhub/campaign-api/internal/pkg/apperr"
)

var (
	ErrUnauthenticated  = apperr.New(apperr.KindUnauthenticated, "unauthenticated", "authentication required")
	ErrNotCampaignOwner = apperr.New(apperr.KindForbidden, "not_campaign_owner", "only the campaign creator or an admin can do this")
	ErrNotOwner         = apperr.New(apperr.KindForbidden, "not_owner", "you do not have access to this record")
)

// Clock supplies the current time to window checks and audit fields.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC()
}

// Authorizer answers the capability questions the services ask before a
// state change. Policy is the production implementation.
type Authorizer interface {
	CanReview(caller domain.Caller, campaign domain.Campaign) bool
	CanGrade(caller domain.Caller, campaign domain.Campaign) bool
}

// Policy lets the campaign creator and admins review and grade.
type Policy struct{}

func (Policy) CanReview(caller domain.Caller, campaign domain.Campaign) bool {
	return isOwnerOrAdmin(caller, campaign)
}

func (Policy) CanGrade(caller domain.Caller, campaign domain.Campaign) bool {
	return isOwnerOrAdmin(caller, campaign)
}

func isOwnerOrAdmin(caller domain.Caller, campaign domain.Campaign) bool {
	if caller.UserID == "" {
		return false
	}
	return caller.IsAdmin() || caller.UserID == campaign.CreatorID
}

// validID rejects ids that can never match a row, so malformed path
// parameters surface as not found instead of a driver error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
