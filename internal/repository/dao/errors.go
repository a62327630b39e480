package dao

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fundhub/campaign-api/internal/pkg/apperr"
)

var (
	ErrUserNotFound          = apperr.New(apperr.KindNotFound, "user_not_found", "user not found")
	ErrUserEmailExists       = apperr.New(apperr.KindConflict, "user_exists", "user already exists")
	ErrCampaignNotFound      = apperr.New(apperr.KindNotFound, "campaign_not_found", "campaign not found")
	ErrEntityNotFound        = apperr.New(apperr.KindNotFound, "entity_not_found", "entity not found")
	ErrParticipationNotFound = apperr.New(apperr.KindNotFound, "participation_not_found", "participation not found")
	ErrParticipationExists   = apperr.New(apperr.KindConflict, "participation_exists", "user already applied to this campaign")
	ErrSubmissionNotFound    = apperr.New(apperr.KindNotFound, "submission_not_found", "submission not found")
	ErrSubmissionExists      = apperr.New(apperr.KindConflict, "submission_exists", "a submission already exists for this participation")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
