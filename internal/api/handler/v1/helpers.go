package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/fundhub/campaign-api/internal/api/handler/v1/response"
	"github.com/fundhub/campaign-api/internal/api/middleware"
	"github.com/fundhub/campaign-api/internal/domain"
	"github.com/fundhub/campaign-api/internal/service"
)

var errUnknownUser = errors.New("token refers to an unknown user")

type UserService interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
}

// getCallerFromContext resolves the user behind the verified token. Role and
// verification status are read fresh from the store on every request.
func getCallerFromContext(ctx *gin.Context, uSvc UserService) (domain.Caller, *response.Err) {
	userID := ctx.GetString(middleware.UserIDKey)
	if userID == "" {
		return domain.Caller{}, response.FromError(service.ErrUnauthenticated)
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.Caller{}, response.ErrUnauthenticated(errUnknownUser)
		}
		return domain.Caller{}, response.ErrInternalServerError(fmt.Errorf("uSvc.GetUser -> %w", err))
	}

	return user.AsCaller(), nil
}

// optionalCaller is getCallerFromContext for routes that also serve
// anonymous requests.
func optionalCaller(ctx *gin.Context, uSvc UserService) (domain.Caller, *response.Err) {
	if ctx.GetString(middleware.UserIDKey) == "" {
		return domain.Caller{}, nil
	}
	return getCallerFromContext(ctx, uSvc)
}
