package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundhub/campaign-api/internal/api/handler/v1/request"
	"github.com/fundhub/campaign-api/internal/api/handler/v1/response"
	"github.com/fundhub/campaign-api/internal/domain"
)

type EngagementService interface {
	ToggleLike(ctx context.Context, caller domain.Caller, entityType, entityID string) (domain.LikeStatus, error)
	GetLikeStatus(ctx context.Context, caller domain.Caller, entityType, entityID string) (domain.LikeStatus, error)
	TrackShare(ctx context.Context, caller domain.Caller, entityType, entityID, platform string) (int64, error)
	TrackView(ctx context.Context, entityType, entityID string) (int64, error)
	Counters(ctx context.Context, entityType, entityID string) (domain.CounterSnapshot, error)
}

type EngagementHandler struct {
	svc  EngagementService
	uSvc UserService
	hub  *LiveHub
}

func NewEngagementHandler(svc EngagementService, uSvc UserService, hub *LiveHub) *EngagementHandler {
	return &EngagementHandler{
		svc:  svc,
		uSvc: uSvc,
		hub:  hub,
	}
}

// HandleToggleLike godoc
// @Summary      Like or unlike an entity
// @Tags         engagement
// @Produce      json
// @Param        entityType  path      string  true  "campaign or project"
// @Param        entityID    path      string  true  "Entity ID"
// @Success      200  {object}  domain.LikeStatus
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /engagement/{entityType}/{entityID}/like [post]
// @Security BearerAuth
func (h *EngagementHandler) HandleToggleLike(ctx *gin.Context) {
	caller, respErr := getCallerFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	status, err := h.svc.ToggleLike(ctx.Request.Context(), caller, ctx.Param("entityType"), ctx.Param("entityID"))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, status)
}

// HandleGetLikeStatus godoc
// @Summary      Like counter, and whether the caller liked the entity
// @Tags         engagement
// @Produce      json
// @Param        entityType  path      string  true  "campaign or project"
// @Param        entityID    path      string  true  "Entity ID"
// @Success      200  {object}  domain.LikeStatus
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /engagement/{entityType}/{entityID}/like [get]
func (h *EngagementHandler) HandleGetLikeStatus(ctx *gin.Context) {
	caller, respErr := optionalCaller(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	status, err := h.svc.GetLikeStatus(ctx.Request.Context(), caller, ctx.Param("entityType"), ctx.Param("entityID"))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, status)
}

// HandleTrackShare godoc
// @Summary      Count a share
// @Tags         engagement
// @Accept       json
// @Produce      json
// @Param        entityType  path      string                true   "campaign or project"
// @Param        entityID    path      string                true   "Entity ID"
// @Param        request     body      request.ShareRequest  false  "platform, direct when omitted"
// @Success      200  {object}  map[string]int64
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /engagement/{entityType}/{entityID}/share [post]
func (h *EngagementHandler) HandleTrackShare(ctx *gin.Context) {
	caller, respErr := optionalCaller(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ShareRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrInvalidInput(err))
		return
	}

	count, err := h.svc.TrackShare(ctx.Request.Context(), caller, ctx.Param("entityType"), ctx.Param("entityID"), req.Platform)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"shares_count": count})
}

// HandleTrackView godoc
// @Summary      Count a view
// @Tags         engagement
// @Produce      json
// @Param        entityType  path      string  true  "campaign or project"
// @Param        entityID    path      string  true  "Entity ID"
// @Success      200  {object}  map[string]int64
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /engagement/{entityType}/{entityID}/view [post]
func (h *EngagementHandler) HandleTrackView(ctx *gin.Context) {
	count, err := h.svc.TrackView(ctx.Request.Context(), ctx.Param("entityType"), ctx.Param("entityID"))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"views_count": count})
}

// HandleLive godoc
// @Summary      Live counter feed
// @Description  Upgrades to a websocket that receives a counter snapshot on connect and after every change.
// @Tags         engagement
// @Produce      json
// @Param        entityType  path      string  true  "campaign or project"
// @Param        entityID    path      string  true  "Entity ID"
// @Success      101  {object}  domain.CounterSnapshot
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /engagement/{entityType}/{entityID}/live [get]
func (h *EngagementHandler) HandleLive(ctx *gin.Context) {
	snap, err := h.svc.Counters(ctx.Request.Context(), ctx.Param("entityType"), ctx.Param("entityID"))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	h.hub.Serve(ctx, snap)
}
