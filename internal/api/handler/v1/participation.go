package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundhub/campaign-api/internal/api/handler/v1/request"
	"github.com/fundhub/campaign-api/internal/api/handler/v1/response"
	"github.com/fundhub/campaign-api/internal/domain"
)

type ParticipationService interface {
	Apply(ctx context.Context, caller domain.Caller, campaignID string, application domain.Application) (domain.Participation, error)
	Review(ctx context.Context, caller domain.Caller, participationID string, decision domain.ReviewDecision) (domain.Participation, error)
	GetParticipation(ctx context.Context, caller domain.Caller, participationID string) (domain.Participation, error)
	ListParticipations(ctx context.Context, caller domain.Caller, campaignID string, status domain.ParticipationStatus) ([]domain.Participation, error)
}

type ParticipationHandler struct {
	svc  ParticipationService
	uSvc UserService
}

func NewParticipationHandler(svc ParticipationService, uSvc UserService) *ParticipationHandler {
	return &ParticipationHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleApply godoc
// @Summary      Apply to a campaign
// @Description  Verified students apply to an active campaign with a funding trail.
// @Tags         participations
// @Accept       json
// @Produce      json
// @Param        campaignID  path      string                true  "Campaign ID"
// @Param        request     body      request.ApplyRequest  true  "application"
// @Success      201  {object}  domain.Participation
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns/{campaignID}/participations [post]
// @Security BearerAuth
func (h *ParticipationHandler) HandleApply(ctx *gin.Context) {
	caller, respErr := getCallerFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ApplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrInvalidInput(err))
		return
	}

	participation, err := h.svc.Apply(ctx.Request.Context(), caller, ctx.Param("campaignID"), req.ToDomain())
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, participation)
}

// HandleListParticipations godoc
// @Summary      List applications of a campaign
// @Tags         participations
// @Produce      json
// @Param        campaignID  path      string  true   "Campaign ID"
// @Param        status      query     string  false  "pending, approved or rejected"
// @Success      200  {array}   domain.Participation
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /campaigns/{campaignID}/participations [get]
// @Security BearerAuth
func (h *ParticipationHandler) HandleListParticipations(ctx *gin.Context) {
	caller, respErr := getCallerFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	status := domain.ParticipationStatus(ctx.Query("status"))
	participations, err := h.svc.ListParticipations(ctx.Request.Context(), caller, ctx.Param("campaignID"), status)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, participations)
}

// HandleGetParticipation godoc
// @Summary      Get one application
// @Tags         participations
// @Produce      json
// @Param        participationID  path      string  true  "Participation ID"
// @Success      200  {object}  domain.Participation
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /participations/{participationID} [get]
// @Security BearerAuth
func (h *ParticipationHandler) HandleGetParticipation(ctx *gin.Context) {
	caller, respErr := getCallerFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	participation, err := h.svc.GetParticipation(ctx.Request.Context(), caller, ctx.Param("participationID"))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, participation)
}

// HandleReview godoc
// @Summary      Approve or reject an application
// @Description  Campaign creator or admin only. An approval cannot be revoked once work was submitted.
// @Tags         participations
// @Accept       json
// @Produce      json
// @Param        participationID  path      string                 true  "Participation ID"
// @Param        request          body      request.ReviewRequest  true  "decision"
// @Success      200  {object}  domain.Participation
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /participations/{participationID}/review [patch]
// @Security BearerAuth
func (h *ParticipationHandler) HandleReview(ctx *gin.Context) {
	caller, respErr := getCallerFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrInvalidInput(err))
		return
	}

	participation, err := h.svc.Review(ctx.Request.Context(), caller, ctx.Param("participationID"), req.ToDomain())
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, participation)
}
