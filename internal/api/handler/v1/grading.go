package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundhub/campaign-api/internal/api/handler/v1/request"
	"github.com/fundhub/campaign-api/internal/api/handler/v1/response"
	"github.com/fundhub/campaign-api/internal/domain"
)

type GradingService interface {
	Grade(ctx context.Context, caller domain.Caller, submissionID string, input domain.GradeInput) (domain.Submission, error)
	BeginReview(ctx context.Context, caller domain.Caller, submissionID string) (domain.Submission, error)
	Leaderboard(ctx context.Context, campaignID string) ([]domain.LeaderboardEntry, error)
}

type GradingHandler struct {
	svc  GradingService
	uSvc UserService
}

func NewGradingHandler(svc GradingService, uSvc UserService) *GradingHandler {
	return &GradingHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGrade godoc
// @Summary      Grade a submission
// @Description  Campaign creator or admin only. The status is mirrored onto the participation.
// @Tags         grading
// @Accept       json
// @Produce      json
// @Param        submissionID  path      string                true  "Submission ID"
// @Param        request       body      request.GradeRequest  true  "grade"
// @Success      200  {object}  domain.Submission
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /submissions/{submissionID}/grade [patch]
// @Security BearerAuth
func (h *GradingHandler) HandleGrade(ctx *gin.Context) {
	caller, respErr := getCallerFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrInvalidInput(err))
		return
	}

	submission, err := h.svc.Grade(ctx.Request.Context(), caller, ctx.Param("submissionID"), req.ToDomain())
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, submission)
}

// HandleBeginReview godoc
// @Summary      Move a submission under review
// @Tags         grading
// @Produce      json
// @Param        submissionID  path      string  true  "Submission ID"
// @Success      200  {object}  domain.Submission
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /submissions/{submissionID}/review [post]
// @Security BearerAuth
func (h *GradingHandler) HandleBeginReview(ctx *gin.Context) {
	caller, respErr := getCallerFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	submission, err := h.svc.BeginReview(ctx.Request.Context(), caller, ctx.Param("submissionID"))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, submission)
}

// HandleLeaderboard godoc
// @Summary      Ranked graded submissions of a campaign
// @Tags         grading
// @Produce      json
// @Param        campaignID  path      string  true  "Campaign ID"
// @Success      200  {array}   domain.LeaderboardEntry
// @Failure      404  {object}  response.Err
// @Router       /campaigns/{campaignID}/leaderboard [get]
func (h *GradingHandler) HandleLeaderboard(ctx *gin.Context) {
	entries, err := h.svc.Leaderboard(ctx.Request.Context(), ctx.Param("campaignID"))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, entries)
}
