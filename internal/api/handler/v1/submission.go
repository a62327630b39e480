package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundhub/campaign-api/internal/api/handler/v1/request"
	"github.com/fundhub/campaign-api/internal/api/handler/v1/response"
	"github.com/fundhub/campaign-api/internal/domain"
)

type SubmissionService interface {
	Submit(ctx context.Context, caller domain.Caller, campaignID string, payload domain.SubmissionPayload) (domain.Submission, error)
	GetSubmission(ctx context.Context, caller domain.Caller, submissionID string) (domain.Submission, error)
}

type SubmissionHandler struct {
	svc  SubmissionService
	uSvc UserService
}

func NewSubmissionHandler(svc SubmissionService, uSvc UserService) *SubmissionHandler {
	return &SubmissionHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleSubmit godoc
// @Summary      Submit work to a campaign
// @Description  One submission per approved participation, inside the submission window (edges inclusive).
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        campaignID  path      string                 true  "Campaign ID"
// @Param        request     body      request.SubmitRequest  true  "submission"
// @Success      201  {object}  domain.Submission
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /campaigns/{campaignID}/submissions [post]
// @Security BearerAuth
func (h *SubmissionHandler) HandleSubmit(ctx *gin.Context) {
	caller, respErr := getCallerFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrInvalidInput(err))
		return
	}

	submission, err := h.svc.Submit(ctx.Request.Context(), caller, ctx.Param("campaignID"), req.ToDomain())
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, submission)
}

// HandleGetSubmission godoc
// @Summary      Get one submission
// @Tags         submissions
// @Produce      json
// @Param        submissionID  path      string  true  "Submission ID"
// @Success      200  {object}  domain.Submission
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /submissions/{submissionID} [get]
// @Security BearerAuth
func (h *SubmissionHandler) HandleGetSubmission(ctx *gin.Context) {
	caller, respErr := getCallerFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	submission, err := h.svc.GetSubmission(ctx.Request.Context(), caller, ctx.Param("submissionID"))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, submission)
}
