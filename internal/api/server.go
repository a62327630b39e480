package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/fundhub/campaign-api/docs"
	v1 "github.com/fundhub/campaign-api/internal/api/handler/v1"
	"github.com/fundhub/campaign-api/internal/api/middleware"
	"github.com/fundhub/campaign-api/internal/config"
	"github.com/fundhub/campaign-api/internal/metrics"
	"github.com/fundhub/campaign-api/internal/repository"
	"github.com/fundhub/campaign-api/internal/repository/dao"
	"github.com/fundhub/campaign-api/internal/service"
)

// Stores is the persistence the server is built on, one DAO per table group.
type Stores struct {
	Users          repository.UserDAO
	Campaigns      repository.CampaignDAO
	Participations repository.ParticipationDAO
	Submissions    repository.SubmissionDAO
	Engagement     repository.EngagementDAO
}

func GormStores(db *gorm.DB) Stores {
	return Stores{
		Users:          dao.NewUserDAO(db),
		Campaigns:      dao.NewCampaignDAO(db),
		Participations: dao.NewParticipationDAO(db),
		Submissions:    dao.NewSubmissionDAO(db),
		Engagement:     dao.NewEngagementDAO(db),
	}
}

type Server struct {
	Config  *config.AppConfig
	Router  *gin.Engine
	Metrics *metrics.Metrics
	Hub     *v1.LiveHub
}

type handlers struct {
	participation *v1.ParticipationHandler
	submission    *v1.SubmissionHandler
	grading       *v1.GradingHandler
	engagement    *v1.EngagementHandler
}

// NewServer wires the handlers on top of stores. The caller runs s.Hub.
func NewServer(conf *config.AppConfig, stores Stores, m *metrics.Metrics) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config:  conf,
		Router:  engine,
		Metrics: m,
		Hub:     v1.NewLiveHub(conf.API.AllowedCORSDomains, m),
	}

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers(stores))

	return s
}

func (s *Server) initHandlers(stores Stores) handlers {
	userRepo := repository.NewUserRepository(stores.Users)
	campaignRepo := repository.NewCampaignRepository(stores.Campaigns)
	participationRepo := repository.NewParticipationRepository(stores.Participations)
	submissionRepo := repository.NewSubmissionRepository(stores.Submissions)
	engagementRepo := repository.NewEngagementRepository(stores.Engagement)

	policy := service.Policy{}
	uSvc := service.NewUserService(userRepo)

	return handlers{
		participation: v1.NewParticipationHandler(
			service.NewParticipationService(participationRepo, campaignRepo, policy, service.SystemClock), uSvc),
		submission: v1.NewSubmissionHandler(
			service.NewSubmissionService(submissionRepo, participationRepo, campaignRepo, policy, service.SystemClock), uSvc),
		grading: v1.NewGradingHandler(
			service.NewGradingService(submissionRepo, campaignRepo, policy, service.SystemClock), uSvc),
		engagement: v1.NewEngagementHandler(
			service.NewEngagementService(engagementRepo, s.Hub, s.Metrics, service.SystemClock), uSvc, s.Hub),
	}
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.RequestLogger())
	if s.Metrics != nil {
		s.Router.Use(middleware.Metrics(s.Metrics))
	}
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	auth := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	authed := s.Router.Group(basePath, auth.VerifyJWT())
	{
		authed.POST("/campaigns/:campaignID/participations", h.participation.HandleApply)
		authed.GET("/campaigns/:campaignID/participations", h.participation.HandleListParticipations)
		authed.GET("/participations/:participationID", h.participation.HandleGetParticipation)
		authed.PATCH("/participations/:participationID/review", h.participation.HandleReview)

		authed.POST("/campaigns/:campaignID/submissions", h.submission.HandleSubmit)
		authed.GET("/submissions/:submissionID", h.submission.HandleGetSubmission)
		authed.POST("/submissions/:submissionID/review", h.grading.HandleBeginReview)
		authed.PATCH("/submissions/:submissionID/grade", h.grading.HandleGrade)

		authed.POST("/engagement/:entityType/:entityID/like", h.engagement.HandleToggleLike)
	}

	optional := s.Router.Group(basePath, auth.OptionalJWT())
	{
		optional.GET("/engagement/:entityType/:entityID/like", h.engagement.HandleGetLikeStatus)
		optional.POST("/engagement/:entityType/:entityID/share", h.engagement.HandleTrackShare)
	}

	public := s.Router.Group(basePath)
	{
		public.GET("/campaigns/:campaignID/leaderboard", h.grading.HandleLeaderboard)
		public.POST("/engagement/:entityType/:entityID/view", h.engagement.HandleTrackView)
		public.GET("/engagement/:entityType/:entityID/live", h.engagement.HandleLive)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	if s.Metrics != nil {
		s.Router.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	}

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Campaign participation API"
	docs.SwaggerInfo.Description = "Participation, submissions, grading and engagement counters of campaigns."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
