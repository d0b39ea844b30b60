package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/boardy-hostel/boardy-api/docs"
	v1 "github.com/boardy-hostel/boardy-api/internal/api/handler/v1"
	"github.com/boardy-hostel/boardy-api/internal/api/middleware"
	"github.com/boardy-hostel/boardy-api/internal/config"
	"github.com/boardy-hostel/boardy-api/internal/repository"
	"github.com/boardy-hostel/boardy-api/internal/repository/dao"
	"github.com/boardy-hostel/boardy-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
	// Hub must be started with Run before clients connect.
	Hub *v1.Hub
}

type handlers struct {
	auth         *v1.AuthHandler
	user         *v1.UserHandler
	game         *v1.GameHandler
	rental       *v1.RentalHandler
	event        *v1.EventHandler
	notification *v1.NotificationHandler
	version      *v1.VersionHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
		Hub:    v1.NewHub(conf.API.AllowedCORSDomains),
	}

	s.MountMiddlewares()

	userSvc, h := s.initHandlers(db)
	s.MountHandlers(h, userSvc)

	return s
}

func (s *Server) initHandlers(db *gorm.DB) (*service.UserService, handlers) {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	gameRepo := repository.NewGameRepository(dao.NewGameDAO(db))
	rentalRepo := repository.NewRentalRepository(dao.NewRentalDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	notificationRepo := repository.NewNotificationRepository(dao.NewNotificationDAO(db))

	notificationSvc := service.NewNotificationService(notificationRepo, s.Hub)
	authSvc := service.NewAuthService(userRepo, s.Config.API.JWTSigningKey, s.Config.API.JWTTTL)
	userSvc := service.NewUserService(userRepo, notificationSvc)
	warningSvc := service.NewWarningService(notificationRepo, userRepo, notificationSvc)
	catalogSvc := service.NewCatalogService(gameRepo, notificationRepo, notificationSvc)
	rentalSvc := service.NewRentalService(rentalRepo, gameRepo, userRepo, notificationRepo, notificationSvc, s.Config.Rental.MaxDays)
	eventSvc := service.NewEventService(eventRepo, userRepo, notificationSvc)
	versionSvc := service.NewVersionService(s.Config.API.Environment)

	return userSvc, handlers{
		auth:         v1.NewAuthHandler(authSvc),
		user:         v1.NewUserHandler(userSvc, warningSvc),
		game:         v1.NewGameHandler(catalogSvc),
		rental:       v1.NewRentalHandler(rentalSvc, userSvc),
		event:        v1.NewEventHandler(eventSvc, userSvc),
		notification: v1.NewNotificationHandler(notificationSvc, s.Hub),
		version:      v1.NewVersionHandler(versionSvc),
	}
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.RequestLogger())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers, users middleware.UserFinder) {
	const basePath = "/api/v1"

	verifyJWT := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", h.auth.HandleSignup)
		public.POST("/auth/login", h.auth.HandleLogin)

		public.GET("/games", h.game.HandleListGames)
		public.GET("/games/featured", h.game.HandleFeaturedGames)
		public.GET("/games/:gameID", h.game.HandleGetGame)

		public.GET("/events", h.event.HandleListEvents)
		public.GET("/events/:eventID", h.event.HandleGetEvent)

		public.GET("/version", h.version.HandleGetVersion)
	}

	authed := s.Router.Group(basePath, verifyJWT)
	{
		authed.GET("/users/me", h.user.HandleGetMe)
		authed.GET("/users/me/stats", h.user.HandleGetMyStats)
		authed.GET("/users/me/warnings", h.user.HandleGetMyWarnings)
		authed.GET("/users/me/people", h.user.HandleGetMyPeople)

		authed.POST("/games/:gameID/watch", h.game.HandleWatchGame)

		authed.POST("/rentals", h.rental.HandleCreateRental)
		authed.GET("/rentals", h.rental.HandleListMyRentals)
		authed.GET("/rentals/:rentalID", h.rental.HandleGetRental)
		authed.POST("/rentals/:rentalID/payment", h.rental.HandleSubmitPayment)
		authed.POST("/rentals/:rentalID/return", h.rental.HandleRequestReturn)
		authed.POST("/rentals/:rentalID/cancel", h.rental.HandleCancelRental)
		authed.POST("/rentals/:rentalID/fine/pay", h.rental.HandlePayFine)

		authed.POST("/events/:eventID/register", h.event.HandleRegister)
		authed.GET("/registrations", h.event.HandleListMyRegistrations)
		authed.POST("/registrations/:registrationID/payment", h.event.HandleSubmitRegistrationPayment)
		authed.POST("/registrations/:registrationID/cancel", h.event.HandleCancelRegistration)

		authed.GET("/notifications", h.notification.HandleListNotifications)
		authed.POST("/notifications/:notificationID/read", h.notification.HandleMarkRead)
		authed.GET("/notifications/ws", h.notification.HandleWebSocket)
	}

	admin := s.Router.Group(basePath+"/admin", verifyJWT, middleware.RequireAdmin(users))
	{
		admin.POST("/games", h.game.HandleCreateGame)
		admin.PUT("/games/:gameID", h.game.HandleUpdateGame)
		admin.POST("/games/:gameID/status", h.game.HandleSetGameStatus)
		admin.DELETE("/games/:gameID", h.game.HandleDeleteGame)

		admin.GET("/rentals", h.rental.HandleListRentals)
		admin.POST("/rentals/:rentalID/approve", h.rental.HandleApproveRental)
		admin.POST("/rentals/:rentalID/reject", h.rental.HandleRejectRental)
		admin.POST("/rentals/:rentalID/pickup", h.rental.HandleConfirmPickup)
		admin.POST("/rentals/:rentalID/complete", h.rental.HandleCompleteReturn)

		admin.GET("/events", h.event.HandleListAllEvents)
		admin.POST("/events", h.event.HandleCreateEvent)
		admin.POST("/events/:eventID/publish", h.event.HandlePublishEvent)
		admin.POST("/events/:eventID/close", h.event.HandleCloseEvent)
		admin.POST("/events/:eventID/complete", h.event.HandleCompleteEvent)
		admin.POST("/events/:eventID/cancel", h.event.HandleCancelEvent)

		admin.GET("/registrations", h.event.HandleListRegistrations)
		admin.POST("/registrations/:registrationID/approve", h.event.HandleApproveRegistration)
		admin.POST("/registrations/:registrationID/reject", h.event.HandleRejectRegistration)

		admin.GET("/users", h.user.HandleListUsers)
		admin.POST("/users/:userID/verify", h.user.HandleVerifyUser)
		admin.POST("/users/:userID/warnings", h.user.HandleIssueWarning)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/api/version", h.version.HandleGetVersion)

	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Boardy API"
	docs.SwaggerInfo.Description = "Board game rentals and game nights for hostel residents."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
