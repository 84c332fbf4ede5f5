package server

import (
	"strings"
	"time"

	"college-library/internal/config"
	"college-library/internal/handler"
	"college-library/internal/middleware"
	"college-library/internal/repository"
	"college-library/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, meiliClient meilisearch.ServiceManager) *Server {
	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	extensionRepo := repository.NewExtensionRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	searchSvc := service.NewSearchService(meiliClient)

	authSvc := service.NewAuthService(userRepo, redisClient, cfg.JWTSecret, cfg.JWTTTL, cfg.LoginThrottle)
	authHandler := handler.NewAuthHandler(authSvc)

	bookSvc := service.NewBookService(bookRepo, loanRepo, userRepo, searchSvc)
	bookHandler := handler.NewBookHandler(bookSvc)

	loanSvc := service.NewLoanService(loanRepo, bookRepo, userRepo)
	loanHandler := handler.NewLoanHandler(loanSvc)

	extensionSvc := service.NewExtensionService(extensionRepo, loanRepo, userRepo)
	extensionHandler := handler.NewExtensionHandler(extensionSvc)

	noticeSvc := service.NewNoticeService(noticeRepo, userRepo)
	noticeHandler := handler.NewNoticeHandler(noticeSvc)

	memberSvc := service.NewMemberService(userRepo, loanRepo, sessionRepo)
	memberHandler := handler.NewMemberHandler(memberSvc)

	dashboardHandler := handler.NewDashboardHandler(bookSvc, loanSvc, noticeSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/student-login", authHandler.StudentLogin)
		auth.POST("/admin-login", authHandler.AdminLogin)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/books", bookHandler.AddBook)
			adminGroup.GET("/books/:id/details", bookHandler.BookDetails)
			adminGroup.DELETE("/books/:id", bookHandler.DeleteBook)
			adminGroup.PUT("/books/:id/availability", bookHandler.ToggleAvailability)

			adminGroup.GET("/loans/active", loanHandler.ActiveLoans)
			adminGroup.GET("/loans/overdue", loanHandler.OverdueLoans)
			adminGroup.POST("/loans/:id/extend", loanHandler.ExtendLoan)
			adminGroup.POST("/loans/:id/return", loanHandler.ReturnLoan)

			adminGroup.GET("/extension-requests", extensionHandler.AllExtensions)
			adminGroup.GET("/extension-requests/pending", extensionHandler.PendingExtensions)
			adminGroup.PUT("/extension-requests/:id", extensionHandler.DecideExtension)

			adminGroup.GET("/users", memberHandler.ListUsers)
			adminGroup.GET("/students", memberHandler.ListStudents)
			adminGroup.POST("/students", memberHandler.AddStudent)
			adminGroup.PUT("/students/:id", memberHandler.UpdateStudent)
			adminGroup.DELETE("/students/:id", memberHandler.DeleteStudent)
			adminGroup.GET("/students/:id/sessions", memberHandler.StudentSessions)
			adminGroup.GET("/admins", memberHandler.ListAdmins)
			adminGroup.POST("/admins", memberHandler.AddAdmin)
			adminGroup.DELETE("/admins/:id", memberHandler.DeleteAdmin)

			adminGroup.POST("/notices", noticeHandler.CreateNotice)
			adminGroup.POST("/notices/user/:id", noticeHandler.SendUserNotice)
			adminGroup.DELETE("/notices/:id", noticeHandler.DeleteNotice)

			adminGroup.POST("/sessions", memberHandler.RecordSession)
			adminGroup.GET("/activity", memberHandler.Activity)

			adminGroup.GET("/dashboard", dashboardHandler.AdminDashboard)
		}

		// Profile routes
		protected.GET("/profile", authHandler.Profile)
		protected.PUT("/profile", authHandler.UpdateProfile)

		// Catalog routes
		protected.GET("/books", bookHandler.ListBooks)
		protected.GET("/books/search", bookHandler.SearchBooks)
		protected.GET("/books/:id", bookHandler.GetBook)

		// Loan routes
		protected.POST("/books/:id/borrow", loanHandler.BorrowBook)
		protected.POST("/loans/:id/return", loanHandler.ReturnLoan)
		protected.POST("/loans/:id/extension-request", extensionHandler.RequestExtension)
		protected.GET("/loans/me", loanHandler.MyLoans)

		// Notice routes
		protected.GET("/notices", noticeHandler.MyNotices)

		protected.GET("/dashboard", dashboardHandler.StudentDashboard)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
