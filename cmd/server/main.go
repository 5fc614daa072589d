package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	analyticsapp "github.com/realty/backend/internal/application/analytics"
	auditapp "github.com/realty/backend/internal/application/audit"
	contractapp "github.com/realty/backend/internal/application/contract"
	identityapp "github.com/realty/backend/internal/application/identity"
	lendingapp "github.com/realty/backend/internal/application/lending"
	listingapp "github.com/realty/backend/internal/application/listing"
	orgapp "github.com/realty/backend/internal/application/org"
	supportapp "github.com/realty/backend/internal/application/support"
	"github.com/realty/backend/internal/infrastructure/auth"
	"github.com/realty/backend/internal/infrastructure/config"
	"github.com/realty/backend/internal/infrastructure/crm"
	"github.com/realty/backend/internal/infrastructure/logger"
	"github.com/realty/backend/internal/infrastructure/persistence"
	"github.com/realty/backend/internal/infrastructure/scheduler"
	"github.com/realty/backend/internal/infrastructure/storage"
	"github.com/realty/backend/internal/interfaces/http/handler"
	"github.com/realty/backend/internal/interfaces/http/middleware"
	"github.com/realty/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting realty backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Token blacklist backed by Redis; fall back to process-local
	// storage when Redis is unreachable (single-instance deployments)
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		log.Info("Redis token blacklist connected")
	}

	// CRM GraphQL client for the support desk
	crmClient, err := crm.NewClient(&cfg.CRM, log)
	if err != nil {
		log.Fatal("Failed to configure CRM client", zap.Error(err))
	}

	// Blob store shared by contract documents and listing photos
	documents, err := storage.NewDocumentStore(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to configure document store", zap.Error(err))
	}
	log.Info("Document store configured", zap.String("driver", cfg.Storage.Driver))

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	propertyRepo := persistence.NewGormPropertyRepository(db.DB)
	offerRepo := persistence.NewGormOfferRepository(db.DB)
	loanRepo := persistence.NewGormLoanRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	creditEventRepo := persistence.NewGormCreditEventRepository(db.DB)
	creditScoreRepo := persistence.NewGormCreditScoreRepository(db.DB)
	saleContractRepo := persistence.NewGormSaleContractRepository(db.DB)
	rentalContractRepo := persistence.NewGormRentalContractRepository(db.DB)
	branchRepo := persistence.NewGormBranchRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	payrollRepo := persistence.NewGormPayrollRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	analyticsReader := persistence.NewGormAnalyticsReader(db.DB, crmClient, log)

	// Audit trail recorder shared by every mutating service
	recorder := auditapp.NewRecorder(auditRepo, log)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	clerkVerifier, err := auth.NewClerkVerifier(cfg.Clerk)
	if err != nil {
		log.Fatal("Failed to load Clerk public key", zap.Error(err))
	}
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, clerkVerifier, log)
	userService := identityapp.NewUserService(userRepo, log)
	propertyService := listingapp.NewPropertyService(propertyRepo, documents, recorder, log)
	offerService := listingapp.NewOfferService(offerRepo, propertyRepo, recorder, log)
	loanService := lendingapp.NewLoanService(loanRepo, paymentRepo, creditEventRepo, recorder, log)
	creditService := lendingapp.NewCreditService(loanRepo, creditEventRepo, creditScoreRepo, recorder, log)
	saleContractService := contractapp.NewSaleContractService(saleContractRepo, propertyRepo, offerRepo, documents, recorder, log)
	rentalContractService := contractapp.NewRentalContractService(rentalContractRepo, propertyRepo, documents, recorder, log)
	branchService := orgapp.NewBranchService(branchRepo, recorder, log)
	employeeService := orgapp.NewEmployeeService(employeeRepo, branchRepo, recorder, log)
	payrollService := orgapp.NewPayrollService(payrollRepo, employeeRepo, recorder, log)
	supportService := supportapp.NewService(crmClient, recorder, log)
	analyticsService := analyticsapp.NewService(analyticsReader, log)
	auditService := auditapp.NewService(auditRepo, log)

	// Start the overdue payment sweeper
	sweeper := scheduler.NewOverdueSweeper(scheduler.Config{
		Enabled:  cfg.Scheduler.Enabled,
		Interval: cfg.Scheduler.Interval,
	}, loanService, log)
	if cfg.Scheduler.Enabled {
		if err := sweeper.Start(context.Background()); err != nil {
			log.Fatal("Failed to start overdue payment sweeper", zap.Error(err))
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer stopCancel()
			if err := sweeper.Stop(stopCtx); err != nil {
				log.Error("Failed to stop overdue payment sweeper", zap.Error(err))
			}
		}()
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	propertyHandler := handler.NewPropertyHandler(propertyService)
	offerHandler := handler.NewOfferHandler(offerService)
	loanHandler := handler.NewLoanHandler(loanService)
	creditHandler := handler.NewCreditHandler(creditService)
	saleContractHandler := handler.NewSaleContractHandler(saleContractService)
	rentalContractHandler := handler.NewRentalContractHandler(rentalContractService)
	branchHandler := handler.NewBranchHandler(branchService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	payrollHandler := handler.NewPayrollHandler(payrollService)
	supportHandler := handler.NewSupportHandler(supportService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	auditHandler := handler.NewAuditHandler(auditService)
	systemHandler := handler.NewSystemHandler(db, log)

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.RequestLogger(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoints (outside API versioning)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ping", systemHandler.Ping)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes.
	// Registration, login and refresh are the only public endpoints.
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/sso",
			"/api/v1/auth/refresh",
		},
		Logger: log,
	}))

	// Auth routes. The public ones are exempted above; the rest only
	// need a valid token.
	authRoutes := router.NewDomainGroup("/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/sso", authHandler.SSOLogin)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.POST("/logout-all", authHandler.LogoutAll)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// User administration
	userRoutes := router.NewDomainGroup("/users")
	userRoutes.Use(middleware.RequireRole("ceo", "manager", "hr"))
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.GetByID)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.PUT("/:id/role", userHandler.AssignRole)
	userRoutes.PUT("/:id/branch", userHandler.AssignBranch)
	userRoutes.POST("/:id/activate", userHandler.Activate)
	userRoutes.POST("/:id/deactivate", userHandler.Deactivate)
	userRoutes.POST("/:id/lock", userHandler.Lock)
	userRoutes.DELETE("/:id", middleware.RequireRole("ceo"), userHandler.Delete)

	// Property listings. Browsing is open to every authenticated user;
	// mutations belong to the sales side.
	propertyRoutes := router.NewDomainGroup("/properties")
	propertyRoutes.GET("", propertyHandler.List)
	propertyRoutes.GET("/:id", propertyHandler.GetByID)
	sales := middleware.RequireRole("ceo", "manager", "supervisor", "agent")
	propertyRoutes.POST("", sales, propertyHandler.Create)
	propertyRoutes.PUT("/:id", sales, propertyHandler.Update)
	propertyRoutes.POST("/:id/publish", sales, propertyHandler.Publish)
	propertyRoutes.POST("/:id/withdraw", sales, propertyHandler.Withdraw)
	propertyRoutes.POST("/:id/relist", sales, propertyHandler.ReturnToMarket)
	propertyRoutes.PUT("/:id/photos", sales, propertyHandler.SetPhotos)
	propertyRoutes.POST("/:id/photos", sales, propertyHandler.UploadPhoto)
	propertyRoutes.GET("/:id/photos", propertyHandler.PhotoURLs)
	propertyRoutes.DELETE("/:id", sales, propertyHandler.Delete)
	propertyRoutes.GET("/:id/offers", middleware.RequireStaff(), offerHandler.ListByProperty)

	// Purchase offers. Clients place and withdraw; the sales side decides.
	offerRoutes := router.NewDomainGroup("/offers")
	offerRoutes.POST("", middleware.RequireRole("client"), offerHandler.Create)
	offerRoutes.GET("/mine", offerHandler.ListMine)
	offerRoutes.GET("/:id", offerHandler.GetByID)
	offerRoutes.POST("/:id/accept", sales, offerHandler.Accept)
	offerRoutes.POST("/:id/reject", sales, offerHandler.Reject)
	offerRoutes.POST("/:id/withdraw", offerHandler.Withdraw)

	// Loan applications and servicing
	underwriting := middleware.RequireRole("ceo", "manager", "supervisor")
	loanRoutes := router.NewDomainGroup("/loans")
	loanRoutes.POST("", loanHandler.Create)
	loanRoutes.GET("", underwriting, loanHandler.List)
	loanRoutes.GET("/mine", loanHandler.ListMine)
	loanRoutes.GET("/:id", loanHandler.GetByID)
	loanRoutes.POST("/:id/submit", loanHandler.Submit)
	loanRoutes.POST("/:id/review", underwriting, loanHandler.StartReview)
	loanRoutes.POST("/:id/approve", underwriting, loanHandler.Approve)
	loanRoutes.POST("/:id/reject", underwriting, loanHandler.Reject)
	loanRoutes.POST("/:id/cancel", loanHandler.Cancel)
	loanRoutes.POST("/:id/disburse", underwriting, loanHandler.Disburse)
	loanRoutes.GET("/:id/payments", loanHandler.ListPayments)
	loanRoutes.POST("/payments/:payment_id/settle", underwriting, loanHandler.SettlePayment)
	loanRoutes.POST("/payments/:payment_id/miss", underwriting, loanHandler.MarkPaymentMissed)

	// Credit history and scoring
	creditRoutes := router.NewDomainGroup("/credit")
	creditRoutes.GET("/my-score", middleware.RequireRole("client"), creditHandler.MyScore)
	creditRoutes.POST("/events", underwriting, creditHandler.RecordEvent)
	creditRoutes.GET("/:user_id/history", underwriting, creditHandler.History)
	creditRoutes.POST("/:user_id/compute", underwriting, creditHandler.Compute)
	creditRoutes.GET("/:user_id/score", underwriting, creditHandler.Latest)

	// Sale contracts
	saleContractRoutes := router.NewDomainGroup("/contracts/sale")
	saleContractRoutes.POST("", sales, saleContractHandler.Create)
	saleContractRoutes.GET("", middleware.RequireStaff(), saleContractHandler.List)
	saleContractRoutes.GET("/mine", saleContractHandler.ListMine)
	saleContractRoutes.GET("/:id", saleContractHandler.GetByID)
	saleContractRoutes.POST("/:id/sign", saleContractHandler.Sign)
	saleContractRoutes.POST("/:id/cancel", sales, saleContractHandler.Cancel)
	saleContractRoutes.POST("/:id/document", sales, saleContractHandler.UploadDocument)
	saleContractRoutes.GET("/:id/document", saleContractHandler.DocumentURL)

	// Rental contracts
	rentalContractRoutes := router.NewDomainGroup("/contracts/rental")
	rentalContractRoutes.POST("", sales, rentalContractHandler.Create)
	rentalContractRoutes.GET("", middleware.RequireStaff(), rentalContractHandler.List)
	rentalContractRoutes.GET("/mine", rentalContractHandler.ListMine)
	rentalContractRoutes.GET("/:id", rentalContractHandler.GetByID)
	rentalContractRoutes.POST("/:id/sign", rentalContractHandler.Sign)
	rentalContractRoutes.POST("/:id/terminate", sales, rentalContractHandler.Terminate)
	rentalContractRoutes.POST("/:id/expire", sales, rentalContractHandler.MarkExpired)
	rentalContractRoutes.POST("/:id/document", sales, rentalContractHandler.UploadDocument)
	rentalContractRoutes.GET("/:id/document", rentalContractHandler.DocumentURL)

	// Branch offices
	branchRoutes := router.NewDomainGroup("/branches")
	branchRoutes.Use(middleware.RequireStaff())
	branchRoutes.GET("", branchHandler.List)
	branchRoutes.GET("/:id", branchHandler.GetByID)
	management := middleware.RequireRole(middleware.Management...)
	branchRoutes.POST("", management, branchHandler.Create)
	branchRoutes.PUT("/:id", management, branchHandler.Update)
	branchRoutes.POST("/:id/enable", management, branchHandler.Enable)
	branchRoutes.POST("/:id/disable", management, branchHandler.Disable)
	branchRoutes.POST("/:id/default", middleware.RequireRole("ceo"), branchHandler.SetDefault)

	// Employee records
	personnel := middleware.RequireRole("ceo", "manager", "hr")
	employeeRoutes := router.NewDomainGroup("/employees")
	employeeRoutes.GET("/me", middleware.RequireStaff(), employeeHandler.Me)
	employeeRoutes.POST("", personnel, employeeHandler.Hire)
	employeeRoutes.GET("", personnel, employeeHandler.List)
	employeeRoutes.GET("/:id", personnel, employeeHandler.GetByID)
	employeeRoutes.POST("/:id/promote", personnel, employeeHandler.Promote)
	employeeRoutes.POST("/:id/transfer", personnel, employeeHandler.Transfer)
	employeeRoutes.POST("/:id/leave/start", personnel, employeeHandler.StartLeave)
	employeeRoutes.POST("/:id/leave/end", personnel, employeeHandler.EndLeave)
	employeeRoutes.POST("/:id/terminate", personnel, employeeHandler.Terminate)

	// Payroll runs
	payrollRoutes := router.NewDomainGroup("/payroll")
	payrollRoutes.Use(middleware.RequireRole("ceo", "hr"))
	payrollRoutes.POST("/generate", payrollHandler.Generate)
	payrollRoutes.GET("/:id", payrollHandler.GetByID)
	payrollRoutes.GET("/period/:period", payrollHandler.ListByPeriod)
	payrollRoutes.GET("/employee/:employee_id", payrollHandler.ListByEmployee)
	payrollRoutes.PUT("/:id", payrollHandler.Adjust)
	payrollRoutes.POST("/:id/approve", payrollHandler.Approve)
	payrollRoutes.POST("/:id/pay", payrollHandler.MarkPaid)

	// Support desk, backed by the CRM engine. Feedback submission is
	// the one client-facing operation.
	desk := middleware.RequireRole("ceo", "manager", "supervisor", "support")
	supportRoutes := router.NewDomainGroup("/support")
	supportRoutes.POST("/customers", desk, supportHandler.CreateCustomer)
	supportRoutes.GET("/customers", desk, supportHandler.ListCustomers)
	supportRoutes.GET("/customers/:id", desk, supportHandler.GetCustomer)
	supportRoutes.PUT("/customers/:id", desk, supportHandler.UpdateCustomer)
	supportRoutes.DELETE("/customers/:id", desk, supportHandler.DeleteCustomer)
	supportRoutes.GET("/customers/:id/tickets", desk, supportHandler.ListTicketsByCustomer)
	supportRoutes.POST("/tickets", desk, supportHandler.OpenTicket)
	supportRoutes.GET("/tickets", desk, supportHandler.ListTickets)
	supportRoutes.GET("/tickets/:id", desk, supportHandler.GetTicket)
	supportRoutes.PUT("/tickets/:id/status", desk, supportHandler.ChangeTicketStatus)
	supportRoutes.PUT("/tickets/:id/assign", desk, supportHandler.AssignTicket)
	supportRoutes.POST("/feedback", supportHandler.SubmitFeedback)
	supportRoutes.GET("/feedback", desk, supportHandler.ListFeedback)
	supportRoutes.GET("/feedback/summary", desk, supportHandler.RatingSummary)

	// Reports and dashboards, guards declared next to the handler
	analyticsRoutes := analyticsHandler.Routes()

	// Audit trail, read-only
	auditRoutes := router.NewDomainGroup("/audit")
	auditRoutes.Use(middleware.RequireRole("ceo", "supervisor"))
	auditRoutes.GET("/entries", auditHandler.List)
	auditRoutes.GET("/entities/:type/:id", auditHandler.ListByEntity)
	auditRoutes.GET("/actors/:id", auditHandler.ListByActor)

	r.Register(
		authRoutes,
		userRoutes,
		propertyRoutes,
		offerRoutes,
		loanRoutes,
		creditRoutes,
		saleContractRoutes,
		rentalContractRoutes,
		branchRoutes,
		employeeRoutes,
		payrollRoutes,
		supportRoutes,
		analyticsRoutes,
		auditRoutes,
	)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
