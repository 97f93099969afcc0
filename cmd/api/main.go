package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/config"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/onboarding-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/ratelimit"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/revocation"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/repository/postgresql"
	authService "github.com/cmlabs-hris/onboarding-backend-go/internal/service/auth"
	broadcastService "github.com/cmlabs-hris/onboarding-backend-go/internal/service/broadcast"
	contactService "github.com/cmlabs-hris/onboarding-backend-go/internal/service/contact"
	documentService "github.com/cmlabs-hris/onboarding-backend-go/internal/service/document"
	employeeService "github.com/cmlabs-hris/onboarding-backend-go/internal/service/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/file"
	invitationService "github.com/cmlabs-hris/onboarding-backend-go/internal/service/invitation"
	leaveService "github.com/cmlabs-hris/onboarding-backend-go/internal/service/leave"
	meetingService "github.com/cmlabs-hris/onboarding-backend-go/internal/service/meeting"
	mentorshipService "github.com/cmlabs-hris/onboarding-backend-go/internal/service/mentorship"
	messageService "github.com/cmlabs-hris/onboarding-backend-go/internal/service/message"
	notificationService "github.com/cmlabs-hris/onboarding-backend-go/internal/service/notification"
	onboardingService "github.com/cmlabs-hris/onboarding-backend-go/internal/service/onboarding"
	taskService "github.com/cmlabs-hris/onboarding-backend-go/internal/service/task"
	welcomeService "github.com/cmlabs-hris/onboarding-backend-go/internal/service/welcome"
	"github.com/go-chi/httplog/v3"
	"github.com/redis/go-redis/v9"
)

const (
	shutdownTimeout      = 15 * time.Second
	limiterPruneInterval = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logger := newLogger(cfg.App)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	revoked, closeRevocation := newRevocationStore(ctx, cfg.Redis)
	defer closeRevocation()

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage: ", err)
	}

	mailer, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}

	jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		log.Fatal("Failed to initialize JWT service: ", err)
	}

	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	steps, err := fixtures.OnboardingSteps()
	if err != nil {
		log.Fatal("Failed to load onboarding steps: ", err)
	}

	clk := clock.New()
	tx := postgresql.NewTxManager(db)
	hub := sse.NewHub()
	defer hub.Close()

	accountRepo := postgresql.NewAccountRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	invitationRepo := postgresql.NewInvitationRepository(db)
	stepRepo := postgresql.NewStepRepository(db)
	documentRepo := postgresql.NewDocumentRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	meetingRepo := postgresql.NewMeetingRepository(db)
	mentorshipRepo := postgresql.NewMentorshipRepository(db)
	broadcastRepo := postgresql.NewBroadcastRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	messageRepo := postgresql.NewMessageRepository(db)
	videoRepo := postgresql.NewVideoRepository(db)

	fileService := file.NewFileService(fileStorage)
	notificationSvc := notificationService.NewNotificationService(notificationRepo, hub, clk)
	onboardingSvc := onboardingService.NewOnboardingService(tx, stepRepo, employeeRepo, notificationSvc, clk, steps)
	invitationSvc := invitationService.NewInvitationService(invitationRepo, accountRepo, mailer, cfg.InvitationLink, cfg.Invitation.Expiry, clk)
	authSvc := authService.NewAuthService(tx, accountRepo, employeeRepo, invitationRepo, onboardingSvc, jwtService, revoked, mailer, fileStorage, clk)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, accountRepo, stepRepo, fileService)
	documentSvc := documentService.NewDocumentService(documentRepo, employeeRepo, fileService, notificationSvc, clk)
	taskSvc := taskService.NewTaskService(tx, taskRepo, employeeRepo, fileService, notificationSvc, clk)
	leaveSvc := leaveService.NewLeaveService(tx, leaveRepo, employeeRepo, fileService, notificationSvc, clk)
	meetingSvc := meetingService.NewMeetingService(tx, meetingRepo, employeeRepo, notificationSvc, clk)
	mentorshipSvc := mentorshipService.NewMentorshipService(tx, mentorshipRepo, employeeRepo, notificationSvc, clk)
	broadcastSvc := broadcastService.NewBroadcastService(tx, broadcastRepo, employeeRepo, fileService, notificationSvc, clk)
	messageSvc := messageService.NewMessageService(messageRepo, employeeRepo, notificationSvc, clk)
	videoSvc := welcomeService.NewVideoService(tx, videoRepo, fileService, clk)
	contactSvc := contactService.NewContactService(mailer, cfg.Contact.Recipient)

	authLimiter := ratelimit.NewKeyedLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	contactLimiter := ratelimit.NewKeyedLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	scheduler := cron.NewScheduler(ctx)
	cron.NewInvitationJobs(invitationSvc).RegisterJobs(scheduler)
	scheduler.AddJob("prune_rate_limiters", limiterPruneInterval, func(ctx context.Context) error {
		pruned := authLimiter.Prune() + contactLimiter.Prune()
		slog.Debug("pruned idle rate limiters", "count", pruned)
		return nil
	})
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:         logger,
		AllowedOrigins: allowedOrigins(cfg.App),
		UploadsDir:     cfg.Storage.BasePath,
		AuthLimiter:    authLimiter,
		ContactLimiter: contactLimiter,
	}, jwtService, revoked, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authSvc, googleService, cfg.App.FrontendURL),
		Invitation:   appHTTP.NewInvitationHandler(invitationSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Onboarding:   appHTTP.NewOnboardingHandler(onboardingSvc),
		Document:     appHTTP.NewDocumentHandler(documentSvc),
		Task:         appHTTP.NewTaskHandler(taskSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc),
		Meeting:      appHTTP.NewMeetingHandler(meetingSvc),
		Mentorship:   appHTTP.NewMentorshipHandler(mentorshipSvc),
		Broadcast:    appHTTP.NewBroadcastHandler(broadcastSvc),
		Notification: appHTTP.NewNotificationHandler(notificationSvc, jwtService),
		Message:      appHTTP.NewMessageHandler(messageSvc),
		WelcomeVideo: appHTTP.NewWelcomeVideoHandler(videoSvc),
		Contact:      appHTTP.NewContactHandler(contactSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// Open SSE streams end once the hub closes their channels.
	hub.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func newLogger(app config.AppConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(app.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "onboarding-backend"),
		slog.String("env", app.Env),
	)
}

func allowedOrigins(app config.AppConfig) []string {
	if len(app.CORSAllowedOrigins) > 0 {
		return app.CORSAllowedOrigins
	}
	return []string{app.FrontendURL}
}

// newRevocationStore uses Redis when configured and falls back to process memory.
func newRevocationStore(ctx context.Context, cfg config.RedisConfig) (revocation.Store, func()) {
	if cfg.Addr == "" {
		slog.Warn("REDIS_ADDR not set, revoked tokens are kept in memory")
		return revocation.NewMemoryStore(), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Fatal("Failed to connect to redis: ", err)
	}
	return revocation.NewRedisStore(rdb), func() { rdb.Close() }
}
