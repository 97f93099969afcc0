package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/ratelimit"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/revocation"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth         AuthHandler
	Invitation   InvitationHandler
	Employee     EmployeeHandler
	Onboarding   OnboardingHandler
	Document     DocumentHandler
	Task         TaskHandler
	Leave        LeaveHandler
	Meeting      MeetingHandler
	Mentorship   MentorshipHandler
	Broadcast    BroadcastHandler
	Notification NotificationHandler
	Message      MessageHandler
	WelcomeVideo WelcomeVideoHandler
	Contact      ContactHandler
}

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// UploadsDir is served under /uploads when non-empty.
	UploadsDir string
	// AuthLimiter guards login and register, ContactLimiter the contact form.
	AuthLimiter    *ratelimit.KeyedLimiter
	ContactLimiter *ratelimit.KeyedLimiter
}

func NewRouter(cfg RouterConfig, jwtService jwt.Service, revoked revocation.Store, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	authLimit := rateLimited(cfg.AuthLimiter)
	contactLimit := rateLimited(cfg.ContactLimiter)
	adminOnly := middleware.RequireRole(user.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimit).Post("/register", h.Auth.Register)
			r.With(authLimit).Post("/login", h.Auth.Login)
			r.Get("/login/google", h.Auth.LoginWithGoogle)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)
		})
		r.Get("/invitations/validate/{token}", h.Invitation.Validate)
		r.With(contactLimit).Post("/contact", h.Contact.Submit)
		// Authenticated by its own short-lived token in the query string.
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(revoked))

			r.Post("/auth/logout", h.Auth.Logout)
			r.Get("/auth/me", h.Auth.Me)

			r.Route("/invitations", func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/", h.Invitation.Issue)
				r.Get("/", h.Invitation.List)
				r.Delete("/{id}", h.Invitation.Revoke)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/me", h.Employee.GetMe)
				r.Put("/me", h.Employee.UpdateMe)
				r.Put("/me/avatar", h.Employee.UploadAvatar)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Get("/", h.Employee.ListEmployees)
					r.Get("/{id}", h.Employee.GetEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Put("/{id}/deactivate", h.Employee.DeactivateEmployee)
				})
			})

			r.Route("/onboarding", func(r chi.Router) {
				r.Get("/steps", h.Onboarding.ListSteps)
				r.Put("/steps/{id}/complete", h.Onboarding.CompleteStep)
				r.Get("/status", h.Onboarding.GetStatus)
				r.With(adminOnly).Get("/employees/{id}/status", h.Onboarding.GetEmployeeStatus)
			})

			r.Route("/documents", func(r chi.Router) {
				r.Post("/", h.Document.Upload)
				r.Get("/my", h.Document.ListMine)
				r.Get("/{id}", h.Document.Get)
				r.Delete("/{id}", h.Document.Delete)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Get("/", h.Document.List)
					r.Put("/{id}/review", h.Document.Review)
				})
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/my", h.Task.ListMine)
				r.Get("/{id}", h.Task.Get)
				r.Put("/{id}/progress", h.Task.UpdateProgress)
				r.Post("/{id}/attachments", h.Task.AddAttachment)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Post("/", h.Task.Assign)
					r.Get("/", h.Task.List)
					r.Put("/{id}/review", h.Task.Review)
					r.Delete("/{id}", h.Task.Delete)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", h.Leave.Submit)
				r.Get("/my", h.Leave.ListMine)
				r.Get("/{id}", h.Leave.Get)
				r.Delete("/{id}", h.Leave.Cancel)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Get("/", h.Leave.List)
					r.Put("/{id}/review", h.Leave.Review)
				})
			})

			r.Route("/meetings", func(r chi.Router) {
				r.Get("/my", h.Meeting.ListMine)
				r.Get("/{id}", h.Meeting.Get)
				r.Put("/{id}/respond", h.Meeting.Respond)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Post("/", h.Meeting.Schedule)
					r.Get("/", h.Meeting.List)
					r.Put("/{id}/status", h.Meeting.SetStatus)
					r.Delete("/{id}", h.Meeting.Delete)
				})
			})

			r.Route("/mentorships", func(r chi.Router) {
				r.Get("/my", h.Mentorship.ListMine)
				r.Get("/{id}", h.Mentorship.Get)
				r.Put("/{id}/status", h.Mentorship.SetStatus)
				r.Post("/{id}/notes", h.Mentorship.AddNote)
				r.Post("/{id}/goals", h.Mentorship.AddGoal)
				r.Put("/{id}/goals/{goalID}/toggle", h.Mentorship.ToggleGoal)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Post("/", h.Mentorship.Assign)
					r.Get("/", h.Mentorship.List)
				})
			})

			r.Route("/broadcasts", func(r chi.Router) {
				r.Get("/my", h.Broadcast.ListMine)
				r.Put("/{id}/read", h.Broadcast.MarkRead)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Post("/", h.Broadcast.Send)
					r.Get("/sent", h.Broadcast.ListSent)
					r.Get("/{id}/stats", h.Broadcast.Stats)
					r.Delete("/{id}", h.Broadcast.Delete)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Get("/stats", h.Notification.Stats)
				r.Get("/sse-token", h.Notification.GetSSEToken)
				r.Put("/read-all", h.Notification.MarkAllAsRead)
				r.Put("/{id}/read", h.Notification.MarkAsRead)
				r.Delete("/{id}", h.Notification.Delete)
			})

			r.Route("/messages", func(r chi.Router) {
				r.Post("/", h.Message.Send)
				r.Get("/inbox", h.Message.Inbox)
				r.Get("/sent", h.Message.Sent)
				r.Put("/{id}/read", h.Message.MarkRead)
				r.Delete("/{id}", h.Message.Delete)
			})

			r.Route("/welcome-video", func(r chi.Router) {
				r.Get("/", h.WelcomeVideo.GetActive)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Post("/", h.WelcomeVideo.Upload)
					r.Get("/all", h.WelcomeVideo.List)
					r.Delete("/{id}", h.WelcomeVideo.Delete)
				})
			})
		})
	})
	return r
}

func rateLimited(limiter *ratelimit.KeyedLimiter) func(http.Handler) http.Handler {
	if limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.RateLimit(limiter)
}
