package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/fieldforce-hr/location-backend-go/internal/config"
	"github.com/fieldforce-hr/location-backend-go/internal/handler/http/middleware"
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth      AuthHandler
	Employee  EmployeeHandler
	Master    MasterHandler
	Geofence  GeofenceHandler
	Tracking  TrackingHandler
	Assistant AssistantHandler
	WebSocket WebSocketHandler
}

func NewRouter(cfg *config.Config, jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "location-backend"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	// Uploaded documents served statically in local storage mode.
	if cfg.Storage.Type == "local" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Storage.BasePath)))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Websocket feeds authenticate via query token or cookie upstream;
		// the upgrade happens before the JWT middleware group.
		r.Route("/ws", func(r chi.Router) {
			r.Get("/locations", h.WebSocket.Global)
			r.Get("/locations/{employeeID}", h.WebSocket.Employee)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/tracking", func(r chi.Router) {
				r.Post("/check-in", h.Tracking.CheckIn)
				r.Post("/check-out", h.Tracking.CheckOut)
				r.Post("/location", h.Tracking.UpdateLocation)

				r.Get("/statuses", h.Tracking.ListStatuses)
				r.Get("/statuses/{employeeID}", h.Tracking.GetStatus)
				r.Get("/online", h.Tracking.ListOnline)
				r.Get("/by-geofence", h.Tracking.ByGeofence)
				r.Get("/check-ins/today", h.Tracking.TodayCheckIns)
				r.Get("/history/{employeeID}", h.Tracking.History)
				r.Get("/summary", h.Tracking.Summary)
				r.Get("/analytics", h.Tracking.Analytics)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.List)
				r.Get("/{employeeID}", h.Employee.Get)

				r.Route("/{employeeID}/documents", func(r chi.Router) {
					r.Get("/", h.Employee.ListDocuments)
					r.Post("/", h.Employee.UploadDocument)
				})

				r.Route("/{employeeID}/notes", func(r chi.Router) {
					r.Get("/", h.Employee.ListNotes)
					r.Post("/", h.Employee.CreateNote)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Employee.Create)
					r.Put("/{employeeID}", h.Employee.Update)
				})
			})

			r.Route("/documents", func(r chi.Router) {
				r.Get("/{documentID}/download", h.Employee.DownloadDocument)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Delete("/{documentID}", h.Employee.DeleteDocument)
				})
			})

			r.Route("/notes", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Delete("/{noteID}", h.Employee.DeleteNote)
				})
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", h.Master.ListDepartments)
				r.Get("/{departmentID}", h.Master.GetDepartment)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Master.CreateDepartment)
					r.Put("/{departmentID}", h.Master.UpdateDepartment)
					r.Delete("/{departmentID}", h.Master.DeleteDepartment)
				})
			})

			r.Route("/positions", func(r chi.Router) {
				r.Get("/", h.Master.ListPositions)
				r.Get("/{positionID}", h.Master.GetPosition)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Master.CreatePosition)
					r.Put("/{positionID}", h.Master.UpdatePosition)
					r.Delete("/{positionID}", h.Master.DeletePosition)
				})
			})

			r.Route("/geofences", func(r chi.Router) {
				r.Get("/", h.Geofence.List)
				r.Get("/{geofenceID}", h.Geofence.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Geofence.Create)
					r.Put("/{geofenceID}", h.Geofence.Update)
					r.Delete("/{geofenceID}", h.Geofence.Delete)
				})
			})

			r.Post("/assistant/query", h.Assistant.Query)
		})
	})

	return r
}
