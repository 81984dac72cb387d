package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/fieldforce-hr/location-backend-go/internal/config"
	"github.com/fieldforce-hr/location-backend-go/internal/domain/tracking"
	handler "github.com/fieldforce-hr/location-backend-go/internal/handler/http"
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/database"
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/jwt"
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/storage"
	"github.com/fieldforce-hr/location-backend-go/internal/realtime"
	"github.com/fieldforce-hr/location-backend-go/internal/repository/postgresql"
	assistantService "github.com/fieldforce-hr/location-backend-go/internal/service/assistant"
	authService "github.com/fieldforce-hr/location-backend-go/internal/service/auth"
	employeeService "github.com/fieldforce-hr/location-backend-go/internal/service/employee"
	fileService "github.com/fieldforce-hr/location-backend-go/internal/service/file"
	geofenceService "github.com/fieldforce-hr/location-backend-go/internal/service/geofence"
	masterService "github.com/fieldforce-hr/location-backend-go/internal/service/master"
	trackingService "github.com/fieldforce-hr/location-backend-go/internal/service/tracking"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		logger.Error("failed to initialize file storage", slog.Any("error", err))
		os.Exit(1)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	// Repositories
	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	positionRepo := postgresql.NewPositionRepository(db)
	geofenceRepo := postgresql.NewGeofenceRepository(db)
	trackingRepo := postgresql.NewTrackingRepository(db)

	// Services. The websocket hub and the tracking service reference each
	// other (hub broadcasts committed writes, clients ingest through the
	// service), so the hub gets a late-bound ingest closure.
	var tracker tracking.Service
	hub := realtime.NewHub(func(ctx context.Context, action tracking.Action, req tracking.IngestRequest) (tracking.IngestResult, error) {
		return tracker.Ingest(ctx, action, req)
	}, logger)

	geofences := geofenceService.NewGeofenceService(db, geofenceRepo)
	tracker = trackingService.NewTrackingService(db, trackingRepo, employeeRepo, geofences, hub, cfg.Location(), logger)

	files := fileService.NewFileService(fileStorage)
	employees := employeeService.NewEmployeeService(db, employeeRepo, departmentRepo, positionRepo, files)
	masters := masterService.NewMasterService(db, departmentRepo, positionRepo)
	auths := authService.NewAuthService(userRepo, jwtService)
	assistant := assistantService.NewAssistantService(tracker, employeeRepo)

	router := handler.NewRouter(cfg, jwtService, handler.Handlers{
		Auth:      handler.NewAuthHandler(auths, jwtService),
		Employee:  handler.NewEmployeeHandler(employees),
		Master:    handler.NewMasterHandler(masters),
		Geofence:  handler.NewGeofenceHandler(geofences),
		Tracking:  handler.NewTrackingHandler(tracker),
		Assistant: handler.NewAssistantHandler(assistant),
		WebSocket: handler.NewWebSocketHandler(hub),
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("starting server",
		slog.String("addr", addr),
		slog.String("env", cfg.App.Env),
		slog.String("timezone", cfg.App.Timezone),
	)

	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
