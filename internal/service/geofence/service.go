package geofence

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/geofence"
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/database"
)

type GeofenceServiceImpl struct {
	db *database.DB
	geofence.Repository
}

// Resolve implements geofence.Resolver. Active fences are walked in
// ascending id order and the first containment match wins, so overlapping
// fences resolve the same way on every call.
func (s *GeofenceServiceImpl) Resolve(ctx context.Context, latitude, longitude float64) (*geofence.Geofence, error) {
	fences, err := s.Repository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active geofences: %w", err)
	}

	for _, fence := range fences {
		if fence.ContainsPoint(latitude, longitude) {
			match := fence
			return &match, nil
		}
	}

	return nil, nil
}

// CreateGeofence implements geofence.Service.
func (s *GeofenceServiceImpl) CreateGeofence(ctx context.Context, req geofence.CreateGeofenceRequest) (geofence.GeofenceResponse, error) {
	if err := req.Validate(); err != nil {
		return geofence.GeofenceResponse{}, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	created, err := s.Repository.Create(ctx, geofence.Geofence{
		Name:            req.Name,
		Description:     req.Description,
		CenterLatitude:  req.CenterLatitude,
		CenterLongitude: req.CenterLongitude,
		RadiusMeters:    req.RadiusMeters,
		IsActive:        isActive,
	})
	if err != nil {
		return geofence.GeofenceResponse{}, err
	}

	return toResponse(created), nil
}

// GetGeofence implements geofence.Service.
func (s *GeofenceServiceImpl) GetGeofence(ctx context.Context, id string) (geofence.GeofenceResponse, error) {
	fence, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return geofence.GeofenceResponse{}, err
	}

	return toResponse(fence), nil
}

// ListGeofences implements geofence.Service.
func (s *GeofenceServiceImpl) ListGeofences(ctx context.Context) ([]geofence.GeofenceResponse, error) {
	fences, err := s.Repository.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]geofence.GeofenceResponse, 0, len(fences))
	for _, fence := range fences {
		responses = append(responses, toResponse(fence))
	}

	return responses, nil
}

// UpdateGeofence implements geofence.Service.
func (s *GeofenceServiceImpl) UpdateGeofence(ctx context.Context, req geofence.UpdateGeofenceRequest) (geofence.GeofenceResponse, error) {
	if err := req.Validate(); err != nil {
		return geofence.GeofenceResponse{}, err
	}

	fence, err := s.Repository.GetByID(ctx, req.ID)
	if err != nil {
		return geofence.GeofenceResponse{}, err
	}

	if req.Name != nil {
		fence.Name = *req.Name
	}
	if req.Description != nil {
		fence.Description = *req.Description
	}
	if req.CenterLatitude != nil {
		fence.CenterLatitude = *req.CenterLatitude
	}
	if req.CenterLongitude != nil {
		fence.CenterLongitude = *req.CenterLongitude
	}
	if req.RadiusMeters != nil {
		fence.RadiusMeters = *req.RadiusMeters
	}
	if req.IsActive != nil {
		fence.IsActive = *req.IsActive
	}

	if err := s.Repository.Update(ctx, fence); err != nil {
		return geofence.GeofenceResponse{}, err
	}

	fence.UpdatedAt = time.Now()
	return toResponse(fence), nil
}

// DeleteGeofence implements geofence.Service.
func (s *GeofenceServiceImpl) DeleteGeofence(ctx context.Context, id string) error {
	return s.Repository.Delete(ctx, id)
}

func toResponse(fence geofence.Geofence) geofence.GeofenceResponse {
	return geofence.GeofenceResponse{
		ID:              fence.ID,
		Name:            fence.Name,
		Description:     fence.Description,
		CenterLatitude:  fence.CenterLatitude,
		CenterLongitude: fence.CenterLongitude,
		RadiusMeters:    fence.RadiusMeters,
		IsActive:        fence.IsActive,
		CreatedAt:       fence.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       fence.UpdatedAt.Format(time.RFC3339),
	}
}

func NewGeofenceService(db *database.DB, repo geofence.Repository) geofence.Service {
	return &GeofenceServiceImpl{
		db:         db,
		Repository: repo,
	}
}
