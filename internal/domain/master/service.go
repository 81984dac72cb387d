package master

import (
	"context"
)

// Service defines business logic for departments and positions.
type Service interface {
	CreateDepartment(ctx context.Context, req DepartmentRequest) (DepartmentResponse, error)
	GetDepartment(ctx context.Context, id string) (DepartmentResponse, error)
	ListDepartments(ctx context.Context) ([]DepartmentResponse, error)
	UpdateDepartment(ctx context.Context, req DepartmentRequest) (DepartmentResponse, error)
	DeleteDepartment(ctx context.Context, id string) error

	CreatePosition(ctx context.Context, req PositionRequest) (PositionResponse, error)
	GetPosition(ctx context.Context, id string) (PositionResponse, error)
	ListPositions(ctx context.Context) ([]PositionResponse, error)
	UpdatePosition(ctx context.Context, req PositionRequest) (PositionResponse, error)
	DeletePosition(ctx context.Context, id string) error
}
