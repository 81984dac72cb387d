package master

import (
	"context"
)

type DepartmentRepository interface {
	Create(ctx context.Context, dept Department) (Department, error)
	GetByID(ctx context.Context, id string) (Department, error)
	List(ctx context.Context) ([]Department, error)
	Update(ctx context.Context, dept Department) error
	Delete(ctx context.Context, id string) error
}

type PositionRepository interface {
	Create(ctx context.Context, pos Position) (Position, error)
	GetByID(ctx context.Context, id string) (Position, error)
	List(ctx context.Context) ([]Position, error)
	Update(ctx context.Context, pos Position) error
	Delete(ctx context.Context, id string) error
}
