package master

import (
	"context"
	"time"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/master"
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/database"
)

type MasterServiceImpl struct {
	db          *database.DB
	departments master.DepartmentRepository
	positions   master.PositionRepository
}

// CreateDepartment implements master.Service.
func (s *MasterServiceImpl) CreateDepartment(ctx context.Context, req master.DepartmentRequest) (master.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return master.DepartmentResponse{}, err
	}

	dept, err := s.departments.Create(ctx, master.Department{
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   req.ManagerID,
	})
	if err != nil {
		return master.DepartmentResponse{}, err
	}

	return toDepartmentResponse(dept), nil
}

// GetDepartment implements master.Service.
func (s *MasterServiceImpl) GetDepartment(ctx context.Context, id string) (master.DepartmentResponse, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return master.DepartmentResponse{}, err
	}

	return toDepartmentResponse(dept), nil
}

// ListDepartments implements master.Service.
func (s *MasterServiceImpl) ListDepartments(ctx context.Context) ([]master.DepartmentResponse, error) {
	depts, err := s.departments.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]master.DepartmentResponse, 0, len(depts))
	for _, dept := range depts {
		responses = append(responses, toDepartmentResponse(dept))
	}

	return responses, nil
}

// UpdateDepartment implements master.Service.
func (s *MasterServiceImpl) UpdateDepartment(ctx context.Context, req master.DepartmentRequest) (master.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return master.DepartmentResponse{}, err
	}

	dept, err := s.departments.GetByID(ctx, req.ID)
	if err != nil {
		return master.DepartmentResponse{}, err
	}

	dept.Name = req.Name
	dept.Description = req.Description
	dept.ManagerID = req.ManagerID

	if err := s.departments.Update(ctx, dept); err != nil {
		return master.DepartmentResponse{}, err
	}

	dept.UpdatedAt = time.Now()
	return toDepartmentResponse(dept), nil
}

// DeleteDepartment implements master.Service.
func (s *MasterServiceImpl) DeleteDepartment(ctx context.Context, id string) error {
	return s.departments.Delete(ctx, id)
}

// CreatePosition implements master.Service.
func (s *MasterServiceImpl) CreatePosition(ctx context.Context, req master.PositionRequest) (master.PositionResponse, error) {
	if err := req.Validate(); err != nil {
		return master.PositionResponse{}, err
	}

	pos, err := s.positions.Create(ctx, master.Position{
		Title:       req.Title,
		Description: req.Description,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
	})
	if err != nil {
		return master.PositionResponse{}, err
	}

	return toPositionResponse(pos), nil
}

// GetPosition implements master.Service.
func (s *MasterServiceImpl) GetPosition(ctx context.Context, id string) (master.PositionResponse, error) {
	pos, err := s.positions.GetByID(ctx, id)
	if err != nil {
		return master.PositionResponse{}, err
	}

	return toPositionResponse(pos), nil
}

// ListPositions implements master.Service.
func (s *MasterServiceImpl) ListPositions(ctx context.Context) ([]master.PositionResponse, error) {
	positions, err := s.positions.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]master.PositionResponse, 0, len(positions))
	for _, pos := range positions {
		responses = append(responses, toPositionResponse(pos))
	}

	return responses, nil
}

// UpdatePosition implements master.Service.
func (s *MasterServiceImpl) UpdatePosition(ctx context.Context, req master.PositionRequest) (master.PositionResponse, error) {
	if err := req.Validate(); err != nil {
		return master.PositionResponse{}, err
	}

	pos, err := s.positions.GetByID(ctx, req.ID)
	if err != nil {
		return master.PositionResponse{}, err
	}

	pos.Title = req.Title
	pos.Description = req.Description
	pos.SalaryMin = req.SalaryMin
	pos.SalaryMax = req.SalaryMax

	if err := s.positions.Update(ctx, pos); err != nil {
		return master.PositionResponse{}, err
	}

	pos.UpdatedAt = time.Now()
	return toPositionResponse(pos), nil
}

// DeletePosition implements master.Service.
func (s *MasterServiceImpl) DeletePosition(ctx context.Context, id string) error {
	return s.positions.Delete(ctx, id)
}

func toDepartmentResponse(dept master.Department) master.DepartmentResponse {
	return master.DepartmentResponse{
		ID:          dept.ID,
		Name:        dept.Name,
		Description: dept.Description,
		ManagerID:   dept.ManagerID,
		CreatedAt:   dept.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   dept.UpdatedAt.Format(time.RFC3339),
	}
}

func toPositionResponse(pos master.Position) master.PositionResponse {
	return master.PositionResponse{
		ID:          pos.ID,
		Title:       pos.Title,
		Description: pos.Description,
		SalaryMin:   pos.SalaryMin,
		SalaryMax:   pos.SalaryMax,
		CreatedAt:   pos.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   pos.UpdatedAt.Format(time.RFC3339),
	}
}

func NewMasterService(
	db *database.DB,
	departments master.DepartmentRepository,
	positions master.PositionRepository,
) master.Service {
	return &MasterServiceImpl{
		db:          db,
		departments: departments,
		positions:   positions,
	}
}
