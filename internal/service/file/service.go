package file

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fieldforce-hr/location-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

const urlExpiry = 15 * time.Minute

// FileService wraps the storage backend with path conventions for
// employee document uploads.
type FileService interface {
	UploadEmployeeDocument(ctx context.Context, employeeID, filename string, contentType string, file io.Reader) (string, error)
	Download(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string) (string, error)
}

type FileServiceImpl struct {
	storage storage.FileStorage
}

// UploadEmployeeDocument stores the file under a per-employee prefix with
// a generated name so uploads never collide.
func (s *FileServiceImpl) UploadEmployeeDocument(ctx context.Context, employeeID, filename string, contentType string, file io.Reader) (string, error) {
	ext := filepath.Ext(filename)
	path := fmt.Sprintf("documents/%s/%s%s", employeeID, uuid.NewString(), ext)

	stored, err := s.storage.Upload(ctx, file, path, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}

	return stored, nil
}

func (s *FileServiceImpl) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.storage.Download(ctx, path)
}

func (s *FileServiceImpl) Delete(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

func (s *FileServiceImpl) GetFileURL(ctx context.Context, path string) (string, error) {
	return s.storage.GetURL(ctx, path, urlExpiry)
}

func NewFileService(backend storage.FileStorage) FileService {
	return &FileServiceImpl{storage: backend}
}
