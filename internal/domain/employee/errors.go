package employee

import "errors"

// Employee domain errors
var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeCodeExists = errors.New("employee code already exists")
	ErrEmailExists        = errors.New("email already registered")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrNoteNotFound       = errors.New("note not found")
)
