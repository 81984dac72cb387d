package master

import (
	"time"
)

// Department organizes employees; names are unique.
type Department struct {
	ID          string
	Name        string
	Description string
	ManagerID   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Position is a job title; titles are unique.
type Position struct {
	ID          string
	Title       string
	Description string
	SalaryMin   *float64
	SalaryMax   *float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
