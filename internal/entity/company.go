package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrCompanyNotFound = errors.New("company not found")

// Company size buckets, fixed bands.
const (
	CompanySize1To10   = "1-10"
	CompanySize11To50  = "11-50"
	CompanySize51To200 = "51-200"
	CompanySize201To1K = "201-1000"
	CompanySizeOver1K  = "1000+"
)

// IndustryUnknown is the sentinel industry assigned to companies created
// implicitly by the intake endpoints.
const IndustryUnknown = "Unknown"

type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Website   string    `json:"website,omitempty"`
	Industry  string    `json:"industry,omitempty"`
	Size      string    `json:"size,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCompany(name string) (*Company, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	now := time.Now()
	return &Company{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func ValidCompanySize(size string) bool {
	switch size {
	case "", CompanySize1To10, CompanySize11To50, CompanySize51To200, CompanySize201To1K, CompanySizeOver1K:
		return true
	}
	return false
}
