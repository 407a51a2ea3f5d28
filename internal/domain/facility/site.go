// Package facility holds the tenant-scoped facility-management aggregates:
// sites, buildings, floors, assets, documents and vendors. Every aggregate
// embeds the versioned tenant entity base; all persistence goes through the
// tenant-scoped data access layer and, for mutations, the concurrency guard.
package facility

import (
	"strings"
	"time"

	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Site is a geographic location holding buildings.
type Site struct {
	shared.TenantEntity
	Name     string `gorm:"size:200;not null"`
	Address  string `gorm:"size:500"`
	City     string `gorm:"size:100"`
	Country  string `gorm:"size:100"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName implements the GORM table naming convention
func (Site) TableName() string {
	return "sites"
}

// NewSite creates a site under the given tenant
func NewSite(tenantID uuid.UUID, name, address string) (*Site, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantContextMissing
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SITE_NAME", "Site name cannot be empty")
	}

	return &Site{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		Address:      strings.TrimSpace(address),
		IsActive:     true,
	}, nil
}

// Rename changes the site name
func (s *Site) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_SITE_NAME", "Site name cannot be empty")
	}
	s.Name = name
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}
