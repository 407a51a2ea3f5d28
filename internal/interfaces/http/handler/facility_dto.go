package handler

import (
	"time"

	"github.com/facilityos/backend/internal/domain/facility"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SiteResponse represents a site in API responses
type SiteResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	IsActive  bool      `json:"is_active"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toSiteResponse(s *facility.Site) SiteResponse {
	return SiteResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		City:      s.City,
		Country:   s.Country,
		IsActive:  s.IsActive,
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toSiteResponses(sites []facility.Site) []SiteResponse {
	out := make([]SiteResponse, len(sites))
	for i := range sites {
		out[i] = toSiteResponse(&sites[i])
	}
	return out
}

// BuildingResponse represents a building in API responses
type BuildingResponse struct {
	ID         uuid.UUID `json:"id"`
	SiteID     uuid.UUID `json:"site_id"`
	Name       string    `json:"name"`
	FloorCount int       `json:"floor_count"`
	Version    int64     `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
}

func toBuildingResponse(b *facility.Building) BuildingResponse {
	return BuildingResponse{
		ID:         b.ID,
		SiteID:     b.SiteID,
		Name:       b.Name,
		FloorCount: b.FloorCount,
		Version:    b.Version,
		CreatedAt:  b.CreatedAt,
	}
}

func toBuildingResponses(buildings []facility.Building) []BuildingResponse {
	out := make([]BuildingResponse, len(buildings))
	for i := range buildings {
		out[i] = toBuildingResponse(&buildings[i])
	}
	return out
}

// FloorResponse represents a floor in API responses
type FloorResponse struct {
	ID         uuid.UUID `json:"id"`
	BuildingID uuid.UUID `json:"building_id"`
	Level      int       `json:"level"`
	Name       string    `json:"name,omitempty"`
	Version    int64     `json:"version"`
}

func toFloorResponse(f *facility.Floor) FloorResponse {
	return FloorResponse{
		ID:         f.ID,
		BuildingID: f.BuildingID,
		Level:      f.Level,
		Name:       f.Name,
		Version:    f.Version,
	}
}

func toFloorResponses(floors []facility.Floor) []FloorResponse {
	out := make([]FloorResponse, len(floors))
	for i := range floors {
		out[i] = toFloorResponse(&floors[i])
	}
	return out
}

// AssetResponse represents an asset in API responses
type AssetResponse struct {
	ID           uuid.UUID       `json:"id"`
	Tag          string          `json:"tag"`
	Name         string          `json:"name"`
	Category     string          `json:"category,omitempty"`
	Status       string          `json:"status"`
	FloorID      *uuid.UUID      `json:"floor_id,omitempty"`
	VendorID     *uuid.UUID      `json:"vendor_id,omitempty"`
	PurchaseCost decimal.Decimal `json:"purchase_cost"`
	PurchasedAt  *time.Time      `json:"purchased_at,omitempty"`
	Version      int64           `json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toAssetResponse(a *facility.Asset) AssetResponse {
	return AssetResponse{
		ID:           a.ID,
		Tag:          a.Tag,
		Name:         a.Name,
		Category:     a.Category,
		Status:       string(a.Status),
		FloorID:      a.FloorID,
		VendorID:     a.VendorID,
		PurchaseCost: a.PurchaseCost,
		PurchasedAt:  a.PurchasedAt,
		Version:      a.Version,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func toAssetResponses(assets []facility.Asset) []AssetResponse {
	out := make([]AssetResponse, len(assets))
	for i := range assets {
		out[i] = toAssetResponse(&assets[i])
	}
	return out
}

// VendorResponse represents a vendor in API responses
type VendorResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	IsApproved   bool      `json:"is_approved"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
}

func toVendorResponse(v *facility.Vendor) VendorResponse {
	return VendorResponse{
		ID:           v.ID,
		Name:         v.Name,
		ContactEmail: v.ContactEmail,
		Phone:        v.Phone,
		IsApproved:   v.IsApproved,
		Version:      v.Version,
		CreatedAt:    v.CreatedAt,
	}
}

func toVendorResponses(vendors []facility.Vendor) []VendorResponse {
	out := make([]VendorResponse, len(vendors))
	for i := range vendors {
		out[i] = toVendorResponse(&vendors[i])
	}
	return out
}

// DocumentResponse represents document metadata in API responses
type DocumentResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	ContentType  string     `json:"content_type,omitempty"`
	SizeBytes    int64      `json:"size_bytes"`
	AttachedType string     `json:"attached_type,omitempty"`
	AttachedID   *uuid.UUID `json:"attached_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toDocumentResponse(d *facility.Document) DocumentResponse {
	return DocumentResponse{
		ID:           d.ID,
		Name:         d.Name,
		ContentType:  d.ContentType,
		SizeBytes:    d.SizeBytes,
		AttachedType: d.AttachedType,
		AttachedID:   d.AttachedID,
		CreatedAt:    d.CreatedAt,
	}
}

func toDocumentResponses(docs []facility.Document) []DocumentResponse {
	out := make([]DocumentResponse, len(docs))
	for i := range docs {
		out[i] = toDocumentResponse(&docs[i])
	}
	return out
}
