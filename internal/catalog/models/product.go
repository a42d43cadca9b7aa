package models

import (
	"time"

	identity "catalog/internal/identity/models"
)

// Status is the business status of a product. It is independent of the
// soft-delete flag: a Cancelled product is still visible.
type Status string

const (
	StatusActive    Status = "Active"
	StatusCancelled Status = "Cancelled"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusCancelled
}

// Product is a catalog entry. OwnerID is set once at creation and never
// reassigned.
//
// IsDeleted is tri-state: nil means visible, true means permanently hidden.
// Once set it is never reset; deleted rows are excluded from every read and
// every further mutation.
type Product struct {
	ID           string               `json:"id"`
	SKU          string               `json:"sku"`
	Name         string               `json:"productName"`
	Type         string               `json:"productType"`
	Price        float64              `json:"price"`
	RegistryDate string               `json:"registryDate"`
	OwnerID      string               `json:"userId"`
	Status       Status               `json:"productStatus"`
	IsDeleted    *bool                `json:"isDeleted"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
	Owner        *identity.PublicUser `json:"user,omitempty"`
}

// Input carries the user-supplied product fields for create and update.
// Price is a pointer so an absent price is distinguishable from zero.
// ProductStatus is optional; create ignores it, update applies it.
type Input struct {
	SKU           string   `json:"sku"`
	ProductName   string   `json:"productName"`
	Price         *float64 `json:"price"`
	RegistryDate  string   `json:"registryDate"`
	ProductType   string   `json:"productType"`
	ProductStatus Status   `json:"productStatus,omitempty"`
}

// ListResult is a page of products plus the total count unaffected by
// pagination.
type ListResult struct {
	Count int        `json:"count"`
	Rows  []*Product `json:"rows"`
}
