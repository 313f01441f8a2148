package domain

import (
	"fmt"
	"strings"
	"time"
)

// ProductFields is the mutable part of a product, shared by create and update.
type ProductFields struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Image       string
}

// Normalize trims the free-text fields in place.
func (f *ProductFields) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Image = strings.TrimSpace(f.Image)
}

// Validate checks the invariants every stored product must hold.
func (f ProductFields) Validate() error {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case strings.TrimSpace(f.Description) == "":
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	case f.Price < 0:
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	case f.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidInput)
	}
	return nil
}

// Product is a catalog listing.
//
// CreatedBy is a weak back-pointer to the designer account that created the
// listing; nil when an administrator created it. Deleting the account never
// touches its products.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Image       string    `json:"image,omitempty"`
	CreatedBy   *int64    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnedBy reports whether accountID is the recorded creator.
func (p *Product) OwnedBy(accountID int64) bool {
	return p != nil && p.CreatedBy != nil && *p.CreatedBy == accountID
}

// Apply overwrites the mutable fields.
func (p *Product) Apply(f ProductFields) {
	p.Name = f.Name
	p.Description = f.Description
	p.Price = f.Price
	p.Stock = f.Stock
	p.Image = f.Image
}

// Fields returns the mutable part of p.
func (p *Product) Fields() ProductFields {
	return ProductFields{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Image:       p.Image,
	}
}
