package models

import (
	"time"
)

// Product represents a product in the catalog
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name" binding:"required" validate:"required"`
	Description   string    `json:"description"`
	Details       []string  `json:"details"`
	CurrentPrice  float64   `json:"currentPrice" binding:"gte=0" validate:"gte=0"`
	PreviousPrice *float64  `json:"previousPrice,omitempty" binding:"omitempty,gt=0" validate:"omitempty,gt=0"`
	Images        []string  `json:"images" binding:"omitempty,dive,url" validate:"omitempty,dive,url"`
	Category      string    `json:"category"`
	ExternalLink  string    `json:"externalLink" binding:"omitempty,url" validate:"omitempty,url"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ProductDraft holds the fields an administrator supplies; id and createdAt are store assigned
type ProductDraft struct {
	Name          string   `json:"name" bson:"name" binding:"required" validate:"required"`
	Description   string   `json:"description" bson:"description"`
	Details       []string `json:"details" bson:"details"`
	CurrentPrice  float64  `json:"currentPrice" bson:"current_price" binding:"gte=0" validate:"gte=0"`
	PreviousPrice *float64 `json:"previousPrice,omitempty" bson:"previous_price,omitempty" binding:"omitempty,gt=0" validate:"omitempty,gt=0"`
	Images        []string `json:"images" bson:"images" binding:"omitempty,dive,url" validate:"omitempty,dive,url"`
	Category      string   `json:"category" bson:"category"`
	ExternalLink  string   `json:"externalLink" bson:"external_link" binding:"omitempty,url" validate:"omitempty,url"`
}

// WithID builds the product a draft becomes once the store has assigned its id
func (d ProductDraft) WithID(id string) Product {
	return Product{
		ID:            id,
		Name:          d.Name,
		Description:   d.Description,
		Details:       cloneStrings(d.Details),
		CurrentPrice:  d.CurrentPrice,
		PreviousPrice: clonePrice(d.PreviousPrice),
		Images:        cloneStrings(d.Images),
		Category:      d.Category,
		ExternalLink:  d.ExternalLink,
	}
}

// Draft returns the administrator-editable fields of the product
func (p Product) Draft() ProductDraft {
	return ProductDraft{
		Name:          p.Name,
		Description:   p.Description,
		Details:       cloneStrings(p.Details),
		CurrentPrice:  p.CurrentPrice,
		PreviousPrice: clonePrice(p.PreviousPrice),
		Images:        cloneStrings(p.Images),
		Category:      p.Category,
		ExternalLink:  p.ExternalLink,
	}
}

// Clone returns a deep copy so callers never share slices with the catalog
func (p Product) Clone() Product {
	c := p
	c.Details = cloneStrings(p.Details)
	c.Images = cloneStrings(p.Images)
	c.PreviousPrice = clonePrice(p.PreviousPrice)
	return c
}

// PrimaryImage returns the thumbnail image, or "" when the product has none
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// CloneAll deep copies a product sequence
func CloneAll(in []Product) []Product {
	out := make([]Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func clonePrice(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
