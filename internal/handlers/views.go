package handlers

import (
	"fmt"
	"strings"

	"storefront/internal/listing"
	"storefront/internal/models"
)

const (
	siteName = "Easy Buy Links"

	cardImageWidth   = 400
	detailImageWidth = 800
	thumbImageWidth  = 200
)

// OptimizeImageURL asks the Unsplash CDN for a resized webp; other hosts are
// returned untouched.
func OptimizeImageURL(url string, width int) string {
	if !strings.Contains(url, "unsplash.com") {
		return url
	}
	return fmt.Sprintf("%s?w=%d&q=75&fm=webp", url, width)
}

type productCard struct {
	models.Product
	Image string `json:"image"`
}

func cardOf(p models.Product) productCard {
	return productCard{Product: p, Image: OptimizeImageURL(p.PrimaryImage(), cardImageWidth)}
}

type productImage struct {
	Large string `json:"large"`
	Thumb string `json:"thumb"`
}

type productDetail struct {
	Found   bool            `json:"found"`
	Title   string          `json:"title"`
	Message string          `json:"message,omitempty"`
	Product *models.Product `json:"product,omitempty"`
	Images  []productImage  `json:"images,omitempty"`
}

func detailOf(p models.Product) productDetail {
	images := make([]productImage, 0, len(p.Images))
	for _, url := range p.Images {
		images = append(images, productImage{
			Large: OptimizeImageURL(url, detailImageWidth),
			Thumb: OptimizeImageURL(url, thumbImageWidth),
		})
	}
	return productDetail{
		Found:   true,
		Title:   p.Name + " - " + siteName,
		Product: &p,
		Images:  images,
	}
}

var productNotFound = productDetail{Title: "Product not found", Message: "Product not found"}

type categoriesView struct {
	Title     string                    `json:"title"`
	Order     listing.Order             `json:"order"`
	NextOrder listing.Order             `json:"nextOrder"`
	Groups    []listing.CategoryGroup   `json:"groups"`
	Page      listing.Page[productCard] `json:"page"`
}

const noSearchResults = "No products found matching your search. Try different keywords or browse our categories."

type searchView struct {
	Title        string                    `json:"title"`
	Query        string                    `json:"query"`
	TotalResults int                       `json:"totalResults"`
	ResultLabel  string                    `json:"resultLabel"`
	Message      string                    `json:"message,omitempty"`
	Page         listing.Page[productCard] `json:"page"`
}

func resultLabel(n int) string {
	if n == 1 {
		return "result"
	}
	return "results"
}
