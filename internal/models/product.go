package models

import (
	"strings"
	"time"
)

// Genders a product can be listed under.
const (
	GenderMen    = "men"
	GenderWomen  = "women"
	GenderKid    = "kid"
	GenderUnisex = "unisex"
)

// Product represents a product in the store.
type Product struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string         `json:"title" gorm:"type:text;uniqueIndex;not null"`
	Price       float64        `json:"price" gorm:"not null;default:0"`
	Description string         `json:"description" gorm:"type:text"`
	Slug        string         `json:"slug" gorm:"type:text;uniqueIndex;not null"`
	Stock       int            `json:"stock" gorm:"not null;default:0"`
	Sizes       StringArray    `json:"sizes" gorm:"not null"`
	Gender      string         `json:"gender" gorm:"type:text;not null"`
	Tags        StringArray    `json:"tags" gorm:"not null"`
	Images      []ProductImage `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	UserID      string         `json:"-" gorm:"type:varchar(36);not null;index"`
	User        *User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt   time.Time      `json:"-"`
	UpdatedAt   time.Time      `json:"-"`
}

// ProductImage is an image URL owned by a product.
type ProductImage struct {
	ID        uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	URL       string `json:"url" gorm:"type:text;not null"`
	ProductID string `json:"-" gorm:"type:varchar(36);not null;index"`
}

// PlainProduct is the public representation of a product: images are
// flattened to their URLs.
type PlainProduct struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Price       float64     `json:"price"`
	Description string      `json:"description"`
	Slug        string      `json:"slug"`
	Stock       int         `json:"stock"`
	Sizes       StringArray `json:"sizes"`
	Gender      string      `json:"gender"`
	Tags        StringArray `json:"tags"`
	Images      []string    `json:"images"`
	User        *User       `json:"user,omitempty"`
}

// NormalizeSlug derives the slug from the title when it is empty and
// normalizes it. It must run before every insert or update of a product.
func (p *Product) NormalizeSlug() {
	if p.Slug == "" {
		p.Slug = p.Title
	}
	p.Slug = Slugify(p.Slug)
}

// Slugify lower-cases s, turns spaces into underscores and drops apostrophes.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "'", "")
}

// ImageURLs returns the URLs of the product images in order.
func (p *Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.URL)
	}
	return urls
}

// Plain returns the flattened representation of p.
func (p *Product) Plain() *PlainProduct {
	return &PlainProduct{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Slug:        p.Slug,
		Stock:       p.Stock,
		Sizes:       p.Sizes,
		Gender:      p.Gender,
		Tags:        p.Tags,
		Images:      p.ImageURLs(),
		User:        p.User,
	}
}

// NewProductImages builds unsaved image rows from urls.
func NewProductImages(urls []string) []ProductImage {
	images := make([]ProductImage, 0, len(urls))
	for _, url := range urls {
		images = append(images, ProductImage{URL: url})
	}
	return images
}
