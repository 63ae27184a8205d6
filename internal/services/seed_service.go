package services

import (
	"fmt"

	"teslo/internal/models"
)

// SeedService resets the catalog to a known set of products.
type SeedService struct {
	products *ProductService
}

// NewSeedService creates a new SeedService.
func NewSeedService(products *ProductService) *SeedService {
	return &SeedService{products: products}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }

var seedProducts = []models.CreateProductRequest{
	{
		Title:       "Men's Chill Crew Neck Sweatshirt",
		Price:       floatPtr(75),
		Description: strPtr("Introducing the Tesla Chill Collection."),
		Stock:       intPtr(7),
		Sizes:       []string{"XS", "S", "M", "L", "XL", "XXL"},
		Gender:      models.GenderMen,
		Tags:        []string{"sweatshirt"},
		Images:      []string{"1740176-00-A_0_2000.jpg", "1740176-00-A_1.jpg"},
	},
	{
		Title:       "Men's Quilted Shirt Jacket",
		Price:       floatPtr(200),
		Description: strPtr("The Men's Quilted Shirt Jacket features a uniquely fit, quilted design."),
		Stock:       intPtr(5),
		Sizes:       []string{"XS", "S", "M", "XL", "XXL"},
		Gender:      models.GenderMen,
		Tags:        []string{"jacket"},
		Images:      []string{"1740507-00-A_0_2000.jpg", "1740507-00-A_1.jpg"},
	},
	{
		Title:       "Women's Cropped Puffer Jacket",
		Price:       floatPtr(225),
		Description: strPtr("The Women's Cropped Puffer Jacket features a uniquely cropped silhouette."),
		Stock:       intPtr(85),
		Sizes:       []string{"XS", "S", "M"},
		Gender:      models.GenderWomen,
		Tags:        []string{"hoodie"},
		Images:      []string{"1740535-00-A_0_2000.jpg", "1740535-00-A_1.jpg"},
	},
	{
		Title:       "Kids Cybertruck Long Sleeve Tee",
		Price:       floatPtr(30),
		Description: strPtr("Inspired by the Cybertruck's angular design."),
		Stock:       intPtr(10),
		Sizes:       []string{"XS", "S", "M"},
		Gender:      models.GenderKid,
		Tags:        []string{"shirt"},
		Images:      []string{"1742694-00-A_1_2000.jpg", "1742694-00-A_3.jpg"},
	},
	{
		Title:       "Let the Sun Shine Tee",
		Price:       floatPtr(35),
		Description: strPtr("Inspired by the world's most unlimited resource."),
		Stock:       intPtr(0),
		Sizes:       []string{"XS", "S", "M", "L", "XL", "XXL"},
		Gender:      models.GenderUnisex,
		Tags:        []string{"shirt"},
		Images:      []string{"1700280-00-A_0_2000.jpg", "1700280-00-A_1.jpg"},
	},
}

// RunSeed deletes every product and inserts the seed set owned by owner.
func (s *SeedService) RunSeed(owner *models.User) (int, error) {
	if _, err := s.products.DeleteAllProducts(); err != nil {
		return 0, err
	}
	for _, req := range seedProducts {
		if _, err := s.products.CreateProduct(req, owner); err != nil {
			return 0, fmt.Errorf("failed to seed product %q: %w", req.Title, err)
		}
	}
	return len(seedProducts), nil
}
