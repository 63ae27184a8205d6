package models

// CreateUserRequest is the body of a registration.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=50,password"`
	FullName string `json:"fullName" validate:"required,min=1"`
}

// LoginUserRequest is the body of a login.
type LoginUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=50,password"`
}

// CreateProductRequest is the body of a product creation.
type CreateProductRequest struct {
	Title       string   `json:"title" validate:"required,min=1"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Description *string  `json:"description"`
	Slug        *string  `json:"slug"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Sizes       []string `json:"sizes" validate:"required"`
	Gender      string   `json:"gender" validate:"required,oneof=men women kid unisex"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images"`
}

// UpdateProductRequest is a partial product. A nil Images leaves the current
// image set untouched; a non-nil one replaces it.
type UpdateProductRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Description *string  `json:"description"`
	Slug        *string  `json:"slug"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Sizes       []string `json:"sizes"`
	Gender      *string  `json:"gender" validate:"omitempty,oneof=men women kid unisex"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images"`
}

// PaginationQuery carries listing parameters. Zero values mean defaults.
type PaginationQuery struct {
	Limit  int    `query:"limit" validate:"omitempty,gt=0"`
	Offset int    `query:"offset" validate:"omitempty,gte=0"`
	Gender string `query:"gender" validate:"omitempty,oneof=men women kid unisex"`
}

// Product builds the product described by r, without images or owner.
func (r *CreateProductRequest) Product() *Product {
	p := &Product{
		Title:  r.Title,
		Sizes:  StringArray(r.Sizes),
		Gender: r.Gender,
		Tags:   StringArray(r.Tags),
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Slug != nil {
		p.Slug = *r.Slug
	}
	if r.Stock != nil {
		p.Stock = *r.Stock
	}
	if p.Sizes == nil {
		p.Sizes = StringArray{}
	}
	if p.Tags == nil {
		p.Tags = StringArray{}
	}
	return p
}

// ApplyTo merges every supplied field except Images onto p.
func (r *UpdateProductRequest) ApplyTo(p *Product) {
	if r.Title != nil {
		p.Title = *r.Title
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Slug != nil {
		p.Slug = *r.Slug
	}
	if r.Stock != nil {
		p.Stock = *r.Stock
	}
	if r.Sizes != nil {
		p.Sizes = StringArray(r.Sizes)
	}
	if r.Gender != nil {
		p.Gender = *r.Gender
	}
	if r.Tags != nil {
		p.Tags = StringArray(r.Tags)
	}
}
