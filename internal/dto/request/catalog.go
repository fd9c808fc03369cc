package request

// CatalogRequest creates a category or a genre.
type CatalogRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}
