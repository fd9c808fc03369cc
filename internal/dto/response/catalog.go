package response

import "media-review/internal/data/entity"

type CatalogResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func CatalogToResponse(item *entity.Catalog) CatalogResponse {
	return CatalogResponse{Name: item.Name, Slug: item.Slug}
}
