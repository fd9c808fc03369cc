package response

import (
	"media-review/internal/data/entity"
)

type TitleResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description string            `json:"description"`
	Genre       []CatalogResponse `json:"genre"`
	Category    *CatalogResponse  `json:"category"`
}

func TitleToResponse(title *entity.TitleDetail) TitleResponse {
	resp := TitleResponse{
		ID:          title.ID.String(),
		Name:        title.Name,
		Year:        title.Year,
		Rating:      title.Rating,
		Description: title.Description,
		Genre:       MapSlice(title.Genres, CatalogToResponse),
	}

	if title.Category != nil {
		category := CatalogToResponse(title.Category)
		resp.Category = &category
	}

	return resp
}
