package request

type TitleRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int      `json:"year" validate:"required,pastyear"`
	Description string   `json:"description"`
	Genre       []string `json:"genre" validate:"dive,required,max=50,slug"`
	Category    *string  `json:"category" validate:"omitempty,max=50,slug"`
}

// AsPatch turns a full replacement into a patch touching every field.
func (r TitleRequest) AsPatch() TitlePatchRequest {
	genre := r.Genre
	if genre == nil {
		genre = []string{}
	}
	category := ""
	if r.Category != nil {
		category = *r.Category
	}
	return TitlePatchRequest{
		Name:        &r.Name,
		Year:        &r.Year,
		Description: &r.Description,
		Genre:       &genre,
		Category:    &category,
	}
}

// TitlePatchRequest leaves nil fields untouched. An empty category clears it.
type TitlePatchRequest struct {
	Name        *string   `json:"name" validate:"omitnil,min=1,max=256"`
	Year        *int      `json:"year" validate:"omitnil,pastyear"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre" validate:"omitnil,dive,required,max=50,slug"`
	Category    *string   `json:"category" validate:"omitempty,max=50,slug"`
}
