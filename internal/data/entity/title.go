package entity

type Title struct {
	Record
	Name         string  `db:"name"`
	Year         int     `db:"year"`
	Description  string  `db:"description"`
	CategorySlug *string `db:"category_slug"`
}

// TitleDetail is a title with its category, genres and computed rating.
type TitleDetail struct {
	Title
	Category *Category
	Genres   []*Genre
	Rating   *float64 `db:"rating"`
}
