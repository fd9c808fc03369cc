package entity

// Catalog is a slug-keyed classifier row.
type Catalog struct {
	Slug string `db:"slug"`
	Name string `db:"name"`
}

type Category = Catalog

type Genre = Catalog
