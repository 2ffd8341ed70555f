package model

//go:generate go tool fkgen -source=$GOFILE -destination=../query

// Protein is an optional ingredient reference. Deleting one clears the
// reference on its meals instead of deleting them.
type Protein struct {
	ID    int    `db:"id,primaryKey"`
	Name  string `db:"name"`
	Meals []Meal `rel:"has_many,foreign_key:protein_id,on_delete:set_null"`
}
