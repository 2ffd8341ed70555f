package model

import "time"

//go:generate go tool fkgen -source=$GOFILE -destination=../query

// Meal holds both foreign keys: user_id is required, protein_id optional.
type Meal struct {
	ID        int       `db:"id,primaryKey"`
	UserID    string    `db:"user_id"`
	ProteinID *int      `db:"protein_id"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	User      *User     `rel:"belongs_to,foreign_key:user_id"`
	Protein   *Protein  `rel:"belongs_to,foreign_key:protein_id"`
}
