package model

import "time"

//go:generate go tool fkgen -source=$GOFILE -destination=../query

// User owns meals. Deleting a user takes their meals with it.
type User struct {
	ID        string    `db:"id,primaryKey"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	Meals     []Meal    `rel:"has_many,foreign_key:user_id,on_delete:cascade"`
}
