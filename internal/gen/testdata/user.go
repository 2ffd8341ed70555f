package testdata

import "time"

type User struct {
	ID        string    `db:"id,primaryKey"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Role      string    `db:"role"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	Meals     []Meal    `rel:"has_many,foreign_key:user_id,on_delete:cascade"`
	internal  string    // unexported, no tag — skipped
}

type Meal struct {
	ID     int    `db:"id,primaryKey"`
	UserID string `db:"user_id"`
	Title  string `db:"title"`
}
