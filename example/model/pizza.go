package model

//go:generate go tool fkgen -source=$GOFILE -destination=../query

// Pizza and Topping are linked through the pizza_toppings join table.
// Deleting a pizza drops its join rows; toppings are never deleted that way.
type Pizza struct {
	ID       int       `db:"id,primaryKey"`
	Name     string    `db:"name"`
	Toppings []Topping `rel:"many_to_many,join_table:pizza_toppings,foreign_key:pizza_id,references:topping_id"`
}
