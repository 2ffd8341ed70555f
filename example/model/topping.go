package model

//go:generate go tool fkgen -source=$GOFILE -destination=../query

// Topping refuses deletion while any pizza still uses it.
type Topping struct {
	ID     int     `db:"id,primaryKey"`
	Name   string  `db:"name"`
	Pizzas []Pizza `rel:"many_to_many,join_table:pizza_toppings,foreign_key:topping_id,references:pizza_id,on_delete:restrict"`
}
