package testdata

type Protein struct {
	ID   int
	Name string
	// one-to-many: deleting a protein clears the reference on its meals
	Dishes []Dish `rel:"has_many,foreign_key:protein_id,on_delete:set_null"`
}

type Dish struct {
	ID        int
	ProteinID *int
	Title     string
	// belongs_to: Dish holds the foreign key
	Protein *Protein `rel:"belongs_to,foreign_key:protein_id"`
}

type Pizza struct {
	ID       int
	Name     string
	Toppings []Topping `rel:"many_to_many,join_table:pizza_toppings,foreign_key:pizza_id,references:topping_id"`
}

type Topping struct {
	ID     int
	Name   string
	Pizzas []Pizza `rel:"many_to_many,join_table:pizza_toppings,foreign_key:topping_id,references:pizza_id,on_delete:restrict"`
}
