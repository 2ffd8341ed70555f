package repo

import (
	"context"

	"github.com/scohe001/foreign-keys/example/model"
	"github.com/scohe001/foreign-keys/example/query"
	"github.com/scohe001/foreign-keys/orm"
)

// PizzaRepository manages pizzas and their topping links through the
// pizza_toppings join table.
type PizzaRepository struct {
	db orm.Querier
}

func NewPizzaRepository(db orm.Querier) *PizzaRepository {
	return &PizzaRepository{db: db}
}

func (r *PizzaRepository) Create(ctx context.Context, p *model.Pizza) error {
	return query.Pizzas(r.db).Create(ctx, p)
}

// FindByIDWithToppings loads a pizza together with its toppings.
func (r *PizzaRepository) FindByIDWithToppings(ctx context.Context, id int) (model.Pizza, error) {
	return query.Pizzas(r.db).Where("id = ?", id).Preload("Toppings").First(ctx)
}

func (r *PizzaRepository) FindAllWithToppings(ctx context.Context) ([]model.Pizza, error) {
	return query.Pizzas(r.db).Preload("Toppings").OrderBy("id").All(ctx)
}

// AddToppings links the pizza to each topping. Both IDs must already
// exist; the join table carries no payload of its own.
func (r *PizzaRepository) AddToppings(ctx context.Context, pizzaID int, toppingIDs []int) error {
	return orm.InsertJoinRows(ctx, r.db, "pizza_toppings", "pizza_id", "topping_id", pizzaID, toppingIDs)
}

// RemoveToppings unlinks the given toppings without touching either side.
func (r *PizzaRepository) RemoveToppings(ctx context.Context, pizzaID int, toppingIDs []int) error {
	return orm.DeleteJoinRows(ctx, r.db, "pizza_toppings", "pizza_id", "topping_id", pizzaID, toppingIDs)
}

// Delete removes a pizza and its join rows. Toppings survive since they
// may still be linked to other pizzas.
func (r *PizzaRepository) Delete(ctx context.Context, id int) error {
	return query.Pizzas(r.db).CheckForeignKeys().Where("id = ?", id).Delete(ctx)
}

// ToppingRepository manages toppings. Deleting a topping that is still
// on a pizza is refused; callers must unlink it first.
type ToppingRepository struct {
	db orm.Querier
}

func NewToppingRepository(db orm.Querier) *ToppingRepository {
	return &ToppingRepository{db: db}
}

func (r *ToppingRepository) Create(ctx context.Context, t *model.Topping) error {
	return query.Toppings(r.db).Create(ctx, t)
}

func (r *ToppingRepository) FindAll(ctx context.Context) ([]model.Topping, error) {
	return query.Toppings(r.db).OrderBy("id").All(ctx)
}

func (r *ToppingRepository) Delete(ctx context.Context, id int) error {
	return query.Toppings(r.db).CheckForeignKeys().Where("id = ?", id).Delete(ctx)
}
