// Package migrations holds the schema history for the example app.
package migrations

import (
	"context"

	"github.com/scohe001/foreign-keys/migrate"
	"github.com/scohe001/foreign-keys/orm"
)

// All returns every migration in declaration order.
func All() []migrate.Migration {
	return []migrate.Migration{
		createUsers,
		createProteins,
		createMeals,
		createPizzas,
		createToppings,
		createPizzaToppings,
	}
}

var createUsers = migrate.Migration{
	Version: 20250301100000,
	Name:    "create_users",
	Up: func(ctx context.Context, tx *orm.Tx) error {
		return migrate.CreateTable(ctx, tx, "users", func(t *migrate.TableBuilder) {
			t.String("id", 36).NotNull()
			t.String("name", 255).NotNull()
			t.String("email", 255).NotNull().Unique()
			t.Timestamp("created_at").NotNull()
			t.Timestamp("updated_at").NotNull()
			t.PrimaryKey("id")
		})
	},
	Down: func(ctx context.Context, tx *orm.Tx) error {
		return migrate.DropTable(ctx, tx, "users")
	},
}

var createProteins = migrate.Migration{
	Version: 20250301100001,
	Name:    "create_proteins",
	Up: func(ctx context.Context, tx *orm.Tx) error {
		return migrate.CreateTable(ctx, tx, "proteins", func(t *migrate.TableBuilder) {
			t.Increments("id")
			t.String("name", 255).NotNull()
		})
	},
	Down: func(ctx context.Context, tx *orm.Tx) error {
		return migrate.DropTable(ctx, tx, "proteins")
	},
}

var createMeals = migrate.Migration{
	Version: 20250301100002,
	Name:    "create_meals",
	Up: func(ctx context.Context, tx *orm.Tx) error {
		err := migrate.CreateTable(ctx, tx, "meals", func(t *migrate.TableBuilder) {
			t.Increments("id")
			t.String("user_id", 36).NotNull()
			// protein_id stays nullable so deleting a protein can clear it.
			t.Integer("protein_id")
			t.String("title", 255).NotNull()
			t.Timestamp("created_at").NotNull()
			t.Timestamp("updated_at").NotNull()
			t.ForeignKey("user_id", "users", "id", orm.Cascade)
			t.ForeignKey("protein_id", "proteins", "id", orm.SetNull)
		})
		if err != nil {
			return err
		}
		return migrate.CreateIndex(ctx, tx, "idx_meals_user_id", "meals", "user_id")
	},
	Down: func(ctx context.Context, tx *orm.Tx) error {
		return migrate.DropTable(ctx, tx, "meals")
	},
}

var createPizzas = migrate.Migration{
	Version: 20250301100003,
	Name:    "create_pizzas",
	Up: func(ctx context.Context, tx *orm.Tx) error {
		return migrate.CreateTable(ctx, tx, "pizzas", func(t *migrate.TableBuilder) {
			t.Increments("id")
			t.String("name", 255).NotNull()
		})
	},
	Down: func(ctx context.Context, tx *orm.Tx) error {
		return migrate.DropTable(ctx, tx, "pizzas")
	},
}

var createToppings = migrate.Migration{
	Version: 20250301100004,
	Name:    "create_toppings",
	Up: func(ctx context.Context, tx *orm.Tx) error {
		return migrate.CreateTable(ctx, tx, "toppings", func(t *migrate.TableBuilder) {
			t.Increments("id")
			t.String("name", 255).NotNull()
		})
	},
	Down: func(ctx context.Context, tx *orm.Tx) error {
		return migrate.DropTable(ctx, tx, "toppings")
	},
}

var createPizzaToppings = migrate.Migration{
	Version: 20250301100005,
	Name:    "create_pizza_toppings",
	Up: func(ctx context.Context, tx *orm.Tx) error {
		return migrate.CreateTable(ctx, tx, "pizza_toppings", func(t *migrate.TableBuilder) {
			t.Integer("pizza_id").NotNull()
			t.Integer("topping_id").NotNull()
			t.PrimaryKey("pizza_id", "topping_id")
			t.ForeignKey("pizza_id", "pizzas", "id", orm.Cascade)
			t.ForeignKey("topping_id", "toppings", "id", orm.Restrict)
		})
	},
	Down: func(ctx context.Context, tx *orm.Tx) error {
		return migrate.DropTable(ctx, tx, "pizza_toppings")
	},
}
