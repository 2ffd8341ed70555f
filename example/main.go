package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/scohe001/foreign-keys/example/migrations"
	"github.com/scohe001/foreign-keys/example/model"
	"github.com/scohe001/foreign-keys/example/repo"
	"github.com/scohe001/foreign-keys/migrate"
	"github.com/scohe001/foreign-keys/orm"
	"github.com/scohe001/foreign-keys/ormzap"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: in-memory sqlite)")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := openDB(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if cfg.Debug {
		db = db.Debug(ormzap.New(zl))
	}

	ctx := context.Background()

	// Bring the schema up to date before anything touches it.
	m := migrate.New(db, migrations.All())
	applied, err := m.Up(ctx)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	zl.Info("migrations applied", zap.Int("count", applied))

	if err := run(ctx, db); err != nil {
		log.Fatalf("example: %v", err)
	}
}

func openDB(cfg Config) (*orm.DB, error) {
	var d orm.Dialect
	switch cfg.Driver {
	case "mysql":
		d = orm.MySQL
	case "pgx":
		d = orm.PostgreSQL
	case "sqlite3":
		d = orm.SQLite
	default:
		return nil, fmt.Errorf("unknown driver %q (use mysql, pgx, or sqlite3)", cfg.Driver)
	}

	sqlDB, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	if cfg.Driver == "sqlite3" {
		// A shared-memory database vanishes when its last connection
		// closes, so keep exactly one.
		sqlDB.SetMaxOpenConns(1)
	}
	return orm.New(sqlDB, d), nil
}

func run(ctx context.Context, db *orm.DB) error {
	users := repo.NewUserRepository(db)
	proteins := repo.NewProteinRepository(db)
	meals := repo.NewMealRepository(db)
	pizzas := repo.NewPizzaRepository(db)
	toppings := repo.NewToppingRepository(db)

	// One-to-many: users own meals.
	fmt.Println("--- users and meals ---")
	alice := &model.User{Name: "Alice", Email: "alice@example.com"}
	if err := users.Create(ctx, alice); err != nil {
		return err
	}
	fmt.Printf("created user %s (%s)\n", alice.Name, alice.ID)

	chicken := &model.Protein{Name: "Chicken"}
	if err := proteins.Create(ctx, chicken); err != nil {
		return err
	}

	breakfast := &model.Meal{UserID: alice.ID, ProteinID: &chicken.ID, Title: "Omelette"}
	if err := meals.Create(ctx, breakfast); err != nil {
		return err
	}
	lunch := &model.Meal{UserID: alice.ID, Title: "Salad"}
	if err := meals.Create(ctx, lunch); err != nil {
		return err
	}

	// An orphaned meal is rejected before it reaches the database.
	orphan := &model.Meal{UserID: "no-such-user", Title: "Mystery"}
	err := meals.Create(ctx, orphan)
	if errors.Is(err, orm.ErrForeignKeyViolation) {
		fmt.Printf("rejected orphan meal: %v\n", err)
	} else if err != nil {
		return err
	}

	// Eager loading in both directions.
	withMeals, err := users.FindByIDWithMeals(ctx, alice.ID)
	if err != nil {
		return err
	}
	fmt.Printf("%s has %d meals\n", withMeals.Name, len(withMeals.Meals))

	full, err := meals.FindByIDFull(ctx, breakfast.ID)
	if err != nil {
		return err
	}
	fmt.Printf("meal %q belongs to %s, protein %s\n", full.Title, full.User.Name, full.Protein.Name)

	// Deleting the protein clears protein_id on its meals.
	if err := proteins.Delete(ctx, chicken.ID); err != nil {
		return err
	}
	cleared, err := meals.FindByID(ctx, breakfast.ID)
	if err != nil {
		return err
	}
	fmt.Printf("after protein delete, meal %q protein_id is nil: %t\n", cleared.Title, cleared.ProteinID == nil)

	// Many-to-many: pizzas and toppings through a join table.
	fmt.Println("--- pizzas and toppings ---")
	margherita := &model.Pizza{Name: "Margherita"}
	diavola := &model.Pizza{Name: "Diavola"}
	for _, p := range []*model.Pizza{margherita, diavola} {
		if err := pizzas.Create(ctx, p); err != nil {
			return err
		}
	}
	mozzarella := &model.Topping{Name: "Mozzarella"}
	salami := &model.Topping{Name: "Salami"}
	for _, t := range []*model.Topping{mozzarella, salami} {
		if err := toppings.Create(ctx, t); err != nil {
			return err
		}
	}
	if err := pizzas.AddToppings(ctx, margherita.ID, []int{mozzarella.ID}); err != nil {
		return err
	}
	if err := pizzas.AddToppings(ctx, diavola.ID, []int{mozzarella.ID, salami.ID}); err != nil {
		return err
	}

	loaded, err := pizzas.FindAllWithToppings(ctx)
	if err != nil {
		return err
	}
	for _, p := range loaded {
		fmt.Printf("%s has %d toppings\n", p.Name, len(p.Toppings))
	}

	// A linked topping refuses to die.
	err = toppings.Delete(ctx, salami.ID)
	if errors.Is(err, orm.ErrRestrictViolation) {
		fmt.Printf("topping still in use: %v\n", err)
	} else if err != nil {
		return err
	}

	// Unlink first, then the delete goes through.
	if err := pizzas.RemoveToppings(ctx, diavola.ID, []int{salami.ID}); err != nil {
		return err
	}
	if err := toppings.Delete(ctx, salami.ID); err != nil {
		return err
	}
	fmt.Println("salami unlinked and deleted")

	// Deleting a pizza drops its join rows but leaves toppings alone.
	if err := pizzas.Delete(ctx, diavola.ID); err != nil {
		return err
	}
	remaining, err := toppings.FindAll(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("toppings remaining after pizza delete: %d\n", len(remaining))

	// Deleting a user cascades to their meals.
	if err := users.Delete(ctx, alice.ID); err != nil {
		return err
	}
	left, err := meals.FindByUser(ctx, alice.ID)
	if err != nil {
		return err
	}
	fmt.Printf("meals left after user delete: %d\n", len(left))

	return nil
}
