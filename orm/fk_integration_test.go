//go:build integration

package orm_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/scohe001/foreign-keys/orm"
	"github.com/scohe001/foreign-keys/scope"
)

// Referential integrity tests run against an in-memory SQLite database, one
// per test. SQLite ships with foreign_keys off, so the application-level
// checks are the only enforcement in play.

type Author struct {
	ID    int
	Name  string
	Books []Book
}

type Book struct {
	ID       int
	AuthorID int
	Title    string
}

type Pizza struct {
	ID       int
	Name     string
	Toppings []Topping
}

type Topping struct {
	ID   int
	Name string
}

func scanAuthor(rows *sql.Rows) (Author, error) {
	cols, _ := rows.Columns()
	var v Author
	dest := make([]any, len(cols))
	for i, col := range cols {
		switch col {
		case "id":
			dest[i] = &v.ID
		case "name":
			dest[i] = &v.Name
		default:
			dest[i] = new(any)
		}
	}
	err := rows.Scan(dest...)
	return v, err
}

func authorColumnValuePairs(v *Author, includesPK bool) ([]string, []any) {
	if includesPK {
		return []string{"id", "name"}, []any{v.ID, v.Name}
	}
	return []string{"name"}, []any{v.Name}
}

func setAuthorPK(v *Author, id int64) { v.ID = int(id) }

func scanBook(rows *sql.Rows) (Book, error) {
	cols, _ := rows.Columns()
	var v Book
	dest := make([]any, len(cols))
	for i, col := range cols {
		switch col {
		case "id":
			dest[i] = &v.ID
		case "author_id":
			dest[i] = &v.AuthorID
		case "title":
			dest[i] = &v.Title
		default:
			dest[i] = new(any)
		}
	}
	err := rows.Scan(dest...)
	return v, err
}

func bookColumnValuePairs(v *Book, includesPK bool) ([]string, []any) {
	if includesPK {
		return []string{"id", "author_id", "title"}, []any{v.ID, v.AuthorID, v.Title}
	}
	return []string{"author_id", "title"}, []any{v.AuthorID, v.Title}
}

func setBookPK(v *Book, id int64) { v.ID = int(id) }

func Authors(db orm.Querier) *orm.Query[Author] {
	q := orm.NewQuery[Author](db, "authors", []string{"id", "name"}, "id",
		scanAuthor, authorColumnValuePairs, setAuthorPK)
	q.RegisterReference(orm.ChildRef{Table: "books", Column: "author_id", OnDelete: orm.Cascade})
	q.RegisterPreloader("Books", preloadAuthorBooks)
	return q
}

func Books(db orm.Querier) *orm.Query[Book] {
	q := orm.NewQuery[Book](db, "books", []string{"id", "author_id", "title"}, "id",
		scanBook, bookColumnValuePairs, setBookPK)
	q.RegisterForeignKey(orm.ForeignKey{Column: "author_id", ParentTable: "authors", ParentColumn: "id"})
	return q
}

func preloadAuthorBooks(ctx context.Context, db orm.Querier, results []Author) error {
	if len(results) == 0 {
		return nil
	}
	ids := make([]int, len(results))
	for i := range results {
		ids[i] = results[i].ID
	}
	related, err := Books(db).Scopes(scope.In("author_id", ids)).All(ctx)
	if err != nil {
		return err
	}
	byFK := make(map[int][]Book)
	for _, r := range related {
		byFK[r.AuthorID] = append(byFK[r.AuthorID], r)
	}
	for i := range results {
		results[i].Books = byFK[results[i].ID]
	}
	return nil
}

func scanPizza(rows *sql.Rows) (Pizza, error) {
	cols, _ := rows.Columns()
	var v Pizza
	dest := make([]any, len(cols))
	for i, col := range cols {
		switch col {
		case "id":
			dest[i] = &v.ID
		case "name":
			dest[i] = &v.Name
		default:
			dest[i] = new(any)
		}
	}
	err := rows.Scan(dest...)
	return v, err
}

func pizzaColumnValuePairs(v *Pizza, includesPK bool) ([]string, []any) {
	if includesPK {
		return []string{"id", "name"}, []any{v.ID, v.Name}
	}
	return []string{"name"}, []any{v.Name}
}

func setPizzaPK(v *Pizza, id int64) { v.ID = int(id) }

func scanTopping(rows *sql.Rows) (Topping, error) {
	cols, _ := rows.Columns()
	var v Topping
	dest := make([]any, len(cols))
	for i, col := range cols {
		switch col {
		case "id":
			dest[i] = &v.ID
		case "name":
			dest[i] = &v.Name
		default:
			dest[i] = new(any)
		}
	}
	err := rows.Scan(dest...)
	return v, err
}

func toppingColumnValuePairs(v *Topping, includesPK bool) ([]string, []any) {
	if includesPK {
		return []string{"id", "name"}, []any{v.ID, v.Name}
	}
	return []string{"name"}, []any{v.Name}
}

func setToppingPK(v *Topping, id int64) { v.ID = int(id) }

func Pizzas(db orm.Querier) *orm.Query[Pizza] {
	q := orm.NewQuery[Pizza](db, "pizzas", []string{"id", "name"}, "id",
		scanPizza, pizzaColumnValuePairs, setPizzaPK)
	q.RegisterReference(orm.ChildRef{Table: "pizza_toppings", Column: "pizza_id", OnDelete: orm.Cascade})
	q.RegisterPreloader("Toppings", preloadPizzaToppings)
	return q
}

func Toppings(db orm.Querier) *orm.Query[Topping] {
	q := orm.NewQuery[Topping](db, "toppings", []string{"id", "name"}, "id",
		scanTopping, toppingColumnValuePairs, setToppingPK)
	q.RegisterReference(orm.ChildRef{Table: "pizza_toppings", Column: "topping_id", OnDelete: orm.Restrict})
	return q
}

func preloadPizzaToppings(ctx context.Context, db orm.Querier, results []Pizza) error {
	if len(results) == 0 {
		return nil
	}
	ids := make([]int, len(results))
	for i := range results {
		ids[i] = results[i].ID
	}
	pairs, err := orm.QueryJoinTable[int, int](ctx, db, "pizza_toppings", "pizza_id", "topping_id", ids)
	if err != nil {
		return err
	}
	targetIDs := orm.UniqueTargets(pairs)
	related, err := Toppings(db).Scopes(scope.In("id", targetIDs)).All(ctx)
	if err != nil {
		return err
	}
	byPK := make(map[int]Topping)
	for _, r := range related {
		byPK[r.ID] = r
	}
	grouped := orm.GroupBySource(pairs)
	for i := range results {
		tIDs := grouped[results[i].ID]
		items := make([]Topping, 0, len(tIDs))
		for _, tid := range tIDs {
			if v, ok := byPK[tid]; ok {
				items = append(items, v)
			}
		}
		results[i].Toppings = items
	}
	return nil
}

var fkSchema = []string{
	`CREATE TABLE authors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		author_id INTEGER,
		title TEXT NOT NULL
	)`,
	`CREATE TABLE pizzas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE toppings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE pizza_toppings (
		pizza_id INTEGER NOT NULL,
		topping_id INTEGER NOT NULL,
		PRIMARY KEY (pizza_id, topping_id)
	)`,
}

func setupSQLite(t *testing.T) *orm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Keep the shared in-memory database alive for the whole test.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range fkSchema {
		if _, err := sqlDB.Exec(stmt); err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return orm.New(sqlDB, orm.SQLite)
}

func TestForeignKeyCheckOnCreate(t *testing.T) {
	t.Parallel()

	db := setupSQLite(t)
	ctx := context.Background()

	a := &Author{Name: "Ursula"}
	if err := Authors(db).Create(ctx, a); err != nil {
		t.Fatalf("Create author: %v", err)
	}

	// Valid parent: passes.
	b := &Book{AuthorID: a.ID, Title: "The Dispossessed"}
	if err := Books(db).CheckForeignKeys().Create(ctx, b); err != nil {
		t.Fatalf("Create book: %v", err)
	}

	// Missing parent: rejected.
	orphan := &Book{AuthorID: a.ID + 999, Title: "Ghostwritten"}
	err := Books(db).CheckForeignKeys().Create(ctx, orphan)
	if !errors.Is(err, orm.ErrForeignKeyViolation) {
		t.Fatalf("expected ErrForeignKeyViolation, got %v", err)
	}

	var fkErr *orm.ForeignKeyError
	if !errors.As(err, &fkErr) {
		t.Fatal("expected *ForeignKeyError")
	}
	if fkErr.ParentTable != "authors" || fkErr.Column != "author_id" {
		t.Errorf("ForeignKeyError = %+v", fkErr)
	}

	count, err := Books(db).Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("Count = %d, want 1 (orphan insert must not have happened)", count)
	}
}

func TestForeignKeyCheckOnUpdate(t *testing.T) {
	t.Parallel()

	db := setupSQLite(t)
	ctx := context.Background()

	a := &Author{Name: "Ursula"}
	if err := Authors(db).Create(ctx, a); err != nil {
		t.Fatalf("Create author: %v", err)
	}
	b := &Book{AuthorID: a.ID, Title: "The Dispossessed"}
	if err := Books(db).Create(ctx, b); err != nil {
		t.Fatalf("Create book: %v", err)
	}

	b.AuthorID = a.ID + 999
	err := Books(db).CheckForeignKeys().Update(ctx, b)
	if !errors.Is(err, orm.ErrForeignKeyViolation) {
		t.Fatalf("expected ErrForeignKeyViolation, got %v", err)
	}

	got, err := Books(db).Where("id = ?", b.ID).First(ctx)
	if err != nil {
		t.Fatalf("First: %v", err)
	}
	if got.AuthorID != a.ID {
		t.Errorf("AuthorID = %d, want unchanged %d", got.AuthorID, a.ID)
	}
}

func TestDeleteCascade(t *testing.T) {
	t.Parallel()

	db := setupSQLite(t)
	ctx := context.Background()

	a := &Author{Name: "Ursula"}
	if err := Authors(db).Create(ctx, a); err != nil {
		t.Fatalf("Create author: %v", err)
	}
	other := &Author{Name: "Gene"}
	if err := Authors(db).Create(ctx, other); err != nil {
		t.Fatalf("Create author: %v", err)
	}
	for _, title := range []string{"The Dispossessed", "The Lathe of Heaven"} {
		if err := Books(db).Create(ctx, &Book{AuthorID: a.ID, Title: title}); err != nil {
			t.Fatalf("Create book: %v", err)
		}
	}
	if err := Books(db).Create(ctx, &Book{AuthorID: other.ID, Title: "Peace"}); err != nil {
		t.Fatalf("Create book: %v", err)
	}

	if err := Authors(db).CheckForeignKeys().Where("id = ?", a.ID).Delete(ctx); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	count, err := Books(db).Where("author_id = ?", a.ID).Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("deleted author still has %d books", count)
	}

	// The other author's book survives.
	count, err = Books(db).Where("author_id = ?", other.ID).Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("unrelated books affected: count = %d, want 1", count)
	}
}

func TestDeleteSetNull(t *testing.T) {
	t.Parallel()

	db := setupSQLite(t)
	ctx := context.Background()

	a := &Author{Name: "Anonymous"}
	if err := Authors(db).Create(ctx, a); err != nil {
		t.Fatalf("Create author: %v", err)
	}
	if err := Books(db).Create(ctx, &Book{AuthorID: a.ID, Title: "Beowulf"}); err != nil {
		t.Fatalf("Create book: %v", err)
	}

	// Same table, SET NULL instead of CASCADE.
	q := orm.NewQuery[Author](db, "authors", []string{"id", "name"}, "id",
		scanAuthor, authorColumnValuePairs, setAuthorPK)
	q.RegisterReference(orm.ChildRef{Table: "books", Column: "author_id", OnDelete: orm.SetNull})

	if err := q.CheckForeignKeys().Where("id = ?", a.ID).Delete(ctx); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	count, err := Books(db).Where("author_id IS NULL").Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("books with NULL author_id = %d, want 1", count)
	}
}

func TestDeleteRestrict(t *testing.T) {
	t.Parallel()

	db := setupSQLite(t)
	ctx := context.Background()

	p := &Pizza{Name: "Margherita"}
	if err := Pizzas(db).Create(ctx, p); err != nil {
		t.Fatalf("Create pizza: %v", err)
	}
	top := &Topping{Name: "Basil"}
	if err := Toppings(db).Create(ctx, top); err != nil {
		t.Fatalf("Create topping: %v", err)
	}
	if err := orm.InsertJoinRows(ctx, db, "pizza_toppings", "pizza_id", "topping_id", p.ID, []int{top.ID}); err != nil {
		t.Fatalf("InsertJoinRows: %v", err)
	}

	// Still referenced: rejected.
	err := Toppings(db).CheckForeignKeys().Where("id = ?", top.ID).Delete(ctx)
	if !errors.Is(err, orm.ErrRestrictViolation) {
		t.Fatalf("expected ErrRestrictViolation, got %v", err)
	}
	exists, err := Toppings(db).Where("id = ?", top.ID).Exists(ctx)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Fatal("topping was deleted despite RESTRICT")
	}

	// Unlink, then the delete goes through.
	if err := orm.DeleteJoinRows(ctx, db, "pizza_toppings", "pizza_id", "topping_id", p.ID, []int{top.ID}); err != nil {
		t.Fatalf("DeleteJoinRows: %v", err)
	}
	if err := Toppings(db).CheckForeignKeys().Where("id = ?", top.ID).Delete(ctx); err != nil {
		t.Fatalf("Delete after unlink: %v", err)
	}
}

func TestDeleteCascadesJoinRows(t *testing.T) {
	t.Parallel()

	db := setupSQLite(t)
	ctx := context.Background()

	p := &Pizza{Name: "Quattro Formaggi"}
	if err := Pizzas(db).Create(ctx, p); err != nil {
		t.Fatalf("Create pizza: %v", err)
	}
	var toppingIDs []int
	for _, name := range []string{"Gorgonzola", "Mozzarella"} {
		top := &Topping{Name: name}
		if err := Toppings(db).Create(ctx, top); err != nil {
			t.Fatalf("Create topping: %v", err)
		}
		toppingIDs = append(toppingIDs, top.ID)
	}
	if err := orm.InsertJoinRows(ctx, db, "pizza_toppings", "pizza_id", "topping_id", p.ID, toppingIDs); err != nil {
		t.Fatalf("InsertJoinRows: %v", err)
	}

	if err := Pizzas(db).CheckForeignKeys().Where("id = ?", p.ID).Delete(ctx); err != nil {
		t.Fatalf("Delete pizza: %v", err)
	}

	// Join rows are gone, toppings survive.
	pairs, err := orm.QueryJoinTable[int, int](ctx, db, "pizza_toppings", "pizza_id", "topping_id", []int{p.ID})
	if err != nil {
		t.Fatalf("QueryJoinTable: %v", err)
	}
	if len(pairs) != 0 {
		t.Errorf("len(pairs) = %d, want 0", len(pairs))
	}
	count, err := Toppings(db).Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("topping count = %d, want 2", count)
	}
}

func TestPreloadHasMany(t *testing.T) {
	t.Parallel()

	db := setupSQLite(t)
	ctx := context.Background()

	a := &Author{Name: "Ursula"}
	if err := Authors(db).Create(ctx, a); err != nil {
		t.Fatalf("Create author: %v", err)
	}
	for _, title := range []string{"The Dispossessed", "The Lathe of Heaven"} {
		if err := Books(db).Create(ctx, &Book{AuthorID: a.ID, Title: title}); err != nil {
			t.Fatalf("Create book: %v", err)
		}
	}

	authors, err := Authors(db).Preload("Books").All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(authors) != 1 {
		t.Fatalf("len(authors) = %d, want 1", len(authors))
	}
	if len(authors[0].Books) != 2 {
		t.Errorf("len(Books) = %d, want 2", len(authors[0].Books))
	}
}

func TestPreloadManyToMany(t *testing.T) {
	t.Parallel()

	db := setupSQLite(t)
	ctx := context.Background()

	margherita := &Pizza{Name: "Margherita"}
	diavola := &Pizza{Name: "Diavola"}
	for _, p := range []*Pizza{margherita, diavola} {
		if err := Pizzas(db).Create(ctx, p); err != nil {
			t.Fatalf("Create pizza: %v", err)
		}
	}

	byName := make(map[string]int)
	for _, name := range []string{"Mozzarella", "Basil", "Salami"} {
		top := &Topping{Name: name}
		if err := Toppings(db).Create(ctx, top); err != nil {
			t.Fatalf("Create topping: %v", err)
		}
		byName[name] = top.ID
	}

	link := func(pizzaID int, toppings ...string) {
		ids := make([]int, len(toppings))
		for i, name := range toppings {
			ids[i] = byName[name]
		}
		if err := orm.InsertJoinRows(ctx, db, "pizza_toppings", "pizza_id", "topping_id", pizzaID, ids); err != nil {
			t.Fatalf("InsertJoinRows: %v", err)
		}
	}
	link(margherita.ID, "Mozzarella", "Basil")
	link(diavola.ID, "Mozzarella", "Salami")

	pizzas, err := Pizzas(db).Preload("Toppings").OrderBy("id").All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(pizzas) != 2 {
		t.Fatalf("len(pizzas) = %d, want 2", len(pizzas))
	}
	if len(pizzas[0].Toppings) != 2 || len(pizzas[1].Toppings) != 2 {
		t.Errorf("topping counts = %d, %d, want 2, 2",
			len(pizzas[0].Toppings), len(pizzas[1].Toppings))
	}
	// Shared topping appears under both pizzas.
	found := 0
	for _, p := range pizzas {
		for _, top := range p.Toppings {
			if top.Name == "Mozzarella" {
				found++
			}
		}
	}
	if found != 2 {
		t.Errorf("Mozzarella found %d times, want 2", found)
	}
}
