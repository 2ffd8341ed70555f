package migrate_test

import (
	"testing"

	"github.com/scohe001/foreign-keys/migrate"
	"github.com/scohe001/foreign-keys/orm"
)

func mealsTable() *migrate.TableBuilder {
	t := migrate.Table("meals")
	t.Increments("id")
	t.Integer("user_id").NotNull()
	t.String("title", 255).NotNull()
	t.ForeignKey("user_id", "users", "id", orm.Cascade)
	return t
}

func TestCreateTableSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dialect orm.Dialect
		want    string
	}{
		{
			name:    "MySQL",
			dialect: orm.MySQL,
			want: "CREATE TABLE `meals` (" +
				"`id` INT AUTO_INCREMENT PRIMARY KEY, " +
				"`user_id` INT NOT NULL, " +
				"`title` VARCHAR(255) NOT NULL, " +
				"FOREIGN KEY (`user_id`) REFERENCES `users` (`id`) ON DELETE CASCADE)",
		},
		{
			name:    "PostgreSQL",
			dialect: orm.PostgreSQL,
			want: `CREATE TABLE "meals" (` +
				`"id" SERIAL PRIMARY KEY, ` +
				`"user_id" INTEGER NOT NULL, ` +
				`"title" VARCHAR(255) NOT NULL, ` +
				`FOREIGN KEY ("user_id") REFERENCES "users" ("id") ON DELETE CASCADE)`,
		},
		{
			name:    "SQLite",
			dialect: orm.SQLite,
			want: `CREATE TABLE "meals" (` +
				`"id" INTEGER PRIMARY KEY AUTOINCREMENT, ` +
				`"user_id" INTEGER NOT NULL, ` +
				`"title" VARCHAR(255) NOT NULL, ` +
				`FOREIGN KEY ("user_id") REFERENCES "users" ("id") ON DELETE CASCADE)`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := mealsTable().SQL(tt.dialect); got != tt.want {
				t.Errorf("SQL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreateTableSQLJoinTable(t *testing.T) {
	t.Parallel()

	tb := migrate.Table("pizza_toppings")
	tb.Integer("pizza_id").NotNull()
	tb.Integer("topping_id").NotNull()
	tb.PrimaryKey("pizza_id", "topping_id")
	tb.ForeignKey("pizza_id", "pizzas", "id", orm.Cascade)
	tb.ForeignKey("topping_id", "toppings", "id", orm.Restrict)

	want := `CREATE TABLE "pizza_toppings" (` +
		`"pizza_id" INTEGER NOT NULL, ` +
		`"topping_id" INTEGER NOT NULL, ` +
		`PRIMARY KEY ("pizza_id", "topping_id"), ` +
		`FOREIGN KEY ("pizza_id") REFERENCES "pizzas" ("id") ON DELETE CASCADE, ` +
		`FOREIGN KEY ("topping_id") REFERENCES "toppings" ("id") ON DELETE RESTRICT)`
	if got := tb.SQL(orm.SQLite); got != want {
		t.Errorf("SQL = %q, want %q", got, want)
	}
}

func TestCreateTableSQLNoActionOmitsClause(t *testing.T) {
	t.Parallel()

	tb := migrate.Table("dishes")
	tb.Increments("id")
	tb.Integer("protein_id")
	tb.ForeignKey("protein_id", "proteins", "id", orm.NoAction)

	want := `CREATE TABLE "dishes" (` +
		`"id" INTEGER PRIMARY KEY AUTOINCREMENT, ` +
		`"protein_id" INTEGER, ` +
		`FOREIGN KEY ("protein_id") REFERENCES "proteins" ("id"))`
	if got := tb.SQL(orm.SQLite); got != want {
		t.Errorf("SQL = %q, want %q", got, want)
	}
}

func TestColumnTypes(t *testing.T) {
	t.Parallel()

	tb := migrate.Table("samples")
	tb.BigInteger("big")
	tb.Text("notes")
	tb.Float("score")
	tb.Bool("active")
	tb.Timestamp("created_at")

	tests := []struct {
		name    string
		dialect orm.Dialect
		want    string
	}{
		{
			name:    "MySQL",
			dialect: orm.MySQL,
			want: "CREATE TABLE `samples` (" +
				"`big` BIGINT, `notes` TEXT, `score` DOUBLE, " +
				"`active` TINYINT(1), `created_at` DATETIME)",
		},
		{
			name:    "PostgreSQL",
			dialect: orm.PostgreSQL,
			want: `CREATE TABLE "samples" (` +
				`"big" BIGINT, "notes" TEXT, "score" DOUBLE PRECISION, ` +
				`"active" BOOLEAN, "created_at" TIMESTAMPTZ)`,
		},
		{
			name:    "SQLite",
			dialect: orm.SQLite,
			want: `CREATE TABLE "samples" (` +
				`"big" BIGINT, "notes" TEXT, "score" REAL, ` +
				`"active" BOOLEAN, "created_at" TIMESTAMP)`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tb.SQL(tt.dialect); got != tt.want {
				t.Errorf("SQL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColumnModifiers(t *testing.T) {
	t.Parallel()

	tb := migrate.Table("users")
	tb.Increments("id")
	tb.String("email", 255).NotNull().Unique()
	tb.String("role", 32).NotNull().Default("member")
	tb.Bool("active").NotNull().Default(true)

	want := `CREATE TABLE "users" (` +
		`"id" INTEGER PRIMARY KEY AUTOINCREMENT, ` +
		`"email" VARCHAR(255) NOT NULL UNIQUE, ` +
		`"role" VARCHAR(32) NOT NULL DEFAULT 'member', ` +
		`"active" BOOLEAN NOT NULL DEFAULT TRUE)`
	if got := tb.SQL(orm.SQLite); got != want {
		t.Errorf("SQL = %q, want %q", got, want)
	}
}

func TestBoolDefaultMySQL(t *testing.T) {
	t.Parallel()

	tb := migrate.Table("users")
	tb.Bool("active").Default(false)

	want := "CREATE TABLE `users` (`active` TINYINT(1) DEFAULT 0)"
	if got := tb.SQL(orm.MySQL); got != want {
		t.Errorf("SQL = %q, want %q", got, want)
	}
}

func TestStringDefaultQuoting(t *testing.T) {
	t.Parallel()

	tb := migrate.Table("notes")
	tb.Text("body").Default("it's fine")

	want := `CREATE TABLE "notes" ("body" TEXT DEFAULT 'it''s fine')`
	if got := tb.SQL(orm.SQLite); got != want {
		t.Errorf("SQL = %q, want %q", got, want)
	}
}
