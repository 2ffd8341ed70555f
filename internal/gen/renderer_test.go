package gen_test

import (
	"strings"
	"testing"

	"github.com/jinzhu/inflection"

	"github.com/scohe001/foreign-keys/internal/gen"
	"github.com/scohe001/foreign-keys/internal/naming"
)

// renderTestdata parses a testdata file, infers table names the way the CLI
// does, and renders the whole file.
func renderTestdata(t *testing.T, name string, opt gen.RenderOption) string {
	t.Helper()

	infos, err := gen.Parse(testdataPath(name))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, info := range infos {
		info.TableName = inflection.Plural(naming.CamelToSnake(info.Name))
	}
	src, err := gen.RenderFile(infos, opt)
	if err != nil {
		t.Fatalf("RenderFile: %v", err)
	}
	return string(src)
}

func assertContains(t *testing.T, src string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(src, want) {
			t.Errorf("rendered output missing %q", want)
		}
	}
}

func assertNotContains(t *testing.T, src string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if strings.Contains(src, want) {
			t.Errorf("rendered output unexpectedly contains %q", want)
		}
	}
}

func TestRenderFile(t *testing.T) {
	t.Parallel()

	src := renderTestdata(t, "user.go", gen.RenderOption{})

	assertContains(t, src,
		"// Code generated by fkgen; DO NOT EDIT.",
		"package testdata",
		"func Users(db orm.Querier) *orm.Query[User]",
		"func Meals(db orm.Querier) *orm.Query[Meal]",
		`orm.ResolveTableName[User]("users")`,
		"func scanUser(rows *sql.Rows) (User, error)",
		"func userColumnValuePairs(v *User, includesPK bool)",
	)

	// User has a string PK, Meal an int PK. Only Meal gets a SetPK func.
	assertContains(t, src, "func setMealPK(v *Meal, id int64)")
	assertNotContains(t, src, "func setUserPK")
}

func TestRenderHasMany(t *testing.T) {
	t.Parallel()

	src := renderTestdata(t, "user.go", gen.RenderOption{})

	assertContains(t, src,
		`q.RegisterJoin("Meals", orm.JoinConfig{`,
		`TargetTable: orm.ResolveTableName[Meal]("meals"), TargetColumn: "user_id"`,
		`SourceTable: orm.ResolveTableName[User]("users"), SourceColumn: "id"`,
		`q.RegisterPreloader("Meals", preloadUserMeals)`,
		"func preloadUserMeals(ctx context.Context, db orm.Querier, results []User) error",
		`scope.In("user_id", ids)`,
	)

	// on_delete:cascade registers a child reference on the meals table.
	assertContains(t, src,
		`q.RegisterReference(orm.ChildRef{Table: "meals", Column: "user_id", OnDelete: orm.Cascade})`,
	)
}

func TestRenderTimestamps(t *testing.T) {
	t.Parallel()

	src := renderTestdata(t, "user.go", gen.RenderOption{})

	assertContains(t, src,
		"q.RegisterTimestamps(",
		`[]string{"created_at"}`,
		"setUserCreatedAt,",
		"setUserUpdatedAt,",
		"func setUserCreatedAt(v *User, now time.Time)",
		"func setUserUpdatedAt(v *User, now time.Time)",
		"if v.CreatedAt.IsZero()",
	)

	// Meal has no timestamp columns.
	assertNotContains(t, src, "setMealCreatedAt")
}

func TestRenderBelongsTo(t *testing.T) {
	t.Parallel()

	src := renderTestdata(t, "relations.go", gen.RenderOption{})

	// Dish.Protein registers a parent-existence check on proteins.id.
	assertContains(t, src,
		"q.RegisterForeignKey(orm.ForeignKey{",
		`Column: "protein_id", ParentTable: orm.ResolveTableName[Protein]("proteins"), ParentColumn: "id"`,
	)

	// Protein.Dishes with on_delete:set_null.
	assertContains(t, src,
		`q.RegisterReference(orm.ChildRef{Table: "dishes", Column: "protein_id", OnDelete: orm.SetNull})`,
	)

	// Pointer FK: preloader skips nil foreign keys.
	assertContains(t, src,
		"if results[i].ProteinID != nil",
		"ids = append(ids, *results[i].ProteinID)",
	)
}

func TestRenderHasManyNullableFK(t *testing.T) {
	t.Parallel()

	src := renderTestdata(t, "relations.go", gen.RenderOption{})

	// Dishes with cleared protein_id are grouped under no protein.
	assertContains(t, src,
		"if r.ProteinID != nil {",
		"byFK[*r.ProteinID] = append(byFK[*r.ProteinID], r)",
	)
}

func TestRenderJoinScan(t *testing.T) {
	t.Parallel()

	src := renderTestdata(t, "relations.go", gen.RenderOption{})

	// belongs_to in the same package gets aliased join columns and scan cases.
	assertContains(t, src,
		`SelectColumns: []string{"id", "name"}`,
		`case "Protein__id":`,
		`case "Protein__name":`,
		"var joinScanProteinPK sql.NullInt64",
		"var joinScanProtein Protein",
		"if joinScanProteinPK.Valid {",
		"v.Protein = &joinScanProtein",
	)
}

func TestRenderManyToMany(t *testing.T) {
	t.Parallel()

	src := renderTestdata(t, "relations.go", gen.RenderOption{})

	assertContains(t, src,
		"orm.QueryJoinTable[int, int]",
		`ctx, db, "pizza_toppings", "pizza_id", "topping_id", ids,`,
		"orm.UniqueTargets(pairs)",
		"orm.GroupBySource(pairs)",
	)

	// Join rows cascade by default on the Pizza side; the Topping side
	// declares restrict explicitly.
	assertContains(t, src,
		`q.RegisterReference(orm.ChildRef{Table: "pizza_toppings", Column: "pizza_id", OnDelete: orm.Cascade})`,
		`q.RegisterReference(orm.ChildRef{Table: "pizza_toppings", Column: "topping_id", OnDelete: orm.Restrict})`,
	)

	// many_to_many never emits a RegisterJoin (no single-query join scan).
	assertNotContains(t, src, `q.RegisterJoin("Toppings"`)
}

func TestRenderCrossPackage(t *testing.T) {
	t.Parallel()

	src := renderTestdata(t, "cross_pkg_relations.go", gen.RenderOption{})

	assertContains(t, src,
		`"github.com/example/auth/model"`,
		"func preloadEndUserOAuthAccounts(ctx context.Context, db orm.Querier, results []EndUser) error",
		"[]model.OAuthAccount",
	)

	// has_one within the same package still gets join scan support.
	assertContains(t, src,
		`q.RegisterJoin("Email", orm.JoinConfig{`,
		`case "Email__address":`,
	)
}

func TestRenderSeparateDestPackage(t *testing.T) {
	t.Parallel()

	src := renderTestdata(t, "user.go", gen.RenderOption{
		DestPkg:      "query",
		SourceImport: "github.com/example/app/model",
	})

	assertContains(t, src,
		"package query",
		`"github.com/example/app/model"`,
		"func Users(db orm.Querier) *orm.Query[model.User]",
		"func scanUser(rows *sql.Rows) (model.User, error)",
		"results []model.User",
	)
}

func TestRenderNoPrimaryKey(t *testing.T) {
	t.Parallel()

	infos, err := gen.Parse(testdataPath("no_pk.go"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, info := range infos {
		info.TableName = inflection.Plural(naming.CamelToSnake(info.Name))
	}

	_, err = gen.RenderFile(infos, gen.RenderOption{})
	if err == nil {
		t.Fatal("expected error for struct without primary key, got nil")
	}
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	_, err := gen.RenderFile(nil, gen.RenderOption{})
	if err == nil {
		t.Fatal("expected error for empty input, got nil")
	}
}

func TestRenderCustomPrimaryKeyTarget(t *testing.T) {
	t.Parallel()

	src := renderTestdata(t, "custom_pk.go", gen.RenderOption{})

	// belongs_to a target whose PK is not "id": the join, the FK
	// registration, and the preloader must all use the declared PK.
	assertContains(t, src,
		`TargetTable: orm.ResolveTableName[Account]("accounts"), TargetColumn: "uid"`,
		`Column: "account_uid", ParentTable: orm.ResolveTableName[Account]("accounts"), ParentColumn: "uid"`,
		`Accounts(db).Scopes(scope.In("uid", ids)).All(ctx)`,
		"byPK := make(map[string]*Account)",
		"byPK[related[i].UID] = &related[i]",
		`case "Account__uid":`,
	)
	assertNotContains(t, src,
		`ParentColumn: "id"`,
		"byPK[related[i].ID]",
	)

	// many_to_many with a string-keyed target: join pairs and the PK map
	// take the target's key type, not the source's.
	assertContains(t, src,
		"orm.QueryJoinTable[int, string]",
		`"team_accounts", "team_id", "account_uid", ids`,
		`Accounts(db).Scopes(scope.In("uid", targetIDs)).All(ctx)`,
		"byPK := make(map[string]Account)",
		"byPK[r.UID] = r",
	)
}
