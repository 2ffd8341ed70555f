package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/scohe001/foreign-keys/orm"
)

type columnKind int

const (
	kindIncrements columnKind = iota
	kindInteger
	kindBigInteger
	kindText
	kindString
	kindFloat
	kindBool
	kindTimestamp
)

// ColumnBuilder describes one column of a table under construction.
// Modifier methods return the receiver for chaining.
type ColumnBuilder struct {
	name       string
	kind       columnKind
	size       int
	notNull    bool
	unique     bool
	hasDefault bool
	defaultVal any
}

// NotNull marks the column NOT NULL.
func (c *ColumnBuilder) NotNull() *ColumnBuilder {
	c.notNull = true
	return c
}

// Unique adds a UNIQUE constraint to the column.
func (c *ColumnBuilder) Unique() *ColumnBuilder {
	c.unique = true
	return c
}

// Default sets the column default. Strings are quoted, bools rendered per
// dialect, everything else is formatted verbatim.
func (c *ColumnBuilder) Default(v any) *ColumnBuilder {
	c.hasDefault = true
	c.defaultVal = v
	return c
}

type foreignKeyDef struct {
	column       string
	parentTable  string
	parentColumn string
	onDelete     orm.ReferentialAction
}

// TableBuilder accumulates column and constraint definitions for a
// CREATE TABLE statement. Obtain one via Table or CreateTable.
type TableBuilder struct {
	name    string
	columns []*ColumnBuilder
	fks     []foreignKeyDef
	pk      []string
}

// Table starts a new table definition.
func Table(name string) *TableBuilder {
	return &TableBuilder{name: name}
}

func (t *TableBuilder) add(name string, kind columnKind) *ColumnBuilder {
	c := &ColumnBuilder{name: name, kind: kind}
	t.columns = append(t.columns, c)
	return c
}

// Increments adds an auto-incrementing integer primary key column.
func (t *TableBuilder) Increments(name string) *ColumnBuilder {
	return t.add(name, kindIncrements)
}

// Integer adds an integer column.
func (t *TableBuilder) Integer(name string) *ColumnBuilder {
	return t.add(name, kindInteger)
}

// BigInteger adds a 64-bit integer column.
func (t *TableBuilder) BigInteger(name string) *ColumnBuilder {
	return t.add(name, kindBigInteger)
}

// Text adds an unbounded text column.
func (t *TableBuilder) Text(name string) *ColumnBuilder {
	return t.add(name, kindText)
}

// String adds a VARCHAR(size) column.
func (t *TableBuilder) String(name string, size int) *ColumnBuilder {
	c := t.add(name, kindString)
	c.size = size
	return c
}

// Float adds a double-precision floating point column.
func (t *TableBuilder) Float(name string) *ColumnBuilder {
	return t.add(name, kindFloat)
}

// Bool adds a boolean column.
func (t *TableBuilder) Bool(name string) *ColumnBuilder {
	return t.add(name, kindBool)
}

// Timestamp adds a timestamp column.
func (t *TableBuilder) Timestamp(name string) *ColumnBuilder {
	return t.add(name, kindTimestamp)
}

// PrimaryKey declares a composite primary key over the given columns.
// Single-column integer keys are better expressed with Increments.
func (t *TableBuilder) PrimaryKey(columns ...string) {
	t.pk = columns
}

// ForeignKey declares a table-level foreign key constraint with an
// on-delete action. NoAction omits the ON DELETE clause.
func (t *TableBuilder) ForeignKey(column, parentTable, parentColumn string, onDelete orm.ReferentialAction) {
	t.fks = append(t.fks, foreignKeyDef{
		column:       column,
		parentTable:  parentTable,
		parentColumn: parentColumn,
		onDelete:     onDelete,
	})
}

// SQL renders the CREATE TABLE statement for the given dialect.
func (t *TableBuilder) SQL(d orm.Dialect) string {
	qi := d.QuoteIdent

	var defs []string
	for _, c := range t.columns {
		defs = append(defs, columnSQL(d, c))
	}
	if len(t.pk) > 0 {
		quoted := make([]string, len(t.pk))
		for i, col := range t.pk {
			quoted[i] = qi(col)
		}
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(quoted, ", ")))
	}
	for _, fk := range t.fks {
		def := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)",
			qi(fk.column), qi(fk.parentTable), qi(fk.parentColumn))
		if fk.onDelete != orm.NoAction {
			def += " ON DELETE " + fk.onDelete.String()
		}
		defs = append(defs, def)
	}

	return fmt.Sprintf("CREATE TABLE %s (%s)", qi(t.name), strings.Join(defs, ", "))
}

func columnSQL(d orm.Dialect, c *ColumnBuilder) string {
	def := d.QuoteIdent(c.name) + " " + columnType(d, c)
	if c.notNull {
		def += " NOT NULL"
	}
	if c.unique {
		def += " UNIQUE"
	}
	if c.hasDefault {
		def += " DEFAULT " + defaultSQL(d, c.defaultVal)
	}
	return def
}

func columnType(d orm.Dialect, c *ColumnBuilder) string {
	name := d.Name()
	switch c.kind {
	case kindIncrements:
		switch name {
		case "mysql":
			return "INT AUTO_INCREMENT PRIMARY KEY"
		case "postgres":
			return "SERIAL PRIMARY KEY"
		default:
			return "INTEGER PRIMARY KEY AUTOINCREMENT"
		}
	case kindInteger:
		if name == "mysql" {
			return "INT"
		}
		return "INTEGER"
	case kindBigInteger:
		return "BIGINT"
	case kindText:
		return "TEXT"
	case kindString:
		return fmt.Sprintf("VARCHAR(%d)", c.size)
	case kindFloat:
		switch name {
		case "mysql":
			return "DOUBLE"
		case "postgres":
			return "DOUBLE PRECISION"
		default:
			return "REAL"
		}
	case kindBool:
		if name == "mysql" {
			return "TINYINT(1)"
		}
		return "BOOLEAN"
	case kindTimestamp:
		switch name {
		case "mysql":
			return "DATETIME"
		case "postgres":
			return "TIMESTAMPTZ"
		default:
			return "TIMESTAMP"
		}
	default:
		return "TEXT"
	}
}

func defaultSQL(d orm.Dialect, v any) string {
	switch val := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case bool:
		if d.Name() == "mysql" {
			if val {
				return "1"
			}
			return "0"
		}
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// CreateTable builds a table definition via fn and executes it on tx.
func CreateTable(ctx context.Context, tx *orm.Tx, name string, fn func(t *TableBuilder)) error {
	t := Table(name)
	fn(t)
	_, err := tx.ExecContext(ctx, t.SQL(tx.Dialect()))
	return err //nolint:wrapcheck // pass through
}

// DropTable executes DROP TABLE on tx.
func DropTable(ctx context.Context, tx *orm.Tx, name string) error {
	_, err := tx.ExecContext(ctx, "DROP TABLE "+tx.Dialect().QuoteIdent(name))
	return err //nolint:wrapcheck // pass through
}

// AddColumn builds column definitions via fn and adds each to table with a
// separate ALTER TABLE statement.
func AddColumn(ctx context.Context, tx *orm.Tx, table string, fn func(t *TableBuilder)) error {
	t := Table(table)
	fn(t)
	d := tx.Dialect()
	for _, c := range t.columns {
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s",
			d.QuoteIdent(table), columnSQL(d, c))
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err //nolint:wrapcheck // pass through
		}
	}
	return nil
}

// DropColumn removes a column from table.
func DropColumn(ctx context.Context, tx *orm.Tx, table, column string) error {
	d := tx.Dialect()
	stmt := fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s",
		d.QuoteIdent(table), d.QuoteIdent(column))
	_, err := tx.ExecContext(ctx, stmt)
	return err //nolint:wrapcheck // pass through
}

// CreateIndex creates an index named name on table over columns.
func CreateIndex(ctx context.Context, tx *orm.Tx, name, table string, columns ...string) error {
	d := tx.Dialect()
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = d.QuoteIdent(col)
	}
	stmt := fmt.Sprintf("CREATE INDEX %s ON %s (%s)",
		d.QuoteIdent(name), d.QuoteIdent(table), strings.Join(quoted, ", "))
	_, err := tx.ExecContext(ctx, stmt)
	return err //nolint:wrapcheck // pass through
}

// DropIndex drops the named index. MySQL scopes indexes to tables, the
// others drop by name alone.
func DropIndex(ctx context.Context, tx *orm.Tx, name, table string) error {
	d := tx.Dialect()
	stmt := "DROP INDEX " + d.QuoteIdent(name)
	if d.Name() == "mysql" {
		stmt += " ON " + d.QuoteIdent(table)
	}
	_, err := tx.ExecContext(ctx, stmt)
	return err //nolint:wrapcheck // pass through
}
