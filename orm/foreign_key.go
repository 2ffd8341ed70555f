package orm

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

// ReferentialAction is the behavior applied to referencing rows when their
// parent row is deleted.
type ReferentialAction int

const (
	// NoAction leaves referencing rows untouched; the database (or nothing)
	// is expected to enforce the constraint.
	NoAction ReferentialAction = iota
	// Restrict rejects the delete while referencing rows exist.
	Restrict
	// Cascade deletes referencing rows along with the parent.
	Cascade
	// SetNull clears the referencing column on child rows.
	SetNull
)

// String returns the SQL keyword form: "NO ACTION", "RESTRICT", "CASCADE",
// "SET NULL".
func (a ReferentialAction) String() string {
	switch a {
	case Restrict:
		return "RESTRICT"
	case Cascade:
		return "CASCADE"
	case SetNull:
		return "SET NULL"
	default:
		return "NO ACTION"
	}
}

// ParseReferentialAction parses the tag/DSL spelling of an action:
// "restrict", "cascade", "set_null", "no_action" (case-insensitive).
func ParseReferentialAction(s string) (ReferentialAction, error) {
	switch strings.ToLower(s) {
	case "", "no_action", "noaction":
		return NoAction, nil
	case "restrict":
		return Restrict, nil
	case "cascade":
		return Cascade, nil
	case "set_null", "setnull":
		return SetNull, nil
	default:
		return NoAction, fmt.Errorf("orm: unknown referential action %q", s)
	}
}

// ForeignKey declares that a column on this table references a column on a
// parent table. Registered by generated factory functions; enforced by
// Create/Update/Upsert when CheckForeignKeys is enabled.
type ForeignKey struct {
	Column       string // column on this table holding the reference
	ParentTable  string
	ParentColumn string
}

// ChildRef declares that a column on another table references this table's
// primary key, together with the action applied on delete. Registered by
// generated factory functions for has_many / has_one / many_to_many
// relations; honored by Delete when CheckForeignKeys is enabled.
type ChildRef struct {
	Table    string // child table
	Column   string // child column referencing this table's PK
	OnDelete ReferentialAction
}

// checkParentExists runs a SELECT 1 existence probe for one foreign key value.
func checkParentExists(ctx context.Context, db Querier, table string, fk ForeignKey, value any) error {
	d := db.dialect()
	qi := d.QuoteIdent

	query := fmt.Sprintf("SELECT 1 FROM %s WHERE %s = ? LIMIT 1",
		qi(fk.ParentTable), qi(fk.ParentColumn))
	query = rewritePlaceholders(d, query)

	rows, err := db.QueryContext(ctx, query, value)
	if err != nil {
		return err //nolint:wrapcheck // pass through
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err //nolint:wrapcheck // pass through
		}
		return &ForeignKeyError{
			Table:        table,
			Column:       fk.Column,
			ParentTable:  fk.ParentTable,
			ParentColumn: fk.ParentColumn,
			Value:        value,
		}
	}
	return rows.Err() //nolint:wrapcheck // pass through
}

// applyChildRef applies one ChildRef to the given parent PK values before
// those parents are deleted.
func applyChildRef(ctx context.Context, db Querier, table string, ref ChildRef, parentIDs []any) error {
	if len(parentIDs) == 0 {
		return nil
	}

	d := db.dialect()
	qi := d.QuoteIdent
	in := strings.TrimSuffix(strings.Repeat("?, ", len(parentIDs)), ", ")

	switch ref.OnDelete {
	case Restrict:
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s IN (%s)",
			qi(ref.Table), qi(ref.Column), in)
		query = rewritePlaceholders(d, query)
		rows, err := db.QueryContext(ctx, query, parentIDs...)
		if err != nil {
			return err //nolint:wrapcheck // pass through
		}
		defer func() { _ = rows.Close() }()
		var count int64
		if rows.Next() {
			if err := rows.Scan(&count); err != nil {
				return err //nolint:wrapcheck // pass through
			}
		}
		if err := rows.Err(); err != nil {
			return err //nolint:wrapcheck // pass through
		}
		if count > 0 {
			return &RestrictError{Table: table, ChildTable: ref.Table, ChildColumn: ref.Column, Count: count}
		}
		return nil

	case Cascade:
		query := fmt.Sprintf("DELETE FROM %s WHERE %s IN (%s)",
			qi(ref.Table), qi(ref.Column), in)
		query = rewritePlaceholders(d, query)
		_, err := db.ExecContext(ctx, query, parentIDs...)
		return err //nolint:wrapcheck // pass through

	case SetNull:
		query := fmt.Sprintf("UPDATE %s SET %s = NULL WHERE %s IN (%s)",
			qi(ref.Table), qi(ref.Column), qi(ref.Column), in)
		query = rewritePlaceholders(d, query)
		_, err := db.ExecContext(ctx, query, parentIDs...)
		return err //nolint:wrapcheck // pass through

	default:
		return nil
	}
}

// isNilValue reports whether a column value represents SQL NULL
// (untyped nil or a nil pointer). NULL foreign keys are not checked.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
