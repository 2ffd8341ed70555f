package orm

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a query expects exactly one row but finds none.
var ErrNotFound = errors.New("orm: not found")

// ErrForeignKeyViolation is returned when an insert or update carries a
// foreign-key value with no matching parent row. Match with errors.Is;
// the concrete error is a *ForeignKeyError.
var ErrForeignKeyViolation = errors.New("orm: foreign key violation")

// ErrRestrictViolation is returned when a delete is rejected because child
// rows still reference the row being deleted. Match with errors.Is;
// the concrete error is a *RestrictError.
var ErrRestrictViolation = errors.New("orm: restricted by referencing rows")

// ForeignKeyError describes a failed parent-existence check.
type ForeignKeyError struct {
	Table        string // table holding the foreign key
	Column       string // foreign key column
	ParentTable  string // referenced table
	ParentColumn string // referenced column
	Value        any    // offending value
}

func (e *ForeignKeyError) Error() string {
	return fmt.Sprintf("orm: %s.%s = %v has no matching row in %s.%s",
		e.Table, e.Column, e.Value, e.ParentTable, e.ParentColumn)
}

func (e *ForeignKeyError) Unwrap() error { return ErrForeignKeyViolation }

// RestrictError describes a delete rejected by a RESTRICT reference.
type RestrictError struct {
	Table       string // table the delete targeted
	ChildTable  string // table holding the referencing rows
	ChildColumn string // referencing column
	Count       int64  // number of referencing rows found
}

func (e *RestrictError) Error() string {
	return fmt.Sprintf("orm: cannot delete from %s: %d row(s) in %s.%s still reference it",
		e.Table, e.Count, e.ChildTable, e.ChildColumn)
}

func (e *RestrictError) Unwrap() error { return ErrRestrictViolation }
