// Package migrate provides versioned schema migrations on top of orm.
// Each migration runs inside a transaction together with its ledger entry,
// so a failed step leaves the schema_migrations table consistent.
package migrate

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/scohe001/foreign-keys/orm"
)

const ledgerTable = "schema_migrations"

// Migration is one versioned schema change. Up is required; Down may be nil
// for irreversible migrations, in which case rolling back past it fails.
type Migration struct {
	Version int64
	Name    string
	Up      func(ctx context.Context, tx *orm.Tx) error
	Down    func(ctx context.Context, tx *orm.Tx) error
}

// Migrator applies and rolls back an ordered set of migrations, recording
// progress in the schema_migrations table.
type Migrator struct {
	db         *orm.DB
	migrations []Migration
}

// New creates a Migrator. Migrations are sorted by version; duplicate
// versions are reported by Up/Down.
func New(db *orm.DB, migrations []Migration) *Migrator {
	sorted := append([]Migration(nil), migrations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })
	return &Migrator{db: db, migrations: sorted}
}

func (m *Migrator) validate() error {
	for i := 1; i < len(m.migrations); i++ {
		if m.migrations[i].Version == m.migrations[i-1].Version {
			return fmt.Errorf("migrate: duplicate version %d (%q and %q)",
				m.migrations[i].Version, m.migrations[i-1].Name, m.migrations[i].Name)
		}
	}
	for _, mg := range m.migrations {
		if mg.Up == nil {
			return fmt.Errorf("migrate: version %d (%q) has no Up", mg.Version, mg.Name)
		}
	}
	return nil
}

// Up applies every pending migration in version order and returns the number
// applied.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if len(m.migrations) == 0 {
		return 0, nil
	}
	return m.UpTo(ctx, m.migrations[len(m.migrations)-1].Version)
}

// UpTo applies pending migrations with Version <= version, in order.
func (m *Migrator) UpTo(ctx context.Context, version int64) (int, error) {
	if err := m.validate(); err != nil {
		return 0, err
	}
	if err := m.ensureLedger(ctx); err != nil {
		return 0, err
	}
	applied, err := m.appliedSet(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, mg := range m.migrations {
		if mg.Version > version {
			break
		}
		if applied[mg.Version] {
			continue
		}
		if err := m.applyOne(ctx, mg); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Down rolls back up to steps applied migrations, newest first, and returns
// the number rolled back.
func (m *Migrator) Down(ctx context.Context, steps int) (int, error) {
	if err := m.validate(); err != nil {
		return 0, err
	}
	if err := m.ensureLedger(ctx); err != nil {
		return 0, err
	}
	versions, err := m.Applied(ctx)
	if err != nil {
		return 0, err
	}

	byVersion := make(map[int64]Migration, len(m.migrations))
	for _, mg := range m.migrations {
		byVersion[mg.Version] = mg
	}

	n := 0
	for i := len(versions) - 1; i >= 0 && n < steps; i-- {
		mg, ok := byVersion[versions[i]]
		if !ok {
			return n, fmt.Errorf("migrate: applied version %d is unknown to this Migrator", versions[i])
		}
		if mg.Down == nil {
			return n, fmt.Errorf("migrate: version %d (%q) is irreversible", mg.Version, mg.Name)
		}
		if err := m.revertOne(ctx, mg); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Applied returns the applied migration versions in ascending order.
func (m *Migrator) Applied(ctx context.Context) ([]int64, error) {
	if err := m.ensureLedger(ctx); err != nil {
		return nil, err
	}
	d := m.db.Dialect()
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		d.QuoteIdent("version"), d.QuoteIdent(ledgerTable), d.QuoteIdent("version"))

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	defer func() { _ = rows.Close() }()

	var versions []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err //nolint:wrapcheck // pass through
		}
		versions = append(versions, v)
	}
	return versions, rows.Err() //nolint:wrapcheck // pass through
}

// Pending returns the migrations not yet applied, in version order.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	applied, err := m.appliedSet(ctx)
	if err != nil {
		return nil, err
	}
	var pending []Migration
	for _, mg := range m.migrations {
		if !applied[mg.Version] {
			pending = append(pending, mg)
		}
	}
	return pending, nil
}

func (m *Migrator) appliedSet(ctx context.Context) (map[int64]bool, error) {
	versions, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[int64]bool, len(versions))
	for _, v := range versions {
		set[v] = true
	}
	return set, nil
}

func (m *Migrator) applyOne(ctx context.Context, mg Migration) error {
	err := m.db.Transaction(ctx, func(tx *orm.Tx) error {
		if err := mg.Up(ctx, tx); err != nil {
			return err
		}
		return m.recordApplied(ctx, tx, mg)
	})
	if err != nil {
		return fmt.Errorf("migrate: apply %d (%s): %w", mg.Version, mg.Name, err)
	}
	return nil
}

func (m *Migrator) revertOne(ctx context.Context, mg Migration) error {
	err := m.db.Transaction(ctx, func(tx *orm.Tx) error {
		if err := mg.Down(ctx, tx); err != nil {
			return err
		}
		return m.removeApplied(ctx, tx, mg)
	})
	if err != nil {
		return fmt.Errorf("migrate: revert %d (%s): %w", mg.Version, mg.Name, err)
	}
	return nil
}

func (m *Migrator) recordApplied(ctx context.Context, tx *orm.Tx, mg Migration) error {
	d := tx.Dialect()
	query := fmt.Sprintf("INSERT INTO %s (%s, %s, %s) VALUES (%s)",
		d.QuoteIdent(ledgerTable),
		d.QuoteIdent("version"), d.QuoteIdent("name"), d.QuoteIdent("applied_at"),
		placeholders(d, 3))
	_, err := tx.ExecContext(ctx, query, mg.Version, mg.Name, time.Now().UTC())
	return err //nolint:wrapcheck // pass through
}

func (m *Migrator) removeApplied(ctx context.Context, tx *orm.Tx, mg Migration) error {
	d := tx.Dialect()
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
		d.QuoteIdent(ledgerTable), d.QuoteIdent("version"), placeholders(d, 1))
	_, err := tx.ExecContext(ctx, query, mg.Version)
	return err //nolint:wrapcheck // pass through
}

func (m *Migrator) ensureLedger(ctx context.Context) error {
	d := m.db.Dialect()
	var nameType string
	if d.Name() == "mysql" {
		nameType = "VARCHAR(255)"
	} else {
		nameType = "TEXT"
	}
	query := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s BIGINT PRIMARY KEY, %s %s NOT NULL, %s %s NOT NULL)",
		d.QuoteIdent(ledgerTable),
		d.QuoteIdent("version"),
		d.QuoteIdent("name"), nameType,
		d.QuoteIdent("applied_at"), timestampType(d),
	)
	_, err := m.db.ExecContext(ctx, query)
	return err //nolint:wrapcheck // pass through
}

func timestampType(d orm.Dialect) string {
	switch d.Name() {
	case "mysql":
		return "DATETIME"
	case "postgres":
		return "TIMESTAMPTZ"
	default:
		return "TIMESTAMP"
	}
}

func placeholders(d orm.Dialect, n int) string {
	parts := make([]string, n)
	for i := range parts {
		if d.OrdinalPlaceholders() {
			parts[i] = d.Placeholder(i + 1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}
