package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cognicore/arcana/pkg/arcana/internalerr"
	"github.com/cognicore/arcana/pkg/arcana/kb"
	"github.com/cognicore/arcana/pkg/arcana/store"
)

// sqliteStore implements store.RuleStore using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// rule schema if needed.
func OpenSQLite(ctx context.Context, path string) (store.RuleStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS rules (
	ordinal INTEGER PRIMARY KEY,
	id TEXT NOT NULL,
	condition1 TEXT NOT NULL,
	condition2 TEXT,
	conclusion TEXT NOT NULL,
	explanation TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_rules_conclusion ON rules(conclusion);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// Rules returns the rule base ordered by declaration position.
func (s *sqliteStore) Rules(ctx context.Context) ([]kb.Rule, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, condition1, condition2, conclusion, explanation
FROM rules
ORDER BY ordinal`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []kb.Rule
	for rows.Next() {
		var (
			r  kb.Rule
			c1 string
			c2 sql.NullString
		)
		if err := rows.Scan(&r.ID, &c1, &c2, &r.Conclusion, &r.Explanation); err != nil {
			return nil, err
		}
		r.Conditions = []string{c1}
		if c2.Valid {
			r.Conditions = append(r.Conditions, c2.String)
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// ReplaceRules swaps the stored rule base in a single transaction.
func (s *sqliteStore) ReplaceRules(ctx context.Context, rules []kb.Rule) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rules`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO rules (ordinal, id, condition1, condition2, conclusion, explanation)
VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range rules {
		if len(r.Conditions) < 1 || len(r.Conditions) > 2 {
			return fmt.Errorf("rule %q has %d conditions: %w", r.ID, len(r.Conditions), internalerr.ErrInvalidInput)
		}
		var c2 sql.NullString
		if len(r.Conditions) == 2 {
			c2 = sql.NullString{String: r.Conditions[1], Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, i, r.ID, r.Conditions[0], c2, r.Conclusion, r.Explanation); err != nil {
			return err
		}
	}

	return tx.Commit()
}
