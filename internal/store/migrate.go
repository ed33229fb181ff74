package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun/dialect"
)

// Table describes one model to create on startup.
type Table struct {
	Name    string
	Model   any
	Indexes []Index
	// TouchUpdatedAt installs the PostgreSQL updated_at trigger.
	TouchUpdatedAt bool
}

type Index struct {
	Name    string
	Columns []string
}

// Migrate creates the tables and indexes if they do not exist yet.
func (s *Store) Migrate(ctx context.Context, tables ...Table) error {
	for _, t := range tables {
		if _, err := s.db.NewCreateTable().Model(t.Model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.Name, err)
		}
		for _, idx := range t.Indexes {
			_, err := s.db.NewCreateIndex().
				Model(t.Model).
				Index(idx.Name).
				Column(idx.Columns...).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create index %s: %w", idx.Name, err)
			}
		}
	}

	if s.Dialect() == dialect.PG {
		if err := s.createUpdateTriggers(ctx, tables); err != nil {
			return err
		}
	}

	s.logger.InfoContext(ctx, "database migrations completed successfully", "tables", len(tables))
	return nil
}

func (s *Store) createUpdateTriggers(ctx context.Context, tables []Table) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE OR REPLACE FUNCTION update_updated_at_column()
		RETURNS TRIGGER AS $$
		BEGIN
			NEW.updated_at = CURRENT_TIMESTAMP;
			RETURN NEW;
		END;
		$$ language 'plpgsql';
	`)
	if err != nil {
		return fmt.Errorf("failed to create trigger function: %w", err)
	}

	for _, t := range tables {
		if !t.TouchUpdatedAt {
			continue
		}
		_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
			DROP TRIGGER IF EXISTS update_%[1]s_updated_at ON %[1]s;
			CREATE TRIGGER update_%[1]s_updated_at
				BEFORE UPDATE ON %[1]s
				FOR EACH ROW
				EXECUTE FUNCTION update_updated_at_column();
		`, t.Name))
		if err != nil {
			return fmt.Errorf("failed to create trigger for %s: %w", t.Name, err)
		}
	}
	return nil
}

// SeedIfEmpty inserts rows into table only when it holds no records.
// It reports whether anything was inserted.
func (s *Store) SeedIfEmpty(ctx context.Context, table string, rows any) (bool, error) {
	var count int
	err := s.db.NewSelect().ColumnExpr("count(*)").Table(table).Scan(ctx, &count)
	if err != nil {
		return false, fmt.Errorf("failed to count %s: %w", table, err)
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.db.NewInsert().Model(rows).Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to seed %s: %w", table, err)
	}
	s.logger.InfoContext(ctx, "sample data inserted", "table", table)
	return true, nil
}
