package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

type migration struct {
	Version  int
	Name     string
	SQLite   string
	Postgres string
}

func (m migration) sql(d Dialect) string {
	if d == Postgres {
		return m.Postgres
	}
	return m.SQLite
}

// Migrate runs all database migrations. Each pending migration is applied
// in its own unit of work together with its schema_migrations row.
func (db *DB) Migrate(ctx context.Context) error {
	log.Info().Msg("Running database migrations")

	var currentVersion int
	err := db.Transaction(ctx, func(ctx context.Context, s *Session) error {
		if _, err := s.exec(ctx, `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version INTEGER PRIMARY KEY,
				applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`); err != nil {
			return fmt.Errorf("failed to create migrations table: %w", err)
		}
		if err := s.queryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion); err != nil {
			return fmt.Errorf("failed to get current migration version: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Debug().Int("current_version", currentVersion).Msg("Current schema version")

	for _, m := range migrations {
		if m.Version <= currentVersion {
			continue
		}
		log.Info().Int("version", m.Version).Str("name", m.Name).Msg("Applying migration")

		if err := db.Transaction(ctx, func(ctx context.Context, s *Session) error {
			for i, stmt := range splitSQLStatements(m.sql(db.dialect)) {
				if _, err := s.exec(ctx, stmt); err != nil {
					return fmt.Errorf("migration %d statement %d failed: %w", m.Version, i+1, err)
				}
			}
			if _, err := s.exec(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
			}
			return nil
		}); err != nil {
			return err
		}
	}

	log.Info().Msg("Database migrations complete")
	return nil
}

// SchemaVersion returns the highest applied migration version.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := db.Transaction(ctx, func(ctx context.Context, s *Session) error {
		return s.queryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// splitSQLStatements splits a SQL string into individual statements.
// It handles comments and only returns non-empty statements.
func splitSQLStatements(sql string) []string {
	var statements []string
	var current strings.Builder

	for line := range strings.SplitSeq(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSpace(current.String())
			if stmt != "" && stmt != ";" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}

	if remaining := strings.TrimSpace(current.String()); remaining != "" {
		statements = append(statements, remaining)
	}

	return statements
}

// Foreign keys carry no ON DELETE action: the content service applies the
// configured delete policy and the constraint rejects anything it leaves behind.
var migrations = []migration{
	{
		Version: 1,
		Name:    "initial_schema",
		SQLite: `
			-- Runtime site settings
			CREATE TABLE settings (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);

			CREATE TABLE practice_areas (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE,
				description TEXT,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			);

			CREATE TABLE lawyers (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				title TEXT,
				bio TEXT,
				email TEXT UNIQUE,
				phone TEXT,
				experience_years INTEGER,
				photo_url TEXT,
				languages TEXT NOT NULL DEFAULT '[]',
				practice_area_id INTEGER REFERENCES practice_areas(id),
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			);
			CREATE INDEX idx_lawyers_practice_area ON lawyers(practice_area_id);

			CREATE TABLE case_outcomes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT NOT NULL,
				summary TEXT,
				outcome TEXT,
				resolved_on TEXT,
				lawyer_id INTEGER REFERENCES lawyers(id),
				practice_area_id INTEGER REFERENCES practice_areas(id),
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			);
			CREATE INDEX idx_case_outcomes_lawyer ON case_outcomes(lawyer_id);
			CREATE INDEX idx_case_outcomes_practice_area ON case_outcomes(practice_area_id);

			CREATE TABLE testimonials (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				client_name TEXT NOT NULL,
				message TEXT NOT NULL,
				rating INTEGER CHECK (rating BETWEEN 1 AND 5),
				lawyer_id INTEGER REFERENCES lawyers(id),
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			);
			CREATE INDEX idx_testimonials_lawyer ON testimonials(lawyer_id);
		`,
		Postgres: `
			CREATE TABLE settings (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
			);

			CREATE TABLE practice_areas (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL UNIQUE,
				description TEXT,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			);

			CREATE TABLE lawyers (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				title TEXT,
				bio TEXT,
				email TEXT UNIQUE,
				phone TEXT,
				experience_years BIGINT,
				photo_url TEXT,
				languages TEXT NOT NULL DEFAULT '[]',
				practice_area_id BIGINT REFERENCES practice_areas(id),
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			);
			CREATE INDEX idx_lawyers_practice_area ON lawyers(practice_area_id);

			CREATE TABLE case_outcomes (
				id BIGSERIAL PRIMARY KEY,
				title TEXT NOT NULL,
				summary TEXT,
				outcome TEXT,
				resolved_on TEXT,
				lawyer_id BIGINT REFERENCES lawyers(id),
				practice_area_id BIGINT REFERENCES practice_areas(id),
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			);
			CREATE INDEX idx_case_outcomes_lawyer ON case_outcomes(lawyer_id);
			CREATE INDEX idx_case_outcomes_practice_area ON case_outcomes(practice_area_id);

			CREATE TABLE testimonials (
				id BIGSERIAL PRIMARY KEY,
				client_name TEXT NOT NULL,
				message TEXT NOT NULL,
				rating BIGINT CHECK (rating BETWEEN 1 AND 5),
				lawyer_id BIGINT REFERENCES lawyers(id),
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			);
			CREATE INDEX idx_testimonials_lawyer ON testimonials(lawyer_id);
		`,
	},
	{
		Version: 2,
		Name:    "contact_messages",
		SQLite: `
			-- Inbound messages from the website contact form
			CREATE TABLE contact_messages (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				sender_name TEXT NOT NULL,
				sender_email TEXT NOT NULL,
				phone TEXT,
				preferred_contact_method TEXT,
				body TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL
			);
		`,
		Postgres: `
			CREATE TABLE contact_messages (
				id BIGSERIAL PRIMARY KEY,
				sender_name TEXT NOT NULL,
				sender_email TEXT NOT NULL,
				phone TEXT,
				preferred_contact_method TEXT,
				body TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL
			);
		`,
	},
	{
		Version: 3,
		Name:    "lawyer_name_index",
		SQLite: `
			-- Lawyer directory search filters on name
			CREATE INDEX idx_lawyers_name ON lawyers(name);
		`,
		Postgres: `
			CREATE INDEX idx_lawyers_name ON lawyers(name);
		`,
	},
}
