package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"vctbuilder/internal/project/models"
	"vctbuilder/pkg/platform/sentinel"
)

// SQLiteStore persists projects in a single-file SQLite database. Timestamps
// are stored as Unix nanoseconds so ordering does not depend on text format.
type SQLiteStore struct {
	db *sql.DB
}

var sqliteSchema = []string{
	`PRAGMA journal_mode=WAL;`,
	`PRAGMA busy_timeout=5000;`,
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT    NOT NULL,
		document    TEXT    NOT NULL,
		sample_data TEXT    NOT NULL DEFAULT '{}',
		created_at  INTEGER NOT NULL,
		updated_at  INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_projects_updated_at ON projects (updated_at DESC);`,
}

// OpenSQLite opens or creates the database at path and ensures the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init sqlite schema: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Health pings the database for the readiness probe.
func (s *SQLiteStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Save upserts by ID; created_at is kept from the first insert.
func (s *SQLiteStore) Save(ctx context.Context, p *models.Project) error {
	if p == nil {
		return fmt.Errorf("project is required")
	}
	doc, err := json.Marshal(p.VCT)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	sample, err := json.Marshal(sampleOrEmpty(p.SampleData))
	if err != nil {
		return fmt.Errorf("marshal sample data: %w", err)
	}

	query := `
		INSERT INTO projects (id, name, document, sample_data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET name = excluded.name,
			document = excluded.document,
			sample_data = excluded.sample_data,
			updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		p.ID.String(), p.Name, string(doc), string(sample),
		p.CreatedAt.UnixNano(), p.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `
		SELECT id, name, document, sample_data, created_at, updated_at
		FROM projects
		WHERE id = ?
	`
	p, err := scanSQLiteProject(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]*models.Project, error) {
	query := `
		SELECT id, name, document, sample_data, created_at, updated_at
		FROM projects
		ORDER BY updated_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []*models.Project
	for rows.Next() {
		p, err := scanSQLiteProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return out, nil
}

func scanSQLiteProject(row projectRow) (*models.Project, error) {
	var (
		id, name, doc, sample string
		created, updated      int64
	)
	if err := row.Scan(&id, &name, &doc, &sample, &created, &updated); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse project id: %w", err)
	}
	p := &models.Project{
		ID:        parsed,
		Name:      name,
		CreatedAt: time.Unix(0, created).UTC(),
		UpdatedAt: time.Unix(0, updated).UTC(),
	}
	document, err := models.DecodeDocument([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	p.VCT = document
	p.SampleData = sampleOrEmpty(nil)
	if sample != "" {
		if err := json.Unmarshal([]byte(sample), &p.SampleData); err != nil {
			return nil, fmt.Errorf("unmarshal sample data: %w", err)
		}
	}
	return p, nil
}
