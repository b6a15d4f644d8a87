package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"vctbuilder/internal/project/models"
	vct "vctbuilder/internal/vct/models"
	"vctbuilder/pkg/platform/sentinel"
)

// PostgresStore persists projects in PostgreSQL. Documents are stored as JSONB.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Save upserts by ID; created_at is kept from the first insert.
func (s *PostgresStore) Save(ctx context.Context, p *models.Project) error {
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
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			document = EXCLUDED.document,
			sample_data = EXCLUDED.sample_data,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(ctx, query, p.ID, p.Name, doc, sample, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return translate(err, "save project")
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `
		SELECT id, name, document, sample_data, created_at, updated_at
		FROM projects
		WHERE id = $1
	`
	p, err := scanProject(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, translate(err, "find project")
	}
	return p, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return translate(err, "delete project")
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

func (s *PostgresStore) List(ctx context.Context) ([]*models.Project, error) {
	query := `
		SELECT id, name, document, sample_data, created_at, updated_at
		FROM projects
		ORDER BY updated_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, translate(err, "list projects")
	}
	defer rows.Close()

	var out []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
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

type projectRow interface {
	Scan(dest ...any) error
}

func scanProject(row projectRow) (*models.Project, error) {
	var (
		p           models.Project
		doc, sample []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &doc, &sample, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	document, err := models.DecodeDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	p.VCT = document
	p.SampleData = vct.SampleData{}
	if len(sample) > 0 {
		if err := json.Unmarshal(sample, &p.SampleData); err != nil {
			return nil, fmt.Errorf("unmarshal sample data: %w", err)
		}
	}
	return &p, nil
}

func sampleOrEmpty(s vct.SampleData) vct.SampleData {
	if s == nil {
		return vct.SampleData{}
	}
	return s
}

// translate maps a missing schema to sentinel.ErrUnavailable so the service
// can report it without leaking driver errors.
func translate(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42P01" {
		return fmt.Errorf("%s: %w", op, sentinel.ErrUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}
