//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"vctbuilder/internal/platform/database"
	"vctbuilder/migrations"
)

const postgresImage = "postgres:18-alpine"

type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	c, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("vct_projects"),
		postgres.WithUsername("vct"),
		postgres.WithPassword("vct"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		abort(t, c, "postgres dsn: %v", err)
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		abort(t, c, "open postgres: %v", err)
	}
	if err := database.Migrate(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		abort(t, c, "migrate postgres: %v", err)
	}
	return &PostgresContainer{Container: c, DSN: dsn, DB: db}
}

// Reset empties the projects table between tests.
func (p *PostgresContainer) Reset(ctx context.Context) error {
	if _, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE projects"); err != nil {
		return fmt.Errorf("truncate projects: %w", err)
	}
	return nil
}
