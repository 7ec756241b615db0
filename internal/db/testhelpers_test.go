package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testPool общий на весь пакет; контейнер один на прогон.
var testPool *pgxpool.Pool

// TestMain поднимает PostgreSQL testcontainer и применяет миграции.
func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Printf("starting postgres container: %v", err)
		return 1
	}
	defer func() {
		_ = container.Terminate(ctx)
	}()

	host, err := container.Host(ctx)
	if err != nil {
		log.Printf("getting container host: %v", err)
		return 1
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		log.Printf("getting container port: %v", err)
		return 1
	}
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		log.Printf("connecting to test db: %v", err)
		return 1
	}
	defer testPool.Close()

	if err := RunMigrations(ctx, dsn); err != nil {
		log.Printf("running migrations: %v", err)
		return 1
	}

	return m.Run()
}

// setupTestDB возвращает shared pool, очищая таблицы для изоляции.
func setupTestDB(tb testing.TB) *pgxpool.Pool {
	tb.Helper()

	if _, err := testPool.Exec(context.Background(), "TRUNCATE core_progress CASCADE"); err != nil {
		tb.Fatalf("truncating core_progress: %v", err)
	}
	return testPool
}
