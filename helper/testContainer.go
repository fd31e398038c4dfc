package helper

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDatabaseName     = "database"
	testDatabaseUser     = "user"
	testDatabasePassword = "password"
)

// MustStartPostgresContainer starts a disposable Postgres and returns its teardown function and mapped port
func MustStartPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"postgres:17-alpine",
		postgres.WithDatabase(testDatabaseName),
		postgres.WithUsername(testDatabaseUser),
		postgres.WithPassword(testDatabasePassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("error starting postgres container: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return container.Terminate, "", fmt.Errorf("error getting mapped port: %w", err)
	}

	return container.Terminate, port.Port(), nil
}

// RunWithPostgresContainer runs the tests of a package against a disposable Postgres.
// The mapped port is written to port before the tests start. It exits with the test result.
func RunWithPostgresContainer(m *testing.M, port *string) {
	teardown, mappedPort, err := MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("error starting postgres container: %v", err)
	}
	*port = mappedPort

	code := m.Run()

	if err := teardown(context.Background()); err != nil {
		log.Fatalf("error tearing down postgres container: %v", err)
	}
	os.Exit(code)
}

// SetTestDatabaseConfigEnvs points the environment configuration at the test container
func SetTestDatabaseConfigEnvs(t *testing.T, port string) {
	t.Setenv("DATABASE_HOST", "localhost")
	t.Setenv("DATABASE_PORT", port)
	t.Setenv("DATABASE_NAME", testDatabaseName)
	t.Setenv("DATABASE_USER", testDatabaseUser)
	t.Setenv("DATABASE_PASSWORD", testDatabasePassword)
	t.Setenv("DATABASE_SCHEMA", "public")
	t.Setenv("DATABASE_SSL_MODE", "disable")
}

// NewTestDatabase opens a database with a silent logger
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	logger := slog.New(NewPrettyHandler(io.Discard, PrettyHandlerOptions{}))
	return NewDatabase("test", config, logger)
}
