package pgutil

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"

	"github.com/chainsafe/payment-verifier/pkg/config"
)

const (
	testImage    = "postgres:15-alpine"
	testDatabase = "payments_test"
	testUser     = "test_user"
	testPassword = "test_pass"

	connectAttempts = 8
)

// RequireDockerAccess skips the test when no docker daemon socket is reachable.
func RequireDockerAccess(t *testing.T) {
	t.Helper()

	candidates := []string{
		"/var/run/docker.sock",
		filepath.Join(os.Getenv("HOME"), ".docker/run/docker.sock"),
	}
	for _, sock := range candidates {
		if _, err := os.Stat(sock); err != nil {
			continue
		}
		conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", sock)
		if err == nil {
			_ = conn.Close()
			return
		}
	}

	t.Skip("docker daemon socket is not accessible; skipping testcontainer-backed tests")
}

// SetupTestDB starts a throwaway postgres container and connects to it. The
// returned cleanup closes the connection and removes the container.
func SetupTestDB(t *testing.T) (*bun.DB, func()) {
	t.Helper()
	RequireDockerAccess(t)
	ctx := context.Background()

	container, err := postgres.Run(ctx, testImage,
		postgres.WithDatabase(testDatabase),
		postgres.WithUsername(testUser),
		postgres.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	terminate := func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	cfg, err := containerConfig(ctx, container)
	if err != nil {
		terminate()
		t.Fatalf("failed to resolve container address: %v", err)
	}

	db, err := connectWithBackoff(ctx, cfg)
	if err != nil {
		terminate()
		t.Fatalf("failed to connect to test database after %d attempts: %v", connectAttempts, err)
	}

	return db, func() {
		_ = db.Close()
		terminate()
	}
}

func containerConfig(ctx context.Context, container *postgres.PostgresContainer) (*config.DatabaseConfig, error) {
	host, err := container.Host(ctx)
	if err != nil {
		return nil, err
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, err
	}
	return &config.DatabaseConfig{
		Host:        host,
		Port:        port.Int(),
		User:        testUser,
		Password:    testPassword,
		Database:    testDatabase,
		SSLMode:     "disable",
		DialTimeout: 5 * time.Second,
	}, nil
}

// connectWithBackoff retries ConnectDB with doubling delays starting at 100ms.
func connectWithBackoff(ctx context.Context, cfg *config.DatabaseConfig) (*bun.DB, error) {
	delay := 100 * time.Millisecond
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		var db *bun.DB
		if db, err = ConnectDB(ctx, cfg); err == nil {
			return db, nil
		}
		if attempt < connectAttempts {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return nil, err
}

func exists(t *testing.T, db *bun.DB, query string, args ...any) bool {
	t.Helper()
	var ok bool
	if err := db.NewSelect().ColumnExpr("EXISTS ("+query+")", args...).Scan(context.Background(), &ok); err != nil {
		t.Fatalf("failed to run existence check: %v", err)
	}
	return ok
}

func tableExists(t *testing.T, db *bun.DB, name string) bool {
	t.Helper()
	return exists(t, db,
		"SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = ?", name)
}

// AssertTableExists fails the test if the public table is missing.
func AssertTableExists(t *testing.T, db *bun.DB, tableName string) {
	t.Helper()
	if !tableExists(t, db, tableName) {
		t.Errorf("table %s does not exist", tableName)
	}
}

// AssertTableNotExists fails the test if the public table is present.
func AssertTableNotExists(t *testing.T, db *bun.DB, tableName string) {
	t.Helper()
	if tableExists(t, db, tableName) {
		t.Errorf("table %s should not exist but it does", tableName)
	}
}

// AssertIndexExists fails the test if the public index is missing.
func AssertIndexExists(t *testing.T, db *bun.DB, indexName string) {
	t.Helper()
	if !exists(t, db, "SELECT 1 FROM pg_indexes WHERE schemaname = 'public' AND indexname = ?", indexName) {
		t.Errorf("index %s does not exist", indexName)
	}
}

// AssertRowCount fails the test unless tableName holds expected rows.
func AssertRowCount(t *testing.T, db *bun.DB, tableName string, expected int) {
	t.Helper()
	count, err := db.NewSelect().TableExpr("?", bun.Ident(tableName)).Count(context.Background())
	if err != nil {
		t.Fatalf("failed to count rows in table %s: %v", tableName, err)
	}
	if count != expected {
		t.Errorf("table %s: expected %d rows, got %d", tableName, expected, count)
	}
}
