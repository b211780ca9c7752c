// Package testutil starts throwaway backend containers for integration
// tests. Each container is started at most once per test binary; tests are
// skipped when -short is set or Docker is not available.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type sharedContainer struct {
	once     sync.Once
	endpoint string
	err      error
}

var (
	redisC    sharedContainer
	postgresC sharedContainer
	mongoC    sharedContainer
)

// GetRedisAddress returns host:port of a Redis container.
func GetRedisAddress(t *testing.T) string {
	t.Helper()
	return redisC.start(t, testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("6379/tcp"),
			wait.ForLog("Ready to accept connections"),
		),
	}, func(endpoint string) string { return endpoint })
}

// GetPostgresDSN returns a pgx-compatible DSN for a Postgres container.
func GetPostgresDSN(t *testing.T) string {
	t.Helper()
	return postgresC.start(t, testcontainers.ContainerRequest{
		Image:        "postgres:16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "canvas",
			"POSTGRES_PASSWORD": "canvas",
			"POSTGRES_DB":       "canvas_test",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			// Postgres logs this once for the init server and once for the real one.
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(2 * time.Minute),
	}, func(endpoint string) string {
		return fmt.Sprintf("postgres://canvas:canvas@%s/canvas_test?sslmode=disable", endpoint)
	})
}

// GetMongoURI returns a connection URI for a MongoDB container.
func GetMongoURI(t *testing.T) string {
	t.Helper()
	return mongoC.start(t, testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("27017/tcp"),
			wait.ForLog("Waiting for connections"),
		),
	}, func(endpoint string) string {
		return fmt.Sprintf("mongodb://%s", endpoint)
	})
}

func (c *sharedContainer) start(t *testing.T, req testcontainers.ContainerRequest, format func(endpoint string) string) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed test in -short mode")
	}

	c.once.Do(func() {
		// Give generous timeout in CI environments
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if err != nil {
			c.err = err
			return
		}

		// Containers are shared by every test in the package; Ryuk reaps
		// them when the test binary exits.
		endpoint, err := container.Endpoint(ctx, "")
		if err != nil {
			_ = container.Terminate(context.Background()) // best-effort cleanup
			c.err = err
			return
		}

		c.endpoint = format(endpoint)
	})

	if c.err != nil {
		t.Skipf("container %s unavailable: %v", req.Image, c.err)
	}
	return c.endpoint
}
