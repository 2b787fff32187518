// Package common holds the shared setup for the end-to-end suites that run
// against a live API.
package common

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"concierge/pkg/client"

	"github.com/google/uuid"
)

type IntegrationTestSuite struct {
	Client    *client.Client
	ServerURL string
}

// NewIntegrationTestSuite skips the test unless TEST_SERVER_URL points at a
// running API.
func NewIntegrationTestSuite(t *testing.T) *IntegrationTestSuite {
	t.Helper()

	serverURL := os.Getenv("TEST_SERVER_URL")
	if serverURL == "" {
		t.Skip("TEST_SERVER_URL not set")
	}

	c := client.New(serverURL)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.HTTP.WaitForHealthy(ctx, 30*time.Second); err != nil {
		t.Fatalf("API at %s never became healthy: %v", serverURL, err)
	}

	return &IntegrationTestSuite{Client: c, ServerURL: serverURL}
}

// UniqueEmail avoids collisions with earlier runs against the same database.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s+%s@example.com", prefix, uuid.NewString()[:8])
}
