// Package cli provides the admin command-line client for the progress API.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"

	"github.com/tailquest/tailquest/internal/progress"
)

// APIClient calls the progress server. Transient failures are retried a few
// times with a short delay.
type APIClient struct {
	client *resty.Client
}

// NewAPIClient creates a client for the server at baseURL.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		client: resty.New().SetBaseURL(baseURL),
	}
}

// ListUsers fetches every progress record from the server.
func (c *APIClient) ListUsers(ctx context.Context) (map[string]progress.UserProgress, error) {
	var users map[string]progress.UserProgress
	err := retry.Do(
		func() error {
			res, err := c.client.R().
				SetContext(ctx).
				Get("/users")
			if err != nil {
				return fmt.Errorf("client.R().Get(/users) > %w", err)
			}
			if res.StatusCode() != http.StatusOK {
				return fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
			}
			if err := json.Unmarshal(res.Body(), &users); err != nil {
				return retry.Unrecoverable(fmt.Errorf("json.Unmarshal > %w", err))
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
