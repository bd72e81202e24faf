package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/owdb/wrestlebot/internal/config"
	"github.com/owdb/wrestlebot/internal/models"
)

// tokenLifetime is how long a minted JWT stays valid. Tokens are
// reissued well before expiry.
const tokenLifetime = 5 * time.Minute

// Client talks to the catalog's bot API over HTTP. Authentication is
// either a static API token or, when a JWT secret is configured,
// short-lived HS256 tokens minted per batch of requests.
type Client struct {
	baseURL   string
	apiToken  string
	jwtSecret string
	http      *http.Client
	logger    *slog.Logger

	cachedToken  string
	tokenExpires time.Time
	now          func() time.Time
}

// claims carried by minted tokens; the catalog only checks the issuer.
type botClaims struct {
	Actor string `json:"actor"`
	jwt.RegisteredClaims
}

// NewClient creates a store client from configuration.
func NewClient(cfg config.StoreConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.APIURL, "/"),
		apiToken:  cfg.APIToken,
		jwtSecret: cfg.JWTSecret,
		http:      &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
		now:       time.Now,
	}
}

// authToken returns the credential for the Authorization header,
// minting and caching a JWT when a secret is configured.
func (c *Client) authToken() (string, error) {
	if c.jwtSecret == "" {
		return c.apiToken, nil
	}
	if c.cachedToken != "" && c.now().Before(c.tokenExpires) {
		return c.cachedToken, nil
	}

	issued := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, botClaims{
		Actor: "wrestlebot",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issued.Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(issued),
			Issuer:    "wrestlebot",
		},
	})
	signed, err := token.SignedString([]byte(c.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	c.cachedToken = signed
	// Renew a minute early so in-flight requests never carry an expired
	// token.
	c.tokenExpires = issued.Add(tokenLifetime - time.Minute)
	return signed, nil
}

type upsertRequest struct {
	Type   models.EntityType `json:"type"`
	Name   string            `json:"name"`
	Slug   string            `json:"slug"`
	Fields map[string]string `json:"fields,omitempty"`
}

type upsertResponse struct {
	Entity  models.Entity `json:"entity"`
	Created bool          `json:"created"`
}

// CreateOrUpdate upserts one entity. The slug derived from the name is
// the dedup key on the catalog side.
func (c *Client) CreateOrUpdate(ctx context.Context, entityType models.EntityType, name string, fields map[string]string) (*models.Entity, bool, error) {
	payload := upsertRequest{
		Type:   entityType,
		Name:   name,
		Slug:   models.Slugify(name),
		Fields: fields,
	}

	var resp upsertResponse
	if err := c.do(ctx, http.MethodPost, "/entities", payload, &resp); err != nil {
		return nil, false, err
	}
	return &resp.Entity, resp.Created, nil
}

// Exists reports whether an entity with the slug is stored.
func (c *Client) Exists(ctx context.Context, entityType models.EntityType, slug string) (bool, error) {
	path := fmt.Sprintf("/entities/%s/%s", entityType, slug)
	err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err == nil {
		return true, nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return false, nil
	}
	return false, err
}

type listResponse struct {
	Names []string `json:"names"`
}

// ListNames returns the names of all stored entities of a type.
func (c *Client) ListNames(ctx context.Context, entityType models.EntityType) ([]string, error) {
	var resp listResponse
	path := fmt.Sprintf("/entities/%s/names", entityType)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Names, nil
}

// APIError is a non-2xx response from the catalog.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("store API returned %d: %s", e.StatusCode, e.Body)
}

// do issues one request with up to three attempts. Only 5xx responses
// and transport errors are retried; 4xx means the request itself is
// wrong and repeats would not help.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	token, err := c.authToken()
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		var body io.Reader
		if payload != nil {
			data, err := json.Marshal(payload)
			if err != nil {
				return fmt.Errorf("failed to encode request: %w", err)
			}
			body = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("store request failed: %w", err)
			c.logger.Warn("store request failed", "path", path, "attempt", attempt, "error", err)
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("failed to read response: %w", readErr)
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = &APIError{StatusCode: resp.StatusCode, Body: truncateBody(data)}
			c.logger.Warn("store returned server error", "path", path, "status", resp.StatusCode, "attempt", attempt)
			continue
		}
		if resp.StatusCode >= 400 {
			return &APIError{StatusCode: resp.StatusCode, Body: truncateBody(data)}
		}

		if out != nil && len(data) > 0 {
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
		}
		return nil
	}
	return lastErr
}

func truncateBody(data []byte) string {
	const max = 256
	if len(data) > max {
		data = data[:max]
	}
	return string(data)
}
