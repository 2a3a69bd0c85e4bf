// ABOUTME: Retrying HTTP client for one BoondManager environment
// ABOUTME: Exposes typed CRUD per entity type plus the dictionary endpoint
package boond

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/recrutech/boondsync/models"
)

var (
	apiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boondsync_api_requests_total",
		Help: "Requests issued to the BoondManager API, by environment and method.",
	}, []string{"env", "method"})

	apiRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boondsync_api_retries_total",
		Help: "Retried BoondManager API calls, by environment.",
	}, []string{"env"})
)

// API is the per-environment surface consumed by the sync engine, the
// quality analyzer and the dictionary cache.
type API interface {
	Environment() models.Environment
	List(ctx context.Context, t models.EntityType) ([]models.Entity, error)
	Get(ctx context.Context, t models.EntityType, id string) (*models.Entity, error)
	Create(ctx context.Context, t models.EntityType, e *models.Entity) (*models.Entity, error)
	Delete(ctx context.Context, t models.EntityType, id string) error
	FetchDictionary(ctx context.Context) (models.Dictionary, error)
}

// endpoints maps each entity type to its collection path.
var endpoints = map[models.EntityType]string{
	models.Candidate:   "/candidates",
	models.Resource:    "/resources",
	models.Opportunity: "/opportunities",
	models.Company:     "/companies",
	models.Contact:     "/contacts",
	models.Project:     "/projects",
}

const dictionaryPath = "/application/dictionary"

// Config holds the connection settings for one environment.
type Config struct {
	Env         models.Environment
	BaseURL     string
	UserToken   string
	ClientToken string
	MaxAttempts int
	BackoffSlot time.Duration
	BackoffMax  time.Duration
	PageSize    int
	HTTPClient  *http.Client
}

// Client is a retrying HTTP client bound to exactly one BoondManager tenant.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient validates the config and returns a ready client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("boond: base URL required for %s", cfg.Env)
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 4
	}
	if cfg.BackoffSlot <= 0 {
		cfg.BackoffSlot = 250 * time.Millisecond
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 10 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg, http: httpClient}, nil
}

// Environment reports which tenant this client is bound to.
func (c *Client) Environment() models.Environment {
	return c.cfg.Env
}

// List fetches every entity of the given type, walking all pages.
func (c *Client) List(ctx context.Context, t models.EntityType) ([]models.Entity, error) {
	path, ok := endpoints[t]
	if !ok {
		return nil, fmt.Errorf("boond: no endpoint for entity type %q", t)
	}

	var all []models.Entity
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s%s?page=%d&maxResults=%d", c.cfg.BaseURL, path, page, c.cfg.PageSize)
		body, err := c.do(ctx, http.MethodGet, url, nil, t, "")
		if err != nil {
			return nil, err
		}

		var doc listDocument
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("boond %s: decode %s list page %d: %w", c.cfg.Env, t, page, err)
		}
		for _, res := range doc.Data {
			entity, err := decodeEntity(res, t)
			if err != nil {
				return nil, err
			}
			all = append(all, *entity)
		}
		// The totals hint saves one trailing empty-page request when the
		// collection size is an exact multiple of the page size.
		if rows := doc.Meta.Totals.Rows; rows > 0 && len(all) >= rows {
			return all, nil
		}
		if len(doc.Data) < c.cfg.PageSize {
			return all, nil
		}
	}
}

// Get fetches one entity by id.
func (c *Client) Get(ctx context.Context, t models.EntityType, id string) (*models.Entity, error) {
	path, ok := endpoints[t]
	if !ok {
		return nil, fmt.Errorf("boond: no endpoint for entity type %q", t)
	}

	body, err := c.do(ctx, http.MethodGet, c.cfg.BaseURL+path+"/"+id, nil, t, id)
	if err != nil {
		return nil, err
	}
	var doc singleDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("boond %s: decode %s %s: %w", c.cfg.Env, t, id, err)
	}
	return decodeEntity(doc.Data, t)
}

// Create posts a new entity and returns it with the id the target
// environment assigned. Refused outright against production.
func (c *Client) Create(ctx context.Context, t models.EntityType, e *models.Entity) (*models.Entity, error) {
	if !c.cfg.Env.Writable() {
		return nil, fmt.Errorf("create %s in %s: %w", t, c.cfg.Env, ErrReadOnlyEnvironment)
	}
	path, ok := endpoints[t]
	if !ok {
		return nil, fmt.Errorf("boond: no endpoint for entity type %q", t)
	}

	payload, err := encodeEntity(e)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, http.MethodPost, c.cfg.BaseURL+path, payload, t, e.ID)
	if err != nil {
		return nil, err
	}
	var doc singleDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("boond %s: decode created %s: %w", c.cfg.Env, t, err)
	}
	return decodeEntity(doc.Data, t)
}

// Delete removes one entity. Refused outright against production.
func (c *Client) Delete(ctx context.Context, t models.EntityType, id string) error {
	if !c.cfg.Env.Writable() {
		return fmt.Errorf("delete %s %s in %s: %w", t, id, c.cfg.Env, ErrReadOnlyEnvironment)
	}
	path, ok := endpoints[t]
	if !ok {
		return fmt.Errorf("boond: no endpoint for entity type %q", t)
	}
	_, err := c.do(ctx, http.MethodDelete, c.cfg.BaseURL+path+"/"+id, nil, t, id)
	return err
}

// FetchDictionary retrieves the reference pick-list data for this tenant.
func (c *Client) FetchDictionary(ctx context.Context) (models.Dictionary, error) {
	body, err := c.do(ctx, http.MethodGet, c.cfg.BaseURL+dictionaryPath, nil, "", "")
	if err != nil {
		return nil, err
	}
	var dict models.Dictionary
	if err := json.Unmarshal(body, &dict); err != nil {
		return nil, fmt.Errorf("boond %s: decode dictionary: %w", c.cfg.Env, err)
	}
	return dict, nil
}

// do issues one request with the retry policy: transient failures (network
// errors, 429, 5xx) back off and retry up to the attempt ceiling; any other
// 4xx surfaces immediately as an APIError.
func (c *Client) do(ctx context.Context, method, url string, payload []byte, t models.EntityType, id string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			apiRetries.WithLabelValues(string(c.cfg.Env)).Inc()
			if err := sleepBackoff(ctx, attempt-1, c.cfg.BackoffSlot, c.cfg.BackoffMax); err != nil {
				return nil, err
			}
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
		if err != nil {
			return nil, fmt.Errorf("boond %s: build request: %w", c.cfg.Env, err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.cfg.UserToken != "" {
			req.SetBasicAuth(c.cfg.UserToken, c.cfg.ClientToken)
		}

		apiRequests.WithLabelValues(string(c.cfg.Env), method).Inc()
		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			zap.S().Debugw("boond request failed, will retry",
				"env", c.cfg.Env, "method", method, "url", url, "attempt", attempt+1, "error", err)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if readErr != nil {
				lastErr = readErr
				continue
			}
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200))
			zap.S().Debugw("boond transient status, will retry",
				"env", c.cfg.Env, "method", method, "url", url, "status", resp.StatusCode, "attempt", attempt+1)
			continue
		default:
			return nil, &APIError{
				Status:     resp.StatusCode,
				Env:        c.cfg.Env,
				EntityType: t,
				EntityID:   id,
				Body:       truncate(body, 200),
			}
		}
	}

	return nil, &TransientError{Env: c.cfg.Env, Attempts: c.cfg.MaxAttempts, LastErr: lastErr}
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
