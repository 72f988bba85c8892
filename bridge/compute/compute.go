// Package compute uploads service definitions to the compute API. Enums are
// pushed as one batch; models are pushed one at a time because the API
// resolves enum references per request.
package compute

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pullstream/constructors/core/models"
	"github.com/pullstream/constructors/sdk/cryptids"
	"github.com/pullstream/constructors/sdk/environment"
)

const (
	enumBatchPath  = "/api/v1/enum-defns/batch/"
	modelBatchPath = "/api/v1/models/batch/"
)

// Options represents the exportable client configuration.
type Options struct {
	BaseURL    string        `env:"COMPUTE_BASE_URL" required:"true"`
	APIKey     string        `env:"COMPUTE_API_KEY" required:"true"`
	Timeout    time.Duration `env:"COMPUTE_TIMEOUT" default:"30s"`
	RetryCount int           `env:"COMPUTE_RETRY_COUNT" default:"3"`
}

// APIError is the error body the compute API returns on 4xx/5xx.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Client talks to the compute API.
type Client struct {
	client *resty.Client
	log    *slog.Logger
}

// NewFromEnv creates a client configured from prefixed environment variables.
func NewFromEnv(prefix string, log *slog.Logger) (*Client, error) {
	var opts Options
	if err := environment.ParseEnvTags(prefix, &opts); err != nil {
		return nil, fmt.Errorf("parsing compute config: %w", err)
	}
	return New(opts, log)
}

// New creates a client from explicit options.
func New(opts Options, log *slog.Logger) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("compute base URL is required")
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("compute API key is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("Authorization", "Bearer "+opts.APIKey).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	client.AddRetryCondition(retryCondition)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		id, err := cryptids.GenerateID()
		if err != nil {
			return fmt.Errorf("generating request id: %w", err)
		}
		req.SetHeader("X-Request-ID", id)
		return nil
	})

	return &Client{client: client, log: log}, nil
}

// retryCondition retries network errors, throttling, timeouts, and 5xx.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= 500 || code == 429 || code == 408
}

// Push uploads the whole definition: enums first, then models, so model enum
// references resolve server-side.
func (c *Client) Push(ctx context.Context, def *models.ServiceDefinition) error {
	if err := c.PushEnums(ctx, def); err != nil {
		return err
	}
	return c.PushModels(ctx, def)
}

// PushEnums uploads every enum definition in a single batch. A definition
// without enums is a no-op.
func (c *Client) PushEnums(ctx context.Context, def *models.ServiceDefinition) error {
	if len(def.Enums) == 0 {
		return nil
	}

	if err := c.post(ctx, enumBatchPath, def.Enums); err != nil {
		return fmt.Errorf("pushing enums for %s: %w", def.MicroserviceName, err)
	}
	c.log.InfoContext(ctx, "pushed enum definitions",
		"service", def.MicroserviceName,
		"count", len(def.Enums),
	)
	return nil
}

// PushModels uploads the models one at a time, each wrapped in a
// single-element batch. The batch endpoint rejects mixed outcomes, so one
// model per request keeps a bad model from sinking its siblings.
func (c *Client) PushModels(ctx context.Context, def *models.ServiceDefinition) error {
	for _, model := range def.Models {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.post(ctx, modelBatchPath, []models.ModelDefinition{model}); err != nil {
			return fmt.Errorf("pushing model %s: %w", model.Name, err)
		}
		c.log.InfoContext(ctx, "pushed model definition",
			"service", def.MicroserviceName,
			"model", model.Name,
		)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetError(&APIError{}).
		Post(path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() >= 400 {
		if apiErr, ok := resp.Error().(*APIError); ok && apiErr.Code != "" {
			return apiErr
		}
		return fmt.Errorf("compute API error: %s (status %d)", resp.String(), resp.StatusCode())
	}
	return nil
}
