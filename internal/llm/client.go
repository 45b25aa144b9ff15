package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// CredentialStatus tracks what the client knows about its API key.
type CredentialStatus string

const (
	CredentialNotSet        CredentialStatus = "not_set"
	CredentialInvalidFormat CredentialStatus = "invalid_format"
	// CredentialConfigured means the key passed the format check but has
	// not been proven against the API yet.
	CredentialConfigured CredentialStatus = "configured"
	// CredentialValid is set after the first successful generation.
	CredentialValid CredentialStatus = "valid"
	// CredentialInvalid is set when the API rejects the key.
	CredentialInvalid CredentialStatus = "invalid"
)

// RetryConfig controls the Generate retry loop. Timings are injectable
// so tests don't sleep for real.
type RetryConfig struct {
	MaxAttempts   int
	RateLimitBase time.Duration // first wait after a rate-limit error
	RateLimitStep time.Duration // added per further attempt
	TransientWait time.Duration // wait after unclassified transient errors
}

// DefaultRetryConfig mirrors the provider's documented quota windows:
// rate limits back off 5s, 7s, ...; transient errors wait a flat 2s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		RateLimitBase: 5 * time.Second,
		RateLimitStep: 2 * time.Second,
		TransientWait: 2 * time.Second,
	}
}

// Config holds everything needed to construct a Client.
type Config struct {
	APIKey string
	Model  string
	Retry  RetryConfig
}

// Client wraps a Provider with credential tracking and bounded retry.
// Construction never fails: a missing or malformed key produces a
// disabled client whose Generate returns ErrNotConfigured immediately,
// so every caller can degrade to fallback content instead of aborting.
type Client struct {
	provider Provider
	retry    RetryConfig
	logger   *slog.Logger

	mu     sync.RWMutex
	status CredentialStatus
}

// New builds a Client for the given config. A key that is empty or does
// not look like a Google API key (shorter than 20 chars, missing the
// "AIza" prefix) disables the client without touching the network.
func New(ctx context.Context, cfg Config, logger *slog.Logger) *Client {
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	c := &Client{
		retry:  cfg.Retry,
		logger: logger,
		status: CredentialNotSet,
	}

	if cfg.APIKey == "" {
		logger.Warn("GOOGLE_API_KEY not set, generation disabled")
		return c
	}

	if len(cfg.APIKey) < 20 || !strings.HasPrefix(cfg.APIKey, "AIza") {
		logger.Warn("GOOGLE_API_KEY format looks invalid, generation disabled")
		c.status = CredentialInvalidFormat
		return c
	}

	provider, err := NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		logger.Error("failed to construct Gemini provider, generation disabled", "error", err)
		c.status = CredentialInvalid
		return c
	}

	c.provider = provider
	c.status = CredentialConfigured
	logger.Info("generation client configured", "model", provider.ModelID())
	return c
}

// NewWithProvider builds a Client around an existing provider. Used by
// tests and the simulation harness.
func NewWithProvider(p Provider, retry RetryConfig, logger *slog.Logger) *Client {
	return &Client{
		provider: p,
		retry:    retry,
		logger:   logger,
		status:   CredentialConfigured,
	}
}

// Configured reports whether the client has a usable provider.
func (c *Client) Configured() bool {
	return c.provider != nil
}

// CredentialStatus returns the current credential status.
func (c *Client) CredentialStatus() CredentialStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *Client) setStatus(s CredentialStatus) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

// Generate sends the prompt and returns the generated text.
//
// Error classes: auth and model-not-found errors are terminal; rate
// limits back off RateLimitBase + attempt*RateLimitStep; everything
// else waits TransientWait. At most MaxAttempts calls are made. An
// empty response is a failure without retry. Callers always receive
// either complete text or an error, never partial output.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.provider == nil {
		return "", ErrNotConfigured
	}

	var lastErr error

	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		text, err := c.provider.Send(ctx, prompt)
		if err == nil {
			if text == "" {
				return "", ErrEmptyResponse
			}
			// Promote the key only out of the unproven state; a key
			// already marked invalid stays invalid.
			c.mu.Lock()
			if c.status == CredentialConfigured {
				c.status = CredentialValid
			}
			c.mu.Unlock()
			return text, nil
		}
		lastErr = err

		var wait time.Duration
		var authErr *ErrAuth
		var notFoundErr *ErrModelNotFound
		var rateErr *ErrRateLimit
		switch {
		case errors.As(err, &authErr):
			c.setStatus(CredentialInvalid)
			c.logger.Error("credential rejected by provider", "error", err)
			return "", err
		case errors.As(err, &notFoundErr):
			c.logger.Error("model not found", "error", err)
			return "", err
		case errors.As(err, &rateErr):
			wait = c.retry.RateLimitBase + time.Duration(attempt)*c.retry.RateLimitStep
			c.logger.Warn("rate limited, backing off", "wait", wait, "attempt", attempt+1)
		default:
			wait = c.retry.TransientWait
			c.logger.Warn("generation failed, retrying", "error", err, "attempt", attempt+1)
		}

		if attempt == c.retry.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
	}

	c.logger.Error("all generation attempts failed", "error", lastErr)
	return "", lastErr
}
