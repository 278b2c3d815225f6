package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/mindbridge-backend/internal/domain/chat"
	"github.com/yungbote/mindbridge-backend/internal/observability"
	"github.com/yungbote/mindbridge-backend/internal/platform/envutil"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

// ErrNotConfigured is returned by NewClient when no API key is set.
var ErrNotConfigured = errors.New("llm: missing LLM_API_KEY")

// Client is an OpenAI-compatible chat completions client.
type Client interface {
	Complete(ctx context.Context, messages []chat.Message) (string, error)
	Model() string
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
	RetryCount  int
	RetryWait   time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:      envutil.String("LLM_API_KEY", ""),
		BaseURL:     envutil.String("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
		Model:       envutil.String("LLM_MODEL", "llama-3.1-8b-instant"),
		Temperature: envutil.Float("LLM_TEMPERATURE", 0.7),
		Timeout:     envutil.Seconds("LLM_TIMEOUT_SECONDS", 60*time.Second),
		RetryCount:  envutil.Int("LLM_MAX_RETRIES", 2),
		RetryWait:   time.Second,
	}
}

// HTTPError is a non-2xx reply from the provider after retries.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("llm http %d: %s", e.StatusCode, e.Body)
}

type client struct {
	log         *logger.Logger
	http        *resty.Client
	model       string
	temperature float64
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = time.Second
	}
	if cfg.Model == "" {
		cfg.Model = "llama-3.1-8b-instant"
	}

	c := &client{
		log:         log.With("client", "LLM"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
	c.http = resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(cfg.APIKey).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(10*cfg.RetryWait).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		AddRetryCondition(retryable).
		AddRetryHook(func(r *resty.Response, err error) {
			status := 0
			if r != nil {
				status = r.StatusCode()
			}
			c.log.Warn("LLM request retrying", "status", status, "error", err)
		})
	return c, nil
}

func retryable(r *resty.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled)
	}
	if r == nil {
		return false
	}
	return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
}

func (c *client) Model() string { return c.model }

type completionRequest struct {
	Model       string         `json:"model"`
	Messages    []chat.Message `json:"messages"`
	Temperature float64        `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message chat.Message `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (c *client) Complete(ctx context.Context, messages []chat.Message) (text string, err error) {
	ctx, span := observability.StartSpan(ctx, "llm.complete",
		attribute.String("llm.model", c.model),
		attribute.Int("llm.messages", len(messages)),
	)
	defer func() { observability.EndSpan(span, err) }()

	start := time.Now()
	var out completionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(completionRequest{Model: c.model, Messages: messages, Temperature: c.temperature}).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		observability.Current().ObserveLLMRequest(c.model, "error", time.Since(start), 0, 0)
		return "", fmt.Errorf("llm request: %w", err)
	}
	status := strconv.Itoa(resp.StatusCode())
	if resp.IsError() {
		observability.Current().ObserveLLMRequest(c.model, status, time.Since(start), 0, 0)
		return "", &HTTPError{StatusCode: resp.StatusCode(), Body: truncateBody(resp.String())}
	}
	observability.Current().ObserveLLMRequest(c.model, status, time.Since(start), out.Usage.PromptTokens, out.Usage.CompletionTokens)
	if len(out.Choices) == 0 {
		return "", errors.New("llm response has no choices")
	}
	span.SetAttributes(
		attribute.Int("llm.prompt_tokens", out.Usage.PromptTokens),
		attribute.Int("llm.completion_tokens", out.Usage.CompletionTokens),
	)
	c.log.Debug("LLM completion finished",
		"model", c.model,
		"duration", time.Since(start).String(),
		"prompt_tokens", out.Usage.PromptTokens,
		"completion_tokens", out.Usage.CompletionTokens,
	)
	return out.Choices[0].Message.Content, nil
}

func truncateBody(s string) string {
	const limit = 512
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
