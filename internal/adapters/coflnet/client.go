package coflnet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/alejandrodnm/bingobot/internal/ports"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://sky.coflnet.com/api/auctions/tag"
	defaultTimeout = 5 * time.Second

	// Coflnet no documenta límites estrictos; 10 req/s con ráfaga de 13
	// permite lanzar todos los items a la vez sin martillear la API.
	defaultRatePerSec = 10
	defaultBurst      = 13

	defaultMaxRetries = 1
	baseRetryWait     = 500 * time.Millisecond
)

// StatusError es una respuesta HTTP no exitosa de la API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// Client es el HTTP client de la API de subastas de Coflnet con rate limiting y retries.
type Client struct {
	http       *http.Client
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	metrics    ports.Metrics
}

// Option configura un Client.
type Option func(*Client)

// WithTimeout fija el timeout de cada llamada HTTP.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit fija las peticiones por segundo y la ráfaga permitida.
func WithRateLimit(perSec float64, burst int) Option {
	return func(c *Client) {
		if perSec > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
		}
	}
}

// WithMaxRetries fija cuántas veces se reintenta un 429/5xx.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithMetrics registra cada llamada en el recorder dado.
func WithMetrics(m ports.Metrics) Option {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

// NewClient crea un Client contra baseURL.
// Si baseURL está vacío, usa el endpoint de producción.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := &Client{
		http:       &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(defaultRatePerSec, defaultBurst),
		maxRetries: defaultMaxRetries,
		metrics:    ports.NopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get hace un GET con rate limiting y retries, y registra la llamada.
func (c *Client) get(ctx context.Context, endpoint, url string, out any) error {
	start := time.Now()
	err := c.doWithRetry(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return c.http.Do(req)
	}, out)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.metrics.ObserveRequest(endpoint, outcome, time.Since(start))
	return err
}

// doWithRetry ejecuta la función con backoff exponencial.
// Solo se reintentan errores de red, 429 y 5xx; un 4xx falla directamente.
func (c *Client) doWithRetry(ctx context.Context, fn func() (*http.Response, error), out any) error {
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := fn()
		if err != nil {
			if attempt == c.maxRetries || ctx.Err() != nil {
				return fmt.Errorf("request failed after %d retries: %w", attempt, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == c.maxRetries {
				return &StatusError{Code: resp.StatusCode}
			}
			slog.Debug("retrying coflnet request", "status", resp.StatusCode, "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return &StatusError{Code: resp.StatusCode, Body: string(body)}
		}

		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", c.maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
