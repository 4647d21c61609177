package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"igbatch/pkg/config"
	"igbatch/pkg/errors"
	"igbatch/pkg/logger"
	"igbatch/pkg/ratelimit"
	"igbatch/pkg/retry"
)

// Client is an Instagram web session. It implements the session interface
// consumed by the batch scraper.
type Client struct {
	httpClient  *http.Client
	headers     map[string]string
	baseURL     string
	pageSize    int
	limiter     ratelimit.Limiter
	retryConfig *retry.Config
	logger      logger.Logger

	// locations caches coordinates by location id
	locations map[string]*MediaLocation
}

// NewClient creates a new Instagram client from the scrape configuration
func NewClient(cfg *config.Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	// cookiejar.New never fails with nil options
	jar, _ := cookiejar.New(nil)

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Instagram.Timeout,
			Jar:     jar,
		},
		headers: map[string]string{
			"User-Agent":       cfg.Instagram.UserAgent,
			"Accept":           "*/*",
			"Accept-Language":  "en-US,en;q=0.9",
			"X-IG-App-ID":      WebAppID,
			"X-Requested-With": "XMLHttpRequest",
		},
		baseURL:     BaseURL,
		pageSize:    cfg.Instagram.PageSize,
		limiter:     ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize),
		retryConfig: retry.FromConfig(cfg.Retry, log),
		logger:      log,
		locations:   make(map[string]*MediaLocation),
	}
}

// SetBaseURL points the client at another host
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// SetRateLimiter replaces the request pacing
func (c *Client) SetRateLimiter(l ratelimit.Limiter) {
	c.limiter = l
}

// SetRetryConfig replaces the retry policy
func (c *Client) SetRetryConfig(rc *retry.Config) {
	c.retryConfig = rc
}

// cookie returns the value of a cookie the session holds for the base URL
func (c *Client) cookie(name string) string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, ck := range c.httpClient.Jar.Cookies(u) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

// newRequest builds a request against the base URL with the session headers
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeUnknown, "failed to create request", err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if token := c.cookie("csrftoken"); token != "" {
		req.Header.Set("X-CSRFToken", token)
	}
	return req, nil
}

// doRequest waits for the rate limiter and performs the request
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL.Path,
			"error":  err.Error(),
		})
		return nil, errors.Wrap(errors.ErrorTypeNetwork, "network error", err)
	}

	logger.LogRequest(c.logger, req.Method, req.URL.Path, resp.StatusCode, time.Since(start))
	return resp, nil
}

// getJSON performs a GET with retry and decodes the JSON response
func (c *Client) getJSON(ctx context.Context, path string, target interface{}) error {
	return retry.Do(ctx, c.retryConfig, func(ctx context.Context) error {
		req, err := c.newRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return err
		}

		resp, err := c.doRequest(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if err := c.checkResponseStatus(resp); err != nil {
			return err
		}
		return c.decode(resp, target)
	})
}

func (c *Client) decode(resp *http.Response, target interface{}) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: "failed to read response body",
			Code:    resp.StatusCode,
			Err:     err,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          resp.Request.URL.Path,
			"status":       resp.StatusCode,
			"body_preview": bodyPreview,
		})
		return &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: "failed to parse JSON",
			Code:    resp.StatusCode,
			Err:     err,
		}
	}
	return nil
}

// checkResponseStatus checks the HTTP response status and returns appropriate errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &errors.Error{Type: errors.ErrorTypeAuth, Message: "authentication required", Code: code}
	case code == http.StatusNotFound:
		return &errors.Error{Type: errors.ErrorTypeNotFound, Message: "resource not found", Code: code}
	case code == http.StatusTooManyRequests:
		logger.LogRateLimit(c.logger, resp.Request.URL.Path, retryAfter(resp))
		return &errors.Error{Type: errors.ErrorTypeRateLimit, Message: "rate limit exceeded", Code: code}
	case errors.IsRetryableStatusCode(code):
		return &errors.Error{Type: errors.ErrorTypeServerError, Message: "server error", Code: code}
	default:
		return &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Message: fmt.Sprintf("unexpected status code: %d", code),
			Code:    code,
		}
	}
}

func retryAfter(resp *http.Response) time.Duration {
	secs, err := time.ParseDuration(resp.Header.Get("Retry-After") + "s")
	if err != nil {
		return 0
	}
	return secs
}
