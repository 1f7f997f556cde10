package tushare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "http://api.tushare.pro"
	DefaultTimeout = 30 * time.Second
	// the free tier starts throttling somewhere above this
	DefaultRateLimit = 10
)

type Client struct {
	HttpClient *http.Client
	Token      string
	BaseURL    string
	limiter    *rate.Limiter
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.BaseURL = baseURL
		}
	}
}

func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
		}
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.HttpClient.Timeout = timeout
		}
	}
}

func WithHttpClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.HttpClient = httpClient
	}
}

func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		HttpClient: &http.Client{Timeout: DefaultTimeout},
		Token:      token,
		BaseURL:    DefaultBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is returned for non-200 responses and for bodies whose code is
// not zero.
type APIError struct {
	ApiName    string
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 && e.StatusCode != http.StatusOK {
		return fmt.Sprintf("tushare %s: status %d: %s", e.ApiName, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("tushare %s: code %d: %s", e.ApiName, e.Code, e.Message)
}

type request struct {
	ApiName string            `json:"api_name"`
	Token   string            `json:"token"`
	Params  map[string]string `json:"params"`
	Fields  string            `json:"fields"`
}

type response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data *Table `json:"data"`
}

// Query calls one Tushare endpoint. fields is the comma separated column
// list; empty asks for the endpoint's defaults.
func (c *Client) Query(ctx context.Context, apiName string, params map[string]string, fields string) (*Table, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = map[string]string{}
	}
	body, err := json.Marshal(request{
		ApiName: apiName,
		Token:   c.Token,
		Params:  params,
		Fields:  fields,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", apiName, err)
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("received status code %d and failed to read body: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			ApiName:    apiName,
			StatusCode: resp.StatusCode,
			Message:    string(responseBytes),
		}
	}

	var out response
	if err := json.Unmarshal(responseBytes, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", apiName, err)
	}
	if out.Code != 0 {
		msg := out.Msg
		if msg == "" {
			msg = "Tushare API error"
		}
		return nil, &APIError{
			ApiName:    apiName,
			StatusCode: resp.StatusCode,
			Code:       out.Code,
			Message:    msg,
		}
	}
	if out.Data == nil {
		return &Table{Name: apiName, Fields: []string{}, Items: [][]any{}}, nil
	}

	out.Data.Name = apiName
	return out.Data, nil
}
