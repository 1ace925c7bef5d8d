// Package ai implements the Embedding, Reranker, and Generator
// capability ports (§4.C, §4.D, §4.I) over OpenAI-compatible and
// Gemini-shaped HTTP backends. The Vision port lives in package vision.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// httpClient is the shared transport every backend in this package
// embeds: a base URL, bearer token, and a bounded exponential-backoff
// retry around transient (5xx / network) failures.
type httpClient struct {
	baseURL string
	apiKey  string
	extra   map[string]string
	client  *http.Client
}

func newHTTPClient(baseURL, apiKey string, extraHeaders map[string]string) *httpClient {
	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		extra:   extraHeaders,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// postJSON marshals req, posts it to baseURL+path with retry on
// transient failures, and unmarshals the response body into resp.
func (c *httpClient) postJSON(ctx context.Context, path string, req, resp any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	// Two retries after the first try: at most 3 attempts in all.
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)

	var respBody []byte
	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		for k, v := range c.extra {
			httpReq.Header.Set(k, v)
		}

		httpResp, err := c.client.Do(httpReq)
		if err != nil {
			return fmt.Errorf("do request: %w", err)
		}
		defer httpResp.Body.Close()

		data, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if httpResp.StatusCode >= 500 {
			return fmt.Errorf("backend returned status %d: %s", httpResp.StatusCode, string(data))
		}
		if httpResp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("backend returned status %d: %s", httpResp.StatusCode, string(data)))
		}
		respBody = data
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return err
	}
	if resp != nil {
		if err := json.Unmarshal(respBody, resp); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

func (c *httpClient) close() error {
	c.client.CloseIdleConnections()
	return nil
}
