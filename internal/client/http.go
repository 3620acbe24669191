// Package client is the HTTP collaborator used by the gateway and the CLI
// to reach the product and user services.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"MockShop/pkg/kit"
)

const DefaultTimeout = 10 * time.Second

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// HTTP issues single-attempt JSON requests against one base URL.
type HTTP struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

func New(baseURL string, timeout time.Duration) *HTTP {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTP{
		BaseURL: baseURL,
		Timeout: timeout,
		Client:  &http.Client{Transport: kit.TracedTransport(http.DefaultTransport)},
	}
}

func (c *HTTP) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, nil)
}

func (c *HTTP) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, nil)
}

func (c *HTTP) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out, nil)
}

func (c *HTTP) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out, nil)
}

// do performs one request. Every failure is returned as *APIError.
func (c *HTTP) do(ctx context.Context, method, path string, body, out any, header http.Header) error {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return unknownError(err)
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return unknownError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if ctx.Err() != nil {
			return timeoutError()
		}
		return unknownError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw, json.Unmarshal)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return unknownError(err)
	}
	return nil
}
