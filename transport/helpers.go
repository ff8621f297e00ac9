package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// Get fetches path and decodes the unwrapped payload into T.
func Get[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	return request[T](ctx, c, http.MethodGet, path, query, nil)
}

// Post sends body to path and decodes the unwrapped payload into T.
func Post[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return request[T](ctx, c, http.MethodPost, path, nil, body)
}

// Put sends body to path and decodes the unwrapped payload into T.
func Put[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return request[T](ctx, c, http.MethodPut, path, nil, body)
}

// Patch sends body to path and decodes the unwrapped payload into T.
func Patch[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return request[T](ctx, c, http.MethodPatch, path, nil, body)
}

// Delete removes the resource at path, discarding any response payload.
func Delete(ctx context.Context, c *Client, path string) error {
	_, err := c.Do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

func request[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (T, error) {
	var out T
	payload, err := c.Do(ctx, method, path, query, body)
	if err != nil {
		return out, err
	}
	if len(payload) == 0 || string(payload) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, errors.Wrapf(err, "[transport] decode %s %s", method, path)
	}
	return out, nil
}
