package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/kdmobility/go-fleet-client/fleet"
)

// PageParams carries the caller's 1-indexed pagination request. Zero values
// default to page 1, limit 10.
type PageParams struct {
	Page  int
	Limit int
}

func (p PageParams) normalized() (int, int) {
	page, limit := p.Page, p.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

// The backend wraps list payloads inconsistently: items under "items" or
// "data" (or a bare array), pagination under "meta" or "pagination" (or only
// a raw "total", or nothing at all).
type listBody struct {
	Items      json.RawMessage `json:"items"`
	Data       json.RawMessage `json:"data"`
	Meta       *fleet.Meta     `json:"meta"`
	Pagination *fleet.Meta     `json:"pagination"`
	Total      *int            `json:"total"`
}

// GetList fetches a list endpoint and applies the uniform normalization rule:
// prefer an explicit meta/pagination object from the backend, otherwise
// synthesize one from total (falling back to the item count) and the
// request's own page and limit.
func GetList[B any](ctx context.Context, c *Client, path string, query url.Values, p PageParams) ([]B, fleet.Meta, error) {
	page, limit := p.normalized()

	if query == nil {
		query = url.Values{}
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	payload, err := c.Do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, fleet.Meta{}, err
	}
	return normalizeList[B](payload, page, limit, path)
}

func normalizeList[B any](payload json.RawMessage, page, limit int, path string) ([]B, fleet.Meta, error) {
	trimmed := bytes.TrimSpace(payload)

	var itemsRaw json.RawMessage
	var lb listBody
	if len(trimmed) > 0 && trimmed[0] == '[' {
		itemsRaw = trimmed
	} else if len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &lb); err != nil {
			return nil, fleet.Meta{}, errors.Wrapf(err, "[transport] decode list body %s", path)
		}
		itemsRaw = lb.Items
		if len(itemsRaw) == 0 {
			itemsRaw = lb.Data
		}
	}

	items := []B{}
	if len(itemsRaw) > 0 && string(itemsRaw) != "null" {
		if err := json.Unmarshal(itemsRaw, &items); err != nil {
			return nil, fleet.Meta{}, errors.Wrapf(err, "[transport] decode list items %s", path)
		}
	}

	if lb.Meta != nil {
		return items, *lb.Meta, nil
	}
	if lb.Pagination != nil {
		return items, *lb.Pagination, nil
	}
	total := len(items)
	if lb.Total != nil {
		total = *lb.Total
	}
	return items, fleet.SynthesizeMeta(total, page, limit), nil
}
