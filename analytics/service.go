// Package analytics adapts the /analytics endpoints. These are read-only
// aggregates; only the envelope variance needs collapsing.
package analytics

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/pkg/errors"

	"github.com/kdmobility/go-fleet-client/fleet"
	"github.com/kdmobility/go-fleet-client/transport"
)

// Params bounds an analytics query.
type Params struct {
	StartDate string
	EndDate   string
	CompanyID string
}

func (p Params) query() url.Values {
	q := url.Values{}
	if p.StartDate != "" {
		q.Set("startDate", p.StartDate)
	}
	if p.EndDate != "" {
		q.Set("endDate", p.EndDate)
	}
	if p.CompanyID != "" {
		q.Set("companyId", p.CompanyID)
	}
	return q
}

type Service struct {
	client *transport.Client
}

func NewService(client *transport.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[analytics.NewService] client is required")
	}
	return &Service{client: client}, nil
}

// Overview returns the aggregate analytics view.
func (s *Service) Overview(ctx context.Context, p Params) (fleet.AnalyticsData, error) {
	return transport.Get[fleet.AnalyticsData](ctx, s.client, "/analytics", p.query())
}

// RevenueReport returns the raw revenue report payload for charting.
func (s *Service) RevenueReport(ctx context.Context, p Params) (json.RawMessage, error) {
	return transport.Get[json.RawMessage](ctx, s.client, "/analytics/revenue", p.query())
}

// UsageReport returns the raw usage report payload for charting.
func (s *Service) UsageReport(ctx context.Context, p Params) (json.RawMessage, error) {
	return transport.Get[json.RawMessage](ctx, s.client, "/analytics/usage", p.query())
}
