// Package dashboard adapts the dashboard stats endpoint.
package dashboard

import (
	"context"

	"github.com/pkg/errors"

	"github.com/kdmobility/go-fleet-client/fleet"
	"github.com/kdmobility/go-fleet-client/transport"
)

type Service struct {
	client *transport.Client
}

func NewService(client *transport.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[dashboard.NewService] client is required")
	}
	return &Service{client: client}, nil
}

// Stats returns the headline fleet counters.
func (s *Service) Stats(ctx context.Context) (fleet.DashboardStats, error) {
	return transport.Get[fleet.DashboardStats](ctx, s.client, "/stats/dashboard", nil)
}
