// Package users adapts the /users resource. User records show no field-name
// drift, so they pass through without reconciliation; only the list envelope
// is normalized.
package users

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/kdmobility/go-fleet-client/fleet"
	"github.com/kdmobility/go-fleet-client/transport"
)

// ListParams filters the user list.
type ListParams struct {
	Page      int
	Limit     int
	Role      string
	Search    string
	CompanyID string
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	if p.Role != "" {
		q.Set("role", p.Role)
	}
	if s := strings.TrimSpace(p.Search); s != "" {
		q.Set("search", s)
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
		return nil, errors.New("[users.NewService] client is required")
	}
	return &Service{client: client}, nil
}

func (s *Service) List(ctx context.Context, p ListParams) (fleet.Page[fleet.User], error) {
	records, meta, err := transport.GetList[fleet.User](ctx, s.client, "/users", p.query(), transport.PageParams{Page: p.Page, Limit: p.Limit})
	if err != nil {
		return fleet.Page[fleet.User]{}, err
	}
	return fleet.Page[fleet.User]{Data: records, Meta: meta}, nil
}

func (s *Service) Get(ctx context.Context, id string) (fleet.User, error) {
	return transport.Get[fleet.User](ctx, s.client, "/users/"+id, nil)
}

func (s *Service) Create(ctx context.Context, user fleet.User) (fleet.User, error) {
	return transport.Post[fleet.User](ctx, s.client, "/users", user)
}

func (s *Service) Update(ctx context.Context, id string, user fleet.User) (fleet.User, error) {
	return transport.Put[fleet.User](ctx, s.client, "/users/"+id, user)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return transport.Delete(ctx, s.client, "/users/"+id)
}
