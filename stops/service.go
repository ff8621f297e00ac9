// Package stops adapts the /stops resource. The backend names the stop's
// display name "stopName"; the canonical field is "name".
package stops

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/kdmobility/go-fleet-client/fleet"
	"github.com/kdmobility/go-fleet-client/transport"
)

// Record is the backend stop shape, covering every observed field-name
// variant. It is exported because routes and reservations embed stops.
type Record struct {
	ID            string  `json:"id"`
	RouteID       string  `json:"routeId"`
	StopName      string  `json:"stopName"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Sequence      int     `json:"sequence"`
	ArrivalTime   string  `json:"arrivalTime"`
	DepartureTime string  `json:"departureTime"`
}

// Normalize reconciles the record onto the canonical stop shape.
func (r Record) Normalize() fleet.RouteStop {
	name := r.StopName
	if name == "" {
		name = r.Name
	}
	return fleet.RouteStop{
		ID:            r.ID,
		RouteID:       r.RouteID,
		Name:          name,
		Address:       r.Address,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		Sequence:      r.Sequence,
		ArrivalTime:   r.ArrivalTime,
		DepartureTime: r.DepartureTime,
	}
}

// ListParams filters the stop list.
type ListParams struct {
	Page    int
	Limit   int
	Search  string
	RouteID string
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	if s := strings.TrimSpace(p.Search); s != "" {
		q.Set("search", s)
	}
	if p.RouteID != "" {
		q.Set("routeId", p.RouteID)
	}
	return q
}

type Service struct {
	client *transport.Client
}

func NewService(client *transport.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[stops.NewService] client is required")
	}
	return &Service{client: client}, nil
}

func (s *Service) List(ctx context.Context, p ListParams) (fleet.Page[fleet.RouteStop], error) {
	records, meta, err := transport.GetList[Record](ctx, s.client, "/stops", p.query(), transport.PageParams{Page: p.Page, Limit: p.Limit})
	if err != nil {
		return fleet.Page[fleet.RouteStop]{}, err
	}

	out := make([]fleet.RouteStop, 0, len(records))
	for _, r := range records {
		out = append(out, r.Normalize())
	}
	return fleet.Page[fleet.RouteStop]{Data: out, Meta: meta}, nil
}

func (s *Service) Get(ctx context.Context, id string) (fleet.RouteStop, error) {
	r, err := transport.Get[Record](ctx, s.client, "/stops/"+id, nil)
	if err != nil {
		return fleet.RouteStop{}, err
	}
	return r.Normalize(), nil
}

func (s *Service) Create(ctx context.Context, stop fleet.RouteStop) (fleet.RouteStop, error) {
	r, err := transport.Post[Record](ctx, s.client, "/stops", stop)
	if err != nil {
		return fleet.RouteStop{}, err
	}
	return r.Normalize(), nil
}

func (s *Service) Update(ctx context.Context, id string, stop fleet.RouteStop) (fleet.RouteStop, error) {
	r, err := transport.Put[Record](ctx, s.client, "/stops/"+id, stop)
	if err != nil {
		return fleet.RouteStop{}, err
	}
	return r.Normalize(), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return transport.Delete(ctx, s.client, "/stops/"+id)
}
