// Package routes adapts the /routes resource. The backend uses "routeName"
// and "routeType" where the canonical shape uses "name" and "type", and does
// not always carry a route code.
package routes

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/kdmobility/go-fleet-client/fleet"
	"github.com/kdmobility/go-fleet-client/stops"
	"github.com/kdmobility/go-fleet-client/transport"
)

// Record is the backend route shape covering the observed field variants.
type Record struct {
	ID        string         `json:"id"`
	RouteName string         `json:"routeName"`
	Name      string         `json:"name"`
	Code      string         `json:"code"`
	CompanyID string         `json:"companyId"`
	Company   *fleet.Company `json:"company"`
	RouteType string         `json:"routeType"`
	Type      string         `json:"type"`
	Status    string         `json:"status"`
	Stops     []stops.Record `json:"stops"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

// Normalize reconciles the record onto the canonical route shape. A missing
// code is derived from the first eight characters of the id, uppercased.
func (r Record) Normalize() fleet.Route {
	name := r.RouteName
	if name == "" {
		name = r.Name
	}

	code := r.Code
	if code == "" && r.ID != "" {
		code = strings.ToUpper(r.ID)
		if len(code) > 8 {
			code = code[:8]
		}
	}

	routeType := r.RouteType
	if routeType == "" {
		routeType = r.Type
	}
	if routeType == "" {
		routeType = string(fleet.RouteCommute)
	}

	status := r.Status
	if status == "" {
		status = string(fleet.RouteActive)
	}

	routeStops := make([]fleet.RouteStop, 0, len(r.Stops))
	for _, sr := range r.Stops {
		routeStops = append(routeStops, sr.Normalize())
	}

	return fleet.Route{
		ID:        r.ID,
		Name:      name,
		Code:      code,
		CompanyID: r.CompanyID,
		Company:   r.Company,
		Type:      fleet.RouteType(routeType),
		Status:    fleet.RouteStatus(status),
		Stops:     routeStops,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ListParams filters the route list.
type ListParams struct {
	Page      int
	Limit     int
	Status    string
	Search    string
	CompanyID string
	StartDate string
	EndDate   string
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if s := strings.TrimSpace(p.Search); s != "" {
		q.Set("search", s)
	}
	if p.CompanyID != "" {
		q.Set("companyId", p.CompanyID)
	}
	if p.StartDate != "" {
		q.Set("startDate", p.StartDate)
	}
	if p.EndDate != "" {
		q.Set("endDate", p.EndDate)
	}
	return q
}

type Service struct {
	client *transport.Client
}

func NewService(client *transport.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[routes.NewService] client is required")
	}
	return &Service{client: client}, nil
}

func (s *Service) List(ctx context.Context, p ListParams) (fleet.Page[fleet.Route], error) {
	records, meta, err := transport.GetList[Record](ctx, s.client, "/routes", p.query(), transport.PageParams{Page: p.Page, Limit: p.Limit})
	if err != nil {
		return fleet.Page[fleet.Route]{}, err
	}

	out := make([]fleet.Route, 0, len(records))
	for _, r := range records {
		out = append(out, r.Normalize())
	}
	return fleet.Page[fleet.Route]{Data: out, Meta: meta}, nil
}

func (s *Service) Get(ctx context.Context, id string) (fleet.Route, error) {
	r, err := transport.Get[Record](ctx, s.client, "/routes/"+id, nil)
	if err != nil {
		return fleet.Route{}, err
	}
	return r.Normalize(), nil
}

func (s *Service) Create(ctx context.Context, route fleet.Route) (fleet.Route, error) {
	r, err := transport.Post[Record](ctx, s.client, "/routes", route)
	if err != nil {
		return fleet.Route{}, err
	}
	return r.Normalize(), nil
}

func (s *Service) Update(ctx context.Context, id string, route fleet.Route) (fleet.Route, error) {
	r, err := transport.Put[Record](ctx, s.client, "/routes/"+id, route)
	if err != nil {
		return fleet.Route{}, err
	}
	return r.Normalize(), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return transport.Delete(ctx, s.client, "/routes/"+id)
}
