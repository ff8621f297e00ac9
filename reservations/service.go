// Package reservations adapts the /reservations resource. Reservation records
// nest route and stop records that carry the backend's own field names, so
// the reconciliation is applied recursively. The backend calls the travel
// date "boardingDate"; the canonical field is "reservationDate".
package reservations

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/kdmobility/go-fleet-client/fleet"
	"github.com/kdmobility/go-fleet-client/routes"
	"github.com/kdmobility/go-fleet-client/stops"
	"github.com/kdmobility/go-fleet-client/transport"
)

// Record is the backend reservation shape covering the observed variants.
type Record struct {
	ID              string         `json:"id"`
	UserID          string         `json:"userId"`
	User            *fleet.User    `json:"user"`
	RouteID         string         `json:"routeId"`
	Route           *routes.Record `json:"route"`
	TripID          string         `json:"tripId"`
	BoardingStopID  string         `json:"boardingStopId"`
	BoardingStop    *stops.Record  `json:"boardingStop"`
	AlightingStopID string         `json:"alightingStopId"`
	AlightingStop   *stops.Record  `json:"alightingStop"`
	Status          string         `json:"status"`
	BoardingDate    string         `json:"boardingDate"`
	ReservationDate string         `json:"reservationDate"`
	CreatedAt       string         `json:"createdAt"`
}

// Normalize reconciles the record, and its nested route and stops, onto the
// canonical reservation shape.
func (r Record) Normalize() fleet.Reservation {
	date := r.BoardingDate
	if date == "" {
		date = r.ReservationDate
	}

	var route *fleet.Route
	if r.Route != nil {
		normalized := r.Route.Normalize()
		route = &normalized
	}
	var boarding, alighting *fleet.RouteStop
	if r.BoardingStop != nil {
		normalized := r.BoardingStop.Normalize()
		boarding = &normalized
	}
	if r.AlightingStop != nil {
		normalized := r.AlightingStop.Normalize()
		alighting = &normalized
	}

	return fleet.Reservation{
		ID:              r.ID,
		UserID:          r.UserID,
		User:            r.User,
		RouteID:         r.RouteID,
		Route:           route,
		TripID:          r.TripID,
		BoardingStopID:  r.BoardingStopID,
		BoardingStop:    boarding,
		AlightingStopID: r.AlightingStopID,
		AlightingStop:   alighting,
		Status:          fleet.ReservationStatus(r.Status),
		ReservationDate: date,
		CreatedAt:       r.CreatedAt,
	}
}

// Availability reports remaining seats for a route on a given date.
type Availability struct {
	Available int `json:"available"`
	Total     int `json:"total"`
}

// ListParams filters the reservation list.
type ListParams struct {
	Page      int
	Limit     int
	Status    string
	RouteID   string
	UserID    string
	Date      string
	StartDate string
	EndDate   string
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.RouteID != "" {
		q.Set("routeId", p.RouteID)
	}
	if p.UserID != "" {
		q.Set("userId", p.UserID)
	}
	if p.Date != "" {
		q.Set("date", p.Date)
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
		return nil, errors.New("[reservations.NewService] client is required")
	}
	return &Service{client: client}, nil
}

func (s *Service) List(ctx context.Context, p ListParams) (fleet.Page[fleet.Reservation], error) {
	records, meta, err := transport.GetList[Record](ctx, s.client, "/reservations", p.query(), transport.PageParams{Page: p.Page, Limit: p.Limit})
	if err != nil {
		return fleet.Page[fleet.Reservation]{}, err
	}

	out := make([]fleet.Reservation, 0, len(records))
	for _, r := range records {
		out = append(out, r.Normalize())
	}
	return fleet.Page[fleet.Reservation]{Data: out, Meta: meta}, nil
}

func (s *Service) Get(ctx context.Context, id string) (fleet.Reservation, error) {
	r, err := transport.Get[Record](ctx, s.client, "/reservations/"+id, nil)
	if err != nil {
		return fleet.Reservation{}, err
	}
	return r.Normalize(), nil
}

// Cancel marks the reservation cancelled.
func (s *Service) Cancel(ctx context.Context, id string) (fleet.Reservation, error) {
	r, err := transport.Patch[Record](ctx, s.client, "/reservations/"+id+"/cancel", nil)
	if err != nil {
		return fleet.Reservation{}, err
	}
	return r.Normalize(), nil
}

// GetAvailability reports seat availability for a route on date.
func (s *Service) GetAvailability(ctx context.Context, routeID, date string) (Availability, error) {
	q := url.Values{}
	q.Set("routeId", routeID)
	q.Set("date", date)
	return transport.Get[Availability](ctx, s.client, "/reservations/availability", q)
}
