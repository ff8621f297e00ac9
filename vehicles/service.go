// Package vehicles adapts the /vehicles resource, including the live
// monitoring feed. The backend reports "licensePlate" and an IN_USE/RETIRED
// status vocabulary; the canonical shape uses "plateNumber" and
// IN_SERVICE/INACTIVE.
package vehicles

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/kdmobility/go-fleet-client/fleet"
	"github.com/kdmobility/go-fleet-client/transport"
)

var statusMap = map[string]fleet.VehicleStatus{
	"IN_USE":      fleet.VehicleInService,
	"RETIRED":     fleet.VehicleInactive,
	"AVAILABLE":   fleet.VehicleAvailable,
	"MAINTENANCE": fleet.VehicleMaintenance,
}

// Record is the backend vehicle shape covering the observed field variants.
type Record struct {
	ID              string          `json:"id"`
	LicensePlate    string          `json:"licensePlate"`
	PlateNumber     string          `json:"plateNumber"`
	Model           string          `json:"model"`
	Capacity        int             `json:"capacity"`
	Status          string          `json:"status"`
	CurrentLocation *fleet.GeoPoint `json:"currentLocation"`
	DriverID        string          `json:"driverId"`
	Driver          *fleet.Driver   `json:"driver"`
}

// Normalize reconciles the record onto the canonical vehicle shape.
func (r Record) Normalize() fleet.Vehicle {
	plate := r.LicensePlate
	if plate == "" {
		plate = r.PlateNumber
	}

	status, ok := statusMap[r.Status]
	if !ok {
		status = fleet.VehicleStatus(r.Status)
	}

	return fleet.Vehicle{
		ID:              r.ID,
		PlateNumber:     plate,
		Model:           r.Model,
		Capacity:        r.Capacity,
		Status:          status,
		CurrentLocation: r.CurrentLocation,
		DriverID:        r.DriverID,
		Driver:          r.Driver,
	}
}

// MonitoringVehicle is one live position in the monitoring feed.
type MonitoringVehicle struct {
	ID              string          `json:"id"`
	PlateNumber     string          `json:"plateNumber"`
	CurrentLocation *fleet.GeoPoint `json:"currentLocation,omitempty"`
	Status          string          `json:"status"`
	Speed           float64         `json:"speed,omitempty"`
	Heading         float64         `json:"heading,omitempty"`
	RouteID         string          `json:"routeId,omitempty"`
	RouteName       string          `json:"routeName,omitempty"`
	DriverID        string          `json:"driverId,omitempty"`
	DriverName      string          `json:"driverName,omitempty"`
	NextStop        string          `json:"nextStop,omitempty"`
	ETA             string          `json:"eta,omitempty"`
	FuelLevel       float64         `json:"fuelLevel,omitempty"`
	Passengers      int             `json:"passengers,omitempty"`
	TripID          string          `json:"tripId,omitempty"`
	Capacity        int             `json:"capacity"`
}

// MonitoringSnapshot aggregates the live state of the fleet.
type MonitoringSnapshot struct {
	Data      []MonitoringVehicle `json:"data"`
	Total     int                 `json:"total"`
	InService int                 `json:"inService"`
	Idle      int                 `json:"idle"`
	Timestamp string              `json:"timestamp"`
}

// ListParams filters the vehicle list.
type ListParams struct {
	Page      int
	Limit     int
	Status    string
	Search    string
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
		return nil, errors.New("[vehicles.NewService] client is required")
	}
	return &Service{client: client}, nil
}

func (s *Service) List(ctx context.Context, p ListParams) (fleet.Page[fleet.Vehicle], error) {
	records, meta, err := transport.GetList[Record](ctx, s.client, "/vehicles", p.query(), transport.PageParams{Page: p.Page, Limit: p.Limit})
	if err != nil {
		return fleet.Page[fleet.Vehicle]{}, err
	}

	out := make([]fleet.Vehicle, 0, len(records))
	for _, r := range records {
		out = append(out, r.Normalize())
	}
	return fleet.Page[fleet.Vehicle]{Data: out, Meta: meta}, nil
}

func (s *Service) Get(ctx context.Context, id string) (fleet.Vehicle, error) {
	r, err := transport.Get[Record](ctx, s.client, "/vehicles/"+id, nil)
	if err != nil {
		return fleet.Vehicle{}, err
	}
	return r.Normalize(), nil
}

func (s *Service) Create(ctx context.Context, vehicle fleet.Vehicle) (fleet.Vehicle, error) {
	r, err := transport.Post[Record](ctx, s.client, "/vehicles", vehicle)
	if err != nil {
		return fleet.Vehicle{}, err
	}
	return r.Normalize(), nil
}

func (s *Service) Update(ctx context.Context, id string, vehicle fleet.Vehicle) (fleet.Vehicle, error) {
	r, err := transport.Put[Record](ctx, s.client, "/vehicles/"+id, vehicle)
	if err != nil {
		return fleet.Vehicle{}, err
	}
	return r.Normalize(), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return transport.Delete(ctx, s.client, "/vehicles/"+id)
}

// Monitoring returns the live position feed for vehicles in operation.
func (s *Service) Monitoring(ctx context.Context) (MonitoringSnapshot, error) {
	return transport.Get[MonitoringSnapshot](ctx, s.client, "/vehicles/monitoring", nil)
}
