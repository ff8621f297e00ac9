// Package drivers adapts the /drivers resource. The backend reuses its
// UserStatus vocabulary (ACTIVE/INACTIVE/SUSPENDED) for drivers; the
// canonical shape speaks AVAILABLE/ON_DUTY/OFF_DUTY. Both INACTIVE and
// SUSPENDED collapse onto OFF_DUTY, matching the backend's status semantics
// for rostering.
package drivers

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/kdmobility/go-fleet-client/fleet"
	"github.com/kdmobility/go-fleet-client/transport"
)

var statusMap = map[string]fleet.DriverStatus{
	"ACTIVE":    fleet.DriverAvailable,
	"INACTIVE":  fleet.DriverOffDuty,
	"SUSPENDED": fleet.DriverOffDuty,
}

// Record is the backend driver shape. Some responses embed the full user;
// others flatten name and phone onto the driver itself.
type Record struct {
	ID            string      `json:"id"`
	UserID        string      `json:"userId"`
	User          *fleet.User `json:"user"`
	Name          string      `json:"name"`
	Phone         string      `json:"phone"`
	LicenseNumber string      `json:"licenseNumber"`
	LicenseExpiry string      `json:"licenseExpiry"`
	Status        string      `json:"status"`
}

// Normalize reconciles the record onto the canonical driver shape.
func (r Record) Normalize() fleet.Driver {
	status, ok := statusMap[r.Status]
	if !ok {
		status = fleet.DriverStatus(r.Status)
	}
	if status == "" {
		status = fleet.DriverAvailable
	}

	user := r.User
	if user == nil && (r.Name != "" || r.Phone != "") {
		user = &fleet.User{Name: r.Name, Phone: r.Phone}
	}

	return fleet.Driver{
		ID:            r.ID,
		UserID:        r.UserID,
		User:          user,
		LicenseNumber: r.LicenseNumber,
		LicenseExpiry: r.LicenseExpiry,
		Status:        status,
	}
}

// ListParams filters the driver list.
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
		return nil, errors.New("[drivers.NewService] client is required")
	}
	return &Service{client: client}, nil
}

func (s *Service) List(ctx context.Context, p ListParams) (fleet.Page[fleet.Driver], error) {
	records, meta, err := transport.GetList[Record](ctx, s.client, "/drivers", p.query(), transport.PageParams{Page: p.Page, Limit: p.Limit})
	if err != nil {
		return fleet.Page[fleet.Driver]{}, err
	}

	out := make([]fleet.Driver, 0, len(records))
	for _, r := range records {
		out = append(out, r.Normalize())
	}
	return fleet.Page[fleet.Driver]{Data: out, Meta: meta}, nil
}

func (s *Service) Get(ctx context.Context, id string) (fleet.Driver, error) {
	r, err := transport.Get[Record](ctx, s.client, "/drivers/"+id, nil)
	if err != nil {
		return fleet.Driver{}, err
	}
	return r.Normalize(), nil
}

func (s *Service) Create(ctx context.Context, driver fleet.Driver) (fleet.Driver, error) {
	r, err := transport.Post[Record](ctx, s.client, "/drivers", driver)
	if err != nil {
		return fleet.Driver{}, err
	}
	return r.Normalize(), nil
}

func (s *Service) Update(ctx context.Context, id string, driver fleet.Driver) (fleet.Driver, error) {
	r, err := transport.Put[Record](ctx, s.client, "/drivers/"+id, driver)
	if err != nil {
		return fleet.Driver{}, err
	}
	return r.Normalize(), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return transport.Delete(ctx, s.client, "/drivers/"+id)
}
