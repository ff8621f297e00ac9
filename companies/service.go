// Package companies adapts the /companies resource. The backend identifies a
// company by "businessNumber"; the canonical field is "code". Activity is
// reported either as an isActive flag or an ACTIVE/INACTIVE status string.
package companies

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/kdmobility/go-fleet-client/fleet"
	"github.com/kdmobility/go-fleet-client/transport"
)

// Record is the backend company shape covering the observed field variants.
type Record struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	BusinessNumber string `json:"businessNumber"`
	Code           string `json:"code"`
	Address        string `json:"address"`
	ContactEmail   string `json:"contactEmail"`
	ContactPhone   string `json:"contactPhone"`
	IsActive       *bool  `json:"isActive"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

// Normalize reconciles the record onto the canonical company shape. The code
// fallback chain is businessNumber, then code, then empty.
func (r Record) Normalize() fleet.Company {
	code := r.BusinessNumber
	if code == "" {
		code = r.Code
	}

	isActive := r.Status == "ACTIVE"
	if r.IsActive != nil {
		isActive = *r.IsActive
	}

	return fleet.Company{
		ID:           r.ID,
		Name:         r.Name,
		Code:         code,
		Address:      r.Address,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		IsActive:     isActive,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// ListParams filters the company list.
type ListParams struct {
	Page      int
	Limit     int
	Search    string
	IsActive  *bool
	StartDate string
	EndDate   string
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	if s := strings.TrimSpace(p.Search); s != "" {
		q.Set("search", s)
	}
	if p.IsActive != nil {
		if *p.IsActive {
			q.Set("isActive", "true")
		} else {
			q.Set("isActive", "false")
		}
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
		return nil, errors.New("[companies.NewService] client is required")
	}
	return &Service{client: client}, nil
}

func (s *Service) List(ctx context.Context, p ListParams) (fleet.Page[fleet.Company], error) {
	records, meta, err := transport.GetList[Record](ctx, s.client, "/companies", p.query(), transport.PageParams{Page: p.Page, Limit: p.Limit})
	if err != nil {
		return fleet.Page[fleet.Company]{}, err
	}

	out := make([]fleet.Company, 0, len(records))
	for _, r := range records {
		out = append(out, r.Normalize())
	}
	return fleet.Page[fleet.Company]{Data: out, Meta: meta}, nil
}

func (s *Service) Get(ctx context.Context, id string) (fleet.Company, error) {
	r, err := transport.Get[Record](ctx, s.client, "/companies/"+id, nil)
	if err != nil {
		return fleet.Company{}, err
	}
	return r.Normalize(), nil
}

func (s *Service) Create(ctx context.Context, company fleet.Company) (fleet.Company, error) {
	r, err := transport.Post[Record](ctx, s.client, "/companies", company)
	if err != nil {
		return fleet.Company{}, err
	}
	return r.Normalize(), nil
}

func (s *Service) Update(ctx context.Context, id string, company fleet.Company) (fleet.Company, error) {
	r, err := transport.Put[Record](ctx, s.client, "/companies/"+id, company)
	if err != nil {
		return fleet.Company{}, err
	}
	return r.Normalize(), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return transport.Delete(ctx, s.client, "/companies/"+id)
}
