// Package billing adapts the /billing resource: invoices and their payments.
// The backend models invoices as monthly billing records (billingMonth,
// startDate/endDate, finalAmount) and payments reference them via billingId;
// the canonical shapes speak invoiceNumber, billingPeriod* and invoiceId.
package billing

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/kdmobility/go-fleet-client/companies"
	"github.com/kdmobility/go-fleet-client/fleet"
	"github.com/kdmobility/go-fleet-client/transport"
)

// InvoiceRecord is the backend billing shape covering the observed variants.
type InvoiceRecord struct {
	ID                 string            `json:"id"`
	CompanyID          string            `json:"companyId"`
	Company            *companies.Record `json:"company"`
	BillingMonth       string            `json:"billingMonth"`
	InvoiceNumber      string            `json:"invoiceNumber"`
	StartDate          string            `json:"startDate"`
	BillingPeriodStart string            `json:"billingPeriodStart"`
	EndDate            string            `json:"endDate"`
	BillingPeriodEnd   string            `json:"billingPeriodEnd"`
	FinalAmount        *float64          `json:"finalAmount"`
	TotalAmount        *float64          `json:"totalAmount"`
	Amount             *float64          `json:"amount"`
	Status             string            `json:"status"`
	DueDate            string            `json:"dueDate"`
	PaidAt             string            `json:"paidAt"`
	CreatedAt          string            `json:"createdAt"`
}

// Normalize reconciles the record onto the canonical invoice shape. The
// amount fallback chain is finalAmount, totalAmount, amount, zero.
func (r InvoiceRecord) Normalize() fleet.Invoice {
	number := r.BillingMonth
	if number == "" {
		number = r.InvoiceNumber
	}
	if number == "" && r.ID != "" {
		number = strings.ToUpper(r.ID)
		if len(number) > 8 {
			number = number[:8]
		}
	}

	periodStart := r.StartDate
	if periodStart == "" {
		periodStart = r.BillingPeriodStart
	}
	periodEnd := r.EndDate
	if periodEnd == "" {
		periodEnd = r.BillingPeriodEnd
	}

	var company *fleet.Company
	if r.Company != nil {
		normalized := r.Company.Normalize()
		company = &normalized
	}

	return fleet.Invoice{
		ID:                 r.ID,
		CompanyID:          r.CompanyID,
		Company:            company,
		InvoiceNumber:      number,
		BillingPeriodStart: periodStart,
		BillingPeriodEnd:   periodEnd,
		Amount:             firstAmount(r.FinalAmount, r.TotalAmount, r.Amount),
		Status:             r.Status,
		DueDate:            r.DueDate,
		PaidAt:             r.PaidAt,
		CreatedAt:          r.CreatedAt,
	}
}

// PaymentRecord is the backend payment shape covering the observed variants.
type PaymentRecord struct {
	ID            string         `json:"id"`
	BillingID     string         `json:"billingId"`
	InvoiceID     string         `json:"invoiceId"`
	Billing       *InvoiceRecord `json:"billing"`
	Invoice       *fleet.Invoice `json:"invoice"`
	Amount        float64        `json:"amount"`
	PaymentMethod string         `json:"paymentMethod"`
	Status        string         `json:"status"`
	TransactionID string         `json:"transactionId"`
	PaidAt        string         `json:"paidAt"`
	CreatedAt     string         `json:"createdAt"`
}

// Normalize reconciles the record onto the canonical payment shape.
func (r PaymentRecord) Normalize() fleet.Payment {
	invoiceID := r.BillingID
	if invoiceID == "" {
		invoiceID = r.InvoiceID
	}

	invoice := r.Invoice
	if r.Billing != nil {
		normalized := r.Billing.Normalize()
		invoice = &normalized
	}

	return fleet.Payment{
		ID:            r.ID,
		InvoiceID:     invoiceID,
		Invoice:       invoice,
		Amount:        r.Amount,
		PaymentMethod: r.PaymentMethod,
		Status:        r.Status,
		TransactionID: r.TransactionID,
		PaidAt:        r.PaidAt,
		CreatedAt:     r.CreatedAt,
	}
}

// firstAmount picks the first present, non-zero amount in the chain.
func firstAmount(candidates ...*float64) float64 {
	for _, c := range candidates {
		if c != nil && *c != 0 {
			return *c
		}
	}
	return 0
}

// InvoiceListParams filters the invoice list.
type InvoiceListParams struct {
	Page      int
	Limit     int
	Status    string
	CompanyID string
	StartDate string
	EndDate   string
}

func (p InvoiceListParams) query() url.Values {
	q := url.Values{}
	if p.Status != "" {
		q.Set("status", p.Status)
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

// PaymentListParams filters the payment list.
type PaymentListParams struct {
	Page      int
	Limit     int
	Status    string
	InvoiceID string
}

func (p PaymentListParams) query() url.Values {
	q := url.Values{}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.InvoiceID != "" {
		q.Set("invoiceId", p.InvoiceID)
	}
	return q
}

type Service struct {
	client *transport.Client
}

func NewService(client *transport.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[billing.NewService] client is required")
	}
	return &Service{client: client}, nil
}

func (s *Service) ListInvoices(ctx context.Context, p InvoiceListParams) (fleet.Page[fleet.Invoice], error) {
	records, meta, err := transport.GetList[InvoiceRecord](ctx, s.client, "/billing/invoices", p.query(), transport.PageParams{Page: p.Page, Limit: p.Limit})
	if err != nil {
		return fleet.Page[fleet.Invoice]{}, err
	}

	out := make([]fleet.Invoice, 0, len(records))
	for _, r := range records {
		out = append(out, r.Normalize())
	}
	return fleet.Page[fleet.Invoice]{Data: out, Meta: meta}, nil
}

func (s *Service) GetInvoice(ctx context.Context, id string) (fleet.Invoice, error) {
	r, err := transport.Get[InvoiceRecord](ctx, s.client, "/billing/"+id, nil)
	if err != nil {
		return fleet.Invoice{}, err
	}
	return r.Normalize(), nil
}

// GenerateInvoice asks the backend to produce an invoice for a billing period.
func (s *Service) GenerateInvoice(ctx context.Context, invoice fleet.Invoice) (fleet.Invoice, error) {
	r, err := transport.Post[InvoiceRecord](ctx, s.client, "/billing/generate", invoice)
	if err != nil {
		return fleet.Invoice{}, err
	}
	return r.Normalize(), nil
}

func (s *Service) UpdateInvoice(ctx context.Context, id string, invoice fleet.Invoice) (fleet.Invoice, error) {
	r, err := transport.Patch[InvoiceRecord](ctx, s.client, "/billing/"+id, invoice)
	if err != nil {
		return fleet.Invoice{}, err
	}
	return r.Normalize(), nil
}

func (s *Service) ListPayments(ctx context.Context, p PaymentListParams) (fleet.Page[fleet.Payment], error) {
	records, meta, err := transport.GetList[PaymentRecord](ctx, s.client, "/billing/payments", p.query(), transport.PageParams{Page: p.Page, Limit: p.Limit})
	if err != nil {
		return fleet.Page[fleet.Payment]{}, err
	}

	out := make([]fleet.Payment, 0, len(records))
	for _, r := range records {
		out = append(out, r.Normalize())
	}
	return fleet.Page[fleet.Payment]{Data: out, Meta: meta}, nil
}

func (s *Service) GetPayment(ctx context.Context, id string) (fleet.Payment, error) {
	r, err := transport.Get[PaymentRecord](ctx, s.client, "/billing/payments/"+id, nil)
	if err != nil {
		return fleet.Payment{}, err
	}
	return r.Normalize(), nil
}

func (s *Service) CreatePayment(ctx context.Context, payment fleet.Payment) (fleet.Payment, error) {
	r, err := transport.Post[PaymentRecord](ctx, s.client, "/billing/payments", payment)
	if err != nil {
		return fleet.Payment{}, err
	}
	return r.Normalize(), nil
}
