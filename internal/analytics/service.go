// Package analytics computes per-user billing summaries from invoice and
// time entry state, with a Redis-backed cache in front.
package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/caching"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/repositories"
)

const cacheTTL = 30 * time.Minute

// listPageSize bounds the scan; a user with more invoices than this gets a
// truncated summary. TODO: push the aggregation into SQL once it matters.
const listPageSize = 10000

// Summary is the per-user billing rollup.
type Summary struct {
	UserID        uuid.UUID `json:"user_id"`
	InvoiceCount  int       `json:"invoice_count"`
	DraftCount    int       `json:"draft_count"`
	SentCount     int       `json:"sent_count"`
	PaidCount     int       `json:"paid_count"`
	OverdueCount  int       `json:"overdue_count"`
	TotalBilled   string    `json:"total_billed"`
	TotalPaid     string    `json:"total_paid"`
	Outstanding   string    `json:"outstanding"`
	AverageTotal  string    `json:"average_total"`
	LastUpdated   time.Time `json:"last_updated"`
}

type Service struct {
	invoiceRepo repositories.InvoiceRepository
	cacheSvc    caching.CacheService
}

func NewService(invoiceRepo repositories.InvoiceRepository, cacheSvc caching.CacheService) *Service {
	return &Service{
		invoiceRepo: invoiceRepo,
		cacheSvc:    cacheSvc,
	}
}

// Compute builds the summary from current invoice state.
func (s *Service) Compute(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	invoices, err := s.invoiceRepo.List(ctx, userID, nil, listPageSize, 0)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		UserID:      userID,
		LastUpdated: time.Now(),
	}

	totalBilled := money.Zero
	totalPaid := money.Zero
	outstanding := money.Zero
	for _, invoice := range invoices {
		summary.InvoiceCount++
		totalBilled = totalBilled.Add(invoice.Total)

		switch invoice.Status {
		case models.InvoiceStatusDraft:
			summary.DraftCount++
		case models.InvoiceStatusSent:
			summary.SentCount++
			outstanding = outstanding.Add(invoice.Total)
		case models.InvoiceStatusPaid:
			summary.PaidCount++
			totalPaid = totalPaid.Add(invoice.Total)
		case models.InvoiceStatusOverdue:
			summary.OverdueCount++
			outstanding = outstanding.Add(invoice.Total)
		}
	}

	summary.TotalBilled = totalBilled.String()
	summary.TotalPaid = totalPaid.String()
	summary.Outstanding = outstanding.String()

	average := money.Zero
	if summary.InvoiceCount > 0 {
		average = money.NewMoney(totalBilled.Decimal().Div(decimal.NewFromInt(int64(summary.InvoiceCount)))).Round()
	}
	summary.AverageTotal = average.String()
	return summary, nil
}

// Get returns the cached summary, computing and caching it on a miss.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	if cached, err := s.cacheSvc.GetInvoiceAnalytics(ctx, userID); err == nil && cached != nil {
		if summary, ok := summaryFromMap(userID, cached); ok {
			return summary, nil
		}
	}

	summary, err := s.Compute(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheSvc.SetInvoiceAnalytics(ctx, userID, summaryToMap(summary), cacheTTL); err != nil {
		log.Debug().Err(err).Msg("failed to cache analytics summary")
	}
	return summary, nil
}

// Refresh recomputes and recaches the summary, returning the fresh value.
func (s *Service) Refresh(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	summary, err := s.Compute(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cacheSvc.SetInvoiceAnalytics(ctx, userID, summaryToMap(summary), cacheTTL); err != nil {
		log.Debug().Err(err).Msg("failed to cache analytics summary")
	}
	return summary, nil
}

func summaryToMap(s *Summary) map[string]interface{} {
	return map[string]interface{}{
		"user_id":       s.UserID.String(),
		"invoice_count": s.InvoiceCount,
		"draft_count":   s.DraftCount,
		"sent_count":    s.SentCount,
		"paid_count":    s.PaidCount,
		"overdue_count": s.OverdueCount,
		"total_billed":  s.TotalBilled,
		"total_paid":    s.TotalPaid,
		"outstanding":   s.Outstanding,
		"average_total": s.AverageTotal,
		"last_updated":  s.LastUpdated.Format(time.RFC3339),
	}
}

func summaryFromMap(userID uuid.UUID, m map[string]interface{}) (*Summary, bool) {
	summary := &Summary{UserID: userID}

	count := func(key string) (int, bool) {
		// JSON round trips numbers as float64
		f, ok := m[key].(float64)
		return int(f), ok
	}
	str := func(key string) (string, bool) {
		s, ok := m[key].(string)
		return s, ok
	}

	var ok bool
	if summary.InvoiceCount, ok = count("invoice_count"); !ok {
		return nil, false
	}
	summary.DraftCount, _ = count("draft_count")
	summary.SentCount, _ = count("sent_count")
	summary.PaidCount, _ = count("paid_count")
	summary.OverdueCount, _ = count("overdue_count")
	if summary.TotalBilled, ok = str("total_billed"); !ok {
		return nil, false
	}
	summary.TotalPaid, _ = str("total_paid")
	summary.Outstanding, _ = str("outstanding")
	summary.AverageTotal, _ = str("average_total")
	if ts, ok := str("last_updated"); ok {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			summary.LastUpdated = parsed
		}
	}
	return summary, true
}
