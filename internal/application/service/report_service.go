package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

const (
	defaultReportDays = 30
	maxReportDays     = 366
	reportDateLayout  = "2006-01-02"
)

// ReportService provides bookkeeping summaries
type ReportService struct {
	reportRepo repository.ReportRepository
	now        func() time.Time
}

// NewReportService creates a new report service
func NewReportService(reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		now:        time.Now,
	}
}

// ReportSummary represents the ledger and sales figures of a date range
type ReportSummary struct {
	From                string             `json:"from"`
	To                  string             `json:"to"`
	Credits             decimal.Decimal    `json:"credits"`
	Debits              decimal.Decimal    `json:"debits"`
	Net                 decimal.Decimal    `json:"net"`
	TransactionCount    int64              `json:"transaction_count"`
	ReceiptCount        int64              `json:"receipt_count"`
	SalesTotal          decimal.Decimal    `json:"sales_total"`
	CollectedAtSale     decimal.Decimal    `json:"collected_at_sale"`
	DueCreated          decimal.Decimal    `json:"due_created"`
	OutstandingDue      decimal.Decimal    `json:"outstanding_due"`
	OutstandingDueCount int64              `json:"outstanding_due_count"`
	Daily               []DailyLedgerPoint `json:"daily"`
}

// DailyLedgerPoint represents one day of ledger movement
type DailyLedgerPoint struct {
	Date    string          `json:"date"`
	Credits decimal.Decimal `json:"credits"`
	Debits  decimal.Decimal `json:"debits"`
	Net     decimal.Decimal `json:"net"`
}

// Summary reports on the inclusive date range [from, to]. Missing bounds
// default to the last 30 days ending today.
func (s *ReportService) Summary(ctx context.Context, userID uuid.UUID, from, to *time.Time) (*ReportSummary, error) {
	end := dateOnly(s.now())
	if to != nil {
		end = dateOnly(*to)
	}
	start := end.AddDate(0, 0, -(defaultReportDays - 1))
	if from != nil {
		start = dateOnly(*from)
	}

	if start.After(end) {
		return nil, apperror.NewFieldError("from", "must not be after to")
	}
	if end.Sub(start) >= maxReportDays*24*time.Hour {
		return nil, apperror.NewFieldError("from", "range must not exceed 366 days")
	}
	endExclusive := end.AddDate(0, 0, 1)

	ledger, err := s.reportRepo.LedgerTotals(ctx, userID, start, endExclusive)
	if err != nil {
		return nil, err
	}
	sales, err := s.reportRepo.SalesTotals(ctx, userID, start, endExclusive)
	if err != nil {
		return nil, err
	}
	rows, err := s.reportRepo.DailyLedger(ctx, userID, start, endExclusive)
	if err != nil {
		return nil, err
	}
	outstanding, outstandingCount, err := s.reportRepo.OutstandingDue(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ReportSummary{
		From:                start.Format(reportDateLayout),
		To:                  end.Format(reportDateLayout),
		Credits:             ledger.Credits,
		Debits:              ledger.Debits,
		Net:                 ledger.Credits.Sub(ledger.Debits),
		TransactionCount:    ledger.TransactionCount,
		ReceiptCount:        sales.ReceiptCount,
		SalesTotal:          sales.SalesTotal,
		CollectedAtSale:     sales.CollectedNow,
		DueCreated:          sales.DueCreated,
		OutstandingDue:      outstanding,
		OutstandingDueCount: outstandingCount,
		Daily:               fillDailySeries(start, end, rows),
	}, nil
}

// fillDailySeries returns one point per day in [start, end], zero where the
// ledger had no movement.
func fillDailySeries(start, end time.Time, rows []repository.DailyLedgerRow) []DailyLedgerPoint {
	byDay := make(map[string]repository.DailyLedgerRow, len(rows))
	for _, row := range rows {
		byDay[row.Day] = row
	}

	points := make([]DailyLedgerPoint, 0, int(end.Sub(start).Hours()/24)+1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(reportDateLayout)
		point := DailyLedgerPoint{Date: key, Credits: decimal.Zero, Debits: decimal.Zero, Net: decimal.Zero}
		if row, ok := byDay[key]; ok {
			point.Credits = row.Credits
			point.Debits = row.Debits
			point.Net = row.Credits.Sub(row.Debits)
		}
		points = append(points, point)
	}
	return points
}
