package reports

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/gestor-pedidos/pkg/enums"
	pkgerrors "github.com/angelmondragon/gestor-pedidos/pkg/errors"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const (
	msgReportFailed   = "Error al obtener reporte"
	msgSummaryFailed  = "Error al obtener resumen"
	msgCriticalFailed = "Error al obtener productos críticos"
	msgInvalidDate    = "Fecha inválida, use el formato YYYY-MM-DD"
	msgInvalidLimit   = "El límite debe estar entre 1 y 500"
)

// Service is the inventory reconciliation reporter. It only reads.
type Service interface {
	InventoryVsOrders(ctx context.Context, date string) ([]ProductReconciliation, error)
	Summary(ctx context.Context, date string) (InventorySummary, error)
	CriticalProducts(ctx context.Context, limit int) ([]CriticalProduct, error)
	Workbook(ctx context.Context, date string) (*excelize.File, error)
}

// ServiceParams groups the reporter collaborators. Cache is optional.
type ServiceParams struct {
	Repo   Repository
	Cache  CriticalCache
	Logger *logger.Logger
	Now    func() time.Time
}

type service struct {
	repo  Repository
	cache CriticalCache
	logg  *logger.Logger
	now   func() time.Time
}

// NewService wires the reporter.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:  params.Repo,
		cache: params.Cache,
		logg:  params.Logger,
		now:   params.Now,
	}, nil
}

func (s *service) InventoryVsOrders(ctx context.Context, date string) ([]ProductReconciliation, error) {
	day, err := s.resolveDay(date)
	if err != nil {
		return nil, err
	}
	rows, err := s.reconcile(ctx, day)
	if err != nil {
		return nil, pkgerrors.Persistence(err, msgReportFailed)
	}
	return rows, nil
}

func (s *service) Summary(ctx context.Context, date string) (InventorySummary, error) {
	day, err := s.resolveDay(date)
	if err != nil {
		return InventorySummary{}, err
	}
	rows, err := s.reconcile(ctx, day)
	if err != nil {
		return InventorySummary{}, pkgerrors.Persistence(err, msgSummaryFailed)
	}
	orders, err := s.repo.CountOrders(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return InventorySummary{}, pkgerrors.Persistence(err, msgSummaryFailed)
	}
	return summarize(day.Format(DateLayout), rows, orders), nil
}

func (s *service) CriticalProducts(ctx context.Context, limit int) ([]CriticalProduct, error) {
	if limit == 0 {
		limit = DefaultCriticalLimit
	}
	if limit < 1 || limit > MaxCriticalLimit {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidLimit)
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx); ok {
			return capCritical(cached, limit), nil
		}
	}

	// The cached copy always holds the longest list so any limit can be served from it.
	fetch := limit
	if s.cache != nil {
		fetch = MaxCriticalLimit
	}
	rows, err := s.repo.LowStock(ctx, criticalThreshold, fetch)
	if err != nil {
		return nil, pkgerrors.Persistence(err, msgCriticalFailed)
	}

	out := make([]CriticalProduct, 0, len(rows))
	for _, r := range rows {
		out = append(out, CriticalProduct{
			ProductCode: r.ProductCode,
			ProductName: r.ProductName,
			Unit:        r.Unit,
			Brand:       r.Brand,
			OnHand:      r.OnHand,
			Alert:       alertLevel(r.OnHand),
		})
	}

	if s.cache != nil {
		s.cache.Set(ctx, out)
	}
	return capCritical(out, limit), nil
}

// resolveDay returns local midnight of the requested date, today when empty.
func (s *service) resolveDay(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		now := s.now().In(time.Local)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	day, err := time.ParseInLocation(DateLayout, date, time.Local)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidDate).
			WithDetails(map[string]string{"fecha": date})
	}
	return day, nil
}

func (s *service) reconcile(ctx context.Context, day time.Time) ([]ProductReconciliation, error) {
	rows, err := s.repo.SoldOnDay(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	out := make([]ProductReconciliation, 0, len(rows))
	for _, r := range rows {
		resultant := r.OnHand - r.Sold
		shortfall := int64(0)
		if resultant < 0 {
			shortfall = -resultant
		}
		out = append(out, ProductReconciliation{
			ProductCode: r.ProductCode,
			ProductName: r.ProductName,
			Unit:        r.Unit,
			Brand:       r.Brand,
			OnHand:      r.OnHand,
			Sold:        r.Sold,
			Resultant:   resultant,
			Shortfall:   shortfall,
			Price:       r.Price.InexactFloat64(),
			Status:      enums.InventoryStatusFor(shortfall),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := out[i].Shortfall > 0, out[j].Shortfall > 0
		if ai != aj {
			return ai
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out, nil
}

func summarize(date string, rows []ProductReconciliation, orders int64) InventorySummary {
	summary := InventorySummary{
		Date:         date,
		ProductsSold: len(rows),
		OrdersOfDay:  orders,
	}
	for _, r := range rows {
		if r.Shortfall > 0 {
			summary.Insufficient++
			summary.ShortfallUnits += r.Shortfall
		}
	}
	summary.Sufficient = summary.ProductsSold - summary.Insufficient
	summary.CoveragePercent = coverage(summary.Sufficient, summary.ProductsSold)
	return summary
}

func coverage(sufficient, sold int) float64 {
	if sold == 0 {
		return 100
	}
	return math.Round(float64(sufficient)/float64(sold)*100*100) / 100
}

func alertLevel(onHand int64) enums.StockAlert {
	if onHand <= criticalAlertMax {
		return enums.StockAlertCritical
	}
	return enums.StockAlertLow
}

func capCritical(rows []CriticalProduct, limit int) []CriticalProduct {
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
