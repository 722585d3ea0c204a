package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/gestor-pedidos/internal/stock"
	"github.com/angelmondragon/gestor-pedidos/pkg/db/models"
	"github.com/angelmondragon/gestor-pedidos/pkg/enums"
	pkgerrors "github.com/angelmondragon/gestor-pedidos/pkg/errors"
	"github.com/angelmondragon/gestor-pedidos/pkg/events"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
	"github.com/angelmondragon/gestor-pedidos/pkg/metrics"
	"github.com/angelmondragon/gestor-pedidos/pkg/types"
	"gorm.io/gorm"
)

const (
	msgHeaderFailed   = "Error al insertar pedido"
	msgLinesFailed    = "Error al insertar detalles"
	msgStockFailed    = "Error al actualizar stock"
	msgListFailed     = "Error al obtener pedidos"
	msgOrderNotFound  = "Pedido no encontrado"
	documentDateExtra = " Hrs"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the order builder. InsertHeader, InsertLines and ApplyStockDeltas
// are independent units of work; PlaceOrder runs all three in one transaction.
type Service interface {
	InsertHeader(ctx context.Context, input HeaderInput) (int64, error)
	InsertLines(ctx context.Context, lines []LineInput) error
	ApplyStockDeltas(ctx context.Context, deltas []StockDelta) error
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (int64, error)
	ListOrders(ctx context.Context) ([]OrderSummary, error)
	NextOrderNumber(ctx context.Context) (int64, error)
	Lines(ctx context.Context, number int64) ([]LineView, error)
	Document(ctx context.Context, number int64) (*Document, error)
}

// ServiceParams groups the collaborators of the order builder.
type ServiceParams struct {
	Repo             Repository
	Tx               txRunner
	Stock            stock.Service
	Logger           *logger.Logger
	Metrics          *metrics.OrderMetrics
	Publisher        events.Publisher
	GuardedDecrement bool
	Now              func() time.Time
}

type service struct {
	repo      Repository
	tx        txRunner
	stock     stock.Service
	logg      *logger.Logger
	metrics   *metrics.OrderMetrics
	publisher events.Publisher
	guarded   bool
	now       func() time.Time
}

// NewService wires the order builder.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock service required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Publisher == nil {
		params.Publisher = events.Noop{}
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:      params.Repo,
		tx:        params.Tx,
		stock:     params.Stock,
		logg:      params.Logger,
		metrics:   params.Metrics,
		publisher: params.Publisher,
		guarded:   params.GuardedDecrement,
		now:       params.Now,
	}, nil
}

func (s *service) InsertHeader(ctx context.Context, input HeaderInput) (int64, error) {
	header := s.headerFromInput(input)
	if err := s.repo.CreateHeader(ctx, &header); err != nil {
		return 0, pkgerrors.Persistence(err, msgHeaderFailed)
	}

	s.metrics.IncOrderCreated(metrics.OrderSourceLegacy)
	s.afterHeader(ctx, header, 0)
	return header.Number, nil
}

func (s *service) InsertLines(ctx context.Context, lines []LineInput) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.OrderLine, 0, len(lines))
	for i, line := range lines {
		number, err := wholeNumber(line.OrderNumber, "NUMERO_PEDIDO", i)
		if err != nil {
			return err
		}
		row, err := lineFromInput(line, number, i)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).CreateLines(ctx, rows)
	})
	if err != nil {
		return pkgerrors.Persistence(err, msgLinesFailed)
	}

	s.metrics.AddLinesInserted(len(rows))
	s.publish(ctx, events.Event{
		Type: events.TypeOrderLinesInserted,
		Key:  strconv.FormatInt(rows[0].OrderNumber, 10),
		Data: events.OrderLinesInserted{OrderNumbers: distinctOrders(rows), Lines: len(rows)},
	})
	s.logg.Info(s.logg.WithField(ctx, "lineas", len(rows)), "order.lines.inserted")
	return nil
}

// ApplyStockDeltas decrements every entry in one transaction. Unknown product
// codes are skipped, matching an UPDATE that touches no rows.
func (s *service) ApplyStockDeltas(ctx context.Context, deltas []StockDelta) error {
	requests := make([]stock.Request, 0, len(deltas))
	for i, delta := range deltas {
		code, err := wholeNumber(delta.ProductCode, "CODIGO_PRODUCTO", i)
		if err != nil {
			return err
		}
		qty, err := wholeNumber(delta.Quantity, "CANTIDAD", i)
		if err != nil {
			return err
		}
		requests = append(requests, stock.Request{Code: code, Quantity: qty, Guarded: s.guarded})
	}

	var movements []stock.Movement
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		movements = movements[:0]
		for _, req := range requests {
			movement, err := s.stock.ApplyTx(ctx, tx, req)
			if err != nil {
				if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
					s.metrics.ObserveDecrement(metrics.StockOutcomeSkipped, req.Quantity)
					s.logg.Warn(s.logg.WithField(ctx, "codigo_producto", req.Code), "stock.unknown_product_skipped")
					continue
				}
				return err
			}
			movements = append(movements, movement)
		}
		return nil
	})
	if err != nil {
		return asPersistence(err, msgStockFailed)
	}

	s.stock.Notify(ctx, movements...)
	return nil
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (int64, error) {
	if len(input.Lines) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "El pedido no tiene detalles")
	}
	rows := make([]models.OrderLine, 0, len(input.Lines))
	for i, line := range input.Lines {
		row, err := lineFromInput(line, 0, i)
		if err != nil {
			return 0, err
		}
		rows = append(rows, row)
	}

	header := s.headerFromInput(input.Header)
	var movements []stock.Movement
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		movements = movements[:0]
		repo := s.repo.WithTx(tx)
		if err := repo.CreateHeader(ctx, &header); err != nil {
			return pkgerrors.Persistence(err, msgHeaderFailed)
		}
		for i := range rows {
			rows[i].OrderNumber = header.Number
		}
		if err := repo.CreateLines(ctx, rows); err != nil {
			return pkgerrors.Persistence(err, msgLinesFailed)
		}
		ref := header.Number
		for _, row := range rows {
			movement, err := s.stock.ApplyTx(ctx, tx, stock.Request{
				Code:      row.ProductCode,
				Quantity:  row.Quantity,
				Reference: &ref,
				Guarded:   s.guarded,
			})
			if err != nil {
				if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
					return typed.WithDetails(map[string]any{"codigo_producto": row.ProductCode})
				}
				return asPersistence(err, msgStockFailed)
			}
			movements = append(movements, movement)
		}
		return nil
	})
	if err != nil {
		return 0, asPersistence(err, msgHeaderFailed)
	}

	s.metrics.IncOrderCreated(metrics.OrderSourceAtomic)
	s.metrics.AddLinesInserted(len(rows))
	s.stock.Notify(ctx, movements...)
	s.afterHeader(ctx, header, len(rows))
	return header.Number, nil
}

func (s *service) ListOrders(ctx context.Context) ([]OrderSummary, error) {
	headers, err := s.repo.ListHeaders(ctx)
	if err != nil {
		return nil, pkgerrors.Persistence(err, msgListFailed)
	}
	out := make([]OrderSummary, 0, len(headers))
	for _, h := range headers {
		out = append(out, OrderSummary{
			Number:       h.Number,
			Date:         formatDate(h.Date),
			CustomerName: h.CustomerName,
			NIT:          h.NIT,
			Address:      h.Address,
			Total:        h.Total.InexactFloat64(),
			Status:       h.Status.String(),
		})
	}
	return out, nil
}

func (s *service) NextOrderNumber(ctx context.Context) (int64, error) {
	next, err := s.repo.NextNumber(ctx)
	if err != nil {
		return 0, pkgerrors.Persistence(err, msgListFailed)
	}
	return next, nil
}

func (s *service) Lines(ctx context.Context, number int64) ([]LineView, error) {
	lines, err := s.repo.ListLines(ctx, number)
	if err != nil {
		return nil, pkgerrors.Persistence(err, msgListFailed)
	}
	out := make([]LineView, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineView{
			ProductCode: l.ProductCode,
			ProductName: l.ProductName,
			Unit:        l.Unit,
			Quantity:    float64(l.Quantity),
			UnitPrice:   l.UnitPrice.InexactFloat64(),
			LineTotal:   l.LineTotal.InexactFloat64(),
		})
	}
	return out, nil
}

func (s *service) Document(ctx context.Context, number int64) (*Document, error) {
	header, err := s.repo.FindHeader(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgOrderNotFound)
		}
		return nil, pkgerrors.Persistence(err, msgListFailed)
	}
	lines, err := s.repo.ListLines(ctx, number)
	if err != nil {
		return nil, pkgerrors.Persistence(err, msgListFailed)
	}

	doc := &Document{
		Header: DocumentHeader{
			Number:       header.Number,
			Date:         formatDate(header.Date) + documentDateExtra,
			CustomerName: header.CustomerName,
			NIT:          header.NIT,
			Address:      header.Address,
			Total:        header.Total.InexactFloat64(),
			Status:       header.Status.String(),
		},
		Lines:     make([]DocumentLine, 0, len(lines)),
		PrintedAt: formatDate(s.now()),
	}
	if header.Comments != nil {
		doc.Header.Comments = *header.Comments
	}
	for _, l := range lines {
		doc.Lines = append(doc.Lines, DocumentLine{
			ProductCode: l.ProductCode,
			ProductName: l.ProductName,
			Unit:        l.Unit,
			Quantity:    float64(l.Quantity),
			UnitPrice:   l.UnitPrice.InexactFloat64(),
			LineTotal:   l.LineTotal.InexactFloat64(),
		})
	}
	return doc, nil
}

func (s *service) headerFromInput(input HeaderInput) models.OrderHeader {
	return models.OrderHeader{
		Date:         s.parseDate(input.Date),
		UserCode:     optionalCode(input.UserCode),
		CustomerCode: optionalCode(input.CustomerCode),
		CustomerName: input.CustomerName,
		NIT:          input.NIT,
		Address:      input.Address,
		Total:        input.Total.Decimal(),
		Status:       enums.OrderStatusOpen,
		Comments:     input.Comments,
	}
}

// parseDate reads DD/MM/YYYY HH:MM:SS in server local time; anything else means now.
func (s *service) parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		if parsed, err := time.ParseInLocation(DateLayout, raw, time.Local); err == nil {
			return parsed
		}
	}
	return s.now()
}

func (s *service) afterHeader(ctx context.Context, header models.OrderHeader, lines int) {
	ctx = s.logg.WithOrderNumber(ctx, header.Number)
	s.logg.Info(ctx, "order.header.created")
	s.publish(ctx, events.Event{
		Type: events.TypeOrderCreated,
		Key:  strconv.FormatInt(header.Number, 10),
		Data: events.OrderCreated{
			OrderNumber:  header.Number,
			CustomerCode: header.CustomerCode,
			Total:        header.Total.InexactFloat64(),
			Lines:        lines,
		},
	})
}

func (s *service) publish(ctx context.Context, evt events.Event) {
	evt.OccurredAt = s.now().UTC()
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"event_type": evt.Type, "error": err.Error()}), "order.event_publish_failed")
	}
}

func lineFromInput(line LineInput, orderNumber int64, index int) (models.OrderLine, error) {
	code, err := wholeNumber(line.ProductCode, "CODIGO_PRODUCTO", index)
	if err != nil {
		return models.OrderLine{}, err
	}
	qty, err := wholeNumber(line.Quantity, "CANTIDAD", index)
	if err != nil {
		return models.OrderLine{}, err
	}
	return models.OrderLine{
		OrderNumber: orderNumber,
		ProductCode: code,
		ProductName: line.ProductName,
		Unit:        line.Unit,
		Quantity:    qty,
		UnitPrice:   line.UnitPrice.Decimal(),
		LineTotal:   line.Total.Decimal(),
	}, nil
}

func wholeNumber(n types.LooseNumber, field string, index int) (int64, error) {
	v, err := n.Int64()
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{fmt.Sprintf("%d.%s", index, field): "must be a whole number"})
	}
	return v, nil
}

func optionalCode(n types.LooseNumber) *int64 {
	if !n.Present || n.Decimal().IsZero() {
		return nil
	}
	v := n.Decimal().IntPart()
	return &v
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format(DateLayout)
}

func distinctOrders(rows []models.OrderLine) []int64 {
	seen := map[int64]struct{}{}
	out := []int64{}
	for _, r := range rows {
		if _, ok := seen[r.OrderNumber]; ok {
			continue
		}
		seen[r.OrderNumber] = struct{}{}
		out = append(out, r.OrderNumber)
	}
	return out
}

func asPersistence(err error, prefix string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Persistence(err, prefix)
}
