package stock

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/angelmondragon/gestor-pedidos/pkg/db/models"
	"github.com/angelmondragon/gestor-pedidos/pkg/enums"
	pkgerrors "github.com/angelmondragon/gestor-pedidos/pkg/errors"
	"github.com/angelmondragon/gestor-pedidos/pkg/events"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
	"github.com/angelmondragon/gestor-pedidos/pkg/metrics"
	"gorm.io/gorm"
)

const (
	msgProductNotFound = "Producto no encontrado"
	msgStockFailure    = "Error al actualizar stock"
	msgStockReadFailed = "Error al consultar stock"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Invalidator drops read models derived from on-hand quantities.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service is the stock ledger: the single owner of productos.existencia writes
// made by the order workflow.
type Service interface {
	GetStock(ctx context.Context, code int64) (int64, error)
	CheckAvailability(ctx context.Context, code, requested int64) (Availability, error)
	DecrementStock(ctx context.Context, code, qty int64) (int64, error)
	DecrementIfAvailable(ctx context.Context, code, qty int64) (int64, error)
	// ApplyTx decrements inside a caller-owned transaction. The caller must
	// pass the returned movements to Notify once the transaction commits.
	ApplyTx(ctx context.Context, tx *gorm.DB, req Request) (Movement, error)
	Notify(ctx context.Context, movements ...Movement)
	History(ctx context.Context, code int64) ([]MovementView, error)
}

// ServiceParams groups the collaborators of the ledger.
type ServiceParams struct {
	Repo      Repository
	Tx        txRunner
	Logger    *logger.Logger
	Metrics   *metrics.OrderMetrics
	Publisher events.Publisher
	Cache     Invalidator
}

type service struct {
	repo      Repository
	tx        txRunner
	logg      *logger.Logger
	metrics   *metrics.OrderMetrics
	publisher events.Publisher
	cache     Invalidator
}

// NewService wires the stock ledger.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Publisher == nil {
		params.Publisher = events.Noop{}
	}
	return &service{
		repo:      params.Repo,
		tx:        params.Tx,
		logg:      params.Logger,
		metrics:   params.Metrics,
		publisher: params.Publisher,
		cache:     params.Cache,
	}, nil
}

func (s *service) GetStock(ctx context.Context, code int64) (int64, error) {
	onHand, err := s.repo.GetOnHand(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, msgProductNotFound)
		}
		return 0, pkgerrors.Persistence(err, msgStockReadFailed)
	}
	return onHand, nil
}

// CheckAvailability is advisory: nothing is reserved, so the answer can be
// stale by the time the order is placed.
func (s *service) CheckAvailability(ctx context.Context, code, requested int64) (Availability, error) {
	onHand, err := s.GetStock(ctx, code)
	if err != nil {
		return Availability{}, err
	}
	return Availability{Sufficient: requested <= onHand, Available: onHand}, nil
}

func (s *service) DecrementStock(ctx context.Context, code, qty int64) (int64, error) {
	return s.decrement(ctx, Request{Code: code, Quantity: qty})
}

func (s *service) DecrementIfAvailable(ctx context.Context, code, qty int64) (int64, error) {
	return s.decrement(ctx, Request{Code: code, Quantity: qty, Guarded: true})
}

func (s *service) decrement(ctx context.Context, req Request) (int64, error) {
	var movement Movement
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		movement, err = s.ApplyTx(ctx, tx, req)
		return err
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return 0, typed
		}
		return 0, pkgerrors.Persistence(err, msgStockFailure)
	}
	s.Notify(ctx, movement)
	return movement.Current, nil
}

func (s *service) ApplyTx(ctx context.Context, tx *gorm.DB, req Request) (Movement, error) {
	repo := s.repo.WithTx(tx)

	previous, err := repo.GetOnHand(ctx, req.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Movement{}, pkgerrors.New(pkgerrors.CodeNotFound, msgProductNotFound)
		}
		return Movement{}, err
	}

	var rows int64
	if req.Guarded {
		rows, err = repo.DecrementIfAvailable(ctx, req.Code, req.Quantity)
	} else {
		rows, err = repo.Decrement(ctx, req.Code, req.Quantity)
	}
	if err != nil {
		return Movement{}, err
	}
	if rows == 0 {
		if req.Guarded {
			s.metrics.ObserveDecrement(metrics.StockOutcomeInsufficient, 0)
			return Movement{}, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("Stock insuficiente. Disponible: %d", previous)).
				WithDetails(map[string]any{
					"codigo_producto": req.Code,
					"existencia":      previous,
					"solicitado":      req.Quantity,
				})
		}
		return Movement{}, pkgerrors.New(pkgerrors.CodeNotFound, msgProductNotFound)
	}

	current, err := repo.GetOnHand(ctx, req.Code)
	if err != nil {
		return Movement{}, err
	}

	if err := repo.RecordMovement(ctx, &models.StockMovement{
		ProductCode: req.Code,
		Kind:        enums.MovementKindOrderDecrement,
		Quantity:    -req.Quantity,
		Previous:    previous,
		Current:     current,
		Reference:   req.Reference,
	}); err != nil {
		return Movement{}, err
	}

	return Movement{Code: req.Code, Quantity: req.Quantity, Previous: previous, Current: current}, nil
}

func (s *service) Notify(ctx context.Context, movements ...Movement) {
	if len(movements) == 0 {
		return
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "stock.cache_invalidate_failed")
		}
	}

	for _, m := range movements {
		mctx := s.logg.WithFields(ctx, map[string]any{
			"codigo_producto": m.Code,
			"cantidad":        m.Quantity,
			"existencia":      m.Current,
		})
		s.logg.Info(mctx, "stock.decremented")

		if m.Current < 0 {
			s.metrics.ObserveDecrement(metrics.StockOutcomeNegative, m.Quantity)
			s.logg.Warn(mctx, "stock.negative")
		} else {
			s.metrics.ObserveDecrement(metrics.StockOutcomeApplied, m.Quantity)
		}

		if m.Current <= LowStockThreshold {
			err := s.publisher.Publish(ctx, events.Event{
				Type: events.TypeStockLow,
				Key:  strconv.FormatInt(m.Code, 10),
				Data: events.StockLow{ProductCode: m.Code, OnHand: m.Current, Threshold: LowStockThreshold},
			})
			if err != nil {
				s.logg.Warn(s.logg.WithField(mctx, "error", err.Error()), "stock.low_publish_failed")
			}
		}
	}
}

func (s *service) History(ctx context.Context, code int64) ([]MovementView, error) {
	rows, err := s.repo.ListMovements(ctx, code)
	if err != nil {
		return nil, pkgerrors.Persistence(err, msgStockReadFailed)
	}
	out := make([]MovementView, 0, len(rows))
	for _, r := range rows {
		out = append(out, MovementView{
			ID:          r.ID,
			ProductCode: r.ProductCode,
			Kind:        r.Kind.String(),
			Quantity:    r.Quantity,
			Previous:    r.Previous,
			Current:     r.Current,
			Reference:   r.Reference,
			CreatedAt:   r.CreatedAt,
		})
	}
	return out, nil
}
