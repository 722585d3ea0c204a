package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/gestor-pedidos/internal/stock"
	"github.com/angelmondragon/gestor-pedidos/pkg/db/models"
	"github.com/angelmondragon/gestor-pedidos/pkg/enums"
	pkgerrors "github.com/angelmondragon/gestor-pedidos/pkg/errors"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
	"github.com/angelmondragon/gestor-pedidos/pkg/types"
	"gorm.io/gorm"
)

const (
	msgListFailed   = "Error al obtener productos"
	msgCreateFailed = "Error al insertar producto"
	msgUpdateFailed = "Error al actualizar producto"
	msgDeleteFailed = "Error al eliminar producto"
	msgNotFound     = "Producto no encontrado"
)

// MsgDeleteMissing is the soft-failure text for a delete that matched nothing.
const MsgDeleteMissing = "No se encontró el producto a eliminar"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages the product catalog.
type Service interface {
	List(ctx context.Context) ([]ProductView, error)
	Search(ctx context.Context, term string) ([]SearchResult, error)
	Create(ctx context.Context, input CreateInput) (int64, error)
	Update(ctx context.Context, input UpdateInput) error
	// Delete reports false when no product had the code.
	Delete(ctx context.Context, code int64) (bool, error)
}

type ServiceParams struct {
	Repo   Repository
	Tx     txRunner
	Logger *logger.Logger
	Cache  stock.Invalidator
}

type service struct {
	repo  Repository
	tx    txRunner
	logg  *logger.Logger
	cache stock.Invalidator
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	return &service{repo: params.Repo, tx: params.Tx, logg: params.Logger, cache: params.Cache}, nil
}

func (s *service) List(ctx context.Context) ([]ProductView, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Persistence(err, msgListFailed)
	}
	out := make([]ProductView, 0, len(rows))
	for _, r := range rows {
		out = append(out, ProductView{
			Code:   r.Code,
			Name:   r.Name,
			Unit:   r.Unit,
			Brand:  r.Brand,
			OnHand: r.OnHand,
			Price:  r.Price.InexactFloat64(),
		})
	}
	return out, nil
}

// Search never fails the caller: the typeahead shows nothing on errors.
func (s *service) Search(ctx context.Context, term string) ([]SearchResult, error) {
	out := []SearchResult{}
	if strings.TrimSpace(term) == "" {
		return out, nil
	}
	rows, err := s.repo.Search(ctx, term, SearchLimit)
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "term", term), "products.search_failed", err)
		return out, nil
	}
	for _, r := range rows {
		unit := ""
		if r.Unit != nil {
			unit = *r.Unit
		}
		out = append(out, SearchResult{
			Code:        r.Code,
			Description: r.Name,
			Unit:        unit,
			Price:       r.Price.InexactFloat64(),
			OnHand:      r.OnHand,
		})
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (int64, error) {
	onHand, err := wholeNumber(input.OnHand, "EXISTENCIA")
	if err != nil {
		return 0, err
	}
	product := models.Product{
		Name:      strings.TrimSpace(input.Name),
		Unit:      strings.TrimSpace(input.Unit),
		BrandCode: optionalCode(input.Brand),
		OnHand:    onHand,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, &product); err != nil {
			return err
		}
		if input.Price.Decimal().IsPositive() {
			return repo.UpsertPrice(ctx, models.Price{
				Level:       models.DefaultPriceLevel,
				ProductCode: product.Code,
				Amount:      input.Price.Decimal(),
			})
		}
		return nil
	})
	if err != nil {
		return 0, pkgerrors.Persistence(err, msgCreateFailed)
	}

	s.invalidate(ctx)
	s.logg.Info(s.logg.WithField(ctx, "codigo_producto", product.Code), "products.created")
	return product.Code, nil
}

// Update rewrites name, unit and on-hand. A changed on-hand is journaled as a
// manual adjustment; a positive PRECIO upserts the tier-1 price.
func (s *service) Update(ctx context.Context, input UpdateInput) error {
	code, err := wholeNumber(input.Code, "Codigo")
	if err != nil {
		return err
	}
	if code <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"Codigo": "is required"})
	}
	onHand, err := wholeNumber(input.OnHand, "EXISTENCIA")
	if err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.Find(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, msgNotFound)
			}
			return err
		}
		if _, err := repo.Update(ctx, code, map[string]any{
			"nombre_producto": strings.TrimSpace(input.Name),
			"unidad_medida":   strings.TrimSpace(input.Unit),
			"existencia":      onHand,
		}); err != nil {
			return err
		}
		if current.OnHand != onHand {
			if err := repo.RecordMovement(ctx, &models.StockMovement{
				ProductCode: code,
				Kind:        enums.MovementKindManualAdjust,
				Quantity:    onHand - current.OnHand,
				Previous:    current.OnHand,
				Current:     onHand,
			}); err != nil {
				return err
			}
		}
		if input.Price.Decimal().IsPositive() {
			return repo.UpsertPrice(ctx, models.Price{
				Level:       models.DefaultPriceLevel,
				ProductCode: code,
				Amount:      input.Price.Decimal(),
			})
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return typed
		}
		return pkgerrors.Persistence(err, msgUpdateFailed)
	}

	s.invalidate(ctx)
	s.logg.Info(s.logg.WithField(ctx, "codigo_producto", code), "products.updated")
	return nil
}

func (s *service) Delete(ctx context.Context, code int64) (bool, error) {
	var rows int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		rows, err = s.repo.WithTx(tx).Delete(ctx, code)
		return err
	})
	if err != nil {
		return false, pkgerrors.Persistence(err, msgDeleteFailed)
	}
	if rows == 0 {
		return false, nil
	}
	s.invalidate(ctx)
	s.logg.Info(s.logg.WithField(ctx, "codigo_producto", code), "products.deleted")
	return true, nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "products.cache_invalidate_failed")
	}
}

func wholeNumber(n types.LooseNumber, field string) (int64, error) {
	v, err := n.Int64()
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{field: "must be a whole number"})
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
