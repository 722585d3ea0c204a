package orders

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/gestor-pedidos/internal/stock"
	"github.com/angelmondragon/gestor-pedidos/pkg/db"
	"github.com/angelmondragon/gestor-pedidos/pkg/db/dbtest"
	"github.com/angelmondragon/gestor-pedidos/pkg/db/models"
	"github.com/angelmondragon/gestor-pedidos/pkg/enums"
	pkgerrors "github.com/angelmondragon/gestor-pedidos/pkg/errors"
	"github.com/angelmondragon/gestor-pedidos/pkg/events"
	"github.com/angelmondragon/gestor-pedidos/pkg/metrics"
	"github.com/angelmondragon/gestor-pedidos/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recordingPublisher) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	conn      *gorm.DB
	svc       Service
	stock     stock.Service
	publisher *recordingPublisher
	now       time.Time
}

func newFixture(t *testing.T, guarded bool) fixture {
	t.Helper()
	conn := dbtest.Open(t)
	client := db.NewFromGorm(conn)
	publisher := &recordingPublisher{}
	orderMetrics := metrics.NewOrderMetrics(prometheus.NewRegistry())
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.Local)

	stockSvc, err := stock.NewService(stock.ServiceParams{
		Repo:      stock.NewRepository(conn),
		Tx:        client,
		Metrics:   orderMetrics,
		Publisher: publisher,
	})
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		Repo:             NewRepository(conn),
		Tx:               client,
		Stock:            stockSvc,
		Metrics:          orderMetrics,
		Publisher:        publisher,
		GuardedDecrement: guarded,
		Now:              func() time.Time { return now },
	})
	require.NoError(t, err)
	return fixture{conn: conn, svc: svc, stock: stockSvc, publisher: publisher, now: now}
}

func num(v int64) types.LooseNumber {
	return types.NewLooseNumber(decimal.NewFromInt(v))
}

func money(s string) types.LooseNumber {
	return types.NewLooseNumber(decimal.RequireFromString(s))
}

func TestNewServiceRequiresCollaborators(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Repo: NewRepository(nil)})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Repo: NewRepository(nil), Tx: db.NewFromGorm(nil)})
	require.Error(t, err)
}

func TestInsertHeaderParsesDateAndDefaults(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	number, err := f.svc.InsertHeader(ctx, HeaderInput{
		Date:         "05/02/2025 14:20:00",
		CustomerCode: num(7),
		CustomerName: "Tienda La Esquina",
		NIT:          "1234567-8",
		Address:      "Zona 1",
		Total:        money("150.50"),
	})
	require.NoError(t, err)
	assert.Positive(t, number)

	var stored models.OrderHeader
	require.NoError(t, f.conn.First(&stored, "numero_pedido = ?", number).Error)
	assert.Equal(t, enums.OrderStatusOpen, stored.Status)
	assert.Equal(t, "05/02/2025 14:20:00", stored.Date.In(time.Local).Format(DateLayout))
	require.NotNil(t, stored.CustomerCode)
	assert.Equal(t, int64(7), *stored.CustomerCode)
	assert.Nil(t, stored.UserCode)
	assert.True(t, decimal.RequireFromString("150.50").Equal(stored.Total))

	assert.Equal(t, []string{events.TypeOrderCreated}, f.publisher.kinds())
}

func TestInsertHeaderMalformedDateUsesNow(t *testing.T) {
	f := newFixture(t, false)
	number, err := f.svc.InsertHeader(context.Background(), HeaderInput{Date: "2025-02-05", CustomerName: "X"})
	require.NoError(t, err)

	var stored models.OrderHeader
	require.NoError(t, f.conn.First(&stored, "numero_pedido = ?", number).Error)
	assert.Equal(t, f.now.Format(DateLayout), stored.Date.In(time.Local).Format(DateLayout))
}

func TestInsertLinesKeepsInputOrder(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	number, err := f.svc.InsertHeader(ctx, HeaderInput{CustomerName: "Cliente"})
	require.NoError(t, err)

	err = f.svc.InsertLines(ctx, []LineInput{
		{OrderNumber: num(number), ProductCode: num(20), ProductName: "Cafe", Unit: "LIBRA", Quantity: num(2), UnitPrice: money("30"), Total: money("60")},
		{OrderNumber: num(number), ProductCode: num(10), ProductName: "Arroz", Unit: "LIBRA", Quantity: num(1), UnitPrice: money("5.25"), Total: money("5.25")},
		{OrderNumber: num(number), ProductCode: num(15), ProductName: "Frijol", Unit: "LIBRA", Quantity: num(3), UnitPrice: money("7"), Total: money("21")},
	})
	require.NoError(t, err)

	lines, err := f.svc.Lines(ctx, number)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, int64(20), lines[0].ProductCode)
	assert.Equal(t, float64(60), lines[0].LineTotal)
	assert.Equal(t, int64(10), lines[1].ProductCode)
	assert.Equal(t, 5.25, lines[1].UnitPrice)
	assert.Equal(t, int64(15), lines[2].ProductCode)
	assert.Equal(t, float64(3), lines[2].Quantity)

	var stored []models.OrderLine
	require.NoError(t, f.conn.Where("numero_pedido = ?", number).Order("numero_linea ASC").Find(&stored).Error)
	require.Len(t, stored, 3)
	assert.Less(t, stored[0].LineNumber, stored[1].LineNumber)
	assert.Less(t, stored[1].LineNumber, stored[2].LineNumber)
	assert.Equal(t, []int64{20, 10, 15}, []int64{stored[0].ProductCode, stored[1].ProductCode, stored[2].ProductCode})

	assert.Contains(t, f.publisher.kinds(), events.TypeOrderLinesInserted)
}

func TestInsertLinesEmptyIsNoop(t *testing.T) {
	f := newFixture(t, false)
	require.NoError(t, f.svc.InsertLines(context.Background(), nil))
	assert.Empty(t, f.publisher.kinds())
}

func TestInsertLinesRejectsFractionalQuantity(t *testing.T) {
	f := newFixture(t, false)
	err := f.svc.InsertLines(context.Background(), []LineInput{
		{OrderNumber: num(1), ProductCode: num(1), Quantity: money("1.5")},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	var count int64
	require.NoError(t, f.conn.Model(&models.OrderLine{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestApplyStockDeltasSkipsUnknownAndAllowsNegative(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	p := dbtest.MustProduct(t, f.conn, "Arroz", 3)

	err := f.svc.ApplyStockDeltas(ctx, []StockDelta{
		{ProductCode: num(p.Code), Quantity: num(5)},
		{ProductCode: num(9999), Quantity: num(1)},
	})
	require.NoError(t, err)

	onHand, err := f.stock.GetStock(ctx, p.Code)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), onHand)
	assert.Equal(t, []string{events.TypeStockLow}, f.publisher.kinds())
}

func TestApplyStockDeltasGuardedRollsBackAll(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	first := dbtest.MustProduct(t, f.conn, "Frijol", 50)
	second := dbtest.MustProduct(t, f.conn, "Azucar", 1)

	err := f.svc.ApplyStockDeltas(ctx, []StockDelta{
		{ProductCode: num(first.Code), Quantity: num(5)},
		{ProductCode: num(second.Code), Quantity: num(2)},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	onHand, err := f.stock.GetStock(ctx, first.Code)
	require.NoError(t, err)
	assert.Equal(t, int64(50), onHand)
	assert.Empty(t, f.publisher.kinds())
}

func TestPlaceOrderCommitsEverything(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	p := dbtest.MustProduct(t, f.conn, "Aceite", 12)

	number, err := f.svc.PlaceOrder(ctx, PlaceOrderInput{
		Header: HeaderInput{Date: "01/03/2025 08:00:00", CustomerName: "Cliente", Total: money("45")},
		Lines: []LineInput{
			{ProductCode: num(p.Code), ProductName: "Aceite", Unit: "BOTELLA", Quantity: num(3), UnitPrice: money("15"), Total: money("45")},
		},
	})
	require.NoError(t, err)

	lines, err := f.svc.Lines(ctx, number)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, float64(3), lines[0].Quantity)

	onHand, err := f.stock.GetStock(ctx, p.Code)
	require.NoError(t, err)
	assert.Equal(t, int64(9), onHand)

	history, err := f.stock.History(ctx, p.Code)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].Reference)
	assert.Equal(t, number, *history[0].Reference)

	assert.ElementsMatch(t, []string{events.TypeStockLow, events.TypeOrderCreated}, f.publisher.kinds())
}

func TestPlaceOrderUnknownProductRollsBack(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, PlaceOrderInput{
		Header: HeaderInput{CustomerName: "Cliente"},
		Lines:  []LineInput{{ProductCode: num(404), Quantity: num(1)}},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	var headers int64
	require.NoError(t, f.conn.Model(&models.OrderHeader{}).Count(&headers).Error)
	assert.Zero(t, headers)
	assert.Empty(t, f.publisher.kinds())
}

func TestPlaceOrderRequiresLines(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.svc.PlaceOrder(context.Background(), PlaceOrderInput{Header: HeaderInput{CustomerName: "Cliente"}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListOrdersNewestFirstAndNextNumber(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	next, err := f.svc.NextOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)

	first := dbtest.MustOrder(t, f.conn, time.Date(2025, 1, 2, 10, 0, 0, 0, time.Local), nil)
	second := dbtest.MustOrder(t, f.conn, time.Date(2025, 1, 3, 11, 5, 9, 0, time.Local), nil)

	list, err := f.svc.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.Number, list[0].Number)
	assert.Equal(t, "03/01/2025 11:05:09", list[0].Date)
	assert.Equal(t, first.Number, list[1].Number)

	next, err = f.svc.NextOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.Number+1, next)
}

func TestDocument(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.Document(ctx, 12345)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "Pedido no encontrado", pkgerrors.As(err).Message())

	p := dbtest.MustProduct(t, f.conn, "Cafe", 100)
	h := dbtest.MustOrder(t, f.conn, time.Date(2025, 2, 1, 16, 45, 0, 0, time.Local), map[int64]int64{p.Code: 4})

	doc, err := f.svc.Document(ctx, h.Number)
	require.NoError(t, err)
	assert.Equal(t, h.Number, doc.Header.Number)
	assert.Equal(t, "01/02/2025 16:45:00 Hrs", doc.Header.Date)
	assert.Equal(t, "", doc.Header.Comments)
	assert.Equal(t, "14/03/2025 09:30:00", doc.PrintedAt)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, float64(4), doc.Lines[0].Quantity)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"comentarios":""`)
	assert.Contains(t, string(raw), `"fecha_impresion"`)
}
