// Package dbtest opens throwaway sqlite databases with the full schema for
// repository and service tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/gestor-pedidos/pkg/db/models"
	"github.com/angelmondragon/gestor-pedidos/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open returns an in-memory database private to the calling test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

// MustProduct inserts a product with the given on-hand quantity.
func MustProduct(t testing.TB, conn *gorm.DB, name string, onHand int64) models.Product {
	t.Helper()
	p := models.Product{Name: name, Unit: "UNIDAD", OnHand: onHand}
	if err := conn.Create(&p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

// MustBrand inserts a brand.
func MustBrand(t testing.TB, conn *gorm.DB, name string) models.Brand {
	t.Helper()
	b := models.Brand{Name: name}
	if err := conn.Create(&b).Error; err != nil {
		t.Fatalf("create brand: %v", err)
	}
	return b
}

// MustPrice sets the price of a product at the given tier.
func MustPrice(t testing.TB, conn *gorm.DB, productCode, level int64, amount string) {
	t.Helper()
	p := models.Price{Level: level, ProductCode: productCode, Amount: decimal.RequireFromString(amount)}
	if err := conn.Create(&p).Error; err != nil {
		t.Fatalf("create price: %v", err)
	}
}

// MustOrder inserts an order header dated at and one line per product/quantity pair.
func MustOrder(t testing.TB, conn *gorm.DB, at time.Time, lines map[int64]int64) models.OrderHeader {
	t.Helper()
	h := models.OrderHeader{Date: at, CustomerName: "Cliente", Status: enums.OrderStatusOpen}
	if err := conn.Create(&h).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	for code, qty := range lines {
		l := models.OrderLine{OrderNumber: h.Number, ProductCode: code, Quantity: qty}
		if err := conn.Create(&l).Error; err != nil {
			t.Fatalf("create order line: %v", err)
		}
	}
	return h
}
