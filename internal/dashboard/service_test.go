package dashboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/gestor-pedidos/pkg/db/dbtest"
	"github.com/angelmondragon/gestor-pedidos/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotals(t *testing.T) {
	conn := dbtest.Open(t)
	dbtest.MustProduct(t, conn, "A", 1)
	dbtest.MustProduct(t, conn, "B", 1)
	dbtest.MustOrder(t, conn, time.Now(), nil)
	require.NoError(t, conn.Create(&models.Customer{Name: "C"}).Error)

	svc, err := NewService(conn)
	require.NoError(t, err)
	got, err := svc.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Totals{Customers: 1, Orders: 1, Products: 2}, got)
}

func TestCustomersByDepartment(t *testing.T) {
	conn := dbtest.Open(t)
	require.NoError(t, conn.Create(&models.Department{ID: 1, Name: "Guatemala"}).Error)
	require.NoError(t, conn.Create(&models.Department{ID: 2, Name: "Peten"}).Error)
	one, two := int64(1), int64(2)
	for _, dep := range []*int64{&one, &two, &two, nil} {
		require.NoError(t, conn.Create(&models.Customer{Name: "C", DepartmentID: dep}).Error)
	}

	svc, err := NewService(conn)
	require.NoError(t, err)
	got, err := svc.CustomersByDepartment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []DepartmentCount{{Department: "Peten", Total: 2}, {Department: "Guatemala", Total: 1}}, got)
}

func TestProductsByBrandTopTen(t *testing.T) {
	conn := dbtest.Open(t)
	for i := 0; i < 12; i++ {
		brand := dbtest.MustBrand(t, conn, fmt.Sprintf("Marca %02d", i))
		for j := 0; j <= i%3; j++ {
			p := models.Product{Name: "P", BrandCode: &brand.Code}
			require.NoError(t, conn.Create(&p).Error)
		}
	}

	svc, err := NewService(conn)
	require.NoError(t, err)
	got, err := svc.ProductsByBrand(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 10)
	assert.Equal(t, int64(3), got[0].Total)
	assert.Equal(t, "Marca 02", got[0].Brand)
}
