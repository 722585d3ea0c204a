package catalog

import (
	"context"
	"testing"

	"github.com/angelmondragon/gestor-pedidos/pkg/db/dbtest"
	"github.com/angelmondragon/gestor-pedidos/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrandsSortedByName(t *testing.T) {
	conn := dbtest.Open(t)
	dbtest.MustBrand(t, conn, "MARINELA")
	dbtest.MustBrand(t, conn, "ADAMS")

	svc, err := NewService(conn)
	require.NoError(t, err)

	got, err := svc.Brands(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ADAMS", got[0].Name)
	assert.Equal(t, "MARINELA", got[1].Name)
}

func TestPriceLevelsKeepTierOrder(t *testing.T) {
	conn := dbtest.Open(t)
	require.NoError(t, conn.Create(&models.PriceLevel{Level: 2, Description: "Mayorista"}).Error)
	require.NoError(t, conn.Create(&models.PriceLevel{Level: 1, Description: "Tienda barrio"}).Error)

	svc, err := NewService(conn)
	require.NoError(t, err)

	got, err := svc.PriceLevels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ID: 1, Name: "Tienda barrio"}, {ID: 2, Name: "Mayorista"}}, got)
}

func TestGeographyLists(t *testing.T) {
	conn := dbtest.Open(t)
	require.NoError(t, conn.Create(&models.Department{ID: 16, Name: "SACATEPEQUEZ"}).Error)
	require.NoError(t, conn.Create(&models.Municipality{ID: 112, Name: "SAN LUCAS SACATEPEQUEZ", DepartmentID: 16}).Error)

	svc, err := NewService(conn)
	require.NoError(t, err)

	deps, err := svc.Departments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ID: 16, Name: "SACATEPEQUEZ"}}, deps)

	munis, err := svc.Municipalities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ID: 112, Name: "SAN LUCAS SACATEPEQUEZ"}}, munis)
}

func TestEmptyTablesRenderEmptyLists(t *testing.T) {
	svc, err := NewService(dbtest.Open(t))
	require.NoError(t, err)

	got, err := svc.Brands(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
