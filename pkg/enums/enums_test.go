package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMovementKind(t *testing.T) {
	kind, err := ParseMovementKind("pedido")
	require.NoError(t, err)
	assert.Equal(t, MovementKindOrderDecrement, kind)
	assert.True(t, kind.IsValid())

	_, err = ParseMovementKind("devolucion")
	require.Error(t, err)
	assert.False(t, MovementKind("devolucion").IsValid())
}

func TestInventoryStatusFor(t *testing.T) {
	assert.Equal(t, InventoryStatusSufficient, InventoryStatusFor(0))
	assert.Equal(t, InventoryStatusInsufficient, InventoryStatusFor(3))
	assert.Equal(t, "INSUFFICIENT", InventoryStatusFor(1).String())
}
