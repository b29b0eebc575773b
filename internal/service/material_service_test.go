package service

import (
	"context"
	"testing"

	"stocktrack/internal/dto"
	"stocktrack/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMaterialFixture() (*stubMaterialRepo, *stubUnitRepo, *stubMovementRepo, MaterialService) {
	materials := newStubMaterialRepo()
	units := newStubUnitRepo()
	movements := newStubMovementRepo()
	stock := NewStockService(materials, movements, nil)
	svc := NewMaterialService(materials, units, movements, stock, nil)
	return materials, units, movements, svc
}

func TestCreateMaterialRecordsOpeningBalance(t *testing.T) {
	_, units, movements, svc := newMaterialFixture()
	unit := seedUnit(units, "kilograms", "kg")

	qty := decimal.NewFromInt(25)
	resp, err := svc.Create(context.Background(), dto.CreateMaterialRequest{
		Name:     "Cement",
		UnitID:   unit.ID.String(),
		Quantity: &qty,
	}, testActor())
	require.NoError(t, err)

	assert.Equal(t, "Cement", resp.Name)
	assert.Equal(t, "25", resp.Quantity.String())

	// The initial quantity went through the ledger, not a direct column write
	require.Len(t, movements.movements, 1)
	assert.Equal(t, model.DirectionIn, movements.movements[0].Direction)
	assert.Equal(t, "Opening balance", movements.movements[0].Comment)
	assert.True(t, movements.movements[0].QuantityBefore.IsZero())
	assert.Equal(t, "25", movements.movements[0].QuantityAfter.String())
}

func TestCreateMaterialZeroInitialQuantity(t *testing.T) {
	_, units, movements, svc := newMaterialFixture()
	unit := seedUnit(units, "pieces", "pcs")

	resp, err := svc.Create(context.Background(), dto.CreateMaterialRequest{
		Name:   "Brackets",
		UnitID: unit.ID.String(),
	}, testActor())
	require.NoError(t, err)

	assert.True(t, resp.Quantity.IsZero())
	assert.Empty(t, movements.movements)
}

func TestCreateMaterialUnknownUnit(t *testing.T) {
	_, _, _, svc := newMaterialFixture()

	_, err := svc.Create(context.Background(), dto.CreateMaterialRequest{
		Name:   "Mystery",
		UnitID: uuid.NewString(),
	}, testActor())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "unit_id")
}

func TestUpdateMaterialMetadataOnly(t *testing.T) {
	materials, units, _, svc := newMaterialFixture()
	unit := seedUnit(units, "liters", "l")
	m := seedMaterial(materials, unit, "Varnish", decimal.NewFromInt(12), decimal.Zero)

	newName := "Varnish (clear)"
	minQty := decimal.NewFromInt(3)
	resp, err := svc.Update(context.Background(), m.ID, dto.UpdateMaterialRequest{
		Name:        &newName,
		MinQuantity: &minQty,
	})
	require.NoError(t, err)

	assert.Equal(t, "Varnish (clear)", resp.Name)
	assert.Equal(t, "3", resp.MinQuantity.String())
	// Quantity untouched
	assert.Equal(t, "12", resp.Quantity.String())
}

func TestDeleteMaterialWithHistoryConflicts(t *testing.T) {
	materials, units, _, svc := newMaterialFixture()
	unit := seedUnit(units, "pieces", "pcs")
	m := seedMaterial(materials, unit, "Hinges", decimal.NewFromInt(10), decimal.Zero)

	_, err := svc.Receive(context.Background(), m.ID, dto.ReceiptRequest{Quantity: decimal.NewFromInt(5)}, testActor())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), m.ID)
	assert.ErrorIs(t, err, ErrConflict)

	// Still listed
	_, err = svc.Get(context.Background(), m.ID)
	assert.NoError(t, err)
}

func TestDeleteMaterialWithoutHistory(t *testing.T) {
	materials, units, _, svc := newMaterialFixture()
	unit := seedUnit(units, "pieces", "pcs")
	m := seedMaterial(materials, unit, "Unused", decimal.Zero, decimal.Zero)

	require.NoError(t, svc.Delete(context.Background(), m.ID))

	_, err := svc.Get(context.Background(), m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWriteoffThroughServiceInsufficient(t *testing.T) {
	materials, units, _, svc := newMaterialFixture()
	unit := seedUnit(units, "kilograms", "kg")
	m := seedMaterial(materials, unit, "Plaster", decimal.NewFromInt(2), decimal.Zero)

	_, err := svc.Writeoff(context.Background(), m.ID, dto.WriteoffRequest{
		Quantity: decimal.NewFromInt(8),
	}, testActor())
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, "2", materials.materials[m.ID].Quantity.String())
}

func TestLowStockFlagAndList(t *testing.T) {
	materials, units, _, svc := newMaterialFixture()
	unit := seedUnit(units, "pieces", "pcs")

	seedMaterial(materials, unit, "Plenty", decimal.NewFromInt(50), decimal.NewFromInt(5))
	low := seedMaterial(materials, unit, "Running out", decimal.NewFromInt(3), decimal.NewFromInt(5))
	seedMaterial(materials, unit, "No threshold", decimal.Zero, decimal.Zero)

	list, err := svc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, low.ID.String(), list[0].ID)
	assert.True(t, list[0].LowStock)
}

func TestMovementHistoryViaMaterialService(t *testing.T) {
	materials, units, _, svc := newMaterialFixture()
	unit := seedUnit(units, "pieces", "pcs")
	m := seedMaterial(materials, unit, "Tiles", decimal.NewFromInt(40), decimal.Zero)

	_, err := svc.Receive(context.Background(), m.ID, dto.ReceiptRequest{Quantity: decimal.NewFromInt(10)}, testActor())
	require.NoError(t, err)
	_, err = svc.Writeoff(context.Background(), m.ID, dto.WriteoffRequest{Quantity: decimal.NewFromInt(15)}, testActor())
	require.NoError(t, err)

	history, err := svc.Movements(context.Background(), m.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.DirectionOut, history[0].Direction)
	assert.Equal(t, "35", history[0].QuantityAfter.String())
}
