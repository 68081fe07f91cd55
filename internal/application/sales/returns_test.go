package sales_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

func sellThree(t *testing.T, f *fixture) (*entity.StockItem, *entity.Sale) {
	t.Helper()
	item := f.stock(t, 10)
	sale, err := f.sales.CreateSale(f.ctx, sales.CreateSaleInput{
		Lines: []sales.SaleLine{{StockItemID: item.ID, Quantity: 3, UnitPrice: price("2.00")}},
	})
	require.NoError(t, err)
	return item, sale
}

func TestReturnItems_ParcialYTotal(t *testing.T) {
	f := newFixture(t, nil)
	item, sale := sellThree(t, f)
	lineID := sale.Items[0].ID

	partial, err := f.sales.ReturnItems(f.ctx, sale.ID, []sales.ReturnLine{{SaleItemID: lineID, Quantity: 1}}, "dañado", "cajero-1")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPartiallyReturned, partial.Status)
	assert.Equal(t, 8, f.quantity(t, item.ID))

	full, err := f.sales.ReturnItems(f.ctx, sale.ID, []sales.ReturnLine{{SaleItemID: lineID, Quantity: 2}}, "", "")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusFullyReturned, full.Status)
	assert.Equal(t, 10, f.quantity(t, item.ID))

	stored, err := f.sales.GetSale(f.ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusFullyReturned, stored.Status)
	assert.Equal(t, 3, stored.Items[0].ReturnedQuantity)

	history, err := f.ledger.History(f.ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, entity.MovementIncrease, history[2].MovementType)
	assert.Contains(t, history[2].Notes, "dañado")
	f.assertConsistent(t, item.ID)
}

func TestReturnItems_MasDeLoVendido(t *testing.T) {
	f := newFixture(t, nil)
	item, sale := sellThree(t, f)

	_, err := f.sales.ReturnItems(f.ctx, sale.ID, []sales.ReturnLine{{SaleItemID: sale.Items[0].ID, Quantity: 4}}, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, 7, f.quantity(t, item.ID))

	_, err = f.sales.ReturnItems(f.ctx, sale.ID, nil, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.sales.ReturnItems(f.ctx, sale.ID, []sales.ReturnLine{{SaleItemID: "otra", Quantity: 1}}, "", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReturnItems_LoteBorrado(t *testing.T) {
	f := newFixture(t, nil)
	item, sale := sellThree(t, f)
	require.NoError(t, f.ledger.Delete(f.ctx, item.ID, ""))

	got, err := f.sales.ReturnItems(f.ctx, sale.ID, []sales.ReturnLine{{SaleItemID: sale.Items[0].ID, Quantity: 3}}, "", "")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusFullyReturned, got.Status)
	assert.Nil(t, got.Items[0].StockItemID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recibo
// ──────────────────────────────────────────────────────────────────────────────

type fakeReceipt struct {
	store string
	err   error
}

func (g *fakeReceipt) GenerateSaleReceipt(_ context.Context, sale *entity.Sale, storeName string) ([]byte, error) {
	g.store = storeName
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-" + sale.ID), nil
}

func TestDownloadReceipt(t *testing.T) {
	f := newFixture(t, nil)
	_, sale := sellThree(t, f)
	gen := &fakeReceipt{}
	uc := sales.NewReceiptUseCase(f.sales, gen, "Tienda Centro")

	pdf, name, err := uc.DownloadReceipt(f.ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "venta_"+sale.ID+".pdf", name)
	assert.Equal(t, "%PDF-"+sale.ID, string(pdf))
	assert.Equal(t, "Tienda Centro", gen.store)

	_, _, err = uc.DownloadReceipt(f.ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	gen.err = errors.New("sin fuentes")
	_, _, err = uc.DownloadReceipt(f.ctx, sale.ID)
	assert.ErrorContains(t, err, "sin fuentes")
}
