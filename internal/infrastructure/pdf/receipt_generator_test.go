package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/pdf"
)

func TestGenerateSaleReceipt_ProducePDF(t *testing.T) {
	sale := &entity.Sale{
		ID:              "5f0c2a8e-1111-4c3b-9e1a-000000000001",
		TotalAmount:     decimal.RequireFromString("18.00"),
		DiscountApplied: true,
		DiscountAmount:  decimal.RequireFromString("2.00"),
		Status:          entity.SaleStatusCompleted,
		CreatedAt:       time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC),
		Items: []*entity.SaleItem{
			{ID: "i1", ProductName: "Alimento perro", Quantity: 10, SalePrice: decimal.RequireFromString("2.00")},
		},
	}

	out, err := pdf.NewReceiptGenerator().GenerateSaleReceipt(context.Background(), sale, "Tienda Central")
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un documento PDF")
}

func TestGenerateSaleReceipt_VentaNil(t *testing.T) {
	_, err := pdf.NewReceiptGenerator().GenerateSaleReceipt(context.Background(), nil, "Tienda")
	assert.Error(t, err)
}
