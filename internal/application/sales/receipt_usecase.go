package sales

import (
	"context"
	"fmt"
)

// ReceiptUseCase genera el comprobante PDF de una venta.
type ReceiptUseCase struct {
	sales     *SaleUseCase
	generator ReceiptGenerator
	storeName string
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(sales *SaleUseCase, generator ReceiptGenerator, storeName string) *ReceiptUseCase {
	return &ReceiptUseCase{sales: sales, generator: generator, storeName: storeName}
}

// DownloadReceipt devuelve (pdfBytes, filename, nil) o domain.ErrNotFound si la venta no existe.
func (uc *ReceiptUseCase) DownloadReceipt(ctx context.Context, saleID string) ([]byte, string, error) {
	sale, err := uc.sales.GetSale(ctx, saleID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateSaleReceipt(ctx, sale, uc.storeName)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: generación fallida: %w", err)
	}
	return pdf, fmt.Sprintf("venta_%s.pdf", sale.ID), nil
}
