package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest entrada para crear una venta con sus líneas.
type CreateSaleRequest struct {
	ClienteID string            `json:"cliente_id"`
	Codigo    string            `json:"codigo"`
	Items     []SaleItemRequest `json:"items"`
}

// SaleItemRequest línea de venta. PrecioUnitario en cero toma el precio actual
// del producto como snapshot.
type SaleItemRequest struct {
	ProductoID     string          `json:"producto_id"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

// SaleItemResponse línea de venta persistida.
type SaleItemResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// SaleResponse salida de una venta con sus líneas.
type SaleResponse struct {
	ID        string             `json:"id"`
	ClienteID string             `json:"cliente_id"`
	Codigo    string             `json:"codigo"`
	Total     decimal.Decimal    `json:"total"`
	CreatedAt time.Time          `json:"created_at"`
	Items     []SaleItemResponse `json:"items"`
}
