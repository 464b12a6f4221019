package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Si Stock > 0 se registra
// un movimiento de entrada con motivo "Stock inicial".
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	StockMinimo *int            `json:"stock_minimo"`
}

// UpdateProductRequest entrada para actualizar un producto. No permite tocar
// Stock: eso se hace vía movimientos o ajuste.
type UpdateProductRequest struct {
	Nombre      *string          `json:"nombre"`
	Descripcion *string          `json:"descripcion"`
	Precio      *decimal.Decimal `json:"precio"`
	StockMinimo *int             `json:"stock_minimo"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                 string          `json:"id"`
	SKU                string          `json:"sku"`
	Nombre             string          `json:"nombre"`
	Descripcion        string          `json:"descripcion"`
	Precio             decimal.Decimal `json:"precio"`
	Stock              int             `json:"stock"`
	StockMinimo        int             `json:"stock_minimo"`
	NecesitaReposicion bool            `json:"necesita_reposicion"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
