package dto

import "time"

// RegisterMovementRequest body para POST /api/products/:id/movements.
// Tipo: entrada o salida. Los ajustes van por AdjustStockRequest.
type RegisterMovementRequest struct {
	Tipo     string `json:"tipo"`
	Cantidad int    `json:"cantidad"`
	Motivo   string `json:"motivo"`
}

// AdjustStockRequest body para POST /api/products/:id/adjust.
// Lleva el stock del producto a NuevaCantidad (objetivo absoluto, no delta).
type AdjustStockRequest struct {
	NuevaCantidad int    `json:"nueva_cantidad"`
	Motivo        string `json:"motivo"`
}

// AdjustStockResponse resultado de un ajuste. Cambiado=false cuando el objetivo
// coincidía con el stock actual y no se registró movimiento.
type AdjustStockResponse struct {
	Cambiado bool `json:"cambiado"`
	Stock    int  `json:"stock"`
}

// MovementResponse salida de un movimiento del libro de stock.
type MovementResponse struct {
	ID         string    `json:"id"`
	ProductoID string    `json:"producto_id"`
	Tipo       string    `json:"tipo"`
	Cantidad   int       `json:"cantidad"`
	Motivo     string    `json:"motivo"`
	Usuario    string    `json:"usuario"`
	Fecha      time.Time `json:"fecha"`
}
