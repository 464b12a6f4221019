package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Venta representa una venta confirmada. Una venta se crea ya confirmada
// (descuenta stock al guardarse) y solo sale de ese estado al eliminarse,
// momento en el que se repone el stock de cada línea.
type Venta struct {
	ID        string
	ClienteID string
	Codigo    string          // etiqueta única, ej: V001
	Total     decimal.Decimal // suma de subtotales de los items
	CreatedAt time.Time
}

// ItemVenta es una línea de venta. PrecioUnitario se congela al momento de la
// venta y el subtotal se calcula una sola vez al guardar; cambios posteriores
// del precio del producto no lo alteran.
type ItemVenta struct {
	ID             string
	VentaID        string
	ProductoID     string
	Cantidad       int // > 0
	PrecioUnitario decimal.Decimal
	Subtotal       decimal.Decimal // Cantidad × PrecioUnitario
}
