package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto representa un producto del inventario con su stock actual.
// Stock es una caché materializada del libro de movimientos: fuera de
// correcciones manuales, solo se modifica junto con un MovimientoStock.
type Producto struct {
	ID          string
	SKU         string // código único; se genera si viene vacío
	Nombre      string
	Descripcion string
	Precio      decimal.Decimal // precio de venta, no negativo
	Stock       int             // nunca se persiste negativo
	StockMinimo int             // umbral de reposición
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultStockMinimo umbral de reposición por defecto (5 unidades).
const DefaultStockMinimo = 5

// NecesitaReposicion indica si el stock está por debajo del mínimo configurado.
func (p *Producto) NecesitaReposicion() bool {
	return p.Stock < p.StockMinimo
}

// GenerateSKU genera un SKU único de 8 caracteres en mayúsculas.
func GenerateSKU() string {
	return strings.ToUpper(uuid.New().String()[:8])
}
