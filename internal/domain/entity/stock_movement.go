package entity

import "time"

// Tipos de movimiento de stock. Los valores coinciden con los almacenados en BD.
const (
	MovimientoEntrada = "entrada" // aumenta stock
	MovimientoSalida  = "salida"  // disminuye stock
	MovimientoAjuste  = "ajuste"  // corrección hacia una cantidad objetivo
)

// MovimientoTipoValido indica si el tipo es uno de los reconocidos.
func MovimientoTipoValido(tipo string) bool {
	switch tipo {
	case MovimientoEntrada, MovimientoSalida, MovimientoAjuste:
		return true
	}
	return false
}

// MovimientoStock es un registro inmutable del libro de stock: una vez creado
// nunca se actualiza ni se borra individualmente (solo en cascada con el producto).
// Cantidad es la magnitud del cambio, siempre positiva; el signo lo da el tipo.
type MovimientoStock struct {
	ID         string
	ProductoID string
	Tipo       string // entrada, salida, ajuste
	Cantidad   int    // magnitud, > 0
	Motivo     string
	Usuario    string // actor que originó el movimiento; "Sistema" si no hay sesión
	Fecha      time.Time
}
