package repository

import "github.com/AbdiasMQ/Practico-final/internal/domain/entity"

// MovementRepository puerto de persistencia para el libro de movimientos.
// El libro es append-only: no hay Update ni Delete individual; DeleteByProduct
// existe solo para la cascada al eliminar un producto.
type MovementRepository interface {
	Create(movement *entity.MovimientoStock) error
	ListByProduct(productID string, limit int) ([]*entity.MovimientoStock, error)
	DeleteByProduct(productID string) error
}
