package repository

import "github.com/AbdiasMQ/Practico-final/internal/domain/entity"

// ProductRepository puerto de persistencia para productos.
// GetForUpdate debe usarse dentro de una transacción: bloquea la fila hasta el
// commit/rollback para que la secuencia leer-decidir-escribir sea atómica.
type ProductRepository interface {
	Create(product *entity.Producto) error
	GetByID(id string) (*entity.Producto, error)
	GetBySKU(sku string) (*entity.Producto, error)
	GetForUpdate(id string) (*entity.Producto, error)
	List(limit, offset int) ([]*entity.Producto, error)
	ListLowStock() ([]*entity.Producto, error)
	Update(product *entity.Producto) error
	UpdateStock(id string, stock int) error
	Delete(id string) error
}
