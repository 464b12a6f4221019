package repository

import (
	"github.com/shopspring/decimal"

	"github.com/AbdiasMQ/Practico-final/internal/domain/entity"
)

// SaleRepository puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	Create(sale *entity.Venta) error
	CreateItem(item *entity.ItemVenta) error
	GetByID(id string) (*entity.Venta, error)
	GetByCodigo(codigo string) (*entity.Venta, error)
	List(limit, offset int) ([]*entity.Venta, error)
	ListItems(saleID string) ([]*entity.ItemVenta, error)
	UpdateTotal(saleID string, total decimal.Decimal) error
	Delete(id string) error
	DeleteItems(saleID string) error
	DeleteItemsByProduct(productID string) error
}
