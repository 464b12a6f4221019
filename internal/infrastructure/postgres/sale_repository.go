package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/AbdiasMQ/Practico-final/internal/domain"
	"github.com/AbdiasMQ/Practico-final/internal/domain/entity"
	"github.com/AbdiasMQ/Practico-final/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de una venta.
func (r *SaleRepo) Create(sale *entity.Venta) error {
	query := `
		INSERT INTO ventas (id, cliente_id, codigo, total, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.ClienteID, sale.Codigo, sale.Total, sale.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert venta: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta.
func (r *SaleRepo) CreateItem(item *entity.ItemVenta) error {
	query := `
		INSERT INTO items_venta (id, venta_id, producto_id, cantidad, precio_unitario, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.VentaID, item.ProductoID, item.Cantidad, item.PrecioUnitario, item.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert item venta: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Venta, error) {
	return r.getOne(`SELECT id, cliente_id, codigo, total, created_at FROM ventas WHERE id = $1`, id)
}

// GetByCodigo obtiene una venta por su código único.
func (r *SaleRepo) GetByCodigo(codigo string) (*entity.Venta, error) {
	return r.getOne(`SELECT id, cliente_id, codigo, total, created_at FROM ventas WHERE codigo = $1`, codigo)
}

func (r *SaleRepo) getOne(query string, arg any) (*entity.Venta, error) {
	var s entity.Venta
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&s.ID, &s.ClienteID, &s.Codigo, &s.Total, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venta: %w", err)
	}
	return &s, nil
}

// List lista ventas de la más reciente a la más antigua, con paginación.
func (r *SaleRepo) List(limit, offset int) ([]*entity.Venta, error) {
	query := `
		SELECT id, cliente_id, codigo, total, created_at
		FROM ventas ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ventas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Venta
	for rows.Next() {
		var s entity.Venta
		if err := rows.Scan(&s.ID, &s.ClienteID, &s.Codigo, &s.Total, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan venta: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ListItems lista las líneas de una venta.
func (r *SaleRepo) ListItems(saleID string) ([]*entity.ItemVenta, error) {
	query := `
		SELECT id, venta_id, producto_id, cantidad, precio_unitario, subtotal
		FROM items_venta WHERE venta_id = $1`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list items venta: %w", err)
	}
	defer rows.Close()
	var list []*entity.ItemVenta
	for rows.Next() {
		var i entity.ItemVenta
		if err := rows.Scan(&i.ID, &i.VentaID, &i.ProductoID, &i.Cantidad, &i.PrecioUnitario, &i.Subtotal); err != nil {
			return nil, fmt.Errorf("scan item venta: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}

// UpdateTotal fija el total de la venta una vez calculadas sus líneas.
func (r *SaleRepo) UpdateTotal(saleID string, total decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE ventas SET total = $2 WHERE id = $1`, saleID, total)
	if err != nil {
		return fmt.Errorf("update total venta: %w", err)
	}
	return nil
}

// Delete elimina la cabecera de una venta.
func (r *SaleRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM ventas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete venta: %w", err)
	}
	return nil
}

// DeleteItems elimina las líneas de una venta.
func (r *SaleRepo) DeleteItems(saleID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM items_venta WHERE venta_id = $1`, saleID)
	if err != nil {
		return fmt.Errorf("delete items venta: %w", err)
	}
	return nil
}

// DeleteItemsByProduct elimina las líneas que referencian un producto.
// Solo lo llama la cascada al eliminar el producto.
func (r *SaleRepo) DeleteItemsByProduct(productID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM items_venta WHERE producto_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete items por producto: %w", err)
	}
	return nil
}
