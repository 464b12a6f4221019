package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AbdiasMQ/Practico-final/internal/domain"
	"github.com/AbdiasMQ/Practico-final/internal/domain/entity"
	"github.com/AbdiasMQ/Practico-final/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, nombre, descripcion, precio, stock, stock_minimo, created_at, updated_at`

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Producto) error {
	query := `
		INSERT INTO productos (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Nombre, product.Descripcion,
		product.Precio, product.Stock, product.StockMinimo, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert producto: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Producto, error) {
	return r.getOne(`SELECT `+productColumns+` FROM productos WHERE id = $1`, id)
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(sku string) (*entity.Producto, error) {
	return r.getOne(`SELECT `+productColumns+` FROM productos WHERE sku = $1`, sku)
}

// GetForUpdate obtiene el producto y bloquea su fila hasta el fin de la
// transacción (SELECT FOR UPDATE). Usar solo dentro de un TxRunner.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Producto, error) {
	return r.getOne(`SELECT `+productColumns+` FROM productos WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) getOne(query string, arg any) (*entity.Producto, error) {
	var p entity.Producto
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&p.ID, &p.SKU, &p.Nombre, &p.Descripcion, &p.Precio,
		&p.Stock, &p.StockMinimo, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return &p, nil
}

// List lista productos ordenados por nombre con paginación.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Producto, error) {
	query := `
		SELECT ` + productColumns + `
		FROM productos ORDER BY nombre LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

// ListLowStock lista productos con stock por debajo de su mínimo, de menor a mayor stock.
func (r *ProductRepo) ListLowStock() ([]*entity.Producto, error) {
	query := `
		SELECT ` + productColumns + `
		FROM productos WHERE stock < stock_minimo ORDER BY stock`
	return r.list(query)
}

func (r *ProductRepo) list(query string, args ...any) ([]*entity.Producto, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Producto
	for rows.Next() {
		var p entity.Producto
		if err := rows.Scan(&p.ID, &p.SKU, &p.Nombre, &p.Descripcion, &p.Precio,
			&p.Stock, &p.StockMinimo, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update actualiza nombre, descripción, precio y stock mínimo. El stock se
// maneja vía UpdateStock junto con su movimiento.
func (r *ProductRepo) Update(product *entity.Producto) error {
	query := `
		UPDATE productos SET nombre = $2, descripcion = $3, precio = $4, stock_minimo = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Nombre, product.Descripcion, product.Precio, product.StockMinimo, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update producto: %w", err)
	}
	return nil
}

// UpdateStock fija el stock del producto. Rechaza valores negativos antes de
// tocar la fila; el CHECK de la tabla es la última línea de defensa.
func (r *ProductRepo) UpdateStock(id string, stock int) error {
	if stock < 0 {
		return domain.ErrInvalidQuantity
	}
	_, err := r.q.Exec(context.Background(),
		`UPDATE productos SET stock = $2, updated_at = now() WHERE id = $1`,
		id, stock,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// Delete elimina un producto por ID. La cascada (movimientos, líneas de venta)
// la hace el caso de uso dentro de la misma transacción.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM productos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete producto: %w", err)
	}
	return nil
}
