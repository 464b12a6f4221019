package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AbdiasMQ/Practico-final/internal/domain/entity"
	"github.com/AbdiasMQ/Practico-final/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación append-only del libro de movimientos sobre
// PostgreSQL (usable con pool o tx). Sin Update: los registros son inmutables.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento de stock.
func (r *MovementRepo) Create(movement *entity.MovimientoStock) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movimientos_stock (id, producto_id, tipo, cantidad, motivo, usuario, fecha)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	motivo := (*string)(nil)
	if movement.Motivo != "" {
		motivo = &movement.Motivo
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductoID, movement.Tipo, movement.Cantidad,
		motivo, movement.Usuario, movement.Fecha,
	)
	if err != nil {
		return fmt.Errorf("create movimiento: %w", err)
	}
	return nil
}

// ListByProduct lista los movimientos de un producto, más reciente primero.
func (r *MovementRepo) ListByProduct(productID string, limit int) ([]*entity.MovimientoStock, error) {
	query := `
		SELECT id, producto_id, tipo, cantidad, motivo, usuario, fecha
		FROM movimientos_stock WHERE producto_id = $1
		ORDER BY fecha DESC LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovimientoStock
	for rows.Next() {
		var m entity.MovimientoStock
		var motivo *string
		if err := rows.Scan(&m.ID, &m.ProductoID, &m.Tipo, &m.Cantidad, &motivo, &m.Usuario, &m.Fecha); err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		if motivo != nil {
			m.Motivo = *motivo
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// DeleteByProduct elimina los movimientos de un producto. Solo lo llama la
// cascada al eliminar el producto.
func (r *MovementRepo) DeleteByProduct(productID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM movimientos_stock WHERE producto_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete movimientos: %w", err)
	}
	return nil
}
