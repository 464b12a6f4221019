package inventory

import (
	"context"

	"github.com/AbdiasMQ/Practico-final/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que "leer stock, decidir delta,
// escribir stock, escribir movimiento" sea una unidad atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
