package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AbdiasMQ/Practico-final/internal/application/dto"
	"github.com/AbdiasMQ/Practico-final/internal/domain"
	"github.com/AbdiasMQ/Practico-final/internal/domain/entity"
	"github.com/AbdiasMQ/Practico-final/internal/domain/repository"
)

// MotivoAjusteDefault motivo usado cuando un ajuste no trae uno explícito.
const MotivoAjusteDefault = "Ajuste de stock"

// StockLedgerUseCase opera el libro de stock: registra entradas/salidas
// directas (con bloqueo de fila y guardia de stock negativo) y ajustes hacia
// una cantidad objetivo. Cada operación corre en una transacción con
// SELECT FOR UPDATE sobre la fila del producto.
type StockLedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
	now         func() time.Time
}

// NewStockLedgerUseCase construye el caso de uso. now en nil usa time.Now.
func NewStockLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	now func() time.Time,
) *StockLedgerUseCase {
	if now == nil {
		now = time.Now
	}
	return &StockLedgerUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		now:         now,
	}
}

// RegisterMovement registra una entrada o salida directa contra un producto.
// La salida se rechaza completa con ErrInsufficientStock si dejaría el stock
// negativo. El tipo "ajuste" no se acepta aquí: los ajustes van por AdjustStock
// con objetivo absoluto, para que todo movimiento del libro tenga efecto sobre
// el stock (invariante caché-libro).
func (uc *StockLedgerUseCase) RegisterMovement(ctx context.Context, productID string, in dto.RegisterMovementRequest, usuario string) (*dto.MovementResponse, error) {
	if in.Cantidad <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.Tipo != entity.MovimientoEntrada && in.Tipo != entity.MovimientoSalida {
		return nil, domain.ErrInvalidKind
	}
	if usuario == "" {
		usuario = entity.UsuarioSistema
	}

	var mov *entity.MovimientoStock
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		// Bloquea la fila del producto hasta el commit
		product, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		newStock := product.Stock + in.Cantidad
		if in.Tipo == entity.MovimientoSalida {
			if in.Cantidad > product.Stock {
				return domain.ErrInsufficientStock
			}
			newStock = product.Stock - in.Cantidad
		}
		if err := productRepo.UpdateStock(productID, newStock); err != nil {
			return err
		}
		mov = &entity.MovimientoStock{
			ID:         uuid.New().String(),
			ProductoID: productID,
			Tipo:       in.Tipo,
			Cantidad:   in.Cantidad,
			Motivo:     in.Motivo,
			Usuario:    usuario,
			Fecha:      uc.now(),
		}
		return movRepo.Create(mov)
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(mov), nil
}

// AdjustStock lleva el stock del producto a una cantidad objetivo absoluta.
// Con diferencia cero no registra nada y reporta Cambiado=false; el mismo
// objetivo dos veces seguidas es idempotente. El movimiento registrado es una
// entrada o salida por la magnitud de la diferencia, con motivo por defecto
// "Ajuste de stock". El stock se fija al objetivo directamente, no por delta.
func (uc *StockLedgerUseCase) AdjustStock(ctx context.Context, productID string, in dto.AdjustStockRequest, usuario string) (*dto.AdjustStockResponse, error) {
	if in.NuevaCantidad < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if usuario == "" {
		usuario = entity.UsuarioSistema
	}
	motivo := in.Motivo
	if motivo == "" {
		motivo = MotivoAjusteDefault
	}

	resp := &dto.AdjustStockResponse{}
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		diff := in.NuevaCantidad - product.Stock
		if diff == 0 {
			resp.Cambiado = false
			resp.Stock = product.Stock
			return nil
		}
		tipo := entity.MovimientoEntrada
		if diff < 0 {
			tipo = entity.MovimientoSalida
			diff = -diff
		}
		mov := &entity.MovimientoStock{
			ID:         uuid.New().String(),
			ProductoID: productID,
			Tipo:       tipo,
			Cantidad:   diff,
			Motivo:     motivo,
			Usuario:    usuario,
			Fecha:      uc.now(),
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		if err := productRepo.UpdateStock(productID, in.NuevaCantidad); err != nil {
			return err
		}
		resp.Cambiado = true
		resp.Stock = in.NuevaCantidad
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// RecentMovements devuelve los últimos movimientos del producto, más reciente primero.
func (uc *StockLedgerUseCase) RecentMovements(ctx context.Context, productID string, limit int) ([]dto.MovementResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if limit <= 0 {
		limit = 10
	}
	movs, err := uc.movRepo.ListByProduct(productID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, *toMovementResponse(m))
	}
	return out, nil
}

func toMovementResponse(m *entity.MovimientoStock) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:         m.ID,
		ProductoID: m.ProductoID,
		Tipo:       m.Tipo,
		Cantidad:   m.Cantidad,
		Motivo:     m.Motivo,
		Usuario:    m.Usuario,
		Fecha:      m.Fecha,
	}
}
