package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AbdiasMQ/Practico-final/internal/application/dto"
	"github.com/AbdiasMQ/Practico-final/internal/domain"
	"github.com/AbdiasMQ/Practico-final/internal/domain/entity"
	"github.com/AbdiasMQ/Practico-final/internal/domain/repository"
)

// SaleUseCase crea y anula ventas aplicando los deltas de stock y los
// movimientos del libro en una sola transacción.
//
// Política de stock en ventas: a diferencia del sistema original, que dejaba
// que una venta llevara el stock a negativo, aquí la venta sí respeta la
// guardia de stock insuficiente y es todo-o-nada: si una línea falla, ningún
// descuento queda aplicado.
type SaleUseCase struct {
	txRunner     SalesTxRunner
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	now          func() time.Time
}

// NewSaleUseCase construye el caso de uso. now en nil usa time.Now.
func NewSaleUseCase(
	txRunner SalesTxRunner,
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	now func() time.Time,
) *SaleUseCase {
	if now == nil {
		now = time.Now
	}
	return &SaleUseCase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		now:          now,
	}
}

// CreateSale crea la venta: por cada línea congela el precio unitario (precio
// actual del producto si no viene uno), calcula el subtotal, descuenta stock y
// registra la salida en el libro con referencia al código de la venta.
func (uc *SaleUseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest, usuario string) (*dto.SaleResponse, error) {
	if in.ClienteID == "" || in.Codigo == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.ProductoID == "" {
			return nil, domain.ErrInvalidInput
		}
		if item.Cantidad <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if item.PrecioUnitario.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	if usuario == "" {
		usuario = entity.UsuarioSistema
	}

	// Validaciones de solo lectura fuera de la transacción
	customer, err := uc.customerRepo.GetByID(in.ClienteID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if existing, err := uc.saleRepo.GetByCodigo(in.Codigo); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := uc.now()
	sale := &entity.Venta{
		ID:        uuid.New().String(),
		ClienteID: in.ClienteID,
		Codigo:    in.Codigo,
		Total:     decimal.Zero,
		CreatedAt: now,
	}
	var items []*entity.ItemVenta

	err = uc.txRunner.RunSales(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		// Cabecera primero con total en cero, como referencia para las líneas
		if err := saleRepo.Create(sale); err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range in.Items {
			product, err := productRepo.GetForUpdate(line.ProductoID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			if line.Cantidad > product.Stock {
				return domain.ErrInsufficientStock
			}

			precio := line.PrecioUnitario
			if precio.IsZero() {
				precio = product.Precio
			}
			item := &entity.ItemVenta{
				ID:             uuid.New().String(),
				VentaID:        sale.ID,
				ProductoID:     line.ProductoID,
				Cantidad:       line.Cantidad,
				PrecioUnitario: precio,
				Subtotal:       decimalInt(line.Cantidad).Mul(precio),
			}
			if err := saleRepo.CreateItem(item); err != nil {
				return err
			}

			if err := productRepo.UpdateStock(product.ID, product.Stock-line.Cantidad); err != nil {
				return err
			}
			mov := &entity.MovimientoStock{
				ID:         uuid.New().String(),
				ProductoID: product.ID,
				Tipo:       entity.MovimientoSalida,
				Cantidad:   line.Cantidad,
				Motivo:     "Venta " + sale.Codigo,
				Usuario:    usuario,
				Fecha:      now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}

			total = total.Add(item.Subtotal)
			items = append(items, item)
		}

		sale.Total = total
		return saleRepo.UpdateTotal(sale.ID, total)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

// DeleteSale anula la venta: repone el stock de cada línea sin recortes (la
// restauración es simétrica al descuento), registra las entradas en el libro y
// elimina líneas y cabecera, todo en la misma transacción.
func (uc *SaleUseCase) DeleteSale(ctx context.Context, saleID, usuario string) error {
	if usuario == "" {
		usuario = entity.UsuarioSistema
	}
	now := uc.now()

	return uc.txRunner.RunSales(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		sale, err := saleRepo.GetByID(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		items, err := saleRepo.ListItems(saleID)
		if err != nil {
			return err
		}
		for _, item := range items {
			product, err := productRepo.GetForUpdate(item.ProductoID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			if err := productRepo.UpdateStock(product.ID, product.Stock+item.Cantidad); err != nil {
				return err
			}
			mov := &entity.MovimientoStock{
				ID:         uuid.New().String(),
				ProductoID: product.ID,
				Tipo:       entity.MovimientoEntrada,
				Cantidad:   item.Cantidad,
				Motivo:     "Anulación venta " + sale.Codigo,
				Usuario:    usuario,
				Fecha:      now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
		}
		if err := saleRepo.DeleteItems(saleID); err != nil {
			return err
		}
		return saleRepo.Delete(saleID)
	})
}

// GetSale obtiene una venta con sus líneas.
func (uc *SaleUseCase) GetSale(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.ListItems(saleID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

// GetSaleByCodigo obtiene una venta por su código único.
func (uc *SaleUseCase) GetSaleByCodigo(ctx context.Context, codigo string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByCodigo(codigo)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.ListItems(sale.ID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

// ListSales lista ventas con paginación simple.
func (uc *SaleUseCase) ListSales(ctx context.Context, limit, offset int) ([]dto.SaleResponse, error) {
	sales, err := uc.saleRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		items, err := uc.saleRepo.ListItems(s.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *toSaleResponse(s, items))
	}
	return out, nil
}

func toSaleResponse(sale *entity.Venta, items []*entity.ItemVenta) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:        sale.ID,
		ClienteID: sale.ClienteID,
		Codigo:    sale.Codigo,
		Total:     sale.Total,
		CreatedAt: sale.CreatedAt,
		Items:     make([]dto.SaleItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:             item.ID,
			ProductoID:     item.ProductoID,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Subtotal:       item.Subtotal,
		})
	}
	return resp
}
