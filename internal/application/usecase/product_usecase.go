package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AbdiasMQ/Practico-final/internal/application/dto"
	"github.com/AbdiasMQ/Practico-final/internal/application/inventory"
	"github.com/AbdiasMQ/Practico-final/internal/application/sales"
	"github.com/AbdiasMQ/Practico-final/internal/domain"
	"github.com/AbdiasMQ/Practico-final/internal/domain/entity"
	"github.com/AbdiasMQ/Practico-final/internal/domain/repository"
)

// ProductUseCase CRUD de productos. La creación con stock inicial y la
// eliminación en cascada pasan por el libro de stock (alta con movimiento
// "Stock inicial"; baja eliminando movimientos y líneas de venta dependientes
// en la misma transacción).
type ProductUseCase struct {
	txRunner      inventory.TxRunner
	cascadeRunner sales.SalesTxRunner
	productRepo   repository.ProductRepository
	now           func() time.Time
}

// NewProductUseCase construye el caso de uso. now en nil usa time.Now.
func NewProductUseCase(
	txRunner inventory.TxRunner,
	cascadeRunner sales.SalesTxRunner,
	productRepo repository.ProductRepository,
	now func() time.Time,
) *ProductUseCase {
	if now == nil {
		now = time.Now
	}
	return &ProductUseCase{
		txRunner:      txRunner,
		cascadeRunner: cascadeRunner,
		productRepo:   productRepo,
		now:           now,
	}
}

// CreateProduct crea el producto y, si trae stock inicial mayor a cero,
// registra la entrada correspondiente en el libro dentro de la misma
// transacción (invariante: todo stock proviene de movimientos).
func (uc *ProductUseCase) CreateProduct(ctx context.Context, in dto.CreateProductRequest, usuario string) (*dto.ProductResponse, error) {
	if in.Nombre == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Precio.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.Stock < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	stockMinimo := entity.DefaultStockMinimo
	if in.StockMinimo != nil {
		if *in.StockMinimo < 0 {
			return nil, domain.ErrInvalidQuantity
		}
		stockMinimo = *in.StockMinimo
	}
	if usuario == "" {
		usuario = entity.UsuarioSistema
	}

	sku := in.SKU
	if sku == "" {
		sku = entity.GenerateSKU()
	} else if existing, err := uc.productRepo.GetBySKU(sku); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := uc.now()
	product := &entity.Producto{
		ID:          uuid.New().String(),
		SKU:         sku,
		Nombre:      in.Nombre,
		Descripcion: in.Descripcion,
		Precio:      in.Precio,
		Stock:       in.Stock,
		StockMinimo: stockMinimo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		if in.Stock > 0 {
			return movRepo.Create(&entity.MovimientoStock{
				ID:         uuid.New().String(),
				ProductoID: product.ID,
				Tipo:       entity.MovimientoEntrada,
				Cantidad:   in.Stock,
				Motivo:     "Stock inicial",
				Usuario:    usuario,
				Fecha:      now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetProduct obtiene un producto por ID.
func (uc *ProductUseCase) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// ListProducts lista productos con paginación simple.
func (uc *ProductUseCase) ListProducts(ctx context.Context, limit, offset int) ([]dto.ProductResponse, error) {
	products, err := uc.productRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

// ListLowStock lista los productos con stock por debajo de su mínimo,
// ordenados de menor a mayor stock.
func (uc *ProductUseCase) ListLowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := uc.productRepo.ListLowStock()
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

// UpdateProduct actualiza nombre, descripción, precio o stock mínimo.
// El stock no se toca por aquí: solo vía movimientos o ajuste.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Nombre != nil {
		if *in.Nombre == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Nombre = *in.Nombre
	}
	if in.Descripcion != nil {
		product.Descripcion = *in.Descripcion
	}
	if in.Precio != nil {
		if in.Precio.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Precio = *in.Precio
	}
	if in.StockMinimo != nil {
		if *in.StockMinimo < 0 {
			return nil, domain.ErrInvalidQuantity
		}
		product.StockMinimo = *in.StockMinimo
	}
	product.UpdatedAt = uc.now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// DeleteProduct elimina el producto con cascada explícita: primero sus
// movimientos del libro y sus líneas de venta, después el producto, todo en
// una transacción. Es la única vía por la que desaparecen movimientos.
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, id string) error {
	return uc.cascadeRunner.RunSales(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		product, err := productRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if err := movRepo.DeleteByProduct(id); err != nil {
			return err
		}
		if err := saleRepo.DeleteItemsByProduct(id); err != nil {
			return err
		}
		return productRepo.Delete(id)
	})
}

func toProductResponse(p *entity.Producto) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                 p.ID,
		SKU:                p.SKU,
		Nombre:             p.Nombre,
		Descripcion:        p.Descripcion,
		Precio:             p.Precio,
		Stock:              p.Stock,
		StockMinimo:        p.StockMinimo,
		NecesitaReposicion: p.NecesitaReposicion(),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func toProductResponses(products []*entity.Producto) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out
}
