package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/AbdiasMQ/Practico-final/internal/domain/entity"
	"github.com/AbdiasMQ/Practico-final/internal/domain/repository"
)

// SalesTxRunner ejecuta una función dentro de una transacción que incluye los
// repositorios de inventario y ventas. Crear o anular una venta aplica varios
// deltas de stock y registros del libro como una sola unidad: o entran todos o
// ninguno.
type SalesTxRunner interface {
	RunSales(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// SaleLineForPDF línea de venta enriquecida con el nombre del producto,
// para la representación impresa.
type SaleLineForPDF struct {
	Item           *entity.ItemVenta
	ProductoNombre string
	ProductoSKU    string
}

// SalePDFGenerator genera la representación PDF de una venta.
type SalePDFGenerator interface {
	GenerateSalePDF(ctx context.Context, sale *entity.Venta, customer *entity.Cliente, lines []SaleLineForPDF) ([]byte, error)
}

// decimalInt convierte una cantidad entera a decimal para cálculos de dinero.
func decimalInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
