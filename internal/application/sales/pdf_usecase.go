package sales

import (
	"context"

	"github.com/AbdiasMQ/Practico-final/internal/domain"
	"github.com/AbdiasMQ/Practico-final/internal/domain/repository"
)

// SalePDFUseCase arma los datos de una venta y delega la generación del PDF.
type SalePDFUseCase struct {
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	generator    SalePDFGenerator
}

// NewSalePDFUseCase construye el caso de uso.
func NewSalePDFUseCase(
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	generator SalePDFGenerator,
) *SalePDFUseCase {
	return &SalePDFUseCase{
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		generator:    generator,
	}
}

// GenerateSalePDF genera el PDF de la venta con sus líneas y el cliente.
// Devuelve además el código de la venta para el nombre del archivo.
func (uc *SalePDFUseCase) GenerateSalePDF(ctx context.Context, saleID string) ([]byte, string, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, "", err
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}
	customer, err := uc.customerRepo.GetByID(sale.ClienteID)
	if err != nil {
		return nil, "", err
	}
	items, err := uc.saleRepo.ListItems(saleID)
	if err != nil {
		return nil, "", err
	}

	lines := make([]SaleLineForPDF, 0, len(items))
	for _, item := range items {
		line := SaleLineForPDF{Item: item}
		if product, err := uc.productRepo.GetByID(item.ProductoID); err == nil && product != nil {
			line.ProductoNombre = product.Nombre
			line.ProductoSKU = product.SKU
		}
		lines = append(lines, line)
	}

	pdfBytes, err := uc.generator.GenerateSalePDF(ctx, sale, customer, lines)
	if err != nil {
		return nil, "", err
	}
	return pdfBytes, sale.Codigo, nil
}
