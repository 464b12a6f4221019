// Package pdf genera el comprobante imprimible de una venta con Maroto v2.
//
// Layout de la página A4:
//
//	┌───────────────────────────────────────────────┐
//	│  HEADER: Comprobante de Venta │ Código + Fecha │
//	│  CLIENTE: Nombre + DNI + contacto              │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal    │
//	│  TOTAL                                         │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appsales "github.com/AbdiasMQ/Practico-final/internal/application/sales"
	"github.com/AbdiasMQ/Practico-final/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoSalePDFGenerator implementa sales.SalePDFGenerator usando Maroto v2.
type MarotoSalePDFGenerator struct{}

// NewMarotoSalePDFGenerator construye el generador.
func NewMarotoSalePDFGenerator() *MarotoSalePDFGenerator { return &MarotoSalePDFGenerator{} }

// GenerateSalePDF genera el PDF y devuelve sus bytes.
func (g *MarotoSalePDFGenerator) GenerateSalePDF(
	_ context.Context,
	sale *entity.Venta,
	customer *entity.Cliente,
	lines []appsales.SaleLineForPDF,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Venta "+sale.Codigo, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, l := range lines {
		m.AddRows(tableDetailRow(l))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título (izq) y código + fecha (der).
func headerRow(sale *entity.Venta) core.Row {
	return row.New(14).Add(
		col.New(7).Add(
			text.New("Comprobante de Venta", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("Venta N° "+sale.Codigo, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New(sale.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 7, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos del cliente.
func customerRow(customer *entity.Cliente) core.Row {
	nombre := "Cliente no registrado"
	contacto := ""
	if customer != nil {
		nombre = customer.Nombre + " " + customer.Apellido + "  (DNI: " + customer.DNI + ")"
		contacto = customer.Direccion
		if customer.Telefono != "" {
			contacto += "  Tel: " + customer.Telefono
		}
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("Cliente: "+nombre, props.Text{Size: 9, Top: 1}),
			text.New(contacto, props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1}
	return row.New(7).Add(
		col.New(1).Add(text.New("Cant", header)),
		col.New(6).Add(text.New("Producto", header)),
		col.New(2).Add(text.New("P. Unit", mergeAlign(header, align.Right))),
		col.New(3).Add(text.New("Subtotal", mergeAlign(header, align.Right))),
	)
}

func tableDetailRow(l appsales.SaleLineForPDF) core.Row {
	nombre := l.ProductoNombre
	if nombre == "" {
		nombre = l.Item.ProductoID
	}
	if l.ProductoSKU != "" {
		nombre += " (" + l.ProductoSKU + ")"
	}
	cell := props.Text{Size: 9, Top: 1}
	return row.New(6).Add(
		col.New(1).Add(text.New(fmt.Sprintf("%d", l.Item.Cantidad), cell)),
		col.New(6).Add(text.New(nombre, cell)),
		col.New(2).Add(text.New("$ "+l.Item.PrecioUnitario.StringFixed(2), mergeAlign(cell, align.Right))),
		col.New(3).Add(text.New("$ "+l.Item.Subtotal.StringFixed(2), mergeAlign(cell, align.Right))),
	)
}

func totalRow(sale *entity.Venta) core.Row {
	return row.New(9).Add(
		col.New(9).Add(
			text.New("TOTAL", props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2}),
		),
		col.New(3).Add(
			text.New("$ "+sale.Total.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2, Color: colorPrimary,
			}),
		),
	)
}

func mergeAlign(t props.Text, a align.Type) props.Text {
	t.Align = a
	return t
}
