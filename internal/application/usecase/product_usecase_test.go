package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdiasMQ/Practico-final/internal/application/dto"
	"github.com/AbdiasMQ/Practico-final/internal/application/usecase"
	"github.com/AbdiasMQ/Practico-final/internal/domain"
	"github.com/AbdiasMQ/Practico-final/internal/domain/entity"
	"github.com/AbdiasMQ/Practico-final/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El runner implementa los dos puertos transaccionales
// (movimientos+productos, y el ampliado con ventas para la cascada) sobre el
// mismo estado, con restauración del snapshot ante error para emular rollback.
// ──────────────────────────────────────────────────────────────────────────────

type fakeState struct {
	products  map[string]*entity.Producto
	movements []*entity.MovimientoStock
	items     map[string][]*entity.ItemVenta
	customers map[string]*entity.Cliente
}

func newFakeState() *fakeState {
	return &fakeState{
		products:  make(map[string]*entity.Producto),
		items:     make(map[string][]*entity.ItemVenta),
		customers: make(map[string]*entity.Cliente),
	}
}

type fakeProductRepo struct{ st *fakeState }

func (r fakeProductRepo) Create(p *entity.Producto) error {
	cp := *p
	r.st.products[p.ID] = &cp
	return nil
}

func (r fakeProductRepo) GetByID(id string) (*entity.Producto, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r fakeProductRepo) GetBySKU(sku string) (*entity.Producto, error) {
	for _, p := range r.st.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakeProductRepo) GetForUpdate(id string) (*entity.Producto, error) {
	return r.GetByID(id)
}

func (r fakeProductRepo) List(limit, offset int) ([]*entity.Producto, error) {
	var out []*entity.Producto
	for _, p := range r.st.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r fakeProductRepo) ListLowStock() ([]*entity.Producto, error) {
	var out []*entity.Producto
	for _, p := range r.st.products {
		if p.Stock < p.StockMinimo {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r fakeProductRepo) Update(p *entity.Producto) error {
	cp := *p
	r.st.products[p.ID] = &cp
	return nil
}

func (r fakeProductRepo) UpdateStock(id string, stock int) error {
	p, ok := r.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	return nil
}

func (r fakeProductRepo) Delete(id string) error {
	delete(r.st.products, id)
	return nil
}

type fakeMovementRepo struct{ st *fakeState }

func (r fakeMovementRepo) Create(m *entity.MovimientoStock) error {
	cp := *m
	r.st.movements = append(r.st.movements, &cp)
	return nil
}

func (r fakeMovementRepo) ListByProduct(productID string, limit int) ([]*entity.MovimientoStock, error) {
	var out []*entity.MovimientoStock
	for i := len(r.st.movements) - 1; i >= 0 && len(out) < limit; i-- {
		if r.st.movements[i].ProductoID == productID {
			cp := *r.st.movements[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r fakeMovementRepo) DeleteByProduct(productID string) error {
	var kept []*entity.MovimientoStock
	for _, m := range r.st.movements {
		if m.ProductoID != productID {
			kept = append(kept, m)
		}
	}
	r.st.movements = kept
	return nil
}

// fakeSaleRepo implementa solo lo que la cascada de producto necesita; el
// resto no se invoca desde estos tests.
type fakeSaleRepo struct{ st *fakeState }

func (r fakeSaleRepo) Create(*entity.Venta) error                    { return nil }
func (r fakeSaleRepo) CreateItem(item *entity.ItemVenta) error       { return nil }
func (r fakeSaleRepo) GetByID(string) (*entity.Venta, error)         { return nil, nil }
func (r fakeSaleRepo) GetByCodigo(string) (*entity.Venta, error)     { return nil, nil }
func (r fakeSaleRepo) List(int, int) ([]*entity.Venta, error)        { return nil, nil }
func (r fakeSaleRepo) ListItems(string) ([]*entity.ItemVenta, error) { return nil, nil }
func (r fakeSaleRepo) UpdateTotal(string, decimal.Decimal) error     { return nil }
func (r fakeSaleRepo) Delete(string) error                           { return nil }
func (r fakeSaleRepo) DeleteItems(string) error                      { return nil }

func (r fakeSaleRepo) DeleteItemsByProduct(productID string) error {
	for saleID, items := range r.st.items {
		var kept []*entity.ItemVenta
		for _, item := range items {
			if item.ProductoID != productID {
				kept = append(kept, item)
			}
		}
		r.st.items[saleID] = kept
	}
	return nil
}

type fakeCustomerRepo struct{ st *fakeState }

func (r fakeCustomerRepo) Create(c *entity.Cliente) error {
	cp := *c
	r.st.customers[c.ID] = &cp
	return nil
}

func (r fakeCustomerRepo) GetByID(id string) (*entity.Cliente, error) {
	c, ok := r.st.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r fakeCustomerRepo) GetByDNI(dni string) (*entity.Cliente, error) {
	for _, c := range r.st.customers {
		if c.DNI == dni {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakeCustomerRepo) List(limit, offset int) ([]*entity.Cliente, error) {
	var out []*entity.Cliente
	for _, c := range r.st.customers {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r fakeCustomerRepo) Update(c *entity.Cliente) error {
	cp := *c
	r.st.customers[c.ID] = &cp
	return nil
}

func (r fakeCustomerRepo) Delete(id string) error {
	delete(r.st.customers, id)
	return nil
}

type fakeRunner struct{ st *fakeState }

func (tr fakeRunner) snapshot() *fakeState {
	snap := newFakeState()
	for id, p := range tr.st.products {
		cp := *p
		snap.products[id] = &cp
	}
	for _, m := range tr.st.movements {
		cp := *m
		snap.movements = append(snap.movements, &cp)
	}
	for saleID, items := range tr.st.items {
		for _, item := range items {
			cp := *item
			snap.items[saleID] = append(snap.items[saleID], &cp)
		}
	}
	for id, c := range tr.st.customers {
		cp := *c
		snap.customers[id] = &cp
	}
	return snap
}

func (tr fakeRunner) restore(snap *fakeState) {
	tr.st.products = snap.products
	tr.st.movements = snap.movements
	tr.st.items = snap.items
	tr.st.customers = snap.customers
}

func (tr fakeRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	snap := tr.snapshot()
	if err := fn(fakeMovementRepo{tr.st}, fakeProductRepo{tr.st}); err != nil {
		tr.restore(snap)
		return err
	}
	return nil
}

func (tr fakeRunner) RunSales(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	snap := tr.snapshot()
	if err := fn(fakeMovementRepo{tr.st}, fakeProductRepo{tr.st}, fakeSaleRepo{tr.st}); err != nil {
		tr.restore(snap)
		return err
	}
	return nil
}

var clockFijo = func() time.Time {
	return time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
}

func buildProductUC(t *testing.T) (*usecase.ProductUseCase, *fakeState) {
	t.Helper()
	st := newFakeState()
	runner := fakeRunner{st}
	uc := usecase.NewProductUseCase(runner, runner, fakeProductRepo{st}, clockFijo)
	return uc, st
}

func intPtr(n int) *int { return &n }

// ──────────────────────────────────────────────────────────────────────────────
// CreateProduct
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateProduct_ConStockInicial_RegistraEntrada(t *testing.T) {
	uc, st := buildProductUC(t)

	resp, err := uc.CreateProduct(context.Background(), dto.CreateProductRequest{
		SKU:    "TEC-001",
		Nombre: "Teclado mecánico",
		Precio: decimal.NewFromInt(120),
		Stock:  15,
	}, "carlos")
	require.NoError(t, err)

	assert.Equal(t, 15, resp.Stock)
	assert.Equal(t, entity.DefaultStockMinimo, resp.StockMinimo)

	// El stock inicial entra al libro como cualquier otra entrada
	require.Len(t, st.movements, 1)
	mov := st.movements[0]
	assert.Equal(t, entity.MovimientoEntrada, mov.Tipo)
	assert.Equal(t, 15, mov.Cantidad)
	assert.Equal(t, "Stock inicial", mov.Motivo)
	assert.Equal(t, "carlos", mov.Usuario)
}

func TestCreateProduct_SinStock_NoRegistraMovimiento(t *testing.T) {
	uc, st := buildProductUC(t)

	resp, err := uc.CreateProduct(context.Background(), dto.CreateProductRequest{
		SKU:    "TEC-002",
		Nombre: "Mouse",
		Precio: decimal.NewFromInt(30),
	}, "carlos")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Stock)
	assert.Empty(t, st.movements, "stock cero no genera entrada inicial")
}

func TestCreateProduct_SinSKU_GeneraUno(t *testing.T) {
	uc, _ := buildProductUC(t)

	resp, err := uc.CreateProduct(context.Background(), dto.CreateProductRequest{
		Nombre: "Monitor",
		Precio: decimal.NewFromInt(200),
	}, "carlos")
	require.NoError(t, err)
	assert.Len(t, resp.SKU, 8, "el SKU generado tiene 8 caracteres")
}

func TestCreateProduct_SKUDuplicado(t *testing.T) {
	uc, _ := buildProductUC(t)
	ctx := context.Background()

	_, err := uc.CreateProduct(ctx, dto.CreateProductRequest{
		SKU: "DUP-01", Nombre: "A", Precio: decimal.NewFromInt(1),
	}, "carlos")
	require.NoError(t, err)

	_, err = uc.CreateProduct(ctx, dto.CreateProductRequest{
		SKU: "DUP-01", Nombre: "B", Precio: decimal.NewFromInt(1),
	}, "carlos")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateProduct_Validaciones(t *testing.T) {
	uc, _ := buildProductUC(t)
	ctx := context.Background()

	_, err := uc.CreateProduct(ctx, dto.CreateProductRequest{Precio: decimal.NewFromInt(1)}, "carlos")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin nombre")

	_, err = uc.CreateProduct(ctx, dto.CreateProductRequest{Nombre: "X", Precio: decimal.NewFromInt(-1)}, "carlos")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio negativo")

	_, err = uc.CreateProduct(ctx, dto.CreateProductRequest{Nombre: "X", Precio: decimal.NewFromInt(1), Stock: -2}, "carlos")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "stock inicial negativo")

	_, err = uc.CreateProduct(ctx, dto.CreateProductRequest{Nombre: "X", Precio: decimal.NewFromInt(1), StockMinimo: intPtr(-1)}, "carlos")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "stock mínimo negativo")
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateProduct
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateProduct_NoTocaStock(t *testing.T) {
	uc, st := buildProductUC(t)
	ctx := context.Background()

	created, err := uc.CreateProduct(ctx, dto.CreateProductRequest{
		SKU: "UPD-01", Nombre: "Original", Precio: decimal.NewFromInt(10), Stock: 9,
	}, "carlos")
	require.NoError(t, err)

	nombre := "Renombrado"
	precio := decimal.NewFromInt(14)
	resp, err := uc.UpdateProduct(ctx, created.ID, dto.UpdateProductRequest{
		Nombre: &nombre,
		Precio: &precio,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renombrado", resp.Nombre)
	assert.True(t, resp.Precio.Equal(decimal.NewFromInt(14)))
	assert.Equal(t, 9, resp.Stock, "la actualización no debe alterar el stock")
	assert.Equal(t, 9, st.products[created.ID].Stock)
}

func TestUpdateProduct_Inexistente(t *testing.T) {
	uc, _ := buildProductUC(t)

	nombre := "X"
	_, err := uc.UpdateProduct(context.Background(), "no-existe", dto.UpdateProductRequest{Nombre: &nombre})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// DeleteProduct — cascada explícita
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteProduct_CascadaMovimientosYLineas(t *testing.T) {
	uc, st := buildProductUC(t)
	ctx := context.Background()

	created, err := uc.CreateProduct(ctx, dto.CreateProductRequest{
		SKU: "DEL-01", Nombre: "A borrar", Precio: decimal.NewFromInt(5), Stock: 8,
	}, "carlos")
	require.NoError(t, err)
	require.Len(t, st.movements, 1)

	// Simula líneas de venta históricas que referencian al producto
	st.items["venta1"] = []*entity.ItemVenta{
		{ID: "i1", VentaID: "venta1", ProductoID: created.ID, Cantidad: 2},
		{ID: "i2", VentaID: "venta1", ProductoID: "otro", Cantidad: 1},
	}

	require.NoError(t, uc.DeleteProduct(ctx, created.ID))

	_, ok := st.products[created.ID]
	assert.False(t, ok, "el producto debe desaparecer")
	assert.Empty(t, st.movements, "sus movimientos también")
	require.Len(t, st.items["venta1"], 1, "solo caen las líneas del producto eliminado")
	assert.Equal(t, "otro", st.items["venta1"][0].ProductoID)
}

func TestDeleteProduct_Inexistente(t *testing.T) {
	uc, _ := buildProductUC(t)

	err := uc.DeleteProduct(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados
// ──────────────────────────────────────────────────────────────────────────────

func TestListLowStock_SoloBajoElMinimo(t *testing.T) {
	uc, st := buildProductUC(t)

	st.products["bajo"] = &entity.Producto{ID: "bajo", SKU: "B", Nombre: "Bajo", Stock: 2, StockMinimo: 5}
	st.products["justo"] = &entity.Producto{ID: "justo", SKU: "J", Nombre: "Justo", Stock: 5, StockMinimo: 5}
	st.products["sobrado"] = &entity.Producto{ID: "sobrado", SKU: "S", Nombre: "Sobrado", Stock: 50, StockMinimo: 5}

	out, err := uc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1, "stock igual al mínimo queda fuera")
	assert.Equal(t, "bajo", out[0].ID)
	assert.True(t, out[0].NecesitaReposicion)
}
