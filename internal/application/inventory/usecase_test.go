package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdiasMQ/Practico-final/internal/application/dto"
	"github.com/AbdiasMQ/Practico-final/internal/application/inventory"
	"github.com/AbdiasMQ/Practico-final/internal/domain"
	"github.com/AbdiasMQ/Practico-final/internal/domain/entity"
	"github.com/AbdiasMQ/Practico-final/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// El fake de TxRunner emula el rollback de PostgreSQL: toma una copia del
// estado antes de ejecutar fn y lo restaura si fn devuelve error. Así los
// tests pueden verificar que una operación rechazada no deja efectos parciales.
// ──────────────────────────────────────────────────────────────────────────────

const testFechaFija = "2024-06-15T10:30:00Z"

func fixedClock(t *testing.T) func() time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, testFechaFija)
	require.NoError(t, err)
	return func() time.Time { return ts }
}

type memProductRepo struct {
	products map[string]*entity.Producto
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]*entity.Producto)}
}

func (r *memProductRepo) Create(p *entity.Producto) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Producto, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetBySKU(sku string) (*entity.Producto, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetForUpdate(id string) (*entity.Producto, error) {
	return r.GetByID(id)
}

func (r *memProductRepo) List(limit, offset int) ([]*entity.Producto, error) {
	out := make([]*entity.Producto, 0, len(r.products))
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memProductRepo) ListLowStock() ([]*entity.Producto, error) {
	var out []*entity.Producto
	for _, p := range r.products {
		if p.Stock < p.StockMinimo {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memProductRepo) Update(p *entity.Producto) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) UpdateStock(id string, stock int) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	if stock < 0 {
		return domain.ErrInvalidQuantity
	}
	p.Stock = stock
	return nil
}

func (r *memProductRepo) Delete(id string) error {
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) snapshot() map[string]*entity.Producto {
	snap := make(map[string]*entity.Producto, len(r.products))
	for id, p := range r.products {
		cp := *p
		snap[id] = &cp
	}
	return snap
}

type memMovementRepo struct {
	movements []*entity.MovimientoStock
}

func (r *memMovementRepo) Create(m *entity.MovimientoStock) error {
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *memMovementRepo) ListByProduct(productID string, limit int) ([]*entity.MovimientoStock, error) {
	// Más reciente primero, como el ORDER BY fecha DESC del adaptador real
	var out []*entity.MovimientoStock
	for i := len(r.movements) - 1; i >= 0 && len(out) < limit; i-- {
		if r.movements[i].ProductoID == productID {
			cp := *r.movements[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memMovementRepo) DeleteByProduct(productID string) error {
	kept := r.movements[:0]
	for _, m := range r.movements {
		if m.ProductoID != productID {
			kept = append(kept, m)
		}
	}
	r.movements = kept
	return nil
}

type memTxRunner struct {
	productRepo *memProductRepo
	movRepo     *memMovementRepo
}

func (tr *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	prodSnap := tr.productRepo.snapshot()
	movSnap := make([]*entity.MovimientoStock, len(tr.movRepo.movements))
	copy(movSnap, tr.movRepo.movements)

	if err := fn(tr.movRepo, tr.productRepo); err != nil {
		tr.productRepo.products = prodSnap
		tr.movRepo.movements = movSnap
		return err
	}
	return nil
}

// ledgerStock suma el libro de un producto: entradas positivas, salidas
// negativas. Si el libro y el stock del producto coinciden, el invariante de
// consistencia caché-libro se mantiene.
func ledgerStock(movs []*entity.MovimientoStock, productID string) int {
	total := 0
	for _, m := range movs {
		if m.ProductoID != productID {
			continue
		}
		switch m.Tipo {
		case entity.MovimientoEntrada:
			total += m.Cantidad
		case entity.MovimientoSalida:
			total -= m.Cantidad
		}
	}
	return total
}

func buildLedgerUC(t *testing.T) (*inventory.StockLedgerUseCase, *memProductRepo, *memMovementRepo) {
	t.Helper()
	productRepo := newMemProductRepo()
	movRepo := &memMovementRepo{}
	runner := &memTxRunner{productRepo: productRepo, movRepo: movRepo}
	uc := inventory.NewStockLedgerUseCase(runner, productRepo, movRepo, fixedClock(t))
	return uc, productRepo, movRepo
}

func seedProduct(t *testing.T, repo *memProductRepo, id string, stock, stockMinimo int) {
	t.Helper()
	require.NoError(t, repo.Create(&entity.Producto{
		ID:          id,
		SKU:         "SKU-" + id,
		Nombre:      "Producto " + id,
		Precio:      decimal.NewFromInt(10),
		Stock:       stock,
		StockMinimo: stockMinimo,
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_EntradaSumaStock(t *testing.T) {
	uc, productRepo, movRepo := buildLedgerUC(t)
	seedProduct(t, productRepo, "p1", 10, 5)

	resp, err := uc.RegisterMovement(context.Background(), "p1", dto.RegisterMovementRequest{
		Tipo:     entity.MovimientoEntrada,
		Cantidad: 7,
		Motivo:   "Compra a proveedor",
	}, "carlos")
	require.NoError(t, err)

	assert.Equal(t, entity.MovimientoEntrada, resp.Tipo)
	assert.Equal(t, 7, resp.Cantidad)
	assert.Equal(t, "carlos", resp.Usuario)

	p, _ := productRepo.GetByID("p1")
	assert.Equal(t, 17, p.Stock, "entrada de 7 sobre 10 debe dejar 17")
	// El libro refleja el mismo delta que el stock
	assert.Equal(t, 7, ledgerStock(movRepo.movements, "p1"))
}

func TestRegisterMovement_SalidaRestaStock(t *testing.T) {
	uc, productRepo, _ := buildLedgerUC(t)
	seedProduct(t, productRepo, "p1", 10, 5)

	resp, err := uc.RegisterMovement(context.Background(), "p1", dto.RegisterMovementRequest{
		Tipo:     entity.MovimientoSalida,
		Cantidad: 4,
	}, "carlos")
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Cantidad)

	p, _ := productRepo.GetByID("p1")
	assert.Equal(t, 6, p.Stock)
}

// La salida que excede el stock se rechaza completa: ni recorte parcial, ni
// movimiento en el libro, ni cambio de stock.
func TestRegisterMovement_SalidaInsuficiente_TodoONada(t *testing.T) {
	uc, productRepo, movRepo := buildLedgerUC(t)
	seedProduct(t, productRepo, "p1", 3, 5)

	_, err := uc.RegisterMovement(context.Background(), "p1", dto.RegisterMovementRequest{
		Tipo:     entity.MovimientoSalida,
		Cantidad: 5,
	}, "carlos")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, _ := productRepo.GetByID("p1")
	assert.Equal(t, 3, p.Stock, "el stock no debe cambiar tras un rechazo")
	assert.Empty(t, movRepo.movements, "no debe quedar movimiento registrado")
}

// Salida por el stock exacto: permitida, deja el stock en cero.
func TestRegisterMovement_SalidaExacta_DejaCero(t *testing.T) {
	uc, productRepo, _ := buildLedgerUC(t)
	seedProduct(t, productRepo, "p1", 5, 5)

	_, err := uc.RegisterMovement(context.Background(), "p1", dto.RegisterMovementRequest{
		Tipo:     entity.MovimientoSalida,
		Cantidad: 5,
	}, "carlos")
	require.NoError(t, err)

	p, _ := productRepo.GetByID("p1")
	assert.Equal(t, 0, p.Stock)
}

func TestRegisterMovement_CantidadInvalida(t *testing.T) {
	uc, productRepo, _ := buildLedgerUC(t)
	seedProduct(t, productRepo, "p1", 10, 5)

	for _, cantidad := range []int{0, -3} {
		_, err := uc.RegisterMovement(context.Background(), "p1", dto.RegisterMovementRequest{
			Tipo:     entity.MovimientoEntrada,
			Cantidad: cantidad,
		}, "carlos")
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad %d debe rechazarse", cantidad)
	}
}

// El tipo "ajuste" no pasa por el registro directo; los ajustes van por
// AdjustStock con objetivo absoluto.
func TestRegisterMovement_TipoAjusteRechazado(t *testing.T) {
	uc, productRepo, movRepo := buildLedgerUC(t)
	seedProduct(t, productRepo, "p1", 10, 5)

	_, err := uc.RegisterMovement(context.Background(), "p1", dto.RegisterMovementRequest{
		Tipo:     entity.MovimientoAjuste,
		Cantidad: 3,
	}, "carlos")
	require.ErrorIs(t, err, domain.ErrInvalidKind)
	assert.Empty(t, movRepo.movements)
}

func TestRegisterMovement_TipoDesconocidoRechazado(t *testing.T) {
	uc, productRepo, _ := buildLedgerUC(t)
	seedProduct(t, productRepo, "p1", 10, 5)

	_, err := uc.RegisterMovement(context.Background(), "p1", dto.RegisterMovementRequest{
		Tipo:     "transferencia",
		Cantidad: 3,
	}, "carlos")
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}

func TestRegisterMovement_ProductoInexistente(t *testing.T) {
	uc, _, _ := buildLedgerUC(t)

	_, err := uc.RegisterMovement(context.Background(), "no-existe", dto.RegisterMovementRequest{
		Tipo:     entity.MovimientoEntrada,
		Cantidad: 1,
	}, "carlos")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Sin usuario explícito el movimiento queda atribuido al usuario de sistema.
func TestRegisterMovement_UsuarioVacioUsaSistema(t *testing.T) {
	uc, productRepo, _ := buildLedgerUC(t)
	seedProduct(t, productRepo, "p1", 10, 5)

	resp, err := uc.RegisterMovement(context.Background(), "p1", dto.RegisterMovementRequest{
		Tipo:     entity.MovimientoEntrada,
		Cantidad: 1,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, entity.UsuarioSistema, resp.Usuario)
}

func TestRegisterMovement_UsaRelojInyectado(t *testing.T) {
	uc, productRepo, _ := buildLedgerUC(t)
	seedProduct(t, productRepo, "p1", 10, 5)

	resp, err := uc.RegisterMovement(context.Background(), "p1", dto.RegisterMovementRequest{
		Tipo:     entity.MovimientoEntrada,
		Cantidad: 1,
	}, "carlos")
	require.NoError(t, err)

	esperada, _ := time.Parse(time.RFC3339, testFechaFija)
	assert.True(t, resp.Fecha.Equal(esperada))
}

// ──────────────────────────────────────────────────────────────────────────────
// AdjustStock
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustStock_ObjetivoMayor_RegistraEntrada(t *testing.T) {
	uc, productRepo, movRepo := buildLedgerUC(t)
	seedProduct(t, productRepo, "p1", 10, 5)

	resp, err := uc.AdjustStock(context.Background(), "p1", dto.AdjustStockRequest{
		NuevaCantidad: 25,
	}, "ana")
	require.NoError(t, err)
	assert.True(t, resp.Cambiado)
	assert.Equal(t, 25, resp.Stock)

	require.Len(t, movRepo.movements, 1)
	mov := movRepo.movements[0]
	assert.Equal(t, entity.MovimientoEntrada, mov.Tipo)
	assert.Equal(t, 15, mov.Cantidad, "la magnitud es la diferencia con el objetivo")
	assert.Equal(t, inventory.MotivoAjusteDefault, mov.Motivo)

	p, _ := productRepo.GetByID("p1")
	assert.Equal(t, 25, p.Stock)
}

func TestAdjustStock_ObjetivoMenor_RegistraSalida(t *testing.T) {
	uc, productRepo, movRepo := buildLedgerUC(t)
	seedProduct(t, productRepo, "p1", 10, 5)

	resp, err := uc.AdjustStock(context.Background(), "p1", dto.AdjustStockRequest{
		NuevaCantidad: 4,
		Motivo:        "Merma por rotura",
	}, "ana")
	require.NoError(t, err)
	assert.True(t, resp.Cambiado)

	require.Len(t, movRepo.movements, 1)
	mov := movRepo.movements[0]
	assert.Equal(t, entity.MovimientoSalida, mov.Tipo)
	assert.Equal(t, 6, mov.Cantidad)
	assert.Equal(t, "Merma por rotura", mov.Motivo)

	p, _ := productRepo.GetByID("p1")
	assert.Equal(t, 4, p.Stock)
}

// Ajustar al stock actual no registra movimiento: el mismo objetivo dos veces
// seguidas es idempotente.
func TestAdjustStock_SinDiferencia_NoOp(t *testing.T) {
	uc, productRepo, movRepo := buildLedgerUC(t)
	seedProduct(t, productRepo, "p1", 10, 5)

	resp, err := uc.AdjustStock(context.Background(), "p1", dto.AdjustStockRequest{
		NuevaCantidad: 10,
	}, "ana")
	require.NoError(t, err)
	assert.False(t, resp.Cambiado)
	assert.Equal(t, 10, resp.Stock)
	assert.Empty(t, movRepo.movements)
}

func TestAdjustStock_Idempotente(t *testing.T) {
	uc, productRepo, movRepo := buildLedgerUC(t)
	seedProduct(t, productRepo, "p1", 10, 5)

	first, err := uc.AdjustStock(context.Background(), "p1", dto.AdjustStockRequest{NuevaCantidad: 20}, "ana")
	require.NoError(t, err)
	assert.True(t, first.Cambiado)

	second, err := uc.AdjustStock(context.Background(), "p1", dto.AdjustStockRequest{NuevaCantidad: 20}, "ana")
	require.NoError(t, err)
	assert.False(t, second.Cambiado, "repetir el mismo objetivo no debe registrar nada")
	assert.Len(t, movRepo.movements, 1)
}

// El ajuste puede llevar el stock a cero; es un objetivo válido.
func TestAdjustStock_ObjetivoCero(t *testing.T) {
	uc, productRepo, _ := buildLedgerUC(t)
	seedProduct(t, productRepo, "p1", 10, 5)

	resp, err := uc.AdjustStock(context.Background(), "p1", dto.AdjustStockRequest{NuevaCantidad: 0}, "ana")
	require.NoError(t, err)
	assert.True(t, resp.Cambiado)
	assert.Equal(t, 0, resp.Stock)
}

func TestAdjustStock_ObjetivoNegativoRechazado(t *testing.T) {
	uc, productRepo, _ := buildLedgerUC(t)
	seedProduct(t, productRepo, "p1", 10, 5)

	_, err := uc.AdjustStock(context.Background(), "p1", dto.AdjustStockRequest{NuevaCantidad: -1}, "ana")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestAdjustStock_ProductoInexistente(t *testing.T) {
	uc, _, _ := buildLedgerUC(t)

	_, err := uc.AdjustStock(context.Background(), "no-existe", dto.AdjustStockRequest{NuevaCantidad: 5}, "ana")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consistencia caché-libro y umbral de reposición
// ──────────────────────────────────────────────────────────────────────────────

// Tras una secuencia mixta de movimientos y ajustes, el stock del producto
// sigue siendo exactamente la suma del libro.
func TestLedger_ConsistenciaTrasSecuenciaMixta(t *testing.T) {
	uc, productRepo, movRepo := buildLedgerUC(t)
	seedProduct(t, productRepo, "p1", 0, 5)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, "p1", dto.RegisterMovementRequest{Tipo: entity.MovimientoEntrada, Cantidad: 50}, "ana")
	require.NoError(t, err)
	_, err = uc.RegisterMovement(ctx, "p1", dto.RegisterMovementRequest{Tipo: entity.MovimientoSalida, Cantidad: 12}, "ana")
	require.NoError(t, err)
	_, err = uc.AdjustStock(ctx, "p1", dto.AdjustStockRequest{NuevaCantidad: 30}, "ana")
	require.NoError(t, err)
	_, err = uc.RegisterMovement(ctx, "p1", dto.RegisterMovementRequest{Tipo: entity.MovimientoSalida, Cantidad: 30}, "ana")
	require.NoError(t, err)

	p, _ := productRepo.GetByID("p1")
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, p.Stock, ledgerStock(movRepo.movements, "p1"),
		"el stock debe coincidir con la suma del libro")
}

// Umbral estricto: stock igual al mínimo NO necesita reposición; una salida
// de una unidad lo cruza.
func TestNecesitaReposicion_UmbralEstricto(t *testing.T) {
	uc, productRepo, _ := buildLedgerUC(t)
	seedProduct(t, productRepo, "p1", 5, 5)

	p, _ := productRepo.GetByID("p1")
	assert.False(t, p.NecesitaReposicion(), "stock == mínimo no necesita reposición")

	_, err := uc.RegisterMovement(context.Background(), "p1", dto.RegisterMovementRequest{
		Tipo:     entity.MovimientoSalida,
		Cantidad: 1,
	}, "ana")
	require.NoError(t, err)

	p, _ = productRepo.GetByID("p1")
	assert.True(t, p.NecesitaReposicion(), "stock < mínimo sí necesita reposición")
}

// ──────────────────────────────────────────────────────────────────────────────
// RecentMovements
// ──────────────────────────────────────────────────────────────────────────────

func TestRecentMovements_LimiteYOrden(t *testing.T) {
	uc, productRepo, _ := buildLedgerUC(t)
	seedProduct(t, productRepo, "p1", 0, 5)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, err := uc.RegisterMovement(ctx, "p1", dto.RegisterMovementRequest{
			Tipo:     entity.MovimientoEntrada,
			Cantidad: i + 1,
		}, "ana")
		require.NoError(t, err)
	}

	// Límite por defecto 10
	movs, err := uc.RecentMovements(ctx, "p1", 0)
	require.NoError(t, err)
	assert.Len(t, movs, 10)
	assert.Equal(t, 15, movs[0].Cantidad, "el primero debe ser el más reciente")

	movs, err = uc.RecentMovements(ctx, "p1", 3)
	require.NoError(t, err)
	assert.Len(t, movs, 3)
}

func TestRecentMovements_ProductoInexistente(t *testing.T) {
	uc, _, _ := buildLedgerUC(t)

	_, err := uc.RecentMovements(context.Background(), "no-existe", 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
