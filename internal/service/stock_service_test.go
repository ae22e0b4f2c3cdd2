package service

import (
	"context"
	"testing"

	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockFixture struct {
	productos   *stubProductoRepo
	tiendaStock *stubTiendaStockRepo
	movimientos *stubMovimientoRepo
	svc         StockService
	principalID uuid.UUID
}

func buildStockSvc(productos ...*model.Producto) *stockFixture {
	f := &stockFixture{
		productos:   newStubProductoRepo(productos...),
		tiendaStock: newStubTiendaStockRepo(),
		movimientos: &stubMovimientoRepo{},
		principalID: uuid.New(),
	}
	f.svc = NewStockService(f.productos, f.tiendaStock, f.movimientos, f.principalID)
	return f
}

func (f *stockFixture) scPrincipal() model.StoreContext {
	return model.StoreContext{UsuarioID: uuid.New(), Rol: model.RolAdmin}
}

func (f *stockFixture) scMicro(tiendaID uuid.UUID) model.StoreContext {
	return model.StoreContext{UsuarioID: uuid.New(), TiendaID: &tiendaID, Rol: model.RolVendedor}
}

func producto(bodega, local int) *model.Producto {
	return &model.Producto{
		ID:          uuid.New(),
		Referencia:  "REF-" + uuid.NewString()[:8],
		Nombre:      "Llanta 90/90-18",
		PrecioVenta: decimal.NewFromInt(120000),
		PrecioCosto: decimal.NewFromInt(80000),
		StockBodega: bodega,
		StockLocal:  local,
		Activo:      true,
	}
}

func TestDescontarTomaLocalPrimero(t *testing.T) {
	p := producto(10, 10)
	f := buildStockSvc(p)

	split, err := f.svc.DescontarTx(nil, f.scPrincipal(), p.ID, 4, model.MovimientoVenta, "Venta #1", nil)
	require.NoError(t, err)

	assert.Equal(t, 0, split.DeBodega)
	assert.Equal(t, 4, split.DeLocal)
	assert.Equal(t, 10, f.productos.productos[p.ID].StockBodega)
	assert.Equal(t, 6, f.productos.productos[p.ID].StockLocal)

	movs := f.movimientos.porTipo(model.MovimientoVenta)
	require.Len(t, movs, 1)
	assert.Equal(t, model.UbicacionLocal, movs[0].Ubicacion)
	assert.Equal(t, -4, movs[0].Cantidad)
	assert.Equal(t, 10, movs[0].StockAnterior)
	assert.Equal(t, 6, movs[0].StockNuevo)
}

func TestDescontarDerramaABodega(t *testing.T) {
	p := producto(10, 3)
	f := buildStockSvc(p)

	split, err := f.svc.DescontarTx(nil, f.scPrincipal(), p.ID, 8, model.MovimientoVenta, "Venta #2", nil)
	require.NoError(t, err)

	assert.Equal(t, 5, split.DeBodega)
	assert.Equal(t, 3, split.DeLocal)
	assert.Equal(t, 5, f.productos.productos[p.ID].StockBodega)
	assert.Equal(t, 0, f.productos.productos[p.ID].StockLocal)

	// One movement per counter touched, each with its own before/after.
	movs := f.movimientos.porTipo(model.MovimientoVenta)
	require.Len(t, movs, 2)
}

func TestDescontarStockInsuficiente(t *testing.T) {
	p := producto(2, 3)
	f := buildStockSvc(p)

	_, err := f.svc.DescontarTx(nil, f.scPrincipal(), p.ID, 6, model.MovimientoVenta, "Venta #3", nil)
	assert.ErrorIs(t, err, ErrStockInsuficiente)

	// Nothing moved, nothing logged.
	assert.Equal(t, 2, f.productos.productos[p.ID].StockBodega)
	assert.Equal(t, 3, f.productos.productos[p.ID].StockLocal)
	assert.Empty(t, f.movimientos.movimientos)
}

func TestDescontarCantidadInvalida(t *testing.T) {
	p := producto(5, 5)
	f := buildStockSvc(p)

	_, err := f.svc.DescontarTx(nil, f.scPrincipal(), p.ID, 0, model.MovimientoVenta, "x", nil)
	assert.ErrorIs(t, err, ErrCantidadInvalida)
}

func TestDescontarMicroTienda(t *testing.T) {
	p := producto(0, 0)
	f := buildStockSvc(p)
	micro := uuid.New()
	f.tiendaStock.seed(micro, p.ID, 5)

	split, err := f.svc.DescontarTx(nil, f.scMicro(micro), p.ID, 3, model.MovimientoVenta, "Venta #4", nil)
	require.NoError(t, err)

	assert.Equal(t, 0, split.DeBodega)
	assert.Equal(t, 3, split.DeLocal)
	assert.Equal(t, 2, f.tiendaStock.cantidad(micro, p.ID))

	_, err = f.svc.DescontarTx(nil, f.scMicro(micro), p.ID, 3, model.MovimientoVenta, "Venta #5", nil)
	assert.ErrorIs(t, err, ErrStockInsuficiente)
	assert.Equal(t, 2, f.tiendaStock.cantidad(micro, p.ID))
}

func TestDevolverSiempreCreditaLocal(t *testing.T) {
	p := producto(10, 0)
	f := buildStockSvc(p)

	// The original deduction came from bodega; the return lands in local.
	err := f.svc.DevolverTx(nil, f.scPrincipal(), p.ID, 4, model.MovimientoAnulacion, "Anulacion venta #9", nil)
	require.NoError(t, err)

	assert.Equal(t, 10, f.productos.productos[p.ID].StockBodega)
	assert.Equal(t, 4, f.productos.productos[p.ID].StockLocal)

	movs := f.movimientos.porTipo(model.MovimientoAnulacion)
	require.Len(t, movs, 1)
	assert.Equal(t, model.UbicacionLocal, movs[0].Ubicacion)
	assert.Equal(t, 4, movs[0].Cantidad)
}

func TestDevolverMicroCreaFilaConCosto(t *testing.T) {
	p := producto(0, 0)
	f := buildStockSvc(p)
	micro := uuid.New()

	err := f.svc.DevolverTx(nil, f.scMicro(micro), p.ID, 2, model.MovimientoAnulacion, "Anulacion", nil)
	require.NoError(t, err)

	row, err := f.tiendaStock.Find(context.Background(), micro, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, row.Cantidad)
	require.NotNil(t, row.Costo)
	assert.True(t, row.Costo.Equal(p.PrecioCosto))
}

func TestDevolverLoteExitoParcial(t *testing.T) {
	p := producto(0, 5)
	f := buildStockSvc(p)

	res := f.svc.DevolverLote(context.Background(), f.scPrincipal(), []dto.ItemDevolucion{
		{ProductoID: p.ID.String(), Cantidad: 2},
		{ProductoID: uuid.NewString(), Cantidad: 1}, // producto inexistente
	}, model.MovimientoAnulacion, "Anulacion venta #7", nil)

	assert.False(t, res.Exito)
	require.Len(t, res.Resultados, 2)
	assert.True(t, res.Resultados[0].Exito)
	assert.False(t, res.Resultados[1].Exito)
	assert.NotEmpty(t, res.Resultados[1].Error)

	// The good line still applied.
	assert.Equal(t, 7, f.productos.productos[p.ID].StockLocal)
}

func TestAjustarStockAbsoluto(t *testing.T) {
	p := producto(20, 5)
	f := buildStockSvc(p)

	err := f.svc.AjustarStock(context.Background(), f.scPrincipal(), p.ID, dto.AjustarStockRequest{
		Ubicacion:     "bodega",
		NuevaCantidad: 12,
		Motivo:        "conteo fisico",
	})
	require.NoError(t, err)

	assert.Equal(t, 12, f.productos.productos[p.ID].StockBodega)
	assert.Equal(t, 5, f.productos.productos[p.ID].StockLocal)

	movs := f.movimientos.porTipo(model.MovimientoAjuste)
	require.Len(t, movs, 1)
	assert.Equal(t, -8, movs[0].Cantidad)
	assert.Equal(t, 20, movs[0].StockAnterior)
	assert.Equal(t, 12, movs[0].StockNuevo)
}

func TestAjustarStockMicroLocal(t *testing.T) {
	p := producto(0, 0)
	f := buildStockSvc(p)
	micro := uuid.New()
	f.tiendaStock.seed(micro, p.ID, 3)

	err := f.svc.AjustarStock(context.Background(), f.scMicro(micro), p.ID, dto.AjustarStockRequest{
		Ubicacion:     "local",
		NuevaCantidad: 9,
		Motivo:        "recuento",
	})
	require.NoError(t, err)
	assert.Equal(t, 9, f.tiendaStock.cantidad(micro, p.ID))
}

func TestAjustarStockMicroRechazaBodega(t *testing.T) {
	p := producto(0, 0)
	f := buildStockSvc(p)
	micro := uuid.New()
	f.tiendaStock.seed(micro, p.ID, 3)

	err := f.svc.AjustarStock(context.Background(), f.scMicro(micro), p.ID, dto.AjustarStockRequest{
		Ubicacion:     "bodega", // micro only has the local counter
		NuevaCantidad: 9,
		Motivo:        "recuento",
	})
	require.ErrorIs(t, err, ErrUbicacionInvalida)
	assert.Equal(t, 3, f.tiendaStock.cantidad(micro, p.ID))
	assert.Empty(t, f.movimientos.porTipo(model.MovimientoAjuste))
}

func TestMoverEntreUbicaciones(t *testing.T) {
	p := producto(10, 2)
	f := buildStockSvc(p)

	err := f.svc.MoverEntreUbicaciones(context.Background(), f.scPrincipal(), p.ID, dto.MoverStockRequest{
		Desde: "bodega", Hacia: "local", Cantidad: 6,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, f.productos.productos[p.ID].StockBodega)
	assert.Equal(t, 8, f.productos.productos[p.ID].StockLocal)

	// Both counters leave a trace; the total never changes.
	movs := f.movimientos.porTipo(model.MovimientoAjuste)
	require.Len(t, movs, 2)
}

func TestMoverRechazadoEnMicroTienda(t *testing.T) {
	p := producto(0, 0)
	f := buildStockSvc(p)

	err := f.svc.MoverEntreUbicaciones(context.Background(), f.scMicro(uuid.New()), p.ID, dto.MoverStockRequest{
		Desde: "bodega", Hacia: "local", Cantidad: 1,
	})
	assert.ErrorIs(t, err, ErrTiendaInvalida)
}

func TestMoverSinSaldoSuficiente(t *testing.T) {
	p := producto(2, 0)
	f := buildStockSvc(p)

	err := f.svc.MoverEntreUbicaciones(context.Background(), f.scPrincipal(), p.ID, dto.MoverStockRequest{
		Desde: "bodega", Hacia: "local", Cantidad: 5,
	})
	assert.ErrorIs(t, err, ErrStockInsuficiente)
}

func TestSalidaTrasladoPrefiereContadorElegido(t *testing.T) {
	p := producto(10, 4)
	f := buildStockSvc(p)

	// Preferring local with only 4 there: the remaining 3 spill to bodega.
	deBodega, deLocal, err := f.svc.SalidaTrasladoTx(nil, nil, p.ID, 7, model.UbicacionLocal, "Traslado", nil)
	require.NoError(t, err)

	assert.Equal(t, 3, deBodega)
	assert.Equal(t, 4, deLocal)
	assert.Equal(t, 7, f.productos.productos[p.ID].StockBodega)
	assert.Equal(t, 0, f.productos.productos[p.ID].StockLocal)
}

func TestSalidaTrasladoDesdeMicro(t *testing.T) {
	p := producto(0, 0)
	f := buildStockSvc(p)
	micro := uuid.New()
	f.tiendaStock.seed(micro, p.ID, 6)

	deBodega, deLocal, err := f.svc.SalidaTrasladoTx(nil, &micro, p.ID, 6, model.UbicacionBodega, "Traslado", nil)
	require.NoError(t, err)

	assert.Equal(t, 0, deBodega)
	assert.Equal(t, 6, deLocal)
	assert.Equal(t, 0, f.tiendaStock.cantidad(micro, p.ID))
}

func TestEntradaTrasladoAcreditaBodegaEnPrincipal(t *testing.T) {
	p := producto(1, 1)
	f := buildStockSvc(p)

	err := f.svc.EntradaTrasladoTx(nil, nil, p.ID, 5, decimal.NewFromInt(80000), "Recepcion", nil)
	require.NoError(t, err)

	assert.Equal(t, 6, f.productos.productos[p.ID].StockBodega)
	assert.Equal(t, 1, f.productos.productos[p.ID].StockLocal)
}

func TestEntradaTrasladoMicroTomaCostoDelTraslado(t *testing.T) {
	p := producto(0, 0)
	f := buildStockSvc(p)
	micro := uuid.New()
	costo := decimal.NewFromInt(95000)

	err := f.svc.EntradaTrasladoTx(nil, &micro, p.ID, 3, costo, "Recepcion", nil)
	require.NoError(t, err)

	row, err := f.tiendaStock.Find(context.Background(), micro, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, row.Cantidad)
	require.NotNil(t, row.Costo)
	assert.True(t, row.Costo.Equal(costo))
}

func TestReversaTrasladoRestauraContadoresExactos(t *testing.T) {
	p := producto(3, 1)
	f := buildStockSvc(p)

	err := f.svc.ReversaTrasladoTx(nil, nil, p.ID, 2, 5, "Anulacion traslado", nil)
	require.NoError(t, err)

	assert.Equal(t, 5, f.productos.productos[p.ID].StockBodega)
	assert.Equal(t, 6, f.productos.productos[p.ID].StockLocal)

	movs := f.movimientos.porTipo(model.MovimientoTrasladoReversa)
	require.Len(t, movs, 2)
}

func TestReversaTrasladoMicroSumaAmbasPartes(t *testing.T) {
	p := producto(0, 0)
	f := buildStockSvc(p)
	micro := uuid.New()
	f.tiendaStock.seed(micro, p.ID, 1)

	// A micro origin has a single counter: both parts land there.
	err := f.svc.ReversaTrasladoTx(nil, &micro, p.ID, 2, 3, "Anulacion traslado", nil)
	require.NoError(t, err)
	assert.Equal(t, 6, f.tiendaStock.cantidad(micro, p.ID))
}

func TestReversaTrasladoRechazaCantidades(t *testing.T) {
	p := producto(0, 0)
	f := buildStockSvc(p)

	assert.ErrorIs(t, f.svc.ReversaTrasladoTx(nil, nil, p.ID, -1, 2, "x", nil), ErrCantidadInvalida)
	assert.ErrorIs(t, f.svc.ReversaTrasladoTx(nil, nil, p.ID, 0, 0, "x", nil), ErrCantidadInvalida)
}

func TestStockDisponible(t *testing.T) {
	p := producto(7, 2)
	f := buildStockSvc(p)

	disp, err := f.svc.StockDisponible(context.Background(), f.scPrincipal(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, disp.Bodega)
	assert.Equal(t, 2, disp.Local)
	assert.Equal(t, 9, disp.Total)

	// Missing tienda_stock row reads as zero, not as an error.
	disp, err = f.svc.StockDisponible(context.Background(), f.scMicro(uuid.New()), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, disp.Total)
}
