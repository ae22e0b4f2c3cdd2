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

type ventaFixture struct {
	ventas      *stubVentaRepo
	productos   *stubProductoRepo
	tiendaStock *stubTiendaStockRepo
	creditos    *stubCreditoRepo
	movimientos *stubMovimientoRepo
	svc         VentaService
	principalID uuid.UUID
}

func buildVentaSvc(productos ...*model.Producto) *ventaFixture {
	f := &ventaFixture{
		ventas:      newStubVentaRepo(),
		productos:   newStubProductoRepo(productos...),
		tiendaStock: newStubTiendaStockRepo(),
		creditos:    newStubCreditoRepo(),
		movimientos: &stubMovimientoRepo{},
		principalID: uuid.New(),
	}
	stock := NewStockService(f.productos, f.tiendaStock, f.movimientos, f.principalID)
	f.svc = NewVentaService(f.ventas, f.productos, f.tiendaStock, f.creditos, stock, nil, f.principalID)
	return f
}

func (f *ventaFixture) sc() model.StoreContext {
	return model.StoreContext{UsuarioID: uuid.New(), Rol: model.RolVendedor}
}

func (f *ventaFixture) scMicro(tiendaID uuid.UUID) model.StoreContext {
	return model.StoreContext{UsuarioID: uuid.New(), TiendaID: &tiendaID, Rol: model.RolVendedor}
}

func pagoCompleto(total int64) []dto.PagoRequest {
	return []dto.PagoRequest{{Metodo: model.PagoEfectivo, Monto: decimal.NewFromInt(total)}}
}

func TestCrearVentaCompletadaDescuentaStock(t *testing.T) {
	p := producto(10, 3)
	f := buildVentaSvc(p)

	resp, err := f.svc.CrearVenta(context.Background(), f.sc(), dto.CrearVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 5}},
		MetodoPago: model.PagoEfectivo,
		Pagos:      pagoCompleto(600000),
	})
	require.NoError(t, err)

	assert.Equal(t, model.VentaCompletada, resp.Estado)
	assert.Equal(t, 1, resp.NumeroFactura)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(600000)))

	// Local drains first, the remainder comes from bodega.
	assert.Equal(t, 0, f.productos.productos[p.ID].StockLocal)
	assert.Equal(t, 8, f.productos.productos[p.ID].StockBodega)
}

func TestCrearVentaBorradorNoTocaStock(t *testing.T) {
	p := producto(10, 3)
	f := buildVentaSvc(p)

	resp, err := f.svc.CrearVenta(context.Background(), f.sc(), dto.CrearVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 5}},
		MetodoPago: model.PagoEfectivo,
		Borrador:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, model.VentaBorrador, resp.Estado)
	assert.Equal(t, 0, resp.NumeroFactura)
	assert.Equal(t, 10, f.productos.productos[p.ID].StockBodega)
	assert.Equal(t, 3, f.productos.productos[p.ID].StockLocal)
	assert.Empty(t, f.movimientos.movimientos)
}

func TestCrearVentaPagoInsuficiente(t *testing.T) {
	p := producto(10, 10)
	f := buildVentaSvc(p)

	_, err := f.svc.CrearVenta(context.Background(), f.sc(), dto.CrearVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
		MetodoPago: model.PagoEfectivo,
		Pagos:      pagoCompleto(100), // total is 120000
	})
	assert.ErrorIs(t, err, ErrPagoInsuficiente)
}

func TestCrearVentaStockInsuficiente(t *testing.T) {
	p := producto(1, 1)
	f := buildVentaSvc(p)

	_, err := f.svc.CrearVenta(context.Background(), f.sc(), dto.CrearVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 5}},
		MetodoPago: model.PagoEfectivo,
		Pagos:      pagoCompleto(600000),
	})
	assert.ErrorIs(t, err, ErrStockInsuficiente)
}

func TestCrearVentaCreditoRequiereCliente(t *testing.T) {
	p := producto(10, 10)
	f := buildVentaSvc(p)

	_, err := f.svc.CrearVenta(context.Background(), f.sc(), dto.CrearVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
		MetodoPago: model.PagoCredito,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cliente")
}

func TestCrearVentaCreditoAbreCredito(t *testing.T) {
	p := producto(10, 10)
	f := buildVentaSvc(p)
	clienteID := uuid.NewString()

	resp, err := f.svc.CrearVenta(context.Background(), f.sc(), dto.CrearVentaRequest{
		ClienteID:  &clienteID,
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 2}},
		MetodoPago: model.PagoCredito,
	})
	require.NoError(t, err)
	assert.Equal(t, model.VentaCompletada, resp.Estado)

	require.Len(t, f.creditos.creditos, 1)
	for _, c := range f.creditos.creditos {
		assert.Equal(t, model.CreditoPendiente, c.Estado)
		assert.True(t, c.MontoPagado.IsZero())
		assert.True(t, c.MontoPendiente.Equal(c.MontoTotal))
		assert.True(t, c.MontoTotal.Equal(decimal.NewFromInt(240000)))
	}
}

func TestCrearVentaMicroUsaPrecioDeTienda(t *testing.T) {
	p := producto(0, 0)
	f := buildVentaSvc(p)
	micro := uuid.New()
	f.tiendaStock.seed(micro, p.ID, 5)
	precio := decimal.NewFromInt(150000)
	f.tiendaStock.rows[tiendaStockKey{micro, p.ID}].Precio = &precio

	resp, err := f.svc.CrearVenta(context.Background(), f.scMicro(micro), dto.CrearVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 2}},
		MetodoPago: model.PagoEfectivo,
		Pagos:      pagoCompleto(300000),
	})
	require.NoError(t, err)

	assert.True(t, resp.Total.Equal(decimal.NewFromInt(300000)))
	assert.Equal(t, micro.String(), resp.TiendaID)
	assert.Equal(t, 3, f.tiendaStock.cantidad(micro, p.ID))
}

func TestCompletarVentaBorrador(t *testing.T) {
	p := producto(4, 4)
	f := buildVentaSvc(p)

	borrador, err := f.svc.CrearVenta(context.Background(), f.sc(), dto.CrearVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 3}},
		MetodoPago: model.PagoEfectivo,
		Borrador:   true,
	})
	require.NoError(t, err)
	id := uuid.MustParse(borrador.ID)

	resp, err := f.svc.CompletarVenta(context.Background(), f.sc(), id)
	require.NoError(t, err)

	assert.Equal(t, model.VentaCompletada, resp.Estado)
	assert.Equal(t, 1, resp.NumeroFactura)
	assert.Equal(t, 1, f.productos.productos[p.ID].StockLocal)

	// Completing twice must fail: the estado guard already fired.
	_, err = f.svc.CompletarVenta(context.Background(), f.sc(), id)
	assert.ErrorIs(t, err, ErrEstadoInvalido)
}

func TestAnularVentaDevuelveStockALocal(t *testing.T) {
	p := producto(10, 0)
	f := buildVentaSvc(p)

	venta, err := f.svc.CrearVenta(context.Background(), f.sc(), dto.CrearVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 4}},
		MetodoPago: model.PagoEfectivo,
		Pagos:      pagoCompleto(480000),
	})
	require.NoError(t, err)
	assert.Equal(t, 6, f.productos.productos[p.ID].StockBodega)

	resp, err := f.svc.AnularVenta(context.Background(), f.sc(), uuid.MustParse(venta.ID), "cliente desistio")
	require.NoError(t, err)

	assert.True(t, resp.TotalRevertido.Equal(decimal.NewFromInt(480000)))
	require.NotNil(t, resp.DevolucionStock)
	assert.True(t, resp.DevolucionStock.Exito)

	// The deduction drew from bodega; the return still credits local.
	assert.Equal(t, 6, f.productos.productos[p.ID].StockBodega)
	assert.Equal(t, 4, f.productos.productos[p.ID].StockLocal)
}

func TestAnularVentaCreditoAnulaCreditoYAbonos(t *testing.T) {
	p := producto(10, 10)
	f := buildVentaSvc(p)
	clienteID := uuid.NewString()

	venta, err := f.svc.CrearVenta(context.Background(), f.sc(), dto.CrearVentaRequest{
		ClienteID:  &clienteID,
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
		MetodoPago: model.PagoCredito,
	})
	require.NoError(t, err)

	var credito *model.Credito
	for _, c := range f.creditos.creditos {
		credito = c
	}
	require.NotNil(t, credito)

	// Simulate an abono already applied so the writedown has something to report.
	abono := decimal.NewFromInt(50000)
	credito.Abonos = append(credito.Abonos, model.Abono{ID: uuid.New(), CreditoID: credito.ID, Monto: abono})
	credito.MontoPagado = abono
	credito.MontoPendiente = credito.MontoTotal.Sub(abono)

	resp, err := f.svc.AnularVenta(context.Background(), f.sc(), uuid.MustParse(venta.ID), "venta erronea")
	require.NoError(t, err)

	assert.True(t, resp.TotalRevertido.Equal(abono))
	assert.Equal(t, model.CreditoAnulado, credito.Estado)
	for _, a := range credito.Abonos {
		assert.True(t, a.Anulado)
	}
}

func TestAnularVentaYaAnulada(t *testing.T) {
	p := producto(10, 10)
	f := buildVentaSvc(p)

	venta, err := f.svc.CrearVenta(context.Background(), f.sc(), dto.CrearVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
		MetodoPago: model.PagoEfectivo,
		Pagos:      pagoCompleto(120000),
	})
	require.NoError(t, err)
	id := uuid.MustParse(venta.ID)

	_, err = f.svc.AnularVenta(context.Background(), f.sc(), id, "primera")
	require.NoError(t, err)

	_, err = f.svc.AnularVenta(context.Background(), f.sc(), id, "segunda")
	assert.ErrorIs(t, err, ErrEstadoInvalido)
}

func TestAnularBorradorNoDevuelveStock(t *testing.T) {
	p := producto(5, 5)
	f := buildVentaSvc(p)

	venta, err := f.svc.CrearVenta(context.Background(), f.sc(), dto.CrearVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 3}},
		MetodoPago: model.PagoEfectivo,
		Borrador:   true,
	})
	require.NoError(t, err)

	resp, err := f.svc.AnularVenta(context.Background(), f.sc(), uuid.MustParse(venta.ID), "borrador viejo")
	require.NoError(t, err)

	assert.True(t, resp.TotalRevertido.IsZero())
	assert.Nil(t, resp.DevolucionStock)
	assert.Equal(t, 5, f.productos.productos[p.ID].StockBodega)
	assert.Equal(t, 5, f.productos.productos[p.ID].StockLocal)
}

func TestNumeroFacturaConsecutivoPorTienda(t *testing.T) {
	p := producto(20, 20)
	f := buildVentaSvc(p)

	for esperado := 1; esperado <= 3; esperado++ {
		resp, err := f.svc.CrearVenta(context.Background(), f.sc(), dto.CrearVentaRequest{
			Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
			MetodoPago: model.PagoEfectivo,
			Pagos:      pagoCompleto(120000),
		})
		require.NoError(t, err)
		assert.Equal(t, esperado, resp.NumeroFactura)
	}
}

func TestCrearVentaProductoInactivo(t *testing.T) {
	p := producto(10, 10)
	p.Activo = false
	f := buildVentaSvc(p)

	_, err := f.svc.CrearVenta(context.Background(), f.sc(), dto.CrearVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
		MetodoPago: model.PagoEfectivo,
		Pagos:      pagoCompleto(120000),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inactivo")
}
