package service

import (
	"context"
	"fmt"
	"time"

	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/repository"

	"github.com/shopspring/decimal"
)

// reporteChunkSize bounds memory while scanning sales for reports: the scan
// walks the range in fixed pages instead of loading everything at once.
const reporteChunkSize = 1000

type ReporteService interface {
	Rentabilidad(ctx context.Context, filter dto.ReporteRentabilidadFilter) (*dto.ReporteRentabilidadResponse, error)
}

type reporteService struct {
	ventaRepo    repository.VentaRepository
	productoRepo repository.ProductoRepository
}

func NewReporteService(ventaRepo repository.VentaRepository, productoRepo repository.ProductoRepository) ReporteService {
	return &reporteService{ventaRepo: ventaRepo, productoRepo: productoRepo}
}

// Rentabilidad aggregates units, revenue and cost per product over a date
// range. Cost comes from the current catalog cost; historical cost tracking
// is out of scope.
func (s *reporteService) Rentabilidad(ctx context.Context, filter dto.ReporteRentabilidadFilter) (*dto.ReporteRentabilidadResponse, error) {
	desde, hasta, err := rangoFechas(filter.Desde, filter.Hasta)
	if err != nil {
		return nil, err
	}

	type acumulado struct {
		nombre     string
		referencia string
		unidades   int
		ingresos   decimal.Decimal
		costos     decimal.Decimal
	}
	porProducto := map[string]*acumulado{}
	costosCache := map[string]decimal.Decimal{}
	ventasLeidas := 0

	for offset := 0; ; offset += reporteChunkSize {
		ventas, err := s.ventaRepo.ListCompletadasChunk(ctx, desde, hasta, offset, reporteChunkSize)
		if err != nil {
			return nil, err
		}
		if len(ventas) == 0 {
			break
		}
		ventasLeidas += len(ventas)

		for _, v := range ventas {
			for _, item := range v.Items {
				key := item.ProductoID.String()
				acc, ok := porProducto[key]
				if !ok {
					acc = &acumulado{
						nombre:     item.Nombre,
						referencia: item.Referencia,
						ingresos:   decimal.Zero,
						costos:     decimal.Zero,
					}
					porProducto[key] = acc
				}

				costo, ok := costosCache[key]
				if !ok {
					if p, err := s.productoRepo.FindByID(ctx, item.ProductoID); err == nil {
						costo = p.PrecioCosto
					} else {
						costo = decimal.Zero
					}
					costosCache[key] = costo
				}

				acc.unidades += item.Cantidad
				acc.ingresos = acc.ingresos.Add(item.Subtotal)
				acc.costos = acc.costos.Add(costo.Mul(decimal.NewFromInt(int64(item.Cantidad))))
			}
		}

		if len(ventas) < reporteChunkSize {
			break
		}
	}

	resp := &dto.ReporteRentabilidadResponse{
		Desde:         desde.Format("2006-01-02"),
		Hasta:         hasta.AddDate(0, 0, -1).Format("2006-01-02"),
		VentasLeidas:  ventasLeidas,
		TotalIngresos: decimal.Zero,
		TotalUtilidad: decimal.Zero,
	}
	for pid, acc := range porProducto {
		utilidad := acc.ingresos.Sub(acc.costos)
		resp.PorProducto = append(resp.PorProducto, dto.RentabilidadProducto{
			ProductoID: pid,
			Nombre:     acc.nombre,
			Referencia: acc.referencia,
			Unidades:   acc.unidades,
			Ingresos:   acc.ingresos,
			Costos:     acc.costos,
			Utilidad:   utilidad,
		})
		resp.TotalIngresos = resp.TotalIngresos.Add(acc.ingresos)
		resp.TotalUtilidad = resp.TotalUtilidad.Add(utilidad)
	}
	return resp, nil
}

// rangoFechas parses the inclusive YYYY-MM-DD bounds into a [desde, hasta)
// window; defaults to the last 30 days.
func rangoFechas(desdeStr, hastaStr string) (time.Time, time.Time, error) {
	hasta := time.Now().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	desde := hasta.AddDate(0, 0, -30)

	if desdeStr != "" {
		d, err := time.Parse("2006-01-02", desdeStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("fecha desde invalida: %w", err)
		}
		desde = d
	}
	if hastaStr != "" {
		h, err := time.Parse("2006-01-02", hastaStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("fecha hasta invalida: %w", err)
		}
		hasta = h.AddDate(0, 0, 1)
	}
	if !desde.Before(hasta) {
		return time.Time{}, time.Time{}, fmt.Errorf("rango de fechas invalido")
	}
	return desde, hasta, nil
}
