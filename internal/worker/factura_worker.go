package worker

// factura_worker.go
// Renders completed sales as receipt PDFs from QueuePDF. The queue carries the
// internal invoices generated for traslados as well as regular sale receipts;
// both go through the same renderer.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/programamos-tech/zonat-sub000/internal/infra"
	"github.com/programamos-tech/zonat-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FacturaPDFPayload is the job envelope sent to QueuePDF.
type FacturaPDFPayload struct {
	VentaID string `json:"venta_id"`
}

// FacturaWorker generates the PDF file for a completed venta.
type FacturaWorker struct {
	ventaRepo      repository.VentaRepository
	tiendaRepo     repository.TiendaRepository
	pdfStoragePath string
}

func NewFacturaWorker(ventaRepo repository.VentaRepository, tiendaRepo repository.TiendaRepository, pdfStoragePath string) *FacturaWorker {
	return &FacturaWorker{
		ventaRepo:      ventaRepo,
		tiendaRepo:     tiendaRepo,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process fetches the venta with its items and pagos, resolves the issuing
// store's name for the header and writes the PDF to disk. Rendering is
// retried because the fetch can race the committing transaction.
func (w *FacturaWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload FacturaPDFPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("factura_worker: invalid payload: %w", err)
	}

	ventaID, err := uuid.Parse(payload.VentaID)
	if err != nil {
		return fmt.Errorf("factura_worker: invalid venta_id %q: %w", payload.VentaID, err)
	}

	var pdfPath string
	genErr := withRetry(ctx, 3, func(attempt int) error {
		venta, err := w.ventaRepo.FindByID(ctx, ventaID)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("venta_id", payload.VentaID).
				Msg("factura_worker: venta not found yet, retrying")
			return err
		}

		nombreTienda := "Zonat"
		if tienda, err := w.tiendaRepo.FindByID(ctx, venta.TiendaID); err == nil {
			nombreTienda = tienda.Nombre
		}

		path, err := infra.GenerateFacturaPDF(venta, nombreTienda, w.pdfStoragePath)
		if err != nil {
			return err
		}
		pdfPath = path
		return nil
	})
	if genErr != nil {
		return fmt.Errorf("factura_worker: generate pdf for venta %s: %w", payload.VentaID, genErr)
	}

	log.Info().Str("pdf", pdfPath).Str("venta_id", payload.VentaID).Msg("factura_worker: PDF generated")
	return nil
}
