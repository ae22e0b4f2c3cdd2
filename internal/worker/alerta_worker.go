package worker

// alerta_worker.go
// Sends low stock alert mails from QueueAlertas. SMTP sends go through the
// circuit breaker so a dead relay fast-fails instead of blocking the pool.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/programamos-tech/zonat-sub000/internal/infra"

	"github.com/rs/zerolog/log"
)

// AlertaStockPayload is the job envelope sent to QueueAlertas.
type AlertaStockPayload struct {
	ProductoID  string `json:"producto_id"`
	Referencia  string `json:"referencia"`
	Nombre      string `json:"nombre"`
	StockBodega int    `json:"stock_bodega"`
	StockLocal  int    `json:"stock_local"`
	StockMinimo int    `json:"stock_minimo"`
}

// AlertaWorker mails low stock notifications to the configured address.
type AlertaWorker struct {
	mailer       *infra.Mailer
	cb           *infra.CircuitBreaker
	destinatario string
}

func NewAlertaWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, destinatario string) *AlertaWorker {
	return &AlertaWorker{mailer: mailer, cb: cb, destinatario: destinatario}
}

func (w *AlertaWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload AlertaStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("alerta_worker: invalid payload: %w", err)
	}
	if w.destinatario == "" {
		log.Warn().Str("referencia", payload.Referencia).Msg("alerta_worker: no alert address configured, skipping")
		return nil
	}

	subject := fmt.Sprintf("Stock bajo: %s (%s)", payload.Nombre, payload.Referencia)
	body := fmt.Sprintf(
		"El producto %s (ref %s) esta por debajo del minimo.\n\n"+
			"Bodega: %d\nLocal: %d\nTotal: %d\nMinimo configurado: %d\n",
		payload.Nombre, payload.Referencia,
		payload.StockBodega, payload.StockLocal,
		payload.StockBodega+payload.StockLocal, payload.StockMinimo,
	)

	sendErr := withRetry(ctx, 3, func(attempt int) error {
		err := w.cb.Execute(func() error {
			return w.mailer.Send(w.destinatario, subject, body, "")
		})
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("referencia", payload.Referencia).
				Msg("alerta_worker: send attempt failed")
		}
		return err
	})
	if sendErr != nil {
		return fmt.Errorf("alerta_worker: send alert for %s: %w", payload.Referencia, sendErr)
	}

	log.Info().Str("referencia", payload.Referencia).Str("to", w.destinatario).Msg("alerta_worker: alert sent")
	return nil
}
