package infra

import (
	"fmt"

	"github.com/programamos-tech/zonat-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// AutoMigrate cannot express (extensions, partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates the schema. Shared with integration tests,
// which call it against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() lives in pgcrypto on Postgres < 13.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Tienda{},
		&model.Usuario{},
		&model.Producto{},
		&model.TiendaStock{},
		&model.Cliente{},
		&model.Venta{},
		&model.VentaItem{},
		&model.VentaPago{},
		&model.Credito{},
		&model.Abono{},
		&model.Traslado{},
		&model.TrasladoItem{},
		&model.Garantia{},
		&model.MovimientoStock{},
		&model.Bitacora{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that GORM tags cannot express.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Hot query of the traslado screens: open transfers per destination.
		{"partial index traslados pendientes", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_traslados_abiertos') THEN
    CREATE INDEX idx_traslados_abiertos
        ON traslados (destino_tienda_id, created_at)
        WHERE estado IN ('pendiente', 'en_transito');
  END IF;
END $$`},
		// Credit collection screens list only open balances.
		{"partial index creditos activos", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_creditos_activos') THEN
    CREATE INDEX idx_creditos_activos
        ON creditos (cliente_id)
        WHERE estado IN ('pendiente', 'parcial');
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
