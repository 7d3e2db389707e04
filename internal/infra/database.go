package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/soniaGuev/SecBienestar/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx. Schema management
// (AutoMigrate + SQL patches) is done by cmd/migrate, not on every startup.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Services match on gorm.ErrDuplicatedKey to turn unique-index
		// violations into policy errors.
		TranslateError: true,
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

	return db, nil
}

// Migrate runs AutoMigrate for every model and then applies the idempotent
// SQL patches GORM cannot express (the ticket-number sequence and the partial
// unique index that keeps at most one live Comedor grant per student).
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Persona{},
		&model.PersonaEstudiante{},
		&model.PersonaIngresante{},
		&model.PersonaDocente{},
		&model.PersonaNoDocente{},
		&model.PersonaEgresado{},
		&model.Beca{},
		&model.BeneficioComedor{},
		&model.PersonaBeca{},
		&model.TipoMenu{},
		&model.ConfiguracionMenu{},
		&model.CompraTickets{},
		&model.Ticket{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches is fully idempotent: each statement is guarded so
// re-running on an already-patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Sequence backing the human-readable ticket numbers (TCK-%06d).
		{"create tickets numero sequence",
			`CREATE SEQUENCE IF NOT EXISTS tickets_numero_seq START 1`},

		// At most one live (no RECHAZADA/VENCIDA) Comedor-cascade candidate
		// check is done under the row lock in the service; this index keeps
		// the (grantee, beca, fecha_inicio) tuple unique for ingresantes
		// too, which GORM's struct tag only covers for estudiantes.
		{"unique grant per ingresante/beca/inicio", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_ingresante_beca_inicio') THEN
    CREATE UNIQUE INDEX uni_ingresante_beca_inicio
      ON persona_becas (persona_ingresante_id, beca_id, fecha_inicio)
      WHERE persona_ingresante_id IS NOT NULL;
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("%s: %w", p.descr, err)
		}
	}
	return nil
}
